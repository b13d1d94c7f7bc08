package log

import (
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/novastar-protocol/novastar-go/pkg/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileLoggerWritesAndReadsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "capture"+FileExtension)

	logger, err := NewFileLogger(path)
	require.NoError(t, err)

	p := wire.NewScanboardPacket(wire.OpWrite, wire.GlobalBrightnessAddr, []byte{0x80})
	events := []Event{
		{
			ConnectionID: "conn-1",
			Direction:    DirectionOut,
			Layer:        LayerTransport,
			Category:     CategoryPacket,
			Frame:        &FrameEvent{Size: 21, Data: wire.Marshal(p)},
		},
		{
			ConnectionID: "conn-1",
			Direction:    DirectionOut,
			Layer:        LayerWire,
			Category:     CategoryPacket,
			Packet:       NewPacketEvent(&p, DirectionOut),
		},
	}
	for _, ev := range events {
		Emit(logger, ev)
	}
	require.NoError(t, logger.Close())
	assert.Equal(t, 0, logger.Dropped())

	reader, err := NewReader(path)
	require.NoError(t, err)
	defer reader.Close()

	for i := range events {
		got, err := reader.Next()
		require.NoError(t, err, "event %d", i)
		assert.Equal(t, events[i].Layer, got.Layer)
		assert.False(t, got.Timestamp.IsZero())
	}

	_, err = reader.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestFileLoggerAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "append"+FileExtension)

	for i := 0; i < 2; i++ {
		logger, err := NewFileLogger(path)
		require.NoError(t, err)
		logger.Log(Event{Timestamp: time.Now(), ConnectionID: "run"})
		require.NoError(t, logger.Close())
	}

	reader, err := NewReader(path)
	require.NoError(t, err)
	defer reader.Close()

	count := 0
	for {
		if _, err := reader.Next(); err != nil {
			break
		}
		count++
	}
	assert.Equal(t, 2, count)
}

func TestFileLoggerConcurrentWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "concurrent"+FileExtension)
	logger, err := NewFileLogger(path)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				logger.Log(Event{Timestamp: time.Now(), Category: CategoryPacket})
			}
		}()
	}
	wg.Wait()
	require.NoError(t, logger.Close())

	reader, err := NewReader(path)
	require.NoError(t, err)
	defer reader.Close()

	count := 0
	for {
		if _, err := reader.Next(); err != nil {
			break
		}
		count++
	}
	assert.Equal(t, 200, count)
}

func TestFileLoggerCloseIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "close"+FileExtension)
	logger, err := NewFileLogger(path)
	require.NoError(t, err)

	require.NoError(t, logger.Close())
	require.NoError(t, logger.Close())

	logger.Log(Event{Timestamp: time.Now()})

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Zero(t, info.Size(), "events after Close are ignored")
}

func TestNewFileLoggerBadPath(t *testing.T) {
	_, err := NewFileLogger(filepath.Join(t.TempDir(), "missing", "dir", "x.nlog"))
	assert.Error(t, err)
}
