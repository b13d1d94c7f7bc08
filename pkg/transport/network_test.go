package transport

import (
	"context"
	"errors"
	"io"
	"net"
	"testing"
	"time"

	"github.com/novastar-protocol/novastar-go/pkg/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureLogger records events for tests.
type captureLogger struct {
	events chan log.Event
}

func newCaptureLogger() *captureLogger {
	return &captureLogger{events: make(chan log.Event, 16)}
}

func (c *captureLogger) Log(event log.Event) {
	c.events <- event
}

func pipeTransport(t *testing.T, cfg Config) (*NetworkTransport, net.Conn) {
	t.Helper()
	client, server := net.Pipe()
	t.Cleanup(func() {
		client.Close()
		server.Close()
	})
	return NewNetworkTransport(client, cfg), server
}

func TestDialAndExchange(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		buf := make([]byte, 4)
		if _, err := io.ReadFull(conn, buf); err != nil {
			return
		}
		conn.Write([]byte{0x55, 0xAA, buf[2], buf[3], 0x01})
	}()

	tr, err := Dial(context.Background(), ln.Addr().String(), Config{})
	require.NoError(t, err)
	defer tr.Close()

	assert.Equal(t, KindNetwork, tr.Kind())
	assert.Equal(t, ln.Addr().String(), tr.Address())
	assert.True(t, tr.Alive())

	require.NoError(t, tr.Write([]byte{0x55, 0xAA}))
	require.NoError(t, tr.Write([]byte{0x07, 0x08}))
	require.NoError(t, tr.Flush())

	resp := make([]byte, 5)
	require.NoError(t, tr.ReadFull(resp))
	assert.Equal(t, []byte{0x55, 0xAA, 0x07, 0x08, 0x01}, resp)
}

func TestDialRefused(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	ln.Close()

	_, err = Dial(context.Background(), addr, Config{ConnectTimeout: 200 * time.Millisecond})
	require.Error(t, err)

	var opErr *OpError
	require.True(t, errors.As(err, &opErr))
	assert.Equal(t, "dial", opErr.Op)
	assert.Equal(t, KindNetwork, opErr.Kind)
	assert.Equal(t, addr, opErr.Addr)
}

func TestNetworkReadTimeout(t *testing.T) {
	tr, _ := pipeTransport(t, Config{ReadTimeout: 50 * time.Millisecond})

	start := time.Now()
	err := tr.ReadFull(make([]byte, 22))
	elapsed := time.Since(start)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTimeout)
	assert.Less(t, elapsed, time.Second)

	var opErr *OpError
	require.True(t, errors.As(err, &opErr))
	assert.True(t, opErr.Timeout())
	assert.True(t, tr.Alive(), "read timeouts are not terminal")
}

func TestNetworkPartialReadTimesOut(t *testing.T) {
	tr, server := pipeTransport(t, Config{ReadTimeout: 100 * time.Millisecond})

	go server.Write([]byte{0x55, 0xAA, 0x00})

	err := tr.ReadFull(make([]byte, 22))
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestNetworkFlushFailureIsTerminal(t *testing.T) {
	tr, server := pipeTransport(t, Config{})
	server.Close()

	require.NoError(t, tr.Write([]byte{0x01}), "buffered write succeeds")
	err := tr.Flush()
	require.Error(t, err)
	assert.False(t, tr.Alive())

	err = tr.Write([]byte{0x02})
	assert.ErrorIs(t, err, ErrDead)
	assert.ErrorIs(t, tr.Flush(), ErrDead)
	assert.ErrorIs(t, tr.ReadFull(make([]byte, 1)), ErrDead)
}

func TestNetworkClose(t *testing.T) {
	tr, _ := pipeTransport(t, Config{})

	require.NoError(t, tr.Close())
	require.NoError(t, tr.Close())
	assert.False(t, tr.Alive())
	assert.ErrorIs(t, tr.Write([]byte{1}), ErrClosed)
}

func TestNetworkFrameCapture(t *testing.T) {
	tr, server := pipeTransport(t, Config{})
	logger := newCaptureLogger()
	tr.SetLogger(logger, "conn-1")

	go func() {
		buf := make([]byte, 2)
		io.ReadFull(server, buf)
		server.Write([]byte{0xAB, 0xCD, 0xEF})
	}()

	require.NoError(t, tr.Write([]byte{0x55, 0xAA}))
	require.NoError(t, tr.Flush())
	require.NoError(t, tr.ReadFull(make([]byte, 3)))

	out := <-logger.events
	assert.Equal(t, log.DirectionOut, out.Direction)
	assert.Equal(t, log.LayerTransport, out.Layer)
	assert.Equal(t, "conn-1", out.ConnectionID)
	assert.Equal(t, "network", out.Transport)
	require.NotNil(t, out.Frame)
	assert.Equal(t, []byte{0x55, 0xAA}, out.Frame.Data)

	in := <-logger.events
	assert.Equal(t, log.DirectionIn, in.Direction)
	assert.Equal(t, 3, in.Frame.Size)
}

func TestMakeFrameEventTruncates(t *testing.T) {
	data := make([]byte, MaxLogFrameDataSize+10)
	ev := makeFrameEvent(data, log.DirectionOut, "c", KindSerial, "COM1")

	assert.True(t, ev.Frame.Truncated)
	assert.Len(t, ev.Frame.Data, MaxLogFrameDataSize)
	assert.Equal(t, len(data), ev.Frame.Size)
	assert.Equal(t, "serial", ev.Transport)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "network", KindNetwork.String())
	assert.Equal(t, "serial", KindSerial.String())
	assert.Equal(t, "unknown", Kind(9).String())
}
