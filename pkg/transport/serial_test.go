package transport

import (
	"bytes"
	"errors"
	"sync"
	"testing"
	"time"

	"go.bug.st/serial"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePort emulates go.bug.st/serial: Read returns (0, nil) once the
// configured timeout elapses with nothing to read.
type fakePort struct {
	mu       sync.Mutex
	rx       bytes.Buffer
	tx       bytes.Buffer
	timeout  time.Duration
	chunk    int
	writeErr error
	drainErr error
	drained  int
	closed   bool
}

func (p *fakePort) Read(b []byte) (int, error) {
	p.mu.Lock()
	if p.rx.Len() == 0 {
		timeout := p.timeout
		p.mu.Unlock()
		time.Sleep(timeout)
		return 0, nil
	}
	defer p.mu.Unlock()
	if p.chunk > 0 && len(b) > p.chunk {
		b = b[:p.chunk]
	}
	return p.rx.Read(b)
}

func (p *fakePort) Write(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.writeErr != nil {
		return 0, p.writeErr
	}
	return p.tx.Write(b)
}

func (p *fakePort) Drain() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.drained++
	return p.drainErr
}

func (p *fakePort) SetReadTimeout(t time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.timeout = t
	return nil
}

func (p *fakePort) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

func openFake(t *testing.T, port *fakePort, cfg Config) *SerialTransport {
	t.Helper()
	cfg.OpenPort = func(name string, mode *serial.Mode) (SerialPort, error) {
		return port, nil
	}
	tr, err := OpenSerial("/dev/ttyFAKE0", 115200, cfg)
	require.NoError(t, err)
	return tr
}

func TestOpenSerialMode(t *testing.T) {
	var gotName string
	var gotMode *serial.Mode
	cfg := Config{OpenPort: func(name string, mode *serial.Mode) (SerialPort, error) {
		gotName, gotMode = name, mode
		return &fakePort{}, nil
	}}

	tr, err := OpenSerial("COM3", 1048576, cfg)
	require.NoError(t, err)

	assert.Equal(t, "COM3", gotName)
	assert.Equal(t, 1048576, gotMode.BaudRate)
	assert.Equal(t, 8, gotMode.DataBits)
	assert.Equal(t, serial.NoParity, gotMode.Parity)
	assert.Equal(t, serial.OneStopBit, gotMode.StopBits)
	assert.Equal(t, KindSerial, tr.Kind())
	assert.Equal(t, "COM3", tr.Address())
	assert.Equal(t, 1048576, tr.BaudRate())
}

func TestOpenSerialFailure(t *testing.T) {
	busy := errors.New("port busy")
	cfg := Config{OpenPort: func(string, *serial.Mode) (SerialPort, error) {
		return nil, busy
	}}

	_, err := OpenSerial("COM9", 115200, cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, busy)

	var opErr *OpError
	require.True(t, errors.As(err, &opErr))
	assert.Equal(t, "open", opErr.Op)
	assert.Equal(t, "COM9", opErr.Addr)
}

func TestSerialWriteFlushDrains(t *testing.T) {
	port := &fakePort{}
	tr := openFake(t, port, Config{})

	require.NoError(t, tr.Write([]byte{0x55, 0xAA}))
	assert.Zero(t, port.tx.Len(), "writes are buffered until Flush")

	require.NoError(t, tr.Flush())
	assert.Equal(t, []byte{0x55, 0xAA}, port.tx.Bytes())
	assert.Equal(t, 1, port.drained)
}

func TestSerialReadFullAcrossChunks(t *testing.T) {
	port := &fakePort{chunk: 5}
	port.rx.Write(bytes.Repeat([]byte{0x11}, 22))
	tr := openFake(t, port, Config{ReadTimeout: 200 * time.Millisecond})

	buf := make([]byte, 22)
	require.NoError(t, tr.ReadFull(buf))
	assert.Equal(t, bytes.Repeat([]byte{0x11}, 22), buf)
}

func TestSerialReadTimeout(t *testing.T) {
	port := &fakePort{}
	port.rx.Write([]byte{0x55, 0xAA})
	tr := openFake(t, port, Config{ReadTimeout: 50 * time.Millisecond})

	start := time.Now()
	err := tr.ReadFull(make([]byte, 22))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTimeout)
	assert.Less(t, time.Since(start), time.Second)
	assert.True(t, tr.Alive())
}

func TestSerialFlushFailureIsTerminal(t *testing.T) {
	port := &fakePort{drainErr: errors.New("device unplugged")}
	tr := openFake(t, port, Config{})

	require.NoError(t, tr.Write([]byte{0x01}))
	require.Error(t, tr.Flush())
	assert.False(t, tr.Alive())
	assert.ErrorIs(t, tr.Write([]byte{0x01}), ErrDead)
}

func TestSerialClose(t *testing.T) {
	port := &fakePort{}
	tr := openFake(t, port, Config{})

	require.NoError(t, tr.Close())
	require.NoError(t, tr.Close())
	assert.True(t, port.closed)
	assert.ErrorIs(t, tr.ReadFull(make([]byte, 1)), ErrClosed)
}
