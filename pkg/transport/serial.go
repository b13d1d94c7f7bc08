package transport

import (
	"bufio"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"go.bug.st/serial"

	"github.com/novastar-protocol/novastar-go/pkg/log"
)

// SerialTransport is a serial-line link to a controller.
type SerialTransport struct {
	port     SerialPort
	writer   *bufio.Writer
	config   Config
	name     string
	baudRate int

	capture frameCapture

	dead      atomic.Bool
	closed    atomic.Bool
	closeOnce sync.Once
	writeMu   sync.Mutex
	readMu    sync.Mutex
}

// OpenSerial opens the named port at baudRate with 8 data bits, no parity
// and one stop bit.
func OpenSerial(name string, baudRate int, cfg Config) (*SerialTransport, error) {
	cfg = cfg.withDefaults()

	mode := &serial.Mode{
		BaudRate: baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	port, err := cfg.OpenPort(name, mode)
	if err != nil {
		return nil, &OpError{Op: "open", Kind: KindSerial, Addr: name, Err: err}
	}
	if err := port.SetReadTimeout(cfg.ReadTimeout); err != nil {
		port.Close()
		return nil, &OpError{Op: "open", Kind: KindSerial, Addr: name, Err: err}
	}

	t := &SerialTransport{
		port:     port,
		writer:   bufio.NewWriter(port),
		config:   cfg,
		name:     name,
		baudRate: baudRate,
	}
	t.capture.kind = KindSerial
	t.capture.addr = name
	return t, nil
}

// Kind returns KindSerial.
func (t *SerialTransport) Kind() Kind { return KindSerial }

// Address returns the port name.
func (t *SerialTransport) Address() string { return t.name }

// BaudRate returns the line speed the port was opened with.
func (t *SerialTransport) BaudRate() int { return t.baudRate }

// Alive reports whether the link is still usable for writes.
func (t *SerialTransport) Alive() bool {
	return !t.dead.Load() && !t.closed.Load()
}

// SetLogger configures frame capture for this link.
func (t *SerialTransport) SetLogger(logger log.Logger, connID string) {
	t.capture.set(logger, connID)
}

// ReadFull reads exactly len(buf) bytes. The whole call is bounded by the
// read timeout; the port returns (0, nil) when its own timeout elapses.
func (t *SerialTransport) ReadFull(buf []byte) error {
	t.readMu.Lock()
	defer t.readMu.Unlock()

	if err := t.usable("read"); err != nil {
		return err
	}

	deadline := time.Now().Add(t.config.ReadTimeout)
	n := 0
	for n < len(buf) {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return t.opError("read", ErrTimeout)
		}
		if err := t.port.SetReadTimeout(remaining); err != nil {
			return t.opError("read", err)
		}

		m, err := t.port.Read(buf[n:])
		n += m
		if err != nil {
			if err == io.EOF && m > 0 {
				continue
			}
			return t.opError("read", err)
		}
		if m == 0 && !time.Now().Before(deadline) {
			return t.opError("read", ErrTimeout)
		}
	}

	t.capture.emit(buf, log.DirectionIn)
	return nil
}

// Write buffers data. A failure marks the transport dead.
func (t *SerialTransport) Write(data []byte) error {
	t.writeMu.Lock()
	defer t.writeMu.Unlock()

	if err := t.usable("write"); err != nil {
		return err
	}
	if _, err := t.writer.Write(data); err != nil {
		t.dead.Store(true)
		return t.opError("write", err)
	}

	t.capture.emit(data, log.DirectionOut)
	return nil
}

// Flush writes buffered data and waits until the port has transmitted it.
// A failure marks the transport dead.
func (t *SerialTransport) Flush() error {
	t.writeMu.Lock()
	defer t.writeMu.Unlock()

	if err := t.usable("flush"); err != nil {
		return err
	}
	if err := t.writer.Flush(); err != nil {
		t.dead.Store(true)
		return t.opError("flush", err)
	}
	if err := t.port.Drain(); err != nil {
		t.dead.Store(true)
		return t.opError("flush", err)
	}
	return nil
}

// Close closes the port. It is safe to call Close multiple times.
func (t *SerialTransport) Close() error {
	var err error
	t.closeOnce.Do(func() {
		t.closed.Store(true)
		if cerr := t.port.Close(); cerr != nil {
			err = t.opError("close", cerr)
		}
	})
	return err
}

func (t *SerialTransport) usable(op string) error {
	if t.closed.Load() {
		return t.opError(op, ErrClosed)
	}
	if t.dead.Load() {
		return t.opError(op, ErrDead)
	}
	return nil
}

func (t *SerialTransport) opError(op string, err error) *OpError {
	return &OpError{Op: op, Kind: KindSerial, Addr: t.name, Err: err}
}

// ListPorts returns the serial ports present on the system.
func ListPorts() ([]string, error) {
	return serial.GetPortsList()
}
