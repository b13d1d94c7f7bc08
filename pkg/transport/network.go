package transport

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/novastar-protocol/novastar-go/pkg/log"
)

// NetworkTransport is a TCP link to a controller.
type NetworkTransport struct {
	conn   net.Conn
	writer *bufio.Writer
	config Config
	addr   string

	capture frameCapture

	dead      atomic.Bool
	closed    atomic.Bool
	closeOnce sync.Once
	writeMu   sync.Mutex
	readMu    sync.Mutex
}

// Dial connects to addr (host:port). When ctx has no deadline the dial is
// bounded by cfg.ConnectTimeout.
func Dial(ctx context.Context, addr string, cfg Config) (*NetworkTransport, error) {
	cfg = cfg.withDefaults()

	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}

	dialer := &net.Dialer{}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, &OpError{Op: "dial", Kind: KindNetwork, Addr: addr, Err: err}
	}

	return NewNetworkTransport(conn, cfg), nil
}

// NewNetworkTransport wraps an established connection.
func NewNetworkTransport(conn net.Conn, cfg Config) *NetworkTransport {
	cfg = cfg.withDefaults()
	addr := ""
	if ra := conn.RemoteAddr(); ra != nil {
		addr = ra.String()
	}

	t := &NetworkTransport{
		conn:   conn,
		writer: bufio.NewWriter(conn),
		config: cfg,
		addr:   addr,
	}
	t.capture.kind = KindNetwork
	t.capture.addr = addr
	return t
}

// Kind returns KindNetwork.
func (t *NetworkTransport) Kind() Kind { return KindNetwork }

// Address returns the remote host:port.
func (t *NetworkTransport) Address() string { return t.addr }

// Alive reports whether the link is still usable for writes.
func (t *NetworkTransport) Alive() bool {
	return !t.dead.Load() && !t.closed.Load()
}

// SetLogger configures frame capture for this link.
func (t *NetworkTransport) SetLogger(logger log.Logger, connID string) {
	t.capture.set(logger, connID)
}

// ReadFull reads exactly len(buf) bytes within the read timeout.
func (t *NetworkTransport) ReadFull(buf []byte) error {
	t.readMu.Lock()
	defer t.readMu.Unlock()

	if err := t.usable("read"); err != nil {
		return err
	}

	if err := t.conn.SetReadDeadline(time.Now().Add(t.config.ReadTimeout)); err != nil {
		return t.opError("read", err)
	}
	defer t.conn.SetReadDeadline(time.Time{})

	if _, err := io.ReadFull(t.conn, buf); err != nil {
		if isTimeout(err) {
			return t.opError("read", ErrTimeout)
		}
		return t.opError("read", err)
	}

	t.capture.emit(buf, log.DirectionIn)
	return nil
}

// Write buffers data. A failure marks the transport dead.
func (t *NetworkTransport) Write(data []byte) error {
	t.writeMu.Lock()
	defer t.writeMu.Unlock()

	if err := t.usable("write"); err != nil {
		return err
	}

	if err := t.setWriteDeadline(); err != nil {
		t.dead.Store(true)
		return t.opError("write", err)
	}
	if _, err := t.writer.Write(data); err != nil {
		t.dead.Store(true)
		return t.opError("write", err)
	}

	t.capture.emit(data, log.DirectionOut)
	return nil
}

// Flush sends buffered data. A failure marks the transport dead.
func (t *NetworkTransport) Flush() error {
	t.writeMu.Lock()
	defer t.writeMu.Unlock()

	if err := t.usable("flush"); err != nil {
		return err
	}

	if err := t.setWriteDeadline(); err != nil {
		t.dead.Store(true)
		return t.opError("flush", err)
	}
	if err := t.writer.Flush(); err != nil {
		t.dead.Store(true)
		return t.opError("flush", err)
	}
	return nil
}

// Close closes the connection. It is safe to call Close multiple times.
func (t *NetworkTransport) Close() error {
	var err error
	t.closeOnce.Do(func() {
		t.closed.Store(true)
		if cerr := t.conn.Close(); cerr != nil {
			err = t.opError("close", cerr)
		}
	})
	return err
}

func (t *NetworkTransport) setWriteDeadline() error {
	return t.conn.SetWriteDeadline(time.Now().Add(t.config.WriteTimeout))
}

func (t *NetworkTransport) usable(op string) error {
	if t.closed.Load() {
		return t.opError(op, ErrClosed)
	}
	if t.dead.Load() {
		return t.opError(op, ErrDead)
	}
	return nil
}

func (t *NetworkTransport) opError(op string, err error) *OpError {
	return &OpError{Op: op, Kind: KindNetwork, Addr: t.addr, Err: err}
}

func isTimeout(err error) bool {
	if errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
