package transport

import (
	"errors"
	"fmt"
)

// Transport errors.
var (
	// ErrTimeout indicates a read did not complete within the read timeout.
	ErrTimeout = errors.New("read timeout")

	// ErrDead indicates a previous write failed and the link is unusable.
	ErrDead = errors.New("transport dead")

	// ErrClosed indicates the transport was closed by the caller.
	ErrClosed = errors.New("transport closed")
)

// OpError describes a failed transport operation.
type OpError struct {
	// Op is the operation: "dial", "open", "read", "write", "flush" or "close".
	Op string

	// Kind is the link kind.
	Kind Kind

	// Addr is the peer address or serial port name.
	Addr string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *OpError) Error() string {
	return fmt.Sprintf("%s %s %s: %v", e.Op, e.Kind, e.Addr, e.Err)
}

// Unwrap returns the underlying error.
func (e *OpError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the operation failed because the read timeout
// elapsed.
func (e *OpError) Timeout() bool {
	return errors.Is(e.Err, ErrTimeout)
}
