package transport

import "github.com/novastar-protocol/novastar-go/pkg/log"

// Transport is a bidirectional byte link to one controller.
// Implemented by NetworkTransport and SerialTransport.
//
// A Transport has a single reader and a single writer; it is not meant to
// be shared between concurrent request/response exchanges.
type Transport interface {
	// Kind reports whether this is a network or serial link.
	Kind() Kind

	// Address returns the peer address (host:port) or the serial port name.
	Address() string

	// ReadFull reads exactly len(buf) bytes or fails with a timeout.
	ReadFull(buf []byte) error

	// Write buffers data for sending.
	Write(data []byte) error

	// Flush pushes buffered data onto the link.
	Flush() error

	// Close releases the link.
	Close() error

	// Alive reports false once a write or flush has failed.
	Alive() bool
}

// FrameLogger is implemented by transports that can capture raw frames.
type FrameLogger interface {
	// SetLogger configures protocol capture. Pass nil to disable it.
	SetLogger(logger log.Logger, connID string)
}

// Compile-time interface satisfaction checks.
var (
	_ Transport   = (*NetworkTransport)(nil)
	_ Transport   = (*SerialTransport)(nil)
	_ FrameLogger = (*NetworkTransport)(nil)
	_ FrameLogger = (*SerialTransport)(nil)
)
