package transport

import (
	"time"

	"go.bug.st/serial"
)

// Kind identifies the link type behind a Transport.
type Kind uint8

const (
	// KindNetwork is a TCP link.
	KindNetwork Kind = iota

	// KindSerial is a serial line.
	KindSerial
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindSerial:
		return "serial"
	default:
		return "unknown"
	}
}

// Timeout defaults.
const (
	// DefaultReadTimeout bounds every ReadFull.
	DefaultReadTimeout = 1 * time.Second

	// DefaultConnectTimeout bounds a TCP dial when the context has no deadline.
	DefaultConnectTimeout = 1 * time.Second

	// DefaultWriteTimeout bounds a network Flush.
	DefaultWriteTimeout = 1 * time.Second
)

// Config configures a transport. Zero values select the defaults.
type Config struct {
	// ReadTimeout bounds each ReadFull call (default: 1s).
	ReadTimeout time.Duration

	// ConnectTimeout bounds Dial when ctx carries no deadline (default: 1s).
	ConnectTimeout time.Duration

	// WriteTimeout bounds a network Flush (default: 1s).
	WriteTimeout time.Duration

	// OpenPort opens a serial port. Defaults to go.bug.st/serial.
	OpenPort PortOpener
}

func (c Config) withDefaults() Config {
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = DefaultReadTimeout
	}
	if c.ConnectTimeout <= 0 {
		c.ConnectTimeout = DefaultConnectTimeout
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = DefaultWriteTimeout
	}
	if c.OpenPort == nil {
		c.OpenPort = OpenSystemPort
	}
	return c
}

// SerialPort is the subset of serial.Port a SerialTransport uses.
type SerialPort interface {
	Read(p []byte) (int, error)
	Write(p []byte) (int, error)
	Drain() error
	SetReadTimeout(t time.Duration) error
	Close() error
}

// PortOpener opens the named serial port with the given mode.
type PortOpener func(name string, mode *serial.Mode) (SerialPort, error)

// OpenSystemPort opens a real serial port.
func OpenSystemPort(name string, mode *serial.Mode) (SerialPort, error) {
	return serial.Open(name, mode)
}

var _ SerialPort = (serial.Port)(nil)
