package device

import (
	"log/slog"

	"github.com/novastar-protocol/novastar-go/pkg/log"
)

// CommandRecorder observes command outcomes, e.g. for metrics.
type CommandRecorder interface {
	ObserveCommand(command string, err error)
}

type options struct {
	logger         *slog.Logger
	protocolLogger log.Logger
	recorder       CommandRecorder
	id             string
}

// Option configures a Device.
type Option func(*options)

// WithLogger sets the operational logger (default: slog.Default()).
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithProtocolLogger enables protocol capture for the device link.
func WithProtocolLogger(l log.Logger) Option {
	return func(o *options) { o.protocolLogger = l }
}

// WithRecorder sets the command outcome recorder.
func WithRecorder(r CommandRecorder) Option {
	return func(o *options) { o.recorder = r }
}

// WithID overrides the generated connection ID.
func WithID(id string) Option {
	return func(o *options) { o.id = id }
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	return o
}
