package discovery

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/novastar-protocol/novastar-go/pkg/device"
	"github.com/novastar-protocol/novastar-go/pkg/log"
	"github.com/novastar-protocol/novastar-go/pkg/transport"
	"github.com/novastar-protocol/novastar-go/pkg/wire"
)

// SerialConfig configures serial discovery. Zero values select the
// defaults.
type SerialConfig struct {
	// BaudRates are tried in order on every port
	// (default: 1048576, then 115200).
	BaudRates []int

	// ReadTimeout bounds each identification read (default: 1s).
	// It overrides Transport.ReadTimeout when set.
	ReadTimeout time.Duration

	// ListPorts enumerates candidate ports (default: the system's ports).
	ListPorts func() ([]string, error)

	// Exclude lists ports to skip, typically those owned by live devices.
	Exclude []string

	// Transport configures the serial links.
	Transport transport.Config

	// Logger receives operational logs (default: slog.Default()).
	Logger *slog.Logger

	// ProtocolLogger receives protocol capture events (optional).
	ProtocolLogger log.Logger

	// Metrics observes discovery outcomes (optional).
	Metrics Recorder
}

func (c SerialConfig) withDefaults() SerialConfig {
	if len(c.BaudRates) == 0 {
		c.BaudRates = []int{PrimaryBaudRate, FallbackBaudRate}
	}
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = DefaultReadTimeout
	}
	if c.Transport.ReadTimeout <= 0 {
		c.Transport.ReadTimeout = c.ReadTimeout
	}
	if c.ListPorts == nil {
		c.ListPorts = transport.ListPorts
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	return c
}

// DiscoverSerial tries every serial port at each configured baud rate and
// returns the ports that identified as controllers.
func DiscoverSerial(ctx context.Context, codec *wire.Codec, cfg SerialConfig) (*Result, error) {
	cfg = cfg.withDefaults()

	ports, err := cfg.ListPorts()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEnumerate, err)
	}
	cfg.Logger.Debug("serial ports enumerated", "count", len(ports))

	result := &Result{}
	run := &candidateRun{
		kind:           transport.KindSerial,
		logger:         cfg.Logger,
		protocolLogger: cfg.ProtocolLogger,
		metrics:        cfg.Metrics,
		result:         result,
	}
	opts := deviceOptions(cfg.Logger, cfg.ProtocolLogger, cfg.Metrics)

	for _, name := range ports {
		if ctx.Err() != nil {
			break
		}
		if slices.Contains(cfg.Exclude, name) {
			continue
		}

		run.probed()

		d, baud, err := identifySerial(ctx, codec, name, cfg, opts)
		if err != nil {
			run.skipped(name, 0, err)
			continue
		}
		run.found(d, baud)
	}

	return result, nil
}

// identifySerial opens name at each baud rate in turn until the model-id
// round trip succeeds. Ports that fail identification are closed.
func identifySerial(ctx context.Context, codec *wire.Codec, name string, cfg SerialConfig, opts []device.Option) (*device.Device, int, error) {
	var errs []error
	for _, baud := range cfg.BaudRates {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			break
		}

		tr, err := transport.OpenSerial(name, baud, cfg.Transport)
		if err != nil {
			errs = append(errs, fmt.Errorf("%d baud: %w", baud, err))
			continue
		}

		d, err := device.Identify(tr, codec, opts...)
		if err != nil {
			tr.Close()
			errs = append(errs, fmt.Errorf("%d baud: %w", baud, err))
			cfg.Logger.Debug("serial identify failed", "port", name, "baud", baud, "error", err)
			continue
		}
		return d, baud, nil
	}
	return nil, 0, errors.Join(errs...)
}
