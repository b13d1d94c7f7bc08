package discovery

import (
	"errors"
	"log/slog"
	"time"

	"github.com/novastar-protocol/novastar-go/pkg/device"
	"github.com/novastar-protocol/novastar-go/pkg/log"
	"github.com/novastar-protocol/novastar-go/pkg/transport"
	"github.com/novastar-protocol/novastar-go/pkg/wire"
)

// Protocol constants.
const (
	// DiscoveryPort is the UDP port probes are broadcast to.
	DiscoveryPort = 3800

	// ControllerPort is the TCP port controllers accept commands on.
	ControllerPort = 5200

	// ProbeMagic is the discovery probe payload.
	ProbeMagic = "rqProMi:"

	// DefaultBroadcastAddr is the limited broadcast address.
	DefaultBroadcastAddr = "255.255.255.255"

	// PrimaryBaudRate is tried first on every serial port.
	PrimaryBaudRate = 1048576

	// FallbackBaudRate is tried when the primary rate fails.
	FallbackBaudRate = 115200

	// DefaultReadTimeout bounds the reply window and every identification read.
	DefaultReadTimeout = 1 * time.Second

	// maxDatagramSize bounds probe replies.
	maxDatagramSize = 512
)

// Discovery errors.
var (
	ErrBind        = errors.New("discovery socket bind failed")
	ErrProbe       = errors.New("probe send failed")
	ErrEnumerate   = errors.New("serial port enumeration failed")
	ErrInvalidAddr = errors.New("invalid broadcast address")
)

// Result is the outcome of a discovery run.
type Result struct {
	// Devices are the identified controllers, each owning its transport.
	Devices []*device.Device

	// Probed is the number of candidates tried.
	Probed int

	// Skipped is the number of candidates that did not identify.
	Skipped int
}

// Found returns the number of identified devices.
func (r *Result) Found() int {
	return len(r.Devices)
}

// merge appends o to r.
func (r *Result) merge(o *Result) {
	if o == nil {
		return
	}
	r.Devices = append(r.Devices, o.Devices...)
	r.Probed += o.Probed
	r.Skipped += o.Skipped
}

// Recorder observes discovery outcomes, e.g. for metrics.
type Recorder interface {
	// CandidateProbed is called before a candidate is tried.
	CandidateProbed(kind transport.Kind)

	// CandidateSkipped is called when a candidate fails to identify.
	CandidateSkipped(kind transport.Kind)

	// DeviceFound is called for every identified device.
	DeviceFound(kind transport.Kind, model wire.Model)
}

// candidateRun is shared per-candidate bookkeeping of both strategies.
type candidateRun struct {
	kind           transport.Kind
	logger         *slog.Logger
	protocolLogger log.Logger
	metrics        Recorder
	result         *Result
}

func (c *candidateRun) probed() {
	c.result.Probed++
	if c.metrics != nil {
		c.metrics.CandidateProbed(c.kind)
	}
}

func (c *candidateRun) skipped(candidate string, baudRate int, err error) {
	c.result.Skipped++
	if c.metrics != nil {
		c.metrics.CandidateSkipped(c.kind)
	}

	c.logger.Debug("discovery candidate skipped",
		"transport", c.kind.String(),
		"candidate", candidate,
		"error", err)
	c.emit(candidate, log.OutcomeSkipped, baudRate, err.Error(), "")
}

func (c *candidateRun) found(d *device.Device, baudRate int) {
	c.result.Devices = append(c.result.Devices, d)
	if c.metrics != nil {
		c.metrics.DeviceFound(c.kind, d.Model())
	}

	c.logger.Info("controller found",
		"transport", c.kind.String(),
		"address", d.Address(),
		"model", d.Model().String(),
		"id", d.ID())
	c.emit(d.Address(), log.OutcomeFound, baudRate, "", d.ID())
}

func (c *candidateRun) emit(candidate string, outcome log.Outcome, baudRate int, reason, connID string) {
	if c.protocolLogger == nil {
		return
	}
	log.Emit(c.protocolLogger, log.Event{
		ConnectionID: connID,
		Layer:        log.LayerDiscovery,
		Category:     log.CategoryDiscovery,
		Transport:    c.kind.String(),
		RemoteAddr:   candidate,
		Discovery: &log.DiscoveryEvent{
			Candidate: candidate,
			Outcome:   outcome,
			BaudRate:  baudRate,
			Reason:    reason,
		},
	})
}

// deviceOptions builds the handle options shared by both strategies.
func deviceOptions(logger *slog.Logger, protocolLogger log.Logger, metrics Recorder) []device.Option {
	opts := []device.Option{device.WithLogger(logger)}
	if protocolLogger != nil {
		opts = append(opts, device.WithProtocolLogger(protocolLogger))
	}
	if cr, ok := metrics.(device.CommandRecorder); ok {
		opts = append(opts, device.WithRecorder(cr))
	}
	return opts
}
