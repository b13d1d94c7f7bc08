// Package metrics exposes Prometheus collectors for discovery and device
// commands.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/novastar-protocol/novastar-go/pkg/device"
	"github.com/novastar-protocol/novastar-go/pkg/discovery"
	"github.com/novastar-protocol/novastar-go/pkg/transport"
	"github.com/novastar-protocol/novastar-go/pkg/wire"
)

// Command results used as the "result" label.
const (
	ResultOK    = "ok"
	ResultError = "error"
)

// NewRegistry creates a registry with the Go runtime and process collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// Handler returns the HTTP handler serving reg.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
}

// Metrics holds the NovaStar collectors.
type Metrics struct {
	Probed        *prometheus.CounterVec // labels: transport
	Skipped       *prometheus.CounterVec // labels: transport
	Found         *prometheus.CounterVec // labels: transport, model
	DevicesOnline prometheus.Gauge
	Commands      *prometheus.CounterVec // labels: command, result
}

// New registers and returns the collectors.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Probed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "novastar_discovery_probed_total",
			Help: "Discovery candidates tried.",
		}, []string{"transport"}),
		Skipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "novastar_discovery_skipped_total",
			Help: "Discovery candidates that did not identify.",
		}, []string{"transport"}),
		Found: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "novastar_discovery_found_total",
			Help: "Controllers identified by discovery.",
		}, []string{"transport", "model"}),
		DevicesOnline: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "novastar_devices_online",
			Help: "Current number of live device handles.",
		}),
		Commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "novastar_commands_total",
			Help: "Device commands by outcome.",
		}, []string{"command", "result"}),
	}
	reg.MustRegister(m.Probed, m.Skipped, m.Found, m.DevicesOnline, m.Commands)
	return m
}

// CandidateProbed implements discovery.Recorder.
func (m *Metrics) CandidateProbed(kind transport.Kind) {
	m.Probed.WithLabelValues(kind.String()).Inc()
}

// CandidateSkipped implements discovery.Recorder.
func (m *Metrics) CandidateSkipped(kind transport.Kind) {
	m.Skipped.WithLabelValues(kind.String()).Inc()
}

// DeviceFound implements discovery.Recorder.
func (m *Metrics) DeviceFound(kind transport.Kind, model wire.Model) {
	m.Found.WithLabelValues(kind.String(), model.String()).Inc()
}

// ObserveCommand implements device.CommandRecorder.
func (m *Metrics) ObserveCommand(command string, err error) {
	result := ResultOK
	if err != nil {
		result = ResultError
	}
	m.Commands.WithLabelValues(command, result).Inc()
}

// SetOnline records the number of live devices.
func (m *Metrics) SetOnline(n int) {
	m.DevicesOnline.Set(float64(n))
}

var (
	_ discovery.Recorder     = (*Metrics)(nil)
	_ device.CommandRecorder = (*Metrics)(nil)
)
