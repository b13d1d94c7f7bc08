package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/novastar-protocol/novastar-go/pkg/device"
	"github.com/novastar-protocol/novastar-go/pkg/discovery"
	"github.com/novastar-protocol/novastar-go/pkg/log"
	"github.com/novastar-protocol/novastar-go/pkg/metrics"
	"github.com/novastar-protocol/novastar-go/pkg/transport"
	"github.com/novastar-protocol/novastar-go/pkg/wire"
)

// discoverFunc matches discovery.Discover.
type discoverFunc func(ctx context.Context, codec *wire.Codec, netCfg *discovery.NetworkConfig, serialCfg *discovery.SerialConfig) (*discovery.Result, error)

// Controller owns the set of live devices found by discovery.
type Controller struct {
	cfg            *Config
	codec          *wire.Codec
	logger         *slog.Logger
	protocolLogger log.Logger
	metrics        *metrics.Metrics
	discover       discoverFunc

	mu      sync.Mutex
	devices []*device.Device
}

// NewController creates a controller. protocolLogger and m may be nil.
func NewController(cfg *Config, logger *slog.Logger, protocolLogger log.Logger, m *metrics.Metrics) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		cfg:            cfg,
		codec:          wire.NewCodec(),
		logger:         logger,
		protocolLogger: protocolLogger,
		metrics:        m,
		discover:       discovery.Discover,
	}
}

// Devices returns a snapshot of the known devices.
func (c *Controller) Devices() []*device.Device {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*device.Device(nil), c.devices...)
}

// Device returns the device at 1-based index n.
func (c *Controller) Device(n int) (*device.Device, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if n < 1 || n > len(c.devices) {
		return nil, fmt.Errorf("no device %d (have %d)", n, len(c.devices))
	}
	return c.devices[n-1], nil
}

// Rescan drops dead devices and runs discovery for new ones. Devices
// already held are not probed again. It returns the number of devices
// added.
func (c *Controller) Rescan(ctx context.Context) (int, error) {
	c.mu.Lock()
	c.devices = device.Prune(c.devices)
	known := make(map[string]bool, len(c.devices))
	var busyPorts []string
	for _, d := range c.devices {
		known[d.Address()] = true
		if d.Kind() == transport.KindSerial {
			busyPorts = append(busyPorts, d.Address())
		}
	}
	c.mu.Unlock()

	netCfg := c.cfg.networkConfig()
	if netCfg != nil {
		netCfg.Logger = c.logger
		netCfg.ProtocolLogger = c.protocolLogger
		netCfg.Metrics = c.recorder()
	}
	serialCfg := c.cfg.serialConfig()
	if serialCfg != nil {
		serialCfg.Exclude = append(serialCfg.Exclude, busyPorts...)
		serialCfg.Logger = c.logger
		serialCfg.ProtocolLogger = c.protocolLogger
		serialCfg.Metrics = c.recorder()
	}

	res, err := c.discover(ctx, c.codec, netCfg, serialCfg)
	if err != nil {
		c.logger.Warn("discovery failed", "error", err)
	}

	added := 0
	c.mu.Lock()
	if res != nil {
		for _, d := range res.Devices {
			// A controller already held answers the broadcast again.
			if known[d.Address()] {
				d.Close()
				continue
			}
			known[d.Address()] = true
			c.devices = append(c.devices, d)
			added++
		}
		c.logger.Info("discovery finished",
			"probed", res.Probed,
			"skipped", res.Skipped,
			"added", added,
			"devices", len(c.devices))
	}
	online := len(c.devices)
	c.mu.Unlock()

	if c.metrics != nil {
		c.metrics.SetOnline(online)
	}
	return added, err
}

// SetBrightness writes value to every device.
func (c *Controller) SetBrightness(value uint8) error {
	var errs []error
	for _, d := range c.Devices() {
		if err := d.SetBrightness(value); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", d, err))
		}
	}
	return errors.Join(errs...)
}

// Close closes every device.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, d := range c.devices {
		d.Close()
	}
	c.devices = nil
	if c.metrics != nil {
		c.metrics.SetOnline(0)
	}
}

// recorder avoids handing discovery a typed nil interface.
func (c *Controller) recorder() discovery.Recorder {
	if c.metrics == nil {
		return nil
	}
	return c.metrics
}
