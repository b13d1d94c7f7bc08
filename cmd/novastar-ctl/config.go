package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/novastar-protocol/novastar-go/pkg/discovery"
	"github.com/novastar-protocol/novastar-go/pkg/transport"
)

// Watch defaults.
const (
	DefaultWatchInterval = 30 * time.Second
	DefaultMetricsAddr   = ":9105"
)

// Config is the novastar-ctl configuration file.
type Config struct {
	Network     NetworkSection `yaml:"network"`
	Serial      SerialSection  `yaml:"serial"`
	ProtocolLog string         `yaml:"protocol_log"`
	Watch       WatchSection   `yaml:"watch"`
}

// NetworkSection configures UDP discovery and the TCP links.
type NetworkSection struct {
	Disabled       bool          `yaml:"disabled"`
	ListenAddr     string        `yaml:"listen_addr"`
	BroadcastAddr  string        `yaml:"broadcast_addr"`
	ControllerPort int           `yaml:"controller_port"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
}

// SerialSection configures serial discovery.
type SerialSection struct {
	Disabled    bool          `yaml:"disabled"`
	BaudRates   []int         `yaml:"baud_rates"`
	ReadTimeout time.Duration `yaml:"read_timeout"`
	Exclude     []string      `yaml:"exclude"`
}

// WatchSection configures the watch command.
type WatchSection struct {
	Interval    time.Duration `yaml:"interval"`
	MetricsAddr string        `yaml:"metrics_addr"`
}

// ParseConfig parses a YAML configuration and applies defaults.
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

// LoadConfig reads the configuration file at path. An empty path yields
// the defaults.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		cfg := &Config{}
		cfg.applyDefaults()
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Network.ControllerPort < 0 || c.Network.ControllerPort > 65535 {
		return fmt.Errorf("network.controller_port out of range: %d", c.Network.ControllerPort)
	}
	for _, baud := range c.Serial.BaudRates {
		if baud <= 0 {
			return fmt.Errorf("serial.baud_rates: invalid rate %d", baud)
		}
	}
	if c.Watch.Interval < 0 {
		return fmt.Errorf("watch.interval must not be negative")
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Watch.Interval == 0 {
		c.Watch.Interval = DefaultWatchInterval
	}
	if c.Watch.MetricsAddr == "" {
		c.Watch.MetricsAddr = DefaultMetricsAddr
	}
}

// networkConfig returns the discovery settings, or nil when disabled.
func (c *Config) networkConfig() *discovery.NetworkConfig {
	if c.Network.Disabled {
		return nil
	}
	return &discovery.NetworkConfig{
		ListenAddr:     c.Network.ListenAddr,
		BroadcastAddr:  c.Network.BroadcastAddr,
		ControllerPort: c.Network.ControllerPort,
		ReadTimeout:    c.Network.ReadTimeout,
		Transport: transport.Config{
			ReadTimeout:    c.Network.ReadTimeout,
			ConnectTimeout: c.Network.ConnectTimeout,
		},
	}
}

// serialConfig returns the discovery settings, or nil when disabled.
func (c *Config) serialConfig() *discovery.SerialConfig {
	if c.Serial.Disabled {
		return nil
	}
	return &discovery.SerialConfig{
		BaudRates:   c.Serial.BaudRates,
		ReadTimeout: c.Serial.ReadTimeout,
		Exclude:     c.Serial.Exclude,
	}
}
