// Command novastar-ctl discovers and controls NovaStar LED sender cards.
//
// Usage:
//
//	novastar-ctl [flags] <command> [args]
//
// Commands:
//
//	discover            Discover controllers and list them
//	brightness [value]  Show brightness, or set it (0-255) on every controller
//	watch               Rescan periodically and serve Prometheus metrics
//	interactive         Interactive shell
//
// Flags:
//
//	-config string        Configuration file path (YAML)
//	-log-level string     Log level: debug, info, warn, error (default "info")
//	-protocol-log string  Write a protocol capture (.nlog) to this file
//	-no-network           Disable UDP/TCP discovery
//	-no-serial            Disable serial discovery
//
// Examples:
//
//	# Set every controller to half brightness
//	novastar-ctl brightness 128
//
//	# Capture all traffic of a network-only scan
//	novastar-ctl -no-serial -protocol-log scan.nlog discover
//
//	# Export metrics on :9105 and rescan every 30s
//	novastar-ctl -config /etc/novastar/ctl.yaml watch
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/novastar-protocol/novastar-go/pkg/log"
	"github.com/novastar-protocol/novastar-go/pkg/metrics"
)

const usage = `novastar-ctl - NovaStar sender card controller

Usage:
  novastar-ctl [flags] <command> [args]

Commands:
  discover            Discover controllers and list them
  brightness [value]  Show brightness, or set it (0-255) on every controller
  watch               Rescan periodically and serve Prometheus metrics
  interactive         Interactive shell

Flags:
`

// Flags holds the command-line flags.
type Flags struct {
	ConfigFile  string
	LogLevel    string
	ProtocolLog string
	NoNetwork   bool
	NoSerial    bool
}

var flags Flags

func init() {
	flag.StringVar(&flags.ConfigFile, "config", "", "Configuration file path (YAML)")
	flag.StringVar(&flags.LogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	flag.StringVar(&flags.ProtocolLog, "protocol-log", "", "Write a protocol capture (.nlog) to this file")
	flag.BoolVar(&flags.NoNetwork, "no-network", false, "Disable UDP/TCP discovery")
	flag.BoolVar(&flags.NoSerial, "no-serial", false, "Disable serial discovery")

	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()
	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	if err := run(flag.Arg(0), flag.Args()[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cmd string, args []string) error {
	level, err := parseLevel(flags.LogLevel)
	if err != nil {
		return err
	}
	logger := newLogger(os.Stderr, level)
	slog.SetDefault(logger)

	cfg, err := LoadConfig(flags.ConfigFile)
	if err != nil {
		return err
	}
	flags.apply(cfg)

	protocolLogger, closeLog, err := openProtocolLog(cfg.ProtocolLog, logger, level)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	reg := metrics.NewRegistry()
	ctl := NewController(cfg, logger, protocolLogger, metrics.New(reg))
	defer ctl.Close()

	switch cmd {
	case "discover":
		return runDiscover(ctx, ctl, os.Stdout)
	case "brightness":
		return runBrightness(ctx, ctl, args, os.Stdout)
	case "watch":
		return runWatch(ctx, ctl, reg, cfg.Watch)
	case "interactive":
		shell, err := NewShell(ctl)
		if err != nil {
			return err
		}
		// Route logs through readline so they do not clobber the prompt.
		ctl.logger = newLogger(shell.Stdout(), level)
		shell.Run(ctx, cancel)
		return nil
	default:
		flag.Usage()
		return fmt.Errorf("unknown command: %s", cmd)
	}
}

// apply overrides file settings with command-line flags.
func (f Flags) apply(cfg *Config) {
	if f.NoNetwork {
		cfg.Network.Disabled = true
	}
	if f.NoSerial {
		cfg.Serial.Disabled = true
	}
	if f.ProtocolLog != "" {
		cfg.ProtocolLog = f.ProtocolLog
	}
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid log level %q (use: debug, info, warn, error)", s)
	}
	return level, nil
}

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// openProtocolLog opens the capture file. At debug level captured events
// are also written to the operational log.
func openProtocolLog(path string, logger *slog.Logger, level slog.Level) (log.Logger, func(), error) {
	var loggers []log.Logger
	closeFn := func() {}

	if path != "" {
		fl, err := log.NewFileLogger(path)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open protocol log: %w", err)
		}
		loggers = append(loggers, fl)
		closeFn = func() {
			if n := fl.Dropped(); n > 0 {
				logger.Warn("protocol log dropped events", "count", n)
			}
			fl.Close()
		}
	}
	if level <= slog.LevelDebug {
		loggers = append(loggers, log.NewSlogAdapter(logger))
	}

	switch len(loggers) {
	case 0:
		return nil, closeFn, nil
	case 1:
		return loggers[0], closeFn, nil
	default:
		return log.NewMultiLogger(loggers...), closeFn, nil
	}
}

func runDiscover(ctx context.Context, ctl *Controller, w io.Writer) error {
	_, err := ctl.Rescan(ctx)
	devs := ctl.Devices()
	if len(devs) == 0 {
		if err != nil {
			return err
		}
		fmt.Fprintln(w, "No controllers found")
		return nil
	}
	for i, d := range devs {
		fmt.Fprintf(w, "%d  %-14s %-8s %s\n", i+1, d.Model(), d.Kind(), d.Address())
	}
	return nil
}

func runBrightness(ctx context.Context, ctl *Controller, args []string, w io.Writer) error {
	if len(args) > 1 {
		return fmt.Errorf("usage: brightness [value]")
	}

	var (
		value uint8
		set   = len(args) == 1
	)
	if set {
		v, err := parseBrightness(args[0])
		if err != nil {
			return err
		}
		value = v
	}

	_, err := ctl.Rescan(ctx)
	devs := ctl.Devices()
	if len(devs) == 0 {
		if err != nil {
			return err
		}
		return fmt.Errorf("no controllers found")
	}

	if set {
		if err := ctl.SetBrightness(value); err != nil {
			return err
		}
		fmt.Fprintf(w, "Brightness set to %d on %d controller(s)\n", value, len(devs))
		return nil
	}

	for _, d := range devs {
		v, err := d.Brightness()
		if err != nil {
			fmt.Fprintf(w, "%s: %v\n", d, err)
			continue
		}
		fmt.Fprintf(w, "%s: %d\n", d, v)
	}
	return nil
}
