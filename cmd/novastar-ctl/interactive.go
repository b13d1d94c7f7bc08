package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	"github.com/novastar-protocol/novastar-go/pkg/device"
)

// Shell is the interactive command interface.
type Shell struct {
	ctl *Controller
	rl  *readline.Instance
	out io.Writer
}

// NewShell creates a readline-backed shell.
func NewShell(ctl *Controller) (*Shell, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "novastar> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}
	return &Shell{ctl: ctl, rl: rl, out: rl.Stdout()}, nil
}

// Stdout returns a writer that coordinates with the readline prompt.
func (s *Shell) Stdout() io.Writer {
	return s.rl.Stdout()
}

// Run reads commands until quit, EOF or ctx cancellation.
func (s *Shell) Run(ctx context.Context, cancel context.CancelFunc) {
	defer s.rl.Close()

	s.printHelp()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := s.rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(s.out, "Exiting...")
			cancel()
			return
		}

		if s.execute(ctx, line) {
			fmt.Fprintln(s.out, "Exiting...")
			cancel()
			return
		}
	}
}

// execute runs one command line and reports whether the shell should exit.
func (s *Shell) execute(ctx context.Context, line string) bool {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return false
	}
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "help", "?":
		s.printHelp()

	case "list", "ls":
		s.cmdList()

	case "rescan", "scan":
		s.cmdRescan(ctx)

	case "brightness", "b":
		s.cmdBrightness(args)

	case "model", "m":
		s.cmdModel(args)

	case "reset":
		s.cmdReset(args)

	case "quit", "exit", "q":
		return true

	default:
		fmt.Fprintf(s.out, "Unknown command: %s (type 'help' for commands)\n", cmd)
	}
	return false
}

func (s *Shell) printHelp() {
	fmt.Fprintln(s.out, `
NovaStar Controller Commands:
  list                 - List known devices
  rescan               - Drop dead devices and discover new ones
  brightness [n] [v]   - Show brightness, or set v (0-255) on device n or all
  model <n>            - Query the model of device n
  reset <n>            - Send a session reset to device n
  help                 - Show this help
  quit                 - Exit`)
}

func (s *Shell) cmdList() {
	devs := s.ctl.Devices()
	if len(devs) == 0 {
		fmt.Fprintln(s.out, "No devices. Use 'rescan' to discover.")
		return
	}
	for i, d := range devs {
		state := "alive"
		if !d.Alive() {
			state = "dead"
		}
		fmt.Fprintf(s.out, "  %d  %-14s %-8s %-24s %s\n", i+1, d.Model(), d.Kind(), d.Address(), state)
	}
}

func (s *Shell) cmdRescan(ctx context.Context) {
	added, err := s.ctl.Rescan(ctx)
	if err != nil {
		fmt.Fprintf(s.out, "Discovery error: %v\n", err)
	}
	fmt.Fprintf(s.out, "Added %d device(s), %d known\n", added, len(s.ctl.Devices()))
}

func (s *Shell) cmdBrightness(args []string) {
	switch len(args) {
	case 0:
		for i, d := range s.ctl.Devices() {
			s.printBrightness(i+1, d)
		}

	case 1:
		// A single argument is a value for every device.
		v, err := parseBrightness(args[0])
		if err != nil {
			fmt.Fprintf(s.out, "Error: %v\n", err)
			return
		}
		if err := s.ctl.SetBrightness(v); err != nil {
			fmt.Fprintf(s.out, "Error: %v\n", err)
			return
		}
		fmt.Fprintf(s.out, "Brightness set to %d on all devices\n", v)

	default:
		d, ok := s.lookup(args[0])
		if !ok {
			return
		}
		v, err := parseBrightness(args[1])
		if err != nil {
			fmt.Fprintf(s.out, "Error: %v\n", err)
			return
		}
		if err := d.SetBrightness(v); err != nil {
			fmt.Fprintf(s.out, "Error: %v\n", err)
			return
		}
		fmt.Fprintf(s.out, "Brightness set to %d on %s\n", v, d)
	}
}

func (s *Shell) printBrightness(n int, d *device.Device) {
	v, err := d.Brightness()
	if err != nil {
		fmt.Fprintf(s.out, "  %d  %s: %v\n", n, d, err)
		return
	}
	fmt.Fprintf(s.out, "  %d  %s: %d\n", n, d, v)
}

func (s *Shell) cmdModel(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(s.out, "Usage: model <n>")
		return
	}
	d, ok := s.lookup(args[0])
	if !ok {
		return
	}
	m, err := d.QueryModel()
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	fmt.Fprintf(s.out, "Model: %s\n", m)
}

func (s *Shell) cmdReset(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(s.out, "Usage: reset <n>")
		return
	}
	d, ok := s.lookup(args[0])
	if !ok {
		return
	}
	if err := d.ResetSession(); err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	fmt.Fprintf(s.out, "Session reset sent to %s\n", d)
}

func (s *Shell) lookup(arg string) (*device.Device, bool) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		fmt.Fprintf(s.out, "Error: invalid device number %q\n", arg)
		return nil, false
	}
	d, err := s.ctl.Device(n)
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return nil, false
	}
	return d, true
}

func parseBrightness(s string) (uint8, error) {
	v, err := strconv.ParseUint(s, 10, 8)
	if err != nil {
		return 0, fmt.Errorf("brightness must be 0-255: %q", s)
	}
	return uint8(v), nil
}
