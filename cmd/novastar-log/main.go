// Command novastar-log views and analyzes NovaStar protocol capture files.
//
// Capture files are written by novastar-ctl when run with -protocol-log.
//
// Usage:
//
//	novastar-log <command> [flags] <file.nlog>
//
// Commands:
//
//	view     View log file in human-readable format
//	export   Export log file to JSON or CSV format
//	filter   Filter log file and write to new file
//	stats    Show statistics about the log file
//
// Examples:
//
//	# View only decoded packets
//	novastar-log view --layer wire ctl.nlog
//
//	# View traffic to serial controllers
//	novastar-log view --transport serial ctl.nlog
//
//	# Export to CSV
//	novastar-log export --format csv -o ctl.csv ctl.nlog
//
//	# Keep one controller's traffic
//	novastar-log filter --remote-addr 192.168.0.10:5200 -o one.nlog ctl.nlog
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/novastar-protocol/novastar-go/cmd/novastar-log/commands"
)

const usage = `novastar-log - NovaStar Protocol Log Analyzer

Usage:
  novastar-log <command> [flags] <file.nlog>

Commands:
  view     View log file in human-readable format
  export   Export log file to JSON or CSV format
  filter   Filter log file and write to new file
  stats    Show statistics about the log file

Use "novastar-log <command> -help" for more information about a command.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "view":
		runView(args)
	case "export":
		runExport(args)
	case "filter":
		runFilter(args)
	case "stats":
		runStats(args)
	case "-h", "-help", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

// parsePath parses args and returns the single log file argument.
func parsePath(fs *flag.FlagSet, args []string) string {
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: log file path required")
		fs.Usage()
		os.Exit(1)
	}
	return fs.Arg(0)
}

func usageFunc(fs *flag.FlagSet, text string) func() {
	return func() {
		fmt.Fprint(os.Stderr, text)
		fs.PrintDefaults()
	}
}

func runView(args []string) {
	fs := flag.NewFlagSet("view", flag.ExitOnError)
	fs.Usage = usageFunc(fs, `novastar-log view - View log file in human-readable format

Usage:
  novastar-log view [flags] <file.nlog>

Flags:
`)

	layer := fs.String("layer", "", "Filter by layer (transport, wire, discovery)")
	direction := fs.String("direction", "", "Filter by direction (in, out)")
	category := fs.String("category", "", "Filter by category (packet, state, discovery, error)")
	transport := fs.String("transport", "", "Filter by link kind (network, serial)")

	path := parsePath(fs, args)

	filter := commands.ViewFilter{Transport: *transport}

	if *layer != "" {
		l, err := commands.ParseLayerFlag(*layer)
		if err != nil {
			fail(err)
		}
		filter.Layer = &l
	}

	if *direction != "" {
		d, err := commands.ParseDirectionFlag(*direction)
		if err != nil {
			fail(err)
		}
		filter.Direction = &d
	}

	if *category != "" {
		c, err := commands.ParseCategoryFlag(*category)
		if err != nil {
			fail(err)
		}
		filter.Category = &c
	}

	if err := commands.RunView(path, filter, os.Stdout); err != nil {
		fail(err)
	}
}

func runExport(args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	fs.Usage = usageFunc(fs, `novastar-log export - Export log file to JSON or CSV format

Usage:
  novastar-log export [flags] <file.nlog>

Flags:
`)

	format := fs.String("format", "jsonl", "Output format (jsonl, csv)")
	output := fs.String("o", "", "Output file (default: stdout)")

	path := parsePath(fs, args)

	if err := commands.RunExport(path, *format, *output); err != nil {
		fail(err)
	}
}

func runFilter(args []string) {
	fs := flag.NewFlagSet("filter", flag.ExitOnError)
	fs.Usage = usageFunc(fs, `novastar-log filter - Filter log file and write to new file

Usage:
  novastar-log filter [flags] <file.nlog>

Flags:
`)

	output := fs.String("o", "", "Output file (required)")
	connID := fs.String("conn-id", "", "Filter by connection ID")
	transport := fs.String("transport", "", "Filter by link kind (network, serial)")
	remoteAddr := fs.String("remote-addr", "", "Filter by peer address or serial port")
	timeStart := fs.String("time-start", "", "Filter by start time (RFC3339)")
	timeEnd := fs.String("time-end", "", "Filter by end time (RFC3339)")
	layer := fs.String("layer", "", "Filter by layer (transport, wire, discovery)")
	direction := fs.String("direction", "", "Filter by direction (in, out)")
	category := fs.String("category", "", "Filter by category (packet, state, discovery, error)")

	path := parsePath(fs, args)

	if *output == "" {
		fmt.Fprintln(os.Stderr, "Error: output file (-o) required")
		fs.Usage()
		os.Exit(1)
	}

	opts := commands.FilterOptions{
		Output:     *output,
		ConnID:     *connID,
		Transport:  *transport,
		RemoteAddr: *remoteAddr,
		TimeStart:  *timeStart,
		TimeEnd:    *timeEnd,
		Layer:      *layer,
		Direction:  *direction,
		Category:   *category,
	}

	n, err := commands.RunFilter(path, opts)
	if err != nil {
		fail(err)
	}
	fmt.Fprintf(os.Stderr, "Wrote %d events to %s\n", n, *output)
}

func runStats(args []string) {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	fs.Usage = usageFunc(fs, `novastar-log stats - Show statistics about the log file

Usage:
  novastar-log stats <file.nlog>

`)

	path := parsePath(fs, args)

	if err := commands.RunStats(path, os.Stdout); err != nil {
		fail(err)
	}
}
