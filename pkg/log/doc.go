// Package log provides structured protocol capture for NovaStar links.
//
// This package defines the Logger interface and Event types for recording
// protocol activity at several layers (transport, wire, discovery). It is
// separate from operational logging (slog): protocol capture is a
// machine-readable trace of every frame and packet for debugging and
// analysis.
//
// # Basic Usage
//
// Applications configure capture by providing a Logger implementation:
//
//	// For development: log to console via slog
//	cfg.ProtocolLogger = log.NewSlogAdapter(slog.Default())
//
//	// For field diagnostics: write to binary file
//	cfg.ProtocolLogger, _ = log.NewFileLogger("/var/log/novastar/ctl.nlog")
//
//	// Both: use MultiLogger
//	cfg.ProtocolLogger = log.NewMultiLogger(
//	    log.NewSlogAdapter(slog.Default()),
//	    fileLogger,
//	)
//
// # Event Types
//
// Events are captured at multiple layers:
//   - Transport: raw bytes read from or written to a link (FrameEvent)
//   - Wire: decoded packets (PacketEvent)
//   - Discovery: candidate outcomes during a scan (DiscoveryEvent)
//
// State changes and errors have dedicated event types.
//
// # File Format
//
// Log files are a stream of CBOR-encoded events with the .nlog extension.
// The novastar-log tool views, exports and summarizes them.
package log
