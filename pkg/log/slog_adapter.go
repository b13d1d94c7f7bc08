package log

import (
	"context"
	"fmt"
	"log/slog"
)

// SlogAdapter writes protocol events to an slog.Logger at debug level.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a SlogAdapter writing to logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event as a single "protocol" record.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("conn_id", event.ConnectionID),
		slog.String("direction", event.Direction.String()),
		slog.String("layer", event.Layer.String()),
		slog.String("category", event.Category.String()),
	}

	if event.Transport != "" {
		attrs = append(attrs, slog.String("transport", event.Transport))
	}
	if event.RemoteAddr != "" {
		attrs = append(attrs, slog.String("remote", event.RemoteAddr))
	}
	if event.Model != "" {
		attrs = append(attrs, slog.String("model", event.Model))
	}

	switch {
	case event.Frame != nil:
		attrs = append(attrs,
			slog.Int("frame_size", event.Frame.Size),
			slog.String("frame", fmt.Sprintf("% X", event.Frame.Data)),
			slog.Bool("truncated", event.Frame.Truncated),
		)
	case event.Packet != nil:
		attrs = append(attrs,
			slog.Uint64("serial", uint64(event.Packet.Serial)),
			slog.String("op", event.Packet.OpCode.String()),
			slog.String("device_type", event.Packet.DeviceType.String()),
			slog.String("feature", event.Packet.Address.String()),
			slog.Int("data_len", event.Packet.DataLen),
		)
	case event.StateChange != nil:
		attrs = append(attrs,
			slog.String("entity", event.StateChange.Entity.String()),
			slog.String("old_state", event.StateChange.OldState),
			slog.String("new_state", event.StateChange.NewState),
		)
		if event.StateChange.Reason != "" {
			attrs = append(attrs, slog.String("reason", event.StateChange.Reason))
		}
	case event.Discovery != nil:
		attrs = append(attrs,
			slog.String("candidate", event.Discovery.Candidate),
			slog.String("outcome", event.Discovery.Outcome.String()),
		)
		if event.Discovery.BaudRate != 0 {
			attrs = append(attrs, slog.Int("baud", event.Discovery.BaudRate))
		}
		if event.Discovery.Reason != "" {
			attrs = append(attrs, slog.String("reason", event.Discovery.Reason))
		}
	case event.Error != nil:
		attrs = append(attrs,
			slog.String("error_layer", event.Error.Layer.String()),
			slog.String("error_msg", event.Error.Message),
			slog.String("error_context", event.Error.Context),
		)
	}

	a.logger.LogAttrs(context.Background(), slog.LevelDebug, "protocol", attrs...)
}

var _ Logger = (*SlogAdapter)(nil)
