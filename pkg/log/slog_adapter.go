package log

import (
	"context"
	"encoding/hex"
	"log/slog"
)

// SlogAdapter writes protocol events to an slog.Logger.
// Useful for development when you want to see protocol events in console.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a new SlogAdapter that writes to the given slog.Logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event to the slog logger at Debug level.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("session_id", event.SessionID),
		slog.String("layer", event.Layer.String()),
		slog.String("category", event.Category.String()),
	}

	if event.UID != "" {
		attrs = append(attrs, slog.String("uid", event.UID))
	}

	// Add type-specific attributes
	switch {
	case event.Exchange != nil:
		attrs = append(attrs,
			slog.String("tx", hex.EncodeToString(event.Exchange.TX)),
			slog.String("rx", hex.EncodeToString(event.Exchange.RX)),
		)
		if event.Exchange.TimedOut {
			attrs = append(attrs, slog.Bool("timed_out", true))
		}
	case event.StateChange != nil:
		attrs = append(attrs,
			slog.String("machine", event.StateChange.Machine.String()),
			slog.String("old_state", event.StateChange.OldState),
			slog.String("new_state", event.StateChange.NewState),
		)
	case event.Outcome != nil:
		attrs = append(attrs, slog.Bool("success", event.Outcome.Success))
		if event.Outcome.FailCode != "" {
			attrs = append(attrs, slog.String("fail_code", event.Outcome.FailCode))
		}
		if event.Outcome.Ticks != 0 {
			attrs = append(attrs, slog.Uint64("ticks", event.Outcome.Ticks))
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

// Compile-time interface satisfaction check.
var _ Logger = (*SlogAdapter)(nil)
