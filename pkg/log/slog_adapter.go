package log

import (
	"context"
	"log/slog"
)

// SlogAdapter writes device events to an slog.Logger.
// Useful for development when you want to see events in console.
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
		slog.String("category", event.Category.String()),
		slog.String("role", event.Role.String()),
	}

	// Add optional identifiers
	if event.SessionID != "" {
		attrs = append(attrs, slog.String("session_id", event.SessionID))
	}
	if event.DeviceID != "" {
		attrs = append(attrs, slog.String("device_id", event.DeviceID))
	}
	if event.ElementIndex != nil {
		attrs = append(attrs, slog.Uint64("element", uint64(*event.ElementIndex)))
	}

	// Add type-specific attributes
	switch {
	case event.StateChange != nil:
		attrs = append(attrs,
			slog.String("old_state", event.StateChange.OldState),
			slog.String("new_state", event.StateChange.NewState),
		)
		if event.StateChange.Reason != "" {
			attrs = append(attrs, slog.String("reason", event.StateChange.Reason))
		}
	case event.Sleep != nil:
		attrs = append(attrs,
			slog.String("decision", event.Sleep.Decision),
			slog.Bool("timer_armed", event.Sleep.TimerArmed),
		)
		if event.Sleep.MaxSleep != nil {
			attrs = append(attrs, slog.Duration("max_sleep", *event.Sleep.MaxSleep))
		}
	case event.Status != nil:
		attrs = append(attrs,
			slog.Bool("present", event.Status.Present),
			slog.Bool("target", event.Status.Target),
		)
		if event.Status.Remaining != nil {
			attrs = append(attrs, slog.Duration("remaining", *event.Status.Remaining))
		}
	case event.Boot != nil:
		attrs = append(attrs, slog.String("boot_reason", event.Boot.Reason))
		if event.Boot.FirmwareRevision != "" {
			attrs = append(attrs, slog.String("fw_revision", event.Boot.FirmwareRevision))
		}
	case event.Error != nil:
		attrs = append(attrs, slog.String("error_msg", event.Error.Message))
		if event.Error.Context != "" {
			attrs = append(attrs, slog.String("error_context", event.Error.Context))
		}
	}

	a.logger.LogAttrs(context.Background(), slog.LevelDebug, "device", attrs...)
}

// Compile-time interface satisfaction check.
var _ Logger = (*SlogAdapter)(nil)
