package log

import (
	"context"
	"log/slog"
)

// SlogAdapter writes engine events to an slog.Logger.
// Useful for development when you want to see dispatch events in console.
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
		slog.String("observable_id", event.ObservableID),
		slog.String("category", event.Category.String()),
	}

	if event.SubscriptionID != "" {
		attrs = append(attrs, slog.String("subscription_id", event.SubscriptionID))
	}

	// Add type-specific attributes
	switch {
	case event.Subscribe != nil:
		attrs = append(attrs,
			slog.String("priority", event.Subscribe.Priority),
			slog.String("rate_limit", event.Subscribe.RateLimit),
		)
		if event.Subscribe.Interval > 0 {
			attrs = append(attrs, slog.Duration("interval", event.Subscribe.Interval))
		}
		if event.Subscribe.Deferred {
			attrs = append(attrs, slog.Bool("deferred", true))
		}
	case event.Dispatch != nil:
		attrs = append(attrs, slog.String("priority", event.Dispatch.Priority))
		if event.Dispatch.Value != "" {
			attrs = append(attrs, slog.String("value", event.Dispatch.Value))
		}
		if event.Dispatch.Initial {
			attrs = append(attrs, slog.Bool("initial", true))
		}
		if event.Dispatch.Trailing {
			attrs = append(attrs, slog.Bool("trailing", true))
		}
	case event.Drop != nil:
		attrs = append(attrs, slog.String("mode", event.Drop.Mode))
		if event.Drop.Superseded {
			attrs = append(attrs, slog.Bool("superseded", true))
		}
	case event.StateChange != nil:
		attrs = append(attrs,
			slog.String("old_state", event.StateChange.OldState),
			slog.String("new_state", event.StateChange.NewState),
		)
		if event.StateChange.Reason != "" {
			attrs = append(attrs, slog.String("reason", event.StateChange.Reason))
		}
	}

	a.logger.LogAttrs(context.Background(), slog.LevelDebug, "observable", attrs...)
}

// Compile-time interface satisfaction check.
var _ Logger = (*SlogAdapter)(nil)
