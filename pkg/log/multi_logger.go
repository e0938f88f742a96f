package log

// MultiLogger fans events out to several sinks, typically a FileLogger for
// later inspection alongside a SlogAdapter for live console output. Nil
// sinks are dropped at construction, so callers can pass optional loggers
// unconditionally.
type MultiLogger struct {
	sinks []Logger
}

var _ Logger = (*MultiLogger)(nil)

// NewMultiLogger builds a fan-out over the given sinks.
func NewMultiLogger(sinks ...Logger) *MultiLogger {
	kept := make([]Logger, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			kept = append(kept, s)
		}
	}
	return &MultiLogger{sinks: kept}
}

// Log forwards the event to every sink in registration order.
func (m *MultiLogger) Log(event Event) {
	for _, s := range m.sinks {
		s.Log(event)
	}
}
