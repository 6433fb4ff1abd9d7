package event

// Logger records container events.
type Logger interface {
	// LogEvent is called for every event. Implementations must not block.
	LogEvent(Event)
}

// NopLogger discards every event.
var NopLogger = nopLogger{}

type nopLogger struct{}

func (nopLogger) LogEvent(Event) {}
