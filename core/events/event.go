package events

import "log/slog"

// Record is the structured payload carried by every emitted event.
type Record struct {
	Type       string
	Attributes map[string]string
}

// Event represents a structured state change emitted by the token program.
type Event interface {
	EventType() string
	Event() *Record
}

// Emitter broadcasts events to downstream subscribers (e.g. indexers, RPC).
type Emitter interface {
	Emit(Event)
}

// NoopEmitter is a helper that satisfies the Emitter interface while discarding
// all events. It is useful when a component wants to optionally expose events.
type NoopEmitter struct{}

// Emit implements the Emitter interface.
func (NoopEmitter) Emit(Event) {}

// LogEmitter forwards every event to a structured logger.
type LogEmitter struct {
	logger *slog.Logger
}

// NewLogEmitter returns an Emitter that logs events at info level.
func NewLogEmitter(logger *slog.Logger) *LogEmitter {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogEmitter{logger: logger}
}

// Emit implements the Emitter interface.
func (l *LogEmitter) Emit(evt Event) {
	if l == nil || evt == nil {
		return
	}
	record := evt.Event()
	attrs := make([]any, 0, 2+2*len(record.Attributes))
	attrs = append(attrs, "type", record.Type)
	for k, v := range record.Attributes {
		attrs = append(attrs, k, v)
	}
	l.logger.Info("event emitted", attrs...)
}

// CaptureEmitter records every emitted event in order. Intended for tests.
type CaptureEmitter struct {
	Events []Event
}

// Emit implements the Emitter interface.
func (c *CaptureEmitter) Emit(evt Event) {
	if c == nil || evt == nil {
		return
	}
	c.Events = append(c.Events, evt)
}
