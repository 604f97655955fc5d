package metadata

import (
	"log/slog"
	"time"
)

/*
Metadata is write-only. No component may read it back to influence how a
fixture is located, parsed, or shaped.

Recorder forwards fixture events to a structured logger. Events from a
single goroutine arrive in call order; no ordering across goroutines is
guaranteed.
*/
type Recorder struct {
	logger *slog.Logger
}

func NewRecorder(logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{
		logger: logger,
	}
}

func (r *Recorder) RecordError(
	observedAt time.Time,
	packageName string,
	action string,
	cause ErrorCause,
	errorString string,
	attrs []Attribute,
) {
	args := []any{
		slog.Time("observed_at", observedAt),
		slog.String("package", packageName),
		slog.String("action", action),
		slog.String("cause", cause.String()),
		slog.String("error", errorString),
	}
	r.logger.Error("fixture error", append(args, attrsToArgs(attrs)...)...)
}

func (r *Recorder) RecordLoad(event LoadEvent, attrs []Attribute) {
	args := []any{
		slog.String(string(AttrPath), event.Path),
		slog.Int("values", event.ValueCount),
		slog.Duration("duration", event.Duration),
	}
	r.logger.Debug("fixture loaded", append(args, attrsToArgs(attrs)...)...)
}

func attrsToArgs(attrs []Attribute) []any {
	args := make([]any, 0, len(attrs))
	for _, a := range attrs {
		args = append(args, slog.String(string(a.Key), a.Value))
	}
	return args
}

type MetadataSink interface {
	RecordError(
		observedAt time.Time,
		packageName string,
		action string,
		cause ErrorCause,
		details string,
		attrs []Attribute,
	)
	RecordLoad(event LoadEvent, attrs []Attribute)
}

// NoopSink implements MetadataSink but does nothing.
// Callers (or tests) decide whether to inject a Recorder or a NoopSink.
type NoopSink struct{}

func (n *NoopSink) RecordError(
	observedAt time.Time,
	packageName string,
	action string,
	cause ErrorCause,
	errorString string,
	attrs []Attribute,
) {
}

func (n *NoopSink) RecordLoad(event LoadEvent, attrs []Attribute) {}
