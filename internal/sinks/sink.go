package sinks

import (
	"time"

	"request-telemetry/internal/shared/ids"

	"github.com/rs/zerolog"
)

const (
	KindNone = "none"
	KindLog  = "log"
)

// ContextCorrelationID is the Event.Context key the dispatcher partitions on.
// Loggers use the same name for the request field.
const ContextCorrelationID = "correlationId"

// Severity is the collaborator-facing severity of an event.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Event is one breadcrumb or captured exception handed to an error-tracking collaborator.
type Event struct {
	ID        string
	Timestamp time.Time
	Message   string
	Category  string
	Severity  Severity
	Context   map[string]any
}

// NewEvent stamps a fresh event id. at is taken from the caller's clock.
func NewEvent(at time.Time, message, category string, severity Severity, context map[string]any) Event {
	return Event{
		ID:        ids.NewEventID(),
		Timestamp: at.UTC(),
		Message:   message,
		Category:  category,
		Severity:  severity,
		Context:   context,
	}
}

// Sink is a fire-and-forget error-tracking collaborator. Implementations must
// not block the caller and must tolerate being unconfigured.
//
//go:generate mockgen -source=sink.go -destination=./mocks/sink_mock.go -package=mocks
type Sink interface {
	CaptureException(err error, event Event)
	AddBreadcrumb(event Event)
}

// NopSink discards everything. It is the default when no collaborator is configured.
type NopSink struct{}

func (NopSink) CaptureException(error, Event) {}

func (NopSink) AddBreadcrumb(Event) {}

type logSink struct {
	logger zerolog.Logger
}

// NewLogSink returns a Sink that writes events as structured log lines. It
// stands in for a crash-reporting service in environments without one.
func NewLogSink(logger zerolog.Logger) Sink {
	return &logSink{logger: logger}
}

func (s *logSink) CaptureException(err error, event Event) {
	s.logger.Error().
		Err(err).
		Str("event_id", event.ID).
		Str("category", event.Category).
		Str("severity", string(event.Severity)).
		Fields(event.Context).
		Msg(event.Message)
}

func (s *logSink) AddBreadcrumb(event Event) {
	s.logger.Debug().
		Str("event_id", event.ID).
		Str("category", event.Category).
		Str("severity", string(event.Severity)).
		Fields(event.Context).
		Msg("breadcrumb: " + event.Message)
}

// New selects a Sink by kind. Unknown kinds fall back to NopSink.
func New(kind string, logger zerolog.Logger) Sink {
	switch kind {
	case KindLog:
		return NewLogSink(logger)
	default:
		return NopSink{}
	}
}
