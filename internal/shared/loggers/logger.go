package loggers

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"request-telemetry/internal/samples"
	"request-telemetry/internal/shared/clock"
	"request-telemetry/internal/sinks"

	"github.com/rs/zerolog"
)

// Fields is the structured metadata attached to a log record.
type Fields = map[string]any

// Recorder receives samples derived from emitted records.
type Recorder interface {
	Record(category samples.Category, sample samples.Sample)
}

// Options configures New.
type Options struct {
	// Level overrides the mode's default threshold when it parses.
	Level       string
	Mode        Mode
	Service     string
	Environment string

	// Output defaults to os.Stdout.
	Output  io.Writer
	NoColor bool

	Recorder Recorder
	Sink     sinks.Sink
	Clock    clock.Clock
}

type core struct {
	zl        zerolog.Logger
	threshold Level
	recorder  Recorder
	sink      sinks.Sink
	clock     clock.Clock
	fallback  io.Writer
}

// Logger is a level-gated structured logger. Every emitting method is safe to
// call from any goroutine and never panics or returns an error to the caller.
// A Logger is immutable; Child and ForRequest return new values.
type Logger struct {
	core   *core
	fields Fields
}

var timeFormatOnce sync.Once

// New builds a Logger writing human-readable colorized lines in development
// mode and single-line JSON tagged with service and environment otherwise.
func New(opts Options) *Logger {
	timeFormatOnce.Do(func() {
		zerolog.TimeFieldFormat = "2006-01-02T15:04:05.000Z07:00"
	})

	mode := opts.Mode
	if mode == "" {
		mode = ModeProduction
	}
	threshold, _ := ResolveLevel(opts.Level, mode)

	output := opts.Output
	if output == nil {
		output = os.Stdout
	}
	guarded := &guardedWriter{w: output, fallback: os.Stderr}

	var zl zerolog.Logger
	if mode == ModeDevelopment {
		zl = zerolog.New(newConsoleWriter(guarded, opts.NoColor))
	} else {
		zl = zerolog.New(guarded).With().
			Str(FieldService, opts.Service).
			Str(FieldEnvironment, opts.Environment).
			Logger()
	}

	c := &core{
		zl:        zl,
		threshold: threshold,
		recorder:  opts.Recorder,
		sink:      opts.Sink,
		clock:     opts.Clock,
		fallback:  os.Stderr,
	}
	if c.sink == nil {
		c.sink = sinks.NopSink{}
	}
	if c.clock == nil {
		c.clock = clock.System
	}
	return &Logger{core: c}
}

// Nop returns a Logger that discards everything.
func Nop() *Logger {
	return &Logger{}
}

// Threshold returns the lowest level that is emitted.
func (l *Logger) Threshold() Level {
	if l.core == nil {
		return LevelError + 1
	}
	return l.core.threshold
}

func (l *Logger) Enabled(level Level) bool {
	return l.core != nil && level >= l.core.threshold
}

// Child returns a Logger that adds fields to every record. Fields given at the
// call site win over bound fields with the same key.
func (l *Logger) Child(fields Fields) *Logger {
	return &Logger{core: l.core, fields: merge(l.fields, fields)}
}

func (l *Logger) Error(msg string, fields ...Fields) { l.emit(LevelError, msg, fields, false) }

func (l *Logger) Warn(msg string, fields ...Fields) { l.emit(LevelWarn, msg, fields, false) }

func (l *Logger) Info(msg string, fields ...Fields) { l.emit(LevelInfo, msg, fields, false) }

func (l *Logger) HTTP(msg string, fields ...Fields) { l.emit(LevelHTTP, msg, fields, false) }

func (l *Logger) Debug(msg string, fields ...Fields) { l.emit(LevelDebug, msg, fields, false) }

// Log emits at an explicit level.
func (l *Logger) Log(level Level, msg string, fields ...Fields) { l.emit(level, msg, fields, false) }

// Request emits a request-completion record. Besides the level's own category
// it is recorded in the requests category.
func (l *Logger) Request(level Level, msg string, fields Fields) {
	l.emit(level, msg, []Fields{fields}, true)
}

func (l *Logger) emit(level Level, msg string, callFields []Fields, request bool) {
	if !l.Enabled(level) {
		return
	}
	c := l.core

	var merged Fields
	c.guard("merge", level, msg, func() {
		merged = merge(l.fields, callFields...)
	})
	now := c.clock.Now()

	c.guard("write", level, msg, func() {
		event := c.zl.Log().
			Time(zerolog.TimestampFieldName, now.UTC()).
			Str(zerolog.LevelFieldName, level.String())
		if len(merged) > 0 {
			event = event.Fields(map[string]interface{}(merged))
		}
		event.Msg(msg)
	})
	metricLogRecordsTotal.WithLabelValues(level.String()).Inc()

	if c.recorder != nil {
		c.guard("record", level, msg, func() {
			sample := samples.Sample{Timestamp: now, Message: msg, Fields: merged}
			switch level {
			case LevelError:
				c.recorder.Record(samples.CategoryErrors, sample)
			case LevelWarn:
				c.recorder.Record(samples.CategoryWarnings, sample)
			}
			if request {
				c.recorder.Record(samples.CategoryRequests, sample)
			}
		})
	}

	c.guard("sink", level, msg, func() {
		c.forward(level, msg, merged, now)
	})
}

// forward hands error records to the sink as exceptions and warn/info records
// as breadcrumbs. http and debug records stay local.
func (c *core) forward(level Level, msg string, fields Fields, now time.Time) {
	category, _ := fields[FieldCategory].(string)
	if category == "" {
		category, _ = fields[FieldComponent].(string)
	}
	if category == "" {
		category = "log"
	}

	switch level {
	case LevelError:
		err, ok := fields[FieldError].(error)
		if !ok {
			err = errors.New(msg)
		}
		c.sink.CaptureException(err, sinks.NewEvent(now, msg, category, sinks.SeverityError, fields))
	case LevelWarn:
		c.sink.AddBreadcrumb(sinks.NewEvent(now, msg, category, sinks.SeverityWarning, fields))
	case LevelInfo:
		c.sink.AddBreadcrumb(sinks.NewEvent(now, msg, category, sinks.SeverityInfo, fields))
	}
}

// guard runs fn and contains any panic it raises. Logging and metrics are
// observers; their faults must never reach the caller.
func (c *core) guard(stage string, level Level, msg string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			metricInstrumentationFaultsTotal.WithLabelValues(stage).Inc()
			writeFallback(c.fallback, level.String(), msg, fmt.Sprintf("%s: %v", stage, r))
		}
	}()
	fn()
}

func merge(base Fields, overlays ...Fields) Fields {
	size := len(base)
	for _, o := range overlays {
		size += len(o)
	}
	if size == 0 {
		return nil
	}
	out := make(Fields, size)
	for k, v := range base {
		out[k] = v
	}
	for _, o := range overlays {
		for k, v := range o {
			out[k] = v
		}
	}
	return out
}

// guardedWriter never fails: write errors and panics from the underlying
// writer are counted and replaced by a minimal line on the fallback writer.
type guardedWriter struct {
	w        io.Writer
	fallback io.Writer
}

func (g *guardedWriter) Write(p []byte) (n int, err error) {
	defer func() {
		if r := recover(); r != nil {
			metricInstrumentationFaultsTotal.WithLabelValues("output").Inc()
			writeFallback(g.fallback, "", string(p), fmt.Sprintf("output panic: %v", r))
			n, err = len(p), nil
		}
	}()
	if _, werr := g.w.Write(p); werr != nil {
		metricInstrumentationFaultsTotal.WithLabelValues("output").Inc()
		writeFallback(g.fallback, "", string(p), werr.Error())
	}
	return len(p), nil
}

func writeFallback(w io.Writer, level, msg, fault string) {
	defer func() { _ = recover() }()
	_, _ = fmt.Fprintf(w, "%s %s %s (logger fault: %s)\n", time.Now().UTC().Format(time.RFC3339), level, msg, fault)
}
