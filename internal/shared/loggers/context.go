package loggers

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"request-telemetry/internal/samples"
	"request-telemetry/internal/shared/clock"
	"request-telemetry/internal/tracing"

	"github.com/mileusna/useragent"
)

type ctxKey struct{}

// WithContext returns a copy of ctx carrying l.
func WithContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// Ctx extracts a logger from the context.
// Returns a no-op logger if no logger is found in context.
var Ctx = func(ctx context.Context) *Logger {
	if l, ok := ctx.Value(ctxKey{}).(*Logger); ok && l != nil {
		return l
	}
	return Nop()
}

// ForRequest binds the request's correlation id, method, path, user,
// client address and user agent family.
func (l *Logger) ForRequest(r *http.Request) *Logger {
	fields := Fields{
		FieldMethod:        r.Method,
		FieldPath:          r.URL.Path,
		FieldClientAddress: ClientAddress(r),
	}
	if id, ok := tracing.CorrelationID(r.Context()); ok {
		fields[FieldCorrelationID] = id
	}
	if uid, ok := tracing.UserID(r.Context()); ok {
		fields[FieldUserID] = uid
	}
	if ua := r.UserAgent(); ua != "" {
		if name := useragent.Parse(ua).Name; name != "" {
			fields[FieldUserAgent] = name
		}
	}
	return l.Child(fields)
}

// ClientAddress prefers the first X-Forwarded-For hop, then X-Real-IP, then
// the connection's remote host.
func ClientAddress(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}
	if real := strings.TrimSpace(r.Header.Get("X-Real-IP")); real != "" {
		return real
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// Time runs fn and records a performance sample for it whatever the
// threshold. The outcome is logged at debug on success and error on failure.
// A panic in fn is recorded as a failure and re-raised.
func (l *Logger) Time(name string, fn func() error) (err error) {
	var clk clock.Clock = clock.System
	if l.core != nil {
		clk = l.core.clock
	}
	start := clk.Now()

	finished := false
	defer func() {
		if finished {
			return
		}
		r := recover()
		if r == nil {
			// runtime.Goexit
			l.finishTimed(name, start, clk, errors.New("exited"))
			return
		}
		l.finishTimed(name, start, clk, fmt.Errorf("panic: %v", r))
		panic(r)
	}()

	err = fn()
	finished = true
	l.finishTimed(name, start, clk, err)
	return err
}

func (l *Logger) finishTimed(name string, start time.Time, clk clock.Clock, err error) {
	durationMs := tracing.RoundMs(clk.Now().Sub(start))
	fields := Fields{
		FieldOperation:  name,
		FieldDurationMs: durationMs,
		FieldSuccess:    err == nil,
	}
	if err != nil {
		fields[FieldError] = err
	}

	if l.core != nil && l.core.recorder != nil {
		c := l.core
		c.guard("record", LevelDebug, name, func() {
			c.recorder.Record(samples.CategoryPerformance, samples.Sample{
				Timestamp: clk.Now(),
				Message:   name,
				Fields:    merge(l.fields, fields),
			})
		})
	}

	if err != nil {
		l.Error("operation failed", fields)
		return
	}
	l.Debug("operation completed", fields)
}
