package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"
	"strconv"
	"strings"
	"time"

	"request-telemetry/internal/endpoints"
	"request-telemetry/internal/shared/clock"
	"request-telemetry/internal/shared/loggers"
	"request-telemetry/internal/shared/svcerrors"
	"request-telemetry/internal/tracing"

	"github.com/go-chi/chi/v5"
)

// StatusClientClosedRequest is reported for requests the client abandoned
// before the handler finished.
const StatusClientClosedRequest = 499

// Instrumentation is what the request pipeline records into.
type Instrumentation struct {
	Logger               *loggers.Logger
	Tracker              *endpoints.Tracker
	Clock                clock.Clock
	SlowRequestThreshold time.Duration
	// SkipPaths get a correlation id but produce no samples, endpoint stats
	// or request log. A path matches itself and everything below it.
	SkipPaths []string
}

func (inst Instrumentation) skipped(path string) bool {
	for _, p := range inst.SkipPaths {
		if path == p || strings.HasPrefix(path, strings.TrimSuffix(p, "/")+"/") {
			return true
		}
	}
	return false
}

func setupMiddleware(router *chi.Mux, inst Instrumentation) {
	router.Use(mwTrace(inst))
	router.Use(mwRecoverer)
}

// mwTrace assigns the correlation id, binds a request-scoped logger, starts
// the request timer and registers the completion hook. The hook fires once,
// on handler return, panic unwinding or client abort, whichever comes first.
func mwTrace(inst Instrumentation) func(http.Handler) http.Handler {
	if inst.Logger == nil {
		inst.Logger = loggers.Nop()
	}
	if inst.Clock == nil {
		inst.Clock = clock.System
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r, _ = tracing.Assign(w, r)
			r = r.WithContext(tracing.WithUserSlot(r.Context()))
			appWriter := newAppResponseWriter(w, r.ProtoMajor)
			ctx := loggers.WithContext(r.Context(), inst.Logger.ForRequest(r))

			if inst.skipped(r.URL.Path) {
				next.ServeHTTP(appWriter, r.WithContext(ctx))
				return
			}

			r = r.WithContext(tracing.StartTimer(ctx, inst.Clock))
			hook := tracing.NewHook(func(outcome tracing.Outcome) {
				inst.complete(r, appWriter, outcome)
			})
			stopAbortWatch := context.AfterFunc(r.Context(), func() {
				hook.Fire(tracing.OutcomeAborted)
			})

			returned := false
			defer func() {
				stopAbortWatch()
				if !returned {
					// unwinding from a panic nothing below recovered
					hook.Fire(tracing.OutcomeAborted)
				}
			}()

			next.ServeHTTP(appWriter, r)
			returned = true

			// the handler may have returned because the client went away
			outcome := tracing.OutcomeCompleted
			if r.Context().Err() != nil {
				outcome = tracing.OutcomeAborted
			}
			hook.Fire(outcome)
		})
	}
}

// complete fans a finished request out to the request log, the endpoint
// tracker and Prometheus.
func (inst Instrumentation) complete(r *http.Request, w *appResponseWriter, outcome tracing.Outcome) {
	durationMs, hasDuration := tracing.ElapsedMs(r.Context(), inst.Clock)

	status := StatusClientClosedRequest
	errorCode := ""
	if outcome == tracing.OutcomeCompleted {
		status = w.StatusOrOK()
		errorCode = w.ErrorCode()
	}

	// chi reports a 404 below a mounted subrouter as "/prefix/*"
	route := endpoints.UnmatchedRoute
	if outcome != tracing.OutcomeCompleted || !w.Unrouted() {
		route = routePattern(r)
	}
	fields := loggers.Fields{
		loggers.FieldRoute:      route,
		loggers.FieldStatusCode: status,
		loggers.FieldOutcome:    string(outcome),
	}
	if errorCode != "" {
		fields[loggers.FieldErrorCode] = errorCode
	}
	// authentication usually runs after mwTrace, so the user is read at the end
	if uid, ok := tracing.UserID(r.Context()); ok {
		fields[loggers.FieldUserID] = uid
	}
	if hasDuration {
		fields[loggers.FieldDurationMs] = durationMs
		if inst.Tracker != nil {
			inst.Tracker.Record(endpoints.NewKey(r.Method, route), durationMs, status)
		}
	}

	level := requestLogLevel(status, durationMs, hasDuration, outcome, inst.SlowRequestThreshold)
	loggers.Ctx(r.Context()).Request(level, fmt.Sprintf("%s %s %d", r.Method, r.URL.Path, status), fields)

	statusStr := strconv.Itoa(status)
	metricHTTPRequestsTotal.WithLabelValues(r.Method, route, statusStr, errorCode).Inc()
	if hasDuration {
		metricHTTPRequestDuration.WithLabelValues(r.Method, route, statusStr, errorCode).
			Observe(float64(durationMs) / 1000)
	}
}

// requestLogLevel classifies a finished request: server errors at error;
// client errors, slow requests and aborts at warn; everything else at http.
func requestLogLevel(status int, durationMs int64, hasDuration bool, outcome tracing.Outcome, slow time.Duration) loggers.Level {
	switch {
	case outcome == tracing.OutcomeAborted:
		return loggers.LevelWarn
	case status >= 500:
		return loggers.LevelError
	case status >= 400:
		return loggers.LevelWarn
	case hasDuration && slow > 0 && durationMs > slow.Milliseconds():
		return loggers.LevelWarn
	}
	return loggers.LevelHTTP
}

// routePattern returns the resolved chi route template. Requests chi could
// not route share the unmatched bucket so raw paths never become keys.
func routePattern(r *http.Request) string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return endpoints.UnmatchedRoute
	}
	if pattern := rctx.RoutePattern(); pattern != "" {
		return pattern
	}
	return endpoints.UnmatchedRoute
}

// mwRecoverer provides panic recovery middleware.
func mwRecoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if p := recover(); p != nil {
				if p == http.ErrAbortHandler {
					panic(p)
				}

				// Convert panic value to error
				var panicErr error
				if err, ok := p.(error); ok {
					panicErr = err
				} else {
					panicErr = errors.New(fmt.Sprint(p))
				}

				loggers.Ctx(r.Context()).Error("http panic recovered", loggers.Fields{
					loggers.FieldError:      panicErr,
					loggers.FieldErrorStack: string(debug.Stack()),
					loggers.FieldCategory:   "http",
				})

				svcErr := svcerrors.NewInternalErrorPanic(panicErr)
				writeErrorResponse(w, r, svcErr)
			}
		}()

		next.ServeHTTP(w, r)
	})
}
