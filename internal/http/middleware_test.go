package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"request-telemetry/internal/endpoints"
	"request-telemetry/internal/samples"
	"request-telemetry/internal/shared/clock"
	"request-telemetry/internal/shared/ids"
	"request-telemetry/internal/shared/loggers"
	"request-telemetry/internal/tracing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

type testRig struct {
	registry *samples.Registry
	tracker  *endpoints.Tracker
	clk      *clock.Fake
	out      *syncBuffer
	router   *chi.Mux
}

func newTestRig(t *testing.T, level string) *testRig {
	t.Helper()
	clk := clock.NewFake(time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC))
	registry := samples.NewRegistry(samples.WithClock(clk))
	tracker := endpoints.NewTracker()
	out := &syncBuffer{}
	logger := loggers.New(loggers.Options{
		Level:    level,
		Mode:     loggers.ModeProduction,
		Service:  "test",
		Output:   out,
		Recorder: registry,
		Clock:    clk,
	})

	router := chi.NewRouter()
	setupMiddleware(router, Instrumentation{
		Logger:               logger,
		Tracker:              tracker,
		Clock:                clk,
		SlowRequestThreshold: time.Second,
		SkipPaths:            []string{"/healthz"},
	})
	router.NotFound(errorHandlingAdapter(notFoundHandler{}))
	router.MethodNotAllowed(errorHandlingAdapter(methodNotAllowedHandler{}))

	return &testRig{registry: registry, tracker: tracker, clk: clk, out: out, router: router}
}

func (rig *testRig) serve(req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	rig.router.ServeHTTP(rr, req)
	return rr
}

func TestMwTrace_AdoptsInboundRequestID(t *testing.T) {
	t.Parallel()

	rig := newTestRig(t, "debug")
	var seen string
	rig.router.Get("/test", func(w http.ResponseWriter, r *http.Request) {
		seen, _ = tracing.CorrelationID(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header["x-request-id"] = []string{"abc-123"}
	rr := rig.serve(req)

	assert.Equal(t, "abc-123", seen)
	assert.Equal(t, "abc-123", rr.Header().Get(tracing.HeaderRequestID))
}

func TestMwTrace_GeneratesIDWhenNotProvided(t *testing.T) {
	t.Parallel()

	rig := newTestRig(t, "debug")
	rig.router.Get("/test", func(w http.ResponseWriter, r *http.Request) {
		assert.NotNil(t, loggers.Ctx(r.Context()))
		w.WriteHeader(http.StatusOK)
	})

	first := rig.serve(httptest.NewRequest(http.MethodGet, "/test", nil)).Header().Get(tracing.HeaderRequestID)
	second := rig.serve(httptest.NewRequest(http.MethodGet, "/test", nil)).Header().Get(tracing.HeaderRequestID)

	assert.True(t, ids.IsCorrelationID(first), first)
	assert.True(t, ids.IsCorrelationID(second), second)
	assert.NotEqual(t, first, second)
}

func TestMwTrace_RecordsCompletedRequest(t *testing.T) {
	t.Parallel()

	rig := newTestRig(t, "debug")
	rig.router.Get("/users/{id}", func(w http.ResponseWriter, r *http.Request) {
		rig.clk.Advance(42 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	})

	rig.serve(httptest.NewRequest(http.MethodGet, "/users/7", nil))
	rig.serve(httptest.NewRequest(http.MethodGet, "/users/8", nil))

	snap := rig.tracker.Snapshot()
	require.Contains(t, snap, "GET /users/{id}")
	assert.Len(t, snap, 1)
	assert.Equal(t, int64(2), snap["GET /users/{id}"].TotalRequests)
	assert.Equal(t, int64(42), snap["GET /users/{id}"].MaxDuration)

	reqs := rig.registry.Samples(samples.CategoryRequests)
	require.Len(t, reqs, 2)
	d, ok := reqs[0].DurationMs()
	require.True(t, ok)
	assert.Equal(t, float64(42), d)
	assert.Equal(t, "GET /users/7 200", reqs[0].Message)
	assert.Equal(t, "/users/{id}", reqs[0].Fields[loggers.FieldRoute])

	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.SplitN([]byte(rig.out.String()), []byte("\n"), 2)[0], &line))
	assert.Equal(t, "http", line["level"])
	assert.Equal(t, "completed", line[loggers.FieldOutcome])
}

func TestMwTrace_UserSetByLaterMiddlewareReachesRequestRecord(t *testing.T) {
	t.Parallel()

	rig := newTestRig(t, "debug")
	auth := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(tracing.WithUserID(r.Context(), "user-42")))
		})
	}
	rig.router.With(auth).Get("/me", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	rig.serve(httptest.NewRequest(http.MethodGet, "/me", nil))
	rig.serve(httptest.NewRequest(http.MethodGet, "/anonymous", nil))

	reqs := rig.registry.Samples(samples.CategoryRequests)
	require.Len(t, reqs, 2)
	assert.Equal(t, "user-42", reqs[0].Fields[loggers.FieldUserID])
	assert.NotContains(t, reqs[1].Fields, loggers.FieldUserID, "slots are per request")
	assert.Contains(t, rig.out.String(), `"userId":"user-42"`)
}

func TestMwTrace_UnmatchedRoutesShareOneBucket(t *testing.T) {
	t.Parallel()

	rig := newTestRig(t, "debug")
	rig.router.Get("/known", func(w http.ResponseWriter, r *http.Request) {})

	rr := rig.serve(httptest.NewRequest(http.MethodGet, "/nope/1", nil))
	rig.serve(httptest.NewRequest(http.MethodGet, "/nope/2", nil))
	rr405 := rig.serve(httptest.NewRequest(http.MethodPost, "/known", nil))

	assert.Equal(t, http.StatusNotFound, rr.Code)
	var errorResponse ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &errorResponse))
	assert.Equal(t, "HTTP_4040", errorResponse.ErrorCode)
	assert.Equal(t, rr.Header().Get(tracing.HeaderRequestID), errorResponse.RequestID)
	assert.Equal(t, http.StatusMethodNotAllowed, rr405.Code)

	snap := rig.tracker.Snapshot()
	assert.Len(t, snap, 2)
	assert.Equal(t, int64(2), snap["GET <unmatched>"].TotalRequests)
	assert.Equal(t, int64(2), snap["GET <unmatched>"].TotalErrors)
	assert.Equal(t, int64(1), snap["POST <unmatched>"].TotalRequests)
	assert.Equal(t, 3, rig.registry.Len(samples.CategoryWarnings))
}

func TestMwTrace_SkipPathsStillGetRequestID(t *testing.T) {
	t.Parallel()

	rig := newTestRig(t, "debug")
	rig.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		_, ok := tracing.StartTime(r.Context())
		assert.False(t, ok)
	})

	rr := rig.serve(httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.NotEmpty(t, rr.Header().Get(tracing.HeaderRequestID))
	assert.Empty(t, rig.tracker.Snapshot())
	assert.Zero(t, rig.registry.Len(samples.CategoryRequests))
	assert.Empty(t, rig.out.String())
}

func TestMwTrace_ClientAbort(t *testing.T) {
	t.Parallel()

	rig := newTestRig(t, "debug")
	started := make(chan struct{})
	rig.router.Get("/slow", func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-r.Context().Done()
	})

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/slow", nil).WithContext(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		rig.serve(req)
	}()

	<-started
	rig.clk.Advance(250 * time.Millisecond)
	cancel()
	<-done

	require.Eventually(t, func() bool {
		return len(rig.tracker.Snapshot()) == 1
	}, time.Second, 5*time.Millisecond)

	snap := rig.tracker.Snapshot()["GET /slow"]
	assert.Equal(t, int64(1), snap.TotalRequests)
	assert.Equal(t, int64(1), snap.TotalErrors)
	assert.Equal(t, int64(250), snap.MaxDuration)

	reqs := rig.registry.Samples(samples.CategoryRequests)
	require.Len(t, reqs, 1)
	code, _ := reqs[0].StatusCode()
	assert.Equal(t, StatusClientClosedRequest, code)
	assert.Equal(t, string(tracing.OutcomeAborted), reqs[0].Fields[loggers.FieldOutcome])
}

func TestMwTrace_SlowRequestLogsWarn(t *testing.T) {
	t.Parallel()

	rig := newTestRig(t, "warn")
	rig.router.Get("/fast", func(w http.ResponseWriter, r *http.Request) {
		rig.clk.Advance(10 * time.Millisecond)
	})
	rig.router.Get("/report", func(w http.ResponseWriter, r *http.Request) {
		rig.clk.Advance(1500 * time.Millisecond)
	})

	rig.serve(httptest.NewRequest(http.MethodGet, "/fast", nil))
	rig.serve(httptest.NewRequest(http.MethodGet, "/report", nil))

	// the fast request is gated out of the log but still counted per endpoint
	assert.Len(t, rig.tracker.Snapshot(), 2)
	reqs := rig.registry.Samples(samples.CategoryRequests)
	require.Len(t, reqs, 1)
	assert.Equal(t, "GET /report 200", reqs[0].Message)
	assert.Equal(t, 1, rig.registry.Len(samples.CategoryWarnings))
}

func TestMwRecoverer_RecoversFromPanic(t *testing.T) {
	t.Parallel()

	rig := newTestRig(t, "debug")
	rig.router.Get("/test-panic", func(w http.ResponseWriter, r *http.Request) {
		panic("test panic")
	})

	rr := rig.serve(httptest.NewRequest(http.MethodGet, "/test-panic", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var errorResponse ErrorResponse
	err := json.Unmarshal(rr.Body.Bytes(), &errorResponse)
	require.NoError(t, err)

	assert.NotEmpty(t, errorResponse.RequestID, "request ID should be set")
	assert.Equal(t, "internal", errorResponse.ErrorCategory)
	assert.Equal(t, "SYS_9000", errorResponse.ErrorCode)
	assert.Equal(t, "internal server error", errorResponse.ErrorDescription)

	snap := rig.tracker.Snapshot()["GET /test-panic"]
	assert.Equal(t, int64(1), snap.TotalErrors)
	// one record for the panic itself, one for the 500 request log
	assert.Equal(t, 2, rig.registry.Len(samples.CategoryErrors))
	assert.Contains(t, rig.out.String(), "http panic recovered")
	// error records, not failed requests, over requests
	assert.Equal(t, float64(200), rig.registry.Query().Requests.ErrorRate)
}

func TestMwRecoverer_RecoversFromErrorPanic(t *testing.T) {
	t.Parallel()

	rig := newTestRig(t, "info")
	rig.router.Get("/test", func(w http.ResponseWriter, r *http.Request) {
		panic(assert.AnError)
	})

	var rr *httptest.ResponseRecorder
	assert.NotPanics(t, func() {
		rr = rig.serve(httptest.NewRequest(http.MethodGet, "/test", nil))
	})
	assert.Equal(t, http.StatusInternalServerError, rr.Code)

	var errorResponse ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &errorResponse))
	assert.Equal(t, "SYS_9000", errorResponse.ErrorCode)
}

func TestMwRecoverer_PassesThroughWhenNoPanic(t *testing.T) {
	t.Parallel()

	rig := newTestRig(t, "info")
	rig.router.Get("/test", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("success"))
	})

	rr := rig.serve(httptest.NewRequest(http.MethodGet, "/test", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "success", rr.Body.String())
}

func TestMwTrace_AbortHandlerPanicFiresHookOnce(t *testing.T) {
	t.Parallel()

	rig := newTestRig(t, "debug")
	rig.router.Get("/abort", func(w http.ResponseWriter, r *http.Request) {
		rig.clk.Advance(5 * time.Millisecond)
		panic(http.ErrAbortHandler)
	})

	assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
		rig.serve(httptest.NewRequest(http.MethodGet, "/abort", nil))
	})

	snap := rig.tracker.Snapshot()["GET /abort"]
	assert.Equal(t, int64(1), snap.TotalRequests)
	assert.Equal(t, int64(5), snap.MaxDuration)
	reqs := rig.registry.Samples(samples.CategoryRequests)
	require.Len(t, reqs, 1)
	code, _ := reqs[0].StatusCode()
	assert.Equal(t, StatusClientClosedRequest, code)
}

func TestRequestLogLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		status      int
		durationMs  int64
		hasDuration bool
		outcome     tracing.Outcome
		want        loggers.Level
	}{
		{name: "ok", status: 200, durationMs: 20, hasDuration: true, outcome: tracing.OutcomeCompleted, want: loggers.LevelHTTP},
		{name: "redirect", status: 302, durationMs: 20, hasDuration: true, outcome: tracing.OutcomeCompleted, want: loggers.LevelHTTP},
		{name: "client error", status: 404, durationMs: 20, hasDuration: true, outcome: tracing.OutcomeCompleted, want: loggers.LevelWarn},
		{name: "server error", status: 503, durationMs: 20, hasDuration: true, outcome: tracing.OutcomeCompleted, want: loggers.LevelError},
		{name: "slow", status: 200, durationMs: 1001, hasDuration: true, outcome: tracing.OutcomeCompleted, want: loggers.LevelWarn},
		{name: "at threshold", status: 200, durationMs: 1000, hasDuration: true, outcome: tracing.OutcomeCompleted, want: loggers.LevelHTTP},
		{name: "no duration", status: 200, outcome: tracing.OutcomeCompleted, want: loggers.LevelHTTP},
		{name: "aborted", status: 499, durationMs: 3, hasDuration: true, outcome: tracing.OutcomeAborted, want: loggers.LevelWarn},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := requestLogLevel(tt.status, tt.durationMs, tt.hasDuration, tt.outcome, time.Second)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInstrumentation_Skipped(t *testing.T) {
	t.Parallel()

	inst := Instrumentation{SkipPaths: []string{"/healthz", "/metrics/"}}
	assert.True(t, inst.skipped("/healthz"))
	assert.True(t, inst.skipped("/healthz/live"))
	assert.True(t, inst.skipped("/metrics/x"))
	assert.False(t, inst.skipped("/healthzz"))
	assert.False(t, inst.skipped("/users"))
}
