package tracing

import (
	"context"
	"math"
	"sync"
	"time"

	"request-telemetry/internal/shared/clock"
)

type startKey struct{}

// StartTimer records now as the request start time in ctx.
func StartTimer(ctx context.Context, c clock.Clock) context.Context {
	return context.WithValue(ctx, startKey{}, c.Now())
}

// StartTime returns the start time recorded in ctx, if a timer was installed.
func StartTime(ctx context.Context) (time.Time, bool) {
	start, ok := ctx.Value(startKey{}).(time.Time)
	return start, ok
}

// ElapsedMs returns the time since the recorded start in whole milliseconds,
// rounded to nearest. ok is false when no timer was installed.
func ElapsedMs(ctx context.Context, c clock.Clock) (int64, bool) {
	start, ok := StartTime(ctx)
	if !ok {
		return 0, false
	}
	return RoundMs(clock.Since(c, start)), true
}

// RoundMs converts d to milliseconds, rounding half away from zero.
func RoundMs(d time.Duration) int64 {
	return int64(math.Round(float64(d) / float64(time.Millisecond)))
}

// Outcome is how a request reached its terminal state.
type Outcome string

const (
	OutcomeCompleted Outcome = "completed"
	OutcomeAborted   Outcome = "aborted"
)

// Hook runs its callback at most once, on whichever terminal event arrives first.
type Hook struct {
	once sync.Once
	fn   func(Outcome)
}

func NewHook(fn func(Outcome)) *Hook {
	return &Hook{fn: fn}
}

// Fire invokes the callback with outcome unless it already ran. It reports
// whether this call was the one that ran it.
func (h *Hook) Fire(outcome Outcome) bool {
	fired := false
	h.once.Do(func() {
		fired = true
		h.fn(outcome)
	})
	return fired
}
