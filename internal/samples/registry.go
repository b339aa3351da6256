package samples

import (
	"math"
	"sync"
	"time"

	"request-telemetry/internal/buffers"
	"request-telemetry/internal/shared/clock"
)

const (
	DefaultCapacity               = 1000
	DefaultMaxAge                 = 24 * time.Hour
	DefaultEvictionInterval       = time.Hour
	DefaultSlowOperationThreshold = time.Second

	recentLimit = 10
)

// Registry holds bounded, category-partitioned samples for the process.
// Each category is a FIFO ring: under sustained load the oldest samples are
// dropped silently to keep memory bounded.
type Registry struct {
	mu      sync.Mutex
	buffers map[Category]*buffers.Ring[Sample]

	clock         clock.Clock
	startedAt     time.Time
	capacity      int
	slowThreshold time.Duration
}

type Option func(*Registry)

func WithClock(c clock.Clock) Option {
	return func(r *Registry) { r.clock = c }
}

func WithCapacity(capacity int) Option {
	return func(r *Registry) { r.capacity = capacity }
}

// WithSlowOperationThreshold sets the duration above which a performance
// sample is reported as a slow operation.
func WithSlowOperationThreshold(threshold time.Duration) Option {
	return func(r *Registry) { r.slowThreshold = threshold }
}

func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		clock:         clock.System,
		capacity:      DefaultCapacity,
		slowThreshold: DefaultSlowOperationThreshold,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.startedAt = r.clock.Now()
	r.buffers = make(map[Category]*buffers.Ring[Sample], len(Categories))
	for _, category := range Categories {
		r.buffers[category] = buffers.NewRing[Sample](r.capacity)
	}
	return r
}

// Record appends sample to category. Samples without a timestamp are stamped
// with the registry clock. Unknown categories are ignored.
func (r *Registry) Record(category Category, sample Sample) {
	if !category.Valid() {
		return
	}
	if sample.Timestamp.IsZero() {
		sample.Timestamp = r.clock.Now()
	}

	r.mu.Lock()
	evicted := r.buffers[category].Push(sample)
	r.mu.Unlock()

	metricSamplesRecordedTotal.WithLabelValues(string(category)).Inc()
	if evicted {
		metricSamplesEvictedTotal.WithLabelValues(string(category), evictReasonCapacity).Inc()
	}
}

// Len returns the number of samples currently held in category.
func (r *Registry) Len(category Category) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if buf, ok := r.buffers[category]; ok {
		return buf.Len()
	}
	return 0
}

// Samples returns a copy of category's samples in insertion order.
func (r *Registry) Samples(category Category) []Sample {
	r.mu.Lock()
	defer r.mu.Unlock()
	if buf, ok := r.buffers[category]; ok {
		return buf.Snapshot()
	}
	return nil
}

func (r *Registry) Uptime() time.Duration {
	return clock.Since(r.clock, r.startedAt)
}

// Clear empties every category.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, buf := range r.buffers {
		buf.Clear()
	}
}

// Evict removes, across all categories, every sample whose timestamp is not
// strictly newer than now-maxAge. It returns the number of samples removed.
// A maxAge of zero empties the registry.
func (r *Registry) Evict(maxAge time.Duration) int {
	cutoff := r.clock.Now().Add(-maxAge)

	r.mu.Lock()
	removedByCategory := make(map[Category]int, len(r.buffers))
	for category, buf := range r.buffers {
		removedByCategory[category] = buf.Retain(func(s Sample) bool {
			return s.Timestamp.After(cutoff)
		})
	}
	r.mu.Unlock()

	total := 0
	for category, removed := range removedByCategory {
		if removed > 0 {
			metricSamplesEvictedTotal.WithLabelValues(string(category), evictReasonAge).Add(float64(removed))
		}
		total += removed
	}
	return total
}

// Query aggregates the registry as of the clock's current time.
func (r *Registry) Query() AggregateMetrics {
	return r.QueryAt(r.clock.Now())
}

// QueryAt aggregates the registry as of now. A sample belongs to a window iff
// its timestamp is strictly after now-window.
func (r *Registry) QueryAt(now time.Time) AggregateMetrics {
	hourCutoff := now.Add(-time.Hour)
	dayCutoff := now.Add(-24 * time.Hour)

	r.mu.Lock()
	errs := r.buffers[CategoryErrors].Snapshot()
	warnings := r.buffers[CategoryWarnings].Snapshot()
	requests := r.buffers[CategoryRequests].Snapshot()
	performance := r.buffers[CategoryPerformance].Snapshot()
	r.mu.Unlock()

	result := AggregateMetrics{
		UptimeSeconds: int64(now.Sub(r.startedAt) / time.Second),
	}

	result.Errors.LastHour = countAfter(errs, hourCutoff)
	result.Errors.LastDay = countAfter(errs, dayCutoff)
	result.Errors.Recent = lastN(errs, recentLimit)

	result.Warnings.LastHour = countAfter(warnings, hourCutoff)
	result.Warnings.LastDay = countAfter(warnings, dayCutoff)

	var (
		requestsLastHour int
		durationSum      float64
		durationCount    int
	)
	for _, s := range requests {
		if !s.Timestamp.After(hourCutoff) {
			continue
		}
		requestsLastHour++
		if d, ok := s.DurationMs(); ok {
			durationSum += d
			durationCount++
		}
	}
	result.Requests.LastHour = requestsLastHour
	if requestsLastHour > 0 {
		result.Requests.ErrorRate = round2(float64(result.Errors.LastHour) / float64(requestsLastHour) * 100)
	}
	if durationCount > 0 {
		result.Requests.AvgResponseTime = round2(durationSum / float64(durationCount))
	}

	slow := make([]Sample, 0, recentLimit)
	for _, s := range performance {
		if d, ok := s.DurationMs(); ok && d > float64(r.slowThreshold)/float64(time.Millisecond) {
			slow = append(slow, s)
		}
	}
	result.Performance.SlowOperations = lastN(slow, recentLimit)

	return result
}

func countAfter(samples []Sample, cutoff time.Time) int {
	n := 0
	for _, s := range samples {
		if s.Timestamp.After(cutoff) {
			n++
		}
	}
	return n
}

func lastN(samples []Sample, n int) []Sample {
	if len(samples) > n {
		samples = samples[len(samples)-n:]
	}
	out := make([]Sample, len(samples))
	copy(out, samples)
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
