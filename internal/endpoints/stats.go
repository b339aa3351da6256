package endpoints

import (
	"math"
	"sort"

	"request-telemetry/internal/buffers"
)

const (
	DefaultRecentCapacity = 100

	p95Quantile = 0.95
)

// stats aggregates the requests observed for one endpoint. minDurationMs starts
// at +Inf and is reported as 0 until a request is recorded.
type stats struct {
	totalRequests   int64
	totalErrors     int64
	totalDurationMs int64
	maxDurationMs   int64
	minDurationMs   float64
	recent          *buffers.Ring[int64]
}

func newStats(recentCapacity int) *stats {
	return &stats{
		minDurationMs: math.Inf(1),
		recent:        buffers.NewRing[int64](recentCapacity),
	}
}

func (s *stats) record(durationMs int64, statusCode int) {
	s.totalRequests++
	s.totalDurationMs += durationMs
	if durationMs > s.maxDurationMs {
		s.maxDurationMs = durationMs
	}
	if float64(durationMs) < s.minDurationMs {
		s.minDurationMs = float64(durationMs)
	}
	if statusCode >= 400 {
		s.totalErrors++
	}
	s.recent.Push(durationMs)
}

func (s *stats) snapshot() Snapshot {
	snap := Snapshot{
		TotalRequests: s.totalRequests,
		TotalErrors:   s.totalErrors,
		MaxDuration:   s.maxDurationMs,
		P95Duration:   nearestRank(s.recent.Snapshot(), p95Quantile),
	}
	if s.totalRequests == 0 {
		return snap
	}
	snap.ErrorRate = round2(float64(s.totalErrors) / float64(s.totalRequests) * 100)
	snap.AvgDuration = round2(float64(s.totalDurationMs) / float64(s.totalRequests))
	if !math.IsInf(s.minDurationMs, 1) {
		snap.MinDuration = int64(s.minDurationMs)
	}
	return snap
}

// nearestRank returns sorted[floor(len*q)] over a sorted copy of values, or 0
// when values is empty.
func nearestRank(values []int64, q float64) int64 {
	if len(values) == 0 {
		return 0
	}
	sort.Slice(values, func(i, j int) bool { return values[i] < values[j] })
	idx := int(math.Floor(float64(len(values)) * q))
	if idx >= len(values) {
		idx = len(values) - 1
	}
	return values[idx]
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
