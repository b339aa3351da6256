package endpoints

import (
	"strings"
	"sync"
)

// UnmatchedRoute is the route recorded for requests no route pattern matched.
// Collapsing them keeps the key space bounded regardless of the paths clients probe.
const UnmatchedRoute = "<unmatched>"

// Key identifies an endpoint by method and resolved route pattern.
type Key struct {
	Method string
	Route  string
}

// NewKey normalizes method to upper case and maps an empty route to UnmatchedRoute.
func NewKey(method, route string) Key {
	if route == "" {
		route = UnmatchedRoute
	}
	return Key{Method: strings.ToUpper(method), Route: route}
}

// String renders the key as "METHOD route".
func (k Key) String() string {
	return k.Method + " " + k.Route
}

// Snapshot is the read view of one endpoint's statistics.
type Snapshot struct {
	TotalRequests int64   `json:"totalRequests"`
	TotalErrors   int64   `json:"totalErrors"`
	ErrorRate     float64 `json:"errorRate"`
	AvgDuration   float64 `json:"avgDuration"`
	MinDuration   int64   `json:"minDuration"`
	MaxDuration   int64   `json:"maxDuration"`
	P95Duration   int64   `json:"p95Duration"`
}

// Tracker keeps per-endpoint aggregates for the lifetime of the process.
// Entries are created on first observation and only removed by Clear.
type Tracker struct {
	mu             sync.Mutex
	endpoints      map[Key]*stats
	recentCapacity int
}

func NewTracker() *Tracker {
	return NewTrackerWithCapacity(DefaultRecentCapacity)
}

// NewTrackerWithCapacity sets how many recent durations feed the p95 estimate.
func NewTrackerWithCapacity(recentCapacity int) *Tracker {
	return &Tracker{
		endpoints:      make(map[Key]*stats),
		recentCapacity: recentCapacity,
	}
}

func (t *Tracker) Record(key Key, durationMs int64, statusCode int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	s, ok := t.endpoints[key]
	if !ok {
		s = newStats(t.recentCapacity)
		t.endpoints[key] = s
		metricEndpointsTracked.Inc()
	}
	s.record(durationMs, statusCode)
}

// Snapshot returns the statistics of every endpoint keyed by "METHOD route".
func (t *Tracker) Snapshot() map[string]Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make(map[string]Snapshot, len(t.endpoints))
	for key, s := range t.endpoints {
		out[key.String()] = s.snapshot()
	}
	return out
}

func (t *Tracker) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.endpoints = make(map[Key]*stats)
	metricEndpointsTracked.Set(0)
}
