package samples

import (
	"request-telemetry/internal/shared/metrics"
)

const (
	evictReasonCapacity = "capacity"
	evictReasonAge      = "age"
)

var (
	metricSamplesRecordedTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubSamples,
			Name:      "recorded_total",
		},
		[]string{"category"},
	)

	// metricSamplesEvictedTotal counts samples dropped from a category buffer.
	// reason="capacity" is the FIFO overflow under load; reason="age" is the janitor.
	metricSamplesEvictedTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubSamples,
			Name:      "evicted_total",
		},
		[]string{"category", "reason"},
	)
)
