package sinks

import (
	"request-telemetry/internal/shared/metrics"
)

const (
	jobCapture    = "capture_exception"
	jobBreadcrumb = "breadcrumb"

	outcomeDelivered = "delivered"
	outcomeDropped   = "dropped"
	outcomePanicked  = "panicked"
)

var (
	metricSinkEventsTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubSink,
			Name:      "events_total",
		},
		[]string{"kind", "outcome"},
	)
)
