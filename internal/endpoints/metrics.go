package endpoints

import (
	"request-telemetry/internal/shared/metrics"
)

var (
	// metricEndpointsTracked reports how many distinct endpoint keys are held.
	metricEndpointsTracked = metrics.NewGauge(
		metrics.GaugeOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubEndpoints,
			Name:      "tracked",
		},
	)
)
