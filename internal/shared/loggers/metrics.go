package loggers

import (
	"request-telemetry/internal/shared/metrics"
)

var (
	metricLogRecordsTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubLogger,
			Name:      "records_total",
		},
		[]string{"level"},
	)

	// stage is one of merge, write, record, sink, output.
	metricInstrumentationFaultsTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubLogger,
			Name:      "instrumentation_faults_total",
		},
		[]string{"stage"},
	)
)
