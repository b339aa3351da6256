package monitors

import (
	"context"
	"time"

	"request-telemetry/internal/endpoints"
	"request-telemetry/internal/samples"
	"request-telemetry/internal/shared/loggers"
)

// Health is the liveness summary served on /healthz.
type Health struct {
	Status        string `json:"status"`
	UptimeSeconds int64  `json:"uptimeSeconds"`
}

//go:generate mockgen -source=monitoring_service.go -destination=./mocks/monitoring_service_mock.go -package=mocks
type MonitoringService interface {
	GetAggregateMetrics(ctx context.Context) samples.AggregateMetrics
	GetEndpointMetrics(ctx context.Context) map[string]endpoints.Snapshot
	ResetMetrics(ctx context.Context)
	GetHealth(ctx context.Context) Health
}

type monitoringService struct {
	registry *samples.Registry
	tracker  *endpoints.Tracker
}

func NewMonitoringService(registry *samples.Registry, tracker *endpoints.Tracker) MonitoringService {
	return &monitoringService{registry: registry, tracker: tracker}
}

func (s *monitoringService) GetAggregateMetrics(ctx context.Context) samples.AggregateMetrics {
	return s.registry.Query()
}

// GetEndpointMetrics is keyed by "METHOD routeTemplate".
func (s *monitoringService) GetEndpointMetrics(ctx context.Context) map[string]endpoints.Snapshot {
	return s.tracker.Snapshot()
}

// ResetMetrics drops every sample and endpoint statistic. Uptime is not reset.
func (s *monitoringService) ResetMetrics(ctx context.Context) {
	s.registry.Clear()
	s.tracker.Clear()
	loggers.Ctx(ctx).Info("metrics reset", loggers.Fields{loggers.FieldComponent: "monitors"})
}

func (s *monitoringService) GetHealth(ctx context.Context) Health {
	return Health{
		Status:        "ok",
		UptimeSeconds: int64(s.registry.Uptime() / time.Second),
	}
}
