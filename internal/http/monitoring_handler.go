package http

import (
	"net/http"

	"request-telemetry/internal/monitors"
	"request-telemetry/internal/shared/svcerrors"
)

type getAggregateMetricsHandler struct {
	monitoringService monitors.MonitoringService
}

func NewGetAggregateMetricsHandler(monitoringService monitors.MonitoringService) AppHttpHandler {
	return &getAggregateMetricsHandler{monitoringService: monitoringService}
}

// Handle processes GET /monitoring/metrics requests.
func (h *getAggregateMetricsHandler) Handle(w http.ResponseWriter, r *http.Request) error {
	return writeJSON(w, http.StatusOK, h.monitoringService.GetAggregateMetrics(r.Context()))
}

type getEndpointMetricsHandler struct {
	monitoringService monitors.MonitoringService
}

func NewGetEndpointMetricsHandler(monitoringService monitors.MonitoringService) AppHttpHandler {
	return &getEndpointMetricsHandler{monitoringService: monitoringService}
}

// Handle processes GET /monitoring/endpoints requests.
func (h *getEndpointMetricsHandler) Handle(w http.ResponseWriter, r *http.Request) error {
	return writeJSON(w, http.StatusOK, h.monitoringService.GetEndpointMetrics(r.Context()))
}

type resetMetricsHandler struct {
	monitoringService monitors.MonitoringService
}

func NewResetMetricsHandler(monitoringService monitors.MonitoringService) AppHttpHandler {
	return &resetMetricsHandler{monitoringService: monitoringService}
}

// Handle processes DELETE /monitoring/metrics requests.
func (h *resetMetricsHandler) Handle(w http.ResponseWriter, r *http.Request) error {
	h.monitoringService.ResetMetrics(r.Context())
	w.WriteHeader(http.StatusNoContent)
	return nil
}

type healthHandler struct {
	monitoringService monitors.MonitoringService
}

func NewHealthHandler(monitoringService monitors.MonitoringService) AppHttpHandler {
	return &healthHandler{monitoringService: monitoringService}
}

// Handle processes GET /healthz requests.
func (h *healthHandler) Handle(w http.ResponseWriter, r *http.Request) error {
	return writeJSON(w, http.StatusOK, h.monitoringService.GetHealth(r.Context()))
}

type notFoundHandler struct{}

func (notFoundHandler) Handle(w http.ResponseWriter, r *http.Request) error {
	return svcerrors.NewNotFoundError(r.Method, r.URL.Path)
}

type methodNotAllowedHandler struct{}

func (methodNotAllowedHandler) Handle(w http.ResponseWriter, r *http.Request) error {
	return svcerrors.NewMethodNotAllowedError(r.Method, r.URL.Path)
}
