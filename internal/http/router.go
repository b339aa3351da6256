package http

import (
	"net/http"

	"request-telemetry/internal/monitors"
	"request-telemetry/internal/shared/metrics"

	"github.com/go-chi/chi/v5"
)

// NewRouter creates and configures the HTTP router.
func NewRouter(monitoringService monitors.MonitoringService, inst Instrumentation) http.Handler {
	router := chi.NewRouter()
	setupMiddleware(router, inst)

	router.NotFound(errorHandlingAdapter(notFoundHandler{}))
	router.MethodNotAllowed(errorHandlingAdapter(methodNotAllowedHandler{}))

	// Routes
	router.Get("/healthz", errorHandlingAdapter(NewHealthHandler(monitoringService)))
	router.Get("/metrics", metrics.PromHTTP.Handler().ServeHTTP)

	router.Route("/monitoring", func(r chi.Router) {
		r.Get("/metrics", errorHandlingAdapter(NewGetAggregateMetricsHandler(monitoringService)))
		r.Delete("/metrics", errorHandlingAdapter(NewResetMetricsHandler(monitoringService)))
		r.Get("/endpoints", errorHandlingAdapter(NewGetEndpointMetricsHandler(monitoringService)))
	})

	return router
}
