package http

import (
	"net/http"

	"request-telemetry/internal/tracing"
)

const (
	headerContentType = "Content-Type"
	contentTypeJSON   = "application/json"
)

// correlationID prefers the identifier assigned by mwTrace and falls back to
// the inbound header for handlers mounted outside the middleware chain.
func correlationID(r *http.Request) string {
	if id, ok := tracing.CorrelationID(r.Context()); ok {
		return id
	}
	id, _ := tracing.IncomingCorrelationID(r.Header)
	return id
}
