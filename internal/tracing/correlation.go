package tracing

import (
	"context"
	"net/http"
	"strings"

	"request-telemetry/internal/shared/ids"
)

// HeaderRequestID carries the correlation identifier in both directions.
const HeaderRequestID = "X-Request-ID"

type correlationKey struct{}

// WithCorrelationID returns a copy of ctx carrying id.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationKey{}, id)
}

// CorrelationID returns the identifier attached to ctx, if any.
func CorrelationID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(correlationKey{}).(string)
	return id, ok && id != ""
}

// IncomingCorrelationID looks up the request id header case-insensitively and
// returns its value verbatim when it is non-blank.
func IncomingCorrelationID(h http.Header) (string, bool) {
	if v := h.Get(HeaderRequestID); strings.TrimSpace(v) != "" {
		return v, true
	}
	// Headers set directly on the map bypass canonicalization.
	for name, values := range h {
		if strings.EqualFold(name, HeaderRequestID) && len(values) > 0 && strings.TrimSpace(values[0]) != "" {
			return values[0], true
		}
	}
	return "", false
}

// Assign resolves the correlation identifier for r, attaches it to the request
// context and sets it on the response header. If r's context already carries an
// identifier, that identifier is reused and nothing is regenerated.
func Assign(w http.ResponseWriter, r *http.Request) (*http.Request, string) {
	if id, ok := CorrelationID(r.Context()); ok {
		w.Header().Set(HeaderRequestID, id)
		return r, id
	}

	id, ok := IncomingCorrelationID(r.Header)
	if !ok {
		id = ids.NewCorrelationID()
	}
	w.Header().Set(HeaderRequestID, id)
	return r.WithContext(WithCorrelationID(r.Context(), id)), id
}
