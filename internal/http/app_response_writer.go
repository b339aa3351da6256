package http

import (
	"net/http"

	"request-telemetry/internal/shared/svcerrors"

	"github.com/go-chi/chi/v5/middleware"
)

// appResponseWriter observes the status and service error of a response
// without altering what is written.
type appResponseWriter struct {
	middleware.WrapResponseWriter
	svcError *svcerrors.ServiceError
}

func newAppResponseWriter(w http.ResponseWriter, protoMajor int) *appResponseWriter {
	if existing, ok := w.(*appResponseWriter); ok {
		return existing
	}
	return &appResponseWriter{
		WrapResponseWriter: middleware.NewWrapResponseWriter(w, protoMajor),
	}
}

func (w *appResponseWriter) SetServiceError(svcError *svcerrors.ServiceError) {
	w.svcError = svcError
}

func (w *appResponseWriter) ErrorCode() string {
	if w.svcError != nil {
		return w.svcError.Code
	}
	return ""
}

// Unrouted reports whether the response is the router's 404 or 405.
func (w *appResponseWriter) Unrouted() bool {
	return w.svcError != nil && w.svcError.IsRoutingError()
}

// StatusOrOK reports the written status, or 200 when the handler returned
// without writing a header.
func (w *appResponseWriter) StatusOrOK() int {
	if status := w.Status(); status != 0 {
		return status
	}
	return http.StatusOK
}
