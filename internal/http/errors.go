package http

import (
	"fmt"

	"request-telemetry/internal/shared/svcerrors"
)

const (
	codeInternalResponseEncodingFailed = "MON_9000"
)

// errInternalResponseEncodingFailed returns an error when a monitoring payload cannot be serialized.
func errInternalResponseEncodingFailed(cause error) *svcerrors.ServiceError {
	return svcerrors.NewInternalError(codeInternalResponseEncodingFailed, fmt.Errorf("responseEncodingFailed: %w", cause))
}
