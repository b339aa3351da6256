package loggers

import "request-telemetry/internal/sinks"

const (
	FieldService     = "service"
	FieldEnvironment = "environment"
	FieldComponent   = "component"
	FieldCategory    = "category"

	FieldCorrelationID = sinks.ContextCorrelationID
	FieldMethod        = "method"
	FieldPath          = "path"
	FieldRoute         = "route"
	FieldStatusCode    = "statusCode"
	FieldDurationMs    = "durationMs"
	FieldOutcome       = "outcome"
	FieldUserID        = "userId"
	FieldClientAddress = "clientAddress"
	FieldUserAgent     = "userAgent"

	FieldError      = "error"
	FieldErrorStack = "errorStack"
	FieldErrorCode  = "errorCode"

	FieldOperation = "operation"
	FieldSuccess   = "success"
)
