package svcerrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAsServiceError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantErr *ServiceError
		wantOk  bool
	}{
		{
			name:    "nil input",
			err:     nil,
			wantErr: nil,
			wantOk:  false,
		},
		{
			name:    "regular error",
			err:     errors.New("x"),
			wantErr: nil,
			wantOk:  false,
		},
		{
			name:    "direct ServiceError",
			err:     NewNotFoundError(http.MethodGet, "/nope"),
			wantErr: NewNotFoundError(http.MethodGet, "/nope"),
			wantOk:  true,
		},
		{
			name:    "wrapped ServiceError",
			err:     fmt.Errorf("wrap: %w", NewInternalError("MON_9000", nil)),
			wantErr: NewInternalError("MON_9000", nil),
			wantOk:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotErr, gotOk := AsServiceError(tt.err)

			assert.Equal(t, tt.wantOk, gotOk, "AsServiceError() ok value mismatch")

			if tt.wantErr == nil {
				assert.Nil(t, gotErr, "AsServiceError() should return nil error")
			} else {
				require.NotNil(t, gotErr, "AsServiceError() should return non-nil error")
				assert.Equal(t, tt.wantErr.Category, gotErr.Category, "Category mismatch")
				assert.Equal(t, tt.wantErr.Code, gotErr.Code, "Code mismatch")
				assert.Equal(t, tt.wantErr.Message, gotErr.Message, "Message mismatch")
			}
		})
	}
}

func TestConstructors(t *testing.T) {
	cause := errors.New("boom")

	tests := []struct {
		name         string
		err          *ServiceError
		wantCode     string
		wantStatus   int
		wantInternal bool
	}{
		{name: "not found", err: NewNotFoundError(http.MethodGet, "/x"), wantCode: "HTTP_4040", wantStatus: 404},
		{name: "method not allowed", err: NewMethodNotAllowedError(http.MethodPost, "/x"), wantCode: "HTTP_4050", wantStatus: 405},
		{name: "panic", err: NewInternalErrorPanic(cause), wantCode: "SYS_9000", wantStatus: 500, wantInternal: true},
		{name: "undefined", err: NewInternalErrorUndefined(cause), wantCode: "SYS_9001", wantStatus: 500, wantInternal: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantCode, tt.err.Code)
			assert.Equal(t, tt.wantStatus, tt.err.HttpStatusCode)
			assert.Equal(t, tt.wantInternal, tt.err.IsInternalError())
			assert.Equal(t, !tt.wantInternal, tt.err.IsRoutingError())
			if tt.wantInternal {
				assert.ErrorIs(t, tt.err, cause)
				assert.Equal(t, "internal server error", tt.err.Message)
			}
		})
	}

	assert.Equal(t, "HTTP_4050: method POST not allowed on /metrics", NewMethodNotAllowedError("POST", "/metrics").Error())
}
