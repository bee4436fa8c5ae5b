// AngelaMos | 2026
// response_test.go

package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withExposeErrors(t *testing.T, expose bool) {
	t.Helper()
	prev := exposeErrors.Load()
	SetExposeErrors(expose)
	t.Cleanup(func() { SetExposeErrors(prev) })
}

func decodeErrorResponse(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestJSONError_InternalDetail(t *testing.T) {
	cause := fmt.Errorf("list leads: %w", errors.New("connection refused"))

	tests := []struct {
		name       string
		expose     bool
		wantDetail string
	}{
		{name: "development exposes cause", expose: true, wantDetail: cause.Error()},
		{name: "production hides cause", expose: false, wantDetail: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withExposeErrors(t, tt.expose)

			rec := httptest.NewRecorder()
			JSONError(rec, cause)

			assert.Equal(t, http.StatusInternalServerError, rec.Code)
			body := decodeErrorResponse(t, rec)
			assert.False(t, body.Success)
			assert.Equal(t, "INTERNAL_ERROR", body.Error.Code)
			assert.Equal(t, tt.wantDetail, body.Error.Detail)

			if !tt.expose {
				assert.NotContains(t, rec.Body.String(), "connection refused")
				assert.NotContains(t, rec.Body.String(), `"detail"`)
			}
		})
	}
}

func TestJSONError_ClientErrorsNeverCarryDetail(t *testing.T) {
	withExposeErrors(t, true)

	rec := httptest.NewRecorder()
	JSONError(rec, fmt.Errorf("create lead: %w", NotFoundError("lead")))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	body := decodeErrorResponse(t, rec)
	assert.Equal(t, "NOT_FOUND", body.Error.Code)
	assert.Equal(t, "lead not found", body.Error.Message)
	assert.Empty(t, body.Error.Detail)
}

func TestJSONError_StatusMapping(t *testing.T) {
	tests := []struct {
		err      error
		wantCode int
		wantName string
	}{
		{err: ValidationError("bad"), wantCode: http.StatusBadRequest, wantName: "VALIDATION_ERROR"},
		{err: DuplicateError("email"), wantCode: http.StatusBadRequest, wantName: "DUPLICATE"},
		{err: UnauthorizedError(""), wantCode: http.StatusUnauthorized, wantName: "UNAUTHORIZED"},
		{err: ForbiddenError(""), wantCode: http.StatusForbidden, wantName: "FORBIDDEN"},
		{err: NotFoundError("user"), wantCode: http.StatusNotFound, wantName: "NOT_FOUND"},
	}

	for _, tt := range tests {
		t.Run(tt.wantName, func(t *testing.T) {
			rec := httptest.NewRecorder()
			JSONError(rec, tt.err)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			assert.Equal(t, tt.wantName, decodeErrorResponse(t, rec).Error.Code)
		})
	}
}

func TestDuplicateError_WrapsSentinel(t *testing.T) {
	err := fmt.Errorf("register: %w", DuplicateError("email"))
	assert.ErrorIs(t, err, ErrDuplicateKey)
	assert.True(t, IsAppError(err))
}

func TestNoContent(t *testing.T) {
	rec := httptest.NewRecorder()
	NoContent(rec)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}
