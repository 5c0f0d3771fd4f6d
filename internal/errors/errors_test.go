package errors

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewValidationError(t *testing.T) {
	validationErr := NewValidationError("test validation error", "field1")

	assert.Equal(t, "[VALIDATION_ERROR] test validation error", validationErr.Error())
	assert.Equal(t, CategoryValidation, validationErr.Category)
	assert.Equal(t, http.StatusBadRequest, validationErr.HTTPStatus)
	assert.Equal(t, "field1", validationErr.Details()["validation_details"])
}

func TestNewMissingFieldsError(t *testing.T) {
	tests := []struct {
		name     string
		fields   []string
		expected string
	}{
		{
			name:     "single field",
			fields:   []string{"age"},
			expected: "missing required field: age",
		},
		{
			name:     "several fields name the first",
			fields:   []string{"gender", "addictedToPhone", "age"},
			expected: "missing required field: gender (and 2 more)",
		},
		{
			name:     "no fields",
			fields:   nil,
			expected: "missing required field",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewMissingFieldsError(tt.fields)
			assert.Equal(t, tt.expected, err.Msg)
			assert.Equal(t, http.StatusBadRequest, err.HTTPStatus)
			assert.True(t, IsValidation(err))
			for _, f := range tt.fields {
				assert.Equal(t, "required", err.Details()[f])
			}
		})
	}
}

func TestInternalErrorHidesDetails(t *testing.T) {
	internalErr := NewInternalError("division by zero in scorer", fmt.Errorf("boom"))

	body, err := json.Marshal(internalErr)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &decoded))

	assert.Equal(t, "Internal server error", decoded["error"])
	assert.Equal(t, "INTERNAL_ERROR", decoded["code"])
	assert.NotContains(t, string(body), "division by zero")
	assert.NotContains(t, string(body), "boom")
	assert.False(t, IsValidation(internalErr))
}

func TestToAppError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		category ErrorCategory
		status   int
	}{
		{"keeps app errors", NewValidationError("bad"), CategoryValidation, http.StatusBadRequest},
		{"unwraps wrapped app errors", WrapError(NewNotFoundError("assessment"), "lookup"), CategoryNotFound, http.StatusNotFound},
		{"context cancellation", context.Canceled, CategoryTimeout, http.StatusGatewayTimeout},
		{"deadline", context.DeadlineExceeded, CategoryTimeout, http.StatusGatewayTimeout},
		{"plain error", fmt.Errorf("standard error"), CategoryInternal, http.StatusInternalServerError},
		{"raw builder", errbuilder.New().WithCode(errbuilder.CodeInternal).WithMsg("x"), CategoryInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appErr := ToAppError(tt.err)
			require.NotNil(t, appErr)
			assert.Equal(t, tt.category, appErr.Category)
			assert.Equal(t, tt.status, appErr.HTTPStatus)
		})
	}

	assert.Nil(t, ToAppError(nil))
}

func TestRateLimitError(t *testing.T) {
	err := NewRateLimitError("60")
	assert.Equal(t, http.StatusTooManyRequests, err.HTTPStatus)
	assert.Equal(t, "RATE_LIMIT_EXCEEDED", err.Code())
	assert.Equal(t, "60", err.Details()["retry_after"])
}

func TestErrorHandlerMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(ErrorHandler())
	r.Use(RecoveryHandler())
	r.GET("/fail", func(c *gin.Context) {
		_ = c.Error(NewMissingFieldsError([]string{"age"}))
	})
	r.GET("/panic", func(c *gin.Context) {
		panic("unexpected")
	})

	t.Run("renders handler errors", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/fail", nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)

		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "missing required field: age", body["error"])
		assert.Equal(t, "validation", body["category"])
	})

	t.Run("recovers panics", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/panic", nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "unexpected")
	})
}
