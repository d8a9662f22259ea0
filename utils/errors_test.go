package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func runHandleError(t *testing.T, err error) (int, map[string]any) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/x", nil)

	HandleError(c, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func TestHandleErrorApiError(t *testing.T) {
	code, body := runHandleError(t, fmt.Errorf("wrapped: %w", CreateNotFoundError("project 9")))

	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "project 9 not found", body["error"])
	assert.Equal(t, "RESOURCE_NOT_FOUND", body["code"])
}

func TestHandleErrorValidationDetails(t *testing.T) {
	code, body := runHandleError(t, CreateValidationError("invalid record", []string{"Title is required"}))

	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, []any{"Title is required"}, body["details"])
}

func TestHandleErrorUnexpected(t *testing.T) {
	code, body := runHandleError(t, errors.New("boom"))

	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "boom", body["error"])
}
