package validator

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"apostila-ai/backend/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) *gin.Engine {
	gin.SetMode(gin.TestMode)

	v, err := NewOpenAPIValidator("../../api/openapi.yaml")
	require.NoError(t, err)

	r := gin.New()
	r.Use(errors.ErrorHandler())
	r.Use(v.Middleware())
	r.POST("/api/chat", func(c *gin.Context) {
		body, _ := io.ReadAll(c.Request.Body)
		c.String(http.StatusOK, string(body))
	})
	r.GET("/metrics", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	return r
}

func post(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestOpenAPIValidatorPassesBodyThrough(t *testing.T) {
	r := newTestRouter(t)

	w := post(r, "/api/chat", `{"message":"oi","userId":"u1"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"oi","userId":"u1"}`, w.Body.String())
}

func TestOpenAPIValidatorRejectsWrongTypes(t *testing.T) {
	r := newTestRouter(t)

	w := post(r, "/api/chat", `{"message":42,"userId":"u1"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), errors.CodeInvalidInput)
}

func TestOpenAPIValidatorIgnoresUndocumentedPaths(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
