package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/customeros/sleeper/services/task"
)

type staticSource struct {
	status task.Status
}

func (s staticSource) Status() task.Status {
	return s.status
}

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	found := false
	RegisterRoutes(r, staticSource{status: task.Status{
		ID:          "abc123",
		Provider:    "guerrillamail",
		Interval:    "5m0s",
		Ticks:       2,
		LastResult:  &found,
		ProviderExt: map[string]string{"address": "x@guerrillamailblock.com"},
	}})
	return r
}

func TestHealth(t *testing.T) {
	// Arrange
	r := newRouter()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)

	// Act
	r.ServeHTTP(w, req)

	// Assert
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestStatus(t *testing.T) {
	// Arrange
	r := newRouter()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/status", nil)

	// Act
	r.ServeHTTP(w, req)

	// Assert
	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "abc123", body["id"])
	assert.Equal(t, "guerrillamail", body["provider"])
	assert.Equal(t, float64(2), body["ticks"])
	assert.Equal(t, false, body["lastResult"])
	assert.Equal(t, map[string]interface{}{"address": "x@guerrillamailblock.com"}, body["providerStatus"])
}

func TestStatus_UnknownRoute(t *testing.T) {
	w := httptest.NewRecorder()

	newRouter().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/status", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRegisterRoutes_NilSourcePanics(t *testing.T) {
	assert.Panics(t, func() {
		RegisterRoutes(gin.New(), nil)
	})
}
