package apiHttp

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mandapam/portal/internal/config"
	"github.com/mandapam/portal/internal/service"
)

func testConfig() *config.Config {
	return &config.Config{
		HttpServer: config.HttpServer{CORSOrigins: []string{"https://portal.example"}},
		Limiter:    config.Limiter{RPS: 100, Burst: 100, TTL: time.Minute},
	}
}

func TestHealth(t *testing.T) {
	cfg := testConfig()
	router := NewHandlers(&service.Services{}, nil, cfg).Init(cfg)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestCORSPreflight(t *testing.T) {
	cfg := testConfig()
	router := NewHandlers(&service.Services{}, nil, cfg).Init(cfg)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/events/1/sessions", nil)
	req.Header.Set("Origin", "https://portal.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://portal.example", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSRejectsUnknownOrigin(t *testing.T) {
	cfg := testConfig()
	router := NewHandlers(&service.Services{}, nil, cfg).Init(cfg)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://evil.example")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCORSConfigWildcard(t *testing.T) {
	c := corsConfig([]string{"*"})
	assert.True(t, c.AllowAllOrigins)
	assert.Empty(t, c.AllowOrigins)
}
