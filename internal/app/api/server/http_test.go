package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	cfgpkg "github.com/pawcare/backend/pkg/config"
)

func newTestServer(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := &cfgpkg.Config{CORS: cfgpkg.CORSConfig{AllowOrigins: []string{"http://localhost:3000"}}}
	r := newEngine(cfg)
	registerRoutes(routeDeps{Engine: r, Log: zap.NewNop().Sugar(), Config: cfg})
	return r
}

func TestRegisterRoutes_MountsAPI(t *testing.T) {
	r := newTestServer(t)
	paths := map[string]bool{}
	for _, rt := range r.Routes() {
		paths[rt.Method+" "+rt.Path] = true
	}
	for _, want := range []string{
		"GET /healthz",
		"GET /swagger/*any",
		"POST /api/webhook_events/",
		"POST /api/webhook_events/process",
		"POST /api/admin/webhook_events/list",
		"POST /api/users/",
		"GET /api/users/me",
		"POST /api/payments/create-checkout-session",
		"POST /api/care_settings",
		"GET /api/care_settings/me",
		"PATCH /api/care_settings/me/clear",
		"POST /api/care_settings/verify_pin",
		"POST /api/care_password/check_pin",
		"POST /api/care_logs",
		"GET /api/care_logs/today",
		"PATCH /api/care_logs/:id",
		"POST /api/walk_missions",
		"GET /api/walk_missions",
		"PATCH /api/walk_missions/:id",
		"POST /api/reflection_notes",
		"GET /api/reflection_notes",
		"PATCH /api/reflection_notes/:id",
		"POST /api/message_logs/generate",
	} {
		require.True(t, paths[want], want)
	}
	require.False(t, paths["PATCH /api/users/current_plan"])
}

func TestHealthz_EchoesRequestID(t *testing.T) {
	r := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "req-1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "req-1", w.Header().Get("X-Request-ID"))
}

func TestCORS_Preflight(t *testing.T) {
	r := newTestServer(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/users/me", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	req.Header.Set("Access-Control-Request-Headers", "Authorization")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusNoContent, w.Code)
	require.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/api/users/me", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
