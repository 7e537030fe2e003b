package handlers

import (
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestRegisterRoutes_RegistersEndpoints(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterHealthRoutes(r)
	RegisterWebhookRoutes(r.Group("/api/webhook_events"), nil)
	RegisterAdminRoutes(r.Group("/api/admin"), nil)
	RegisterUserRoutes(r.Group("/api/users"), nil, nil)
	RegisterPaymentRoutes(r.Group("/api/payments"), nil, nil)
	RegisterCareSettingRoutes(r.Group("/api/care_settings"), nil, nil)
	RegisterCarePasswordRoutes(r.Group("/api/care_password"), nil, nil)
	RegisterCareLogRoutes(r.Group("/api/care_logs"), nil, nil)
	RegisterWalkMissionRoutes(r.Group("/api/walk_missions"), nil, nil)
	RegisterReflectionNoteRoutes(r.Group("/api/reflection_notes"), nil, nil)
	RegisterMessageLogRoutes(r.Group("/api/message_logs"), nil, nil)

	routes := r.Routes()
	contains := func(target string) bool {
		for _, rt := range routes {
			if rt.Method+" "+rt.Path == target {
				return true
			}
		}
		return false
	}

	require.True(t, contains("GET /healthz"))
	require.True(t, contains("POST /api/webhook_events/"))
	require.True(t, contains("POST /api/webhook_events/process"))
	require.True(t, contains("POST /api/admin/webhook_events/list"))
	require.True(t, contains("POST /api/users/"))
	require.True(t, contains("GET /api/users/me"))
	require.False(t, contains("PATCH /api/users/current_plan"))
	require.True(t, contains("POST /api/payments/create-checkout-session"))
	require.True(t, contains("POST /api/care_settings"))
	require.True(t, contains("POST /api/care_password/check_pin"))
	require.True(t, contains("PATCH /api/care_logs/:id"))
	require.True(t, contains("GET /api/walk_missions"))
	require.True(t, contains("PATCH /api/reflection_notes/:id"))
	require.True(t, contains("POST /api/message_logs/generate"))
}
