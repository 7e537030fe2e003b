package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	mw "github.com/pawcare/backend/internal/app/api/middleware"
	"github.com/pawcare/backend/internal/app/service/carelog"
	"github.com/pawcare/backend/internal/platform/firebase"
	"github.com/pawcare/backend/pkg/response"
)

// @Summary      Record a care day
// @Description  One log per date; an omitted date means today in the configured care timezone.
// @Tags         CareLogs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body carelog.CreateLogRequest true "Care log"
// @Success      201  {object}  handlers.RespCareLog
// @Failure      400  {object}  handlers.RespOK
// @Failure      404  {object}  handlers.RespOK
// @Failure      409  {object}  handlers.RespOK
// @Router       /api/care_logs [post]
func ApiCreateCareLog(mgr carelog.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req carelog.CreateLogRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		cl, err := mgr.CreateLog(c.Request.Context(), mw.FirebaseUID(c), &req)
		switch {
		case errors.Is(err, carelog.ErrLogExists):
			c.JSON(http.StatusConflict, response.ErrorMsg(response.APIResponseCodeConflict, "care log already exists for this date; use PATCH"))
		case writeOwnerError(c, err, "care_log_create_failed", "failed to create care log"):
		default:
			c.JSON(http.StatusCreated, response.OKT(cl))
		}
	}
}

// @Summary      Update a care day
// @Description  Only the flags present in the body change.
// @Tags         CareLogs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path  int                       true  "Care log id"
// @Param        request body  carelog.UpdateLogRequest  true  "Flags"
// @Success      200  {object}  handlers.RespCareLog
// @Failure      400  {object}  handlers.RespOK
// @Failure      404  {object}  handlers.RespOK
// @Router       /api/care_logs/{id} [patch]
func ApiUpdateCareLog(mgr carelog.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var p idParam
		if err := c.ShouldBindUri(&p); err != nil {
			badRequest(c, err)
			return
		}
		var req carelog.UpdateLogRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		cl, err := mgr.UpdateLog(c.Request.Context(), mw.FirebaseUID(c), p.ID, &req)
		switch {
		case errors.Is(err, carelog.ErrLogNotFound):
			c.JSON(http.StatusNotFound, response.ErrorMsg(response.APIResponseCodeNotFound, "care log not found"))
		case writeOwnerError(c, err, "care_log_update_failed", "failed to update care log"):
		default:
			c.JSON(http.StatusOK, response.OKT(cl))
		}
	}
}

// @Summary      Today's care state
// @Description  Feeding flags of today's log and whether a walk succeeded today.
// @Tags         CareLogs
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  handlers.RespCareToday
// @Failure      404  {object}  handlers.RespOK
// @Router       /api/care_logs/today [get]
func ApiGetTodayCareLog(mgr carelog.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		today, err := mgr.Today(c.Request.Context(), mw.FirebaseUID(c))
		if writeOwnerError(c, err, "care_log_today_failed", "failed to load today's care log") {
			return
		}
		c.JSON(http.StatusOK, response.OKT(today))
	}
}

func RegisterCareLogRoutes(r gin.IRouter, mgr carelog.Manager, v firebase.TokenVerifier) {
	authed := r.Group("", mw.AuthMiddleware(v))
	authed.POST("", ApiCreateCareLog(mgr))
	authed.GET("/today", ApiGetTodayCareLog(mgr))
	authed.PATCH("/:id", ApiUpdateCareLog(mgr))
}
