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

// @Summary      Record a walk
// @Description  Attaches the walk to today's care log, creating the log if needed.
// @Tags         WalkMissions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body carelog.WalkRequest true "Walk"
// @Success      201  {object}  handlers.RespWalkMission
// @Failure      400  {object}  handlers.RespOK
// @Failure      404  {object}  handlers.RespOK
// @Router       /api/walk_missions [post]
func ApiCreateWalkMission(mgr carelog.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req carelog.WalkRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		wm, err := mgr.CreateWalk(c.Request.Context(), mw.FirebaseUID(c), &req)
		switch {
		case errors.Is(err, carelog.ErrInvalidWalk):
			c.JSON(http.StatusBadRequest, response.ErrorMsg(response.APIResponseCodeBadRequest, err.Error()))
		case writeOwnerError(c, err, "walk_mission_create_failed", "failed to create walk mission"):
		default:
			c.JSON(http.StatusCreated, response.OKT(wm))
		}
	}
}

// @Summary      List walks
// @Description  Newest first.
// @Tags         WalkMissions
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  handlers.RespWalkMissions
// @Failure      404  {object}  handlers.RespOK
// @Router       /api/walk_missions [get]
func ApiListWalkMissions(mgr carelog.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		walks, err := mgr.ListWalks(c.Request.Context(), mw.FirebaseUID(c))
		if writeOwnerError(c, err, "walk_mission_list_failed", "failed to list walk missions") {
			return
		}
		c.JSON(http.StatusOK, response.OKT(walks))
	}
}

// @Summary      Replace a walk
// @Tags         WalkMissions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path  int                  true  "Walk mission id"
// @Param        request body  carelog.WalkRequest  true  "Walk"
// @Success      200  {object}  handlers.RespWalkMission
// @Failure      400  {object}  handlers.RespOK
// @Failure      404  {object}  handlers.RespOK
// @Router       /api/walk_missions/{id} [patch]
func ApiUpdateWalkMission(mgr carelog.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var p idParam
		if err := c.ShouldBindUri(&p); err != nil {
			badRequest(c, err)
			return
		}
		var req carelog.WalkRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		wm, err := mgr.UpdateWalk(c.Request.Context(), mw.FirebaseUID(c), p.ID, &req)
		switch {
		case errors.Is(err, carelog.ErrInvalidWalk):
			c.JSON(http.StatusBadRequest, response.ErrorMsg(response.APIResponseCodeBadRequest, err.Error()))
		case errors.Is(err, carelog.ErrMissionNotFound):
			c.JSON(http.StatusNotFound, response.ErrorMsg(response.APIResponseCodeNotFound, "walk mission not found"))
		case writeOwnerError(c, err, "walk_mission_update_failed", "failed to update walk mission"):
		default:
			c.JSON(http.StatusOK, response.OKT(wm))
		}
	}
}

func RegisterWalkMissionRoutes(r gin.IRouter, mgr carelog.Manager, v firebase.TokenVerifier) {
	authed := r.Group("", mw.AuthMiddleware(v))
	authed.POST("", ApiCreateWalkMission(mgr))
	authed.GET("", ApiListWalkMissions(mgr))
	authed.PATCH("/:id", ApiUpdateWalkMission(mgr))
}
