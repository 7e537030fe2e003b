package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	mw "github.com/pawcare/backend/internal/app/api/middleware"
	"github.com/pawcare/backend/internal/app/service/caresetting"
	"github.com/pawcare/backend/internal/app/service/user"
	"github.com/pawcare/backend/internal/platform/firebase"
	"github.com/pawcare/backend/pkg/logctx"
	"github.com/pawcare/backend/pkg/response"
)

type idParam struct {
	ID uint `uri:"id" binding:"required,min=1"`
}

type VerifyPinRequest struct {
	InputPassword string `json:"input_password" binding:"required"`
}

type VerifyPinResponse struct {
	Verified bool `json:"verified"`
}

// writeOwnerError answers the lookup failures shared by every care route and
// reports whether it wrote a response.
func writeOwnerError(c *gin.Context, err error, event, msg string) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, user.ErrUserNotFound):
		c.JSON(http.StatusNotFound, response.ErrorMsg(response.APIResponseCodeNotFound, "user not found"))
	case errors.Is(err, caresetting.ErrSettingNotFound):
		c.JSON(http.StatusNotFound, response.ErrorMsg(response.APIResponseCodeNotFound, "care setting not found"))
	default:
		logctx.FromGin(c, zap.S()).Errorw(event, "error", err)
		c.JSON(http.StatusInternalServerError, response.ErrorMsg(response.APIResponseCodeError, msg))
	}
	return true
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
}

// @Summary      Create care setting
// @Description  Registers the caller's care period. The PIN is stored hashed and never returned.
// @Tags         CareSettings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body caresetting.CreateRequest true "Care setting"
// @Success      201  {object}  handlers.RespCareSetting
// @Failure      400  {object}  handlers.RespOK
// @Failure      404  {object}  handlers.RespOK
// @Failure      409  {object}  handlers.RespOK
// @Router       /api/care_settings [post]
func ApiCreateCareSetting(mgr caresetting.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req caresetting.CreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		cs, err := mgr.Create(c.Request.Context(), mw.FirebaseUID(c), &req)
		switch {
		case errors.Is(err, caresetting.ErrInvalidPeriod):
			c.JSON(http.StatusBadRequest, response.ErrorMsg(response.APIResponseCodeBadRequest, err.Error()))
		case errors.Is(err, caresetting.ErrSettingExists):
			c.JSON(http.StatusConflict, response.ErrorMsg(response.APIResponseCodeConflict, "care setting already exists"))
		case writeOwnerError(c, err, "care_setting_create_failed", "failed to create care setting"):
		default:
			c.JSON(http.StatusCreated, response.OKT(cs))
		}
	}
}

// @Summary      My care setting
// @Tags         CareSettings
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  handlers.RespCareSetting
// @Failure      404  {object}  handlers.RespOK
// @Router       /api/care_settings/me [get]
func ApiGetMyCareSetting(mgr caresetting.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		cs, err := mgr.ForUser(c.Request.Context(), mw.FirebaseUID(c))
		if writeOwnerError(c, err, "care_setting_get_failed", "failed to load care setting") {
			return
		}
		c.JSON(http.StatusOK, response.OKT(cs))
	}
}

// @Summary      Update care clear status
// @Tags         CareSettings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body caresetting.ClearRequest true "Clear status"
// @Success      200  {object}  handlers.RespCareSetting
// @Failure      400  {object}  handlers.RespOK
// @Failure      404  {object}  handlers.RespOK
// @Router       /api/care_settings/me/clear [patch]
func ApiSetCareClearStatus(mgr caresetting.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req caresetting.ClearRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		cs, err := mgr.SetClearStatus(c.Request.Context(), mw.FirebaseUID(c), req.CareClearStatus)
		if writeOwnerError(c, err, "care_clear_status_failed", "failed to update care setting") {
			return
		}
		c.JSON(http.StatusOK, response.OKT(cs))
	}
}

// @Summary      Verify parent PIN
// @Description  Reports whether input_password matches the caller's PIN. Without a care setting the answer is false.
// @Tags         CareSettings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body handlers.VerifyPinRequest true "PIN"
// @Success      200  {object}  handlers.RespVerifyPin
// @Failure      400  {object}  handlers.RespOK
// @Failure      404  {object}  handlers.RespOK
// @Router       /api/care_settings/verify_pin [post]
func ApiVerifyCarePin(mgr caresetting.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req VerifyPinRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		ok, err := mgr.VerifyPin(c.Request.Context(), mw.FirebaseUID(c), req.InputPassword)
		if writeOwnerError(c, err, "care_pin_verify_failed", "failed to verify pin") {
			return
		}
		c.JSON(http.StatusOK, response.OKT(VerifyPinResponse{Verified: ok}))
	}
}

func RegisterCareSettingRoutes(r gin.IRouter, mgr caresetting.Manager, v firebase.TokenVerifier) {
	authed := r.Group("", mw.AuthMiddleware(v))
	authed.POST("", ApiCreateCareSetting(mgr))
	authed.GET("/me", ApiGetMyCareSetting(mgr))
	authed.PATCH("/me/clear", ApiSetCareClearStatus(mgr))
	authed.POST("/verify_pin", ApiVerifyCarePin(mgr))
}
