package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	mw "github.com/pawcare/backend/internal/app/api/middleware"
	"github.com/pawcare/backend/internal/app/service/caresetting"
	"github.com/pawcare/backend/internal/platform/firebase"
	"github.com/pawcare/backend/pkg/response"
)

type CheckPinRequest struct {
	Pin string `json:"pin" binding:"required"`
}

// @Summary      Check parent PIN
// @Description  Unlocks the parent screens. The account is taken from the bearer token.
// @Tags         CarePassword
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body handlers.CheckPinRequest true "PIN"
// @Success      200  {object}  handlers.RespOK
// @Failure      400  {object}  handlers.RespOK
// @Failure      401  {object}  handlers.RespOK
// @Failure      404  {object}  handlers.RespOK
// @Router       /api/care_password/check_pin [post]
func ApiCheckPin(mgr caresetting.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CheckPinRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		err := mgr.CheckPin(c.Request.Context(), mw.FirebaseUID(c), req.Pin)
		if errors.Is(err, caresetting.ErrPinMismatch) {
			c.JSON(http.StatusUnauthorized, response.ErrorMsg(response.APIResponseCodeUnauthorized, "pin does not match"))
			return
		}
		if writeOwnerError(c, err, "care_pin_check_failed", "failed to check pin") {
			return
		}
		c.JSON(http.StatusOK, response.OKMsg[any]("pin verified", nil))
	}
}

func RegisterCarePasswordRoutes(r gin.IRouter, mgr caresetting.Manager, v firebase.TokenVerifier) {
	r.POST("/check_pin", mw.AuthMiddleware(v), ApiCheckPin(mgr))
}
