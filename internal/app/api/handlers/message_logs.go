package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	mw "github.com/pawcare/backend/internal/app/api/middleware"
	"github.com/pawcare/backend/internal/app/service/dogmessage"
	"github.com/pawcare/backend/internal/app/service/user"
	"github.com/pawcare/backend/internal/platform/firebase"
	"github.com/pawcare/backend/pkg/logctx"
	"github.com/pawcare/backend/pkg/response"
)

// @Summary      Generate a dog message
// @Description  Free users get a fixed line. Premium users get a generated tip, falling back to a fixed line.
// @Tags         MessageLogs
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  handlers.RespDogMessage
// @Failure      400  {object}  handlers.RespOK
// @Router       /api/message_logs/generate [post]
func ApiGenerateDogMessage(gen dogmessage.Generator) gin.HandlerFunc {
	return func(c *gin.Context) {
		msg, err := gen.Generate(c.Request.Context(), mw.FirebaseUID(c))
		if errors.Is(err, user.ErrUserNotFound) {
			c.JSON(http.StatusBadRequest, response.ErrorMsg(response.APIResponseCodeBadRequest, "no user for this firebase uid"))
			return
		}
		if err != nil {
			logctx.FromGin(c, zap.S()).Errorw("dog_message_failed", "error", err)
			c.JSON(http.StatusInternalServerError, response.ErrorMsg(response.APIResponseCodeError, "failed to generate message"))
			return
		}
		c.JSON(http.StatusOK, response.OKT(msg))
	}
}

func RegisterMessageLogRoutes(r gin.IRouter, gen dogmessage.Generator, v firebase.TokenVerifier) {
	r.POST("/generate", mw.AuthMiddleware(v), ApiGenerateDogMessage(gen))
}
