package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	mw "github.com/pawcare/backend/internal/app/api/middleware"
	"github.com/pawcare/backend/internal/app/service/user"
	"github.com/pawcare/backend/internal/platform/firebase"
	"github.com/pawcare/backend/pkg/logctx"
	"github.com/pawcare/backend/pkg/response"
)

// @Summary      Register user
// @Description  Creates the local user for a Firebase account on the free plan.
// @Tags         Users
// @Accept       json
// @Produce      json
// @Param        request body user.CreateUserRequest true "New user"
// @Success      201  {object}  handlers.RespUser
// @Failure      400  {object}  handlers.RespOK
// @Failure      409  {object}  handlers.RespOK
// @Router       /api/users/ [post]
func ApiCreateUser(mgr user.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req user.CreateUserRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		u, err := mgr.Create(c.Request.Context(), &req)
		switch {
		case errors.Is(err, user.ErrUserExists):
			c.JSON(http.StatusConflict, response.ErrorMsg(response.APIResponseCodeConflict, "user already exists"))
		case err != nil:
			logctx.FromGin(c, zap.S()).Errorw("user_create_failed", "error", err)
			c.JSON(http.StatusInternalServerError, response.ErrorMsg(response.APIResponseCodeError, "failed to create user"))
		default:
			c.JSON(http.StatusCreated, response.OKT(u))
		}
	}
}

// @Summary      Current user
// @Description  Returns the user owning the bearer token.
// @Tags         Users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  handlers.RespUser
// @Failure      401  {object}  handlers.RespOK
// @Failure      404  {object}  handlers.RespOK
// @Router       /api/users/me [get]
func ApiGetMe(mgr user.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, err := mgr.GetByFirebaseUID(c.Request.Context(), mw.FirebaseUID(c))
		if errors.Is(err, user.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, response.ErrorMsg(response.APIResponseCodeNotFound, "user not found"))
			return
		}
		if err != nil {
			logctx.FromGin(c, zap.S()).Errorw("user_get_failed", "error", err)
			c.JSON(http.StatusInternalServerError, response.ErrorMsg(response.APIResponseCodeError, "failed to load user"))
			return
		}
		c.JSON(http.StatusOK, response.OKT(u))
	}
}

func RegisterUserRoutes(r gin.IRouter, mgr user.Manager, v firebase.TokenVerifier) {
	r.POST("/", ApiCreateUser(mgr))
	authed := r.Group("/", mw.AuthMiddleware(v))
	authed.GET("/me", ApiGetMe(mgr))
}
