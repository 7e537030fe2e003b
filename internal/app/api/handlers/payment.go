package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	mw "github.com/pawcare/backend/internal/app/api/middleware"
	"github.com/pawcare/backend/internal/app/service/checkout"
	"github.com/pawcare/backend/internal/platform/firebase"
	"github.com/pawcare/backend/pkg/logctx"
	"github.com/pawcare/backend/pkg/response"
)

type CheckoutSessionResponse struct {
	URL string `json:"url"`
}

// @Summary      Create checkout session
// @Description  Starts a hosted checkout for the premium plan, tagged with the caller's Firebase uid.
// @Tags         Payment
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  handlers.RespCheckoutSession
// @Failure      401  {object}  handlers.RespOK
// @Failure      500  {object}  handlers.RespOK
// @Router       /api/payments/create-checkout-session [post]
func ApiCreateCheckoutSession(cr checkout.Creator) gin.HandlerFunc {
	return func(c *gin.Context) {
		url, err := cr.CreateSession(c.Request.Context(), mw.FirebaseUID(c))
		if err != nil {
			logctx.FromGin(c, zap.S()).Errorw("checkout_session_failed", "error", err)
			c.JSON(http.StatusInternalServerError, response.ErrorMsg(response.APIResponseCodeError, "failed to create checkout session"))
			return
		}
		c.JSON(http.StatusOK, response.OKT(CheckoutSessionResponse{URL: url}))
	}
}

func RegisterPaymentRoutes(r gin.IRouter, cr checkout.Creator, v firebase.TokenVerifier) {
	r.POST("/create-checkout-session", mw.AuthMiddleware(v), ApiCreateCheckoutSession(cr))
}
