package handlers

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

type stubCheckout struct {
	url    string
	err    error
	gotUID string
}

func (s *stubCheckout) CreateSession(_ context.Context, uid string) (string, error) {
	s.gotUID = uid
	return s.url, s.err
}

func newPaymentRouter(s *stubCheckout) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterPaymentRoutes(r.Group("/api/payments"), s, stubVerifier{})
	return r
}

func TestApiCreateCheckoutSession(t *testing.T) {
	s := &stubCheckout{url: "https://checkout.stripe.com/c/cs_1"}
	r := newPaymentRouter(s)

	w := doJSON(r, http.MethodPost, "/api/payments/create-checkout-session", "", "token-uid-1")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"url":"https://checkout.stripe.com/c/cs_1"`)
	require.Equal(t, "uid-1", s.gotUID)
}

func TestApiCreateCheckoutSession_Failures(t *testing.T) {
	s := &stubCheckout{err: errors.New("stripe unavailable")}
	r := newPaymentRouter(s)

	require.Equal(t, http.StatusUnauthorized, doJSON(r, http.MethodPost, "/api/payments/create-checkout-session", "", "").Code)
	require.Empty(t, s.gotUID)

	w := doJSON(r, http.MethodPost, "/api/payments/create-checkout-session", "", "token-uid-1")
	require.Equal(t, http.StatusInternalServerError, w.Code)
}
