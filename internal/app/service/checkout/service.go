package checkout

import (
	"context"
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
	"go.uber.org/zap"

	"github.com/pawcare/backend/pkg/config"
	"github.com/pawcare/backend/pkg/logctx"
)

var ErrNotConfigured = errors.New("stripe secret key or price id not configured")

// SessionCreator is the slice of the Stripe checkout sessions client in use.
type SessionCreator interface {
	New(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
}

// Creator is the checkout surface used by the HTTP handlers.
type Creator interface {
	// CreateSession returns the hosted checkout URL for one premium purchase
	// tagged with firebaseUID, which the webhook later resolves to a user.
	CreateSession(ctx context.Context, firebaseUID string) (string, error)
}

type Service struct {
	sessions SessionCreator
	stripe   config.StripeConfig
	log      *zap.SugaredLogger
}

func NewService(sessions SessionCreator, cfg *config.Config, log *zap.SugaredLogger) *Service {
	return &Service{sessions: sessions, stripe: cfg.Stripe, log: log}
}

// NewSessionCreator returns the Stripe client's checkout sessions, or nil
// when no secret key is configured.
func NewSessionCreator(cfg *config.Config) SessionCreator {
	if cfg.Stripe.SecretKey == "" {
		return nil
	}
	return client.New(cfg.Stripe.SecretKey, nil).CheckoutSessions
}

func (s *Service) CreateSession(ctx context.Context, firebaseUID string) (string, error) {
	if s.sessions == nil || s.stripe.PriceID == "" {
		return "", ErrNotConfigured
	}
	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(s.stripe.PriceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(s.stripe.SuccessURL()),
		CancelURL:  stripe.String(s.stripe.CancelURL()),
	}
	params.Context = ctx
	params.AddMetadata("firebase_uid", firebaseUID)

	sess, err := s.sessions.New(params)
	if err != nil {
		return "", fmt.Errorf("failed to create checkout session: %w", err)
	}
	logctx.FromCtx(ctx, s.log).Infow("checkout_session_created", "session_id", sess.ID)
	return sess.URL, nil
}
