package firebase

import (
	"context"
	"errors"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/pawcare/backend/pkg/config"
)

const (
	issuerPrefix = "https://securetoken.google.com/"
	jwksURL      = "https://www.googleapis.com/service_accounts/v1/jwk/securetoken@system.gserviceaccount.com"
)

var (
	ErrInvalidToken  = errors.New("invalid id token")
	ErrNotConfigured = errors.New("firebase project id not configured")
)

// Identity is the verified subject of a Firebase ID token.
type Identity struct {
	UID           string `json:"uid"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
}

// TokenVerifier resolves a bearer credential to an Identity.
type TokenVerifier interface {
	Verify(ctx context.Context, rawToken string) (*Identity, error)
}

type oidcVerifier struct {
	verifier *oidc.IDTokenVerifier
}

// NewVerifierWithKeySet checks issuer, audience and expiry against projectID
// and signatures against keys.
func NewVerifierWithKeySet(projectID string, keys oidc.KeySet) TokenVerifier {
	return &oidcVerifier{
		verifier: oidc.NewVerifier(issuerPrefix+projectID, keys, &oidc.Config{ClientID: projectID}),
	}
}

func (v *oidcVerifier) Verify(ctx context.Context, rawToken string) (*Identity, error) {
	tok, err := v.verifier.Verify(ctx, rawToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if tok.Subject == "" {
		return nil, fmt.Errorf("%w: empty subject", ErrInvalidToken)
	}
	var claims struct {
		Email         string `json:"email"`
		EmailVerified bool   `json:"email_verified"`
	}
	if err := tok.Claims(&claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return &Identity{UID: tok.Subject, Email: claims.Email, EmailVerified: claims.EmailVerified}, nil
}

type unconfigured struct{}

func (unconfigured) Verify(context.Context, string) (*Identity, error) { return nil, ErrNotConfigured }

// NewTokenVerifier verifies against Google's published securetoken keys.
// Without a project id every token is rejected.
func NewTokenVerifier(cfg *config.Config, log *zap.SugaredLogger) TokenVerifier {
	if cfg.Firebase.ProjectID == "" {
		log.Warnw("firebase project id is empty; authenticated routes will reject all tokens")
		return unconfigured{}
	}
	keys := oidc.NewRemoteKeySet(context.Background(), jwksURL)
	return NewVerifierWithKeySet(cfg.Firebase.ProjectID, keys)
}

var Module = fx.Options(
	fx.Provide(NewTokenVerifier),
)
