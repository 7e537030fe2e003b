package firebase

import (
	"context"
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"testing"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/go-jose/go-jose/v4"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pawcare/backend/pkg/config"
)

func signToken(t *testing.T, key *rsa.PrivateKey, claims map[string]any) string {
	t.Helper()
	signer, err := jose.NewSigner(jose.SigningKey{Algorithm: jose.RS256, Key: key}, nil)
	require.NoError(t, err)
	payload, err := json.Marshal(claims)
	require.NoError(t, err)
	obj, err := signer.Sign(payload)
	require.NoError(t, err)
	raw, err := obj.CompactSerialize()
	require.NoError(t, err)
	return raw
}

func testClaims(project string, exp time.Time) map[string]any {
	return map[string]any{
		"iss":            issuerPrefix + project,
		"aud":            project,
		"sub":            "uid-123",
		"iat":            time.Now().Add(-time.Minute).Unix(),
		"exp":            exp.Unix(),
		"email":          "owner@example.com",
		"email_verified": true,
	}
}

func TestVerify_ValidToken(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	v := NewVerifierWithKeySet("pawcare", &oidc.StaticKeySet{PublicKeys: []crypto.PublicKey{&key.PublicKey}})

	id, err := v.Verify(context.Background(), signToken(t, key, testClaims("pawcare", time.Now().Add(time.Hour))))
	require.NoError(t, err)
	require.Equal(t, "uid-123", id.UID)
	require.Equal(t, "owner@example.com", id.Email)
	require.True(t, id.EmailVerified)
}

func TestVerify_Rejects(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	other, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	v := NewVerifierWithKeySet("pawcare", &oidc.StaticKeySet{PublicKeys: []crypto.PublicKey{&key.PublicKey}})

	cases := map[string]string{
		"expired":       signToken(t, key, testClaims("pawcare", time.Now().Add(-time.Hour))),
		"wrong project": signToken(t, key, testClaims("someone-else", time.Now().Add(time.Hour))),
		"wrong key":     signToken(t, other, testClaims("pawcare", time.Now().Add(time.Hour))),
		"garbage":       "not-a-jwt",
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := v.Verify(context.Background(), raw)
			require.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestNewTokenVerifier_Unconfigured(t *testing.T) {
	v := NewTokenVerifier(&config.Config{}, zap.NewNop().Sugar())
	_, err := v.Verify(context.Background(), "anything")
	require.ErrorIs(t, err, ErrNotConfigured)
}
