package supabase

import (
	"context"
	"testing"
	"time"

	"budget-app-go/internal/domain/session"
	"budget-app-go/pkg/logger"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "super-secret-jwt-token-with-at-least-32-characters"

func signToken(t *testing.T, secret string, claims accessClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func validClaims() accessClaims {
	return accessClaims{
		Email: "anna@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			Audience:  jwt.ClaimStrings{DefaultAudience},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
}

func TestHMACVerifier(t *testing.T) {
	verifier, err := NewHMACVerifier(testSecret, DefaultAudience)
	require.NoError(t, err)

	identity, err := verifier.Verify(context.Background(), signToken(t, testSecret, validClaims()))
	require.NoError(t, err)
	assert.Equal(t, session.Identity{UserID: "user-1", Email: "anna@example.com"}, identity)

	_, err = verifier.Verify(context.Background(), signToken(t, "another-secret-another-secret-another", validClaims()))
	assert.Error(t, err)

	expired := validClaims()
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))
	_, err = verifier.Verify(context.Background(), signToken(t, testSecret, expired))
	assert.Error(t, err)

	wrongAudience := validClaims()
	wrongAudience.Audience = jwt.ClaimStrings{"anon"}
	_, err = verifier.Verify(context.Background(), signToken(t, testSecret, wrongAudience))
	assert.Error(t, err)

	noSubject := validClaims()
	noSubject.Subject = ""
	_, err = verifier.Verify(context.Background(), signToken(t, testSecret, noSubject))
	assert.Error(t, err)
}

func TestLocalProvider(t *testing.T) {
	ctx := context.Background()
	provider, err := NewLocalProvider(testSecret, logger.NewNop(), LocalUser{ID: "seed-1", Email: "dev@example.com", Password: "devpass"})
	require.NoError(t, err)

	result, err := provider.SignIn(ctx, "DEV@example.com", "devpass")
	require.NoError(t, err)
	assert.Equal(t, "seed-1", result.Identity.UserID)

	identity, err := provider.Verify(ctx, result.Tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "seed-1", identity.UserID)

	_, err = provider.SignIn(ctx, "dev@example.com", "wrong")
	assert.ErrorIs(t, err, session.ErrInvalidCredentials)

	_, err = provider.SignUp(ctx, "dev@example.com", "other")
	assert.ErrorIs(t, err, session.ErrAlreadyRegistered)

	created, err := provider.SignUp(ctx, "neu@example.com", "secret123")
	require.NoError(t, err)
	assert.NotEmpty(t, created.Identity.UserID)
	assert.NotEmpty(t, created.Tokens.AccessToken)

	require.NoError(t, provider.SignOut(ctx, result.Tokens.AccessToken))
	_, err = provider.Verify(ctx, result.Tokens.AccessToken)
	assert.Error(t, err)
}
