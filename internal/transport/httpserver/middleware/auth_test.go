package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"budget-app-go/internal/config"
	"budget-app-go/internal/domain/session"
	"budget-app-go/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubVerifier struct {
	identity session.Identity
	err      error
	token    string
}

func (v *stubVerifier) Verify(_ context.Context, token string) (session.Identity, error) {
	v.token = token
	return v.identity, v.err
}

type stubProfiles struct {
	profile *session.Profile
	err     error
	calls   int
}

func (p *stubProfiles) EnsureProfile(_ context.Context, identity session.Identity) (*session.Profile, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	profile := *p.profile
	profile.UserID = identity.UserID
	return &profile, nil
}

func serve(auth *Auth, header string) (*httptest.ResponseRecorder, *User) {
	var seen *User
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if ok {
			seen = &user
		}
		w.WriteHeader(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/state", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	auth.Middleware(next).ServeHTTP(rec, req)
	return rec, seen
}

func TestAuthRejectsMissingToken(t *testing.T) {
	auth := NewAuth(config.SupabaseConfig{}, &stubVerifier{}, nil, logger.NewNop())

	rec, user := serve(auth, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, user)
	assert.Contains(t, rec.Body.String(), "invalid_token")
}

func TestAuthRejectsInvalidToken(t *testing.T) {
	auth := NewAuth(config.SupabaseConfig{}, &stubVerifier{err: errors.New("expired")}, nil, logger.NewNop())

	rec, _ := serve(auth, "Bearer abc")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthPutsUserInContext(t *testing.T) {
	verifier := &stubVerifier{identity: session.Identity{UserID: "u1", Email: "anna@example.com"}}
	profiles := &stubProfiles{profile: &session.Profile{Username: "anna", IsPremium: true}}
	auth := NewAuth(config.SupabaseConfig{}, verifier, profiles, logger.NewNop())

	rec, user := serve(auth, "bearer tok-1")
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.NotNil(t, user)
	assert.Equal(t, "tok-1", verifier.token)
	assert.Equal(t, "u1", user.ID)
	assert.Equal(t, "anna", user.Name)
	assert.True(t, user.IsPremium)
	assert.Equal(t, "tok-1", user.AccessToken)
}

func TestAuthProfileFailureDoesNotBlock(t *testing.T) {
	verifier := &stubVerifier{identity: session.Identity{UserID: "u1"}}
	profiles := &stubProfiles{err: errors.New("db down")}
	auth := NewAuth(config.SupabaseConfig{}, verifier, profiles, logger.NewNop())

	rec, user := serve(auth, "Bearer tok")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	require.NotNil(t, user)
	assert.Equal(t, 1, profiles.calls)
}

func TestAuthSkipUsesMockUser(t *testing.T) {
	cfg := config.SupabaseConfig{SkipAuth: true, MockUserID: "mock-1", MockUserEmail: "dev@example.com", MockUserName: "Dev"}
	auth := NewAuth(cfg, nil, nil, logger.NewNop())

	rec, user := serve(auth, "")
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.NotNil(t, user)
	assert.Equal(t, "mock-1", user.ID)
	assert.Equal(t, "Dev", user.Name)
}

func TestAuthSkipWithoutMockUser(t *testing.T) {
	auth := NewAuth(config.SupabaseConfig{SkipAuth: true}, nil, nil, logger.NewNop())

	rec, _ := serve(auth, "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestAuthNotConfigured(t *testing.T) {
	auth := NewAuth(config.SupabaseConfig{}, nil, nil, logger.NewNop())

	rec, _ := serve(auth, "Bearer tok")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "auth_not_configured")
}

func TestCORS(t *testing.T) {
	handler := NewCORS([]string{"http://localhost:5173", " "})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodOptions, "/api/state", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPatch)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/state", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSWildcard(t *testing.T) {
	handler := NewCORS([]string{"*"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("Origin", "capacitor://localhost")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "X-Request-Id", rec.Header().Get("Access-Control-Expose-Headers"))

	// Plain OPTIONS without a preflight method header goes through.
	req = httptest.NewRequest(http.MethodOptions, "/api/health", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
