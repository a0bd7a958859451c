package common

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"budget-app-go/internal/domain/session"
	"budget-app-go/internal/transport/httpserver/middleware"
	"budget-app-go/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSessions struct {
	session    *session.Session
	profile    *session.Profile
	err        error
	loggedOut  []string
	resetEmail string
	redirect   string
}

func (f *fakeSessions) Login(ctx context.Context, email, password string) (*session.Session, error) {
	return f.session, f.err
}

func (f *fakeSessions) Register(ctx context.Context, email, password string) (*session.Session, error) {
	return f.session, f.err
}

func (f *fakeSessions) Logout(ctx context.Context, userID, accessToken string) {
	f.loggedOut = append(f.loggedOut, userID+":"+accessToken)
}

func (f *fakeSessions) Profile(ctx context.Context, userID string) (*session.Profile, error) {
	return f.profile, f.err
}

func (f *fakeSessions) UpdateUsername(ctx context.Context, userID, username string) (*session.Profile, error) {
	if f.err != nil {
		return nil, f.err
	}
	updated := *f.profile
	updated.Username = username
	return &updated, nil
}

func (f *fakeSessions) RequestPasswordReset(ctx context.Context, email, redirectTo string) error {
	f.resetEmail = email
	f.redirect = redirectTo
	return f.err
}

func call(handler http.HandlerFunc, method, body string, user *middleware.User) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/", strings.NewReader(body))
	if user != nil {
		req = req.WithContext(middleware.WithUser(req.Context(), *user))
	}
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var envelope errorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return envelope.Error.Code
}

func TestLogin(t *testing.T) {
	email := "anna@example.com"
	sessions := &fakeSessions{session: &session.Session{
		Identity: session.Identity{UserID: "u1", Email: email},
		Profile:  session.Profile{UserID: "u1", Email: &email, Username: "anna"},
		Tokens:   session.Tokens{AccessToken: "at", RefreshToken: "rt", TokenType: "bearer", ExpiresIn: 3600},
	}}
	h := New(sessions, "", logger.NewNop())

	rec := call(h.Login, http.MethodPost, `{"email":"anna@example.com","password":"secret"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body sessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "at", body.AccessToken)
	require.NotNil(t, body.User)
	assert.Equal(t, "anna", body.User.Username)
	assert.False(t, body.Pending)
}

func TestLoginErrors(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"missing", session.ErrMissingCredentials, http.StatusBadRequest, "missing_credentials"},
		{"rejected", session.ErrInvalidCredentials, http.StatusUnauthorized, "invalid_credentials"},
		{"backend 4xx", &session.AuthError{Status: 422, Message: "weak password"}, http.StatusBadRequest, "auth_rejected"},
		{"profile failure", errors.New("resolve profile: db down"), http.StatusInternalServerError, "internal_error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := New(&fakeSessions{err: tc.err}, "", logger.NewNop())

			rec := call(h.Login, http.MethodPost, `{"email":"a@b.c","password":"x"}`, nil)
			assert.Equal(t, tc.status, rec.Code)
			assert.Equal(t, tc.code, errorCode(t, rec))
		})
	}
}

func TestLoginInvalidJSON(t *testing.T) {
	h := New(&fakeSessions{}, "", logger.NewNop())

	rec := call(h.Login, http.MethodPost, `{"email":`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_json", errorCode(t, rec))
}

func TestRegisterPending(t *testing.T) {
	h := New(&fakeSessions{session: &session.Session{Identity: session.Identity{Email: "new@example.com"}}}, "", logger.NewNop())

	rec := call(h.Register, http.MethodPost, `{"email":"new@example.com","password":"secret"}`, nil)
	require.Equal(t, http.StatusAccepted, rec.Code)

	var body sessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Pending)
	assert.Nil(t, body.User)
}

func TestRegisterAlreadyRegistered(t *testing.T) {
	h := New(&fakeSessions{err: session.ErrAlreadyRegistered}, "", logger.NewNop())

	rec := call(h.Register, http.MethodPost, `{"email":"a@b.c","password":"x"}`, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestLogoutUsesContextUser(t *testing.T) {
	sessions := &fakeSessions{}
	h := New(sessions, "", logger.NewNop())

	rec := call(h.Logout, http.MethodPost, "", &middleware.User{ID: "u1", AccessToken: "tok"})
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, []string{"u1:tok"}, sessions.loggedOut)

	rec = call(h.Logout, http.MethodPost, "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPasswordResetHidesBackendFailure(t *testing.T) {
	sessions := &fakeSessions{err: errors.New("smtp down")}
	h := New(sessions, "https://app.example/reset-password", logger.NewNop())

	rec := call(h.PasswordReset, http.MethodPost, `{"email":"anna@example.com"}`, nil)
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, "https://app.example/reset-password", sessions.redirect)

	sessions.err = session.ErrInvalidEmail
	rec = call(h.PasswordReset, http.MethodPost, `{"email":"nope"}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthMe(t *testing.T) {
	sessions := &fakeSessions{profile: &session.Profile{UserID: "u1", Username: "anna", IsPremium: true}}
	h := New(sessions, "", logger.NewNop())

	rec := call(h.AuthMe, http.MethodGet, "", &middleware.User{ID: "u1", Email: "anna@example.com"})
	require.Equal(t, http.StatusOK, rec.Code)

	var body profileResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "anna@example.com", body.Email)
	assert.True(t, body.IsPremium)
}

func TestUpdateProfile(t *testing.T) {
	sessions := &fakeSessions{profile: &session.Profile{UserID: "u1", Username: "anna"}}
	h := New(sessions, "", logger.NewNop())
	user := &middleware.User{ID: "u1"}

	rec := call(h.UpdateProfile, http.MethodPatch, `{"username":"Anna B."}`, user)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Anna B.")

	sessions.err = session.ErrInvalidUsername
	rec = call(h.UpdateProfile, http.MethodPatch, `{"username":""}`, user)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealth(t *testing.T) {
	h := New(&fakeSessions{}, "", logger.NewNop())

	rec := call(h.Health, http.MethodGet, "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
