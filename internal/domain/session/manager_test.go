package session

import (
	"context"
	"errors"
	"testing"

	"budget-app-go/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const userID = "11111111-1111-1111-1111-111111111111"

type fakeAuth struct {
	signIn     *AuthResult
	signInErr  error
	signUp     *AuthResult
	signUpErr  error
	signOutErr error
	signedOut  []string
	recovered  []string
}

func (a *fakeAuth) SignIn(ctx context.Context, email, password string) (*AuthResult, error) {
	return a.signIn, a.signInErr
}

func (a *fakeAuth) SignUp(ctx context.Context, email, password string) (*AuthResult, error) {
	return a.signUp, a.signUpErr
}

func (a *fakeAuth) SignOut(ctx context.Context, accessToken string) error {
	a.signedOut = append(a.signedOut, accessToken)
	return a.signOutErr
}

func (a *fakeAuth) RecoverPassword(ctx context.Context, email, redirectTo string) error {
	a.recovered = append(a.recovered, email)
	return nil
}

type fakeProfiles struct {
	profiles  map[string]*Profile
	getErr    error
	updateErr error
}

func newFakeProfiles() *fakeProfiles {
	return &fakeProfiles{profiles: make(map[string]*Profile)}
}

func (r *fakeProfiles) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	profile, ok := r.profiles[userID]
	if !ok {
		return nil, ErrProfileNotFound
	}
	copied := *profile
	return &copied, nil
}

func (r *fakeProfiles) CreateProfile(ctx context.Context, profile *Profile) (*Profile, error) {
	if existing, ok := r.profiles[profile.UserID]; ok {
		copied := *existing
		return &copied, nil
	}
	stored := *profile
	r.profiles[profile.UserID] = &stored
	copied := stored
	return &copied, nil
}

func (r *fakeProfiles) UpdateUsername(ctx context.Context, userID, username string) (*Profile, error) {
	if r.updateErr != nil {
		return nil, r.updateErr
	}
	profile, ok := r.profiles[userID]
	if !ok {
		return nil, ErrProfileNotFound
	}
	profile.Username = username
	copied := *profile
	return &copied, nil
}

func (r *fakeProfiles) SetPremium(ctx context.Context, userID string, premium bool) error {
	profile, ok := r.profiles[userID]
	if !ok {
		return ErrProfileNotFound
	}
	profile.IsPremium = premium
	return nil
}

type fakeStates struct {
	reset []string
}

func (s *fakeStates) Reset(userID string) {
	s.reset = append(s.reset, userID)
}

func signedIn() *AuthResult {
	return &AuthResult{
		Identity: Identity{UserID: userID, Email: "anna@example.com"},
		Tokens:   Tokens{AccessToken: "access", RefreshToken: "refresh", TokenType: "bearer", ExpiresIn: 3600},
	}
}

func TestLoginCreatesMissingProfile(t *testing.T) {
	auth := &fakeAuth{signIn: signedIn()}
	profiles := newFakeProfiles()
	manager := NewManager(auth, profiles, &fakeStates{}, logger.NewNop())

	session, err := manager.Login(context.Background(), " Anna@Example.com ", "secret")
	require.NoError(t, err)
	assert.Equal(t, "anna", session.Profile.Username)
	assert.False(t, session.Profile.IsPremium)
	assert.False(t, session.Pending())
	require.NotNil(t, profiles.profiles[userID].Email)
	assert.Equal(t, "anna@example.com", *profiles.profiles[userID].Email)
}

func TestLoginKeepsExistingProfile(t *testing.T) {
	profiles := newFakeProfiles()
	profiles.profiles[userID] = &Profile{UserID: userID, Username: "Anna B.", IsPremium: true}
	manager := NewManager(&fakeAuth{signIn: signedIn()}, profiles, &fakeStates{}, logger.NewNop())

	session, err := manager.Login(context.Background(), "anna@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "Anna B.", session.Profile.Username)
	assert.True(t, session.Profile.IsPremium)
}

func TestLoginRejectedCredentials(t *testing.T) {
	manager := NewManager(&fakeAuth{signInErr: ErrInvalidCredentials}, newFakeProfiles(), &fakeStates{}, logger.NewNop())

	_, err := manager.Login(context.Background(), "anna@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = manager.Login(context.Background(), "", "wrong")
	assert.ErrorIs(t, err, ErrMissingCredentials)
}

func TestLoginProfileFailureReturnsNoSession(t *testing.T) {
	profiles := newFakeProfiles()
	profiles.getErr = errors.New("db down")
	manager := NewManager(&fakeAuth{signIn: signedIn()}, profiles, &fakeStates{}, logger.NewNop())

	session, err := manager.Login(context.Background(), "anna@example.com", "secret")
	require.Error(t, err)
	assert.Nil(t, session)
}

func TestRegisterPendingConfirmation(t *testing.T) {
	auth := &fakeAuth{signUp: &AuthResult{Identity: Identity{UserID: userID, Email: "neu@example.com"}}}
	profiles := newFakeProfiles()
	manager := NewManager(auth, profiles, &fakeStates{}, logger.NewNop())

	session, err := manager.Register(context.Background(), "neu@example.com", "secret123")
	require.NoError(t, err)
	assert.True(t, session.Pending())
	assert.Equal(t, "neu", session.Profile.Username)
}

func TestRegisterValidation(t *testing.T) {
	auth := &fakeAuth{signUpErr: ErrAlreadyRegistered}
	manager := NewManager(auth, newFakeProfiles(), &fakeStates{}, logger.NewNop())

	_, err := manager.Register(context.Background(), "not-an-email", "secret123")
	assert.ErrorIs(t, err, ErrInvalidEmail)

	_, err = manager.Register(context.Background(), "taken@example.com", "secret123")
	assert.ErrorIs(t, err, ErrAlreadyRegistered)
}

func TestLogoutResetsStateEvenWhenRevokeFails(t *testing.T) {
	auth := &fakeAuth{signOutErr: errors.New("network")}
	states := &fakeStates{}
	manager := NewManager(auth, newFakeProfiles(), states, logger.NewNop())

	manager.Logout(context.Background(), userID, "access")
	assert.Equal(t, []string{"access"}, auth.signedOut)
	assert.Equal(t, []string{userID}, states.reset)
}

func TestUpdateUsername(t *testing.T) {
	profiles := newFakeProfiles()
	profiles.profiles[userID] = &Profile{UserID: userID, Username: "anna"}
	manager := NewManager(&fakeAuth{}, profiles, &fakeStates{}, logger.NewNop())

	profile, err := manager.UpdateUsername(context.Background(), userID, "  Änna  ")
	require.NoError(t, err)
	assert.Equal(t, "Änna", profile.Username)

	_, err = manager.UpdateUsername(context.Background(), userID, "   ")
	assert.ErrorIs(t, err, ErrInvalidUsername)

	long := make([]rune, maxUsernameLength+1)
	for i := range long {
		long[i] = 'x'
	}
	_, err = manager.UpdateUsername(context.Background(), userID, string(long))
	assert.ErrorIs(t, err, ErrInvalidUsername)

	profiles.updateErr = errors.New("db down")
	_, err = manager.UpdateUsername(context.Background(), userID, "Berta")
	require.Error(t, err)
	assert.Equal(t, "Änna", profiles.profiles[userID].Username)
}

func TestPremiumChecker(t *testing.T) {
	profiles := newFakeProfiles()
	checker := NewPremiumChecker(profiles)
	manager := NewManager(&fakeAuth{}, profiles, &fakeStates{}, logger.NewNop())

	premium, err := checker.IsPremium(context.Background(), userID)
	require.NoError(t, err)
	assert.False(t, premium)

	profiles.profiles[userID] = &Profile{UserID: userID, Username: "anna"}
	require.NoError(t, manager.GrantPremium(context.Background(), userID))

	premium, err = checker.IsPremium(context.Background(), userID)
	require.NoError(t, err)
	assert.True(t, premium)
}

func TestRequestPasswordReset(t *testing.T) {
	auth := &fakeAuth{}
	manager := NewManager(auth, newFakeProfiles(), &fakeStates{}, logger.NewNop())

	require.NoError(t, manager.RequestPasswordReset(context.Background(), " Anna@Example.com", "https://app/reset"))
	assert.Equal(t, []string{"anna@example.com"}, auth.recovered)
	assert.ErrorIs(t, manager.RequestPasswordReset(context.Background(), "nope", ""), ErrInvalidEmail)
}
