package session

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	"budget-app-go/pkg/logger"
)

const maxUsernameLength = 50

type Manager struct {
	auth     AuthProvider
	profiles ProfileRepository
	states   StateResetter
	log      logger.Logger
}

func NewManager(auth AuthProvider, profiles ProfileRepository, states StateResetter, log logger.Logger) *Manager {
	return &Manager{auth: auth, profiles: profiles, states: states, log: log}
}

// Login signs in and resolves the profile. A session is only returned
// together with a fully resolved profile.
func (m *Manager) Login(ctx context.Context, email, password string) (*Session, error) {
	email, err := normalizeCredentials(email, password)
	if err != nil {
		return nil, err
	}

	result, err := m.auth.SignIn(ctx, email, password)
	if err != nil {
		return nil, err
	}

	profile, err := m.EnsureProfile(ctx, result.Identity)
	if err != nil {
		return nil, fmt.Errorf("resolve profile: %w", err)
	}

	return &Session{Identity: result.Identity, Profile: *profile, Tokens: result.Tokens}, nil
}

// Register creates the account. When the backend requires email
// confirmation the returned session is Pending.
func (m *Manager) Register(ctx context.Context, email, password string) (*Session, error) {
	email, err := normalizeCredentials(email, password)
	if err != nil {
		return nil, err
	}
	if !validEmail(email) {
		return nil, ErrInvalidEmail
	}

	result, err := m.auth.SignUp(ctx, email, password)
	if err != nil {
		return nil, err
	}

	session := &Session{Identity: result.Identity, Tokens: result.Tokens}
	if result.Identity.UserID == "" {
		return session, nil
	}

	profile, err := m.EnsureProfile(ctx, result.Identity)
	if err != nil {
		return nil, fmt.Errorf("resolve profile: %w", err)
	}
	session.Profile = *profile
	return session, nil
}

// Logout revokes the token when possible and always drops the user's
// in-memory budget state.
func (m *Manager) Logout(ctx context.Context, userID, accessToken string) {
	if accessToken != "" {
		if err := m.auth.SignOut(ctx, accessToken); err != nil {
			m.log.Warn("session: sign out failed", "err", err, "user_id", userID)
		}
	}
	if m.states != nil {
		m.states.Reset(userID)
	}
}

func (m *Manager) Profile(ctx context.Context, userID string) (*Profile, error) {
	return m.profiles.GetProfile(ctx, userID)
}

// EnsureProfile returns the stored profile, creating a free one named after
// the email's local part when none exists yet.
func (m *Manager) EnsureProfile(ctx context.Context, identity Identity) (*Profile, error) {
	if identity.UserID == "" {
		return nil, fmt.Errorf("user id is required")
	}

	profile, err := m.profiles.GetProfile(ctx, identity.UserID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, ErrProfileNotFound) {
		return nil, err
	}

	profile = &Profile{
		UserID:   identity.UserID,
		Username: defaultUsername(identity.Email),
	}
	if identity.Email != "" {
		email := identity.Email
		profile.Email = &email
	}
	return m.profiles.CreateProfile(ctx, profile)
}

func (m *Manager) UpdateUsername(ctx context.Context, userID, username string) (*Profile, error) {
	username = strings.TrimSpace(username)
	length := utf8.RuneCountInString(username)
	if length == 0 || length > maxUsernameLength {
		return nil, ErrInvalidUsername
	}

	return m.profiles.UpdateUsername(ctx, userID, username)
}

// GrantPremium marks the user premium after a verified payment.
func (m *Manager) GrantPremium(ctx context.Context, userID string) error {
	if err := m.profiles.SetPremium(ctx, userID, true); err != nil {
		return fmt.Errorf("set premium: %w", err)
	}
	m.log.Info("session: premium granted", "user_id", userID)
	return nil
}

func (m *Manager) RequestPasswordReset(ctx context.Context, email, redirectTo string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if !validEmail(email) {
		return ErrInvalidEmail
	}
	return m.auth.RecoverPassword(ctx, email, redirectTo)
}

func normalizeCredentials(email, password string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return "", ErrMissingCredentials
	}
	return email, nil
}

func validEmail(email string) bool {
	address, err := mail.ParseAddress(email)
	return err == nil && address.Address == email
}

func defaultUsername(email string) string {
	local, _, _ := strings.Cut(email, "@")
	local = strings.TrimSpace(local)
	if local == "" {
		return "user"
	}
	if utf8.RuneCountInString(local) > maxUsernameLength {
		local = string([]rune(local)[:maxUsernameLength])
	}
	return local
}
