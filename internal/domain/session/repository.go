package session

import "context"

type ProfileRepository interface {
	GetProfile(ctx context.Context, userID string) (*Profile, error)
	// CreateProfile inserts the profile unless one exists and returns the
	// stored row either way.
	CreateProfile(ctx context.Context, profile *Profile) (*Profile, error)
	UpdateUsername(ctx context.Context, userID, username string) (*Profile, error)
	SetPremium(ctx context.Context, userID string, premium bool) error
}

type AuthProvider interface {
	SignIn(ctx context.Context, email, password string) (*AuthResult, error)
	SignUp(ctx context.Context, email, password string) (*AuthResult, error)
	SignOut(ctx context.Context, accessToken string) error
	RecoverPassword(ctx context.Context, email, redirectTo string) error
}

// StateResetter drops whatever in-memory state is held for a user.
type StateResetter interface {
	Reset(userID string)
}
