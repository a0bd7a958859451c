package common

import (
	"context"

	"budget-app-go/internal/domain/session"
	"budget-app-go/pkg/logger"
)

// Sessions is what the auth and profile endpoints need from the session
// manager.
type Sessions interface {
	Login(ctx context.Context, email, password string) (*session.Session, error)
	Register(ctx context.Context, email, password string) (*session.Session, error)
	Logout(ctx context.Context, userID, accessToken string)
	Profile(ctx context.Context, userID string) (*session.Profile, error)
	UpdateUsername(ctx context.Context, userID, username string) (*session.Profile, error)
	RequestPasswordReset(ctx context.Context, email, redirectTo string) error
}

type Handlers struct {
	Sessions Sessions
	// ResetRedirect is where password reset emails send the user.
	ResetRedirect string
	log           logger.Logger
}

func New(sessions Sessions, resetRedirect string, log logger.Logger) *Handlers {
	return &Handlers{
		Sessions:      sessions,
		ResetRedirect: resetRedirect,
		log:           log,
	}
}
