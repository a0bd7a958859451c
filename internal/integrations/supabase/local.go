package supabase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"budget-app-go/internal/domain/session"
	"budget-app-go/pkg/logger"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const localTokenTTL = time.Hour

// LocalUser seeds the local provider.
type LocalUser struct {
	ID       string
	Email    string
	Password string
}

type localAccount struct {
	id   string
	hash []byte
}

// LocalProvider is an in-process auth backend for development and tests.
// It hashes passwords with bcrypt and issues HS256 tokens that its own
// Verify accepts.
type LocalProvider struct {
	mu       sync.RWMutex
	accounts map[string]localAccount
	revoked  map[string]struct{}
	secret   []byte
	verifier *JWTVerifier
	log      logger.Logger
	now      func() time.Time
}

func NewLocalProvider(secret string, log logger.Logger, seed ...LocalUser) (*LocalProvider, error) {
	if secret == "" {
		secret = uuid.NewString()
	}
	verifier, err := NewHMACVerifier(secret, DefaultAudience)
	if err != nil {
		return nil, err
	}

	provider := &LocalProvider{
		accounts: make(map[string]localAccount),
		revoked:  make(map[string]struct{}),
		secret:   []byte(secret),
		verifier: verifier,
		log:      log,
		now:      time.Now,
	}
	for _, user := range seed {
		if _, err := provider.register(user.ID, user.Email, user.Password); err != nil {
			return nil, err
		}
	}
	return provider, nil
}

func (p *LocalProvider) SignIn(ctx context.Context, email, password string) (*session.AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	p.mu.RLock()
	account, ok := p.accounts[email]
	p.mu.RUnlock()
	if !ok {
		return nil, session.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(account.hash, []byte(password)); err != nil {
		return nil, session.ErrInvalidCredentials
	}
	return p.issue(account.id, email)
}

func (p *LocalProvider) SignUp(ctx context.Context, email, password string) (*session.AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	account, err := p.register("", email, password)
	if err != nil {
		return nil, err
	}
	return p.issue(account.id, email)
}

func (p *LocalProvider) SignOut(ctx context.Context, accessToken string) error {
	p.mu.Lock()
	p.revoked[accessToken] = struct{}{}
	p.mu.Unlock()
	return nil
}

func (p *LocalProvider) RecoverPassword(ctx context.Context, email, redirectTo string) error {
	p.log.Info("auth: password reset requested", "email", email, "redirect_to", redirectTo)
	return nil
}

func (p *LocalProvider) Verify(ctx context.Context, accessToken string) (session.Identity, error) {
	p.mu.RLock()
	_, revoked := p.revoked[accessToken]
	p.mu.RUnlock()
	if revoked {
		return session.Identity{}, errors.New("token revoked")
	}
	return p.verifier.Verify(ctx, accessToken)
}

func (p *LocalProvider) register(id, email, password string) (localAccount, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return localAccount{}, session.ErrMissingCredentials
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return localAccount{}, err
	}
	if id == "" {
		id = uuid.NewString()
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if _, exists := p.accounts[email]; exists {
		return localAccount{}, session.ErrAlreadyRegistered
	}
	account := localAccount{id: id, hash: hash}
	p.accounts[email] = account
	return account, nil
}

func (p *LocalProvider) issue(userID, email string) (*session.AuthResult, error) {
	now := p.now()
	claims := accessClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Audience:  jwt.ClaimStrings{DefaultAudience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(localTokenTTL)),
			ID:        uuid.NewString(),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
	if err != nil {
		return nil, err
	}
	return &session.AuthResult{
		Identity: session.Identity{UserID: userID, Email: email},
		Tokens: session.Tokens{
			AccessToken: signed,
			TokenType:   "bearer",
			ExpiresIn:   int(localTokenTTL.Seconds()),
		},
	}, nil
}
