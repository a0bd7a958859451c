package supabase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"budget-app-go/internal/domain/session"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
)

const (
	defaultLeeway   = 30 * time.Second
	DefaultAudience = "authenticated"
)

// JWTVerifier checks access tokens locally, either with the project's
// shared HS256 secret or against its JWKS endpoint.
type JWTVerifier struct {
	keyfunc jwt.Keyfunc
	parser  *jwt.Parser
}

type accessClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

func NewHMACVerifier(secret, audience string) (*JWTVerifier, error) {
	if secret == "" {
		return nil, errors.New("jwt secret must be set")
	}
	key := []byte(secret)
	return &JWTVerifier{
		keyfunc: func(*jwt.Token) (any, error) { return key, nil },
		parser:  newParser(audience, jwt.SigningMethodHS256.Name),
	}, nil
}

// NewJWKSVerifier fetches signing keys from jwksURL and refreshes them in
// the background until ctx is done.
func NewJWKSVerifier(ctx context.Context, jwksURL, audience string) (*JWTVerifier, error) {
	if jwksURL == "" {
		return nil, errors.New("jwks url must be set")
	}
	provider, err := keyfunc.NewDefaultCtx(ctx, []string{jwksURL})
	if err != nil {
		return nil, fmt.Errorf("failed to init JWKS keyfunc: %w", err)
	}
	return &JWTVerifier{
		keyfunc: provider.Keyfunc,
		parser: newParser(audience,
			jwt.SigningMethodRS256.Name,
			jwt.SigningMethodES256.Name,
		),
	}, nil
}

func newParser(audience string, methods ...string) *jwt.Parser {
	options := []jwt.ParserOption{
		jwt.WithLeeway(defaultLeeway),
		jwt.WithValidMethods(methods),
		jwt.WithExpirationRequired(),
	}
	if audience != "" {
		options = append(options, jwt.WithAudience(audience))
	}
	return jwt.NewParser(options...)
}

func (v *JWTVerifier) Verify(_ context.Context, accessToken string) (session.Identity, error) {
	var claims accessClaims
	token, err := v.parser.ParseWithClaims(accessToken, &claims, v.keyfunc)
	if err != nil {
		return session.Identity{}, err
	}
	if !token.Valid {
		return session.Identity{}, errors.New("invalid token")
	}
	if claims.Subject == "" {
		return session.Identity{}, errors.New("token missing sub")
	}
	return session.Identity{UserID: claims.Subject, Email: claims.Email}, nil
}
