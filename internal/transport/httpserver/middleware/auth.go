package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"budget-app-go/internal/config"
	"budget-app-go/internal/domain/session"
	"budget-app-go/pkg/logger"
)

// TokenVerifier turns a bearer token into the identity it was issued for.
type TokenVerifier interface {
	Verify(ctx context.Context, accessToken string) (session.Identity, error)
}

type ProfileEnsurer interface {
	EnsureProfile(ctx context.Context, identity session.Identity) (*session.Profile, error)
}

type Auth struct {
	verifier TokenVerifier
	profiles ProfileEnsurer
	skipAuth bool
	mockUser User
	log      logger.Logger
}

type contextKey int

const (
	userIDKey contextKey = iota
	userKey
)

type User struct {
	ID          string
	Email       string
	Name        string
	IsPremium   bool
	AccessToken string
}

func NewAuth(cfg config.SupabaseConfig, verifier TokenVerifier, profiles ProfileEnsurer, log logger.Logger) *Auth {
	return &Auth{
		verifier: verifier,
		profiles: profiles,
		skipAuth: cfg.SkipAuth,
		mockUser: User{
			ID:    strings.TrimSpace(cfg.MockUserID),
			Email: strings.TrimSpace(cfg.MockUserEmail),
			Name:  strings.TrimSpace(cfg.MockUserName),
		},
		log: log,
	}
}

func (a *Auth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.skipAuth {
			user := a.mockUser
			if user.ID == "" {
				writeError(w, http.StatusInternalServerError, "auth_not_configured", "auth mock user id not configured")
				return
			}
			user = a.withProfile(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
			return
		}

		if a.verifier == nil {
			writeError(w, http.StatusInternalServerError, "auth_not_configured", "auth not configured")
			return
		}

		token, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			unauthorized(w)
			return
		}

		identity, err := a.verifier.Verify(r.Context(), token)
		if err != nil || identity.UserID == "" {
			logger.FromContext(r.Context(), a.log).Debug("auth: token rejected", "err", err)
			unauthorized(w)
			return
		}

		user := a.withProfile(r.Context(), User{
			ID:          identity.UserID,
			Email:       identity.Email,
			AccessToken: token,
		})
		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

// withProfile fills name and premium flag from the stored profile,
// creating it on first sight. A failing profile store does not block the
// request.
func (a *Auth) withProfile(ctx context.Context, user User) User {
	if a.profiles == nil {
		return user
	}
	profile, err := a.profiles.EnsureProfile(ctx, session.Identity{UserID: user.ID, Email: user.Email})
	if err != nil {
		logger.FromContext(ctx, a.log).Warn("auth: ensure profile failed", "err", err, "user_id", user.ID)
		return user
	}
	user.Name = firstNonEmpty(profile.Username, user.Name)
	user.IsPremium = profile.IsPremium
	if user.Email == "" && profile.Email != nil {
		user.Email = *profile.Email
	}
	return user
}

func bearerToken(value string) (string, bool) {
	parts := strings.Fields(value)
	if len(parts) != 2 {
		return "", false
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

func unauthorized(w http.ResponseWriter) {
	writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
}

func WithUser(ctx context.Context, user User) context.Context {
	ctx = context.WithValue(ctx, userKey, user)
	return context.WithValue(ctx, userIDKey, user.ID)
}

func UserFromContext(ctx context.Context) (User, bool) {
	value := ctx.Value(userKey)
	user, ok := value.(User)
	if !ok || user.ID == "" {
		return User{}, false
	}
	return user, true
}

func UserIDFromContext(ctx context.Context) (string, bool) {
	value := ctx.Value(userIDKey)
	userID, ok := value.(string)
	if !ok || userID == "" {
		return "", false
	}
	return userID, true
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
