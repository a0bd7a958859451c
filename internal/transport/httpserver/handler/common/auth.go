package common

import (
	"errors"
	"net/http"

	"budget-app-go/internal/domain/session"
	"budget-app-go/internal/transport/httpserver/middleware"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type passwordResetRequest struct {
	Email string `json:"email"`
}

type updateProfileRequest struct {
	Username string `json:"username"`
}

type profileResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	IsPremium bool   `json:"isPremium"`
}

type sessionResponse struct {
	User         *profileResponse `json:"user,omitempty"`
	AccessToken  string           `json:"accessToken,omitempty"`
	RefreshToken string           `json:"refreshToken,omitempty"`
	TokenType    string           `json:"tokenType,omitempty"`
	ExpiresIn    int              `json:"expiresIn,omitempty"`
	// Pending is set when sign-up waits for email confirmation.
	Pending bool `json:"pending"`
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	result, err := h.Sessions.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeSessionError(w, "auth.login", err)
		return
	}

	writeJSON(w, http.StatusOK, newSessionResponse(result))
}

func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	result, err := h.Sessions.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeSessionError(w, "auth.register", err)
		return
	}

	status := http.StatusCreated
	if result.Pending() {
		status = http.StatusAccepted
	}
	writeJSON(w, status, newSessionResponse(result))
}

func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		WriteUnauthorized(w)
		return
	}

	h.Sessions.Logout(r.Context(), user.ID, user.AccessToken)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) PasswordReset(w http.ResponseWriter, r *http.Request) {
	var req passwordResetRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	if err := h.Sessions.RequestPasswordReset(r.Context(), req.Email, h.ResetRedirect); err != nil {
		if errors.Is(err, session.ErrInvalidEmail) {
			writeError(w, http.StatusBadRequest, "invalid_email", "invalid email")
			return
		}
		// the response never reveals whether the address is registered
		h.log.Warn("auth.password_reset: recover failed", "err", err)
	}

	writeJSON(w, http.StatusAccepted, map[string]bool{"success": true})
}

func (h *Handlers) AuthMe(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		WriteUnauthorized(w)
		return
	}

	profile, err := h.Sessions.Profile(r.Context(), user.ID)
	if err != nil {
		if errors.Is(err, session.ErrProfileNotFound) {
			h.log.BusinessError("auth.me: profile not found", err, "user_id", user.ID)
			writeError(w, http.StatusNotFound, "profile_not_found", "profile not found")
			return
		}
		h.log.InternalError("auth.me: get profile failed", err, "user_id", user.ID)
		WriteInternalError(w)
		return
	}

	writeJSON(w, http.StatusOK, newProfileResponse(*profile, user.Email))
}

func (h *Handlers) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req updateProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		WriteUnauthorized(w)
		return
	}

	profile, err := h.Sessions.UpdateUsername(r.Context(), user.ID, req.Username)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrInvalidUsername):
			writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		case errors.Is(err, session.ErrProfileNotFound):
			writeError(w, http.StatusNotFound, "profile_not_found", "profile not found")
		default:
			h.log.InternalError("profile.update: update username failed", err, "user_id", user.ID)
			WriteInternalError(w)
		}
		return
	}

	writeJSON(w, http.StatusOK, newProfileResponse(*profile, user.Email))
}

func (h *Handlers) writeSessionError(w http.ResponseWriter, op string, err error) {
	var authErr *session.AuthError
	switch {
	case errors.Is(err, session.ErrMissingCredentials):
		writeError(w, http.StatusBadRequest, "missing_credentials", err.Error())
	case errors.Is(err, session.ErrInvalidEmail):
		writeError(w, http.StatusBadRequest, "invalid_email", err.Error())
	case errors.Is(err, session.ErrInvalidCredentials):
		h.log.BusinessError(op+": rejected", err)
		writeError(w, http.StatusUnauthorized, "invalid_credentials", err.Error())
	case errors.Is(err, session.ErrAlreadyRegistered):
		h.log.BusinessError(op+": already registered", err)
		writeError(w, http.StatusConflict, "already_registered", err.Error())
	case errors.As(err, &authErr) && authErr.Status >= 400 && authErr.Status < 500:
		h.log.BusinessError(op+": auth backend rejected", err)
		writeError(w, http.StatusBadRequest, "auth_rejected", authErr.Message)
	default:
		h.log.InternalError(op+": failed", err)
		WriteInternalError(w)
	}
}

func newSessionResponse(result *session.Session) sessionResponse {
	response := sessionResponse{
		AccessToken:  result.Tokens.AccessToken,
		RefreshToken: result.Tokens.RefreshToken,
		TokenType:    result.Tokens.TokenType,
		ExpiresIn:    result.Tokens.ExpiresIn,
		Pending:      result.Pending(),
	}
	if result.Profile.UserID != "" {
		profile := newProfileResponse(result.Profile, result.Identity.Email)
		response.User = &profile
	}
	return response
}

func newProfileResponse(profile session.Profile, fallbackEmail string) profileResponse {
	email := fallbackEmail
	if profile.Email != nil && *profile.Email != "" {
		email = *profile.Email
	}
	return profileResponse{
		ID:        profile.UserID,
		Email:     email,
		Username:  profile.Username,
		IsPremium: profile.IsPremium,
	}
}
