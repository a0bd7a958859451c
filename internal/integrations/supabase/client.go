// Package supabase talks to the Supabase auth backend (GoTrue) and
// verifies the access tokens it issues.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"budget-app-go/internal/domain/session"
)

const defaultTimeout = 5 * time.Second

type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
	}
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userPayload struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type tokenResponse struct {
	AccessToken  string       `json:"access_token"`
	TokenType    string       `json:"token_type"`
	ExpiresIn    int          `json:"expires_in"`
	RefreshToken string       `json:"refresh_token"`
	User         *userPayload `json:"user"`

	// sign-up without a session answers with the bare user
	ID    string `json:"id"`
	Email string `json:"email"`
}

type errorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	ErrorCode        string `json:"error_code"`
	Msg              string `json:"msg"`
	Message          string `json:"message"`
}

func (c *Client) SignIn(ctx context.Context, email, password string) (*session.AuthResult, error) {
	var payload tokenResponse
	if err := c.do(ctx, http.MethodPost, "/auth/v1/token?grant_type=password", "", credentials{Email: email, Password: password}, &payload); err != nil {
		return nil, err
	}
	return payload.result(), nil
}

func (c *Client) SignUp(ctx context.Context, email, password string) (*session.AuthResult, error) {
	var payload tokenResponse
	if err := c.do(ctx, http.MethodPost, "/auth/v1/signup", "", credentials{Email: email, Password: password}, &payload); err != nil {
		return nil, err
	}
	return payload.result(), nil
}

func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	return c.do(ctx, http.MethodPost, "/auth/v1/logout", accessToken, nil, nil)
}

func (c *Client) RecoverPassword(ctx context.Context, email, redirectTo string) error {
	path := "/auth/v1/recover"
	if redirectTo != "" {
		path += "?redirect_to=" + url.QueryEscape(redirectTo)
	}
	return c.do(ctx, http.MethodPost, path, "", map[string]string{"email": email}, nil)
}

// Verify resolves an access token by asking the backend for its user.
func (c *Client) Verify(ctx context.Context, accessToken string) (session.Identity, error) {
	var payload userPayload
	if err := c.do(ctx, http.MethodGet, "/auth/v1/user", accessToken, nil, &payload); err != nil {
		return session.Identity{}, err
	}
	if payload.ID == "" {
		return session.Identity{}, errors.New("supabase: user without id")
	}
	return session.Identity{UserID: payload.ID, Email: payload.Email}, nil
}

func (c *Client) do(ctx context.Context, method, path, accessToken string, body, out any) error {
	if c.baseURL == "" || c.apiKey == "" {
		return errors.New("supabase: not configured")
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("supabase: encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("supabase: build request: %w", err)
	}
	req.Header.Set("apikey", c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("supabase: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("supabase: decode response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	var payload errorResponse
	_ = json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&payload)

	code := firstNonEmpty(payload.ErrorCode, payload.Error)
	message := firstNonEmpty(payload.ErrorDescription, payload.Msg, payload.Message, http.StatusText(resp.StatusCode))

	switch {
	case code == "invalid_grant" || code == "invalid_credentials":
		return session.ErrInvalidCredentials
	case code == "user_already_exists" || code == "email_exists" ||
		strings.Contains(strings.ToLower(message), "already registered"):
		return session.ErrAlreadyRegistered
	}
	return &session.AuthError{Status: resp.StatusCode, Code: code, Message: message}
}

func (p tokenResponse) result() *session.AuthResult {
	identity := session.Identity{UserID: p.ID, Email: p.Email}
	if p.User != nil {
		identity = session.Identity{UserID: p.User.ID, Email: p.User.Email}
	}
	return &session.AuthResult{
		Identity: identity,
		Tokens: session.Tokens{
			AccessToken:  p.AccessToken,
			RefreshToken: p.RefreshToken,
			TokenType:    p.TokenType,
			ExpiresIn:    p.ExpiresIn,
		},
	}
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}
