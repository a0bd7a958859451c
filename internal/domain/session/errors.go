package session

import (
	"errors"
	"fmt"
)

var (
	ErrMissingCredentials = errors.New("email and password are required")
	ErrInvalidCredentials = errors.New("invalid login credentials")
	ErrAlreadyRegistered  = errors.New("user already registered")
	ErrInvalidEmail       = errors.New("invalid email")
	ErrProfileNotFound    = errors.New("profile not found")
	ErrInvalidUsername    = errors.New("username must be 1 to 50 characters")
)

// AuthError carries an auth backend rejection that has no sentinel.
type AuthError struct {
	Status  int
	Code    string
	Message string
}

func (e *AuthError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("auth backend: status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("auth backend: %s: %s", e.Code, e.Message)
}
