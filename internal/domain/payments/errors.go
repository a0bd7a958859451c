package payments

import "errors"

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrEmailRequired    = errors.New("account email is required")
	ErrNotConfigured    = errors.New("payments not configured")
	ErrSessionNotOwned  = errors.New("checkout session belongs to another user")
	ErrActivationFailed = errors.New("failed to activate premium")
	ErrInvalidWebhook   = errors.New("invalid webhook payload")
)

// ValidationError carries the fixed message shown to the client. Details
// stay in the logs.
type ValidationError struct {
	Message string
	Detail  string
}

func (e *ValidationError) Error() string {
	if e.Detail == "" {
		return e.Message
	}
	return e.Message + ": " + e.Detail
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}
