package feedback

import (
	"errors"
	"fmt"
)

var ErrInvalidFeedback = errors.New("invalid feedback")

var (
	ErrInvalidType     = fmt.Errorf("%w: unknown type", ErrInvalidFeedback)
	ErrMessageRequired = fmt.Errorf("%w: message is required", ErrInvalidFeedback)
	ErrMessageTooLong  = fmt.Errorf("%w: message is too long", ErrInvalidFeedback)
	ErrInvalidEmail    = fmt.Errorf("%w: invalid email", ErrInvalidFeedback)
	ErrNotConfigured   = errors.New("feedback delivery not configured")
)
