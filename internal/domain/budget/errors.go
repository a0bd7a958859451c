package budget

import (
	"errors"
	"fmt"
)

var (
	ErrMonthNotFound        = errors.New("month not found")
	ErrExpenseNotFound      = errors.New("expense not found")
	ErrSubscriptionNotFound = errors.New("subscription not found")
	ErrNoActiveMonth        = errors.New("no active month")
	ErrNameRequired         = errors.New("name is required")
	ErrInvalidAmount        = errors.New("amount must be between 0 and 9999999999.99 with at most two decimals")
	ErrEmptyPatch           = errors.New("no fields to update")
	ErrExpensePinned        = errors.New("pinned expenses cannot be moved")
	ErrUnsupportedLanguage  = errors.New("unsupported language")
	ErrLimitExceeded        = errors.New("free tier limit exceeded")
	ErrPersistence          = errors.New("persistence failed")
)

// LimitError is returned when a free-tier ceiling blocks a create or
// duplicate. errors.Is(err, ErrLimitExceeded) holds for it.
type LimitError struct {
	Kind  LimitKind
	Limit int
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("free tier allows %d %s", e.Limit, e.Kind)
}

func (e *LimitError) Is(target error) bool {
	return target == ErrLimitExceeded
}
