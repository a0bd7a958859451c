package budget

import "context"

// Gateway is the durable store behind State. Implementations must scope
// every statement to userID.
type Gateway interface {
	Transaction(ctx context.Context, fn func(Gateway) error) error

	ListMonths(ctx context.Context, userID string) ([]Month, error)
	ListExpenses(ctx context.Context, userID string) ([]Expense, error)
	ListSubscriptions(ctx context.Context, userID string) ([]Subscription, error)
	GetSettings(ctx context.Context, userID string) (*Settings, error)

	// LockUser serializes gated writes of one user across processes until
	// the surrounding transaction ends.
	LockUser(ctx context.Context, userID string) error
	CountMonths(ctx context.Context, userID string) (int64, error)
	CountExpenses(ctx context.Context, userID, monthID string) (int64, error)
	CountSubscriptions(ctx context.Context, userID string) (int64, error)

	InsertMonth(ctx context.Context, userID string, month *Month) (*Month, error)
	UpdateMonth(ctx context.Context, userID string, month *Month) (*Month, error)
	DeleteMonth(ctx context.Context, userID, monthID string) error

	InsertExpense(ctx context.Context, userID string, expense *Expense) (*Expense, error)
	UpdateExpense(ctx context.Context, userID string, expense *Expense) (*Expense, error)
	DeleteExpense(ctx context.Context, userID, expenseID string) error

	InsertSubscription(ctx context.Context, userID string, subscription *Subscription) (*Subscription, error)
	UpdateSubscription(ctx context.Context, userID string, subscription *Subscription) (*Subscription, error)
	DeleteSubscription(ctx context.Context, userID, subscriptionID string) error

	SaveSettings(ctx context.Context, userID string, settings *Settings) (*Settings, error)
}
