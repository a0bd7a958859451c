package budget

import "context"

type LimitKind string

const (
	LimitMonths        LimitKind = "months"
	LimitExpenses      LimitKind = "expenses"
	LimitSubscriptions LimitKind = "subscriptions"
)

const (
	DefaultFreeMonths        = 2
	DefaultFreeExpenses      = 8
	DefaultFreeSubscriptions = 5
)

// Limits are the free-tier ceilings. A free user may hold exactly N items of
// each kind; creating item N+1 is refused (strict less-than).
type Limits struct {
	Months           int
	ExpensesPerMonth int
	Subscriptions    int
}

func DefaultLimits() Limits {
	return Limits{
		Months:           DefaultFreeMonths,
		ExpensesPerMonth: DefaultFreeExpenses,
		Subscriptions:    DefaultFreeSubscriptions,
	}
}

func (l Limits) For(kind LimitKind) int {
	switch kind {
	case LimitMonths:
		return l.Months
	case LimitExpenses:
		return l.ExpensesPerMonth
	case LimitSubscriptions:
		return l.Subscriptions
	}
	return 0
}

func (l Limits) Allows(kind LimitKind, count int) bool {
	return count < l.For(kind)
}

// PremiumSource reports the entitlement flag. It is consulted on every gated
// call that reaches a ceiling, so an upgrade applies without reloading state.
type PremiumSource interface {
	IsPremium(ctx context.Context, userID string) (bool, error)
}
