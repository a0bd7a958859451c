package budget

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SortMonths returns months in display order: pinned first, insertion order
// kept inside each group. The input is not modified.
func SortMonths(months []Month) []Month {
	return pinnedFirst(months, func(m Month) bool { return m.Pinned })
}

func SortExpenses(expenses []Expense) []Expense {
	return pinnedFirst(expenses, func(e Expense) bool { return e.Pinned })
}

func SortSubscriptions(subscriptions []Subscription) []Subscription {
	return pinnedFirst(subscriptions, func(s Subscription) bool { return s.Pinned })
}

func pinnedFirst[T any](items []T, pinned func(T) bool) []T {
	result := make([]T, 0, len(items))
	for _, item := range items {
		if pinned(item) {
			result = append(result, item)
		}
	}
	for _, item := range items {
		if !pinned(item) {
			result = append(result, item)
		}
	}
	return result
}

func SumExpenses(expenses []Expense) decimal.Decimal {
	total := decimal.Zero
	for _, expense := range expenses {
		total = total.Add(expense.Amount)
	}
	return total
}

func SumSubscriptions(subscriptions []Subscription) decimal.Decimal {
	total := decimal.Zero
	for _, subscription := range subscriptions {
		total = total.Add(subscription.Amount)
	}
	return total
}

func normalizeItemName(name string) (string, error) {
	name = strings.ToUpper(strings.TrimSpace(name))
	if name == "" {
		return "", ErrNameRequired
	}
	return name, nil
}

// Amounts are stored as NUMERIC(12,2): cents precision, below 10^10.
const amountScale = 2

var maxAmount = decimal.New(1, 10)

func validateAmount(amount decimal.Decimal) error {
	if amount.IsNegative() || amount.GreaterThanOrEqual(maxAmount) {
		return ErrInvalidAmount
	}
	if !amount.Equal(amount.Round(amountScale)) {
		return ErrInvalidAmount
	}
	return nil
}

// NewID returns a provisional id. The gateway may replace it.
func NewID() string {
	return uuid.NewString()
}

func cloneMonth(month Month) Month {
	month.Expenses = append([]Expense{}, month.Expenses...)
	return month
}

func nextMonthOrder(months []Month) int {
	next := 0
	for _, month := range months {
		if month.SortOrder >= next {
			next = month.SortOrder + 1
		}
	}
	return next
}

func nextExpenseOrder(expenses []Expense) int {
	next := 0
	for _, expense := range expenses {
		if expense.SortOrder >= next {
			next = expense.SortOrder + 1
		}
	}
	return next
}

func nextSubscriptionOrder(subscriptions []Subscription) int {
	next := 0
	for _, subscription := range subscriptions {
		if subscription.SortOrder >= next {
			next = subscription.SortOrder + 1
		}
	}
	return next
}
