package budget

import (
	"time"

	budgetdomain "budget-app-go/internal/domain/budget"

	"github.com/shopspring/decimal"
)

type expenseResponse struct {
	ID        string          `json:"id"`
	MonthID   string          `json:"monthId"`
	Name      string          `json:"name"`
	Amount    decimal.Decimal `json:"amount"`
	Pinned    bool            `json:"pinned"`
	SortOrder int             `json:"sortOrder"`
	CreatedAt time.Time       `json:"createdAt"`
}

type monthResponse struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Pinned    bool              `json:"pinned"`
	Budget    decimal.Decimal   `json:"budget"`
	Total     decimal.Decimal   `json:"total"`
	SortOrder int               `json:"sortOrder"`
	CreatedAt time.Time         `json:"createdAt"`
	Expenses  []expenseResponse `json:"expenses"`
}

type subscriptionResponse struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Amount    decimal.Decimal `json:"amount"`
	Pinned    bool            `json:"pinned"`
	SortOrder int             `json:"sortOrder"`
	CreatedAt time.Time       `json:"createdAt"`
}

type totalsResponse struct {
	Budget            decimal.Decimal `json:"budget"`
	MonthTotal        decimal.Decimal `json:"monthTotal"`
	Remaining         decimal.Decimal `json:"remaining"`
	SubscriptionTotal decimal.Decimal `json:"subscriptionTotal"`
}

type stateResponse struct {
	Months        []monthResponse        `json:"months"`
	Subscriptions []subscriptionResponse `json:"subscriptions"`
	ActiveMonthID *string                `json:"activeMonthId"`
	Language      string                 `json:"language"`
	Totals        totalsResponse         `json:"totals"`
}

func newExpenseResponse(expense budgetdomain.Expense) expenseResponse {
	return expenseResponse{
		ID:        expense.ID,
		MonthID:   expense.MonthID,
		Name:      expense.Name,
		Amount:    expense.Amount,
		Pinned:    expense.Pinned,
		SortOrder: expense.SortOrder,
		CreatedAt: expense.CreatedAt,
	}
}

func newMonthResponse(month budgetdomain.Month) monthResponse {
	expenses := make([]expenseResponse, 0, len(month.Expenses))
	for _, expense := range month.Expenses {
		expenses = append(expenses, newExpenseResponse(expense))
	}
	return monthResponse{
		ID:        month.ID,
		Name:      month.Name,
		Pinned:    month.Pinned,
		Budget:    month.Budget,
		Total:     budgetdomain.SumExpenses(month.Expenses),
		SortOrder: month.SortOrder,
		CreatedAt: month.CreatedAt,
		Expenses:  expenses,
	}
}

func newSubscriptionResponse(subscription budgetdomain.Subscription) subscriptionResponse {
	return subscriptionResponse{
		ID:        subscription.ID,
		Name:      subscription.Name,
		Amount:    subscription.Amount,
		Pinned:    subscription.Pinned,
		SortOrder: subscription.SortOrder,
		CreatedAt: subscription.CreatedAt,
	}
}

func newStateResponse(snapshot budgetdomain.Snapshot) stateResponse {
	months := make([]monthResponse, 0, len(snapshot.Months))
	for _, month := range snapshot.Months {
		months = append(months, newMonthResponse(month))
	}
	subscriptions := make([]subscriptionResponse, 0, len(snapshot.Subscriptions))
	for _, subscription := range snapshot.Subscriptions {
		subscriptions = append(subscriptions, newSubscriptionResponse(subscription))
	}
	return stateResponse{
		Months:        months,
		Subscriptions: subscriptions,
		ActiveMonthID: snapshot.ActiveMonthID,
		Language:      snapshot.Language,
		Totals: totalsResponse{
			Budget:            snapshot.Totals.Budget,
			MonthTotal:        snapshot.Totals.MonthTotal,
			Remaining:         snapshot.Totals.Remaining,
			SubscriptionTotal: snapshot.Totals.SubscriptionTotal,
		},
	}
}
