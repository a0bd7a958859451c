package budget

import (
	"context"
	"slices"
	"sync"
)

type fakeGateway struct {
	// txMu serializes transactions like a single database connection.
	txMu          sync.Mutex
	mu            sync.Mutex
	months        []Month
	expenses      []Expense
	subscriptions []Subscription
	settings      map[string]Settings
	fail          map[string]error
	calls         map[string]int
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		settings: make(map[string]Settings),
		fail:     make(map[string]error),
		calls:    make(map[string]int),
	}
}

func (g *fakeGateway) hit(op string) error {
	g.calls[op]++
	return g.fail[op]
}

func (g *fakeGateway) Transaction(ctx context.Context, fn func(Gateway) error) error {
	g.txMu.Lock()
	defer g.txMu.Unlock()

	g.mu.Lock()
	months := slices.Clone(g.months)
	expenses := slices.Clone(g.expenses)
	subscriptions := slices.Clone(g.subscriptions)
	settings := make(map[string]Settings, len(g.settings))
	for k, v := range g.settings {
		settings[k] = v
	}
	g.mu.Unlock()

	if err := fn(g); err != nil {
		g.mu.Lock()
		g.months, g.expenses, g.subscriptions, g.settings = months, expenses, subscriptions, settings
		g.mu.Unlock()
		return err
	}
	return nil
}

func (g *fakeGateway) ListMonths(ctx context.Context, userID string) ([]Month, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.hit("ListMonths"); err != nil {
		return nil, err
	}
	var result []Month
	for _, m := range g.months {
		if m.UserID == userID {
			result = append(result, m)
		}
	}
	return result, nil
}

func (g *fakeGateway) ListExpenses(ctx context.Context, userID string) ([]Expense, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.hit("ListExpenses"); err != nil {
		return nil, err
	}
	var result []Expense
	for _, e := range g.expenses {
		if e.UserID == userID {
			result = append(result, e)
		}
	}
	return result, nil
}

func (g *fakeGateway) ListSubscriptions(ctx context.Context, userID string) ([]Subscription, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.hit("ListSubscriptions"); err != nil {
		return nil, err
	}
	var result []Subscription
	for _, s := range g.subscriptions {
		if s.UserID == userID {
			result = append(result, s)
		}
	}
	return result, nil
}

func (g *fakeGateway) GetSettings(ctx context.Context, userID string) (*Settings, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.hit("GetSettings"); err != nil {
		return nil, err
	}
	settings, ok := g.settings[userID]
	if !ok {
		return nil, nil
	}
	return &settings, nil
}

func (g *fakeGateway) LockUser(ctx context.Context, userID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.hit("LockUser")
}

func (g *fakeGateway) CountMonths(ctx context.Context, userID string) (int64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.hit("CountMonths"); err != nil {
		return 0, err
	}
	var n int64
	for _, m := range g.months {
		if m.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (g *fakeGateway) CountExpenses(ctx context.Context, userID, monthID string) (int64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.hit("CountExpenses"); err != nil {
		return 0, err
	}
	var n int64
	for _, e := range g.expenses {
		if e.UserID == userID && e.MonthID == monthID {
			n++
		}
	}
	return n, nil
}

func (g *fakeGateway) CountSubscriptions(ctx context.Context, userID string) (int64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.hit("CountSubscriptions"); err != nil {
		return 0, err
	}
	var n int64
	for _, sub := range g.subscriptions {
		if sub.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (g *fakeGateway) InsertMonth(ctx context.Context, userID string, month *Month) (*Month, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.hit("InsertMonth"); err != nil {
		return nil, err
	}
	created := *month
	created.Expenses = nil
	g.months = append(g.months, created)
	return &created, nil
}

func (g *fakeGateway) UpdateMonth(ctx context.Context, userID string, month *Month) (*Month, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.hit("UpdateMonth"); err != nil {
		return nil, err
	}
	idx := slices.IndexFunc(g.months, func(m Month) bool { return m.ID == month.ID && m.UserID == userID })
	if idx < 0 {
		return nil, ErrMonthNotFound
	}
	updated := *month
	updated.Expenses = nil
	g.months[idx] = updated
	return &updated, nil
}

func (g *fakeGateway) DeleteMonth(ctx context.Context, userID, monthID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.hit("DeleteMonth"); err != nil {
		return err
	}
	g.months = slices.DeleteFunc(g.months, func(m Month) bool { return m.ID == monthID && m.UserID == userID })
	g.expenses = slices.DeleteFunc(g.expenses, func(e Expense) bool { return e.MonthID == monthID && e.UserID == userID })
	return nil
}

func (g *fakeGateway) InsertExpense(ctx context.Context, userID string, expense *Expense) (*Expense, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.hit("InsertExpense"); err != nil {
		return nil, err
	}
	created := *expense
	g.expenses = append(g.expenses, created)
	return &created, nil
}

func (g *fakeGateway) UpdateExpense(ctx context.Context, userID string, expense *Expense) (*Expense, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.hit("UpdateExpense"); err != nil {
		return nil, err
	}
	idx := slices.IndexFunc(g.expenses, func(e Expense) bool { return e.ID == expense.ID && e.UserID == userID })
	if idx < 0 {
		return nil, ErrExpenseNotFound
	}
	g.expenses[idx] = *expense
	updated := *expense
	return &updated, nil
}

func (g *fakeGateway) DeleteExpense(ctx context.Context, userID, expenseID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.hit("DeleteExpense"); err != nil {
		return err
	}
	g.expenses = slices.DeleteFunc(g.expenses, func(e Expense) bool { return e.ID == expenseID && e.UserID == userID })
	return nil
}

func (g *fakeGateway) InsertSubscription(ctx context.Context, userID string, subscription *Subscription) (*Subscription, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.hit("InsertSubscription"); err != nil {
		return nil, err
	}
	created := *subscription
	g.subscriptions = append(g.subscriptions, created)
	return &created, nil
}

func (g *fakeGateway) UpdateSubscription(ctx context.Context, userID string, subscription *Subscription) (*Subscription, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.hit("UpdateSubscription"); err != nil {
		return nil, err
	}
	idx := slices.IndexFunc(g.subscriptions, func(s Subscription) bool { return s.ID == subscription.ID && s.UserID == userID })
	if idx < 0 {
		return nil, ErrSubscriptionNotFound
	}
	g.subscriptions[idx] = *subscription
	updated := *subscription
	return &updated, nil
}

func (g *fakeGateway) DeleteSubscription(ctx context.Context, userID, subscriptionID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.hit("DeleteSubscription"); err != nil {
		return err
	}
	g.subscriptions = slices.DeleteFunc(g.subscriptions, func(s Subscription) bool { return s.ID == subscriptionID && s.UserID == userID })
	return nil
}

func (g *fakeGateway) SaveSettings(ctx context.Context, userID string, settings *Settings) (*Settings, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.hit("SaveSettings"); err != nil {
		return nil, err
	}
	saved := *settings
	saved.UserID = userID
	g.settings[userID] = saved
	return &saved, nil
}

type fakePremium struct {
	mu      sync.Mutex
	premium bool
	err     error
	calls   int
}

func (p *fakePremium) IsPremium(ctx context.Context, userID string) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	return p.premium, p.err
}

func (p *fakePremium) set(premium bool) {
	p.mu.Lock()
	p.premium = premium
	p.mu.Unlock()
}
