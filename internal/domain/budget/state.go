package budget

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"budget-app-go/internal/i18n"
	"budget-app-go/pkg/logger"

	"github.com/shopspring/decimal"
)

// State is one user's months, expenses, subscriptions and settings. Every
// mutation persists through the Gateway and only then applies the gateway's
// record locally, so a failed write leaves State untouched. Creating
// mutations check the free-tier ceiling against the stored rows. The mutex
// is held across the gateway call: mutations of one user run one at a time,
// in call order.
type State struct {
	mu      sync.Mutex
	userID  string
	gateway Gateway
	premium PremiumSource
	limits  Limits
	log     logger.Logger

	months        []Month
	subscriptions []Subscription
	settings      Settings
}

func NewState(userID string, gateway Gateway, premium PremiumSource, limits Limits, log logger.Logger) *State {
	return &State{
		userID:        userID,
		gateway:       gateway,
		premium:       premium,
		limits:        limits,
		log:           log.With("user_id", userID),
		months:        []Month{},
		subscriptions: []Subscription{},
		settings:      Settings{UserID: userID, Language: i18n.Default},
	}
}

func (s *State) UserID() string {
	return s.userID
}

// reload re-reads the user's records from the gateway. The lock is held
// across the read, so no mutation interleaves with it.
func (s *State) reload(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := fetchRecords(ctx, s.gateway, s.userID)
	if err != nil {
		return err
	}
	s.hydrateLocked(records.months, records.expenses, records.subscriptions, records.settings)
	s.log.Debug("budget: state hydrated", "months", len(records.months), "subscriptions", len(records.subscriptions))
	return nil
}

// hydrate replaces the in-memory model with records loaded from the gateway.
func (s *State) hydrate(months []Month, expenses []Expense, subscriptions []Subscription, settings *Settings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hydrateLocked(months, expenses, subscriptions, settings)
}

func (s *State) hydrateLocked(months []Month, expenses []Expense, subscriptions []Subscription, settings *Settings) {
	byMonth := make(map[string][]Expense, len(months))
	for _, expense := range expenses {
		byMonth[expense.MonthID] = append(byMonth[expense.MonthID], expense)
	}

	loaded := make([]Month, 0, len(months))
	for _, month := range months {
		items := byMonth[month.ID]
		if items == nil {
			items = []Expense{}
		}
		slices.SortStableFunc(items, func(a, b Expense) int { return a.SortOrder - b.SortOrder })
		month.Expenses = items
		loaded = append(loaded, month)
	}
	slices.SortStableFunc(loaded, func(a, b Month) int { return a.SortOrder - b.SortOrder })

	subs := append([]Subscription{}, subscriptions...)
	slices.SortStableFunc(subs, func(a, b Subscription) int { return a.SortOrder - b.SortOrder })

	s.months = loaded
	s.subscriptions = subs
	s.settings = Settings{UserID: s.userID, Language: i18n.Default}
	if settings != nil {
		s.settings = *settings
		if s.settings.Language == "" {
			s.settings.Language = i18n.Default
		}
	}

	if s.settings.ActiveMonthID == nil || s.monthIndex(*s.settings.ActiveMonthID) < 0 {
		s.settings.ActiveMonthID = s.firstMonthID(-1)
	}
}

// Reset drops everything held in memory. Durable copies are not touched.
func (s *State) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.months = []Month{}
	s.subscriptions = []Subscription{}
	s.settings = Settings{UserID: s.userID, Language: i18n.Default}
}

func (s *State) Months() []Month {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]Month, 0, len(s.months))
	for _, month := range s.months {
		result = append(result, cloneMonth(month))
	}
	return result
}

func (s *State) Subscriptions() []Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Subscription{}, s.subscriptions...)
}

func (s *State) ActiveMonthID() *string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.settings.ActiveMonthID == nil {
		return nil
	}
	id := *s.settings.ActiveMonthID
	return &id
}

func (s *State) ActiveMonth() (Month, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.activeIndex()
	if idx < 0 {
		return Month{}, false
	}
	return cloneMonth(s.months[idx]), true
}

func (s *State) Language() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings.Language
}

func (s *State) Totals() Totals {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totals()
}

func (s *State) totals() Totals {
	totals := Totals{
		Budget:            decimal.Zero,
		MonthTotal:        decimal.Zero,
		Remaining:         decimal.Zero,
		SubscriptionTotal: SumSubscriptions(s.subscriptions),
	}
	if idx := s.activeIndex(); idx >= 0 {
		month := s.months[idx]
		totals.Budget = month.Budget
		totals.MonthTotal = SumExpenses(month.Expenses)
		totals.Remaining = month.Budget.Sub(totals.MonthTotal)
	}
	return totals
}

// Snapshot returns a detached copy in display order.
func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	months := make([]Month, 0, len(s.months))
	for _, month := range SortMonths(s.months) {
		month.Expenses = SortExpenses(month.Expenses)
		months = append(months, month)
	}

	var active *string
	if s.settings.ActiveMonthID != nil {
		id := *s.settings.ActiveMonthID
		active = &id
	}

	return Snapshot{
		Months:        months,
		Subscriptions: SortSubscriptions(s.subscriptions),
		ActiveMonthID: active,
		Language:      s.settings.Language,
		Totals:        s.totals(),
	}
}

// Months

func (s *State) AddMonth(ctx context.Context, name string) (*Month, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	month := Month{
		ID:        NewID(),
		UserID:    s.userID,
		Name:      name,
		Budget:    decimal.Zero,
		SortOrder: nextMonthOrder(s.months),
	}
	activate := s.settings.ActiveMonthID == nil

	var created *Month
	var settings *Settings
	err := s.gatedTx(ctx, "months.add", LimitMonths, "", func(tx Gateway) error {
		var err error
		created, err = tx.InsertMonth(ctx, s.userID, &month)
		if err != nil {
			return err
		}
		if activate {
			next := s.settings
			next.ActiveMonthID = &created.ID
			settings, err = tx.SaveSettings(ctx, s.userID, &next)
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	created.Expenses = []Expense{}
	s.months = append(s.months, *created)
	if settings != nil {
		s.settings = *settings
	}

	result := cloneMonth(*created)
	return &result, nil
}

func (s *State) DeleteMonth(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.monthIndex(id)
	if idx < 0 {
		return ErrMonthNotFound
	}

	wasActive := s.settings.ActiveMonthID != nil && *s.settings.ActiveMonthID == id

	var settings *Settings
	err := s.persistTx(ctx, "months.delete", func(tx Gateway) error {
		if err := tx.DeleteMonth(ctx, s.userID, id); err != nil {
			return err
		}
		if wasActive {
			next := s.settings
			next.ActiveMonthID = s.firstMonthID(idx)
			var err error
			settings, err = tx.SaveSettings(ctx, s.userID, &next)
			return err
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.months = slices.Delete(s.months, idx, idx+1)
	if settings != nil {
		s.settings = *settings
	}
	return nil
}

func (s *State) EditMonthName(ctx context.Context, id, name string) (*Month, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}

	return s.updateMonth(ctx, "months.rename", id, func(m *Month) { m.Name = name })
}

func (s *State) PinMonth(ctx context.Context, id string) (*Month, error) {
	return s.updateMonth(ctx, "months.pin", id, func(m *Month) { m.Pinned = !m.Pinned })
}

// SetBudget sets the planned ceiling of the active month.
func (s *State) SetBudget(ctx context.Context, amount decimal.Decimal) (*Month, error) {
	if err := validateAmount(amount); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.activeIndex()
	if idx < 0 {
		return nil, ErrNoActiveMonth
	}
	return s.updateMonthLocked(ctx, "months.budget", idx, func(m *Month) { m.Budget = amount })
}

func (s *State) updateMonth(ctx context.Context, op, id string, change func(*Month)) (*Month, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.monthIndex(id)
	if idx < 0 {
		return nil, ErrMonthNotFound
	}
	return s.updateMonthLocked(ctx, op, idx, change)
}

func (s *State) updateMonthLocked(ctx context.Context, op string, idx int, change func(*Month)) (*Month, error) {
	next := cloneMonth(s.months[idx])
	change(&next)

	var updated *Month
	err := s.persist(ctx, op, func(g Gateway) error {
		var err error
		updated, err = g.UpdateMonth(ctx, s.userID, &next)
		return err
	})
	if err != nil {
		return nil, err
	}

	updated.Expenses = s.months[idx].Expenses
	s.months[idx] = *updated

	result := cloneMonth(*updated)
	return &result, nil
}

// DuplicateMonth copies a month with its budget and all expenses. The copy
// is never pinned and neither are its expenses.
func (s *State) DuplicateMonth(ctx context.Context, id string) (*Month, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.monthIndex(id)
	if idx < 0 {
		return nil, ErrMonthNotFound
	}

	source := s.months[idx]
	month := Month{
		ID:        NewID(),
		UserID:    s.userID,
		Name:      source.Name + i18n.T(s.settings.Language, i18n.KeyMonthCopySuffix),
		Budget:    source.Budget,
		SortOrder: nextMonthOrder(s.months),
	}

	var created *Month
	copies := make([]Expense, 0, len(source.Expenses))
	err := s.gatedTx(ctx, "months.duplicate", LimitMonths, "", func(tx Gateway) error {
		var err error
		created, err = tx.InsertMonth(ctx, s.userID, &month)
		if err != nil {
			return err
		}
		for _, expense := range source.Expenses {
			copied := Expense{
				ID:        NewID(),
				UserID:    s.userID,
				MonthID:   created.ID,
				Name:      expense.Name,
				Amount:    expense.Amount,
				SortOrder: expense.SortOrder,
			}
			inserted, err := tx.InsertExpense(ctx, s.userID, &copied)
			if err != nil {
				return err
			}
			copies = append(copies, *inserted)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	created.Expenses = copies
	s.months = append(s.months, *created)

	result := cloneMonth(*created)
	return &result, nil
}

func (s *State) SetActiveMonth(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.monthIndex(id) < 0 {
		return ErrMonthNotFound
	}

	next := s.settings
	next.ActiveMonthID = &id
	return s.saveSettings(ctx, "settings.active_month", next)
}

// SetLanguage stores the preferred display language and returns the
// normalized locale.
func (s *State) SetLanguage(ctx context.Context, language string) (string, error) {
	locale, ok := i18n.Normalize(language)
	if !ok {
		return "", ErrUnsupportedLanguage
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.settings
	next.Language = locale
	if err := s.saveSettings(ctx, "settings.language", next); err != nil {
		return "", err
	}
	return locale, nil
}

func (s *State) saveSettings(ctx context.Context, op string, next Settings) error {
	var saved *Settings
	err := s.persist(ctx, op, func(g Gateway) error {
		var err error
		saved, err = g.SaveSettings(ctx, s.userID, &next)
		return err
	})
	if err != nil {
		return err
	}
	s.settings = *saved
	return nil
}

// Expenses

// AddExpense appends an expense to the active month.
func (s *State) AddExpense(ctx context.Context, name string, amount decimal.Decimal) (*Expense, error) {
	name, err := normalizeItemName(name)
	if err != nil {
		return nil, err
	}
	if err := validateAmount(amount); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.activeIndex()
	if idx < 0 {
		return nil, ErrNoActiveMonth
	}
	month := s.months[idx]

	expense := Expense{
		ID:        NewID(),
		UserID:    s.userID,
		MonthID:   month.ID,
		Name:      name,
		Amount:    amount,
		SortOrder: nextExpenseOrder(month.Expenses),
	}
	return s.insertExpense(ctx, "expenses.add", idx, expense)
}

func (s *State) DuplicateExpense(ctx context.Context, id string) (*Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.activeIndex()
	if idx < 0 {
		return nil, ErrNoActiveMonth
	}
	month := s.months[idx]
	pos := expenseIndex(month.Expenses, id)
	if pos < 0 {
		return nil, ErrExpenseNotFound
	}

	source := month.Expenses[pos]
	expense := Expense{
		ID:        NewID(),
		UserID:    s.userID,
		MonthID:   month.ID,
		Name:      source.Name,
		Amount:    source.Amount,
		SortOrder: nextExpenseOrder(month.Expenses),
	}
	return s.insertExpense(ctx, "expenses.duplicate", idx, expense)
}

func (s *State) insertExpense(ctx context.Context, op string, monthIdx int, expense Expense) (*Expense, error) {
	var created *Expense
	err := s.gatedTx(ctx, op, LimitExpenses, expense.MonthID, func(tx Gateway) error {
		var err error
		created, err = tx.InsertExpense(ctx, s.userID, &expense)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.months[monthIdx].Expenses = append(s.months[monthIdx].Expenses, *created)
	result := *created
	return &result, nil
}

// DeleteExpense removes the expense from whichever month holds it.
func (s *State) DeleteExpense(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	monthIdx, pos := s.findExpense(id)
	if monthIdx < 0 {
		return ErrExpenseNotFound
	}

	err := s.persist(ctx, "expenses.delete", func(g Gateway) error {
		return g.DeleteExpense(ctx, s.userID, id)
	})
	if err != nil {
		return err
	}

	s.months[monthIdx].Expenses = slices.Delete(s.months[monthIdx].Expenses, pos, pos+1)
	return nil
}

func (s *State) EditExpense(ctx context.Context, id string, patch ExpensePatch) (*Expense, error) {
	if patch.empty() {
		return nil, ErrEmptyPatch
	}
	var name string
	if patch.Name != nil {
		normalized, err := normalizeItemName(*patch.Name)
		if err != nil {
			return nil, err
		}
		name = normalized
	}
	if patch.Amount != nil {
		if err := validateAmount(*patch.Amount); err != nil {
			return nil, err
		}
	}

	return s.updateExpense(ctx, "expenses.edit", id, func(e *Expense) {
		if patch.Name != nil {
			e.Name = name
		}
		if patch.Amount != nil {
			e.Amount = *patch.Amount
		}
	})
}

func (s *State) PinExpense(ctx context.Context, id string) (*Expense, error) {
	return s.updateExpense(ctx, "expenses.pin", id, func(e *Expense) { e.Pinned = !e.Pinned })
}

func (s *State) updateExpense(ctx context.Context, op, id string, change func(*Expense)) (*Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	monthIdx, pos := s.findExpense(id)
	if monthIdx < 0 {
		return nil, ErrExpenseNotFound
	}

	next := s.months[monthIdx].Expenses[pos]
	change(&next)

	var updated *Expense
	err := s.persist(ctx, op, func(g Gateway) error {
		var err error
		updated, err = g.UpdateExpense(ctx, s.userID, &next)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.months[monthIdx].Expenses[pos] = *updated
	result := *updated
	return &result, nil
}

// MoveExpense moves an unpinned expense of the active month to position
// index among the month's unpinned expenses and renumbers sort_order.
func (s *State) MoveExpense(ctx context.Context, id string, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.activeIndex()
	if idx < 0 {
		return ErrNoActiveMonth
	}
	expenses := s.months[idx].Expenses
	pos := expenseIndex(expenses, id)
	if pos < 0 {
		return ErrExpenseNotFound
	}
	moving := expenses[pos]
	if moving.Pinned {
		return ErrExpensePinned
	}

	// Pinned expenses keep their sort_order; the unpinned ones are
	// reshuffled over the slots they already occupy.
	ordered := slices.Clone(expenses)
	slots := make([]int, 0, len(expenses))
	unpinned := make([]Expense, 0, len(expenses))
	for _, expense := range expenses {
		if expense.Pinned {
			continue
		}
		slots = append(slots, expense.SortOrder)
		if expense.ID != id {
			unpinned = append(unpinned, expense)
		}
	}
	slices.Sort(slots)
	index = max(0, min(index, len(unpinned)))
	unpinned = slices.Insert(unpinned, index, moving)

	changed := make([]Expense, 0, len(unpinned))
	for i, expense := range unpinned {
		if expense.SortOrder == slots[i] {
			continue
		}
		expense.SortOrder = slots[i]
		changed = append(changed, expense)
		ordered[expenseIndex(ordered, expense.ID)] = expense
	}
	if len(changed) == 0 {
		return nil
	}
	slices.SortStableFunc(ordered, func(a, b Expense) int { return a.SortOrder - b.SortOrder })

	err := s.persistTx(ctx, "expenses.move", func(tx Gateway) error {
		for i := range changed {
			if _, err := tx.UpdateExpense(ctx, s.userID, &changed[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.months[idx].Expenses = ordered
	return nil
}

// Subscriptions

func (s *State) AddSubscription(ctx context.Context, name string, amount decimal.Decimal) (*Subscription, error) {
	name, err := normalizeItemName(name)
	if err != nil {
		return nil, err
	}
	if err := validateAmount(amount); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	subscription := Subscription{
		ID:        NewID(),
		UserID:    s.userID,
		Name:      name,
		Amount:    amount,
		SortOrder: nextSubscriptionOrder(s.subscriptions),
	}
	return s.insertSubscription(ctx, "subscriptions.add", subscription)
}

func (s *State) DuplicateSubscription(ctx context.Context, id string) (*Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pos := subscriptionIndex(s.subscriptions, id)
	if pos < 0 {
		return nil, ErrSubscriptionNotFound
	}

	source := s.subscriptions[pos]
	subscription := Subscription{
		ID:        NewID(),
		UserID:    s.userID,
		Name:      source.Name,
		Amount:    source.Amount,
		SortOrder: nextSubscriptionOrder(s.subscriptions),
	}
	return s.insertSubscription(ctx, "subscriptions.duplicate", subscription)
}

func (s *State) insertSubscription(ctx context.Context, op string, subscription Subscription) (*Subscription, error) {
	var created *Subscription
	err := s.gatedTx(ctx, op, LimitSubscriptions, "", func(tx Gateway) error {
		var err error
		created, err = tx.InsertSubscription(ctx, s.userID, &subscription)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.subscriptions = append(s.subscriptions, *created)
	result := *created
	return &result, nil
}

func (s *State) DeleteSubscription(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	pos := subscriptionIndex(s.subscriptions, id)
	if pos < 0 {
		return ErrSubscriptionNotFound
	}

	err := s.persist(ctx, "subscriptions.delete", func(g Gateway) error {
		return g.DeleteSubscription(ctx, s.userID, id)
	})
	if err != nil {
		return err
	}

	s.subscriptions = slices.Delete(s.subscriptions, pos, pos+1)
	return nil
}

func (s *State) EditSubscription(ctx context.Context, id string, patch ExpensePatch) (*Subscription, error) {
	if patch.empty() {
		return nil, ErrEmptyPatch
	}
	var name string
	if patch.Name != nil {
		normalized, err := normalizeItemName(*patch.Name)
		if err != nil {
			return nil, err
		}
		name = normalized
	}
	if patch.Amount != nil {
		if err := validateAmount(*patch.Amount); err != nil {
			return nil, err
		}
	}

	return s.updateSubscription(ctx, "subscriptions.edit", id, func(sub *Subscription) {
		if patch.Name != nil {
			sub.Name = name
		}
		if patch.Amount != nil {
			sub.Amount = *patch.Amount
		}
	})
}

func (s *State) PinSubscription(ctx context.Context, id string) (*Subscription, error) {
	return s.updateSubscription(ctx, "subscriptions.pin", id, func(sub *Subscription) { sub.Pinned = !sub.Pinned })
}

func (s *State) updateSubscription(ctx context.Context, op, id string, change func(*Subscription)) (*Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pos := subscriptionIndex(s.subscriptions, id)
	if pos < 0 {
		return nil, ErrSubscriptionNotFound
	}

	next := s.subscriptions[pos]
	change(&next)

	var updated *Subscription
	err := s.persist(ctx, op, func(g Gateway) error {
		var err error
		updated, err = g.UpdateSubscription(ctx, s.userID, &next)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.subscriptions[pos] = *updated
	result := *updated
	return &result, nil
}

// helpers; callers hold s.mu

func (s *State) checkLimit(ctx context.Context, kind LimitKind, count int) error {
	if s.limits.Allows(kind, count) {
		return nil
	}
	premium, err := s.premium.IsPremium(ctx, s.userID)
	if err != nil {
		return fmt.Errorf("resolve premium: %w", err)
	}
	if premium {
		return nil
	}
	s.log.Debug("budget: free tier limit reached", "kind", kind, "limit", s.limits.For(kind))
	return &LimitError{Kind: kind, Limit: s.limits.For(kind)}
}

// gatedTx counts the stored rows of kind under the user's lock and runs fn
// only when the ceiling allows one more. Other processes may hold their own
// State for the same user, so the in-memory count is not authoritative.
func (s *State) gatedTx(ctx context.Context, op string, kind LimitKind, monthID string, fn func(Gateway) error) error {
	var gateErr error
	err := s.gateway.Transaction(ctx, func(tx Gateway) error {
		if err := tx.LockUser(ctx, s.userID); err != nil {
			return err
		}
		count, err := storedCount(ctx, tx, s.userID, kind, monthID)
		if err != nil {
			return err
		}
		if gateErr = s.checkLimit(ctx, kind, int(count)); gateErr != nil {
			return gateErr
		}
		return fn(tx)
	})
	if gateErr != nil {
		return gateErr
	}
	return s.wrapPersistErr(op, err)
}

func storedCount(ctx context.Context, g Gateway, userID string, kind LimitKind, monthID string) (int64, error) {
	switch kind {
	case LimitMonths:
		return g.CountMonths(ctx, userID)
	case LimitExpenses:
		return g.CountExpenses(ctx, userID, monthID)
	case LimitSubscriptions:
		return g.CountSubscriptions(ctx, userID)
	}
	return 0, fmt.Errorf("unknown limit kind %q", kind)
}

func (s *State) persist(ctx context.Context, op string, fn func(Gateway) error) error {
	return s.wrapPersistErr(op, fn(s.gateway))
}

func (s *State) persistTx(ctx context.Context, op string, fn func(Gateway) error) error {
	return s.wrapPersistErr(op, s.gateway.Transaction(ctx, fn))
}

func (s *State) wrapPersistErr(op string, err error) error {
	if err == nil {
		return nil
	}
	s.log.InternalError("budget: persist failed", err, "op", op)
	return fmt.Errorf("%w: %s: %w", ErrPersistence, op, err)
}

func (s *State) monthIndex(id string) int {
	return slices.IndexFunc(s.months, func(m Month) bool { return m.ID == id })
}

func (s *State) activeIndex() int {
	if s.settings.ActiveMonthID == nil {
		return -1
	}
	return s.monthIndex(*s.settings.ActiveMonthID)
}

// firstMonthID returns the id of the first month in insertion order,
// skipping index skip, or nil when none remain.
func (s *State) firstMonthID(skip int) *string {
	for i, month := range s.months {
		if i == skip {
			continue
		}
		id := month.ID
		return &id
	}
	return nil
}

func (s *State) findExpense(id string) (int, int) {
	for i, month := range s.months {
		if pos := expenseIndex(month.Expenses, id); pos >= 0 {
			return i, pos
		}
	}
	return -1, -1
}

func expenseIndex(expenses []Expense, id string) int {
	return slices.IndexFunc(expenses, func(e Expense) bool { return e.ID == id })
}

func subscriptionIndex(subscriptions []Subscription, id string) int {
	return slices.IndexFunc(subscriptions, func(s Subscription) bool { return s.ID == id })
}
