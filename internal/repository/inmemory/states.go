package inmemory

import (
	"sync"
	"time"

	budgetdomain "budget-app-go/internal/domain/budget"
)

// StateCache keeps hydrated budget states per user until they expire.
// States are shared, not copied: every request for a user works on the
// same instance.
type StateCache struct {
	mu    sync.RWMutex
	items map[string]stateItem
	now   func() time.Time
}

type stateItem struct {
	value     *budgetdomain.State
	expiresAt time.Time
}

func NewStateCache() *StateCache {
	return &StateCache{
		items: make(map[string]stateItem),
		now:   time.Now,
	}
}

func (c *StateCache) Get(userID string) (*budgetdomain.State, bool) {
	now := c.now()

	c.mu.RLock()
	item, ok := c.items[userID]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}

	if !item.expiresAt.After(now) {
		c.mu.Lock()
		item, ok = c.items[userID]
		if ok && !item.expiresAt.After(now) {
			delete(c.items, userID)
		}
		c.mu.Unlock()
		return nil, false
	}

	return item.value, true
}

func (c *StateCache) Set(userID string, state *budgetdomain.State, ttl time.Duration) {
	if state == nil || ttl <= 0 {
		c.Delete(userID)
		return
	}

	c.mu.Lock()
	c.items[userID] = stateItem{
		value:     state,
		expiresAt: c.now().Add(ttl),
	}
	c.mu.Unlock()
}

func (c *StateCache) Delete(userID string) {
	c.mu.Lock()
	delete(c.items, userID)
	c.mu.Unlock()
}

func (c *StateCache) Clear() {
	c.mu.Lock()
	c.items = make(map[string]stateItem)
	c.mu.Unlock()
}

func (c *StateCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
