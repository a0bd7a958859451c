package budget

import (
	"context"
	"fmt"
	"sync"
	"time"

	"budget-app-go/pkg/logger"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

type RegistryDeps struct {
	Gateway Gateway
	Premium PremiumSource
	Limits  Limits
	Cache   Cache
	TTL     time.Duration
	Logger  logger.Logger
}

// loadTimeout bounds a shared load once the caller that started it is gone.
const loadTimeout = 15 * time.Second

// Registry hands out one State per user, hydrating it from the gateway on
// first use. Concurrent first requests for the same user share one load.
type Registry struct {
	gateway Gateway
	premium PremiumSource
	limits  Limits
	cache   Cache
	ttl     time.Duration
	log     logger.Logger
	loads   singleflight.Group

	mu          sync.Mutex
	generations map[string]uint64
}

func NewRegistry(deps RegistryDeps) *Registry {
	cache := deps.Cache
	if cache == nil {
		cache = noopCache{}
	}
	log := deps.Logger
	if log == nil {
		log = logger.NewNop()
	}
	return &Registry{
		gateway:     deps.Gateway,
		premium:     deps.Premium,
		limits:      deps.Limits,
		cache:       cache,
		ttl:         deps.TTL,
		log:         log,
		generations: make(map[string]uint64),
	}
}

func (r *Registry) Get(ctx context.Context, userID string) (*State, error) {
	if state, ok := r.cache.Get(userID); ok {
		return state, nil
	}

	// The load is shared, so it must not die with the first caller.
	results := r.loads.DoChan(userID, func() (any, error) {
		if state, ok := r.cache.Get(userID); ok {
			return state, nil
		}
		generation := r.generation(userID)

		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), loadTimeout)
		defer cancel()
		state, err := r.load(loadCtx, userID)
		if err != nil {
			return nil, err
		}

		r.mu.Lock()
		if r.generations[userID] == generation {
			r.cache.Set(userID, state, r.ttl)
		}
		r.mu.Unlock()
		return state, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case result := <-results:
		if result.Err != nil {
			return nil, result.Err
		}
		return result.Val.(*State), nil
	}
}

// Refresh returns the user's State re-read from the gateway, so rows
// written through another Registry show up. A cached State is reloaded in
// place.
func (r *Registry) Refresh(ctx context.Context, userID string) (*State, error) {
	state, ok := r.cache.Get(userID)
	if !ok {
		return r.Get(ctx, userID)
	}
	if err := state.reload(ctx); err != nil {
		r.log.InternalError("budget: refresh failed", err, "user_id", userID)
		return nil, fmt.Errorf("%w: refresh: %w", ErrPersistence, err)
	}
	return state, nil
}

// Reset clears the user's in-memory state and forgets it. Durable copies
// are kept. A load already in flight is not cached.
func (r *Registry) Reset(userID string) {
	r.mu.Lock()
	r.generations[userID]++
	state, ok := r.cache.Get(userID)
	r.cache.Delete(userID)
	r.mu.Unlock()

	if ok {
		state.Reset()
	}
}

func (r *Registry) generation(userID string) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.generations[userID]
}

func (r *Registry) load(ctx context.Context, userID string) (*State, error) {
	state := NewState(userID, r.gateway, r.premium, r.limits, r.log)
	if err := state.reload(ctx); err != nil {
		r.log.InternalError("budget: hydrate failed", err, "user_id", userID)
		return nil, fmt.Errorf("%w: hydrate: %w", ErrPersistence, err)
	}
	return state, nil
}

type storedRecords struct {
	months        []Month
	expenses      []Expense
	subscriptions []Subscription
	settings      *Settings
}

func fetchRecords(ctx context.Context, gateway Gateway, userID string) (storedRecords, error) {
	var records storedRecords

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		records.months, err = gateway.ListMonths(groupCtx, userID)
		return err
	})
	group.Go(func() error {
		var err error
		records.expenses, err = gateway.ListExpenses(groupCtx, userID)
		return err
	})
	group.Go(func() error {
		var err error
		records.subscriptions, err = gateway.ListSubscriptions(groupCtx, userID)
		return err
	})
	group.Go(func() error {
		var err error
		records.settings, err = gateway.GetSettings(groupCtx, userID)
		return err
	})
	if err := group.Wait(); err != nil {
		return storedRecords{}, err
	}
	return records, nil
}
