package budget

import "time"

// Cache holds hydrated states between requests.
type Cache interface {
	Get(userID string) (*State, bool)
	Set(userID string, state *State, ttl time.Duration)
	Delete(userID string)
	Clear()
}

type noopCache struct{}

func (noopCache) Get(string) (*State, bool) {
	return nil, false
}

func (noopCache) Set(string, *State, time.Duration) {}

func (noopCache) Delete(string) {}

func (noopCache) Clear() {}
