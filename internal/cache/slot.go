// Package cache provides a single-entry, process-scoped read-through cache.
//
// The news and weather endpoints each front one upstream API with one
// memoized response, so a general multi-key cache would be oversized: a Slot
// holds exactly one payload, replaced wholesale on refresh and lost on
// restart.
package cache

import (
	"context"
	"sync"
	"time"
)

// FetchFunc loads a fresh payload from upstream on a cache miss.
type FetchFunc func(ctx context.Context) ([]byte, error)

// Slot is a single-entry TTL cache. An entry is servable iff it exists, its
// key matches the requested key and it is younger than the TTL. On a miss
// the slot calls fetch itself and stores the result; a fetch error is
// returned as-is and never masked with stale data.
//
// The mutex is held across the fetch, so concurrent misses collapse into a
// single upstream call.
type Slot struct {
	ttl time.Duration

	mu        sync.Mutex
	key       string
	payload   []byte
	fetchedAt time.Time

	now func() time.Time // injectable for tests
}

// NewSlot creates an empty Slot with the given TTL.
func NewSlot(ttl time.Duration) *Slot {
	return &Slot{ttl: ttl, now: time.Now}
}

// Get returns the cached payload for key, fetching and replacing the entry
// when it is absent, expired or keyed differently. The returned bool reports
// whether the payload was served from cache.
func (s *Slot) Get(ctx context.Context, key string, fetch FetchFunc) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.payload != nil && s.key == key && s.now().Sub(s.fetchedAt) < s.ttl {
		return clone(s.payload), true, nil
	}

	payload, err := fetch(ctx)
	if err != nil {
		return nil, false, err
	}

	s.key = key
	s.payload = clone(payload)
	s.fetchedAt = s.now()
	return payload, false, nil
}

// TTL returns the slot's configured entry lifetime.
func (s *Slot) TTL() time.Duration {
	return s.ttl
}

func clone(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
