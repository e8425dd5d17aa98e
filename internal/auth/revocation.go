package auth

import (
	"context"
	"sync"
	"time"
)

// RevocationStore records credentials invalidated before their natural
// expiry. A token present in the store must never authenticate a request; a
// token whose entry has expired is equivalent to never revoked.
type RevocationStore interface {
	Add(ctx context.Context, token string, ttl time.Duration) error
	Has(ctx context.Context, token string) (bool, error)
}

// MemoryRevocationStore is the single-process implementation: a mutex-guarded
// map of token to expiry instant. It is not persistent — a process restart
// silently un-revokes everything, acceptable only because revoked tokens also
// carry a short natural expiry. Multi-instance deployments should use
// RedisRevocationStore instead.
type MemoryRevocationStore struct {
	mu      sync.Mutex
	entries map[string]time.Time
	now     func() time.Time
}

// NewMemoryRevocationStore constructs an empty in-memory store.
func NewMemoryRevocationStore() *MemoryRevocationStore {
	return &MemoryRevocationStore{
		entries: make(map[string]time.Time),
		now:     time.Now,
	}
}

// Add inserts or overwrites the revocation entry and opportunistically sweeps
// expired entries. Sweeping here rather than on Has keeps lookups cheap;
// growth between Add calls is bounded by logout frequency, not request
// volume.
func (s *MemoryRevocationStore) Add(ctx context.Context, token string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	s.entries[token] = now.Add(ttl)
	for t, expiry := range s.entries {
		if now.After(expiry) {
			delete(s.entries, t)
		}
	}
	return nil
}

// Has reports whether the token is currently revoked. Expired entries are
// purged on lookup and answer false.
func (s *MemoryRevocationStore) Has(ctx context.Context, token string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	expiry, ok := s.entries[token]
	if !ok {
		return false, nil
	}
	if s.now().After(expiry) {
		delete(s.entries, token)
		return false, nil
	}
	return true, nil
}

var _ RevocationStore = (*MemoryRevocationStore)(nil)
