package revocation

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
)

// MemoryStore keeps revocations in process. Suitable for a single server.
type MemoryStore struct {
	entries *cache.Cache
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: cache.New(cache.NoExpiration, 10*time.Minute)}
}

func (s *MemoryStore) Revoke(_ context.Context, tokenID string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil // already unusable
	}
	s.entries.Set(tokenID, struct{}{}, ttl)
	return nil
}

func (s *MemoryStore) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	_, found := s.entries.Get(tokenID)
	return found, nil
}

func (s *MemoryStore) Close() error {
	s.entries.Flush()
	return nil
}
