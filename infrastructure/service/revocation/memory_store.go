package revocation

import (
	"context"
	"sync"
	"time"

	"github.com/fixora/accounts/application/port/outbound"
)

// MemoryStore is the single-process fallback used when no Redis is configured.
type MemoryStore struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{revoked: make(map[string]time.Time), now: time.Now}
}

var _ outbound.TokenRevocationStore = (*MemoryStore)(nil)

func (s *MemoryStore) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweep()
	if expiresAt.After(s.now()) {
		s.revoked[tokenID] = expiresAt
	}
	return nil
}

func (s *MemoryStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	expiresAt, ok := s.revoked[tokenID]
	return ok && expiresAt.After(s.now()), nil
}

func (s *MemoryStore) sweep() {
	now := s.now()
	for id, exp := range s.revoked {
		if !exp.After(now) {
			delete(s.revoked, id)
		}
	}
}
