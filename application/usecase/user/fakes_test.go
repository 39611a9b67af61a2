package user

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/fixora/accounts/application/port/outbound"
	"github.com/fixora/accounts/domain/entity"
)

type fakeUserRepository struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]entity.User
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{users: make(map[int64]entity.User)}
}

func (r *fakeUserRepository) FindByID(ctx context.Context, id int64) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok || u.IsDeleted() {
		return nil, outbound.ErrUserNotFound
	}
	return &u, nil
}

func (r *fakeUserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email && !u.IsDeleted() {
			found := u
			return &found, nil
		}
	}
	return nil, outbound.ErrUserNotFound
}

func (r *fakeUserRepository) Create(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email && !u.IsDeleted() {
			return outbound.ErrUserAlreadyExists
		}
	}
	r.nextID++
	user.ID = r.nextID
	r.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepository) Update(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return outbound.ErrUserNotFound
	}
	r.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepository) SoftDelete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok || u.IsDeleted() {
		return outbound.ErrUserNotFound
	}
	now := entity.Now()
	u.DeletedAt = &now
	r.users[id] = u
	return nil
}

func (r *fakeUserRepository) ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, u := range r.users {
		if id != excludeID && u.Email == email && !u.IsDeleted() {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepository) state() (map[int64]entity.User, int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := make(map[int64]entity.User, len(r.users))
	for k, v := range r.users {
		cp[k] = v
	}
	return cp, r.nextID
}

func (r *fakeUserRepository) restore(users map[int64]entity.User, nextID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users = users
	r.nextID = nextID
}

type fakeAuditLogRepository struct {
	mu        sync.Mutex
	entries   []*entity.AuditLogEntry
	appendErr error
}

func (r *fakeAuditLogRepository) Append(ctx context.Context, entry *entity.AuditLogEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.appendErr != nil {
		return r.appendErr
	}
	entry.ID = int64(len(r.entries) + 1)
	r.entries = append(r.entries, entry)
	return nil
}

func (r *fakeAuditLogRepository) Find(ctx context.Context, filter outbound.AuditLogFilter) ([]*entity.AuditLogEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.AuditLogEntry
	for _, e := range r.entries {
		if filter.Action != nil && e.Action != *filter.Action {
			continue
		}
		if filter.EntityID != nil && e.EntityID != *filter.EntityID {
			continue
		}
		if filter.ByUser != nil && e.ByUser != *filter.ByUser {
			continue
		}
		if filter.CreatedAt != nil && e.CreatedAt.Format("2006-01-02") != filter.CreatedAt.Format("2006-01-02") {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (r *fakeAuditLogRepository) all() []*entity.AuditLogEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*entity.AuditLogEntry(nil), r.entries...)
}

// fakeTransactor restores the fake repositories when fn fails.
type fakeTransactor struct {
	users *fakeUserRepository
	audit *fakeAuditLogRepository
}

func (t *fakeTransactor) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	users, nextID := t.users.state()
	entries := t.audit.all()
	if err := fn(ctx); err != nil {
		t.users.restore(users, nextID)
		t.audit.mu.Lock()
		t.audit.entries = entries
		t.audit.mu.Unlock()
		return err
	}
	return nil
}

type fakePasswordService struct{}

func (fakePasswordService) HashPassword(password string) (string, error) {
	return "hashed:" + password, nil
}

func (fakePasswordService) VerifyPassword(password, hash string) (bool, error) {
	return hash == "hashed:"+password, nil
}

type fakeTokenService struct {
	ttl    time.Duration
	issued int
}

func (s *fakeTokenService) GenerateAccessToken(userID int64) (string, *outbound.TokenClaims, error) {
	s.issued++
	claims := &outbound.TokenClaims{UserID: userID, TokenID: "jti", ExpiresAt: time.Now().Add(s.ttl)}
	return "token", claims, nil
}

func (s *fakeTokenService) ValidateAccessToken(token string) (*outbound.TokenClaims, error) {
	return nil, errors.New("not implemented")
}

func (s *fakeTokenService) AccessTokenTTL() time.Duration {
	return s.ttl
}

type fakeRevocationStore struct {
	mu      sync.Mutex
	revoked map[string]time.Time
}

func newFakeRevocationStore() *fakeRevocationStore {
	return &fakeRevocationStore{revoked: make(map[string]time.Time)}
}

func (s *fakeRevocationStore) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked[tokenID] = expiresAt
	return nil
}

func (s *fakeRevocationStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.revoked[tokenID]
	return ok, nil
}

type fakeMetrics struct {
	mu      sync.Mutex
	written map[string]int
	failed  map[string]int
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{written: map[string]int{}, failed: map[string]int{}}
}

func (m *fakeMetrics) AuditEntryWritten(action string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.written[action]++
}

func (m *fakeMetrics) AuditEntryFailed(action string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failed[action]++
}
