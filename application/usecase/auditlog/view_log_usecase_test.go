package auditlog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fixora/accounts/application/port/inbound"
	"github.com/fixora/accounts/application/port/outbound"
	"github.com/fixora/accounts/domain/entity"
	apperror "github.com/fixora/accounts/pkg/error"
)

type memoryAuditRepo struct {
	entries []*entity.AuditLogEntry
	err     error
}

func (r *memoryAuditRepo) Append(ctx context.Context, entry *entity.AuditLogEntry) error {
	if r.err != nil {
		return r.err
	}
	entry.ID = int64(len(r.entries) + 1)
	r.entries = append(r.entries, entry)
	return nil
}

func (r *memoryAuditRepo) Find(ctx context.Context, f outbound.AuditLogFilter) ([]*entity.AuditLogEntry, error) {
	if r.err != nil {
		return nil, r.err
	}
	var out []*entity.AuditLogEntry
	for _, e := range r.entries {
		if f.Action != nil && e.Action != *f.Action {
			continue
		}
		if f.EntityID != nil && e.EntityID != *f.EntityID {
			continue
		}
		if f.ByUser != nil && e.ByUser != *f.ByUser {
			continue
		}
		if f.CreatedAt != nil && e.CreatedAt.Format(time.DateOnly) != f.CreatedAt.Format(time.DateOnly) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

// usersByID is a read-only UserRepository; only FindByID is used by the presenter.
type usersByID struct {
	outbound.UserRepository
	users map[int64]*entity.User
	err   error
}

func (u usersByID) FindByID(ctx context.Context, id int64) (*entity.User, error) {
	if u.err != nil {
		return nil, u.err
	}
	if user, ok := u.users[id]; ok {
		return user, nil
	}
	return nil, outbound.ErrUserNotFound
}

func seededRepo() *memoryAuditRepo {
	day1 := time.Date(2020, time.September, 21, 9, 0, 0, 0, time.UTC)
	day2 := time.Date(2020, time.October, 2, 9, 0, 0, 0, time.UTC)
	repo := &memoryAuditRepo{}
	for _, e := range []*entity.AuditLogEntry{
		{Action: entity.ActionCreate, EntityID: 1, ByUser: "1", NewValues: []byte(`{"id":1}`), CreatedAt: day1},
		{Action: entity.ActionCreate, EntityID: 2, ByUser: "1", NewValues: []byte(`{"id":2}`), CreatedAt: day1},
		{Action: entity.ActionUpdate, EntityID: 2, ByUser: "2", OriginalValues: []byte(`{"id":2}`), NewValues: []byte(`{"id":2}`), CreatedAt: day2},
		{Action: entity.ActionDelete, EntityID: 2, ByUser: "1", OriginalValues: []byte(`{"id":2}`), CreatedAt: day2},
	} {
		_ = repo.Append(context.Background(), e)
	}
	return repo
}

func strPtr(s string) *string { return &s }
func int64Ptr(n int64) *int64  { return &n }

func TestView_FiltersAreConjunctive(t *testing.T) {
	users := usersByID{users: map[int64]*entity.User{1: {ID: 1, Name: "Admin"}}}
	uc := NewViewLogUseCase(seededRepo(), users)
	ctx := context.Background()

	all, err := uc.View(ctx, inbound.AuditLogQuery{})
	require.NoError(t, err)
	assert.Len(t, all, 4)

	views, err := uc.View(ctx, inbound.AuditLogQuery{EntityID: int64Ptr(2), ByUser: strPtr("1")})
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, "create", views[0].Action)
	assert.Equal(t, "delete", views[1].Action)

	day := time.Date(2020, time.October, 2, 0, 0, 0, 0, time.UTC)
	views, err = uc.View(ctx, inbound.AuditLogQuery{Action: strPtr("update"), CreatedAt: &day})
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, int64(3), views[0].ID)
}

func TestView_RendersView(t *testing.T) {
	users := usersByID{users: map[int64]*entity.User{1: {ID: 1, Name: "Admin"}}}
	uc := NewViewLogUseCase(seededRepo(), users)

	views, err := uc.View(context.Background(), inbound.AuditLogQuery{EntityID: int64Ptr(1)})
	require.NoError(t, err)
	require.Len(t, views, 1)

	v := views[0]
	assert.Equal(t, int64(1), v.ManipulatedUser)
	assert.Nil(t, v.OriginalValues)
	assert.JSONEq(t, `{"id":1}`, string(v.NewValues))
	assert.Equal(t, inbound.ActingUser{ID: "1", Name: "Admin"}, v.ActionTakenByUser)
	assert.Equal(t, "21st September 2020", v.ActionTakenAt)

	// user 2 is not in the directory
	views, err = uc.View(context.Background(), inbound.AuditLogQuery{Action: strPtr("update")})
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, DeletedUserName, views[0].ActionTakenByUser.Name)
	assert.Equal(t, "2nd October 2020", views[0].ActionTakenAt)
}

func TestView_NotFound(t *testing.T) {
	uc := NewViewLogUseCase(seededRepo(), usersByID{})
	ctx := context.Background()

	_, err := uc.View(ctx, inbound.AuditLogQuery{EntityID: int64Ptr(42)})
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))

	_, err = uc.View(ctx, inbound.AuditLogQuery{Action: strPtr("restore")})
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))

	_, err = NewViewLogUseCase(&memoryAuditRepo{}, usersByID{}).View(ctx, inbound.AuditLogQuery{})
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}

func TestView_PropagatesFailures(t *testing.T) {
	boom := errors.New("db down")

	_, err := NewViewLogUseCase(&memoryAuditRepo{err: boom}, usersByID{}).View(context.Background(), inbound.AuditLogQuery{})
	assert.ErrorIs(t, err, boom)

	_, err = NewViewLogUseCase(seededRepo(), usersByID{err: boom}).View(context.Background(), inbound.AuditLogQuery{})
	assert.ErrorIs(t, err, boom)
}

func TestPresenter_NonNumericActor(t *testing.T) {
	p := NewPresenter(usersByID{})
	view, err := p.Present(context.Background(), &entity.AuditLogEntry{ByUser: "system", CreatedAt: time.Now()})
	require.NoError(t, err)
	assert.Equal(t, DeletedUserName, view.ActionTakenByUser.Name)
}

func TestFormatDay(t *testing.T) {
	tests := map[int]string{
		1:  "1st",
		2:  "2nd",
		3:  "3rd",
		4:  "4th",
		11: "11th",
		12: "12th",
		13: "13th",
		21: "21st",
		22: "22nd",
		23: "23rd",
		30: "30th",
		31: "31st",
	}
	for day, want := range tests {
		d := time.Date(2021, time.January, day, 0, 0, 0, 0, time.UTC)
		assert.Equal(t, want+" January 2021", FormatDay(d))
	}
	assert.Equal(t, "111th", Ordinal(111))
	assert.Equal(t, "101st", Ordinal(101))
}
