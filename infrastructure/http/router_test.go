package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fixora/accounts/application/event"
	"github.com/fixora/accounts/application/port/outbound"
	"github.com/fixora/accounts/application/usecase/auditlog"
	"github.com/fixora/accounts/application/usecase/user"
	"github.com/fixora/accounts/domain/entity"
	"github.com/fixora/accounts/infrastructure/http/handler"
	"github.com/fixora/accounts/infrastructure/http/middleware"
	"github.com/fixora/accounts/infrastructure/service/logger"
	"github.com/fixora/accounts/infrastructure/service/metrics"
	"github.com/fixora/accounts/infrastructure/service/ratelimit"
	"github.com/fixora/accounts/infrastructure/service/revocation"
)

// The stores below are minimal single-goroutine fakes for routing tests.

type memUsers struct {
	users map[int64]*entity.User
}

func (m *memUsers) FindByID(ctx context.Context, id int64) (*entity.User, error) {
	if u, ok := m.users[id]; ok && !u.IsDeleted() {
		cp := *u
		return &cp, nil
	}
	return nil, outbound.ErrUserNotFound
}

func (m *memUsers) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	for _, u := range m.users {
		if u.Email == email && !u.IsDeleted() {
			cp := *u
			return &cp, nil
		}
	}
	return nil, outbound.ErrUserNotFound
}

func (m *memUsers) Create(ctx context.Context, u *entity.User) error {
	u.ID = int64(len(m.users) + 1)
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *memUsers) Update(ctx context.Context, u *entity.User) error {
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *memUsers) SoftDelete(ctx context.Context, id int64) error {
	now := time.Now()
	m.users[id].DeletedAt = &now
	return nil
}

func (m *memUsers) ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error) {
	for id, u := range m.users {
		if id != excludeID && u.Email == email && !u.IsDeleted() {
			return true, nil
		}
	}
	return false, nil
}

type memAudit struct {
	entries []*entity.AuditLogEntry
}

func (m *memAudit) Append(ctx context.Context, e *entity.AuditLogEntry) error {
	e.ID = int64(len(m.entries) + 1)
	m.entries = append(m.entries, e)
	return nil
}

func (m *memAudit) Find(ctx context.Context, f outbound.AuditLogFilter) ([]*entity.AuditLogEntry, error) {
	var out []*entity.AuditLogEntry
	for _, e := range m.entries {
		if f.EntityID != nil && e.EntityID != *f.EntityID {
			continue
		}
		if f.Action != nil && e.Action != *f.Action {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

type directTx struct{}

func (directTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error { return fn(ctx) }

type plainPasswords struct{}

func (plainPasswords) HashPassword(p string) (string, error) { return "h:" + p, nil }
func (plainPasswords) VerifyPassword(p, h string) (bool, error) { return h == "h:"+p, nil }

// tokens are "tok-<n>" for the n-th login; the jti equals the token.
type seqTokens struct {
	issued map[string]int64
}

func (s *seqTokens) GenerateAccessToken(userID int64) (string, *outbound.TokenClaims, error) {
	tok := "tok-" + string(rune('a'+len(s.issued)))
	s.issued[tok] = userID
	return tok, &outbound.TokenClaims{UserID: userID, TokenID: tok, ExpiresAt: time.Now().Add(time.Hour)}, nil
}

func (s *seqTokens) ValidateAccessToken(token string) (*outbound.TokenClaims, error) {
	id, ok := s.issued[token]
	if !ok {
		return nil, errors.New("invalid token")
	}
	return &outbound.TokenClaims{UserID: id, TokenID: token, ExpiresAt: time.Now().Add(time.Hour)}, nil
}

func (s *seqTokens) AccessTokenTTL() time.Duration { return time.Hour }

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	log := logger.NewNopLogger()
	users := &memUsers{users: map[int64]*entity.User{}}
	audit := &memAudit{}
	tokens := &seqTokens{issued: map[string]int64{}}
	revocations := revocation.NewMemoryStore()
	m := metrics.New()

	bus := event.NewBus()
	bus.Subscribe(auditlog.NewAuditLogger(audit, m, log))

	userUseCase := user.NewUserUseCase(user.Dependencies{
		UserRepo:        users,
		PasswordService: plainPasswords{},
		TokenService:    tokens,
		Revocations:     revocations,
		Transactor:      directTx{},
		Publisher:       bus,
		Logger:          log,
	})

	return NewRouter(RouterConfig{
		UserHandler:     handler.NewUserHandler(userUseCase),
		AuditLogHandler: handler.NewAuditLogHandler(auditlog.NewViewLogUseCase(audit, users)),
		HealthHandler:   handler.NewHealthHandler(nil),
		Auth:            middleware.NewAuthMiddleware(tokens, revocations, users, log),
		RateLimit: middleware.NewRateLimitMiddleware(ratelimit.NewMemoryRateLimitService(),
			ratelimit.RateLimitConfig{Enabled: true, Attempts: 100, Window: time.Minute}, log),
		Observer:       m,
		MetricsHandler: m.Handler(),
		Logger:         log,
	})
}

func call(h http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRouter_UserLifecycle(t *testing.T) {
	h := newTestRouter(t)

	rec := call(h, http.MethodPost, "/register", "", `{"name":"Alice","email":"alice@example.com","password":"pw","password_confirmation":"pw"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = call(h, http.MethodPost, "/login", "", `{"email":"alice@example.com","password":"pw"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	token := "tok-a"

	assert.Equal(t, http.StatusUnauthorized, call(h, http.MethodGet, "/userInfo", "", "").Code)
	rec = call(h, http.MethodGet, "/userInfo", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"email":"alice@example.com"`)

	rec = call(h, http.MethodPost, "/update", token, `{"name":"Alice B","email":"alice@example.com"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = call(h, http.MethodGet, "/viewUserManipulationLog?entity_id=1", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"name":"Alice B"`)

	rec = call(h, http.MethodDelete, "/delete", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"user is deleted"}`, rec.Body.String())

	// the token died with the account
	assert.Equal(t, http.StatusUnauthorized, call(h, http.MethodGet, "/viewUserManipulationLog", token, "").Code)

	mrec := call(h, http.MethodGet, "/metrics", "", "")
	assert.Contains(t, mrec.Body.String(), `accounts_audit_log_entries_total{action="delete"} 1`)
	assert.Contains(t, mrec.Body.String(), `route="/delete"`)
}

func TestRouter_DeleteByIDAndLog(t *testing.T) {
	h := newTestRouter(t)

	require.Equal(t, http.StatusCreated, call(h, http.MethodPost, "/register", "", `{"name":"Admin","email":"admin@example.com","password":"pw","password_confirmation":"pw"}`).Code)
	require.Equal(t, http.StatusCreated, call(h, http.MethodPost, "/register", "", `{"name":"Bob","email":"bob@example.com","password":"pw","password_confirmation":"pw"}`).Code)
	require.Equal(t, http.StatusOK, call(h, http.MethodPost, "/login", "", `{"email":"admin@example.com","password":"pw"}`).Code)
	token := "tok-a"

	assert.Equal(t, http.StatusNotFound, call(h, http.MethodDelete, "/delete/99", token, "").Code)
	assert.Equal(t, http.StatusOK, call(h, http.MethodDelete, "/delete/2", token, "").Code)

	rec := call(h, http.MethodGet, "/viewUserManipulationLog?action=delete", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"action_taken_by_user":{"id":"1","name":"Admin"}`)
	assert.Contains(t, rec.Body.String(), `"new_values":null`)

	assert.Equal(t, http.StatusNotFound, call(h, http.MethodGet, "/viewUserManipulationLog?action=restore", token, "").Code)
}

func TestRouter_DeletedUserTokenIsRejected(t *testing.T) {
	h := newTestRouter(t)

	require.Equal(t, http.StatusCreated, call(h, http.MethodPost, "/register", "", `{"name":"Admin","email":"admin@example.com","password":"pw","password_confirmation":"pw"}`).Code)
	require.Equal(t, http.StatusCreated, call(h, http.MethodPost, "/register", "", `{"name":"Bob","email":"bob@example.com","password":"pw","password_confirmation":"pw"}`).Code)
	require.Equal(t, http.StatusOK, call(h, http.MethodPost, "/login", "", `{"email":"admin@example.com","password":"pw"}`).Code)
	require.Equal(t, http.StatusOK, call(h, http.MethodPost, "/login", "", `{"email":"bob@example.com","password":"pw"}`).Code)
	admin, bob := "tok-a", "tok-b"

	require.Equal(t, http.StatusOK, call(h, http.MethodDelete, "/delete/2", admin, "").Code)

	routes := []struct{ method, path, body string }{
		{http.MethodGet, "/userInfo", ""},
		{http.MethodPost, "/update", `{"name":"Bob","email":"bob@example.com"}`},
		{http.MethodPost, "/logout", ""},
		{http.MethodDelete, "/delete", ""},
		{http.MethodDelete, "/delete/1", ""},
		{http.MethodGet, "/viewUserManipulationLog", ""},
	}
	for _, r := range routes {
		assert.Equal(t, http.StatusUnauthorized, call(h, r.method, r.path, bob, r.body).Code, r.method+" "+r.path)
	}

	// registering with a dead token is anonymous
	require.Equal(t, http.StatusCreated, call(h, http.MethodPost, "/register", bob, `{"name":"Eve","email":"eve@example.com","password":"pw","password_confirmation":"pw"}`).Code)

	rec := call(h, http.MethodGet, "/userInfo", admin, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"email":"admin@example.com"`)

	rec = call(h, http.MethodGet, "/viewUserManipulationLog?entity_id=3", admin, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"action_taken_by_user":{"id":"3","name":"Eve"}`)
}

func TestRouter_MethodsAndHealth(t *testing.T) {
	h := newTestRouter(t)

	assert.Equal(t, http.StatusMethodNotAllowed, call(h, http.MethodGet, "/register", "", "").Code)
	assert.Equal(t, http.StatusNotFound, call(h, http.MethodDelete, "/delete/abc", "token", "").Code)

	rec := call(h, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(middleware.CorrelationIDHeader))
}
