package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/fixora/accounts/application/port/inbound"
	"github.com/fixora/accounts/application/port/outbound"
	"github.com/fixora/accounts/domain/entity"
	"github.com/fixora/accounts/infrastructure/http/response"
	"github.com/fixora/accounts/infrastructure/service/logger"
)

type principalKey struct{}

// UserLookup is the part of outbound.UserRepository the middleware needs.
type UserLookup interface {
	FindByID(ctx context.Context, id int64) (*entity.User, error)
}

type AuthMiddleware struct {
	tokenService outbound.TokenService
	revocations  outbound.TokenRevocationStore
	users        UserLookup
	logger       logger.Logger
}

func NewAuthMiddleware(tokenService outbound.TokenService, revocations outbound.TokenRevocationStore, users UserLookup, logger logger.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		tokenService: tokenService,
		revocations:  revocations,
		users:        users,
		logger:       logger,
	}
}

func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			response.Unauthorized(w, "Authorization header required")
			return
		}

		principal, err := m.authenticate(r.Context(), token)
		if err != nil {
			logger.LogSecurityEvent(r.Context(), m.logger, "invalid_token", "low", map[string]interface{}{
				"path":  r.URL.Path,
				"error": err.Error(),
			})
			response.Unauthorized(w, "Invalid or expired token")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
	})
}

// OptionalAuth attaches the caller when a valid token is sent and otherwise
// lets the request through anonymously.
func (m *AuthMiddleware) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		principal, err := m.authenticate(r.Context(), token)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
	})
}

func (m *AuthMiddleware) authenticate(ctx context.Context, token string) (*inbound.Principal, error) {
	claims, err := m.tokenService.ValidateAccessToken(token)
	if err != nil {
		return nil, err
	}

	revoked, err := m.revocations.IsRevoked(ctx, claims.TokenID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, errTokenRevoked
	}

	// a token outlives neither its user nor the user's active flag
	user, err := m.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, outbound.ErrUserNotFound) {
			return nil, errUserGone
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, errUserInactive
	}

	return &inbound.Principal{
		UserID:    claims.UserID,
		TokenID:   claims.TokenID,
		ExpiresAt: claims.ExpiresAt,
	}, nil
}

var (
	errTokenRevoked = errors.New("token revoked")
	errUserGone     = errors.New("token user no longer exists")
	errUserInactive = errors.New("token user is inactive")
)

func bearerToken(r *http.Request) (string, bool) {
	parts := strings.Fields(r.Header.Get("Authorization"))
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

func WithPrincipal(ctx context.Context, p *inbound.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// GetPrincipal returns the authenticated caller, or nil for anonymous requests.
func GetPrincipal(ctx context.Context) *inbound.Principal {
	if p, ok := ctx.Value(principalKey{}).(*inbound.Principal); ok {
		return p
	}
	return nil
}
