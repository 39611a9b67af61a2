package outbound

import "time"

type TokenClaims struct {
	UserID    int64
	TokenID   string
	ExpiresAt time.Time
}

type TokenService interface {
	GenerateAccessToken(userID int64) (token string, claims *TokenClaims, err error)
	ValidateAccessToken(token string) (*TokenClaims, error)
	AccessTokenTTL() time.Duration
}
