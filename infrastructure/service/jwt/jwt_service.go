package jwt

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/fixora/accounts/application/port/outbound"
	"github.com/fixora/accounts/infrastructure/config"
)

const (
	issuer          = "accounts"
	accessTokenType = "access"
)

type JWTService struct {
	hmacSecret []byte
	ttl        time.Duration
	now        func() time.Time
}

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

type accessClaims struct {
	Type string `json:"type"`
	jwt.RegisteredClaims
}

func NewJWTService(cfg *config.Config) (*JWTService, error) {
	if cfg.JWTAlgorithm != "HS256" {
		return nil, fmt.Errorf("unsupported JWT algorithm: %s", cfg.JWTAlgorithm)
	}
	if cfg.JWTSecret == "" {
		return nil, config.ErrMissingJWTSecret
	}
	return &JWTService{
		hmacSecret: []byte(cfg.JWTSecret),
		ttl:        cfg.AccessTokenTTL,
		now:        time.Now,
	}, nil
}

func (s *JWTService) AccessTokenTTL() time.Duration {
	return s.ttl
}

// GenerateAccessToken issues an HS256 token whose jti identifies it for
// revocation on logout.
func (s *JWTService) GenerateAccessToken(userID int64) (string, *outbound.TokenClaims, error) {
	now := s.now()
	expiresAt := now.Add(s.ttl)
	tokenID := uuid.NewString()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims{
		Type: accessTokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        tokenID,
			Subject:   strconv.FormatInt(userID, 10),
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	})

	tokenString, err := token.SignedString(s.hmacSecret)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	return tokenString, &outbound.TokenClaims{
		UserID:    userID,
		TokenID:   tokenID,
		ExpiresAt: time.Unix(expiresAt.Unix(), 0),
	}, nil
}

func (s *JWTService) ValidateAccessToken(tokenString string) (*outbound.TokenClaims, error) {
	var claims accessClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.hmacSecret, nil
	},
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, s.handleValidationError(err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.Type != accessTokenType || claims.ID == "" {
		return nil, ErrInvalidToken
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return nil, ErrInvalidToken
	}

	return &outbound.TokenClaims{
		UserID:    userID,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

func (s *JWTService) handleValidationError(err error) error {
	if errors.Is(err, jwt.ErrTokenExpired) {
		return ErrTokenExpired
	}
	return ErrInvalidToken
}
