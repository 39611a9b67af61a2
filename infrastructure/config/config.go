package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL    string
	AutoMigrate    bool
	JWTSecret      string
	JWTAlgorithm   string
	AccessTokenTTL time.Duration
	BcryptCost     int
	RedisURL       string

	ServerPort  string
	ServerHost  string
	Environment string

	LogLevel               string
	LogFormat              string
	LogCorrelationIDHeader string
	LogEnableRequestLog    bool

	RateLimitEnabled  bool
	RateLimitAttempts int
	RateLimitWindow   time.Duration

	CORSEnabled          bool
	CORSAllowedOrigins   []string
	CORSAllowCredentials bool
}

var (
	ErrMissingDatabaseURL  = errors.New("DATABASE_URL is required")
	ErrMissingJWTSecret    = errors.New("JWT_SECRET is required")
	ErrInvalidTokenTTL     = errors.New("invalid token TTL format")
	ErrInvalidJWTAlgorithm = errors.New("invalid JWT algorithm")
	ErrInvalidDuration     = errors.New("invalid duration")
)

// Load reads .env when present, then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds the config from the process environment only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		AutoMigrate:  getEnvOrDefaultBool("AUTO_MIGRATE", false),
		JWTSecret:    os.Getenv("JWT_SECRET"),
		JWTAlgorithm: getEnvOrDefault("JWT_ALG", "HS256"),
		BcryptCost:   getEnvOrDefaultInt("BCRYPT_COST", 0),
		RedisURL:     os.Getenv("REDIS_URL"),

		ServerPort:  getEnvOrDefault("SERVER_PORT", "8080"),
		ServerHost:  getEnvOrDefault("SERVER_HOST", "localhost"),
		Environment: getEnvOrDefault("ENV", "development"),

		LogLevel:               getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:              getEnvOrDefault("LOG_FORMAT", "json"),
		LogCorrelationIDHeader: getEnvOrDefault("LOG_CORRELATION_ID_HEADER", "X-Correlation-ID"),
		LogEnableRequestLog:    getEnvOrDefaultBool("LOG_ENABLE_REQUEST_LOG", true),

		RateLimitEnabled:  getEnvOrDefaultBool("RATE_LIMIT_ENABLED", true),
		RateLimitAttempts: getEnvOrDefaultInt("RATE_LIMIT_ATTEMPTS", 10),

		CORSEnabled:          getEnvOrDefaultBool("CORS_ENABLED", true),
		CORSAllowCredentials: getEnvOrDefaultBool("CORS_ALLOW_CREDENTIALS", true),
		CORSAllowedOrigins:   parseAllowedOrigins(os.Getenv("CORS_ALLOWED_ORIGINS")),
	}

	if cfg.DatabaseURL == "" {
		return nil, ErrMissingDatabaseURL
	}
	// only the HMAC variant is issued
	if cfg.JWTAlgorithm != "HS256" {
		return nil, ErrInvalidJWTAlgorithm
	}
	if cfg.JWTSecret == "" {
		return nil, ErrMissingJWTSecret
	}

	accessTokenTTL, err := parseSeconds(getEnvOrDefault("JWT_ACCESS_TOKEN_TTL", "3600"))
	if err != nil || accessTokenTTL <= 0 {
		return nil, ErrInvalidTokenTTL
	}
	cfg.AccessTokenTTL = accessTokenTTL

	window, err := parseSeconds(getEnvOrDefault("RATE_LIMIT_WINDOW", "900"))
	if err != nil {
		return nil, ErrInvalidDuration
	}
	cfg.RateLimitWindow = window

	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) Addr() string {
	return c.ServerHost + ":" + c.ServerPort
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvOrDefaultBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return defaultValue
		}
		return parsed
	}
	return defaultValue
}

func getEnvOrDefaultInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return defaultValue
		}
		return parsed
	}
	return defaultValue
}

func parseSeconds(value string) (time.Duration, error) {
	seconds, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}
	return time.Duration(seconds) * time.Second, nil
}

func parseAllowedOrigins(value string) []string {
	if value == "" {
		return []string{}
	}
	parts := strings.Split(value, ",")
	res := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			res = append(res, trimmed)
		}
	}
	return res
}
