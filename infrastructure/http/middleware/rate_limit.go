package middleware

import (
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/fixora/accounts/infrastructure/http/response"
	"github.com/fixora/accounts/infrastructure/service/logger"
	"github.com/fixora/accounts/infrastructure/service/ratelimit"
)

type RateLimitMiddleware struct {
	rateLimitService ratelimit.RateLimitService
	config           ratelimit.RateLimitConfig
	logger           logger.Logger
}

func NewRateLimitMiddleware(rateLimitService ratelimit.RateLimitService, config ratelimit.RateLimitConfig, logger logger.Logger) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		rateLimitService: rateLimitService,
		config:           config,
		logger:           logger,
	}
}

// RateLimit throttles the wrapped credential endpoint per client IP. Counter
// failures let the request through.
func (m *RateLimitMiddleware) RateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !m.config.Enabled || m.rateLimitService == nil {
			next.ServeHTTP(w, r)
			return
		}

		ctx := r.Context()
		clientIP := getClientIP(r)
		key := fmt.Sprintf("%s:ip:%s", strings.Trim(r.URL.Path, "/"), clientIP)

		attempts, err := m.rateLimitService.Hit(ctx, key, m.config.Window)
		if err != nil {
			m.logger.Error(ctx, "Failed to check rate limit", err, map[string]interface{}{
				"ip":  clientIP,
				"key": key,
			})
			next.ServeHTTP(w, r)
			return
		}

		if attempts > int64(m.config.Attempts) {
			logger.LogSecurityEvent(ctx, m.logger, "rate_limit_exceeded", "medium", map[string]interface{}{
				"ip":        clientIP,
				"path":      r.URL.Path,
				"attempts":  attempts,
				"userAgent": r.UserAgent(),
			})
			w.Header().Set("Retry-After", strconv.Itoa(int(m.config.Window.Seconds())))
			response.TooManyRequests(w, "Too many requests. Please try again later.")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		// the first hop is the client
		return strings.TrimSpace(strings.Split(xff, ",")[0])
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
