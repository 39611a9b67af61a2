package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// RateLimitService counts hits per key inside a fixed window.
type RateLimitService interface {
	// Hit records one attempt and returns the attempts seen in the current window.
	Hit(ctx context.Context, key string, window time.Duration) (int64, error)
}

type RateLimitConfig struct {
	Enabled  bool
	Attempts int
	Window   time.Duration
}

// redisRateLimitService shares counters between all instances of the service.
type redisRateLimitService struct {
	redisClient *redis.Client
}

func NewRedisRateLimitService(client *redis.Client) RateLimitService {
	return &redisRateLimitService{redisClient: client}
}

func (s *redisRateLimitService) Hit(ctx context.Context, key string, window time.Duration) (int64, error) {
	key = "ratelimit:" + key
	// SET NX opens the window with its expiry in one command, so a counter
	// can never exist without a TTL. The window is anchored at the first hit.
	if err := s.redisClient.SetNX(ctx, key, 0, window).Err(); err != nil {
		return 0, fmt.Errorf("failed to open rate limit window: %w", err)
	}
	count, err := s.redisClient.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to increment rate limit: %w", err)
	}
	return count, nil
}

type memoryWindow struct {
	count   int64
	resetAt time.Time
}

const sweepInterval = time.Minute

// memoryRateLimitService is used when no Redis is configured.
type memoryRateLimitService struct {
	mu        sync.Mutex
	windows   map[string]*memoryWindow
	now       func() time.Time
	nextSweep time.Time
}

func NewMemoryRateLimitService() RateLimitService {
	return &memoryRateLimitService{windows: make(map[string]*memoryWindow), now: time.Now}
}

func (s *memoryRateLimitService) Hit(ctx context.Context, key string, window time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if !now.Before(s.nextSweep) {
		s.sweep(now)
		s.nextSweep = now.Add(sweepInterval)
	}

	w, ok := s.windows[key]
	if !ok || !now.Before(w.resetAt) {
		w = &memoryWindow{resetAt: now.Add(window)}
		s.windows[key] = w
	}
	w.count++
	return w.count, nil
}

// sweep drops closed windows so the map only holds keys seen recently.
func (s *memoryRateLimitService) sweep(now time.Time) {
	for key, w := range s.windows {
		if !now.Before(w.resetAt) {
			delete(s.windows, key)
		}
	}
}

// noopRateLimitService is used when rate limiting is disabled.
type noopRateLimitService struct{}

func NewNoopRateLimitService() RateLimitService {
	return noopRateLimitService{}
}

func (noopRateLimitService) Hit(ctx context.Context, key string, window time.Duration) (int64, error) {
	return 0, nil
}
