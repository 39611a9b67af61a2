package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRateLimitService(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	svc := NewMemoryRateLimitService().(*memoryRateLimitService)
	svc.now = func() time.Time { return now }

	for want := int64(1); want <= 3; want++ {
		n, err := svc.Hit(ctx, "login:ip:1.2.3.4", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, want, n)
	}

	n, err := svc.Hit(ctx, "login:ip:5.6.7.8", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	now = now.Add(time.Minute)
	n, err = svc.Hit(ctx, "login:ip:1.2.3.4", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestMemoryRateLimitService_DropsClosedWindows(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	svc := NewMemoryRateLimitService().(*memoryRateLimitService)
	svc.now = func() time.Time { return now }

	for _, ip := range []string{"1.1.1.1", "2.2.2.2", "3.3.3.3"} {
		_, err := svc.Hit(ctx, "register:ip:"+ip, time.Second)
		require.NoError(t, err)
	}
	assert.Len(t, svc.windows, 3)

	now = now.Add(sweepInterval)
	n, err := svc.Hit(ctx, "register:ip:4.4.4.4", time.Second)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Len(t, svc.windows, 1)
	assert.Contains(t, svc.windows, "register:ip:4.4.4.4")
}

func TestNoopRateLimitService(t *testing.T) {
	n, err := NewNoopRateLimitService().Hit(context.Background(), "k", time.Second)
	require.NoError(t, err)
	assert.Zero(t, n)
}
