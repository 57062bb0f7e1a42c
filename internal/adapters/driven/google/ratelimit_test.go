package google

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiter_AllowWithinBurst(t *testing.T) {
	limiter := NewRateLimiterWithConfig(RateLimitConfig{
		RequestsPerSecond: 100,
		BurstSize:         5,
	})

	for i := 0; i < 5; i++ {
		assert.True(t, limiter.Allow(), "request %d should be allowed", i)
	}
	assert.False(t, limiter.Allow())
}

func TestRateLimiter_BackoffBlocksAllow(t *testing.T) {
	limiter := NewRateLimiterWithConfig(RateLimitConfig{
		RequestsPerSecond: 100,
		BurstSize:         10,
	})

	limiter.RecordRateLimitError(60)
	assert.False(t, limiter.Allow())
}

func TestRateLimiter_WaitHonorsContext(t *testing.T) {
	limiter := NewRateLimiterWithConfig(RateLimitConfig{
		RequestsPerSecond: 100,
		BurstSize:         10,
	})
	limiter.RecordRateLimitError(60)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := limiter.Wait(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRateLimiter_WaitPassesWithoutBackoff(t *testing.T) {
	limiter := NewRateLimiter()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	require.NoError(t, limiter.Wait(ctx))
}

func TestRecordRateLimitError_DefaultBackoff(t *testing.T) {
	limiter := NewRateLimiter()
	limiter.RecordRateLimitError(0)

	// Zero or negative Retry-After falls back to a 60s window.
	assert.False(t, limiter.Allow())
}
