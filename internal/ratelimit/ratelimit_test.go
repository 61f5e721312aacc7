package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/smallbiznis/washdesk/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoginLimiterDisabledWithoutRedis(t *testing.T) {
	limiter := NewLoginLimiter(config.Config{}, nil, zap.NewNop())
	assert.Nil(t, limiter)
	assert.False(t, limiter.Enabled())

	result, err := limiter.Allow(context.Background(), "10.0.0.1", "a@b.com")
	require.NoError(t, err)
	assert.True(t, result.Allowed)
}

func TestLockerDisabledWithoutRedis(t *testing.T) {
	locker := NewLocker(nil)
	_, ok, err := locker.TryLock(context.Background(), "k", time.Second)
	assert.False(t, ok)
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.NoError(t, locker.Release(context.Background(), "k", "token"))
}

func TestLoginKeyNormalizesEmail(t *testing.T) {
	assert.Equal(t, "washdesk:login:1.2.3.4:owner@shop.com", LoginKey(" 1.2.3.4 ", " Owner@Shop.com "))
}

func TestBucketMath(t *testing.T) {
	assert.Equal(t, 2*time.Second, bucketTTL(5, 5))
	assert.Equal(t, 3*time.Second, retryAfter(0.25, 0.25))
	assert.Equal(t, time.Duration(0), retryAfter(1.5, 1))
	assert.Equal(t, 0.5, toFloat("0.5"))
	assert.Equal(t, int64(1), toInt(int64(1)))
}
