package ratelimit

import (
	"context"
	"fmt"
	"strings"

	redis "github.com/redis/go-redis/v9"
	"github.com/smallbiznis/washdesk/internal/config"
	"go.uber.org/zap"
)

const keyLogin = "washdesk:login:%s:%s"

// LoginLimiter throttles POST /auth/login per client IP and email.
// A nil limiter allows everything.
type LoginLimiter struct {
	bucket *TokenBucket
	rate   float64
	burst  int
	log    *zap.Logger
}

func NewLoginLimiter(cfg config.Config, client redis.UniversalClient, log *zap.Logger) *LoginLimiter {
	if client == nil {
		return nil
	}
	perMinute := cfg.Auth.LoginRatePerMinute
	if perMinute <= 0 {
		perMinute = 10
	}
	burst := cfg.Auth.LoginBurst
	if burst <= 0 {
		burst = 5
	}
	return &LoginLimiter{
		bucket: NewTokenBucket(client),
		rate:   perMinute / 60,
		burst:  burst,
		log:    log.Named("ratelimit.login"),
	}
}

func (l *LoginLimiter) Enabled() bool {
	return l != nil && l.bucket != nil
}

// Allow fails open when redis is unreachable; a broken limiter must not lock
// everyone out of the shop.
func (l *LoginLimiter) Allow(ctx context.Context, ip, email string) (Result, error) {
	if !l.Enabled() {
		return Result{Allowed: true}, nil
	}
	result, err := l.bucket.Allow(ctx, LoginKey(ip, email), l.rate, l.burst)
	if err != nil {
		l.log.Warn("login rate limit check failed", zap.Error(err))
		return Result{Allowed: true}, nil
	}
	return result, nil
}

func LoginKey(ip, email string) string {
	return fmt.Sprintf(keyLogin, strings.TrimSpace(ip), strings.ToLower(strings.TrimSpace(email)))
}
