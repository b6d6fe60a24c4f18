package middleware

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/abisalde/accounts-service/internal/auth"
	"github.com/abisalde/accounts-service/internal/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type RateLimitConfig struct {
	RateLimit  int // requests per window
	RateWindow time.Duration

	BackoffMultiplier  float64
	MaxBackoffDuration time.Duration
	BackoffResetTime   time.Duration // violations are forgotten after this
}

func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		RateLimit:          30,
		RateWindow:         time.Minute,
		BackoffMultiplier:  2.0,
		MaxBackoffDuration: time.Hour,
		BackoffResetTime:   24 * time.Hour,
	}
}

// RateLimiter is a per-IP fixed window limiter with exponential backoff on repeated violations.
type RateLimiter struct {
	config      RateLimitConfig
	redisClient *redis.Client
	now         func() time.Time
}

func NewRateLimiter(config RateLimitConfig, redisClient *redis.Client) *RateLimiter {
	return &RateLimiter{config: config, redisClient: redisClient, now: time.Now}
}

func (rl *RateLimiter) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		clientIP := auth.GetIPFromContext(c.UserContext())
		if clientIP == "" {
			clientIP = c.IP()
		}

		backoff, err := rl.check(c.UserContext(), clientIP)
		if err != nil {
			zap.L().Warn("rate limit exceeded", zap.String("ip", clientIP), zap.Duration("backoff", backoff))
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(int(math.Ceil(backoff.Seconds()))))
			c.Set("X-RateLimit-Reset", rl.now().Add(backoff).Format(time.RFC3339))
			return errors.ErrRateLimitExceeded
		}

		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		return c.Next()
	}
}

func (rl *RateLimiter) check(ctx context.Context, ipStr string) (time.Duration, error) {
	now := rl.now()
	windowStart := now.Truncate(rl.config.RateWindow)

	countKey := fmt.Sprintf("ratelimit:count:%s:%d", ipStr, windowStart.Unix())
	violationKey := fmt.Sprintf("ratelimit:violations:%s", ipStr)
	backoffKey := fmt.Sprintf("ratelimit:backoff:%s", ipStr)

	backoffUntil, err := rl.redisClient.Get(ctx, backoffKey).Int64()
	if err == nil && backoffUntil > now.Unix() {
		return time.Unix(backoffUntil, 0).Sub(now), fmt.Errorf("in backoff period")
	}

	pipe := rl.redisClient.TxPipeline()
	incrCmd := pipe.Incr(ctx, countKey)
	pipe.Expire(ctx, countKey, rl.config.RateWindow)
	if _, err := pipe.Exec(ctx); err != nil {
		// Fail open on Redis errors.
		zap.L().Error("rate limiter unavailable", zap.Error(err))
		return 0, nil
	}

	if incrCmd.Val() <= int64(rl.config.RateLimit) {
		return 0, nil
	}

	violationPipe := rl.redisClient.TxPipeline()
	violationCmd := violationPipe.Incr(ctx, violationKey)
	violationPipe.Expire(ctx, violationKey, rl.config.BackoffResetTime)
	if _, err := violationPipe.Exec(ctx); err != nil {
		zap.L().Error("failed to record rate limit violation", zap.String("ip", ipStr), zap.Error(err))
		return rl.config.RateWindow, fmt.Errorf("rate limit exceeded")
	}

	backoff := rl.calculateBackoff(violationCmd.Val())
	if err := rl.redisClient.Set(ctx, backoffKey, now.Add(backoff).Unix(), backoff).Err(); err != nil {
		zap.L().Error("failed to store rate limit backoff", zap.String("ip", ipStr), zap.Error(err))
	}
	return backoff, fmt.Errorf("rate limit exceeded")
}

// calculateBackoff returns window * multiplier^(violations-1), capped.
func (rl *RateLimiter) calculateBackoff(violations int64) time.Duration {
	if violations < 1 {
		violations = 1
	}
	backoff := float64(rl.config.RateWindow) * math.Pow(rl.config.BackoffMultiplier, float64(violations-1))
	if backoff > float64(rl.config.MaxBackoffDuration) {
		return rl.config.MaxBackoffDuration
	}
	return time.Duration(backoff)
}
