package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// allowScript increments the window counter and starts its TTL on first hit
var allowScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
local ttl = redis.call("PTTL", KEYS[1])
return {current, ttl}
`)

// RedisLimiter shares counters between replicas through Redis
type RedisLimiter struct {
	client *redis.Client
	prefix string
	now    func() time.Time
}

// NewRedisLimiter wraps an existing client. Keys are namespaced by prefix.
func NewRedisLimiter(client *redis.Client, prefix string) *RedisLimiter {
	return &RedisLimiter{client: client, prefix: prefix, now: time.Now}
}

// DialRedis parses a redis:// URL and verifies the server answers
func DialRedis(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

func (r *RedisLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (Decision, error) {
	if limit <= 0 {
		return Decision{Allowed: true, Limit: limit, Remaining: limit}, nil
	}
	windowMillis := window.Milliseconds()
	if windowMillis <= 0 {
		windowMillis = 1000
	}

	result, err := allowScript.Run(ctx, r.client, []string{r.prefix + key}, windowMillis).Result()
	if err != nil {
		return Decision{}, fmt.Errorf("run rate limit script: %w", err)
	}
	values, ok := result.([]interface{})
	if !ok || len(values) < 2 {
		return Decision{}, errors.New("unexpected redis rate limit response")
	}
	current, ok := values[0].(int64)
	if !ok {
		return Decision{}, errors.New("invalid redis counter response")
	}
	ttlMillis, _ := values[1].(int64)

	resetAt := r.now()
	if ttlMillis > 0 {
		resetAt = resetAt.Add(time.Duration(ttlMillis) * time.Millisecond)
	}
	remaining := limit - int(current)
	if remaining < 0 {
		remaining = 0
	}
	return Decision{
		Allowed:   current <= int64(limit),
		Limit:     limit,
		Remaining: remaining,
		ResetAt:   resetAt,
	}, nil
}
