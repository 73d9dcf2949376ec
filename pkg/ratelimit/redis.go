package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

var incrScript = redis.NewScript(`
local count = redis.call('INCR', KEYS[1])
if count == 1 then
	redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
return count
`)

// RedisLimiter shares budgets between instances through INCR + PEXPIRE.
type RedisLimiter struct {
	client *redis.Client
	prefix string
	limit  int
	period time.Duration
}

func NewRedisLimiter(client *redis.Client, prefix string, limit int, period time.Duration) *RedisLimiter {
	return &RedisLimiter{client: client, prefix: prefix, limit: limit, period: period}
}

func (l *RedisLimiter) Allow(ctx context.Context, identifier string) (bool, error) {
	key := fmt.Sprintf("%s:ratelimit:%s", l.prefix, identifier)
	count, err := incrScript.Run(ctx, l.client, []string{key}, l.period.Milliseconds()).Int64()
	if err != nil {
		return false, fmt.Errorf("ratelimit incr: %w", err)
	}
	return count <= int64(l.limit), nil
}
