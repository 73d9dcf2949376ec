package kvstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"
)

// putScript writes the value and remembers the key's first insertion.
var putScript = redis.NewScript(`
local added = redis.call('HSET', KEYS[1], ARGV[1], ARGV[2])
if added == 1 then
	redis.call('RPUSH', KEYS[2], ARGV[1])
end
return added
`)

var deleteScript = redis.NewScript(`
local removed = redis.call('HDEL', KEYS[1], ARGV[1])
if removed == 1 then
	redis.call('LREM', KEYS[2], 0, ARGV[1])
end
return removed
`)

// RedisStore maps every namespace to a hash plus a list holding the keys in
// insertion order.
type RedisStore struct {
	client *redis.Client
	prefix string
}

func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) hashKey(namespace string) string {
	return fmt.Sprintf("%s:%s", s.prefix, namespace)
}

func (s *RedisStore) orderKey(namespace string) string {
	return fmt.Sprintf("%s:%s:order", s.prefix, namespace)
}

func (s *RedisStore) Get(ctx context.Context, namespace, key string) ([]byte, error) {
	v, err := s.client.HGet(ctx, s.hashKey(namespace), key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis hget %s/%s: %w", namespace, key, err)
	}
	return v, nil
}

func (s *RedisStore) Put(ctx context.Context, namespace, key string, value []byte) error {
	keys := []string{s.hashKey(namespace), s.orderKey(namespace)}
	if err := putScript.Run(ctx, s.client, keys, key, value).Err(); err != nil {
		return fmt.Errorf("redis put %s/%s: %w", namespace, key, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, namespace, key string) error {
	keys := []string{s.hashKey(namespace), s.orderKey(namespace)}
	removed, err := deleteScript.Run(ctx, s.client, keys, key).Int64()
	if err != nil {
		return fmt.Errorf("redis delete %s/%s: %w", namespace, key, err)
	}
	if removed == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *RedisStore) List(ctx context.Context, namespace string) ([]Record, error) {
	keys, err := s.client.LRange(ctx, s.orderKey(namespace), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis lrange %s: %w", namespace, err)
	}
	if len(keys) == 0 {
		return []Record{}, nil
	}

	values, err := s.client.HMGet(ctx, s.hashKey(namespace), keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("redis hmget %s: %w", namespace, err)
	}

	out := make([]Record, 0, len(keys))
	for i, raw := range values {
		str, ok := raw.(string)
		if !ok {
			continue
		}
		out = append(out, Record{Key: keys[i], Value: []byte(str)})
	}
	return out, nil
}
