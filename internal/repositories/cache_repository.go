package repositories

import (
	"context"
	"sync"
	"time"
)

// CacheRepositoryInterface backs short-lived markers such as already
// processed webhook message ids.
type CacheRepositoryInterface interface {
	// SetNX stores the key only if it is absent and reports whether it did.
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error)
	Del(ctx context.Context, keys ...string) error
}

type memoryCacheEntry struct {
	expiry time.Time
}

// MemoryCacheRepository is the single-instance cache.
type MemoryCacheRepository struct {
	entries sync.Map
	mu      sync.Mutex
	now     func() time.Time
}

func NewMemoryCacheRepository() *MemoryCacheRepository {
	return &MemoryCacheRepository{now: time.Now}
}

func (r *MemoryCacheRepository) SetNX(_ context.Context, key string, _ interface{}, expiration time.Duration) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	if val, exists := r.entries.Load(key); exists {
		if now.Before(val.(memoryCacheEntry).expiry) {
			return false, nil
		}
	}
	r.entries.Store(key, memoryCacheEntry{expiry: now.Add(expiration)})
	return true, nil
}

func (r *MemoryCacheRepository) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		r.entries.Delete(k)
	}
	return nil
}

// Cleanup drops expired entries every interval until ctx is done.
func (r *MemoryCacheRepository) Cleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			now := r.now()
			r.entries.Range(func(key, value interface{}) bool {
				if now.After(value.(memoryCacheEntry).expiry) {
					r.entries.Delete(key)
				}
				return true
			})
		}
	}
}
