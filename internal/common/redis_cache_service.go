package common

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"horizonva/opsdesk/internal/logging"
)

// RedisCacheService backs CacheInterface with Redis so roster listings and
// pilot snapshots survive restarts and stay shared across replicas. Cache
// trouble is logged and swallowed; a miss just sends the caller back to
// Postgres.
type RedisCacheService struct {
	client *redis.Client
	ctx    context.Context
}

var _ CacheInterface = (*RedisCacheService)(nil)

// NewRedisCacheService wraps an already-constructed client, usually the one
// the ledger queue shares. Fails fast on an unreachable server so boot can
// fall back to the in-process cache.
func NewRedisCacheService(client *redis.Client) (*RedisCacheService, error) {
	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, err
	}

	return &RedisCacheService{
		client: client,
		ctx:    context.Background(),
	}, nil
}

// Set marshals the value to JSON before storing. The services cache JSON
// strings already, so the extra layer only costs the surrounding quotes and
// Get hands back the same string type the in-process cache would.
func (r *RedisCacheService) Set(key string, value interface{}, duration time.Duration) {
	data, err := json.Marshal(value)
	if err != nil {
		logging.Warn("Cache value not serializable, skipping", "key", key, "error", err)
		return
	}

	if err := r.client.Set(r.ctx, key, data, duration).Err(); err != nil {
		logging.Warn("Cache write failed", "key", key, "error", err)
	}
}

func (r *RedisCacheService) Get(key string) (interface{}, bool) {
	data, err := r.client.Get(r.ctx, key).Result()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		logging.Warn("Cache read failed", "key", key, "error", err)
		return nil, false
	}

	var result interface{}
	if err := json.Unmarshal([]byte(data), &result); err != nil {
		logging.Warn("Cache entry unreadable, treating as miss", "key", key, "error", err)
		return nil, false
	}

	return result, true
}

func (r *RedisCacheService) Delete(key string) {
	if err := r.client.Del(r.ctx, key).Err(); err != nil {
		logging.Warn("Cache eviction failed", "key", key, "error", err)
	}
}

// Close closes the underlying connection pool. Call only when nothing else
// shares the client.
func (r *RedisCacheService) Close() error {
	return r.client.Close()
}
