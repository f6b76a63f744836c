package common

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"horizonva/opsdesk/internal/logging"
)

// NewRedisClient builds the one client the cache and the ledger stream
// share, addressed by REDIS_HOST/REDIS_PORT/REDIS_PASSWORD. A failed ping
// is logged but the client is still returned; the pool reconnects on its
// own once the server comes back.
func NewRedisClient() *redis.Client {
	host := os.Getenv("REDIS_HOST")
	if host == "" {
		host = "localhost"
	}

	port := os.Getenv("REDIS_PORT")
	if port == "" {
		port = "6379"
	}

	addr := fmt.Sprintf("%s:%s", host, port)

	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     os.Getenv("REDIS_PASSWORD"),
		DB:           0,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		logging.Warn("Redis not reachable yet", "addr", addr, "error", err)
		return client
	}

	logging.Info("Redis connected", "addr", addr)
	return client
}
