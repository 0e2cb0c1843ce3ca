package db

import (
	"context"
	"time"

	"discovery_backend/internal/logger"

	redis "github.com/redis/go-redis/v9"
)

// ConnectRedis opens the key-value store used for per-user state blobs and
// rate limiting. Returns nil when no address is configured; callers treat a
// nil client as best-effort (in-memory state stays authoritative).
func ConnectRedis(addr, password string, dbIndex int) *redis.Client {
	if addr == "" {
		logger.Warn("REDIS_ADDR not set; state persistence disabled")
		return nil
	}

	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: dbIndex})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("redis ping failed; state persistence disabled", "error", err)
		return nil
	}

	logger.Info("redis connected", "addr", addr)
	return client
}
