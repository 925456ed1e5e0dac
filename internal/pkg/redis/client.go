package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/rube11/Mo-Data-builder-project/internal/pkg/config"
)

var (
	client *redis.Client
	ctx    = context.Background()
	log    *zap.Logger
)

// Init initializes the Redis client. Redis is optional: when Init fails the
// in-flight guard falls back to process-local locking.
func Init(cfg *config.Config) error {
	client = redis.NewClient(&redis.Options{
		Addr:     cfg.GetRedisAddr(),
		Password: "",
		DB:       cfg.RedisService.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client = nil
		return err
	}

	log = zap.L().With(zap.String("component", "redis"))
	log.Info("Redis connected successfully",
		zap.String("addr", cfg.GetRedisAddr()))

	return nil
}

// Available reports whether a Redis connection was established.
func Available() bool {
	return client != nil
}

// Close closes the Redis connection
func Close() error {
	if client != nil {
		return client.Close()
	}
	return nil
}

// TryAcquire takes the in-flight lock for an operation key. Returns false
// when another worker already holds it. The TTL bounds locks leaked by a
// crashed worker.
func TryAcquire(key string, ttl time.Duration) (bool, error) {
	if client == nil {
		return false, fmt.Errorf("redis client not initialized")
	}

	return client.SetNX(ctx, "inflight:"+key, 1, ttl).Result()
}

// Release drops the in-flight lock for an operation key.
func Release(key string) error {
	if client == nil {
		return fmt.Errorf("redis client not initialized")
	}

	return client.Del(ctx, "inflight:"+key).Err()
}
