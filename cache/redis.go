// Package cache is a best-effort read-through layer over Redis. When no
// external Redis address is configured it starts an embedded server, which is
// also what the tests run against.
package cache

import (
	"context"
	"fmt"
	"time"

	"notes-api/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

var (
	client    *redis.Client
	miniRedis *miniredis.Miniredis
	ctx       = context.Background()
)

// InitRedis connects to the Redis server at addr, or starts an embedded
// instance when addr is empty.
func InitRedis(addr string) error {
	if miniRedis != nil {
		miniRedis.Close()
		miniRedis = nil
	}

	if addr == "" {
		mr, err := miniredis.Run()
		if err != nil {
			return fmt.Errorf("start embedded redis: %w", err)
		}
		miniRedis = mr
		client = redis.NewClient(&redis.Options{Addr: mr.Addr()})
		logger.Info("embedded redis started on", mr.Addr())
		return nil
	}

	client = redis.NewClient(&redis.Options{Addr: addr})
	if _, err := client.Ping(ctx).Result(); err != nil {
		return fmt.Errorf("connect to redis at %s: %w", addr, err)
	}
	logger.Info("connected to redis at", addr)
	return nil
}

// Close closes the client and stops the embedded server if one is running.
func Close() error {
	if client != nil {
		if err := client.Close(); err != nil {
			return err
		}
		client = nil
	}
	if miniRedis != nil {
		miniRedis.Close()
		miniRedis = nil
	}
	return nil
}

func set(key, value string, expiration time.Duration) error {
	if client == nil {
		return fmt.Errorf("redis client not initialized")
	}
	return client.Set(ctx, key, value, expiration).Err()
}

// get returns redis.Nil when the key does not exist.
func get(key string) (string, error) {
	if client == nil {
		return "", fmt.Errorf("redis client not initialized")
	}
	return client.Get(ctx, key).Result()
}

// Delete removes the given keys. Missing keys are not an error.
func Delete(keys ...string) error {
	if client == nil {
		return fmt.Errorf("redis client not initialized")
	}
	if len(keys) == 0 {
		return nil
	}
	return client.Del(ctx, keys...).Err()
}
