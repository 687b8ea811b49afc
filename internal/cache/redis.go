package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"gamerec/internal/config"
	"gamerec/internal/logging"

	"github.com/redis/go-redis/v9"
)

var client *redis.Client

func InitRedis(cfg *config.Config) {
	c := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// without Redis the service still works, only uncached
	if err := c.Ping(ctx).Err(); err != nil {
		logging.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("[redis] unavailable, caching disabled")
		return
	}

	SetClient(c)
	logging.Info().Str("addr", cfg.RedisAddr).Msg("[redis] connected")
}

// SetClient swaps the package client; nil disables caching.
func SetClient(c *redis.Client) {
	client = c
}

// Enabled reports whether a Redis client is configured.
func Enabled() bool {
	return client != nil
}

// =======================================================
//  JSON helpers used by the services
// =======================================================

// GetJSON reads key and, if present, decodes it into dest.
func GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	if client == nil {
		return false, nil
	}

	val, err := client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := json.Unmarshal([]byte(val), dest); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON stores value as JSON under key with a TTL in seconds.
func SetJSON(ctx context.Context, key string, value any, ttlSeconds int) error {
	if client == nil {
		return nil
	}

	b, err := json.Marshal(value)
	if err != nil {
		return err
	}

	ttl := time.Duration(ttlSeconds) * time.Second
	return client.Set(ctx, key, b, ttl).Err()
}

// Delete removes keys; missing keys are not an error.
func Delete(ctx context.Context, keys ...string) error {
	if client == nil || len(keys) == 0 {
		return nil
	}
	return client.Del(ctx, keys...).Err()
}
