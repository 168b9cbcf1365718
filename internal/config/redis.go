package config

// Redis backs the read cache and the rate limiter. Both degrade to no-ops
// when the server cannot be reached at startup.

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// RedisConfig holds the Redis connection parameters.
type RedisConfig struct {
	Addr     string `koanf:"addr"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
}

func defaultRedis() RedisConfig {
	return RedisConfig{Addr: "localhost:6379"}
}

// NewRedisClient connects to Redis and pings it with a short timeout.
// It returns nil when the server is unreachable so callers disable the
// features that depend on it.
func NewRedisClient(cfg RedisConfig, log zerolog.Logger) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Warn().Err(err).Str("addr", cfg.Addr).Msg("redis unavailable; cache and rate limit disabled")
		_ = client.Close()
		return nil
	}
	return client
}
