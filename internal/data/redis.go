package data

import (
	"github.com/go-redis/redis/v8"
	"github.com/roguepikachu/pasteshare/internal/config"
)

// NewRedisClient creates a Redis client for cfg.RedisAddr.
func NewRedisClient(cfg config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: orDefault(cfg.RedisAddr, "localhost:6379"),
	})
}
