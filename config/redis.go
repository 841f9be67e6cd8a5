package config

import (
	"github.com/redis/go-redis/v9"
)

// NewRedisClient builds a redis client for the local-storage backend.
func NewRedisClient(cfg *Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
}
