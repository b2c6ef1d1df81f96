package config

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var (
	redisClient *redis.Client
	redisOnce   sync.Once
)

// ConnectRedis initializes a singleton Redis client when REDIS_ENABLED=true.
// Returns nil without error when Redis is disabled or APPENV=test.
func ConnectRedis() (*redis.Client, error) {
	var err error
	redisOnce.Do(func() {
		cfg := LoadConfig()
		if cfg.AppEnv == "test" || !cfg.RedisEnabled {
			return
		}

		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPass,
			DB:       cfg.RedisDB,
		})

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err = rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			err = fmt.Errorf("redis ping failed: %w", err)
			return
		}

		redisClient = rdb
		zap.L().Info("connected to redis", zap.String("addr", cfg.RedisAddr))
	})
	return redisClient, err
}

// GetRedisClient returns the initialized Redis client (nil if Redis is disabled or unreachable).
func GetRedisClient() *redis.Client {
	return redisClient
}

// SetRedisClientForTest injects a client, typically a redismock one.
func SetRedisClientForTest(client *redis.Client) {
	redisClient = client
}

// ResetRedisClientForTest resets the Redis client singleton.
func ResetRedisClientForTest() {
	redisClient = nil
	redisOnce = sync.Once{}
}
