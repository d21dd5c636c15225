// File: utils/cache.go
package utils

import (
	"context"
	"log"
	"time"

	"tourbook/config"

	"github.com/redis/go-redis/v9"
)

var (
	// LockClient backs the distributed webhook locks.
	LockClient *redis.Client
)

// InitLockCache initializes the Redis client used for reconciliation locks.
func InitLockCache() {
	LockClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisLockDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := LockClient.Ping(ctx).Result()
	if err != nil {
		log.Fatalf("Failed to connect to Redis (Lock): %v", err)
	}
}

// GetLockCacheClient returns the Redis client used for reconciliation locks.
func GetLockCacheClient() *redis.Client {
	if LockClient == nil {
		InitLockCache()
	}
	return LockClient
}
