package utils

import (
	"context"
	"fmt"
	"time"

	"massobook/config"

	"github.com/go-redis/redis/v8"
)

// HoldCacheClient backs the slot holds of the "hold" booking guard.
var HoldCacheClient *redis.Client

// NewRedisClient connects to db on the configured redis and pings it.
func NewRedisClient(db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       db,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis db %d: %w", db, err)
	}
	return client, nil
}

// InitHoldCache initializes HoldCacheClient.
func InitHoldCache() error {
	client, err := NewRedisClient(config.AppConfig.RedisHoldDB)
	if err != nil {
		return err
	}
	HoldCacheClient = client
	return nil
}
