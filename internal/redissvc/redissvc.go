package redissvc

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type Config struct {
	Addr     string
	Password string
	DB       int
}

type RedisService struct {
	rdb *redis.Client
}

// Connect opens a client and pings the server so misconfiguration surfaces at startup.
func Connect(ctx context.Context, cfg Config) (*RedisService, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}
	return NewRedisService(rdb), nil
}

func NewRedisService(rdb *redis.Client) *RedisService {
	return &RedisService{rdb: rdb}
}

func (a *RedisService) Rdb() *redis.Client {
	return a.rdb
}

func (a *RedisService) Close() error {
	return a.rdb.Close()
}
