package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Options addresses the redis server
type Options struct {
	Addr     string
	Password string
	DB       int
}

// RedisClient wraps the go-redis client with the few calls the service needs
type RedisClient struct {
	client *redis.Client
}

func NewRedisClient(opts Options) *RedisClient {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	return &RedisClient{client: client}
}

// IncrWindow increments key and starts its expiry on the first hit of a window.
// It returns the count inside the current window.
func (r *RedisClient) IncrWindow(ctx context.Context, key string, window time.Duration) (int64, error) {
	var incr *redis.IntCmd
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.ExpireNX(ctx, key, window)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

func (r *RedisClient) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisClient) Close() error {
	return r.client.Close()
}
