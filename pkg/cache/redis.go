package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisBackend implements Backend on a shared Redis instance.
type RedisBackend struct {
	client *redis.Client
}

// NewRedisBackend connects to the Redis instance at addr.
func NewRedisBackend(addr string) *RedisBackend {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   0,
	})
	return &RedisBackend{client: client}
}

func (r *RedisBackend) GetBytes(key string) ([]byte, bool) {
	data, err := r.client.Get(context.Background(), key).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

func (r *RedisBackend) SetBytes(key string, value []byte, ttl time.Duration) {
	r.client.Set(context.Background(), key, value, ttl)
}

func (r *RedisBackend) Delete(key string) {
	r.client.Del(context.Background(), key)
}
