package cache

import (
	"time"

	"roleplay-online/backend/pkg/config"
)

// Backend stores raw payloads with a TTL. The in-memory cache is the
// default; a Redis backend is used when REDIS_ADDR is configured so
// multiple instances share the catalog cache.
type Backend interface {
	GetBytes(key string) ([]byte, bool)
	SetBytes(key string, value []byte, ttl time.Duration)
	Delete(key string)
}

// ForConfig picks the backend implied by the application config.
func ForConfig() Backend {
	cfg := config.Get()
	if !cfg.Cache.Enabled {
		return noopBackend{}
	}
	if cfg.Cache.RedisAddr != "" {
		return NewRedisBackend(cfg.Cache.RedisAddr)
	}
	return NewMemoryBackend()
}

// NewMemoryBackend returns the in-process TTL cache.
func NewMemoryBackend() Backend {
	return &memoryBackend{cache: NewCache()}
}

type memoryBackend struct {
	cache *Cache
}

func (m *memoryBackend) GetBytes(key string) ([]byte, bool) {
	v, ok := m.cache.Get(key)
	if !ok {
		return nil, false
	}
	data, ok := v.([]byte)
	return data, ok
}

func (m *memoryBackend) SetBytes(key string, value []byte, ttl time.Duration) {
	m.cache.SetWithExpiration(key, value, ttl)
}

func (m *memoryBackend) Delete(key string) {
	m.cache.Delete(key)
}

type noopBackend struct{}

func (noopBackend) GetBytes(string) ([]byte, bool)         { return nil, false }
func (noopBackend) SetBytes(string, []byte, time.Duration) {}
func (noopBackend) Delete(string)                          {}
