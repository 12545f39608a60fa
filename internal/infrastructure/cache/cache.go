package cache

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/wb-go/wbf/zlog"
	"github.com/yokitheyo/mediacatalog/internal/config"
	"github.com/yokitheyo/mediacatalog/internal/domain"
)

// TTLCache is an in-process read-through cache; every entry expires after the
// same TTL.
type TTLCache struct {
	lru *expirable.LRU[string, any]
}

func New(size int, ttl time.Duration) *TTLCache {
	if size <= 0 {
		size = 128
	}
	return &TTLCache{
		lru: expirable.NewLRU[string, any](size, func(key string, _ any) {
			zlog.Logger.Debug().Str("key", key).Msg("cache entry evicted")
		}, ttl),
	}
}

func NewFromConfig(cfg *config.CacheConfig) domain.Cache {
	zlog.Logger.Info().
		Int("size", cfg.Size).
		Int("ttl_sec", cfg.TTLSec).
		Msg("cache initialized")
	return New(cfg.Size, time.Duration(cfg.TTLSec)*time.Second)
}

func (c *TTLCache) Get(key string) (any, bool) {
	return c.lru.Get(key)
}

func (c *TTLCache) Set(key string, value any) {
	c.lru.Add(key, value)
}

func (c *TTLCache) Delete(key string) {
	c.lru.Remove(key)
}

func (c *TTLCache) Len() int {
	return c.lru.Len()
}
