package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// Cache 读穿缓存；RDB 为 nil 时退化为进程内缓存
type Cache struct {
	RDB    *redis.Client
	Prefix string
	local  *gocache.Cache
	sf     singleflight.Group
}

func New(rdb *redis.Client, prefix string) *Cache {
	c := &Cache{RDB: rdb, Prefix: prefix}
	if rdb == nil {
		c.local = gocache.New(5*time.Minute, 10*time.Minute)
	}
	return c
}

func (c *Cache) key(k string) string { return c.Prefix + k }

func (c *Cache) GetOrLoad(ctx context.Context, key string, ttl time.Duration, load func(context.Context) ([]byte, error)) ([]byte, error) {
	if b, ok := c.get(ctx, key); ok {
		return b, nil
	}
	v, err, _ := c.sf.Do(key, func() (any, error) {
		b, e := load(ctx)
		if e != nil {
			return nil, e
		}
		c.set(ctx, key, b, ttl)
		return b, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

func (c *Cache) Invalidate(ctx context.Context, key string) error {
	if c.RDB == nil {
		if c.local != nil {
			c.local.Delete(c.key(key))
		}
		return nil
	}
	return c.RDB.Del(ctx, c.key(key)).Err()
}

func (c *Cache) get(ctx context.Context, key string) ([]byte, bool) {
	if c.RDB != nil {
		b, err := c.RDB.Get(ctx, c.key(key)).Bytes()
		return b, err == nil
	}
	if c.local == nil {
		return nil, false
	}
	v, ok := c.local.Get(c.key(key))
	if !ok {
		return nil, false
	}
	return v.([]byte), true
}

func (c *Cache) set(ctx context.Context, key string, b []byte, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	if c.RDB != nil {
		_ = c.RDB.Set(ctx, c.key(key), b, ttl).Err()
		return
	}
	if c.local != nil {
		c.local.Set(c.key(key), b, ttl)
	}
}
