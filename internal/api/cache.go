package api

import (
	"math"
	"time"

	"github.com/coocood/freecache"
)

const leaderboardCacheKey = "leaderboard"

// responseCache holds encoded responses for a short TTL.
type responseCache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte)
	Del(key string)
}

type freeCache struct {
	cache *freecache.Cache
	ttl   int
}

func newResponseCache(sizeMB int, ttl time.Duration) responseCache {
	if sizeMB <= 0 || ttl <= 0 {
		return noopCache{}
	}
	return &freeCache{
		cache: freecache.NewCache(sizeMB * 1024 * 1024),
		ttl:   max(int(math.Ceil(ttl.Seconds())), 1),
	}
}

func (c *freeCache) Get(key string) ([]byte, bool) {
	val, err := c.cache.Get([]byte(key))
	if err != nil {
		return nil, false
	}
	return val, true
}

func (c *freeCache) Set(key string, value []byte) {
	_ = c.cache.Set([]byte(key), value, c.ttl)
}

func (c *freeCache) Del(key string) {
	c.cache.Del([]byte(key))
}

type noopCache struct{}

func (noopCache) Get(string) ([]byte, bool) { return nil, false }
func (noopCache) Set(string, []byte)        {}
func (noopCache) Del(string)                {}
