package plans

import (
	"encoding/json"
	"strconv"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
)

const (
	defaultCacheSizeBytes  = 10 * 1024 * 1024
	defaultCacheTTLSeconds = 60
)

// Cache is a read-through cache for plan records, in front of the repo.
// Entries are small JSON blobs; a stale read is at most a minute old and
// writes invalidate eagerly.
type Cache struct {
	cache      *freecache.Cache
	ttlSeconds int
}

func NewCache() *Cache {
	return &Cache{
		cache:      freecache.NewCache(defaultCacheSizeBytes),
		ttlSeconds: defaultCacheTTLSeconds,
	}
}

func (c *Cache) Get(id int) (*Plan, bool) {
	raw, err := c.cache.Get(cacheKey(id))
	if err != nil {
		// freecache returns an error for a plain miss too
		return nil, false
	}
	var plan Plan
	if err := json.Unmarshal(raw, &plan); err != nil {
		log.Errorf("plans cache: unmarshal plan %d: %s", id, err)
		return nil, false
	}
	return &plan, true
}

func (c *Cache) Set(plan *Plan) {
	raw, err := json.Marshal(plan)
	if err != nil {
		log.Errorf("plans cache: marshal plan %d: %s", plan.ID, err)
		return
	}
	if err := c.cache.Set(cacheKey(plan.ID), raw, c.ttlSeconds); err != nil {
		log.Errorf("plans cache: set plan %d: %s", plan.ID, err)
	}
}

func (c *Cache) Invalidate(id int) {
	c.cache.Del(cacheKey(id))
}

func cacheKey(id int) []byte {
	return []byte("plan:" + strconv.Itoa(id))
}
