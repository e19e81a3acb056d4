package memory

import (
	"strconv"
	"time"

	"github.com/patrickmn/go-cache"
)

// BlockCache remembers answers to "has blocker blocked blocked?" so the hot
// routing path does not hit the database for every message. Both positive
// and negative answers are cached; Block/Unblock overwrite them, lookups
// only fill gaps.
type BlockCache struct {
	cache *cache.Cache
}

func NewBlockCache(ttl time.Duration) *BlockCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &BlockCache{
		cache: cache.New(ttl, 2*ttl),
	}
}

func blockKey(blockerID, blockedID int64) string {
	return strconv.FormatInt(blockerID, 10) + ":" + strconv.FormatInt(blockedID, 10)
}

func (c *BlockCache) Set(blockerID, blockedID int64, blocked bool) {
	c.cache.Set(blockKey(blockerID, blockedID), blocked, cache.DefaultExpiration)
}

// Fill caches a database answer only if nothing is cached yet, so a
// concurrent Set from Block or Unblock is never overwritten by an older read.
// It reports whether the value was stored.
func (c *BlockCache) Fill(blockerID, blockedID int64, blocked bool) bool {
	return c.cache.Add(blockKey(blockerID, blockedID), blocked, cache.DefaultExpiration) == nil
}

// Get returns found=false on a miss.
func (c *BlockCache) Get(blockerID, blockedID int64) (blocked bool, found bool) {
	x, ok := c.cache.Get(blockKey(blockerID, blockedID))
	if !ok {
		return false, false
	}
	return x.(bool), true
}

func (c *BlockCache) Forget(blockerID, blockedID int64) {
	c.cache.Delete(blockKey(blockerID, blockedID))
}

func (c *BlockCache) Len() int {
	return c.cache.ItemCount()
}
