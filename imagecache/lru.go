// Package imagecache keeps recently preloaded image handles keyed by URL.
package imagecache

import (
	"fmt"
	"log/slog"

	"github.com/aluiziolira/swell-carousel/models"
	lru "github.com/hashicorp/golang-lru/v2"
)

// LRU is a bounded, concurrency-safe image cache.
type LRU struct {
	cache *lru.Cache[string, models.Image]
}

// New builds a cache holding at most size images.
func New(size int) (*LRU, error) {
	cache, err := lru.NewWithEvict[string, models.Image](size, func(url string, _ models.Image) {
		slog.Debug("image cache eviction", slog.String("url", url))
	})
	if err != nil {
		return nil, fmt.Errorf("create image cache: %w", err)
	}
	return &LRU{cache: cache}, nil
}

// Add stores img under url, evicting the least recently used entry when full.
func (c *LRU) Add(url string, img models.Image) {
	c.cache.Add(url, img)
}

// Get returns the cached handle for url.
func (c *LRU) Get(url string) (models.Image, bool) {
	return c.cache.Get(url)
}

// Contains reports whether url is warm without touching recency.
func (c *LRU) Contains(url string) bool {
	return c.cache.Contains(url)
}

// Len returns the number of cached images.
func (c *LRU) Len() int {
	return c.cache.Len()
}

// Purge drops every entry.
func (c *LRU) Purge() {
	c.cache.Purge()
}
