package tiles

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// NewCache returns an LRU cache keyed by tile key. The least recently drawn
// entries are evicted first, so the tiles around the viewport stay.
func NewCache[V any](size int) *lru.Cache[string, V] {
	if size < 1 {
		size = 1
	}
	// New only fails for a non-positive size
	c, _ := lru.New[string, V](size)
	return c
}
