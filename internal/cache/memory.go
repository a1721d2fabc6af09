package cache

import (
	"container/list"
	"context"
	"sync"

	"github.com/hyperjump/wikitime/internal/models"
)

const defaultCapacity = 256

// MemoryCache is an in-process LRU cache of articles.
type MemoryCache struct {
	capacity int
	cache    map[string]*list.Element
	lru      *list.List
	mu       sync.Mutex
}

type cacheEntry struct {
	key   string
	value models.Article
}

// NewMemoryCache creates a cache holding at most capacity articles.
func NewMemoryCache(capacity int) *MemoryCache {
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	return &MemoryCache{
		capacity: capacity,
		cache:    make(map[string]*list.Element),
		lru:      list.New(),
	}
}

// Get returns a copy of the cached article for key, or ErrMiss.
func (c *MemoryCache) Get(_ context.Context, key string) (*models.Article, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.cache[key]
	if !ok {
		return nil, ErrMiss
	}
	c.lru.MoveToFront(elem)
	article := elem.Value.(*cacheEntry).value
	return &article, nil
}

// Set stores a copy of article for key, evicting the least recently used entry if at capacity.
func (c *MemoryCache) Set(_ context.Context, key string, article *models.Article) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.cache[key]; ok {
		c.lru.MoveToFront(elem)
		elem.Value.(*cacheEntry).value = *article
		return nil
	}

	elem := c.lru.PushFront(&cacheEntry{key: key, value: *article})
	c.cache[key] = elem

	if c.lru.Len() > c.capacity {
		if oldest := c.lru.Back(); oldest != nil {
			c.lru.Remove(oldest)
			delete(c.cache, oldest.Value.(*cacheEntry).key)
		}
	}
	return nil
}

// Delete removes key. Missing keys are ignored.
func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.cache[key]; ok {
		c.lru.Remove(elem)
		delete(c.cache, key)
	}
	return nil
}

// Len returns the number of cached articles.
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}

// Close is a no-op.
func (c *MemoryCache) Close() error { return nil }
