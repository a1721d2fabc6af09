// Package cache keeps recently used articles close to the extractor so repeated timeline
// requests skip the database and the network.
package cache

import (
	"context"
	"errors"
	"fmt"

	"github.com/hyperjump/wikitime/internal/config"
	"github.com/hyperjump/wikitime/internal/models"
)

// ErrMiss is returned by Get when the key is not cached.
var ErrMiss = errors.New("cache miss")

// Cache stores articles by key (normalized title or article ID).
type Cache interface {
	Get(ctx context.Context, key string) (*models.Article, error)
	Set(ctx context.Context, key string, article *models.Article) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// New returns the backend selected by cfg.Backend.
func New(cfg config.CacheConfig) (Cache, error) {
	switch cfg.Backend {
	case "", config.CacheMemory:
		return NewMemoryCache(cfg.Size), nil
	case config.CacheRedis:
		return NewRedisCache(context.Background(), cfg.Redis, cfg.TTL)
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}
