// Package storage defines the persistence interface for articles.
package storage

import (
	"context"
	"errors"

	"github.com/hyperjump/wikitime/internal/models"
)

// ErrNotFound is returned when no article matches the lookup.
var ErrNotFound = errors.New("article not found")

// Storage defines article persistence operations. Timelines are derived data and are
// never stored.
type Storage interface {
	// SaveArticle inserts the article or replaces the stored one with the same ID.
	SaveArticle(ctx context.Context, article *models.Article) error
	GetArticle(ctx context.Context, id string) (*models.Article, error)
	// GetArticleByTitle matches titles the way MediaWiki does (underscores, first letter).
	GetArticleByTitle(ctx context.Context, title string) (*models.Article, error)
	DeleteArticle(ctx context.Context, id string) error
	ListArticles(ctx context.Context, offset, limit int) ([]*models.Article, error)

	// Stats
	CountArticles(ctx context.Context) (int64, error)

	Close() error
}
