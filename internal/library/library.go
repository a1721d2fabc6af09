// Package library resolves articles through the cache, the local store and Wikipedia, and
// turns them into timelines.
package library

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/hyperjump/wikitime/internal/cache"
	"github.com/hyperjump/wikitime/internal/fileid"
	"github.com/hyperjump/wikitime/internal/indexer"
	"github.com/hyperjump/wikitime/internal/keyword"
	"github.com/hyperjump/wikitime/internal/metrics"
	"github.com/hyperjump/wikitime/internal/models"
	"github.com/hyperjump/wikitime/internal/storage"
	"github.com/hyperjump/wikitime/internal/timeline"
	"github.com/hyperjump/wikitime/internal/wiki"
	"go.uber.org/zap"
)

// ErrEmptyTitle is returned for blank article titles.
var ErrEmptyTitle = errors.New("article title is required")

// ErrOffline is returned when an article is not stored locally and no fetcher is configured.
var ErrOffline = errors.New("article not available offline")

// ErrUpstream wraps remote failures other than a missing article.
var ErrUpstream = errors.New("wikipedia unavailable")

const defaultSearchLimit = 10

// Fetcher retrieves articles from a remote wiki.
type Fetcher interface {
	FetchArticle(ctx context.Context, title string) (*models.Article, error)
	Search(ctx context.Context, term string, limit int) ([]*models.SearchHit, error)
}

// Library ties article sources to the timeline extractor.
type Library struct {
	storage   storage.Storage
	indexer   *indexer.Indexer
	keyword   keyword.KeywordIndex
	cache     cache.Cache
	fetcher   Fetcher
	extractor *timeline.Extractor
	metrics   *metrics.Metrics
	fileExts  []string
	logger    *zap.Logger
}

// Option configures a Library.
type Option func(*Library)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(lib *Library) { lib.logger = l }
}

// WithMetrics records fetch and extraction metrics into m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(lib *Library) { lib.metrics = m }
}

// WithExtractor replaces the default extractor.
func WithExtractor(e *timeline.Extractor) Option {
	return func(lib *Library) { lib.extractor = e }
}

// WithCache sets the article cache. Without one, every lookup goes to storage.
func WithCache(c cache.Cache) Option {
	return func(lib *Library) { lib.cache = c }
}

// WithFetcher sets the remote source. Without one, the library works offline.
func WithFetcher(f Fetcher) Option {
	return func(lib *Library) { lib.fetcher = f }
}

// WithFileExtensions limits ImportFile to the given extensions. Without it, any file is read.
func WithFileExtensions(exts []string) Option {
	return func(lib *Library) { lib.fileExts = exts }
}

// New creates a library over the given store and index.
func New(store storage.Storage, kw keyword.KeywordIndex, opts ...Option) *Library {
	lib := &Library{
		storage: store,
		keyword: kw,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(lib)
	}
	if lib.logger == nil {
		lib.logger = zap.NewNop()
	}
	if lib.extractor == nil {
		lib.extractor = timeline.NewExtractor(timeline.WithLogger(lib.logger))
	}
	lib.indexer = indexer.NewIndexer(store, kw, indexer.WithLogger(lib.logger))
	return lib
}

// Indexer returns the indexer used to store articles.
func (l *Library) Indexer() *indexer.Indexer {
	return l.indexer
}

// Article returns the article for title from the cache, the local store or Wikipedia, in
// that order. Fetched articles are stored, indexed and cached.
func (l *Library) Article(ctx context.Context, title string) (*models.Article, error) {
	key := fileid.NormalizeTitle(title)
	if key == "" {
		return nil, ErrEmptyTitle
	}

	if article, ok := l.fromCache(ctx, key); ok {
		l.metrics.ArticleFetched(metrics.SourceCache)
		return article, nil
	}

	article, err := l.storage.GetArticleByTitle(ctx, key)
	if err == nil {
		l.metrics.ArticleFetched(metrics.SourceStorage)
		l.toCache(ctx, article, key)
		return article, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("failed to load article: %w", err)
	}
	if l.fetcher == nil {
		return nil, fmt.Errorf("%s: %w", key, ErrOffline)
	}
	return l.Fetch(ctx, key)
}

// Fetch downloads title from Wikipedia and stores, indexes and caches it, replacing any
// stored copy.
func (l *Library) Fetch(ctx context.Context, title string) (*models.Article, error) {
	key := fileid.NormalizeTitle(title)
	if key == "" {
		return nil, ErrEmptyTitle
	}
	if l.fetcher == nil {
		return nil, fmt.Errorf("%s: %w", key, ErrOffline)
	}
	article, err := l.fetcher.FetchArticle(ctx, key)
	if err != nil {
		if errors.Is(err, wiki.ErrArticleNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	l.metrics.ArticleFetched(metrics.SourceWikipedia)
	if err := l.indexer.IndexArticle(ctx, article); err != nil {
		return nil, err
	}
	// Redirects resolve to a different title; cache under both.
	l.toCache(ctx, article, key, fileid.NormalizeTitle(article.Title))
	l.logger.Info("article fetched",
		zap.String("requested", key),
		zap.String("title", article.Title),
		zap.Int("bytes", len(article.HTML)))
	return article, nil
}

// Import stores a caller-supplied article (upload or file) and drops stale cache entries.
func (l *Library) Import(ctx context.Context, article *models.Article) error {
	if err := l.indexer.IndexArticle(ctx, article); err != nil {
		return err
	}
	if l.cache != nil {
		_ = l.cache.Delete(ctx, fileid.NormalizeTitle(article.Title))
	}
	return nil
}

// ImportFile stores the saved article page at path, replacing an earlier import of it.
func (l *Library) ImportFile(ctx context.Context, path string) error {
	id := fileDocID(path)
	l.dropCached(ctx, id)
	if err := l.indexer.IndexFile(ctx, path, l.fileExts); err != nil {
		return err
	}
	l.dropCached(ctx, id)
	return nil
}

// RemoveFile deletes the article imported from path. Paths never imported are ignored.
func (l *Library) RemoveFile(ctx context.Context, path string) error {
	err := l.Delete(ctx, fileDocID(path))
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	return err
}

// Delete removes the article with the given ID from storage, the index and the cache.
func (l *Library) Delete(ctx context.Context, id string) error {
	article, err := l.storage.GetArticle(ctx, id)
	if err != nil {
		return err
	}
	if err := l.indexer.DeleteArticle(ctx, id); err != nil {
		return err
	}
	if l.cache != nil {
		_ = l.cache.Delete(ctx, fileid.NormalizeTitle(article.Title))
	}
	l.logger.Info("article deleted", zap.String("id", id), zap.String("title", article.Title))
	return nil
}

func (l *Library) dropCached(ctx context.Context, id string) {
	if l.cache == nil {
		return
	}
	if article, err := l.storage.GetArticle(ctx, id); err == nil {
		_ = l.cache.Delete(ctx, fileid.NormalizeTitle(article.Title))
	}
}

func fileDocID(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return fileid.FileDocID(path)
}

// Timeline loads the article for title and extracts its timeline.
func (l *Library) Timeline(ctx context.Context, title string) (*models.Article, *timeline.Report, error) {
	article, err := l.Article(ctx, title)
	if err != nil {
		return nil, nil, err
	}
	return article, l.extract(article.Title, article.HTML), nil
}

// TimelineFromHTML extracts the timeline of caller-supplied markup.
func (l *Library) TimelineFromHTML(_ context.Context, html string) *timeline.Report {
	return l.extract("", html)
}

func (l *Library) extract(title, html string) *timeline.Report {
	runID := uuid.New().String()
	report := l.extractor.RunHTML(html)
	l.metrics.ObserveExtraction(report)
	l.logger.Info("timeline extracted",
		zap.String("run_id", runID),
		zap.String("title", title),
		zap.Int("events", len(report.Dataset.Events)),
		zap.Int("categories", len(report.Dataset.Categories)),
		zap.Strings("failed_scanners", report.Failed),
		zap.Duration("duration", report.Duration))
	return report
}

// SearchLocal searches stored articles.
func (l *Library) SearchLocal(ctx context.Context, q string, limit int) (*models.SearchResponse, error) {
	start := time.Now()
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	results, err := l.keyword.Search(ctx, q, limit, &keyword.SearchOptions{Fuzziness: 1})
	if err != nil {
		return nil, fmt.Errorf("local search failed: %w", err)
	}
	hits := make([]*models.SearchHit, 0, len(results))
	for _, r := range results {
		hits = append(hits, &models.SearchHit{ID: r.ID, Title: r.Title, Snippet: r.Snippet, Score: r.Score})
	}
	return &models.SearchResponse{
		Query:     q,
		Hits:      hits,
		QueryTime: time.Since(start).Milliseconds(),
	}, nil
}

// SearchRemote searches Wikipedia titles.
func (l *Library) SearchRemote(ctx context.Context, q string, limit int) (*models.SearchResponse, error) {
	if l.fetcher == nil {
		return nil, ErrOffline
	}
	start := time.Now()
	hits, err := l.fetcher.Search(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: remote search: %w", ErrUpstream, err)
	}
	return &models.SearchResponse{
		Query:     q,
		Remote:    true,
		Hits:      hits,
		QueryTime: time.Since(start).Milliseconds(),
	}, nil
}

// Stats summarizes the local library.
type Stats struct {
	Articles     int64  `json:"articles"`
	IndexedDocs  uint64 `json:"indexed_docs"`
	CacheBackend string `json:"cache_backend,omitempty"`
}

// Stats returns article and index counts.
func (l *Library) Stats(ctx context.Context) (*Stats, error) {
	n, err := l.storage.CountArticles(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count articles: %w", err)
	}
	docs, err := l.keyword.DocCount()
	if err != nil {
		return nil, fmt.Errorf("failed to count indexed articles: %w", err)
	}
	s := &Stats{Articles: n, IndexedDocs: docs}
	switch l.cache.(type) {
	case *cache.MemoryCache:
		s.CacheBackend = "memory"
	case *cache.RedisCache:
		s.CacheBackend = "redis"
	}
	return s, nil
}

func (l *Library) fromCache(ctx context.Context, key string) (*models.Article, bool) {
	if l.cache == nil {
		return nil, false
	}
	article, err := l.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			l.logger.Warn("article cache read failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	return article, true
}

func (l *Library) toCache(ctx context.Context, article *models.Article, keys ...string) {
	if l.cache == nil {
		return
	}
	seen := make(map[string]bool, len(keys))
	for _, key := range keys {
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		if err := l.cache.Set(ctx, key, article); err != nil {
			l.logger.Warn("article cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
}
