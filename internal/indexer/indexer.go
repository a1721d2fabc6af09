// Package indexer stores articles and keeps the keyword index in step with storage.
package indexer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/hyperjump/wikitime/internal/fileid"
	"github.com/hyperjump/wikitime/internal/keyword"
	"github.com/hyperjump/wikitime/internal/models"
	"github.com/hyperjump/wikitime/internal/storage"
	"github.com/hyperjump/wikitime/internal/wiki"
	"go.uber.org/zap"
)

// Selector of the article body in a saved MediaWiki page.
const articleBodySelector = ".mw-parser-output"

// reindexBatch is the page size used when rebuilding the keyword index.
const reindexBatch = 100

// Indexer indexes articles into storage and the keyword index.
type Indexer struct {
	storage      storage.Storage
	keywordIndex keyword.KeywordIndex
	logger       *zap.Logger
}

// IndexerOption configures an Indexer.
type IndexerOption func(*Indexer)

// WithLogger sets a logger for debug output (file indexed, article deleted, etc.).
func WithLogger(l *zap.Logger) IndexerOption {
	return func(idx *Indexer) { idx.logger = l }
}

// NewIndexer creates an indexer with the given dependencies.
func NewIndexer(store storage.Storage, keywordIndex keyword.KeywordIndex, opts ...IndexerOption) *Indexer {
	idx := &Indexer{
		storage:      store,
		keywordIndex: keywordIndex,
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(idx)
	}
	if idx.logger == nil {
		idx.logger = zap.NewNop()
	}
	return idx
}

// IndexArticle stores the article and indexes its title and text. A missing ID is derived
// from the title; missing text is derived from the HTML.
func (idx *Indexer) IndexArticle(ctx context.Context, article *models.Article) error {
	if strings.TrimSpace(article.Title) == "" {
		return errors.New("article title is required")
	}
	if article.ID == "" {
		article.ID = fileid.ArticleID(article.Title)
	}
	if article.Text == "" {
		article.Text = wiki.PlainText(article.HTML)
	}
	if err := idx.storage.SaveArticle(ctx, article); err != nil {
		return fmt.Errorf("failed to store article: %w", err)
	}
	if err := idx.keywordIndex.Index(ctx, article); err != nil {
		return fmt.Errorf("failed to index keywords: %w", err)
	}
	idx.logger.Debug("indexer article indexed",
		zap.String("id", article.ID),
		zap.String("title", article.Title),
		zap.String("source", article.Source))
	return nil
}

// IndexFile reads a saved HTML article from path and indexes it. The article ID is derived
// from the absolute path so re-importing updates the same article. If allowedExts is non-empty,
// the file's extension must be in the list (case-insensitive). Unchanged files (same mtime)
// are skipped.
func (idx *Indexer) IndexFile(ctx context.Context, path string, allowedExts []string) error {
	idx.logger.Debug("indexer indexing file", zap.String("path", path))
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("absolute path: %w", err)
	}
	ext := strings.ToLower(filepath.Ext(absPath))
	if len(allowedExts) > 0 && !extensionAllowed(ext, allowedExts) {
		return fmt.Errorf("extension %q not in allowed list", ext)
	}
	info, err := os.Stat(absPath)
	if err != nil {
		return fmt.Errorf("stat file: %w", err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("not a regular file: %s", absPath)
	}

	id := fileid.FileDocID(absPath)
	modTime := info.ModTime().UTC()
	if existing, getErr := idx.storage.GetArticle(ctx, id); getErr == nil && existing.FetchedAt.Equal(modTime) {
		// Keep the keyword index populated if it was recreated empty.
		_ = idx.keywordIndex.Index(ctx, existing)
		idx.logger.Debug("indexer skipping unchanged file", zap.String("path", absPath))
		return nil
	}

	content, err := os.ReadFile(absPath)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}
	title, body, err := parseSavedArticle(content)
	if err != nil {
		return fmt.Errorf("parse %s: %w", absPath, err)
	}
	if title == "" {
		title = strings.TrimSuffix(filepath.Base(absPath), filepath.Ext(absPath))
		title = fileid.NormalizeTitle(title)
	}
	article := &models.Article{
		ID:        id,
		Title:     title,
		HTML:      body,
		Source:    models.SourceFile,
		FetchedAt: modTime,
	}
	if err := idx.IndexArticle(ctx, article); err != nil {
		return err
	}
	idx.logger.Debug("indexer file indexed", zap.String("path", absPath), zap.String("id", id))
	return nil
}

// parseSavedArticle returns the page title and the article body of a saved HTML page.
// Pages without a MediaWiki body wrapper are used whole.
func parseSavedArticle(content []byte) (title, body string, err error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(content))
	if err != nil {
		return "", "", err
	}
	title = wiki.DocumentTitle(doc)
	if sel := doc.Find(articleBodySelector).First(); sel.Length() > 0 {
		if body, err = goquery.OuterHtml(sel); err != nil {
			return "", "", err
		}
		return title, body, nil
	}
	return title, string(content), nil
}

// IndexDirectory walks dir recursively and indexes each regular file whose extension
// is in allowedExts (if non-empty; otherwise all files). Returns the number
// of files indexed and the first error encountered, if any.
func (idx *Indexer) IndexDirectory(ctx context.Context, dir string, allowedExts []string) (n int, err error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return 0, fmt.Errorf("absolute path: %w", err)
	}
	info, err := os.Stat(absDir)
	if err != nil {
		return 0, fmt.Errorf("stat directory: %w", err)
	}
	if !info.IsDir() {
		return 0, fmt.Errorf("not a directory: %s", absDir)
	}
	err = filepath.WalkDir(absDir, func(path string, d os.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if len(allowedExts) > 0 && !extensionAllowed(ext, allowedExts) {
			return nil
		}
		// Resolve symlinks so we only index regular files
		finfo, statErr := os.Stat(path)
		if statErr != nil || !finfo.Mode().IsRegular() {
			return nil
		}
		if indexErr := idx.IndexFile(ctx, path, allowedExts); indexErr != nil {
			return indexErr
		}
		n++
		return nil
	})
	return n, err
}

// Reindex rebuilds the keyword index from storage and returns the number of articles indexed.
func (idx *Indexer) Reindex(ctx context.Context) (int, error) {
	n := 0
	for offset := 0; ; offset += reindexBatch {
		articles, err := idx.storage.ListArticles(ctx, offset, reindexBatch)
		if err != nil {
			return n, fmt.Errorf("failed to list articles: %w", err)
		}
		for _, a := range articles {
			if err := idx.keywordIndex.Index(ctx, a); err != nil {
				return n, fmt.Errorf("failed to index keywords: %w", err)
			}
			n++
		}
		if len(articles) < reindexBatch {
			return n, nil
		}
	}
}

func extensionAllowed(ext string, allowed []string) bool {
	extNorm := strings.ToLower(strings.TrimPrefix(ext, "."))
	for _, a := range allowed {
		if strings.ToLower(strings.TrimPrefix(a, ".")) == extNorm {
			return true
		}
	}
	return false
}

// DeleteArticle removes an article from the keyword index and storage.
func (idx *Indexer) DeleteArticle(ctx context.Context, id string) error {
	idx.logger.Debug("indexer deleting article", zap.String("id", id))
	if err := idx.keywordIndex.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete from keyword index: %w", err)
	}
	if err := idx.storage.DeleteArticle(ctx, id); err != nil {
		return fmt.Errorf("failed to delete article: %w", err)
	}
	return nil
}

// DeleteFile removes the article imported from path.
func (idx *Indexer) DeleteFile(ctx context.Context, path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("absolute path: %w", err)
	}
	return idx.DeleteArticle(ctx, fileid.FileDocID(absPath))
}
