// Package storage provides SQLite implementation of the Storage interface.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/hyperjump/wikitime/internal/fileid"
	"github.com/hyperjump/wikitime/internal/models"
)

const articleColumns = `id, title, html, text, source, page_id, revision_id, categories, fetched_at, updated_at`

// SQLiteStorage implements Storage using SQLite.
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage opens or creates a SQLite database at dbPath and initializes the schema.
// Parent directories are created if they do not exist.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS articles (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		title_key TEXT NOT NULL,
		html TEXT NOT NULL,
		text TEXT,
		source TEXT NOT NULL,
		page_id INTEGER,
		revision_id INTEGER,
		categories TEXT,
		fetched_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_articles_title_key ON articles(title_key);
	CREATE INDEX IF NOT EXISTS idx_articles_updated_at ON articles(updated_at);
	`
	_, err := db.Exec(schema)
	return err
}

// SaveArticle upserts an article by ID. FetchedAt defaults to now; UpdatedAt is always now.
func (s *SQLiteStorage) SaveArticle(ctx context.Context, article *models.Article) error {
	if article.ID == "" {
		return errors.New("article id is required")
	}
	categoriesJSON, err := json.Marshal(article.Categories)
	if err != nil {
		return fmt.Errorf("failed to marshal categories: %w", err)
	}

	now := time.Now().UTC()
	if article.FetchedAt.IsZero() {
		article.FetchedAt = now
	}
	article.UpdatedAt = now

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO articles (id, title, title_key, html, text, source, page_id, revision_id, categories, fetched_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			title_key = excluded.title_key,
			html = excluded.html,
			text = excluded.text,
			source = excluded.source,
			page_id = excluded.page_id,
			revision_id = excluded.revision_id,
			categories = excluded.categories,
			fetched_at = excluded.fetched_at,
			updated_at = excluded.updated_at`,
		article.ID, article.Title, fileid.NormalizeTitle(article.Title), article.HTML, article.Text,
		article.Source, article.PageID, article.RevisionID, string(categoriesJSON),
		article.FetchedAt, article.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save article %s: %w", article.ID, err)
	}
	return nil
}

// GetArticle returns an article by ID.
func (s *SQLiteStorage) GetArticle(ctx context.Context, id string) (*models.Article, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+articleColumns+` FROM articles WHERE id = ?`, id)
	article, err := scanArticle(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	return article, err
}

// GetArticleByTitle returns the most recently updated article with a matching title.
func (s *SQLiteStorage) GetArticleByTitle(ctx context.Context, title string) (*models.Article, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+articleColumns+` FROM articles WHERE title_key = ?
		 ORDER BY updated_at DESC LIMIT 1`, fileid.NormalizeTitle(title))
	article, err := scanArticle(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", title, ErrNotFound)
	}
	return article, err
}

// DeleteArticle removes an article by ID. Deleting a missing article is not an error.
func (s *SQLiteStorage) DeleteArticle(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM articles WHERE id = ?`, id)
	return err
}

// ListArticles returns articles, most recently updated first, with offset and limit.
func (s *SQLiteStorage) ListArticles(ctx context.Context, offset, limit int) ([]*models.Article, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+articleColumns+` FROM articles ORDER BY updated_at DESC, id LIMIT ? OFFSET ?`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var articles []*models.Article
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, article)
	}
	return articles, rows.Err()
}

// CountArticles returns the total number of stored articles.
func (s *SQLiteStorage) CountArticles(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM articles`).Scan(&count)
	return count, err
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanArticle(row rowScanner) (*models.Article, error) {
	var article models.Article
	var text, categoriesJSON sql.NullString
	var pageID, revisionID sql.NullInt64
	err := row.Scan(&article.ID, &article.Title, &article.HTML, &text, &article.Source,
		&pageID, &revisionID, &categoriesJSON, &article.FetchedAt, &article.UpdatedAt)
	if err != nil {
		return nil, err
	}
	article.Text = text.String
	article.PageID = pageID.Int64
	article.RevisionID = revisionID.Int64
	if categoriesJSON.String != "" && categoriesJSON.String != "null" {
		if err := json.Unmarshal([]byte(categoriesJSON.String), &article.Categories); err != nil {
			return nil, fmt.Errorf("failed to unmarshal categories: %w", err)
		}
	}
	return &article, nil
}
