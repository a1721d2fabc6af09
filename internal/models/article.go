package models

import "time"

// Article sources.
const (
	SourceWikipedia = "wikipedia"
	SourceFile      = "file"
	SourceUpload    = "upload"
)

// Article is an encyclopedia article body as fetched or imported.
type Article struct {
	ID         string    `json:"id" db:"id"`
	Title      string    `json:"title" db:"title"`
	HTML       string    `json:"html" db:"html"`
	Text       string    `json:"text,omitempty" db:"text"`
	Source     string    `json:"source" db:"source"`
	PageID     int64     `json:"page_id,omitempty" db:"page_id"`
	RevisionID int64     `json:"revision_id,omitempty" db:"revision_id"`
	Categories []string  `json:"categories,omitempty" db:"-"`
	FetchedAt  time.Time `json:"fetched_at" db:"fetched_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// SearchHit is one article search result, local or remote.
type SearchHit struct {
	ID      string  `json:"id,omitempty"`
	Title   string  `json:"title"`
	Snippet string  `json:"snippet,omitempty"`
	PageID  int64   `json:"page_id,omitempty"`
	Score   float64 `json:"score,omitempty"`
}

// SearchResponse is the response for an article search.
type SearchResponse struct {
	Query     string       `json:"query"`
	Remote    bool         `json:"remote"`
	Hits      []*SearchHit `json:"hits"`
	QueryTime int64        `json:"query_time_ms"`
}
