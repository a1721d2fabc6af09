// Package wiki is a small MediaWiki action API client for fetching rendered articles and
// searching titles.
package wiki

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hyperjump/wikitime/internal/fileid"
	"github.com/hyperjump/wikitime/internal/models"
	"go.uber.org/zap"
)

// ErrArticleNotFound is returned when the API reports the page does not exist.
var ErrArticleNotFound = errors.New("article not found")

const (
	defaultSearchLimit = 20
	maxSearchLimit     = 50
)

// Client calls a MediaWiki action API endpoint.
type Client struct {
	apiURL    string
	userAgent string
	client    *http.Client
	logger    *zap.Logger
	now       func() time.Time
}

// NewClient returns a client for apiURL (e.g. https://en.wikipedia.org/w/api.php).
func NewClient(apiURL, userAgent string, timeout time.Duration, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	tr := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 60 * time.Second,
		}).DialContext,
		MaxIdleConns:        20,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,
	}
	return &Client{
		apiURL:    strings.TrimRight(apiURL, "/"),
		userAgent: userAgent,
		client:    &http.Client{Timeout: timeout, Transport: tr},
		logger:    logger,
		now:       time.Now,
	}
}

type apiError struct {
	Code string `json:"code"`
	Info string `json:"info"`
}

type parseResponse struct {
	Error *apiError `json:"error"`
	Parse *struct {
		Title      string `json:"title"`
		PageID     int64  `json:"pageid"`
		RevID      int64  `json:"revid"`
		Text       string `json:"text"`
		Categories []struct {
			Category string `json:"category"`
			Hidden   bool   `json:"hidden"`
		} `json:"categories"`
	} `json:"parse"`
}

type searchResponse struct {
	Error *apiError `json:"error"`
	Query *struct {
		Search []struct {
			Title   string `json:"title"`
			PageID  int64  `json:"pageid"`
			Snippet string `json:"snippet"`
		} `json:"search"`
	} `json:"query"`
}

// FetchArticle returns the rendered HTML of title, following redirects. Returns
// ErrArticleNotFound when the page does not exist.
func (c *Client) FetchArticle(ctx context.Context, title string) (*models.Article, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, errors.New("title is required")
	}
	q := url.Values{}
	q.Set("action", "parse")
	q.Set("page", title)
	q.Set("format", "json")
	q.Set("prop", "text|sections|categories")
	q.Set("formatversion", "2")
	q.Set("redirects", "1")
	q.Set("disablelimitreport", "1")

	var resp parseResponse
	if err := c.get(ctx, q, &resp); err != nil {
		return nil, err
	}
	if resp.Error != nil {
		if resp.Error.Code == "missingtitle" || resp.Error.Code == "invalidtitle" {
			return nil, fmt.Errorf("%s: %w", title, ErrArticleNotFound)
		}
		return nil, fmt.Errorf("wikipedia: %s: %s", resp.Error.Code, resp.Error.Info)
	}
	if resp.Parse == nil {
		return nil, errors.New("wikipedia: missing parse result")
	}

	p := resp.Parse
	categories := make([]string, 0, len(p.Categories))
	for _, cat := range p.Categories {
		if !cat.Hidden {
			categories = append(categories, strings.ReplaceAll(cat.Category, "_", " "))
		}
	}
	now := c.now().UTC()
	c.logger.Debug("fetched article",
		zap.String("title", p.Title),
		zap.Int64("page_id", p.PageID),
		zap.Int("bytes", len(p.Text)))
	return &models.Article{
		ID:         fileid.ArticleID(p.Title),
		Title:      p.Title,
		HTML:       p.Text,
		Text:       PlainText(p.Text),
		Source:     models.SourceWikipedia,
		PageID:     p.PageID,
		RevisionID: p.RevID,
		Categories: categories,
		FetchedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// Search runs a full-text title search. limit is clamped to [1, 50]; 0 means 20.
func (c *Client) Search(ctx context.Context, term string, limit int) ([]*models.SearchHit, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return []*models.SearchHit{}, nil
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}
	q := url.Values{}
	q.Set("action", "query")
	q.Set("list", "search")
	q.Set("srsearch", term)
	q.Set("srlimit", strconv.Itoa(limit))
	q.Set("format", "json")
	q.Set("formatversion", "2")

	var resp searchResponse
	if err := c.get(ctx, q, &resp); err != nil {
		return nil, err
	}
	if resp.Error != nil {
		return nil, fmt.Errorf("wikipedia: %s: %s", resp.Error.Code, resp.Error.Info)
	}
	hits := []*models.SearchHit{}
	if resp.Query == nil {
		return hits, nil
	}
	for _, s := range resp.Query.Search {
		hits = append(hits, &models.SearchHit{
			ID:      fileid.ArticleID(s.Title),
			Title:   s.Title,
			Snippet: PlainText(s.Snippet),
			PageID:  s.PageID,
		})
	}
	return hits, nil
}

func (c *Client) get(ctx context.Context, q url.Values, out any) error {
	u := fmt.Sprintf("%s?%s", c.apiURL, q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("wikipedia request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("wikipedia: rate limited (%d)", resp.StatusCode)
	}
	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("wikipedia: http %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode wikipedia response: %w", err)
	}
	return nil
}
