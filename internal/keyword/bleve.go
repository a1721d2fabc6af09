package keyword

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/hyperjump/wikitime/internal/models"
)

const (
	defaultTitleBoost = 3.0
	maxFuzziness      = 2
)

// articleDoc is the indexed shape of an article.
type articleDoc struct {
	Title  string `json:"title"`
	Text   string `json:"text"`
	Source string `json:"source"`
}

// BleveIndex implements KeywordIndex using Bleve.
type BleveIndex struct {
	index bleve.Index
}

// NewBleveIndex creates or opens a Bleve index at path.
// If the path already exists, the existing index is opened and reused.
// If you change the index mapping in code, remove the index directory to force a full re-index.
func NewBleveIndex(path string) (*BleveIndex, error) {
	im := bleve.NewIndexMapping()

	docMapping := bleve.NewDocumentMapping()
	// Standard analyzer (lowercase + tokenize, no stemming) so "Byzantine" matches exactly.
	textFieldMapping := bleve.NewTextFieldMapping()
	textFieldMapping.Analyzer = standard.Name
	docMapping.AddFieldMappingsAt("title", textFieldMapping)
	docMapping.AddFieldMappingsAt("text", textFieldMapping)
	sourceMapping := bleve.NewKeywordFieldMapping()
	docMapping.AddFieldMappingsAt("source", sourceMapping)
	im.AddDocumentMapping("article", docMapping)
	im.DefaultType = "article"
	im.DefaultMapping = docMapping

	if _, err := os.Stat(path); err == nil {
		index, openErr := bleve.Open(path)
		if openErr != nil {
			return nil, fmt.Errorf("failed to open Bleve index: %w", openErr)
		}
		return &BleveIndex{index: index}, nil
	}

	index, err := bleve.New(path, im)
	if err != nil {
		return nil, fmt.Errorf("failed to create Bleve index: %w", err)
	}
	return &BleveIndex{index: index}, nil
}

// Index indexes an article under its ID, replacing any previous version.
func (b *BleveIndex) Index(ctx context.Context, article *models.Article) error {
	doc := articleDoc{Title: article.Title, Text: article.Text, Source: article.Source}
	if err := b.index.Index(article.ID, doc); err != nil {
		return fmt.Errorf("failed to index article %s: %w", article.ID, err)
	}
	return nil
}

// Search matches query against title and text, title matches weighted by opts.TitleBoost.
// Results carry the stored title and a highlighted text fragment.
func (b *BleveIndex) Search(ctx context.Context, query string, limit int, opts *SearchOptions) ([]*KeywordResult, error) {
	query = strings.TrimSpace(query)
	if query == "" || limit <= 0 {
		return []*KeywordResult{}, nil
	}
	titleBoost := defaultTitleBoost
	fuzziness := 0
	if opts != nil {
		if opts.TitleBoost > 0 {
			titleBoost = opts.TitleBoost
		}
		fuzziness = min(max(opts.Fuzziness, 0), maxFuzziness)
	}

	tq := bleve.NewMatchQuery(query)
	tq.SetField("title")
	tq.SetBoost(titleBoost)
	tq.SetFuzziness(fuzziness)
	cq := bleve.NewMatchQuery(query)
	cq.SetField("text")
	cq.SetFuzziness(fuzziness)

	req := bleve.NewSearchRequest(bleve.NewDisjunctionQuery(tq, cq))
	req.Size = limit
	req.Fields = []string{"title"}
	req.Highlight = bleve.NewHighlight()
	req.Highlight.AddField("text")

	results, err := b.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("Bleve search failed: %w", err)
	}
	out := make([]*KeywordResult, len(results.Hits))
	for i, hit := range results.Hits {
		r := &KeywordResult{ID: hit.ID, Score: hit.Score}
		if title, ok := hit.Fields["title"].(string); ok {
			r.Title = title
		}
		if frags := hit.Fragments["text"]; len(frags) > 0 {
			r.Snippet = frags[0]
		}
		out[i] = r
	}
	return out, nil
}

// Delete removes an article from the index.
func (b *BleveIndex) Delete(ctx context.Context, id string) error {
	return b.index.Delete(id)
}

// Close closes the Bleve index.
func (b *BleveIndex) Close() error {
	return b.index.Close()
}

// DocCount returns the total number of articles in the index.
func (b *BleveIndex) DocCount() (uint64, error) {
	return b.index.DocCount()
}
