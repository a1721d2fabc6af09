package timeline

import (
	"github.com/hyperjump/wikitime/internal/models"
	"go.uber.org/zap"
)

// Title limits.
const (
	clauseTitleMax = 60
	tableTitleMax  = 100
)

// Scanner is one independent extraction strategy over a parsed article.
type Scanner interface {
	// Name identifies the scanner in logs and metrics.
	Name() string
	// Scan emits candidate events, drawing IDs from ids in discovery order.
	Scan(doc Document, ids *IDCounter) []models.TimelineEvent
}

// IDCounter hands out event IDs for one extraction run.
type IDCounter struct {
	next int
}

// NewIDCounter returns a counter whose first ID is 1.
func NewIDCounter() *IDCounter {
	return &IDCounter{next: 1}
}

// Next returns the next ID.
func (c *IDCounter) Next() int {
	id := c.next
	c.next++
	return id
}

// Issued returns how many IDs have been handed out.
func (c *IDCounter) Issued() int {
	return c.next - 1
}

// DefaultScanners returns the prose, table and list-section scanners in processing order.
func DefaultScanners(m *DateMatcher, logger *zap.Logger) []Scanner {
	return []Scanner{
		NewProseScanner(m),
		NewTableScanner(m, logger),
		NewSectionScanner(m),
	}
}
