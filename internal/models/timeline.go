// Package models defines core data structures for articles, timelines, and queries.
package models

// GeneralCategory is the category carried by events the classifier could not place.
// It is never listed in TimelineDataset.Categories.
const GeneralCategory = "General"

// HighlightThreshold is the importance from which an event is highlighted.
const HighlightThreshold = 3

// TimelineEvent is one dated finding extracted from an article.
// Date is a signed year: negative values are BCE, non-negative values CE.
type TimelineEvent struct {
	ID          int    `json:"id"`
	Date        int    `json:"date"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Importance  int    `json:"importance"`
	Highlight   bool   `json:"highlight"`
}

// NewTimelineEvent builds an event, clamping importance to [1,5] and deriving Highlight.
// An empty category becomes GeneralCategory.
func NewTimelineEvent(id, date int, title, description, category string, importance int) TimelineEvent {
	if importance < 1 {
		importance = 1
	}
	if importance > 5 {
		importance = 5
	}
	if category == "" {
		category = GeneralCategory
	}
	return TimelineEvent{
		ID:          id,
		Date:        date,
		Title:       title,
		Description: description,
		Category:    category,
		Importance:  importance,
		Highlight:   importance >= HighlightThreshold,
	}
}

// TimeRange is an inclusive range of signed years.
type TimeRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Span returns Max - Min.
func (r TimeRange) Span() int {
	return r.Max - r.Min
}

// Contains reports whether year lies within the range.
func (r TimeRange) Contains(year int) bool {
	return year >= r.Min && year <= r.Max
}

// TimelineDataset is the renderable result of one extraction call.
type TimelineDataset struct {
	Events     []TimelineEvent `json:"events"`
	TimeRange  TimeRange       `json:"timeRange"`
	Categories []string        `json:"categories"`
}

// EmptyDataset returns the canonical empty dataset. Slices are non-nil so they encode as [].
func EmptyDataset() *TimelineDataset {
	return &TimelineDataset{
		Events:     []TimelineEvent{},
		TimeRange:  TimeRange{},
		Categories: []string{},
	}
}

// IsEmpty reports whether the dataset carries no events.
func (d *TimelineDataset) IsEmpty() bool {
	return d == nil || len(d.Events) == 0
}
