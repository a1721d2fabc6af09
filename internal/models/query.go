package models

import "fmt"

// CategoryAll matches every category in a TimelineQuery.
const CategoryAll = "all"

// TimelineQuery narrows a dataset to the events a view should show.
// Start and End are optional; nil means the dataset bound.
type TimelineQuery struct {
	Text     string `json:"q,omitempty"`
	Category string `json:"category,omitempty"`
	Start    *int   `json:"start,omitempty"`
	End      *int   `json:"end,omitempty"`
	Limit    int    `json:"limit,omitempty"`
}

// Validate checks the range bounds and normalizes the category and limit.
func (q *TimelineQuery) Validate() error {
	if q.Start != nil && q.End != nil && *q.Start > *q.End {
		return fmt.Errorf("start %d is after end %d", *q.Start, *q.End)
	}
	if q.Category == "" {
		q.Category = CategoryAll
	}
	if q.Limit < 0 {
		q.Limit = 0
	}
	return nil
}

// IsZero reports whether the query filters nothing.
func (q *TimelineQuery) IsZero() bool {
	return q.Text == "" && (q.Category == "" || q.Category == CategoryAll) &&
		q.Start == nil && q.End == nil && q.Limit == 0
}
