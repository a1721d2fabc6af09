// Package view derives read-only views of a timeline dataset: filtered and sorted event
// lists, axis positions, and a zoomable, pannable viewport.
package view

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hyperjump/wikitime/internal/models"
	"github.com/hyperjump/wikitime/pkg/utils"
)

// Zoom bounds in percent of the full range.
const (
	minZoom   = 10
	maxZoom   = 200
	zoomStep  = 10
	baseZoom  = 100
	panFactor = 0.2
)

// Filter returns the events of ds that match q, sorted chronologically. The dataset is
// not modified.
func Filter(ds *models.TimelineDataset, q *models.TimelineQuery) []models.TimelineEvent {
	if ds == nil {
		return []models.TimelineEvent{}
	}
	if q == nil {
		q = &models.TimelineQuery{}
	}
	text := strings.ToLower(strings.TrimSpace(q.Text))
	out := make([]models.TimelineEvent, 0, len(ds.Events))
	for _, e := range ds.Events {
		if text != "" &&
			!strings.Contains(strings.ToLower(e.Title), text) &&
			!strings.Contains(strings.ToLower(e.Description), text) {
			continue
		}
		if q.Category != "" && q.Category != models.CategoryAll && e.Category != q.Category {
			continue
		}
		if q.Start != nil && e.Date < *q.Start {
			continue
		}
		if q.End != nil && e.Date > *q.End {
			continue
		}
		out = append(out, e)
	}
	out = SortChronological(out)
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out
}

// Apply narrows ds by q. The returned dataset keeps the full category list and, when a
// range bound is given, uses it as the time range.
func Apply(ds *models.TimelineDataset, q *models.TimelineQuery) *models.TimelineDataset {
	if ds.IsEmpty() {
		return models.EmptyDataset()
	}
	rng := ds.TimeRange
	if q != nil && q.Start != nil {
		rng.Min = *q.Start
	}
	if q != nil && q.End != nil {
		rng.Max = *q.End
	}
	categories := make([]string, len(ds.Categories))
	copy(categories, ds.Categories)
	return &models.TimelineDataset{
		Events:     Filter(ds, q),
		TimeRange:  rng,
		Categories: categories,
	}
}

// SortChronological returns a copy of events ordered by date, ties kept in ID order.
func SortChronological(events []models.TimelineEvent) []models.TimelineEvent {
	out := make([]models.TimelineEvent, len(events))
	copy(out, events)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Position places date on an axis spanning [start, end] as a percentage in [0, 100].
// An empty axis places everything at 0.
func Position(date int, start, end float64) float64 {
	span := end - start
	if span <= 0 {
		return 0
	}
	return utils.Clamp((float64(date)-start)/span*100, 0, 100)
}

// FormatYear renders a signed year as "N BCE" or "N CE".
func FormatYear(year int) string {
	if year < 0 {
		return fmt.Sprintf("%d BCE", -year)
	}
	return fmt.Sprintf("%d CE", year)
}

// Viewport is the visible sub-range of a timeline axis.
type Viewport struct {
	Bounds models.TimeRange `json:"bounds"`
	Start  float64          `json:"start"`
	End    float64          `json:"end"`
	Zoom   int              `json:"zoom"`
}

// NewViewport returns a viewport showing all of bounds at 100%.
func NewViewport(bounds models.TimeRange) *Viewport {
	v := &Viewport{Bounds: bounds}
	v.Reset()
	return v
}

// Reset shows the full range at 100%.
func (v *Viewport) Reset() {
	v.Zoom = baseZoom
	v.Start = float64(v.Bounds.Min)
	v.End = float64(v.Bounds.Max)
}

// SetZoom rescales the visible range around its middle. level is a percentage clamped to
// [10, 200]; the result never leaves the bounds.
func (v *Viewport) SetZoom(level int) {
	level = utils.Clamp(level, minZoom, maxZoom)
	v.Zoom = level
	full := float64(v.Bounds.Span())
	middle := (v.Start + v.End) / 2
	half := full * (float64(baseZoom) / float64(level)) / 2
	v.Start = max(float64(v.Bounds.Min), middle-half)
	v.End = min(float64(v.Bounds.Max), middle+half)
}

// ZoomIn narrows the visible range by one step.
func (v *Viewport) ZoomIn() { v.SetZoom(v.Zoom + zoomStep) }

// ZoomOut widens the visible range by one step.
func (v *Viewport) ZoomOut() { v.SetZoom(v.Zoom - zoomStep) }

// PanLeft moves the visible range back by 20% of its width, stopping at the lower bound.
func (v *Viewport) PanLeft() {
	width := v.End - v.Start
	move := width * panFactor
	if v.Start-move >= float64(v.Bounds.Min) {
		v.Start -= move
		v.End -= move
		return
	}
	v.Start = float64(v.Bounds.Min)
	v.End = v.Start + width
}

// PanRight moves the visible range forward by 20% of its width, stopping at the upper bound.
func (v *Viewport) PanRight() {
	width := v.End - v.Start
	move := width * panFactor
	if v.End+move <= float64(v.Bounds.Max) {
		v.Start += move
		v.End += move
		return
	}
	v.End = float64(v.Bounds.Max)
	v.Start = v.End - width
}

// Visible reports whether date lies in the visible range.
func (v *Viewport) Visible(date int) bool {
	d := float64(date)
	return d >= v.Start && d <= v.End
}

// Position places date within the visible range.
func (v *Viewport) Position(date int) float64 {
	return Position(date, v.Start, v.End)
}
