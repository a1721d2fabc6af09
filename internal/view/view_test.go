package view

import (
	"testing"

	"github.com/hyperjump/wikitime/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func sample() *models.TimelineDataset {
	return &models.TimelineDataset{
		Events: []models.TimelineEvent{
			models.NewTimelineEvent(1, 1200, "Founding", "The city was founded", "", 1),
			models.NewTimelineEvent(2, -500, "Destruction", "A major conflict", "Military", 2),
			models.NewTimelineEvent(3, 1200, "Cathedral", "The church was consecrated", "Religion", 1),
			models.NewTimelineEvent(4, 1800, "Siege", "Battle at the walls", "Military", 3),
		},
		TimeRange:  models.TimeRange{Min: -615, Max: 1915},
		Categories: []string{"Military", "Religion"},
	}
}

func ids(events []models.TimelineEvent) []int {
	out := make([]int, len(events))
	for i, e := range events {
		out[i] = e.ID
	}
	return out
}

func TestFilter(t *testing.T) {
	ds := sample()
	tests := []struct {
		name  string
		query *models.TimelineQuery
		want  []int
	}{
		{"nil query sorts", nil, []int{2, 1, 3, 4}},
		{"text in title", &models.TimelineQuery{Text: "siege"}, []int{4}},
		{"text in description", &models.TimelineQuery{Text: "CONFLICT"}, []int{2}},
		{"category", &models.TimelineQuery{Category: "Military"}, []int{2, 4}},
		{"category all", &models.TimelineQuery{Category: models.CategoryAll}, []int{2, 1, 3, 4}},
		{"general category", &models.TimelineQuery{Category: models.GeneralCategory}, []int{1}},
		{"range", &models.TimelineQuery{Start: intPtr(0), End: intPtr(1500)}, []int{1, 3}},
		{"limit", &models.TimelineQuery{Limit: 2}, []int{2, 1}},
		{"no match", &models.TimelineQuery{Text: "zeppelin"}, []int{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Filter(ds, tt.query)))
		})
	}
}

func TestFilter_DoesNotMutateDataset(t *testing.T) {
	ds := sample()
	_ = Filter(ds, &models.TimelineQuery{Category: "Military"})
	assert.Equal(t, []int{1, 2, 3, 4}, ids(ds.Events))
}

func TestApply(t *testing.T) {
	ds := sample()
	got := Apply(ds, &models.TimelineQuery{Start: intPtr(0)})
	assert.Equal(t, models.TimeRange{Min: 0, Max: 1915}, got.TimeRange)
	assert.Equal(t, []int{1, 3, 4}, ids(got.Events))
	assert.Equal(t, ds.Categories, got.Categories)

	assert.Equal(t, models.EmptyDataset(), Apply(models.EmptyDataset(), nil))
}

func TestPosition(t *testing.T) {
	assert.Equal(t, 50.0, Position(1500, 1000, 2000))
	assert.Equal(t, 0.0, Position(500, 1000, 2000))
	assert.Equal(t, 100.0, Position(2500, 1000, 2000))
	assert.Equal(t, 0.0, Position(1000, 1000, 1000))
}

func TestFormatYear(t *testing.T) {
	assert.Equal(t, "500 BCE", FormatYear(-500))
	assert.Equal(t, "1200 CE", FormatYear(1200))
	assert.Equal(t, "0 CE", FormatYear(0))
}

func TestViewport_Zoom(t *testing.T) {
	v := NewViewport(models.TimeRange{Min: 0, Max: 1000})
	assert.Equal(t, 0.0, v.Start)
	assert.Equal(t, 1000.0, v.End)

	v.SetZoom(200)
	assert.Equal(t, 200, v.Zoom)
	assert.Equal(t, 250.0, v.Start)
	assert.Equal(t, 750.0, v.End)

	v.SetZoom(500)
	assert.Equal(t, maxZoom, v.Zoom)

	v.SetZoom(50)
	assert.Equal(t, 0.0, v.Start)
	assert.Equal(t, 1000.0, v.End)

	v.SetZoom(1)
	assert.Equal(t, minZoom, v.Zoom)

	v.Reset()
	v.ZoomIn()
	assert.Equal(t, 110, v.Zoom)
	v.ZoomOut()
	v.ZoomOut()
	assert.Equal(t, 90, v.Zoom)
}

func TestViewport_Pan(t *testing.T) {
	v := NewViewport(models.TimeRange{Min: 0, Max: 1000})
	v.SetZoom(200)
	require.Equal(t, 250.0, v.Start)

	v.PanRight()
	assert.InDelta(t, 350.0, v.Start, 1e-9)
	assert.InDelta(t, 850.0, v.End, 1e-9)

	v.PanRight()
	assert.InDelta(t, 450.0, v.Start, 1e-9)
	assert.InDelta(t, 950.0, v.End, 1e-9)

	v.PanRight()
	assert.InDelta(t, 500.0, v.Start, 1e-9)
	assert.InDelta(t, 1000.0, v.End, 1e-9)

	v.PanLeft()
	assert.InDelta(t, 400.0, v.Start, 1e-9)
	assert.InDelta(t, 900.0, v.End, 1e-9)
	v.PanLeft()
	v.PanLeft()
	v.PanLeft()
	assert.InDelta(t, 100.0, v.Start, 1e-9)
	v.PanLeft()
	assert.InDelta(t, 0.0, v.Start, 1e-9)
	assert.InDelta(t, 500.0, v.End, 1e-9)
	v.PanLeft()
	assert.InDelta(t, 0.0, v.Start, 1e-9)
	assert.InDelta(t, 500.0, v.End, 1e-9)

	assert.True(t, v.Visible(250))
	assert.False(t, v.Visible(750))
	assert.InDelta(t, 50.0, v.Position(250), 1e-9)
}
