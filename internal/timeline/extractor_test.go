package timeline

import (
	"testing"

	"github.com/hyperjump/wikitime/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const mixedArticle = `<div class="mw-parser-output">
<p>The kingdom was founded in 1200 CE by a famous and influential king.</p>
<table class="wikitable">
	<tr><th>Year</th><th>Event</th></tr>
	<tr><td>1250</td><td>Great Council convened</td></tr>
	<tr><td>1300</td><td>A major battle was fought</td></tr>
</table>
<h2>History</h2>
<ul><li>1350 AD: The plague arrived</li></ul>
</div>`

func TestExtractor_RoundTripParagraph(t *testing.T) {
	ds := NewExtractor().ExtractHTML(`<p>The city was founded in 1200 CE and destroyed in 500 BCE during a major conflict.</p>`)
	require.Len(t, ds.Events, 2)
	assert.Equal(t, 1200, ds.Events[0].Date)
	assert.Equal(t, -500, ds.Events[1].Date)
	assert.Equal(t, "Military", ds.Events[1].Category)
	assert.GreaterOrEqual(t, ds.Events[1].Importance, 2)
	assert.Equal(t, models.TimeRange{Min: -585, Max: 1285}, ds.TimeRange)
	assert.Equal(t, []string{"Military"}, ds.Categories)
}

func TestExtractor_MixedSourcesInDiscoveryOrder(t *testing.T) {
	ds := NewExtractor().ExtractHTML(mixedArticle)
	require.Len(t, ds.Events, 4)
	assert.Equal(t, []int{1200, 1250, 1300, 1350}, dates(ds.Events))
	for i, e := range ds.Events {
		assert.Equal(t, i+1, e.ID)
	}
	assert.Equal(t, 3, ds.Events[0].Importance)
	assert.True(t, ds.Events[0].Highlight)
	assert.Equal(t, "Military", ds.Events[2].Category)
	assert.Equal(t, "1350 AD", ds.Events[3].Title)
	assert.Equal(t, []string{"Military"}, ds.Categories)
	assert.Equal(t, models.TimeRange{Min: 1192, Max: 1358}, ds.TimeRange)
}

func TestExtractor_TooFewEvents(t *testing.T) {
	e := NewExtractor()
	assert.Equal(t, models.EmptyDataset(), e.ExtractHTML(`<p>Founded in 1200 CE.</p>`))
	assert.Equal(t, models.EmptyDataset(), e.ExtractHTML(``))
	assert.Equal(t, models.EmptyDataset(), e.ExtractHTML(`<p>No dates at all.</p>`))
	assert.Equal(t, models.EmptyDataset(), e.Extract(nil))
}

func TestExtractor_Idempotent(t *testing.T) {
	e := NewExtractor()
	first := e.ExtractHTML(mixedArticle)
	second := e.ExtractHTML(mixedArticle)
	assert.Equal(t, first, second)
}

func TestExtractor_Invariants(t *testing.T) {
	markup := mixedArticle + `
<p>A significant, pivotal, historic and remarkable treaty in 1648 ended the war. Born 1650.</p>
<p>The museum opened in 1890 and a famous opera premiered in 1900.</p>`
	ds := NewExtractor().ExtractHTML(markup)
	require.NotEmpty(t, ds.Events)
	assert.LessOrEqual(t, ds.TimeRange.Min, ds.TimeRange.Max)

	seen := make(map[string]bool)
	for _, c := range ds.Categories {
		assert.False(t, seen[c], "duplicate category %s", c)
		assert.NotEqual(t, models.GeneralCategory, c)
		seen[c] = true
	}
	ids := make(map[int]bool)
	for _, e := range ds.Events {
		assert.Equal(t, e.Importance >= 3, e.Highlight)
		assert.GreaterOrEqual(t, e.Importance, 1)
		assert.LessOrEqual(t, e.Importance, 5)
		assert.True(t, ds.TimeRange.Contains(e.Date))
		assert.False(t, ids[e.ID], "duplicate id %d", e.ID)
		ids[e.ID] = true
		if e.Category != models.GeneralCategory {
			assert.True(t, seen[e.Category], "category %s missing from set", e.Category)
		}
	}
}

type panicScanner struct{}

func (panicScanner) Name() string { return "boom" }

func (panicScanner) Scan(Document, *IDCounter) []models.TimelineEvent {
	panic("malformed markup")
}

func TestExtractor_ScannerFailureIsolated(t *testing.T) {
	m := NewDateMatcher()
	e := NewExtractor(
		WithLogger(zap.NewNop()),
		WithScanners(panicScanner{}, NewProseScanner(m), NewTableScanner(m, nil)),
	)
	doc, err := ParseHTMLString(mixedArticle)
	require.NoError(t, err)

	report := e.Run(doc)
	assert.Equal(t, []string{"boom"}, report.Failed)
	assert.Equal(t, 1, report.Candidates["prose"])
	assert.Equal(t, 2, report.Candidates["table"])
	assert.Equal(t, []int{1200, 1250, 1300}, dates(report.Dataset.Events))
}

type panicDocument struct{}

func (panicDocument) QueryAll(string) []Node {
	panic("detached tree")
}

func TestExtractor_AllScannersFailing(t *testing.T) {
	report := NewExtractor().Run(panicDocument{})
	assert.Equal(t, models.EmptyDataset(), report.Dataset)
	assert.ElementsMatch(t, []string{"prose", "table", "section"}, report.Failed)
}
