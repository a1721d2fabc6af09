package timeline

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/hyperjump/wikitime/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, markup string) Document {
	t.Helper()
	doc, err := ParseHTMLString(markup)
	require.NoError(t, err)
	return doc
}

func dates(events []models.TimelineEvent) []int {
	out := make([]int, len(events))
	for i, e := range events {
		out[i] = e.Date
	}
	return out
}

func TestIDCounter(t *testing.T) {
	ids := NewIDCounter()
	assert.Equal(t, 0, ids.Issued())
	assert.Equal(t, 1, ids.Next())
	assert.Equal(t, 2, ids.Next())
	assert.Equal(t, 2, ids.Issued())
}

func TestProseScanner(t *testing.T) {
	doc := mustParse(t, `<p>The city was founded in 1200 CE and destroyed in 500 BCE during a major conflict.</p>`)
	events := NewProseScanner(NewDateMatcher()).Scan(doc, NewIDCounter())
	require.Len(t, events, 2)
	assert.Equal(t, []int{1200, -500}, dates(events))
	for _, e := range events {
		assert.Equal(t, "Military", e.Category)
		assert.GreaterOrEqual(t, e.Importance, 2)
		assert.Equal(t, "The city was founded in 1200 CE and destroyed in 500 BCE during a major conflict.", e.Description)
		assert.LessOrEqual(t, utf8.RuneCountInString(e.Title), clauseTitleMax)
		assert.True(t, strings.HasSuffix(e.Title, "..."))
	}
	assert.Equal(t, 1, events[0].ID)
	assert.Equal(t, 2, events[1].ID)
}

func TestProseScanner_SentenceContext(t *testing.T) {
	doc := mustParse(t, `<p>No dates here.</p><p>Born 1900. Died 1950.</p>`)
	events := NewProseScanner(NewDateMatcher()).Scan(doc, NewIDCounter())
	require.Len(t, events, 2)
	assert.Equal(t, "Born 1900.", events[0].Description)
	assert.Equal(t, "Born 1900", events[0].Title)
	assert.Equal(t, "Births", events[0].Category)
	assert.Equal(t, "Died 1950.", events[1].Description)
	assert.Equal(t, "Deaths", events[1].Category)
}

func TestProseScanner_CircaPrefixKeepsYearInContext(t *testing.T) {
	doc := mustParse(t, `<p>The abbey was founded c. 1066 by monks.</p>`)
	events := NewProseScanner(NewDateMatcher()).Scan(doc, NewIDCounter())
	require.Len(t, events, 1)
	assert.Equal(t, 1066, events[0].Date)
	assert.Equal(t, "The abbey was founded c. 1066 by monks.", events[0].Description)
}

func scanTables(t *testing.T, markup string) []models.TimelineEvent {
	t.Helper()
	return NewTableScanner(NewDateMatcher(), nil).Scan(mustParse(t, markup), NewIDCounter())
}

func TestTableScanner_HeaderDateColumn(t *testing.T) {
	events := scanTables(t, `<table>
		<tr><th>Year</th><th>Event</th></tr>
		<tr><td>1066</td><td>Battle of Hastings</td></tr>
		<tr><td>1215</td><td>Great Council convened</td></tr>
	</table>`)
	require.Len(t, events, 2)
	assert.Equal(t, []int{1066, 1215}, dates(events))
	assert.Equal(t, "Battle of Hastings", events[0].Title)
	assert.Equal(t, "Battle of Hastings", events[0].Description)
	assert.Equal(t, "Military", events[0].Category)
	assert.Equal(t, "General", events[1].Category)
}

func TestTableScanner_FirstDateHeaderWins(t *testing.T) {
	events := scanTables(t, `<table>
		<tr><th>Event</th><th>Year</th><th>Period</th></tr>
		<tr><td>Founding</td><td>1200</td><td>Medieval 1300</td></tr>
		<tr><td>Expansion</td><td>1250</td><td>Medieval 1350</td></tr>
	</table>`)
	require.Len(t, events, 2)
	assert.Equal(t, []int{1200, 1250}, dates(events))
	assert.Equal(t, "Founding", events[0].Title)
	assert.Equal(t, "Founding - Medieval 1300", events[0].Description)
}

func TestTableScanner_FirstColumnSample(t *testing.T) {
	events := scanTables(t, `<table>
		<tr><td>1492</td><td>Voyage begins</td></tr>
		<tr><td>1493</td><td>Voyage ends</td></tr>
		<tr><td>Notes</td><td>none</td></tr>
	</table>`)
	assert.Equal(t, []int{1492, 1493}, dates(events))
}

func TestTableScanner_SampleBelowHalfSkipped(t *testing.T) {
	events := scanTables(t, `<table>
		<tr><td>1492</td><td>x</td></tr>
		<tr><td>Apple</td><td>y</td></tr>
		<tr><td>Banana</td><td>z</td></tr>
	</table>`)
	assert.Empty(t, events)
}

func TestTableScanner_NoDateColumnSkipped(t *testing.T) {
	events := scanTables(t, `<table>
		<tr><th>Fruit</th><th>Colour</th></tr>
		<tr><td>Apple</td><td>red</td></tr>
		<tr><td>Cherry</td><td>dark</td></tr>
	</table>`)
	assert.Empty(t, events)
}

func TestTableScanner_TwoRowsSkipped(t *testing.T) {
	events := scanTables(t, `<table>
		<tr><th>Year</th><th>Event</th></tr>
		<tr><td>1066</td><td>Battle of Hastings</td></tr>
	</table>`)
	assert.Empty(t, events)
}

func TestTableScanner_BCEDates(t *testing.T) {
	events := scanTables(t, `<table>
		<tr><th>Date</th><th>Event</th></tr>
		<tr><td>500 BC</td><td>Founding of the city</td></tr>
		<tr><td>44 BC</td><td>Assassination</td></tr>
	</table>`)
	assert.Equal(t, []int{-500, -44}, dates(events))
}

func TestTableScanner_RowHeaderCells(t *testing.T) {
	events := scanTables(t, `<table>
		<tr><th>Year</th><th>Event</th></tr>
		<tr><th>1805</th><td>Trafalgar</td></tr>
		<tr><th>1815</th><td>Waterloo</td></tr>
	</table>`)
	require.Len(t, events, 2)
	assert.Equal(t, []int{1805, 1815}, dates(events))
	assert.Equal(t, "Waterloo", events[1].Title)
}

func TestTableScanner_DateOnlyRowsFallBack(t *testing.T) {
	events := scanTables(t, `<table>
		<tr><th>Year</th></tr>
		<tr><td>1500</td></tr>
		<tr><td>1600</td></tr>
	</table>`)
	require.Len(t, events, 2)
	assert.Equal(t, "Event in 1500", events[0].Title)
	assert.Equal(t, "Event in 1500", events[0].Description)
}

func TestTableScanner_ShortRowsAndUndatedRowsSkipped(t *testing.T) {
	events := scanTables(t, `<table>
		<tr><th>Event</th><th>Year</th></tr>
		<tr><td>Orphan cell</td></tr>
		<tr><td>Unknown</td><td>n/a</td></tr>
		<tr><td>Coronation</td><td>1066</td></tr>
	</table>`)
	require.Len(t, events, 1)
	assert.Equal(t, 1066, events[0].Date)
	assert.Equal(t, "Coronation", events[0].Title)
}

func TestTableScanner_LongTitleTruncated(t *testing.T) {
	long := strings.Repeat("a", 150)
	events := scanTables(t, `<table>
		<tr><th>Year</th><th>Event</th></tr>
		<tr><td>1700</td><td>`+long+`</td></tr>
		<tr><td>1701</td><td>short</td></tr>
	</table>`)
	require.Len(t, events, 2)
	assert.Equal(t, strings.Repeat("a", tableTitleMax)+"...", events[0].Title)
	assert.Equal(t, long, events[0].Description)
}

func TestTableScanner_HTMLDescription(t *testing.T) {
	events := scanTables(t, `<table>
		<tr><th>Year</th><th>Event</th></tr>
		<tr><td>1903</td><td><a href="/wiki/Flight">First flight</a></td></tr>
		<tr><td>1969</td><td>Moon landing</td></tr>
	</table>`)
	require.Len(t, events, 2)
	assert.Equal(t, "First flight", events[0].Title)
	assert.Equal(t, `<a href="/wiki/Flight">First flight</a>`, events[0].Description)
}

func scanSections(t *testing.T, markup string) []models.TimelineEvent {
	t.Helper()
	return NewSectionScanner(NewDateMatcher()).Scan(mustParse(t, markup), NewIDCounter())
}

func TestSectionScanner_TimelineHeading(t *testing.T) {
	events := scanSections(t, `
		<h2>Timeline of Events</h2>
		<ul><li>1492: Expedition departs</li><li>1493: Expedition returns</li></ul>
		<h2>Legacy</h2>
		<ul><li>1600: Not part of the timeline</li></ul>`)
	require.Len(t, events, 2)
	assert.Equal(t, []int{1492, 1493}, dates(events))
	assert.Equal(t, "1492", events[0].Title)
	assert.Equal(t, "1492: Expedition departs", events[0].Description)
	for _, e := range events {
		assert.NotEmpty(t, e.Category)
	}
}

func TestSectionScanner_StopsAtAnyHeading(t *testing.T) {
	events := scanSections(t, `
		<h3>Chronology</h3>
		<ol><li>1200 AD founded</li></ol>
		<p>Interlude</p>
		<ol><li>1250 AD expanded</li></ol>
		<h4>Notes</h4>
		<ol><li>1300 AD ignored</li></ol>`)
	assert.Equal(t, []int{1200, 1250}, dates(events))
}

func TestSectionScanner_IgnoresUnrelatedHeadings(t *testing.T) {
	events := scanSections(t, `<h2>Geography</h2><ul><li>1492 mapped</li></ul>`)
	assert.Empty(t, events)
}

func TestSectionScanner_MediaWikiHeadingWrapper(t *testing.T) {
	events := scanSections(t, `
		<div class="mw-heading mw-heading2"><h2 id="History">History</h2></div>
		<p>Intro.</p>
		<div class="div-col"><ul><li>1805 naval victory</li></ul></div>
		<div class="mw-heading mw-heading2"><h2 id="See_also">See also</h2></div>
		<ul><li>1900 unrelated</li></ul>`)
	assert.Equal(t, []int{1805}, dates(events))
}

func TestSectionScanner_UndatedItemsSkipped(t *testing.T) {
	events := scanSections(t, `<h2>Key dates</h2><ul><li>Unknown origin</li><li>500 BC settlement</li></ul>`)
	require.Len(t, events, 1)
	assert.Equal(t, -500, events[0].Date)
}
