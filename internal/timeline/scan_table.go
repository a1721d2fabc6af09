package timeline

import (
	"fmt"
	"strings"

	"github.com/hyperjump/wikitime/internal/models"
	"github.com/hyperjump/wikitime/pkg/utils"
	"go.uber.org/zap"
)

const (
	minTableRows   = 3
	sampleRows     = 3
	cellSelector   = "td, th"
	descriptionSep = " - "
)

var dateHeaderWords = []string{"date", "year", "time", "period"}

// TableScanner reads events from tables that carry a date column.
type TableScanner struct {
	matcher *DateMatcher
	logger  *zap.Logger
}

// NewTableScanner returns a table scanner. logger may be nil.
func NewTableScanner(m *DateMatcher, logger *zap.Logger) *TableScanner {
	return &TableScanner{matcher: m, logger: utils.OrNop(logger)}
}

// Name implements Scanner.
func (s *TableScanner) Name() string { return "table" }

// Scan emits one event per data row whose date cell holds a year. Tables with fewer than
// three rows or without an identifiable date column are skipped.
func (s *TableScanner) Scan(doc Document, ids *IDCounter) []models.TimelineEvent {
	var events []models.TimelineEvent
	for i, table := range doc.QueryAll("table") {
		events = append(events, s.scanTable(i, table, ids)...)
	}
	return events
}

// scanTable isolates each table so a malformed one yields nothing instead of aborting
// the remaining tables.
func (s *TableScanner) scanTable(index int, table Node, ids *IDCounter) (events []models.TimelineEvent) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Warn("table skipped", zap.Int("table", index), zap.Any("panic", r))
			events = nil
		}
	}()

	rows := table.QueryAll("tr")
	if len(rows) < minTableRows {
		return nil
	}
	headers := rows[0].Children("th")
	start := 0
	if len(headers) > 0 {
		start = 1
	}
	dateCol := headerDateColumn(headers)
	if dateCol < 0 && s.sampleHasDates(rows[start:]) {
		dateCol = 0
	}
	if dateCol < 0 {
		return nil
	}

	for _, row := range rows[start:] {
		cells := row.Children(cellSelector)
		if len(cells) <= dateCol {
			continue
		}
		match, ok := s.matcher.First(strings.TrimSpace(cells[dateCol].Text()))
		if !ok {
			continue
		}
		title, description := rowContent(cells, dateCol)
		title = utils.Truncate(title, tableTitleMax)
		context := title + " " + description
		if title == "" {
			title = fmt.Sprintf("Event in %d", match.Year)
		}
		if description == "" {
			description = title
		}
		events = append(events, classify(ids, match.Year, title, description, context))
	}
	return events
}

// headerDateColumn returns the index of the first header naming a date, or -1.
func headerDateColumn(headers []Node) int {
	for i, h := range headers {
		text := strings.ToLower(h.Text())
		for _, w := range dateHeaderWords {
			if strings.Contains(text, w) {
				return i
			}
		}
	}
	return -1
}

// sampleHasDates reports whether at least half of the first few data rows start with a
// recognizable date.
func (s *TableScanner) sampleHasDates(rows []Node) bool {
	if len(rows) > sampleRows {
		rows = rows[:sampleRows]
	}
	if len(rows) == 0 {
		return false
	}
	matches := 0
	for _, row := range rows {
		cells := row.Children(cellSelector)
		if len(cells) > 0 && s.matcher.HasDate(cells[0].Text()) {
			matches++
		}
	}
	return matches > 0 && matches*2 >= len(rows)
}

// rowContent builds title and description from the cells other than the date cell.
func rowContent(cells []Node, dateCol int) (title, description string) {
	others := make([]Node, 0, len(cells)-1)
	for i, c := range cells {
		if i != dateCol {
			others = append(others, c)
		}
	}
	switch {
	case len(others) == 1:
		return strings.TrimSpace(others[0].Text()), others[0].HTML()
	case len(others) > 1:
		parts := make([]string, len(others))
		for i, c := range others {
			parts[i] = c.HTML()
		}
		return strings.TrimSpace(others[0].Text()), strings.Join(parts, descriptionSep)
	default:
		return "", ""
	}
}
