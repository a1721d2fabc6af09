package timeline

import "github.com/hyperjump/wikitime/internal/models"

// ProseScanner finds year references in paragraph text.
type ProseScanner struct {
	matcher *DateMatcher
}

// NewProseScanner returns a paragraph scanner.
func NewProseScanner(m *DateMatcher) *ProseScanner {
	return &ProseScanner{matcher: m}
}

// Name implements Scanner.
func (s *ProseScanner) Name() string { return "prose" }

// Scan emits one event per year reference, described by its enclosing sentence.
func (s *ProseScanner) Scan(doc Document, ids *IDCounter) []models.TimelineEvent {
	var events []models.TimelineEvent
	for _, p := range doc.QueryAll("p") {
		text := p.Text()
		for _, match := range s.matcher.Matches(text) {
			sentence := SentenceSpan(text, match.Start, match.numeral)
			if sentence == "" {
				continue
			}
			events = append(events, classify(ids, match.Year, Title(sentence, clauseTitleMax), sentence, sentence))
		}
	}
	return events
}
