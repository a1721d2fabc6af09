package timeline

import (
	"strings"

	"github.com/hyperjump/wikitime/internal/models"
)

const headingSelector = "h2, h3, h4"

// mediaWikiHeadingClass marks the wrapper MediaWiki puts around section headings.
const mediaWikiHeadingClass = "mw-heading"

var sectionWords = []string{"timeline", "chronology", "history", "dates"}

// SectionScanner reads list items under chronology-like section headings.
type SectionScanner struct {
	matcher *DateMatcher
}

// NewSectionScanner returns a list-section scanner.
func NewSectionScanner(m *DateMatcher) *SectionScanner {
	return &SectionScanner{matcher: m}
}

// Name implements Scanner.
func (s *SectionScanner) Name() string { return "section" }

// Scan walks the siblings following each matching heading up to the next heading and
// emits one event per dated list item.
func (s *SectionScanner) Scan(doc Document, ids *IDCounter) []models.TimelineEvent {
	var events []models.TimelineEvent
	for _, heading := range doc.QueryAll(headingSelector) {
		if !isChronologyHeading(heading.Text()) {
			continue
		}
		for _, item := range sectionItems(sectionAnchor(heading)) {
			text := item.Text()
			match, ok := s.matcher.First(text)
			if !ok {
				continue
			}
			events = append(events, classify(ids, match.Year, Title(text, clauseTitleMax), item.HTML(), text))
		}
	}
	return events
}

func isChronologyHeading(text string) bool {
	lower := strings.ToLower(text)
	for _, w := range sectionWords {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

// sectionAnchor returns the element whose siblings form the section body: the heading
// itself, or its MediaWiki wrapper.
func sectionAnchor(heading Node) Node {
	if parent, ok := heading.Parent(); ok && parent.HasClass(mediaWikiHeadingClass) {
		return parent
	}
	return heading
}

func isSectionBoundary(n Node) bool {
	switch n.Tag() {
	case "h2", "h3", "h4":
		return true
	}
	return n.HasClass(mediaWikiHeadingClass)
}

// sectionItems collects list items from the lists in the section body. Lists wrapped in
// container divs (column layouts) count as part of the body.
func sectionItems(anchor Node) []Node {
	var items []Node
	for el, ok := anchor.NextElement(); ok; el, ok = el.NextElement() {
		if isSectionBoundary(el) {
			break
		}
		switch el.Tag() {
		case "ul", "ol", "div":
			items = append(items, el.QueryAll("li")...)
		}
	}
	return items
}
