// Package timeline extracts a dated, classified event set from encyclopedia article markup.
//
// Three independent scanners (paragraph prose, tables, and list sections under
// chronology-like headings) emit candidate events. Each candidate is classified into a
// category and an importance score, then the assembler validates the collected set and
// pads its time range for rendering.
package timeline

import (
	"regexp"
	"sort"
	"strconv"
)

// Valid numeral bounds for a year reference.
const (
	minYear = 1
	maxYear = 9999
)

// Era identifies which pattern recognized a year.
type Era int

const (
	// EraCE is an explicit CE/AD marker.
	EraCE Era = iota
	// EraBCE is an explicit BCE/BC marker.
	EraBCE
	// EraBare is a numeral with no explicit marker, read as CE.
	EraBare
)

func (e Era) String() string {
	switch e {
	case EraCE:
		return "CE"
	case EraBCE:
		return "BCE"
	default:
		return "bare"
	}
}

// DateMatch is one recognized year reference within a text span.
// Start and End are byte offsets of the whole match, prefix and era marker included.
type DateMatch struct {
	Year  int
	Value int
	Era   Era
	Start int
	End   int

	numeral int
}

// IsBCE reports whether the match carried a BCE/BC marker.
func (m DateMatch) IsBCE() bool {
	return m.Era == EraBCE
}

type datePattern struct {
	era Era
	re  *regexp.Regexp
}

// datePatterns is ordered by precedence. The first group of every pattern is the numeral.
var datePatterns = []datePattern{
	{era: EraCE, re: regexp.MustCompile(`(?i)\b(\d{1,4})\s*(?:C\.E\.|CE\b|AD\b)`)},
	{era: EraBCE, re: regexp.MustCompile(`(?i)\b(\d{1,4})\s*(?:B\.C\.E\.|B\.C\.|BCE\b|BC\b)`)},
	{era: EraBare, re: regexp.MustCompile(`(?i)(?:\b(?:in|by|around|circa)\s+|\bca?\.\s*)?\b(\d{1,4})\b(?:\s*(?:C\.E\.|CE\b|AD\b))?`)},
}

// DateMatcher recognizes year references and their era.
type DateMatcher struct {
	patterns []datePattern
}

// NewDateMatcher returns a matcher over the built-in pattern table.
func NewDateMatcher() *DateMatcher {
	return &DateMatcher{patterns: datePatterns}
}

// Matches returns every year reference in text ordered by position. A numeral claimed by
// a higher-precedence pattern is never reported again by a later one, and numerals
// outside [1, 9999] are dropped.
func (m *DateMatcher) Matches(text string) []DateMatch {
	claimed := make(map[int]bool)
	var out []DateMatch
	for _, p := range m.patterns {
		for _, loc := range p.re.FindAllStringSubmatchIndex(text, -1) {
			if claimed[loc[2]] {
				continue
			}
			claimed[loc[2]] = true
			if match, ok := newDateMatch(text, loc, p.era); ok {
				out = append(out, match)
			}
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Start != out[j].Start {
			return out[i].Start < out[j].Start
		}
		return out[i].numeral < out[j].numeral
	})
	return out
}

// First returns the highest-precedence year reference in text: the earliest valid hit of
// the first pattern that has one.
func (m *DateMatcher) First(text string) (DateMatch, bool) {
	for _, p := range m.patterns {
		for _, loc := range p.re.FindAllStringSubmatchIndex(text, -1) {
			if match, ok := newDateMatch(text, loc, p.era); ok {
				return match, true
			}
		}
	}
	return DateMatch{}, false
}

// HasDate reports whether text contains any recognizable year reference.
func (m *DateMatcher) HasDate(text string) bool {
	_, ok := m.First(text)
	return ok
}

func newDateMatch(text string, loc []int, era Era) (DateMatch, bool) {
	value, err := strconv.Atoi(text[loc[2]:loc[3]])
	if err != nil || value < minYear || value > maxYear {
		return DateMatch{}, false
	}
	year := value
	if era == EraBCE {
		year = -value
	}
	return DateMatch{
		Year:    year,
		Value:   value,
		Era:     era,
		Start:   loc[0],
		End:     loc[1],
		numeral: loc[2],
	}, true
}
