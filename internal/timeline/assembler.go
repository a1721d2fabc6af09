package timeline

import "github.com/hyperjump/wikitime/internal/models"

// minEvents is the smallest event count that makes a timeline.
const minEvents = 2

// paddingPercent widens the final range on each side.
const paddingPercent = 5

// Assembler collects candidate events for one extraction run.
type Assembler struct {
	events     []models.TimelineEvent
	categories []string
	seen       map[string]bool
	rng        models.TimeRange
}

// NewAssembler returns an empty assembler.
func NewAssembler() *Assembler {
	return &Assembler{seen: make(map[string]bool)}
}

// Add appends candidates, widening the running range and recording their categories.
func (a *Assembler) Add(events ...models.TimelineEvent) {
	for _, e := range events {
		if len(a.events) == 0 {
			a.rng = models.TimeRange{Min: e.Date, Max: e.Date}
		} else {
			a.rng.Min = min(a.rng.Min, e.Date)
			a.rng.Max = max(a.rng.Max, e.Date)
		}
		a.events = append(a.events, e)
		if e.Category != "" && e.Category != models.GeneralCategory && !a.seen[e.Category] {
			a.seen[e.Category] = true
			a.categories = append(a.categories, e.Category)
		}
	}
}

// Len returns the number of collected candidates.
func (a *Assembler) Len() int {
	return len(a.events)
}

// Range returns the running, unpadded range.
func (a *Assembler) Range() models.TimeRange {
	return a.rng
}

// Result validates the collection and returns the padded dataset, or the empty dataset
// when there are fewer than two events or no spread between the earliest and latest date.
func (a *Assembler) Result() *models.TimelineDataset {
	if len(a.events) < minEvents || a.rng.Min >= a.rng.Max {
		return models.EmptyDataset()
	}
	padding := rangePadding(a.rng.Span())
	events := make([]models.TimelineEvent, len(a.events))
	copy(events, a.events)
	categories := make([]string, len(a.categories))
	copy(categories, a.categories)
	return &models.TimelineDataset{
		Events:     events,
		TimeRange:  models.TimeRange{Min: a.rng.Min - padding, Max: a.rng.Max + padding},
		Categories: categories,
	}
}

// rangePadding is ceil(span * 5%) in integer arithmetic.
func rangePadding(span int) int {
	return (span*paddingPercent + 99) / 100
}
