package timeline

import (
	"strings"

	"github.com/hyperjump/wikitime/internal/models"
)

// maxImportance caps the importance score.
const maxImportance = 5

type categoryBucket struct {
	category string
	keywords []string
}

// categoryBuckets is ordered: the first bucket with a matching keyword wins.
var categoryBuckets = []categoryBucket{
	{"Births", []string{"birth", "born", "birthday"}},
	{"Deaths", []string{"death", "died", "funeral", "passed away"}},
	{"Military", []string{"war", "battle", "invasion", "conflict", "fought"}},
	{"Literature", []string{"publish", "book", "novel", "literature", "wrote", "author"}},
	{"Art", []string{"art", "painting", "sculpture", "exhibition", "museum"}},
	{"Music", []string{"music", "song", "album", "concert", "symphony", "opera"}},
	{"Film", []string{"film", "movie", "cinema", "director", "actress", "actor"}},
	{"Science", []string{"science", "discovery", "experiment", "theory", "scientific"}},
	{"Politics", []string{"politic", "government", "election", "president", "parliament"}},
	{"Technology", []string{"technology", "invention", "patent", "device", "machine"}},
	{"Sports", []string{"sport", "olympic", "championship", "tournament", "athlete"}},
	{"Religion", []string{"religion", "church", "mosque", "temple", "faith", "spiritual"}},
}

// signalWords each add one point of importance when present.
var signalWords = []string{
	"significant", "major", "important", "crucial", "pivotal",
	"landmark", "historic", "famous", "renowned", "celebrated",
	"revolutionary", "groundbreaking", "pioneering", "extraordinary",
	"remarkable", "notable", "influential", "critical",
}

// Categories returns the category names in precedence order.
func Categories() []string {
	out := make([]string, len(categoryBuckets))
	for i, b := range categoryBuckets {
		out[i] = b.category
	}
	return out
}

// Category infers the category of text by substring keyword match. The second return
// value is false when no bucket matches.
func Category(text string) (string, bool) {
	lower := strings.ToLower(text)
	for _, b := range categoryBuckets {
		for _, kw := range b.keywords {
			if strings.Contains(lower, kw) {
				return b.category, true
			}
		}
	}
	return "", false
}

// Importance scores text from 1 to 5: one plus the number of distinct signal words present.
func Importance(text string) int {
	lower := strings.ToLower(text)
	score := 1
	for _, w := range signalWords {
		if strings.Contains(lower, w) {
			score++
		}
	}
	if score > maxImportance {
		score = maxImportance
	}
	return score
}

// classify builds an event from the classification of context.
func classify(ids *IDCounter, date int, title, description, context string) models.TimelineEvent {
	category, _ := Category(context)
	return models.NewTimelineEvent(ids.Next(), date, title, description, category, Importance(context))
}
