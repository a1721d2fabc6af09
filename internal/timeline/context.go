package timeline

import (
	"strings"

	"github.com/hyperjump/wikitime/pkg/utils"
)

const (
	sentenceTerminators = ".!?"
	clauseSeparators    = ",.;:"
)

// Sentence returns the sentence of text that contains offset: from just after the
// previous terminator (or the start of text) through the next terminator inclusive (or
// the end of text), trimmed.
func Sentence(text string, offset int) string {
	return SentenceSpan(text, offset, offset)
}

// SentenceSpan is Sentence for a span: the search for the previous terminator begins at
// from and the search for the next one begins at to, so terminators inside the span
// (such as the period of "c.") do not cut it.
func SentenceSpan(text string, from, to int) string {
	from = utils.Clamp(from, 0, len(text))
	to = utils.Clamp(to, from, len(text))
	start := from
	for start > 0 && !strings.ContainsRune(sentenceTerminators, rune(text[start-1])) {
		start--
	}
	end := to
	for end < len(text) && !strings.ContainsRune(sentenceTerminators, rune(text[end])) {
		end++
	}
	if end < len(text) {
		end++
	}
	return strings.TrimSpace(text[start:end])
}

// Title returns the first clause of text, up to the first comma, period, semicolon or
// colon, fitted into maxLen runes with a trailing ellipsis when cut.
func Title(text string, maxLen int) string {
	if i := strings.IndexAny(text, clauseSeparators); i >= 0 {
		text = text[:i]
	}
	return utils.Ellipsize(strings.TrimSpace(text), maxLen)
}
