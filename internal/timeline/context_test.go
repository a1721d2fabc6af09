package timeline

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSentence(t *testing.T) {
	text := "First one. The city was founded in 1200 CE! Next?"
	offset := strings.Index(text, "1200")
	assert.Equal(t, "The city was founded in 1200 CE!", Sentence(text, offset))
}

func TestSentence_StartOfText(t *testing.T) {
	assert.Equal(t, "In 1200 the town grew", Sentence("In 1200 the town grew", 0))
	assert.Equal(t, "In 1200 the town grew.", Sentence("In 1200 the town grew. Later.", 0))
}

func TestSentence_OffsetOutOfBounds(t *testing.T) {
	assert.Equal(t, "Later", Sentence("Early. Later", 100))
	assert.Equal(t, "Early.", Sentence("Early. Later.", -4))
	assert.Equal(t, "", Sentence("", 0))
}

func TestSentenceSpan_AbbreviationInsideSpan(t *testing.T) {
	text := "Earlier. The abbey was founded c. 1066 by monks. Later."
	from := strings.Index(text, "c. 1066")
	to := strings.Index(text, "1066")
	assert.Equal(t, "The abbey was founded c. 1066 by monks.", SentenceSpan(text, from, to))
	assert.Equal(t, "The abbey was founded c.", Sentence(text, from))
	assert.Equal(t, "Later.", SentenceSpan(text, len(text)-2, 0))
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "The city was founded in 1200 CE", Title("The city was founded in 1200 CE, and more.", clauseTitleMax))
	assert.Equal(t, "1492", Title("1492: Expedition departs", clauseTitleMax))
	assert.Equal(t, "Plain", Title("  Plain  ", clauseTitleMax))

	long := strings.Repeat("a", 80)
	got := Title(long, clauseTitleMax)
	assert.Len(t, got, clauseTitleMax)
	assert.True(t, strings.HasSuffix(got, "..."))
	assert.Equal(t, strings.Repeat("a", 57)+"...", got)
}
