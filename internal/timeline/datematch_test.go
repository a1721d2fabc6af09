package timeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func years(matches []DateMatch) []int {
	out := make([]int, len(matches))
	for i, m := range matches {
		out[i] = m.Year
	}
	return out
}

func TestDateMatcher_Matches(t *testing.T) {
	m := NewDateMatcher()
	tests := []struct {
		name string
		text string
		want []int
	}{
		{"explicit eras", "The city was founded in 1200 CE and destroyed in 500 BCE during a major conflict.", []int{1200, -500}},
		{"AD marker", "Around 800 AD the abbey grew.", []int{800}},
		{"dotted BC", "Built in 300 B.C. by settlers.", []int{-300}},
		{"dotted BCE", "Settled 450 B.C.E. at the latest.", []int{-450}},
		{"dotted CE", "Rebuilt 1100 C.E. after a fire.", []int{1100}},
		{"circa prefix", "The tower dates from c. 1066.", []int{1066}},
		{"bare numerals", "In 1945 and by 1950 it was over.", []int{1945, 1950}},
		{"zero dropped", "Year 0 AD does not exist.", nil},
		{"five digits ignored", "About 12345 people lived there.", nil},
		{"no digits", "Nothing dated here.", nil},
		{"case insensitive", "settled 200 bc, abandoned 150 ad", []int{-200, 150}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := m.Matches(tt.text)
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, years(got))
		})
	}
}

func TestDateMatcher_MatchesDedupesSameNumeral(t *testing.T) {
	m := NewDateMatcher()
	got := m.Matches("In 1492 AD the fleet sailed.")
	require.Len(t, got, 1)
	assert.Equal(t, 1492, got[0].Year)
	assert.Equal(t, EraCE, got[0].Era)
}

func TestDateMatcher_MatchEras(t *testing.T) {
	m := NewDateMatcher()
	got := m.Matches("From 500 BCE to 1200 CE, and again in 1300.")
	require.Len(t, got, 3)
	assert.Equal(t, EraBCE, got[0].Era)
	assert.True(t, got[0].IsBCE())
	assert.Equal(t, 500, got[0].Value)
	assert.Equal(t, EraCE, got[1].Era)
	assert.Equal(t, EraBare, got[2].Era)
	assert.False(t, got[2].IsBCE())
}

func TestDateMatcher_MatchOffsets(t *testing.T) {
	m := NewDateMatcher()
	text := "Peace came c. 1066 at last."
	got := m.Matches(text)
	require.Len(t, got, 1)
	assert.Equal(t, "c. 1066", text[got[0].Start:got[0].End])
}

func TestDateMatcher_FirstPrefersPrecedence(t *testing.T) {
	m := NewDateMatcher()

	got, ok := m.First("From 1200 until 500 BC")
	require.True(t, ok)
	assert.Equal(t, -500, got.Year)

	got, ok = m.First("1066")
	require.True(t, ok)
	assert.Equal(t, 1066, got.Year)

	_, ok = m.First("unknown")
	assert.False(t, ok)
}

func TestDateMatcher_HasDate(t *testing.T) {
	m := NewDateMatcher()
	assert.True(t, m.HasDate("June 1815"))
	assert.False(t, m.HasDate("Waterloo"))
	assert.False(t, m.HasDate("0 BC"))
}

func TestEra_String(t *testing.T) {
	assert.Equal(t, "CE", EraCE.String())
	assert.Equal(t, "BCE", EraBCE.String())
	assert.Equal(t, "bare", EraBare.String())
}
