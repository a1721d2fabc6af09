// Package utils provides shared utilities for text, math, and logging.
package utils

import "strings"

const ellipsis = "..."

// Truncate returns s truncated to maxLen runes, with "..." appended if truncated.
// If maxLen is 0 or negative, returns s unchanged.
func Truncate(s string, maxLen int) string {
	if maxLen <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen]) + ellipsis
}

// Ellipsize fits s into maxLen runes: it is returned as-is when short enough, otherwise
// cut to maxLen-3 runes followed by "...".
func Ellipsize(s string, maxLen int) string {
	if maxLen <= len(ellipsis) {
		return Truncate(s, maxLen)
	}
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-len(ellipsis)]) + ellipsis
}

// CollapseSpace replaces runs of whitespace with a single space and trims the ends.
func CollapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
