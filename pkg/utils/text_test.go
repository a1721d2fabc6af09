package utils

import (
	"testing"
)

func TestTruncate(t *testing.T) {
	if Truncate("hello", 10) != "hello" {
		t.Error("short string unchanged")
	}
	if Truncate("hello world", 5) != "hello..." {
		t.Errorf("got %s", Truncate("hello world", 5))
	}
	if Truncate("x", 0) != "x" {
		t.Error("maxLen 0 returns as-is")
	}
	if got := Truncate("Zürich Köln", 3); got != "Zür..." {
		t.Errorf("rune-safe truncate: got %s", got)
	}
}

func TestEllipsize(t *testing.T) {
	if Ellipsize("short", 60) != "short" {
		t.Error("short string unchanged")
	}
	if got := Ellipsize("abcdefghij", 8); got != "abcde..." {
		t.Errorf("got %s", got)
	}
	if got := Ellipsize("abcdefghij", 10); got != "abcdefghij" {
		t.Errorf("exact fit: got %s", got)
	}
}

func TestCollapseSpace(t *testing.T) {
	if got := CollapseSpace("  a \n\t b  c "); got != "a b c" {
		t.Errorf("got %q", got)
	}
}
