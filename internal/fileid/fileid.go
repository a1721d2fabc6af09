// Package fileid provides deterministic article IDs from file paths and article titles.
package fileid

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	filePrefix  = "file:"
	titlePrefix = "wiki:"
)

// FileDocID returns a stable article ID for a file imported from the given absolute path.
// Same path always yields the same ID. Used for index/update/delete by path.
func FileDocID(absolutePath string) string {
	normalized := filepath.Clean(absolutePath)
	hash := sha256.Sum256([]byte(normalized))
	return filePrefix + hex.EncodeToString(hash[:])
}

// ArticleID returns a stable article ID for a Wikipedia title. Titles that MediaWiki treats
// as the same page ("world_war II", "World war II") yield the same ID.
func ArticleID(title string) string {
	hash := sha256.Sum256([]byte(NormalizeTitle(title)))
	return titlePrefix + hex.EncodeToString(hash[:])
}

// NormalizeTitle converts underscores to spaces, collapses whitespace and upper-cases
// the first letter, matching MediaWiki page title canonicalization.
func NormalizeTitle(title string) string {
	title = strings.Join(strings.Fields(strings.ReplaceAll(title, "_", " ")), " ")
	if title == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(title)
	return string(unicode.ToUpper(r)) + title[size:]
}
