package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDiskUsage(t *testing.T) {
	dir := t.TempDir()

	db := filepath.Join(dir, "articles.db")
	if err := os.WriteFile(db, []byte("hello"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(db+"-wal", []byte("wal"), 0644); err != nil {
		t.Fatal(err)
	}
	index := filepath.Join(dir, "bleve")
	if err := os.MkdirAll(filepath.Join(index, "store"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(index, "index_meta.json"), []byte("ab"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(index, "store", "seg"), []byte("abcd"), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := DiskUsage(db, index)
	if err != nil {
		t.Fatal(err)
	}
	if got.DatabaseBytes != 8 {
		t.Errorf("database bytes: got %d, want 8", got.DatabaseBytes)
	}
	if got.IndexBytes != 6 {
		t.Errorf("index bytes: got %d, want 6", got.IndexBytes)
	}
	if got.Total() != 14 {
		t.Errorf("total: got %d, want 14", got.Total())
	}
}

func TestDiskUsage_missingPaths(t *testing.T) {
	dir := t.TempDir()
	got, err := DiskUsage(filepath.Join(dir, "none.db"), filepath.Join(dir, "none"))
	if err != nil {
		t.Fatal(err)
	}
	if got.Total() != 0 {
		t.Errorf("missing paths should count as zero: %+v", got)
	}
	got, err = DiskUsage("", "")
	if err != nil || got.Total() != 0 {
		t.Errorf("empty paths: %+v, %v", got, err)
	}
}
