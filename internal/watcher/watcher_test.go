package watcher

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

const testDebounce = 50 * time.Millisecond

type recorder struct {
	mu       sync.Mutex
	imported []string
	removed  []string
}

func (r *recorder) ImportFile(_ context.Context, path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.imported = append(r.imported, path)
	return nil
}

func (r *recorder) RemoveFile(_ context.Context, path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removed = append(r.removed, path)
	return nil
}

func (r *recorder) snapshot() (imported, removed []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.imported...), append([]string(nil), r.removed...)
}

func hasSuffix(paths []string, suffix string) bool {
	for _, p := range paths {
		if strings.HasSuffix(p, suffix) {
			return true
		}
	}
	return false
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(20 * time.Millisecond)
	}
	return cond()
}

func startWatcher(t *testing.T, cfg Config, h Handler) *Watcher {
	t.Helper()
	if cfg.Debounce == 0 {
		cfg.Debounce = testDebounce
	}
	w := New(cfg, h)
	ctx, cancel := context.WithCancel(context.Background())
	if err := w.Start(ctx); err != nil {
		cancel()
		t.Fatal(err)
	}
	t.Cleanup(func() {
		w.Stop()
		cancel()
	})
	return w
}

func TestNew_defaults(t *testing.T) {
	w := New(Config{}, nil)
	if w.cfg.Debounce != defaultDebounce {
		t.Errorf("Debounce = %v, want %v", w.cfg.Debounce, defaultDebounce)
	}
	if len(w.cfg.Extensions) != 2 || w.cfg.Extensions[0] != ".html" {
		t.Errorf("Extensions = %v", w.cfg.Extensions)
	}
	if err := w.handler.ImportFile(context.Background(), "x.html"); err != nil {
		t.Errorf("nil handler import: %v", err)
	}
}

func TestWatcher_AddRemoveDirectories(t *testing.T) {
	dir := t.TempDir()
	w := startWatcher(t, Config{}, &recorder{})

	if err := w.AddDirectory(dir, false); err != nil {
		t.Fatal(err)
	}
	if err := w.AddDirectory(dir, false); err != nil {
		t.Fatal(err)
	}
	dirs := w.Directories()
	if len(dirs) != 1 || filepath.Clean(dirs[0]) != filepath.Clean(dir) {
		t.Errorf("Directories() = %v", dirs)
	}

	if err := w.RemoveDirectory(dir); err != nil {
		t.Fatal(err)
	}
	if len(w.Directories()) != 0 {
		t.Errorf("after remove: %v", w.Directories())
	}
}

func TestWatcher_AddDirectory_importExisting(t *testing.T) {
	dir := t.TempDir()
	if err := writeFile(filepath.Join(dir, "Rome.html"), "<h1>Rome</h1>"); err != nil {
		t.Fatal(err)
	}
	rec := &recorder{}
	w := startWatcher(t, Config{}, rec)
	if err := w.AddDirectory(dir, true); err != nil {
		t.Fatal(err)
	}
	imported, _ := rec.snapshot()
	if len(imported) != 1 || !strings.HasSuffix(imported[0], "Rome.html") {
		t.Errorf("imported = %v", imported)
	}
}

func TestWatcher_ImportsNewPageAfterDebounce(t *testing.T) {
	dir := t.TempDir()
	rec := &recorder{}
	startWatcher(t, Config{Directories: []string{dir}, Recursive: true}, rec)

	path := filepath.Join(dir, "Aragon.html")
	for i := 0; i < 3; i++ {
		if err := writeFile(path, "<h1>Aragon</h1>"); err != nil {
			t.Fatal(err)
		}
	}
	ok := waitFor(t, func() bool {
		imported, _ := rec.snapshot()
		return hasSuffix(imported, "Aragon.html")
	})
	if !ok {
		t.Fatal("expected Aragon.html to be imported")
	}
	time.Sleep(4 * testDebounce)
	imported, _ := rec.snapshot()
	if len(imported) != 1 {
		t.Errorf("debounced writes imported %d times: %v", len(imported), imported)
	}
}

func TestWatcher_IgnoresOtherExtensionsAndHiddenFiles(t *testing.T) {
	dir := t.TempDir()
	rec := &recorder{}
	startWatcher(t, Config{Directories: []string{dir}}, rec)

	for _, name := range []string{"notes.txt", ".draft.html", "page.html~", "page.html"} {
		if err := writeFile(filepath.Join(dir, name), "x"); err != nil {
			t.Fatal(err)
		}
	}
	if !waitFor(t, func() bool {
		imported, _ := rec.snapshot()
		return hasSuffix(imported, "page.html")
	}) {
		t.Fatal("expected page.html to be imported")
	}
	time.Sleep(4 * testDebounce)
	imported, _ := rec.snapshot()
	for _, p := range imported {
		base := filepath.Base(p)
		if base != "page.html" {
			t.Errorf("unexpected import %q", base)
		}
	}
}

func TestWatcher_RemovedPageIsReported(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Castile.htm")
	if err := writeFile(path, "<h1>Castile</h1>"); err != nil {
		t.Fatal(err)
	}
	rec := &recorder{}
	startWatcher(t, Config{Directories: []string{dir}}, rec)

	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	if !waitFor(t, func() bool {
		_, removed := rec.snapshot()
		return hasSuffix(removed, "Castile.htm")
	}) {
		t.Error("expected Castile.htm removal to be reported")
	}
}

func TestWatcher_RenamedPageIsReported(t *testing.T) {
	dir := t.TempDir()
	oldPath := filepath.Join(dir, "Leon.html")
	if err := writeFile(oldPath, "<h1>Leon</h1>"); err != nil {
		t.Fatal(err)
	}
	rec := &recorder{}
	startWatcher(t, Config{Directories: []string{dir}}, rec)

	newPath := filepath.Join(dir, "Kingdom of Leon.html")
	if err := os.Rename(oldPath, newPath); err != nil {
		t.Fatal(err)
	}
	if !waitFor(t, func() bool {
		imported, removed := rec.snapshot()
		return hasSuffix(removed, "Leon.html") && hasSuffix(imported, "Kingdom of Leon.html")
	}) {
		imported, removed := rec.snapshot()
		t.Errorf("rename: imported=%v removed=%v", imported, removed)
	}
}

func TestMatchExtension(t *testing.T) {
	tests := []struct {
		path       string
		extensions []string
		want       bool
	}{
		{"/a/Rome.html", []string{".html"}, true},
		{"/a/Rome.HTML", []string{".html"}, true},
		{"/a/Rome.htm", []string{".HTM"}, true},
		{"/a/Rome.txt", []string{".html", ".htm"}, false},
		{"/a/Rome", nil, true},
		{"/a/Rome", []string{}, true},
	}
	for _, tt := range tests {
		got := matchExtension(tt.path, tt.extensions)
		if got != tt.want {
			t.Errorf("matchExtension(%q, %v) = %v, want %v", tt.path, tt.extensions, got, tt.want)
		}
	}
}

func TestInDir(t *testing.T) {
	tests := []struct {
		dir  string
		path string
		want bool
	}{
		{"/tmp/a", "/tmp/a", true},
		{"/tmp/a", "/tmp/a/b.html", true},
		{"/tmp/a", "/tmp/b", false},
		{"/tmp/a", "/tmp/a/../b", false},
		{"/tmp/a", "/tmp/a/..b", true},
	}
	for _, tt := range tests {
		got := inDir(tt.dir, tt.path)
		if got != tt.want {
			t.Errorf("inDir(%q, %q) = %v, want %v", tt.dir, tt.path, got, tt.want)
		}
	}
}

func TestWatcher_SyncExistingFiles(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "sub")
	if err := mkdirAll(sub); err != nil {
		t.Fatal(err)
	}
	files := map[string]string{
		filepath.Join(dir, "Rome.html"): "<h1>Rome</h1>",
		filepath.Join(sub, "Gaul.htm"):  "<h1>Gaul</h1>",
		filepath.Join(dir, "skip.xyz"):  "x",
	}
	for p, c := range files {
		if err := writeFile(p, c); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		name      string
		recursive bool
		want      []string
	}{
		{"recursive", true, []string{"Rome.html", "Gaul.htm"}},
		{"flat", false, []string{"Rome.html"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{}
			w := New(Config{Directories: []string{dir}, Recursive: tt.recursive}, rec)
			w.SyncExistingFiles()
			imported, _ := rec.snapshot()
			if len(imported) != len(tt.want) {
				t.Fatalf("imported = %v, want %v", imported, tt.want)
			}
			for _, name := range tt.want {
				if !hasSuffix(imported, name) {
					t.Errorf("missing %s in %v", name, imported)
				}
			}
		})
	}
}

func TestWatcher_Start_createsMissingRootDirectory(t *testing.T) {
	root := filepath.Join(t.TempDir(), "saved", "pages")
	startWatcher(t, Config{Directories: []string{root}}, nil)

	if _, err := os.Stat(root); err != nil {
		t.Errorf("root directory should exist after Start: %v", err)
	}
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	w := New(Config{Directories: []string{t.TempDir()}}, nil)
	if err := w.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	w.Stop()
	w.Stop()
}

func TestWatcher_NewDirectoryPagesAreImported(t *testing.T) {
	dir := t.TempDir()
	rec := &recorder{}
	startWatcher(t, Config{Directories: []string{dir}, Recursive: true}, rec)

	nested := filepath.Join(dir, "medieval", "iberia")
	if err := mkdirAll(nested); err != nil {
		t.Fatal(err)
	}
	if err := writeFile(filepath.Join(nested, "Navarre.html"), "<h1>Navarre</h1>"); err != nil {
		t.Fatal(err)
	}
	if err := writeFile(filepath.Join(nested, "ignore.xyz"), "skip"); err != nil {
		t.Fatal(err)
	}

	if !waitFor(t, func() bool {
		imported, _ := rec.snapshot()
		return hasSuffix(imported, "Navarre.html")
	}) {
		imported, _ := rec.snapshot()
		t.Errorf("expected Navarre.html to be imported, got %v", imported)
	}
	imported, _ := rec.snapshot()
	if hasSuffix(imported, "ignore.xyz") {
		t.Error("ignore.xyz should not be imported")
	}
}

func mkdirAll(path string) error {
	return os.MkdirAll(path, 0o755)
}

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o600)
}
