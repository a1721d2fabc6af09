// Package watcher imports saved article pages from watched directories as they change.
package watcher

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/hyperjump/wikitime/pkg/utils"
	"go.uber.org/zap"
)

const defaultDebounce = 400 * time.Millisecond

// DefaultExtensions are the saved-page extensions imported when none are configured.
var DefaultExtensions = []string{".html", ".htm"}

// Handler receives import and removal notifications for watched files.
type Handler interface {
	ImportFile(ctx context.Context, path string) error
	RemoveFile(ctx context.Context, path string) error
}

// HandlerFuncs adapts a pair of functions to Handler. Nil functions are skipped.
type HandlerFuncs struct {
	Import func(ctx context.Context, path string) error
	Remove func(ctx context.Context, path string) error
}

func (h HandlerFuncs) ImportFile(ctx context.Context, path string) error {
	if h.Import == nil {
		return nil
	}
	return h.Import(ctx, path)
}

func (h HandlerFuncs) RemoveFile(ctx context.Context, path string) error {
	if h.Remove == nil {
		return nil
	}
	return h.Remove(ctx, path)
}

// Config selects what a Watcher watches.
type Config struct {
	Directories []string
	Extensions  []string
	Recursive   bool
	Debounce    time.Duration
}

// Watcher feeds saved article pages under its directories to a Handler.
type Watcher struct {
	cfg     Config
	handler Handler
	logger  *zap.Logger

	mu       sync.Mutex
	fsw      *fsnotify.Watcher
	ctx      context.Context
	pending  map[string]*time.Timer
	watched  map[string][]string // directory root -> paths registered with fsnotify
	done     chan struct{}
	started  bool
	stopOnce sync.Once
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithLogger sets the logger for import and directory events.
func WithLogger(l *zap.Logger) Option {
	return func(w *Watcher) { w.logger = l }
}

// New creates a watcher over cfg.Directories. Start must be called before events flow.
func New(cfg Config, handler Handler, opts ...Option) *Watcher {
	if len(cfg.Extensions) == 0 {
		cfg.Extensions = DefaultExtensions
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = defaultDebounce
	}
	if handler == nil {
		handler = HandlerFuncs{}
	}
	w := &Watcher{
		cfg:     cfg,
		handler: handler,
		ctx:     context.Background(),
		pending: make(map[string]*time.Timer),
		watched: make(map[string][]string),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = utils.OrNop(w.logger)
	return w
}

// Start registers the configured directories, creating missing ones, and processes
// events until ctx is cancelled or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started {
		return nil
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	w.fsw = fsw
	w.ctx = ctx
	w.started = true
	for _, dir := range w.cfg.Directories {
		if err := w.addRootLocked(dir); err != nil {
			w.logger.Warn("watch directory failed", zap.String("dir", dir), zap.Error(err))
		}
	}
	w.logger.Info("watching article directories",
		zap.Strings("dirs", w.cfg.Directories),
		zap.Strings("extensions", w.cfg.Extensions),
		zap.Bool("recursive", w.cfg.Recursive))
	go w.run(ctx, fsw)
	return nil
}

func (w *Watcher) run(ctx context.Context, fsw *fsnotify.Watcher) {
	for {
		select {
		case <-ctx.Done():
			w.Stop()
			return
		case <-w.done:
			return
		case ev, ok := <-fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(ev)
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", zap.Error(err))
		}
	}
}

func (w *Watcher) handleEvent(ev fsnotify.Event) {
	path := filepath.Clean(ev.Name)
	switch {
	case ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
		w.cancelPending(path)
		if !w.accepts(path) {
			return
		}
		w.logger.Debug("article file removed", zap.String("path", path))
		if err := w.handler.RemoveFile(w.context(), path); err != nil {
			w.logger.Warn("remove article file failed", zap.String("path", path), zap.Error(err))
		}
	case ev.Op&(fsnotify.Create|fsnotify.Write) != 0:
		info, err := os.Stat(path)
		if err != nil {
			return
		}
		if info.IsDir() {
			if ev.Op&fsnotify.Create != 0 && w.cfg.Recursive {
				w.addSubdirectory(path)
			}
			return
		}
		if w.accepts(path) {
			w.schedule(path)
		}
	}
}

// addSubdirectory watches a directory created under a root and imports the pages it already
// holds; files moved in along with a directory raise no events of their own.
func (w *Watcher) addSubdirectory(dir string) {
	w.mu.Lock()
	if w.fsw == nil {
		w.mu.Unlock()
		return
	}
	root := w.rootOfLocked(dir)
	if root == "" {
		w.mu.Unlock()
		return
	}
	added := w.watchTreeLocked(dir)
	w.watched[root] = append(w.watched[root], added...)
	w.mu.Unlock()
	w.logger.Debug("watching new directory", zap.String("dir", dir), zap.Int("paths", len(added)))
	w.importTree(dir)
}

func (w *Watcher) rootOfLocked(path string) string {
	for root := range w.watched {
		if inDir(root, path) {
			return root
		}
	}
	return ""
}

func inDir(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

func (w *Watcher) accepts(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") || strings.HasSuffix(base, "~") {
		return false
	}
	return matchExtension(path, w.cfg.Extensions)
}

func matchExtension(path string, extensions []string) bool {
	if len(extensions) == 0 {
		return true
	}
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range extensions {
		if strings.ToLower(e) == ext {
			return true
		}
	}
	return false
}

func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.pending[path]; ok {
		t.Reset(w.cfg.Debounce)
		return
	}
	w.pending[path] = time.AfterFunc(w.cfg.Debounce, func() {
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()
		w.importFile(path)
	})
}

func (w *Watcher) cancelPending(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.pending[path]; ok {
		t.Stop()
		delete(w.pending, path)
	}
}

func (w *Watcher) importFile(path string) {
	if err := w.handler.ImportFile(w.context(), path); err != nil {
		w.logger.Warn("import article file failed", zap.String("path", path), zap.Error(err))
		return
	}
	w.logger.Debug("article file imported", zap.String("path", path))
}

func (w *Watcher) context() context.Context {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.ctx
}

// AddDirectory starts watching dir. With importExisting, pages already in it are imported.
func (w *Watcher) AddDirectory(dir string, importExisting bool) error {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return err
	}
	w.mu.Lock()
	if _, ok := w.watched[abs]; ok {
		w.mu.Unlock()
		return nil
	}
	if w.fsw != nil {
		if err := w.addRootLocked(abs); err != nil {
			w.mu.Unlock()
			return err
		}
	}
	w.cfg.Directories = append(w.cfg.Directories, abs)
	w.mu.Unlock()
	if importExisting {
		w.importTree(abs)
	}
	return nil
}

func (w *Watcher) addRootLocked(dir string) error {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return err
	}
	w.watched[abs] = w.watchTreeLocked(abs)
	return nil
}

func (w *Watcher) watchTreeLocked(dir string) []string {
	if !w.cfg.Recursive {
		if err := w.fsw.Add(dir); err != nil {
			w.logger.Warn("watch add failed", zap.String("dir", dir), zap.Error(err))
			return nil
		}
		return []string{dir}
	}
	var added []string
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if path != dir && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			w.logger.Warn("watch add failed", zap.String("dir", path), zap.Error(err))
			return nil
		}
		added = append(added, path)
		return nil
	})
	return added
}

func (w *Watcher) importTree(dir string) {
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path == dir {
				return nil
			}
			if !w.cfg.Recursive || strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if w.accepts(path) {
			w.importFile(path)
		}
		return nil
	})
}

// RemoveDirectory stops watching dir. Articles already imported from it are kept.
func (w *Watcher) RemoveDirectory(dir string) error {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	paths, ok := w.watched[abs]
	if !ok {
		return nil
	}
	if w.fsw != nil {
		for _, p := range paths {
			_ = w.fsw.Remove(p)
		}
	}
	delete(w.watched, abs)
	for path, t := range w.pending {
		if inDir(abs, path) {
			t.Stop()
			delete(w.pending, path)
		}
	}
	dirs := make([]string, 0, len(w.cfg.Directories))
	for _, d := range w.cfg.Directories {
		if da, err := filepath.Abs(d); err != nil || da != abs {
			dirs = append(dirs, d)
		}
	}
	w.cfg.Directories = dirs
	return nil
}

// Directories returns the watched directory roots.
func (w *Watcher) Directories() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.cfg.Directories...)
}

// SyncExistingFiles imports every matching page already present under the roots.
func (w *Watcher) SyncExistingFiles() {
	for _, dir := range w.Directories() {
		abs, err := filepath.Abs(dir)
		if err != nil {
			continue
		}
		w.importTree(abs)
	}
}

// Stop stops watching and drops pending imports. It is safe to call more than once.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.done)
		w.mu.Lock()
		defer w.mu.Unlock()
		for path, t := range w.pending {
			t.Stop()
			delete(w.pending, path)
		}
		if w.fsw != nil {
			_ = w.fsw.Close()
			w.fsw = nil
		}
	})
}
