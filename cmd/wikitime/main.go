// Package main is the wikitime CLI entry point.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/hyperjump/wikitime/internal/cache"
	"github.com/hyperjump/wikitime/internal/cli"
	"github.com/hyperjump/wikitime/internal/config"
	"github.com/hyperjump/wikitime/internal/export"
	"github.com/hyperjump/wikitime/internal/fileid"
	"github.com/hyperjump/wikitime/internal/keyword"
	"github.com/hyperjump/wikitime/internal/library"
	"github.com/hyperjump/wikitime/internal/metrics"
	"github.com/hyperjump/wikitime/internal/models"
	"github.com/hyperjump/wikitime/internal/server"
	"github.com/hyperjump/wikitime/internal/storage"
	"github.com/hyperjump/wikitime/internal/timeline"
	"github.com/hyperjump/wikitime/internal/view"
	"github.com/hyperjump/wikitime/internal/watcher"
	"github.com/hyperjump/wikitime/internal/wiki"
	"github.com/hyperjump/wikitime/pkg/utils"
	"go.uber.org/zap"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/wikitime/config.yaml"

// loadConfig loads config from path. When path is the default, config.yaml in the current
// directory is preferred, and a missing default file yields the built-in defaults.
// Returns the config and the path that was actually loaded ("" for built-in defaults).
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
		if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
			cfg, err := defaultConfig()
			return cfg, "", err
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func defaultConfig() (*config.Config, error) {
	if err := config.LoadEnvFiles(); err != nil {
		return nil, err
	}
	cfg := &config.Config{}
	config.ApplyDefaults(cfg)
	if err := config.ApplyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "timeline":
		runTimeline()
	case "fetch":
		runFetch()
	case "import":
		runImport()
	case "watch":
		runWatch()
	case "search":
		runSearch()
	case "status":
		runStatus()
	case "version", "--version", "-v":
		fmt.Printf("wikitime version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

// setup loads config and builds the logger shared by every command.
func setup(configPath string, debugFlag bool) (*config.Config, string, *zap.Logger) {
	cfg, resolved, err := loadConfig(configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug || debugFlag)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	return cfg, resolved, logger
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging (requests, imports, extraction runs)")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, logger := setup(*configPath, *debug)
	defer logger.Sync()
	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", cfg.Debug || *debug))

	components, err := initializeComponents(cfg, logger, true)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	watchCtx, watchCancel := context.WithCancel(context.Background())
	defer watchCancel()
	watchSvc := newWatcher(cfg, components.Library, logger)
	if err := watchSvc.Start(watchCtx); err != nil {
		logger.Fatal("Failed to start watcher", zap.Error(err))
	}
	go watchSvc.SyncExistingFiles()

	srv := server.NewServer(components.Library, cfg,
		server.WithLogger(logger),
		server.WithMetrics(components.Metrics),
		server.WithWatch(watchSvc, resolvedConfigPath))
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	waitForSignal()
	logger.Info("Shutting down...")
	watchCancel()
	watchSvc.Stop()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

func newWatcher(cfg *config.Config, lib *library.Library, logger *zap.Logger) *watcher.Watcher {
	return watcher.New(watcher.Config{
		Directories: cfg.Watch.Directories,
		Extensions:  cfg.Watch.Extensions,
		Recursive:   cfg.Watch.RecursiveOrDefault(),
	}, lib, watcher.WithLogger(logger))
}

func waitForSignal() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan
}

// argsReorder moves any flags (and their values) that appear after the positional
// arguments to the front so flag.Parse sees them.
func argsReorder(args []string) []string {
	for i, a := range args {
		if len(a) > 0 && a[0] == '-' {
			if i == 0 {
				return args
			}
			reordered := make([]string, 0, len(args))
			reordered = append(reordered, args[i:]...)
			reordered = append(reordered, args[:i]...)
			return reordered
		}
	}
	return args
}

// joinArgs joins positional args so multi-word titles and queries work with or without
// shell quoting.
func joinArgs(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

// parseYear parses an optional --start/--end value.
func parseYear(name, raw string) (*int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("--%s must be an integer year (negative for BCE): %q", name, raw)
	}
	return &v, nil
}

// timelineQuery builds the view query from timeline flags; nil means no filtering.
func timelineQuery(text, category, start, end string, limit int) (*models.TimelineQuery, error) {
	q := &models.TimelineQuery{
		Text:     strings.TrimSpace(text),
		Category: strings.TrimSpace(category),
		Limit:    limit,
	}
	var err error
	if q.Start, err = parseYear("start", start); err != nil {
		return nil, err
	}
	if q.End, err = parseYear("end", end); err != nil {
		return nil, err
	}
	if q.Text == "" && q.Category == "" && q.Start == nil && q.End == nil && q.Limit == 0 {
		return nil, nil
	}
	return q, nil
}

func runTimeline() {
	fs := flag.NewFlagSet("timeline", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	file := fs.String("file", "", "extract from a saved HTML page instead of an article title")
	output := fs.String("output", "text", "output format: text, compact, json or xlsx")
	outPath := fs.String("out", "", "write output to this file (required for xlsx)")
	category := fs.String("category", "", "only events in this category")
	text := fs.String("q", "", "only events whose title or description contains this text")
	start := fs.String("start", "", "earliest year to include (negative for BCE)")
	end := fs.String("end", "", "latest year to include (negative for BCE)")
	limit := fs.Int("limit", 0, "maximum number of events (0 = all)")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: wikitime timeline [flags] <title>\n       wikitime timeline --file page.html [flags]\n\n")
		fs.PrintDefaults()
	}
	_ = fs.Parse(argsReorder(os.Args[2:]))

	format, err := cli.ParseOutputFormat(*output)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	if format == cli.OutputXLSX && *outPath == "" {
		fmt.Println("--out is required for xlsx output")
		os.Exit(1)
	}
	query, err := timelineQuery(*text, *category, *start, *end, *limit)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	title := joinArgs(fs.Args())
	if *file == "" && title == "" {
		fs.Usage()
		os.Exit(1)
	}

	cfg, _, logger := setup(*configPath, *debug)
	defer logger.Sync()

	var ds *models.TimelineDataset
	if *file != "" {
		title, ds, err = timelineFromFile(*file, logger)
		if err != nil {
			fmt.Printf("Failed to read %s: %v\n", *file, err)
			os.Exit(1)
		}
	} else {
		components, initErr := initializeComponents(cfg, logger, false)
		if initErr != nil {
			logger.Fatal("Failed to initialize", zap.Error(initErr))
		}
		defer components.Close()
		ctx, cancel := context.WithTimeout(context.Background(), 2*cfg.Wikipedia.Timeout)
		defer cancel()
		article, report, tlErr := components.Library.Timeline(ctx, title)
		if tlErr != nil {
			fmt.Printf("Timeline failed: %v\n", tlErr)
			os.Exit(1)
		}
		title, ds = article.Title, report.Dataset
	}
	if query != nil {
		ds = view.Apply(ds, query)
	}

	if err := writeTimelineOutput(title, ds, format, *outPath); err != nil {
		fmt.Printf("Output failed: %v\n", err)
		os.Exit(1)
	}
	if *outPath != "" {
		fmt.Printf("Wrote %d events to %s\n", len(ds.Events), *outPath)
	}
}

// timelineFromFile extracts the timeline of a saved page without touching storage.
func timelineFromFile(path string, logger *zap.Logger) (string, *models.TimelineDataset, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", nil, err
	}
	title := ""
	if doc, docErr := goquery.NewDocumentFromReader(bytes.NewReader(content)); docErr == nil {
		title = wiki.DocumentTitle(doc)
	}
	if title == "" {
		title = fileid.NormalizeTitle(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
	}
	report := timeline.NewExtractor(timeline.WithLogger(logger)).RunHTML(string(content))
	return title, report.Dataset, nil
}

// writeTimelineOutput writes ds to outPath, or stdout when outPath is empty.
func writeTimelineOutput(title string, ds *models.TimelineDataset, format cli.OutputFormat, outPath string) error {
	var w io.Writer = os.Stdout
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	if format == cli.OutputXLSX {
		return export.WriteXLSX(w, title, ds)
	}
	return cli.WriteTimeline(w, title, ds, format)
}

func runFetch() {
	fs := flag.NewFlagSet("fetch", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(argsReorder(os.Args[2:]))
	title := joinArgs(fs.Args())
	if title == "" {
		fmt.Println("Usage: wikitime fetch [--config path] <title>")
		os.Exit(1)
	}

	cfg, _, logger := setup(*configPath, *debug)
	defer logger.Sync()
	components, err := initializeComponents(cfg, logger, false)
	if err != nil {
		logger.Fatal("Failed to initialize", zap.Error(err))
	}
	defer components.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*cfg.Wikipedia.Timeout)
	defer cancel()
	article, err := components.Library.Fetch(ctx, title)
	if err != nil {
		fmt.Printf("Fetch failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Fetched %q (%d bytes, %d categories): %s\n",
		article.Title, len(article.HTML), len(article.Categories), article.ID)
}

func runImport() {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(argsReorder(os.Args[2:]))
	if fs.NArg() < 1 {
		fmt.Println("Usage: wikitime import [--config path] <file-or-directory>...")
		os.Exit(1)
	}

	cfg, _, logger := setup(*configPath, *debug)
	defer logger.Sync()
	components, err := initializeComponents(cfg, logger, false)
	if err != nil {
		logger.Fatal("Failed to initialize", zap.Error(err))
	}
	defer components.Close()

	ctx := context.Background()
	failed := false
	for _, path := range fs.Args() {
		info, err := os.Stat(path)
		if err != nil {
			fmt.Printf("Import failed: %v\n", err)
			failed = true
			continue
		}
		if info.IsDir() {
			n, err := components.Library.Indexer().IndexDirectory(ctx, path, cfg.Watch.Extensions)
			if err != nil {
				fmt.Printf("Import of %s stopped after %d files: %v\n", path, n, err)
				failed = true
				continue
			}
			fmt.Printf("Imported %d pages from %s\n", n, path)
			continue
		}
		if err := components.Library.ImportFile(ctx, path); err != nil {
			fmt.Printf("Import of %s failed: %v\n", path, err)
			failed = true
			continue
		}
		fmt.Printf("Imported %s\n", path)
	}
	if failed {
		os.Exit(1)
	}
}

func runWatch() {
	args := os.Args[2:]
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		runWatchRemote(args[0], args[1:])
		return
	}

	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(args)

	cfg, _, logger := setup(*configPath, *debug)
	defer logger.Sync()
	if len(cfg.Watch.Directories) == 0 {
		fmt.Println("No watch directories configured (watch.directories in config.yaml)")
		os.Exit(1)
	}
	components, err := initializeComponents(cfg, logger, false)
	if err != nil {
		logger.Fatal("Failed to initialize", zap.Error(err))
	}
	defer components.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w := newWatcher(cfg, components.Library, logger)
	if err := w.Start(ctx); err != nil {
		logger.Fatal("Failed to start watcher", zap.Error(err))
	}
	w.SyncExistingFiles()
	fmt.Printf("Watching %s (Ctrl-C to stop)\n", strings.Join(w.Directories(), ", "))
	waitForSignal()
	w.Stop()
}

// runWatchRemote manages the watch directories of a running server.
func runWatchRemote(sub string, args []string) {
	fs := flag.NewFlagSet("watch "+sub, flag.ExitOnError)
	serverURL := fs.String("server", "http://localhost:8080", "server URL")
	_ = fs.Parse(argsReorder(args))
	switch sub {
	case "add":
		if fs.NArg() < 1 {
			fmt.Println("Usage: wikitime watch add <path>")
			os.Exit(1)
		}
		path, _ := filepath.Abs(fs.Arg(0))
		body, _ := json.Marshal(map[string]interface{}{"path": path, "import": true})
		resp, err := http.Post(*serverURL+"/api/v1/watch/directories", "application/json", bytes.NewReader(body))
		exitOnResponseError("Add", resp, err, http.StatusCreated)
		resp.Body.Close()
		fmt.Printf("Added: %s\n", path)
	case "remove":
		if fs.NArg() < 1 {
			fmt.Println("Usage: wikitime watch remove <path>")
			os.Exit(1)
		}
		path, _ := filepath.Abs(fs.Arg(0))
		req, _ := http.NewRequest(http.MethodDelete, *serverURL+"/api/v1/watch/directories?path="+url.QueryEscape(path), nil)
		resp, err := http.DefaultClient.Do(req)
		exitOnResponseError("Remove", resp, err, http.StatusOK)
		resp.Body.Close()
		fmt.Printf("Removed: %s\n", path)
	case "list":
		resp, err := http.Get(*serverURL + "/api/v1/watch/directories")
		exitOnResponseError("List", resp, err, http.StatusOK)
		defer resp.Body.Close()
		var out struct {
			Directories []string `json:"directories"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			fmt.Printf("Parse failed: %v\n", err)
			os.Exit(1)
		}
		for _, d := range out.Directories {
			fmt.Println(d)
		}
	default:
		fmt.Printf("Unknown watch subcommand: %s\n", sub)
		fmt.Println("Usage: wikitime watch [--config path] | wikitime watch <add|remove|list> [path]")
		os.Exit(1)
	}
}

func exitOnResponseError(action string, resp *http.Response, err error, want int) {
	if err != nil {
		fmt.Printf("Request failed: %v\n", err)
		os.Exit(1)
	}
	if resp.StatusCode != want {
		b, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		fmt.Printf("%s failed (%d): %s\n", action, resp.StatusCode, string(b))
		os.Exit(1)
	}
}

func runSearch() {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	remote := fs.Bool("remote", false, "search Wikipedia instead of stored articles")
	limit := fs.Int("limit", 10, "maximum number of results")
	output := fs.String("output", "text", "output format: text or json")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: wikitime search [flags] <query>\n\n")
		fs.PrintDefaults()
	}
	_ = fs.Parse(argsReorder(os.Args[2:]))
	query := joinArgs(fs.Args())
	if query == "" {
		fs.Usage()
		os.Exit(1)
	}
	format, err := cli.ParseOutputFormat(*output)
	if err != nil || (format != cli.OutputText && format != cli.OutputJSON) {
		fmt.Println("--output must be text or json")
		os.Exit(1)
	}

	cfg, _, logger := setup(*configPath, *debug)
	defer logger.Sync()
	components, err := initializeComponents(cfg, logger, false)
	if err != nil {
		logger.Fatal("Failed to initialize", zap.Error(err))
	}
	defer components.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*cfg.Wikipedia.Timeout)
	defer cancel()
	var response *models.SearchResponse
	if *remote {
		response, err = components.Library.SearchRemote(ctx, query, *limit)
	} else {
		response, err = components.Library.SearchLocal(ctx, query, *limit)
	}
	if err != nil {
		fmt.Printf("Search failed: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WriteSearchResults(os.Stdout, response, format); err != nil {
		fmt.Printf("Output failed: %v\n", err)
		os.Exit(1)
	}
}

func runStatus() {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	output := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	cfg, _, logger := setup(*configPath, false)
	defer logger.Sync()
	components, err := initializeComponents(cfg, logger, false)
	if err != nil {
		logger.Fatal("Failed to initialize", zap.Error(err))
	}
	defer components.Close()

	stats, err := components.Library.Stats(context.Background())
	if err != nil {
		fmt.Printf("Status failed: %v\n", err)
		os.Exit(1)
	}
	usage, _ := storage.DiskUsage(cfg.Storage.DatabasePath, cfg.Storage.BleveIndexPath)
	if *output == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(map[string]interface{}{
			"articles":         stats.Articles,
			"indexed_docs":     stats.IndexedDocs,
			"cache_backend":    stats.CacheBackend,
			"disk_usage_bytes": usage.Total(),
		})
		return
	}
	fmt.Printf("Articles:      %d\n", stats.Articles)
	fmt.Printf("Indexed:       %d\n", stats.IndexedDocs)
	fmt.Printf("Cache:         %s\n", stats.CacheBackend)
	fmt.Printf("Disk usage:    %d bytes (database %d, index %d)\n", usage.Total(), usage.DatabaseBytes, usage.IndexBytes)
}

// Components holds initialized services.
type Components struct {
	Storage      storage.Storage
	KeywordIndex keyword.KeywordIndex
	Cache        cache.Cache
	Metrics      *metrics.Metrics
	Library      *library.Library
}

func (c *Components) Close() {
	if c.Cache != nil {
		_ = c.Cache.Close()
	}
	if c.KeywordIndex != nil {
		_ = c.KeywordIndex.Close()
	}
	if c.Storage != nil {
		_ = c.Storage.Close()
	}
}

func initializeComponents(cfg *config.Config, logger *zap.Logger, withMetrics bool) (*Components, error) {
	if err := ensureParentDirs(cfg.Storage.DatabasePath, cfg.Storage.BleveIndexPath); err != nil {
		return nil, err
	}
	store, err := storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	keywordIndex, err := keyword.NewBleveIndex(cfg.Storage.BleveIndexPath)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to initialize keyword index: %w", err)
	}

	articleCache, err := cache.New(cfg.Cache)
	if err != nil {
		logger.Warn("article cache unavailable, falling back to memory",
			zap.String("backend", cfg.Cache.Backend), zap.Error(err))
		articleCache = cache.NewMemoryCache(cfg.Cache.Size)
	}

	c := &Components{Storage: store, KeywordIndex: keywordIndex, Cache: articleCache}
	opts := []library.Option{
		library.WithLogger(logger),
		library.WithCache(articleCache),
		library.WithFileExtensions(cfg.Watch.Extensions),
		library.WithFetcher(wiki.NewClient(cfg.Wikipedia.APIURL, cfg.Wikipedia.UserAgent, cfg.Wikipedia.Timeout, logger)),
	}
	if withMetrics {
		c.Metrics = metrics.New()
		opts = append(opts, library.WithMetrics(c.Metrics))
	}
	c.Library = library.New(store, keywordIndex, opts...)
	return c, nil
}

func ensureParentDirs(paths ...string) error {
	for _, p := range paths {
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", filepath.Dir(p), err)
		}
	}
	return nil
}

func printUsage() {
	fmt.Println(`wikitime - Timelines from Wikipedia articles

Usage:
  wikitime server [flags]               Start the HTTP server
  wikitime timeline [flags] <title>     Extract and print an article's timeline
  wikitime fetch [flags] <title>        Download and store an article
  wikitime import [flags] <path>...     Import saved HTML pages (files or directories)
  wikitime watch [flags]                Import pages from watch directories as they change
  wikitime watch <add|remove|list>      Manage a running server's watch directories
  wikitime search [flags] <query>       Search stored articles (or Wikipedia with --remote)
  wikitime status [flags]               Show article, index and disk usage
  wikitime version                      Show version
  wikitime help                         Show this help

Common Flags:
  --config string    Config file path (default: /usr/local/etc/wikitime/config.yaml)
  --debug            Enable debug logging

Timeline Flags:
  --file string      Extract from a saved HTML page instead of a title
  --output string    text, compact, json or xlsx (default: text)
  --out string       Write to a file (required for xlsx)
  --category string  Only events in this category (e.g. Military, Science)
  --q string         Only events whose title or description contains this text
  --start, --end     Year bounds, negative for BCE
  --limit int        Maximum number of events

Search Flags:
  --remote           Search Wikipedia titles instead of stored articles
  --limit int        Number of results (default: 10)
  --output string    text or json (default: text)

Watch Flags:
  --server string    Server URL for add/remove/list (default: http://localhost:8080)

Examples:
  wikitime timeline "Crown of Aragon"
  wikitime timeline --category Military --start 1300 Crown_of_Aragon
  wikitime timeline --output xlsx --out aragon.xlsx "Crown of Aragon"
  wikitime timeline --file ~/Downloads/Rome.html --output compact
  wikitime fetch Byzantine Empire
  wikitime import ~/wiki-pages
  wikitime search --remote aragon
  wikitime watch add ~/wiki-pages`)
}
