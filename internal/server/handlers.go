package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hyperjump/wikitime/internal/config"
	"github.com/hyperjump/wikitime/internal/library"
	"github.com/hyperjump/wikitime/internal/models"
	"github.com/hyperjump/wikitime/internal/storage"
	"github.com/hyperjump/wikitime/internal/view"
	"github.com/hyperjump/wikitime/internal/wiki"
	"go.uber.org/zap"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	stats, err := s.library.Stats(r.Context())
	if err != nil {
		s.logger.Error("status: library stats failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	resp := map[string]interface{}{
		"articles":     stats.Articles,
		"indexed_docs": stats.IndexedDocs,
	}
	if s.config != nil {
		resp["config"] = map[string]interface{}{
			"cache_backend":      stats.CacheBackend,
			"wikipedia_api_url":  s.config.Wikipedia.APIURL,
			"database_path":      s.config.Storage.DatabasePath,
			"bleve_index_path":   s.config.Storage.BleveIndexPath,
			"view_default_limit": s.config.Timeline.ViewDefaultLimit,
		}
		usage, err := storage.DiskUsage(s.config.Storage.DatabasePath, s.config.Storage.BleveIndexPath)
		if err == nil {
			resp["disk_usage_bytes"] = usage.Total()
		}
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleTimeline(w http.ResponseWriter, r *http.Request) {
	title, err := url.PathUnescape(chi.URLParam(r, "title"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid title")
		return
	}
	query, filtered, err := s.timelineQuery(r.URL.Query())
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.logger.Debug("timeline request", zap.String("title", title), zap.Bool("filtered", filtered))
	article, report, err := s.library.Timeline(r.Context(), title)
	if err != nil {
		s.respondLibraryError(w, err)
		return
	}
	ds := report.Dataset
	if filtered {
		ds = view.Apply(ds, query)
	}
	w.Header().Set("X-Article-Title", article.Title)
	s.respondJSON(w, http.StatusOK, ds)
}

// timelineQuery reads q, category, start, end and limit. filtered reports whether any
// of them was given.
func (s *Server) timelineQuery(values url.Values) (*models.TimelineQuery, bool, error) {
	q := &models.TimelineQuery{
		Text:     strings.TrimSpace(values.Get("q")),
		Category: strings.TrimSpace(values.Get("category")),
	}
	filtered := q.Text != "" || q.Category != ""
	for _, bound := range []struct {
		name string
		dst  **int
	}{{"start", &q.Start}, {"end", &q.End}} {
		raw := values.Get(bound.name)
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			return nil, false, fmt.Errorf("%s must be an integer year", bound.name)
		}
		*bound.dst = &v
		filtered = true
	}
	if q.Start != nil && q.End != nil && *q.Start > *q.End {
		return nil, false, errors.New("start must not be after end")
	}
	if raw := values.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return nil, false, errors.New("limit must be a non-negative integer")
		}
		q.Limit = n
		filtered = true
	}
	if filtered && q.Limit == 0 && s.config != nil {
		q.Limit = s.config.Timeline.ViewDefaultLimit
	}
	return q, filtered, nil
}

type timelineRequest struct {
	HTML string `json:"html"`
}

func (s *Server) handleTimelineFromHTML(w http.ResponseWriter, r *http.Request) {
	var req timelineRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.HTML) == "" {
		s.respondError(w, http.StatusBadRequest, "html is required")
		return
	}
	report := s.library.TimelineFromHTML(r.Context(), req.HTML)
	s.respondJSON(w, http.StatusOK, report.Dataset)
}

func (s *Server) handleGetArticle(w http.ResponseWriter, r *http.Request) {
	title, err := url.PathUnescape(chi.URLParam(r, "title"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid title")
		return
	}
	article, err := s.library.Article(r.Context(), title)
	if err != nil {
		s.respondLibraryError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, article)
}

type importRequest struct {
	Title string `json:"title"`
	HTML  string `json:"html"`
}

func (s *Server) handleImportArticle(w http.ResponseWriter, r *http.Request) {
	var req importRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.HTML) == "" {
		s.respondError(w, http.StatusBadRequest, "title and html are required")
		return
	}
	now := time.Now().UTC()
	article := &models.Article{
		Title:     req.Title,
		HTML:      req.HTML,
		Source:    models.SourceUpload,
		FetchedAt: now,
	}
	s.logger.Debug("import article request", zap.String("title", req.Title))
	if err := s.library.Import(r.Context(), article); err != nil {
		s.logger.Error("import failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusCreated, map[string]string{"id": article.ID, "title": article.Title, "status": "imported"})
}

func (s *Server) handleDeleteArticle(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.logger.Debug("delete article request", zap.String("id", id))
	if err := s.library.Delete(r.Context(), id); err != nil {
		s.respondLibraryError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()
	q := strings.TrimSpace(values.Get("q"))
	if q == "" {
		s.respondError(w, http.StatusBadRequest, "q is required")
		return
	}
	limit := 0
	if raw := values.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			s.respondError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}
	remote := false
	if raw := values.Get("remote"); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			s.respondError(w, http.StatusBadRequest, "remote must be a boolean")
			return
		}
		remote = b
	}
	s.logger.Debug("search request", zap.String("query", q), zap.Int("limit", limit), zap.Bool("remote", remote))

	var (
		response *models.SearchResponse
		err      error
	)
	if remote {
		response, err = s.library.SearchRemote(r.Context(), q, limit)
	} else {
		response, err = s.library.SearchLocal(r.Context(), q, limit)
	}
	if err != nil {
		s.respondLibraryError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, response)
}

func (s *Server) handleWatchDirectoriesList(w http.ResponseWriter, r *http.Request) {
	if s.watch == nil {
		s.respondError(w, http.StatusNotImplemented, "watch not enabled")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"directories": s.watch.Directories()})
}

type watchAddRequest struct {
	Path   string `json:"path"`
	Import *bool  `json:"import,omitempty"`
}

func (s *Server) handleWatchDirectoriesAdd(w http.ResponseWriter, r *http.Request) {
	if s.watch == nil {
		s.respondError(w, http.StatusNotImplemented, "watch not enabled")
		return
	}
	var req watchAddRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Path == "" {
		s.respondError(w, http.StatusBadRequest, "path is required")
		return
	}
	abs, err := filepath.Abs(req.Path)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid path")
		return
	}
	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			s.respondError(w, http.StatusNotFound, "directory not found")
			return
		}
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !info.IsDir() {
		s.respondError(w, http.StatusBadRequest, "path is not a directory")
		return
	}
	importExisting := true
	if req.Import != nil {
		importExisting = *req.Import
	}
	s.logger.Debug("watch add directory request", zap.String("path", abs), zap.Bool("import_existing", importExisting))
	if err := s.watch.AddDirectory(abs, importExisting); err != nil {
		s.logger.Error("watch add directory failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.persistWatchDirectories()
	s.respondJSON(w, http.StatusCreated, map[string]string{"path": abs, "status": "added"})
}

func (s *Server) handleWatchDirectoriesRemove(w http.ResponseWriter, r *http.Request) {
	if s.watch == nil {
		s.respondError(w, http.StatusNotImplemented, "watch not enabled")
		return
	}
	path := r.URL.Query().Get("path")
	if path == "" {
		var body struct {
			Path string `json:"path"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err == nil && body.Path != "" {
			path = body.Path
		}
	}
	if path == "" {
		s.respondError(w, http.StatusBadRequest, "path is required (query or body)")
		return
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid path")
		return
	}
	s.logger.Debug("watch remove directory request", zap.String("path", abs))
	if err := s.watch.RemoveDirectory(abs); err != nil {
		s.logger.Error("watch remove directory failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.persistWatchDirectories()
	s.respondJSON(w, http.StatusOK, map[string]string{"path": abs, "status": "removed"})
}

func (s *Server) persistWatchDirectories() {
	if s.configPath == "" || s.config == nil {
		return
	}
	s.configMu.Lock()
	defer s.configMu.Unlock()
	s.config.Watch.Directories = s.watch.Directories()
	if err := config.Save(s.configPath, s.config); err != nil {
		s.logger.Warn("failed to persist watch config", zap.Error(err))
	}
}

// respondLibraryError maps library, storage and wiki errors to HTTP statuses.
func (s *Server) respondLibraryError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, library.ErrEmptyTitle):
		s.respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, wiki.ErrArticleNotFound),
		errors.Is(err, storage.ErrNotFound),
		errors.Is(err, library.ErrOffline):
		s.respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, library.ErrUpstream):
		s.logger.Warn("upstream request failed", zap.Error(err))
		s.respondError(w, http.StatusBadGateway, err.Error())
	default:
		s.logger.Error("request failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
	}
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
