package timeline

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/hyperjump/wikitime/internal/models"
	"github.com/hyperjump/wikitime/pkg/utils"
	"go.uber.org/zap"
)

// Extractor runs the scanners over a document and assembles the timeline.
type Extractor struct {
	matcher  *DateMatcher
	scanners []Scanner
	logger   *zap.Logger
}

// ExtractorOption configures an Extractor.
type ExtractorOption func(*Extractor)

// WithLogger sets the logger for recovered failures and debug output.
func WithLogger(l *zap.Logger) ExtractorOption {
	return func(e *Extractor) { e.logger = l }
}

// WithScanners replaces the default scanner set.
func WithScanners(scanners ...Scanner) ExtractorOption {
	return func(e *Extractor) { e.scanners = scanners }
}

// NewExtractor returns an extractor with the prose, table and list-section scanners.
func NewExtractor(opts ...ExtractorOption) *Extractor {
	e := &Extractor{matcher: NewDateMatcher()}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = utils.OrNop(e.logger)
	if e.scanners == nil {
		e.scanners = DefaultScanners(e.matcher, e.logger)
	}
	return e
}

// Report is the outcome of one extraction run.
type Report struct {
	Dataset *models.TimelineDataset
	// Candidates counts the events each scanner emitted, by scanner name.
	Candidates map[string]int
	// Failed lists scanners whose run was aborted and contributed nothing.
	Failed   []string
	Duration time.Duration
}

// Extract returns the timeline of doc. It never fails: unusable input yields the empty
// dataset.
func (e *Extractor) Extract(doc Document) *models.TimelineDataset {
	return e.Run(doc).Dataset
}

// ExtractHTML parses markup and returns its timeline.
func (e *Extractor) ExtractHTML(markup string) *models.TimelineDataset {
	return e.ExtractReader(strings.NewReader(markup))
}

// ExtractReader parses markup from r and returns its timeline.
func (e *Extractor) ExtractReader(r io.Reader) *models.TimelineDataset {
	doc, err := ParseHTML(r)
	if err != nil {
		e.logger.Warn("timeline input not parseable", zap.Error(err))
		return models.EmptyDataset()
	}
	return e.Extract(doc)
}

// RunHTML parses markup and reports on its extraction.
func (e *Extractor) RunHTML(markup string) *Report {
	doc, err := ParseHTMLString(markup)
	if err != nil {
		e.logger.Warn("timeline input not parseable", zap.Error(err))
		return &Report{Dataset: models.EmptyDataset(), Candidates: map[string]int{}}
	}
	return e.Run(doc)
}

// Run extracts the timeline of doc and reports per-scanner counts.
func (e *Extractor) Run(doc Document) (report *Report) {
	started := time.Now()
	report = &Report{Candidates: make(map[string]int, len(e.scanners))}
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("timeline extraction failed", zap.Any("panic", r))
			report.Dataset = models.EmptyDataset()
		}
		report.Duration = time.Since(started)
	}()

	if doc == nil {
		report.Dataset = models.EmptyDataset()
		return report
	}
	ids := NewIDCounter()
	asm := NewAssembler()
	for _, s := range e.scanners {
		events, err := runScanner(s, doc, ids)
		if err != nil {
			e.logger.Error("scanner failed", zap.String("scanner", s.Name()), zap.Error(err))
			report.Failed = append(report.Failed, s.Name())
			continue
		}
		report.Candidates[s.Name()] = len(events)
		asm.Add(events...)
	}
	report.Dataset = asm.Result()
	e.logger.Debug("timeline extracted",
		zap.Int("candidates", asm.Len()),
		zap.Int("events", len(report.Dataset.Events)),
		zap.Int("min", report.Dataset.TimeRange.Min),
		zap.Int("max", report.Dataset.TimeRange.Max),
	)
	return report
}

// runScanner converts a scanner panic into an error so the remaining scanners still run.
func runScanner(s Scanner, doc Document, ids *IDCounter) (events []models.TimelineEvent, err error) {
	defer func() {
		if r := recover(); r != nil {
			events = nil
			err = fmt.Errorf("scanner %s panicked: %v", s.Name(), r)
		}
	}()
	return s.Scan(doc, ids), nil
}
