// Package cli renders timelines and search results for the wikitime command line.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/hyperjump/wikitime/internal/models"
	"github.com/hyperjump/wikitime/internal/view"
	"github.com/hyperjump/wikitime/pkg/utils"
)

// OutputFormat selects how results are written.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputCompact is one tab-separated line per event.
	OutputCompact OutputFormat = "compact"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
	// OutputXLSX is an Excel workbook; written by the export package.
	OutputXLSX OutputFormat = "xlsx"
)

const snippetLen = 200

// ParseOutputFormat validates a --output value. Empty means text.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return OutputText, nil
	case OutputText, OutputCompact, OutputJSON, OutputXLSX:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want text, compact, json or xlsx)", s)
	}
}

// WriteTimeline writes ds to w. Text and compact output list events chronologically;
// JSON output is the dataset as extracted.
func WriteTimeline(w io.Writer, title string, ds *models.TimelineDataset, format OutputFormat) error {
	if ds == nil {
		ds = models.EmptyDataset()
	}
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(ds)
	case OutputCompact:
		for _, e := range view.SortChronological(ds.Events) {
			if _, err := fmt.Fprintf(w, "%d\t%s\t%d\t%s\n", e.Date, e.Category, e.Importance, e.Title); err != nil {
				return err
			}
		}
		return nil
	case OutputText, "":
		return writeTimelineText(w, title, ds)
	default:
		return fmt.Errorf("output format %q is not supported here", format)
	}
}

func writeTimelineText(w io.Writer, title string, ds *models.TimelineDataset) error {
	var b strings.Builder
	if title != "" {
		fmt.Fprintf(&b, "\n%s\n", title)
	}
	if ds.IsEmpty() {
		b.WriteString("No timeline: fewer than two dated events found.\n")
		_, err := io.WriteString(w, b.String())
		return err
	}
	fmt.Fprintf(&b, "%d events from %s to %s\n", len(ds.Events),
		view.FormatYear(ds.TimeRange.Min), view.FormatYear(ds.TimeRange.Max))
	if len(ds.Categories) > 0 {
		fmt.Fprintf(&b, "Categories: %s\n", strings.Join(ds.Categories, ", "))
	}
	b.WriteString("\n")
	for _, e := range view.SortChronological(ds.Events) {
		marker := " "
		if e.Highlight {
			marker = "*"
		}
		fmt.Fprintf(&b, "%s %10s  %-10s  %s\n", marker, view.FormatYear(e.Date), e.Category, e.Title)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// WriteSearchResults writes search results to w in the given format.
// Use OutputJSON for parseable output consumable by other apps.
func WriteSearchResults(w io.Writer, response *models.SearchResponse, format OutputFormat) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(response)
	default:
		writeSearchResultsText(w, response)
		return nil
	}
}

func writeSearchResultsText(w io.Writer, response *models.SearchResponse) {
	where := "local library"
	if response.Remote {
		where = "Wikipedia"
	}
	fmt.Fprintf(w, "\nFound %d articles in %s (%dms)\n\n", len(response.Hits), where, response.QueryTime)
	for i, hit := range response.Hits {
		fmt.Fprintf(w, "─────────────────────────────────────────────────────────\n")
		fmt.Fprintf(w, "%d. %s", i+1, hit.Title)
		if hit.Score > 0 {
			fmt.Fprintf(w, " (score %.4f)", hit.Score)
		}
		fmt.Fprintln(w)
		if hit.Snippet != "" {
			fmt.Fprintf(w, "%s\n", utils.Truncate(hit.Snippet, snippetLen))
		}
	}
	if len(response.Hits) > 0 {
		fmt.Fprintln(w)
	}
}
