// Package export writes timelines as Excel workbooks.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/hyperjump/wikitime/internal/models"
	"github.com/hyperjump/wikitime/internal/view"
	"github.com/hyperjump/wikitime/internal/wiki"
	"github.com/xuri/excelize/v2"
)

// Sheet names.
const (
	TimelineSheet = "Timeline"
	SummarySheet  = "Summary"
)

var timelineHeader = []any{"ID", "Date", "Year", "Title", "Category", "Importance", "Highlight", "Description"}

// WriteXLSX writes ds to w as a workbook: a Timeline sheet with one chronological row per
// event and a Summary sheet with the article title, range and categories.
func WriteXLSX(w io.Writer, title string, ds *models.TimelineDataset) error {
	if ds == nil {
		ds = models.EmptyDataset()
	}
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), TimelineSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := f.SetSheetRow(TimelineSheet, "A1", &timelineHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create style: %w", err)
	}
	if err := f.SetCellStyle(TimelineSheet, "A1", "H1", bold); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	for i, e := range view.SortChronological(ds.Events) {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{
			e.ID, e.Date, view.FormatYear(e.Date), e.Title, e.Category,
			e.Importance, e.Highlight, descriptionText(e.Description),
		}
		if err := f.SetSheetRow(TimelineSheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}
	if err := f.SetColWidth(TimelineSheet, "D", "D", 60); err != nil {
		return err
	}
	if err := f.SetColWidth(TimelineSheet, "H", "H", 80); err != nil {
		return err
	}

	if err := writeSummary(f, title, ds); err != nil {
		return err
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeSummary(f *excelize.File, title string, ds *models.TimelineDataset) error {
	if _, err := f.NewSheet(SummarySheet); err != nil {
		return fmt.Errorf("create summary sheet: %w", err)
	}
	rows := [][]any{
		{"Article", title},
		{"Events", len(ds.Events)},
		{"From", view.FormatYear(ds.TimeRange.Min)},
		{"To", view.FormatYear(ds.TimeRange.Max)},
		{"Categories", strings.Join(ds.Categories, ", ")},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SummarySheet, cell, &row); err != nil {
			return fmt.Errorf("write summary: %w", err)
		}
	}
	return nil
}

// descriptionText flattens list-item markup to text; plain descriptions pass through.
func descriptionText(description string) string {
	if !strings.Contains(description, "<") {
		return description
	}
	return wiki.PlainText(description)
}
