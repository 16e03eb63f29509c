package export

import (
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/godilite/washroom-dashboard/internal/service"
)

const (
	SheetName   = "Report"
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var ErrEmptyReport = errors.New("report has no chart to export")

// ReportWorkbook renders view to a single-sheet XLSX workbook: a short
// description block, the chart's label/value table under a bold header, and
// a summary of the rating or most frequent problems.
func ReportWorkbook(view service.ReportView) ([]byte, error) {
	if view.Usage == nil && view.Feedback == nil && view.Rating == nil {
		return nil, ErrEmptyReport
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	w := &sheetWriter{f: f, bold: bold}
	w.row("Washroom", view.Washroom)
	w.row("Report", string(view.Kind))
	w.row("Period", fmt.Sprintf("%s (%s)", view.DateValue, view.Granularity))
	w.blank()

	chart := view.Chart()
	w.header("Label", chart.Label)
	for i, label := range chart.Labels {
		if i >= len(chart.Values) {
			break
		}
		w.row(label, chart.Values[i])
	}

	switch {
	case view.Rating != nil:
		w.blank()
		w.header("Summary", "")
		w.row("Overall Rating", view.Rating.Display)
		w.row("Tier", string(view.Rating.Tier))
		w.row("Recommendation", view.Rating.Recommendation)
	case view.Feedback != nil && len(view.Feedback.Problems) > 0:
		w.blank()
		w.header(view.Feedback.Heading, "Count", "Recommendation")
		for _, p := range view.Feedback.Problems {
			w.row(p.Category, p.Count, p.Remediation)
		}
	}
	if w.err != nil {
		return nil, w.err
	}

	if err := f.SetColWidth(SheetName, "A", "A", 24); err != nil {
		return nil, fmt.Errorf("failed to set column width: %w", err)
	}
	if err := f.SetColWidth(SheetName, "C", "C", 60); err != nil {
		return nil, fmt.Errorf("failed to set column width: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// sheetWriter appends rows and keeps the first error.
type sheetWriter struct {
	f    *excelize.File
	bold int
	next int
	err  error
}

func (w *sheetWriter) row(values ...any) {
	if w.err != nil {
		return
	}
	w.next++
	cell, err := excelize.CoordinatesToCellName(1, w.next)
	if err != nil {
		w.err = fmt.Errorf("failed to convert coordinates: %w", err)
		return
	}
	if err := w.f.SetSheetRow(SheetName, cell, &values); err != nil {
		w.err = fmt.Errorf("failed to write row %d: %w", w.next, err)
	}
}

func (w *sheetWriter) header(values ...any) {
	w.row(values...)
	if w.err != nil {
		return
	}
	first, _ := excelize.CoordinatesToCellName(1, w.next)
	last, _ := excelize.CoordinatesToCellName(len(values), w.next)
	if err := w.f.SetCellStyle(SheetName, first, last, w.bold); err != nil {
		w.err = fmt.Errorf("failed to set header style: %w", err)
	}
}

func (w *sheetWriter) blank() { w.next++ }
