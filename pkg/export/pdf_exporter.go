package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/schedulify/schedulify-cli/internal/timetable"
)

// PDFExporter renders a projected timetable grid into a tabular PDF.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Render creates a landscape PDF with one column per day and one row per
// period. Free cells render as a dash, occupied cells as subject over detail.
func (e *PDFExporter) Render(grid timetable.Grid, title string) ([]byte, error) {
	if len(grid.Days) == 0 || grid.Periods <= 0 {
		return nil, fmt.Errorf("pdf requires a non-empty grid")
	}
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.AddPage()

	if title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, strings.ToUpper(title), "", 1, "C", false, 0, "")
		pdf.Ln(5)
	}

	colWidth := 277.0 / float64(len(grid.Days)+1)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(colWidth, 8, "Period", "1", 0, "C", false, 0, "")
	for _, day := range grid.Days {
		pdf.CellFormat(colWidth, 8, string(day), "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for period := 0; period < grid.Periods; period++ {
		pdf.CellFormat(colWidth, 7, fmt.Sprintf("%d", period+1), "1", 0, "C", false, 0, "")
		for _, day := range grid.Days {
			cell := grid.Cell(day, period)
			pdf.CellFormat(colWidth, 7, cellText(cell), "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func cellText(cell timetable.Cell) string {
	if cell.Free() {
		return "-"
	}
	text := cell.Subject
	if cell.Detail != "" {
		text += " / " + cell.Detail
	}
	if cell.LabRoom != "" {
		text += " (" + cell.LabRoom + ")"
	}
	return text
}
