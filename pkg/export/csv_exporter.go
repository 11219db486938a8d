package export

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/schedulify/schedulify-cli/internal/timetable"
)

// CSVExporter renders a projected timetable grid into CSV bytes.
type CSVExporter struct{}

// NewCSVExporter builds a CSV exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// Render produces one header row of days and one record per period.
func (e *CSVExporter) Render(grid timetable.Grid) ([]byte, error) {
	if len(grid.Days) == 0 || grid.Periods <= 0 {
		return nil, fmt.Errorf("csv requires a non-empty grid")
	}
	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)

	header := make([]string, 0, len(grid.Days)+1)
	header = append(header, "Period")
	for _, day := range grid.Days {
		header = append(header, string(day))
	}
	if err := writer.Write(header); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}

	for period := 0; period < grid.Periods; period++ {
		record := make([]string, 0, len(grid.Days)+1)
		record = append(record, fmt.Sprintf("%d", period+1))
		for _, day := range grid.Days {
			cell := grid.Cell(day, period)
			if cell.Free() {
				record = append(record, "")
				continue
			}
			record = append(record, cellText(cell))
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
