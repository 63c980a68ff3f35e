package export

import (
	"encoding/csv"
	"io"

	"github.com/darkvigil/darkvigil/internal/model"
)

// csvHeader is the fixed column set of the CSV format.
var csvHeader = []string{"engine", "title", "url", "domain", "description", "status"}

// CSVWriter serializes crawl results as one flat CSV table, with the
// engine name repeated per row.
type CSVWriter struct {
	output io.Writer
}

// NewCSVWriter creates a CSVWriter that writes to output.
func NewCSVWriter(output io.Writer) *CSVWriter {
	return &CSVWriter{output: output}
}

// Write serializes results as CSV. The byte count is not tracked by
// encoding/csv, so the returned count is the row count instead.
func (w *CSVWriter) Write(results model.CrawlResult) (int, error) {
	cw := csv.NewWriter(w.output)

	if err := cw.Write(csvHeader); err != nil {
		return 0, err
	}

	var rows int
	for _, name := range sortedEngines(results) {
		for _, record := range results[name] {
			row := []string{
				name,
				record.Title,
				record.URL,
				record.Domain,
				record.Description,
				livenessText(record),
			}
			if err := cw.Write(row); err != nil {
				return rows, err
			}
			rows++
		}
	}

	cw.Flush()
	return rows, cw.Error()
}
