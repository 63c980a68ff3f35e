package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/darkvigil/darkvigil/internal/model"
)

// TextWriter serializes crawl results as plain text blocks, one per
// record, grouped under an engine banner. This is the format for quick
// reading in a terminal or pager.
type TextWriter struct {
	output io.Writer
}

// NewTextWriter creates a TextWriter that writes to output.
func NewTextWriter(output io.Writer) *TextWriter {
	return &TextWriter{output: output}
}

// Write serializes results as plain text.
func (w *TextWriter) Write(results model.CrawlResult) (int, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "SEARCH RESULTS (%d total)\n", results.Total())
	b.WriteString(strings.Repeat("=", 40) + "\n\n")

	for _, name := range sortedEngines(results) {
		records := results[name]

		fmt.Fprintf(&b, "[%s] %d result(s)\n", strings.ToUpper(name), len(records))
		b.WriteString(strings.Repeat("-", 40) + "\n")

		for _, record := range records {
			fmt.Fprintf(&b, "Title:       %s\n", record.Title)
			fmt.Fprintf(&b, "URL:         %s\n", record.URL)
			fmt.Fprintf(&b, "Domain:      %s\n", record.Domain)
			fmt.Fprintf(&b, "Description: %s\n", record.Description)
			fmt.Fprintf(&b, "Status:      %s\n", livenessText(record))
			b.WriteString("\n")
		}
	}

	return w.output.Write([]byte(b.String()))
}
