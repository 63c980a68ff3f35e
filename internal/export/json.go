package export

import (
	"encoding/json"
	"io"

	"github.com/darkvigil/darkvigil/internal/model"
)

// JSONWriter serializes crawl results as pretty-printed JSON, keyed by
// engine name. This is the format for tool integration.
type JSONWriter struct {
	output io.Writer
}

// NewJSONWriter creates a JSONWriter that writes to output.
func NewJSONWriter(output io.Writer) *JSONWriter {
	return &JSONWriter{output: output}
}

// Write serializes results as an indented JSON object.
func (w *JSONWriter) Write(results model.CrawlResult) (int, error) {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return 0, err
	}
	data = append(data, '\n')
	return w.output.Write(data)
}
