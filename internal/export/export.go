package export

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/darkvigil/darkvigil/internal/model"
)

// ErrInvalidFormat is returned for format names outside the supported set.
var ErrInvalidFormat = errors.New("invalid export format")

// Format identifies an output serialization.
type Format string

// Supported export formats.
const (
	FormatJSON     Format = "json"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatText     Format = "txt"
)

// ParseFormat validates a format name from user input.
func ParseFormat(name string) (Format, error) {
	switch Format(name) {
	case FormatJSON, FormatCSV, FormatMarkdown, FormatText:
		return Format(name), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidFormat, name)
	}
}

// Ext returns the file extension for the format, without the dot.
func (f Format) Ext() string {
	if f == FormatMarkdown {
		return "md"
	}
	return string(f)
}

// Writer serializes one crawl result to an output stream.
//
// Implementations write complete documents, not streams of records, so a
// Writer is used once per export.
type Writer interface {
	// Write serializes results to the configured destination. Returns the
	// number of bytes written and any error encountered.
	Write(results model.CrawlResult) (int, error)
}

// NewWriter returns the Writer for the given format.
func NewWriter(format Format, output io.Writer) (Writer, error) {
	switch format {
	case FormatJSON:
		return NewJSONWriter(output), nil
	case FormatCSV:
		return NewCSVWriter(output), nil
	case FormatMarkdown:
		return NewMarkdownWriter(output), nil
	case FormatText:
		return NewTextWriter(output), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidFormat, string(format))
	}
}

// Exporter writes crawl results to timestamped files in one directory.
type Exporter struct {
	// dir is the destination directory, created on first export.
	dir string

	// producer is the subsystem name prefixed to every file.
	producer string

	// format selects the serialization.
	format Format

	// now is the clock used for file naming.
	now func() time.Time
}

// NewExporter creates an Exporter writing format files into dir.
func NewExporter(dir, producer string, format Format) *Exporter {
	return &Exporter{
		dir:      dir,
		producer: producer,
		format:   format,
		now:      time.Now,
	}
}

// Export writes results to a new file named
// <producer>_<unix-timestamp>.<ext> and returns its path.
func (e *Exporter) Export(results model.CrawlResult) (string, error) {
	if err := os.MkdirAll(e.dir, 0o750); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	name := fmt.Sprintf("%s_%d.%s", e.producer, e.now().Unix(), e.format.Ext())
	path := filepath.Join(e.dir, name)

	file, err := os.Create(path) //nolint:gosec // path is built from validated parts
	if err != nil {
		return "", fmt.Errorf("failed to create export file: %w", err)
	}
	defer file.Close()

	w, err := NewWriter(e.format, file)
	if err != nil {
		return "", err
	}
	if _, err := w.Write(results); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}

	return path, nil
}

// sortedEngines returns the engine names in deterministic order.
func sortedEngines(results model.CrawlResult) []string {
	names := make([]string, 0, len(results))
	for name := range results {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// livenessText renders a record's liveness for tabular formats.
func livenessText(record *model.SearchResult) string {
	alive, checked := record.IsAlive()
	switch {
	case !checked:
		return "unchecked"
	case alive:
		return "alive"
	default:
		return "dead"
	}
}
