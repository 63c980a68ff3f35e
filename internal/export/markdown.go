package export

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/darkvigil/darkvigil/internal/model"
)

// MarkdownWriter serializes crawl results as a Markdown document with one
// section per engine. This is the format for documentation and sharing.
type MarkdownWriter struct {
	output io.Writer

	// titleCaser renders engine names as section headings.
	titleCaser cases.Caser
}

// NewMarkdownWriter creates a MarkdownWriter that writes to output.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		output:     output,
		titleCaser: cases.Title(language.English),
	}
}

// Write serializes results as Markdown.
func (w *MarkdownWriter) Write(results model.CrawlResult) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Search Results")
	md.PlainText("")
	md.PlainTextf("Total results: %d", results.Total())
	md.PlainText("")

	for _, name := range sortedEngines(results) {
		w.writeEngineSection(md, name, results[name])
	}

	return len(md.String()), md.Build()
}

// writeEngineSection writes one engine's heading and result table.
func (w *MarkdownWriter) writeEngineSection(md *markdown.Markdown, name string, records []*model.SearchResult) {
	md.H2(w.titleCaser.String(name) + " (" + strconv.Itoa(len(records)) + ")")
	md.PlainText("")

	if len(records) == 0 {
		md.PlainText("No results.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(records))
	for i, record := range records {
		rows[i] = []string{
			record.Title,
			"`" + record.URL + "`",
			record.Domain,
			record.Description,
			livenessText(record),
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Title", "URL", "Domain", "Description", "Status"},
		Rows:   rows,
	})
	md.PlainText("")
}
