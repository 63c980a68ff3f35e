// Package export serializes crawl results to files.
//
// Writers exist for JSON, CSV, Markdown and plain text, all implementing
// the Writer interface so they can be used interchangeably. The Exporter
// picks the writer from a Format and names the output file after the
// producing subsystem and the export time.
//
// Engine sections are emitted in sorted engine-name order so repeated
// exports of the same results are byte-identical.
package export
