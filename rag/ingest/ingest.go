// Package ingest extracts page-addressable text from source documents in
// the formats commonly found in a document store: PDF, spreadsheets,
// presentations, Word documents, and plain text variants (including CSV,
// JSON, Markdown, and HTML). A Page is the unit the rest of the system
// chunks independently, so a chunk never straddles a page boundary.
package ingest

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

// Page is one page-addressable unit of a document: a PDF page, a
// spreadsheet sheet, a presentation slide, or (for formats with no native
// pagination) the whole document.
type Page struct {
	Number  int               // 1-based
	Content string
	Extra   map[string]interface{} // processor-specific payload fields, e.g. sheet name
}

// Result is the output of extracting a single source: its pages plus any
// metadata common to every page of that source.
type Result struct {
	Pages    []Page
	Metadata map[string]string
}

// Processor extracts pages from a file of a format it knows how to handle.
type Processor interface {
	// Accepts reports whether this processor handles the given file
	// extension (lowercase, with leading dot, e.g. ".pdf").
	Accepts(ext string) bool
	// Extract reads filePath and returns its pages.
	Extract(ctx context.Context, filePath string) (Result, error)
}

// registry is the ordered list of processors consulted by Detect. The
// first processor to accept an extension wins; since the text processor
// registered last accepts every extension, it handles whatever the
// format-specific processors before it decline.
var registry []Processor

func register(p Processor) {
	registry = append(registry, p)
}

func init() {
	register(&pdfProcessor{})
	register(&xlsxProcessor{})
	register(&pptxProcessor{})
	register(&docxProcessor{})
	register(&htmlProcessor{})
	register(&textProcessor{}) // catch-all: txt, csv, json, md, and unknown extensions
}

// ErrUnsupported is returned by Detect when no processor claims an
// extension. With the default registry this does not occur: the catch-all
// text processor accepts every extension, binary ones such as .zip and
// .exe included.
var ErrUnsupported = fmt.Errorf("ingest: unsupported file type")

// Detect returns the processor responsible for filePath's extension.
func Detect(filePath string) (Processor, error) {
	ext := strings.ToLower(filepath.Ext(filePath))
	for _, p := range registry {
		if p.Accepts(ext) {
			return p, nil
		}
	}
	return nil, ErrUnsupported
}

// Extract runs the appropriate processor for filePath.
func Extract(ctx context.Context, filePath string) (Result, error) {
	p, err := Detect(filePath)
	if err != nil {
		return Result{}, err
	}
	return p.Extract(ctx, filePath)
}
