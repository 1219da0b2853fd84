package ingest

import (
	"bytes"
	"context"
	"path/filepath"

	"github.com/ledongthuc/pdf"
)

// pdfProcessor extracts one Page per PDF page, preserving the document's
// native pagination rather than collapsing it into a single blob.
type pdfProcessor struct{}

func (p *pdfProcessor) Accepts(ext string) bool { return ext == ".pdf" }

func (p *pdfProcessor) Extract(ctx context.Context, filePath string) (Result, error) {
	f, r, err := pdf.Open(filePath)
	if err != nil {
		return Result{}, err
	}
	defer f.Close()

	total := r.NumPage()
	pages := make([]Page, 0, total)
	for i := 1; i <= total; i++ {
		pg := r.Page(i)
		if pg.V.IsNull() {
			continue
		}
		text, err := pg.GetPlainText(nil)
		if err != nil {
			// A single malformed page never aborts the rest of the document.
			continue
		}
		var buf bytes.Buffer
		buf.WriteString(text)
		pages = append(pages, Page{Number: i, Content: buf.String()})
	}

	return Result{
		Pages:    pages,
		Metadata: map[string]string{"format": "pdf", "filename": filepath.Base(filePath)},
	}, nil
}
