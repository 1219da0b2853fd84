package ingest

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/eino-contrib/docx2md"
)

// docxParagraphsPerPage buckets a docx's flattened paragraph stream into
// synthetic pages. Word documents carry no page boundary in their XML (that
// is a rendering-time concept), so a page here is a fixed-size bucket of
// non-empty paragraphs rather than a true document page.
const docxParagraphsPerPage = 40

// docxProcessor extracts text from .docx files via docx2md, which already
// renders tables as pipe-delimited rows; empty paragraphs are dropped so a
// bucket never pads out on blank formatting lines.
type docxProcessor struct{}

func (p *docxProcessor) Accepts(ext string) bool { return ext == ".docx" }

func (p *docxProcessor) Extract(ctx context.Context, filePath string) (Result, error) {
	md, err := docx2md.ConvertFile(filePath)
	if err != nil {
		return Result{}, err
	}

	var paragraphs []string
	for _, block := range strings.Split(md, "\n\n") {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		paragraphs = append(paragraphs, block)
	}

	var pages []Page
	for start := 0; start < len(paragraphs); start += docxParagraphsPerPage {
		end := start + docxParagraphsPerPage
		if end > len(paragraphs) {
			end = len(paragraphs)
		}
		pages = append(pages, Page{
			Number:  len(pages) + 1,
			Content: strings.Join(paragraphs[start:end], "\n\n"),
		})
	}
	if len(pages) == 0 {
		pages = []Page{{Number: 1, Content: ""}}
	}

	return Result{
		Pages:    pages,
		Metadata: map[string]string{"format": "docx", "filename": filepath.Base(filePath)},
	}, nil
}
