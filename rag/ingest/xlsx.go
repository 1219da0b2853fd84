package ingest

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// xlsxProcessor extracts one Page per sheet, rendering rows as
// tab-separated text so the chunker sees column boundaries without
// carrying a full table-rendering grammar.
type xlsxProcessor struct{}

func (p *xlsxProcessor) Accepts(ext string) bool { return ext == ".xlsx" || ext == ".xlsm" }

func (p *xlsxProcessor) Extract(ctx context.Context, filePath string) (Result, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return Result{}, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	pages := make([]Page, 0, len(sheets))
	for i, sheet := range sheets {
		rows, err := f.GetRows(sheet)
		if err != nil {
			continue
		}
		var b strings.Builder
		for _, row := range rows {
			b.WriteString(strings.Join(row, "\t"))
			b.WriteByte('\n')
		}
		pages = append(pages, Page{
			Number:  i + 1,
			Content: b.String(),
			Extra:   map[string]interface{}{"sheet": sheet},
		})
	}

	return Result{
		Pages:    pages,
		Metadata: map[string]string{"format": "xlsx", "filename": filepath.Base(filePath)},
	}, nil
}
