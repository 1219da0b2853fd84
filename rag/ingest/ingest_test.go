package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetect_DispatchesByExtension(t *testing.T) {
	cases := map[string]string{
		"report.pdf":  "*ingest.pdfProcessor",
		"sheet.xlsx":  "*ingest.xlsxProcessor",
		"deck.pptx":   "*ingest.pptxProcessor",
		"memo.docx":   "*ingest.docxProcessor",
		"page.html":   "*ingest.htmlProcessor",
		"notes.txt":   "*ingest.textProcessor",
		"unknown.xyz": "*ingest.textProcessor",
	}
	for name, wantType := range cases {
		p, err := Detect(name)
		require.NoError(t, err)
		assert.Equal(t, wantType, typeName(p), name)
	}
}

func TestTextProcessor_ExtractsUTF8Content(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "note.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello world"), 0o644))

	result, err := Extract(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, result.Pages, 1)
	assert.Equal(t, "hello world", result.Pages[0].Content)
	assert.Equal(t, 1, result.Pages[0].Number)
}

func TestDecodeText_FallsBackOnInvalidUTF8(t *testing.T) {
	raw := []byte{0x82, 0xa0, 0x82, 0xa2} // Shift-JIS for "ai" (hiragana)
	got := decodeText(raw)
	assert.NotEmpty(t, got)
}

func TestHTMLProcessor_StripsScriptsAndTags(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "page.html")
	html := `<html><head><title>Doc Title</title><script>evil()</script></head>` +
		`<body><nav>skip me</nav><p>Hello there.</p></body></html>`
	require.NoError(t, os.WriteFile(path, []byte(html), 0o644))

	result, err := Extract(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, result.Pages, 1)
	text := result.Pages[0].Content
	assert.Contains(t, text, "Doc Title")
	assert.Contains(t, text, "Hello there.")
	assert.NotContains(t, text, "evil()")
	assert.NotContains(t, text, "skip me")
}

func TestTruncatePages_DividesBudgetEvenly(t *testing.T) {
	pages := []Page{
		{Number: 1, Content: "0123456789"},
		{Number: 2, Content: "abcdefghij"},
	}
	truncatePages(pages, 10)
	assert.Len(t, pages[0].Content, 5)
	assert.Len(t, pages[1].Content, 5)
}

func typeName(p Processor) string {
	switch p.(type) {
	case *pdfProcessor:
		return "*ingest.pdfProcessor"
	case *xlsxProcessor:
		return "*ingest.xlsxProcessor"
	case *pptxProcessor:
		return "*ingest.pptxProcessor"
	case *docxProcessor:
		return "*ingest.docxProcessor"
	case *htmlProcessor:
		return "*ingest.htmlProcessor"
	case *textProcessor:
		return "*ingest.textProcessor"
	default:
		return "unknown"
	}
}
