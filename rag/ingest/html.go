package ingest

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
)

// htmlProcessor strips an HTML document down to its readable text. It
// produces a single page: HTML has no addressable page concept of its own,
// unlike the paginated formats.
type htmlProcessor struct{}

func (p *htmlProcessor) Accepts(ext string) bool { return ext == ".html" || ext == ".htm" }

var collapseWhitespace = regexp.MustCompile(`[ \t]+`)
var collapseBlankLines = regexp.MustCompile(`\n{3,}`)

func (p *htmlProcessor) Extract(ctx context.Context, filePath string) (Result, error) {
	raw, err := os.ReadFile(filePath)
	if err != nil {
		return Result{}, err
	}

	// Strip scripts, styles, and anything bluemonday considers unsafe
	// markup before goquery walks the tree, so neither survives into the
	// extracted text as a stray attribute value.
	sanitized := bluemonday.UGCPolicy().SanitizeBytes(raw)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(sanitized)))
	if err != nil {
		return Result{}, err
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())
	doc.Find("script, style, nav, footer, header, noscript").Remove()

	text := doc.Find("body").Text()
	if strings.TrimSpace(text) == "" {
		text = doc.Text()
	}
	text = collapseWhitespace.ReplaceAllString(text, " ")
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	text = strings.Join(lines, "\n")
	text = collapseBlankLines.ReplaceAllString(text, "\n\n")
	text = strings.TrimSpace(text)

	if title != "" {
		text = title + "\n\n" + text
	}

	return Result{
		Pages:    []Page{{Number: 1, Content: text, Extra: map[string]interface{}{"title": title}}},
		Metadata: map[string]string{"format": "html", "filename": filepath.Base(filePath)},
	}, nil
}
