package ingest

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// contentTypeExt maps the media types a fetched resource is most likely to
// declare to the extension the processor registry dispatches on.
var contentTypeExt = map[string]string{
	"application/pdf":            ".pdf",
	"text/html":                  ".html",
	"application/xhtml+xml":      ".html",
	"text/plain":                 ".txt",
	"text/csv":                   ".csv",
	"application/json":           ".json",
	"text/markdown":              ".md",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document":   ".docx",
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":         ".xlsx",
	"application/vnd.openxmlformats-officedocument.presentationml.presentation": ".pptx",
}

// FetchAndExtract downloads url, dispatches to a Processor by its
// Content-Type (falling back to the URL path's extension when the header
// is absent or generic), and extracts its pages. A positive maxBytes caps
// the total content kept across all pages: the budget is always divided
// evenly across pages and each page longer than its share is trimmed,
// even when the whole text is within maxBytes, so a single oversized page
// can't starve the rest of the document out of the truncated result.
func FetchAndExtract(ctx context.Context, client *http.Client, url string, tempDir string, maxBytes int) (Result, error) {
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Result{}, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return Result{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return Result{}, fmt.Errorf("ingest: fetching %s: status %d", url, resp.StatusCode)
	}

	ext := extFromContentType(resp.Header.Get("Content-Type"))
	if ext == "" {
		ext = strings.ToLower(filepath.Ext(url))
	}
	if ext == "" {
		ext = ".html"
	}

	tmp, err := os.CreateTemp(tempDir, "raggo-uri-*"+ext)
	if err != nil {
		return Result{}, err
	}
	defer os.Remove(tmp.Name())
	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		return Result{}, err
	}
	tmp.Close()

	result, err := Extract(ctx, tmp.Name())
	if err != nil {
		return Result{}, err
	}
	result.Metadata["source_url"] = url

	if maxBytes > 0 {
		truncatePages(result.Pages, maxBytes)
	}
	return result, nil
}

func extFromContentType(header string) string {
	if header == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(header)
	if err != nil {
		return ""
	}
	return contentTypeExt[mediaType]
}

// truncatePages divides maxBytes evenly across pages and trims each page's
// content in place so the total stays within budget regardless of how
// unevenly the content is distributed across pages.
func truncatePages(pages []Page, maxBytes int) {
	if len(pages) == 0 {
		return
	}
	perPage := maxBytes / len(pages)
	if perPage <= 0 {
		perPage = 1
	}
	for i := range pages {
		if len(pages[i].Content) > perPage {
			pages[i].Content = pages[i].Content[:perPage]
		}
	}
}
