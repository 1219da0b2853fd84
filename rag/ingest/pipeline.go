package ingest

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/teilomillet/raggo/rag"
)

// Pipeline ties page extraction to storage: it re-ingests a source by
// deleting any chunks already stored under that source key and inserting
// freshly extracted, freshly chunked pages in their place. This keeps
// re-running ingestion over an updated file idempotent without leaving
// stale chunks behind when the document shrinks.
type Pipeline struct {
	Manager      *rag.VectorStoreManager
	Collection   string
	Strategy     rag.Strategy
	ChunkSize    int
	ChunkOverlap int
	TempDir      string
	HTTPClient   *http.Client
	MaxURIBytes  int // 0 means unbounded

	OnProgress func(source string, pageCount int)
	OnError    func(source string, err error)
}

// Ingest walks source (a file, a directory, or an http(s) URL), extracts
// every document it finds, and stores it under its path (or URL) as the
// source key. Per-document errors are reported via OnError and do not
// abort the rest of the batch, matching the tolerance the loader already
// applies when walking directories.
func (p *Pipeline) Ingest(ctx context.Context, source string) error {
	if isURI(source) {
		return p.ingestOne(ctx, source)
	}

	info, err := os.Stat(source)
	if err != nil {
		return fmt.Errorf("ingest: stat %s: %w", source, err)
	}
	if !info.IsDir() {
		return p.ingestOne(ctx, source)
	}

	var walkErr error
	err = filepath.Walk(source, func(path string, fi os.FileInfo, err error) error {
		if err != nil {
			p.reportError(path, err)
			return nil
		}
		if fi.IsDir() {
			return nil
		}
		if ingestErr := p.ingestOne(ctx, path); ingestErr != nil {
			p.reportError(path, ingestErr)
		}
		return nil
	})
	if err != nil {
		walkErr = err
	}
	return walkErr
}

func (p *Pipeline) ingestOne(ctx context.Context, source string) error {
	result, err := p.extract(ctx, source)
	if err != nil {
		p.reportError(source, err)
		return err
	}

	if err := p.Manager.DeleteByFilter(ctx, p.Collection, rag.Filter{"source": source}); err != nil {
		p.reportError(source, err)
		return err
	}

	pages := make([]string, len(result.Pages))
	for i, pg := range result.Pages {
		pages[i] = pg.Content
	}

	extraMeta := map[string]interface{}{}
	for k, v := range result.Metadata {
		extraMeta[k] = v
	}

	if _, err := p.Manager.AddPages(ctx, p.Collection, p.Strategy, source, pages,
		p.ChunkSize, p.ChunkOverlap, extraMeta); err != nil {
		p.reportError(source, err)
		return err
	}

	if p.OnProgress != nil {
		p.OnProgress(source, len(pages))
	}
	return nil
}

func (p *Pipeline) extract(ctx context.Context, source string) (Result, error) {
	if isURI(source) {
		return FetchAndExtract(ctx, p.HTTPClient, source, p.TempDir, p.MaxURIBytes)
	}
	return Extract(ctx, source)
}

func (p *Pipeline) reportError(source string, err error) {
	if p.OnError != nil {
		p.OnError(source, err)
	}
}

func isURI(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
