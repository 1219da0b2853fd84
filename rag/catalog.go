package rag

import (
	"context"
	"errors"
	"strings"

	"github.com/teilomillet/raggo/rag/rerr"
)

// CollectionEntry is one catalog record: the self-describing metadata a
// collection carries about itself, so a process that did not create the
// collection can still query it correctly (spec.md §4.6).
type CollectionEntry struct {
	Name           string
	Description    string
	ChunkSize      int
	ChunkOverlap   int
	TopK           int
	ScoreThreshold float64
	Strategy       string // Strategy.Tag(), persisted so it survives a restart
	SparseKind     string
	DenseModel     string
	DenseDim       int
	UseGPU         bool
}

// Catalog stores one CollectionEntry per user collection inside the
// reserved catalog collection, keyed by collection name. It never holds
// the entries in process memory between calls: every Load round-trips
// to the store, so a second process's writes are visible immediately.
type Catalog struct {
	manager *VectorStoreManager
}

// NewCatalog wraps manager's reserved catalog collection.
func NewCatalog(manager *VectorStoreManager) *Catalog {
	return &Catalog{manager: manager}
}

// Save upserts entry's record, keyed by entry.Name. A second Save for the
// same name overwrites the prior record in full. entry.Name must be
// non-empty and contain no slash, since it doubles as a local-mode
// collection directory segment (spec.md §4.6).
func (c *Catalog) Save(ctx context.Context, entry CollectionEntry) error {
	if entry.Name == "" {
		return rerr.InputRejected(entry.Name, "collection name must not be empty")
	}
	if strings.ContainsAny(entry.Name, "/\\") {
		return rerr.InputRejected(entry.Name, "collection name %q must not contain a slash", entry.Name)
	}

	metadata := map[string]interface{}{
		"source":          entry.Name,
		"name":            entry.Name,
		"description":     entry.Description,
		"chunk_size":      entry.ChunkSize,
		"chunk_overlap":   entry.ChunkOverlap,
		"top_k":           entry.TopK,
		"score_threshold": entry.ScoreThreshold,
		"strategy":        entry.Strategy,
		"sparse_kind":     entry.SparseKind,
		"dense_model":     entry.DenseModel,
		"dense_dim":       entry.DenseDim,
		"use_gpu":         entry.UseGPU,
	}

	if err := c.manager.DeleteByFilter(ctx, CatalogCollectionName, Filter{"source": entry.Name}); err != nil {
		return err
	}

	_, err := c.manager.AddDocuments(ctx, CatalogCollectionName, NoopStrategy{}, []string{entry.Name}, []map[string]interface{}{metadata}, len(entry.Name)+1, 0)
	return err
}

// Load returns the catalog entry for name, or rerr.ErrNotFound if name has
// never been registered. Score threshold NoThreshold means the query is
// unfiltered, matching spec.md §4.6's "score_threshold = -1" convention.
func (c *Catalog) Load(ctx context.Context, name string) (CollectionEntry, error) {
	hits, err := c.manager.QueryPoints(ctx, CatalogCollectionName, NoopStrategy{}, name, 1, NoThreshold, Filter{"source": name}, nil)
	if err != nil {
		return CollectionEntry{}, rerr.Upstream(name, err)
	}
	if len(hits) == 0 {
		return CollectionEntry{}, rerr.ErrNotFound
	}
	return entryFromPayload(hits[0].Payload), nil
}

// UpdateDescription rewrites only the description field of an existing
// entry, failing with rerr.ErrNotFound if name is unregistered.
func (c *Catalog) UpdateDescription(ctx context.Context, name, description string) error {
	entry, err := c.Load(ctx, name)
	if err != nil {
		return err
	}
	entry.Description = description
	return c.Save(ctx, entry)
}

// List returns every registered collection's entry.
func (c *Catalog) List(ctx context.Context) ([]CollectionEntry, error) {
	names, err := c.manager.Sources(ctx, CatalogCollectionName, 0)
	if err != nil {
		return nil, rerr.Upstream("", err)
	}
	entries := make([]CollectionEntry, 0, len(names))
	for _, name := range names {
		entry, err := c.Load(ctx, name)
		if err != nil {
			if errors.Is(err, rerr.ErrNotFound) {
				continue
			}
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func entryFromPayload(payload map[string]interface{}) CollectionEntry {
	entry := CollectionEntry{}
	if v, ok := payload["name"].(string); ok {
		entry.Name = v
	}
	if v, ok := payload["description"].(string); ok {
		entry.Description = v
	}
	entry.ChunkSize = intFromPayload(payload["chunk_size"])
	entry.ChunkOverlap = intFromPayload(payload["chunk_overlap"])
	entry.TopK = intFromPayload(payload["top_k"])
	if v, ok := payload["score_threshold"].(float64); ok {
		entry.ScoreThreshold = v
	}
	if v, ok := payload["strategy"].(string); ok {
		entry.Strategy = v
	}
	if v, ok := payload["sparse_kind"].(string); ok {
		entry.SparseKind = v
	}
	if v, ok := payload["dense_model"].(string); ok {
		entry.DenseModel = v
	}
	entry.DenseDim = intFromPayload(payload["dense_dim"])
	if v, ok := payload["use_gpu"].(bool); ok {
		entry.UseGPU = v
	}
	return entry
}

func intFromPayload(v interface{}) int {
	switch n := v.(type) {
	case int64:
		return int(n)
	case float64:
		return int(n)
	case int:
		return n
	default:
		return 0
	}
}
