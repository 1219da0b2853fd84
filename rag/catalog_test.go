package rag

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCatalog_Save_RejectsEmptyName(t *testing.T) {
	c := NewCatalog(nil)
	err := c.Save(nil, CollectionEntry{Name: ""})
	assert.Error(t, err)
}

func TestCatalog_Save_RejectsSlashInName(t *testing.T) {
	c := NewCatalog(nil)
	err := c.Save(nil, CollectionEntry{Name: "docs/2026"})
	assert.Error(t, err)

	err = c.Save(nil, CollectionEntry{Name: `docs\2026`})
	assert.Error(t, err)
}

func TestEntryFromPayload_RoundTripsAllFields(t *testing.T) {
	payload := map[string]interface{}{
		"name":            "docs",
		"description":     "product docs",
		"chunk_size":      int64(512),
		"chunk_overlap":   int64(64),
		"top_k":           int64(5),
		"score_threshold": 0.75,
		"strategy":        "hybrid_rrf",
		"sparse_kind":     "bm25",
		"dense_model":     "text-embedding-3-small",
		"dense_dim":       int64(1536),
		"use_gpu":         true,
	}

	entry := entryFromPayload(payload)
	assert.Equal(t, CollectionEntry{
		Name:           "docs",
		Description:    "product docs",
		ChunkSize:      512,
		ChunkOverlap:   64,
		TopK:           5,
		ScoreThreshold: 0.75,
		Strategy:       "hybrid_rrf",
		SparseKind:     "bm25",
		DenseModel:     "text-embedding-3-small",
		DenseDim:       1536,
		UseGPU:         true,
	}, entry)
}

func TestEntryFromPayload_MissingFieldsZeroValue(t *testing.T) {
	entry := entryFromPayload(map[string]interface{}{})
	assert.Equal(t, CollectionEntry{}, entry)
}

func TestIntFromPayload_HandlesEachNumericKind(t *testing.T) {
	assert.Equal(t, 5, intFromPayload(int64(5)))
	assert.Equal(t, 5, intFromPayload(float64(5)))
	assert.Equal(t, 5, intFromPayload(int(5)))
	assert.Equal(t, 0, intFromPayload("not a number"))
	assert.Equal(t, 0, intFromPayload(nil))
}
