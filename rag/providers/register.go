// Package providers implements a flexible system for managing different embedding
// service providers in the Raggo framework. Each provider offers unique capabilities
// for converting text into vector representations that capture semantic meaning.
// The registration system allows new providers to be easily added and configured
// while maintaining a consistent interface for the rest of the system.
package providers

import (
	"context"
	"fmt"
	"sync"
)

// EmbedderFactory is a function type that creates a new Embedder
type EmbedderFactory func(config map[string]interface{}) (Embedder, error)

var (
	embedderFactories = make(map[string]EmbedderFactory)
	mu                sync.RWMutex
)

// RegisterEmbedder registers a new embedder factory
func RegisterEmbedder(name string, factory EmbedderFactory) {
	mu.Lock()
	defer mu.Unlock()
	embedderFactories[name] = factory
}

// GetEmbedderFactory returns the factory for the given embedder name
func GetEmbedderFactory(name string) (EmbedderFactory, error) {
	mu.RLock()
	defer mu.RUnlock()
	factory, ok := embedderFactories[name]
	if !ok {
		return nil, fmt.Errorf("embedder not found: %s", name)
	}
	return factory, nil
}

// Embedder interface defines the contract for embedding implementations
type Embedder interface {
	// Embed generates embeddings for the given text
	Embed(ctx context.Context, text string) ([]float64, error)

	// GetDimension returns the dimension of the embeddings for the current model
	GetDimension() (int, error)
}

// SparseVector is the indices+values representation of a lexical
// (BM25/SPLADE) embedding.
type SparseVector struct {
	Indices []uint32
	Values  []float32
}

// SparseEmbedder produces lexical sparse embeddings. The interface lets
// documents and queries be embedded differently; the bm25 and splade
// embedders in this package return the same vector from both methods
// (BM25's IDF weighting, a property of the whole corpus, is applied by
// the store through the sparse field's IDF modifier).
type SparseEmbedder interface {
	EmbedDocument(ctx context.Context, text string) (*SparseVector, error)
	EmbedQuery(ctx context.Context, text string) (*SparseVector, error)
}

// SparseEmbedderFactory creates a new SparseEmbedder.
type SparseEmbedderFactory func(config map[string]interface{}) (SparseEmbedder, error)

var (
	sparseFactories = make(map[string]SparseEmbedderFactory)
	sparseMu        sync.RWMutex
)

// RegisterSparseEmbedder registers a new sparse embedder factory.
func RegisterSparseEmbedder(name string, factory SparseEmbedderFactory) {
	sparseMu.Lock()
	defer sparseMu.Unlock()
	sparseFactories[name] = factory
}

// GetSparseEmbedderFactory returns the factory for the given sparse
// embedder name.
func GetSparseEmbedderFactory(name string) (SparseEmbedderFactory, error) {
	sparseMu.RLock()
	defer sparseMu.RUnlock()
	factory, ok := sparseFactories[name]
	if !ok {
		return nil, fmt.Errorf("sparse embedder not found: %s", name)
	}
	return factory, nil
}

