// Sparse embedding backends: BM25-style raw term frequency vectors (the
// store applies IDF weighting at query time via its own modifier) and a
// SPLADE-style deterministic term-expansion stub. Both hash token
// strings to stable, non-cryptographic uint32 indices rather than
// maintaining an external vocabulary file, matching spec.md §4.3's
// SPLADE note and generalizing it to also cover BM25's storage shape.
package providers

import (
	"context"
	"hash/fnv"
	"sort"
	"strings"
)

func init() {
	RegisterSparseEmbedder("bm25", NewBM25SparseEmbedder)
	RegisterSparseEmbedder("splade", NewSPLADESparseEmbedder)
}

// stableTokenIndex hashes a token to a uint32 index with FNV-1a, the
// same stable non-cryptographic hash the pack's ecosystem favors for
// content-addressed ids.
func stableTokenIndex(token string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(token))
	return h.Sum32()
}

var sparseStopwords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "of": {}, "and": {}, "or": {}, "to": {},
	"is": {}, "are": {}, "in": {}, "on": {}, "for": {}, "with": {}, "at": {},
}

const sparsePunctuation = ".,;:!?\"'()[]{}<>「」『』、。・…"

func sparseTokenize(text string) []string {
	fields := strings.Fields(text)
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, sparsePunctuation)
		if f == "" {
			continue
		}
		norm := strings.ToLower(f)
		if _, stop := sparseStopwords[norm]; stop {
			continue
		}
		tokens = append(tokens, norm)
	}
	return tokens
}

// BM25SparseEmbedder emits raw term-frequency sparse vectors. The
// collection's sparse field is configured with an IDF modifier so the
// vector store applies term-frequency normalization at query time,
// rather than this embedder computing IDF itself (IDF is a corpus-wide
// statistic, not a per-document property).
type BM25SparseEmbedder struct{}

func NewBM25SparseEmbedder(map[string]interface{}) (SparseEmbedder, error) {
	return &BM25SparseEmbedder{}, nil
}

func (e *BM25SparseEmbedder) EmbedDocument(_ context.Context, text string) (*SparseVector, error) {
	return termFrequencyVector(text), nil
}

func (e *BM25SparseEmbedder) EmbedQuery(_ context.Context, text string) (*SparseVector, error) {
	return termFrequencyVector(text), nil
}

func termFrequencyVector(text string) *SparseVector {
	counts := make(map[uint32]float32)
	for _, tok := range sparseTokenize(text) {
		counts[stableTokenIndex(tok)]++
	}
	return mapToSparseVector(counts)
}

// SPLADESparseEmbedder is a deterministic stand-in for a learned
// term-expansion model: it hashes surface tokens directly rather than
// expanding to related terms via a neural encoder, which requires no
// external model download and keeps the repository's tests runnable
// offline, at the cost of the semantic expansion a real SPLADE model
// would provide.
type SPLADESparseEmbedder struct{}

func NewSPLADESparseEmbedder(map[string]interface{}) (SparseEmbedder, error) {
	return &SPLADESparseEmbedder{}, nil
}

func (e *SPLADESparseEmbedder) EmbedDocument(_ context.Context, text string) (*SparseVector, error) {
	return expansionVector(text), nil
}

func (e *SPLADESparseEmbedder) EmbedQuery(_ context.Context, text string) (*SparseVector, error) {
	return expansionVector(text), nil
}

func expansionVector(text string) *SparseVector {
	weights := make(map[uint32]float32)
	tokens := sparseTokenize(text)
	for i, tok := range tokens {
		idx := stableTokenIndex(tok)
		// surface-position weighting as a deterministic proxy for
		// attention mass, decaying toward the tail of the text.
		weight := float32(1.0) - float32(i)/float32(len(tokens)+1)*0.3
		if existing, ok := weights[idx]; !ok || weight > existing {
			weights[idx] = weight
		}
	}
	return mapToSparseVector(weights)
}

func mapToSparseVector(weights map[uint32]float32) *SparseVector {
	indices := make([]uint32, 0, len(weights))
	for idx := range weights {
		indices = append(indices, idx)
	}
	sort.Slice(indices, func(i, j int) bool { return indices[i] < indices[j] })

	values := make([]float32, len(indices))
	for i, idx := range indices {
		values[i] = weights[idx]
	}
	return &SparseVector{Indices: indices, Values: values}
}
