// StaticEmbedder is a deterministic hashed bag-of-words dense embedder
// requiring no external API call. Supplemented from original_source's
// tiny_chat/database/embeddings/static_embedding.py for low-resource
// deployments, and doubling as the embedder this repository's own
// tests use to exercise hybrid strategies end-to-end without network
// access.
package providers

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
)

func init() {
	RegisterEmbedder("static", NewStaticEmbedder)
}

// StaticEmbedder hashes each token into one of Dim buckets and
// accumulates a count per bucket, then L2-normalizes the result.
// It is not a learned representation — two documents sharing vocabulary
// will score similarly, which is the property hybrid-strategy tests
// rely on without needing a real model.
type StaticEmbedder struct {
	Dim int
}

// NewStaticEmbedder builds a StaticEmbedder from config. An optional
// "dimension" key overrides the default of 256.
func NewStaticEmbedder(config map[string]interface{}) (Embedder, error) {
	dim := 256
	if d, ok := config["dimension"].(int); ok && d > 0 {
		dim = d
	}
	return &StaticEmbedder{Dim: dim}, nil
}

func (e *StaticEmbedder) Embed(_ context.Context, text string) ([]float64, error) {
	vec := make([]float64, e.Dim)
	for _, tok := range strings.Fields(strings.ToLower(text)) {
		h := fnv.New32a()
		_, _ = h.Write([]byte(tok))
		bucket := int(h.Sum32()) % e.Dim
		if bucket < 0 {
			bucket += e.Dim
		}
		vec[bucket]++
	}
	var norm float64
	for _, v := range vec {
		norm += v * v
	}
	if norm == 0 {
		return vec, nil
	}
	norm = math.Sqrt(norm)
	for i := range vec {
		vec[i] /= norm
	}
	return vec, nil
}

func (e *StaticEmbedder) GetDimension() (int, error) {
	return e.Dim, nil
}
