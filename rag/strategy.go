package rag

import (
	"context"
	"fmt"

	"github.com/teilomillet/raggo/rag/providers"
)

// SparseKind is the closed set of supported lexical embedding flavors.
type SparseKind string

const (
	SparseBM25  SparseKind = "bm25"
	SparseSPLADE SparseKind = "splade"
	SparseBM42  SparseKind = "bm42"
)

// Strategy encapsulates the write-path and read-path contract for one
// vector schema (spec.md §4.4). The manager does not know embedding
// mechanics; a Strategy does not know storage mechanics — either can be
// replaced in isolation. Implementations are immutable after
// construction and safe for concurrent use.
type Strategy interface {
	// Tag identifies the strategy variant, persisted on the catalog
	// entry so a collection's strategy survives a process restart.
	Tag() string

	// Vectors produces the named vector fields to upsert for text.
	Vectors(ctx context.Context, text string) (map[string]Vector, error)

	// Prefetch returns one prefetch spec per vector field for hybrid
	// strategies, or nil for single-field strategies.
	Prefetch(ctx context.Context, queryText string, topK uint64, denseOverride []float32) ([]PrefetchSpec, error)

	// Query returns the read-path query value: a fusion instruction for
	// hybrid strategies, or a single field's query vector otherwise.
	Query(ctx context.Context, queryText string, denseOverride []float32) (QueryValue, error)

	// UseVectorName names the field to query against for single-field
	// strategies; hybrid strategies return ("", false).
	UseVectorName() (string, bool)

	// Reranks, if non-nil, reorders hits by a secondary score, drops
	// hits below scoreThreshold, and truncates to topK.
	Rerank(ctx context.Context, query string, hits []Hit, topK int, scoreThreshold float64) ([]Hit, error)

	// Overfetch reports whether the read path should request 2x topK
	// candidates to give a reranker headroom.
	Overfetch() bool

	// DenseFieldDimension returns the dimension of the dense field, or
	// 0 if the strategy has none.
	DenseFieldDimension() int
}

const (
	fieldDense  = "dense"
	fieldSparse = "sparse"
)

// SparseOnlyStrategy indexes and queries a single sparse vector field.
type SparseOnlyStrategy struct {
	Kind     SparseKind
	Sparse   providers.SparseEmbedder
}

func NewSparseOnlyStrategy(kind SparseKind, embedder providers.SparseEmbedder) *SparseOnlyStrategy {
	return &SparseOnlyStrategy{Kind: kind, Sparse: embedder}
}

func (s *SparseOnlyStrategy) Tag() string { return fmt.Sprintf("sparse_only(%s)", s.Kind) }

func (s *SparseOnlyStrategy) Vectors(ctx context.Context, text string) (map[string]Vector, error) {
	sv, err := s.Sparse.EmbedDocument(ctx, text)
	if err != nil {
		return nil, err
	}
	return map[string]Vector{fieldSparse: {Sparse: sv}}, nil
}

func (s *SparseOnlyStrategy) Prefetch(context.Context, string, uint64, []float32) ([]PrefetchSpec, error) {
	return nil, nil
}

func (s *SparseOnlyStrategy) Query(ctx context.Context, queryText string, _ []float32) (QueryValue, error) {
	sv, err := s.Sparse.EmbedQuery(ctx, queryText)
	if err != nil {
		return QueryValue{}, err
	}
	return QueryValue{VectorName: fieldSparse, SparseQuery: sv}, nil
}

func (s *SparseOnlyStrategy) UseVectorName() (string, bool) { return fieldSparse, true }

func (s *SparseOnlyStrategy) Rerank(context.Context, string, []Hit, int, float64) ([]Hit, error) {
	return nil, nil
}

func (s *SparseOnlyStrategy) Overfetch() bool     { return false }
func (s *SparseOnlyStrategy) DenseFieldDimension() int { return 0 }

// DenseOnlyStrategy indexes and queries a single dense vector field.
type DenseOnlyStrategy struct {
	Model string
	Dense providers.Embedder
	Dim   int
}

func NewDenseOnlyStrategy(model string, embedder providers.Embedder, dim int) *DenseOnlyStrategy {
	return &DenseOnlyStrategy{Model: model, Dense: embedder, Dim: dim}
}

func (s *DenseOnlyStrategy) Tag() string { return fmt.Sprintf("dense_only(%s)", s.Model) }

func (s *DenseOnlyStrategy) Vectors(ctx context.Context, text string) (map[string]Vector, error) {
	v, err := s.Dense.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	return map[string]Vector{fieldDense: {Dense: toFloat32(v)}}, nil
}

func (s *DenseOnlyStrategy) Prefetch(context.Context, string, uint64, []float32) ([]PrefetchSpec, error) {
	return nil, nil
}

func (s *DenseOnlyStrategy) Query(ctx context.Context, queryText string, denseOverride []float32) (QueryValue, error) {
	if denseOverride != nil {
		return QueryValue{VectorName: fieldDense, DenseQuery: denseOverride}, nil
	}
	v, err := s.Dense.Embed(ctx, queryText)
	if err != nil {
		return QueryValue{}, err
	}
	return QueryValue{VectorName: fieldDense, DenseQuery: toFloat32(v)}, nil
}

func (s *DenseOnlyStrategy) UseVectorName() (string, bool) { return fieldDense, true }

func (s *DenseOnlyStrategy) Rerank(context.Context, string, []Hit, int, float64) ([]Hit, error) {
	return nil, nil
}

func (s *DenseOnlyStrategy) Overfetch() bool     { return false }
func (s *DenseOnlyStrategy) DenseFieldDimension() int { return s.Dim }

// HybridRRFStrategy indexes both a sparse and a dense field and fuses
// their prefetch results with Reciprocal Rank Fusion at query time.
type HybridRRFStrategy struct {
	SparseKind SparseKind
	DenseModel string
	Sparse     providers.SparseEmbedder
	Dense      providers.Embedder
	Dim        int
}

func NewHybridRRFStrategy(sparseKind SparseKind, denseModel string, sparse providers.SparseEmbedder, dense providers.Embedder, dim int) *HybridRRFStrategy {
	return &HybridRRFStrategy{SparseKind: sparseKind, DenseModel: denseModel, Sparse: sparse, Dense: dense, Dim: dim}
}

func (s *HybridRRFStrategy) Tag() string {
	return fmt.Sprintf("hybrid_rrf(%s,%s)", s.SparseKind, s.DenseModel)
}

func (s *HybridRRFStrategy) Vectors(ctx context.Context, text string) (map[string]Vector, error) {
	sv, err := s.Sparse.EmbedDocument(ctx, text)
	if err != nil {
		return nil, err
	}
	dv, err := s.Dense.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	return map[string]Vector{
		fieldSparse: {Sparse: sv},
		fieldDense:  {Dense: toFloat32(dv)},
	}, nil
}

func (s *HybridRRFStrategy) Prefetch(ctx context.Context, queryText string, topK uint64, denseOverride []float32) ([]PrefetchSpec, error) {
	sv, err := s.Sparse.EmbedQuery(ctx, queryText)
	if err != nil {
		return nil, err
	}
	dense := denseOverride
	if dense == nil {
		dv, err := s.Dense.Embed(ctx, queryText)
		if err != nil {
			return nil, err
		}
		dense = toFloat32(dv)
	}
	return []PrefetchSpec{
		{Field: fieldSparse, Query: Vector{Sparse: sv}, Limit: topK},
		{Field: fieldDense, Query: Vector{Dense: dense}, Limit: topK},
	}, nil
}

func (s *HybridRRFStrategy) Query(context.Context, string, []float32) (QueryValue, error) {
	return QueryValue{Fusion: FusionRRF}, nil
}

func (s *HybridRRFStrategy) UseVectorName() (string, bool) { return "", false }

func (s *HybridRRFStrategy) Rerank(context.Context, string, []Hit, int, float64) ([]Hit, error) {
	return nil, nil
}

func (s *HybridRRFStrategy) Overfetch() bool     { return false }
func (s *HybridRRFStrategy) DenseFieldDimension() int { return s.Dim }

// HybridRRFRerankStrategy is HybridRRFStrategy plus a cross-encoder
// rerank pass. The read path overfetches 2x topK to give the reranker
// headroom, per spec.md §4.4.
type HybridRRFRerankStrategy struct {
	HybridRRFStrategy
	Reranker CrossEncoder
}

// CrossEncoder scores a (query, candidate) pair; higher is more
// relevant. Implementations may call out to an LLM or a dedicated
// cross-encoder model.
type CrossEncoder interface {
	Score(ctx context.Context, query, candidate string) (float64, error)
}

func NewHybridRRFRerankStrategy(sparseKind SparseKind, denseModel string, sparse providers.SparseEmbedder, dense providers.Embedder, dim int, reranker CrossEncoder) *HybridRRFRerankStrategy {
	return &HybridRRFRerankStrategy{
		HybridRRFStrategy: HybridRRFStrategy{SparseKind: sparseKind, DenseModel: denseModel, Sparse: sparse, Dense: dense, Dim: dim},
		Reranker:          reranker,
	}
}

func (s *HybridRRFRerankStrategy) Tag() string {
	return fmt.Sprintf("hybrid_rrf_rerank(%s,%s)", s.SparseKind, s.DenseModel)
}

func (s *HybridRRFRerankStrategy) Overfetch() bool { return true }

func (s *HybridRRFRerankStrategy) Rerank(ctx context.Context, query string, hits []Hit, topK int, scoreThreshold float64) ([]Hit, error) {
	scored := make([]Hit, 0, len(hits))
	for _, h := range hits {
		text, _ := h.Payload["text"].(string)
		score, err := s.Reranker.Score(ctx, query, text)
		if err != nil {
			return nil, err
		}
		if score < scoreThreshold {
			continue
		}
		h.Score = score
		scored = append(scored, h)
	}
	sortHitsByScoreDesc(scored)
	if len(scored) > topK {
		scored = scored[:topK]
	}
	return scored, nil
}

// NoopStrategy is catalog/descriptor-only: no embeddings, no vector
// fields. Used for collections that exist purely to hold metadata.
type NoopStrategy struct{}

func (NoopStrategy) Tag() string                                                     { return "noop" }
func (NoopStrategy) Vectors(context.Context, string) (map[string]Vector, error)      { return nil, nil }
func (NoopStrategy) Prefetch(context.Context, string, uint64, []float32) ([]PrefetchSpec, error) {
	return nil, nil
}
func (NoopStrategy) Query(context.Context, string, []float32) (QueryValue, error) { return QueryValue{}, nil }
func (NoopStrategy) UseVectorName() (string, bool)                               { return "", false }
func (NoopStrategy) Rerank(context.Context, string, []Hit, int, float64) ([]Hit, error) {
	return nil, nil
}
func (NoopStrategy) Overfetch() bool     { return false }
func (NoopStrategy) DenseFieldDimension() int { return 0 }

func toFloat32(v []float64) []float32 {
	out := make([]float32, len(v))
	for i, f := range v {
		out[i] = float32(f)
	}
	return out
}

// StrategyConfig names the closed set of retrieval strategies (spec.md
// §4.4) plus the provider choices each needs. BuildStrategy is the single
// place that turns this configuration into a concrete Strategy; the
// ingestion pipeline and the query path both call it so a collection's
// catalog entry alone is enough to reconstruct its strategy.
type StrategyConfig struct {
	Tag           string // "sparse_only" | "dense_only" | "hybrid_rrf" | "hybrid_rrf_rerank" | "noop"
	SparseKind    SparseKind
	DenseProvider string // providers.Embedder registry key, e.g. "openai", "static"
	DenseModel    string
	DenseAPIKey   string
	DenseDim      int
	Reranker      CrossEncoder // required only for hybrid_rrf_rerank
}

// BuildStrategy constructs the Strategy named by cfg.Tag, resolving its
// embedders from the package-level provider registries.
func BuildStrategy(cfg StrategyConfig) (Strategy, error) {
	if cfg.SparseKind == "" {
		cfg.SparseKind = SparseBM25
	}
	switch cfg.Tag {
	case "noop", "":
		return NoopStrategy{}, nil

	case "sparse_only":
		sparse, err := buildSparseEmbedder(cfg.SparseKind)
		if err != nil {
			return nil, err
		}
		return NewSparseOnlyStrategy(cfg.SparseKind, sparse), nil

	case "dense_only":
		dense, err := buildDenseEmbedder(cfg)
		if err != nil {
			return nil, err
		}
		return NewDenseOnlyStrategy(cfg.DenseModel, dense, cfg.DenseDim), nil

	case "hybrid_rrf":
		sparse, err := buildSparseEmbedder(cfg.SparseKind)
		if err != nil {
			return nil, err
		}
		dense, err := buildDenseEmbedder(cfg)
		if err != nil {
			return nil, err
		}
		return NewHybridRRFStrategy(cfg.SparseKind, cfg.DenseModel, sparse, dense, cfg.DenseDim), nil

	case "hybrid_rrf_rerank":
		sparse, err := buildSparseEmbedder(cfg.SparseKind)
		if err != nil {
			return nil, err
		}
		dense, err := buildDenseEmbedder(cfg)
		if err != nil {
			return nil, err
		}
		if cfg.Reranker == nil {
			return nil, fmt.Errorf("hybrid_rrf_rerank strategy requires a CrossEncoder reranker")
		}
		return NewHybridRRFRerankStrategy(cfg.SparseKind, cfg.DenseModel, sparse, dense, cfg.DenseDim, cfg.Reranker), nil

	default:
		return nil, fmt.Errorf("unknown retrieval strategy tag: %q", cfg.Tag)
	}
}

func buildSparseEmbedder(kind SparseKind) (providers.SparseEmbedder, error) {
	if kind == "" {
		kind = SparseBM25
	}
	factory, err := providers.GetSparseEmbedderFactory(string(kind))
	if err != nil {
		return nil, err
	}
	return factory(nil)
}

func buildDenseEmbedder(cfg StrategyConfig) (providers.Embedder, error) {
	provider := cfg.DenseProvider
	if provider == "" {
		provider = "openai"
	}
	factory, err := providers.GetEmbedderFactory(provider)
	if err != nil {
		return nil, err
	}
	opts := map[string]interface{}{}
	if cfg.DenseModel != "" {
		opts["model"] = cfg.DenseModel
	}
	if cfg.DenseAPIKey != "" {
		opts["api_key"] = cfg.DenseAPIKey
	}
	return factory(opts)
}

func sortHitsByScoreDesc(hits []Hit) {
	for i := 1; i < len(hits); i++ {
		for j := i; j > 0 && hits[j].Score > hits[j-1].Score; j-- {
			hits[j], hits[j-1] = hits[j-1], hits[j]
		}
	}
}
