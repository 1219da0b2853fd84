package rag

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSparseEmbedder struct{}

func (fakeSparseEmbedder) EmbedDocument(context.Context, string) (*SparseVector, error) {
	return &SparseVector{Indices: []uint32{1}, Values: []float32{1}}, nil
}
func (fakeSparseEmbedder) EmbedQuery(context.Context, string) (*SparseVector, error) {
	return &SparseVector{Indices: []uint32{2}, Values: []float32{2}}, nil
}

type fakeDenseEmbedder struct{ dim int }

func (e fakeDenseEmbedder) Embed(context.Context, string) ([]float64, error) {
	return make([]float64, e.dim), nil
}
func (e fakeDenseEmbedder) GetDimension() (int, error) { return e.dim, nil }

type fakeCrossEncoder struct {
	scores map[string]float64
}

func (c fakeCrossEncoder) Score(_ context.Context, _ string, candidate string) (float64, error) {
	return c.scores[candidate], nil
}

func TestSparseOnlyStrategy_WritesAndQueriesSparseField(t *testing.T) {
	s := NewSparseOnlyStrategy(SparseBM25, fakeSparseEmbedder{})
	assert.Equal(t, "sparse_only(bm25)", s.Tag())
	assert.Equal(t, 0, s.DenseFieldDimension())
	name, ok := s.UseVectorName()
	assert.Equal(t, fieldSparse, name)
	assert.True(t, ok)

	vectors, err := s.Vectors(context.Background(), "doc text")
	require.NoError(t, err)
	assert.NotNil(t, vectors[fieldSparse].Sparse)

	qv, err := s.Query(context.Background(), "query text", nil)
	require.NoError(t, err)
	assert.Equal(t, fieldSparse, qv.VectorName)
	assert.NotNil(t, qv.SparseQuery)
}

func TestDenseOnlyStrategy_QueryUsesOverrideWhenGiven(t *testing.T) {
	s := NewDenseOnlyStrategy("test-model", fakeDenseEmbedder{dim: 4}, 4)
	override := []float32{1, 2, 3, 4}

	qv, err := s.Query(context.Background(), "ignored", override)
	require.NoError(t, err)
	assert.Equal(t, override, qv.DenseQuery)
}

func TestHybridRRFStrategy_PrefetchReturnsOneSpecPerField(t *testing.T) {
	s := NewHybridRRFStrategy(SparseBM25, "test-model", fakeSparseEmbedder{}, fakeDenseEmbedder{dim: 4}, 4)
	specs, err := s.Prefetch(context.Background(), "q", 10, nil)
	require.NoError(t, err)
	require.Len(t, specs, 2)

	fields := map[string]bool{}
	for _, sp := range specs {
		fields[sp.Field] = true
	}
	assert.True(t, fields[fieldSparse])
	assert.True(t, fields[fieldDense])

	qv, err := s.Query(context.Background(), "q", nil)
	require.NoError(t, err)
	assert.Equal(t, FusionRRF, qv.Fusion)
	name, ok := s.UseVectorName()
	assert.False(t, ok)
	assert.Empty(t, name)
}

func TestHybridRRFRerankStrategy_DropsBelowThresholdAndTruncates(t *testing.T) {
	s := NewHybridRRFRerankStrategy(SparseBM25, "test-model", fakeSparseEmbedder{}, fakeDenseEmbedder{dim: 4}, 4,
		fakeCrossEncoder{scores: map[string]float64{"a": 0.9, "b": 0.1, "c": 0.5}})
	assert.True(t, s.Overfetch())

	hits := []Hit{
		{ID: "1", Payload: map[string]interface{}{"text": "a"}},
		{ID: "2", Payload: map[string]interface{}{"text": "b"}},
		{ID: "3", Payload: map[string]interface{}{"text": "c"}},
	}

	reranked, err := s.Rerank(context.Background(), "query", hits, 1, 0.2)
	require.NoError(t, err)
	require.Len(t, reranked, 1)
	assert.Equal(t, "1", reranked[0].ID)
}

func TestNoopStrategy_IsAllZeroValue(t *testing.T) {
	s := NoopStrategy{}
	assert.Equal(t, "noop", s.Tag())
	vectors, err := s.Vectors(context.Background(), "text")
	require.NoError(t, err)
	assert.Nil(t, vectors)
	name, ok := s.UseVectorName()
	assert.False(t, ok)
	assert.Empty(t, name)
}

func TestBuildStrategy_UnknownTagErrors(t *testing.T) {
	_, err := BuildStrategy(StrategyConfig{Tag: "not-a-real-strategy"})
	assert.Error(t, err)
}

func TestBuildStrategy_NoopAndEmptyTagBothReturnNoopStrategy(t *testing.T) {
	for _, tag := range []string{"noop", ""} {
		s, err := BuildStrategy(StrategyConfig{Tag: tag})
		require.NoError(t, err)
		assert.Equal(t, "noop", s.Tag())
	}
}

func TestBuildStrategy_SparseOnlyDefaultsToBM25(t *testing.T) {
	s, err := BuildStrategy(StrategyConfig{Tag: "sparse_only"})
	require.NoError(t, err)
	assert.Equal(t, "sparse_only(bm25)", s.Tag())
}

func TestBuildStrategy_DenseOnlyUsesStaticProviderByName(t *testing.T) {
	s, err := BuildStrategy(StrategyConfig{Tag: "dense_only", DenseProvider: "static", DenseDim: 256})
	require.NoError(t, err)
	assert.Equal(t, "dense_only()", s.Tag())
}

func TestBuildStrategy_HybridRerankRequiresReranker(t *testing.T) {
	_, err := BuildStrategy(StrategyConfig{Tag: "hybrid_rrf_rerank", DenseProvider: "static"})
	assert.Error(t, err)
}

func TestSortHitsByScoreDesc_OrdersDescending(t *testing.T) {
	hits := []Hit{{ID: "low", Score: 0.1}, {ID: "high", Score: 0.9}, {ID: "mid", Score: 0.5}}
	sortHitsByScoreDesc(hits)
	assert.Equal(t, []string{"high", "mid", "low"}, []string{hits[0].ID, hits[1].ID, hits[2].ID})
}
