package providers

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticEmbedder_DimensionDefaultsTo256(t *testing.T) {
	embedder, err := NewStaticEmbedder(nil)
	require.NoError(t, err)
	dim, err := embedder.GetDimension()
	require.NoError(t, err)
	assert.Equal(t, 256, dim)
}

func TestStaticEmbedder_DimensionOverridable(t *testing.T) {
	embedder, err := NewStaticEmbedder(map[string]interface{}{"dimension": 32})
	require.NoError(t, err)
	dim, err := embedder.GetDimension()
	require.NoError(t, err)
	assert.Equal(t, 32, dim)
}

func TestStaticEmbedder_EmbedIsL2Normalized(t *testing.T) {
	e := &StaticEmbedder{Dim: 64}
	vec, err := e.Embed(context.Background(), "the quick brown fox")
	require.NoError(t, err)

	var norm float64
	for _, v := range vec {
		norm += v * v
	}
	assert.InDelta(t, 1.0, math.Sqrt(norm), 1e-9)
}

func TestStaticEmbedder_EmptyTextYieldsZeroVector(t *testing.T) {
	e := &StaticEmbedder{Dim: 16}
	vec, err := e.Embed(context.Background(), "")
	require.NoError(t, err)
	for _, v := range vec {
		assert.Zero(t, v)
	}
}

func TestStaticEmbedder_SameTextSameVector(t *testing.T) {
	e := &StaticEmbedder{Dim: 64}
	a, err := e.Embed(context.Background(), "hello world")
	require.NoError(t, err)
	b, err := e.Embed(context.Background(), "hello world")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}
