package providers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSparseTokenize_DropsPunctuationAndStopwords(t *testing.T) {
	got := sparseTokenize("The quick, brown fox jumps over the lazy dog.")
	assert.NotContains(t, got, "the")
	assert.Contains(t, got, "quick")
	assert.Contains(t, got, "brown")
	assert.Contains(t, got, "fox")
}

func TestBM25SparseEmbedder_SameTextSameVector(t *testing.T) {
	e := &BM25SparseEmbedder{}
	a, err := e.EmbedDocument(context.Background(), "alpha beta alpha")
	require.NoError(t, err)
	b, err := e.EmbedDocument(context.Background(), "alpha beta alpha")
	require.NoError(t, err)
	assert.Equal(t, a.Indices, b.Indices)
	assert.Equal(t, a.Values, b.Values)
}

func TestBM25SparseEmbedder_RepeatedTermHasHigherWeight(t *testing.T) {
	e := &BM25SparseEmbedder{}
	vec, err := e.EmbedDocument(context.Background(), "alpha beta alpha")
	require.NoError(t, err)

	alphaIdx := stableTokenIndex("alpha")
	betaIdx := stableTokenIndex("beta")
	var alphaWeight, betaWeight float32
	for i, idx := range vec.Indices {
		switch idx {
		case alphaIdx:
			alphaWeight = vec.Values[i]
		case betaIdx:
			betaWeight = vec.Values[i]
		}
	}
	assert.Greater(t, alphaWeight, betaWeight)
}

func TestSPLADESparseEmbedder_DecaysTowardTail(t *testing.T) {
	e := &SPLADESparseEmbedder{}
	vec, err := e.EmbedDocument(context.Background(), "first second third fourth")
	require.NoError(t, err)
	assert.NotEmpty(t, vec.Indices)

	firstIdx := stableTokenIndex("first")
	fourthIdx := stableTokenIndex("fourth")
	var firstWeight, fourthWeight float32
	for i, idx := range vec.Indices {
		switch idx {
		case firstIdx:
			firstWeight = vec.Values[i]
		case fourthIdx:
			fourthWeight = vec.Values[i]
		}
	}
	assert.GreaterOrEqual(t, firstWeight, fourthWeight)
}

func TestMapToSparseVector_IndicesSorted(t *testing.T) {
	weights := map[uint32]float32{30: 1, 10: 2, 20: 3}
	vec := mapToSparseVector(weights)
	assert.Equal(t, []uint32{10, 20, 30}, vec.Indices)
}
