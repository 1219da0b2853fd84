package providers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterEmbedder_RoundTrips(t *testing.T) {
	called := false
	RegisterEmbedder("test-dense", func(config map[string]interface{}) (Embedder, error) {
		called = true
		return nil, nil
	})

	factory, err := GetEmbedderFactory("test-dense")
	require.NoError(t, err)
	_, _ = factory(nil)
	assert.True(t, called)
}

func TestGetEmbedderFactory_UnknownNameErrors(t *testing.T) {
	_, err := GetEmbedderFactory("does-not-exist")
	assert.Error(t, err)
}

func TestRegisterSparseEmbedder_RoundTrips(t *testing.T) {
	RegisterSparseEmbedder("test-sparse", func(config map[string]interface{}) (SparseEmbedder, error) {
		return &BM25SparseEmbedder{}, nil
	})

	factory, err := GetSparseEmbedderFactory("test-sparse")
	require.NoError(t, err)
	embedder, err := factory(nil)
	require.NoError(t, err)

	vec, err := embedder.EmbedDocument(context.Background(), "hello world")
	require.NoError(t, err)
	assert.NotEmpty(t, vec.Indices)
}

func TestGetSparseEmbedderFactory_UnknownNameErrors(t *testing.T) {
	_, err := GetSparseEmbedderFactory("does-not-exist")
	assert.Error(t, err)
}
