package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOpenAIEmbedder_RequiresAPIKey(t *testing.T) {
	_, err := NewOpenAIEmbedder(map[string]interface{}{})
	assert.Error(t, err)
}

func TestNewOpenAIEmbedder_DefaultsModelAndURL(t *testing.T) {
	e, err := NewOpenAIEmbedder(map[string]interface{}{"api_key": "sk-test"})
	require.NoError(t, err)
	openaiEmbedder := e.(*OpenAIEmbedder)
	assert.Equal(t, defaultModelName, openaiEmbedder.modelName)
	assert.Equal(t, defaultEmbeddingAPI, openaiEmbedder.apiURL)
}

func TestOpenAIEmbedder_Embed_SendsAuthorizedRequestAndParsesResponse(t *testing.T) {
	var gotAuth, gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		var req embeddingRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		gotBody = req.Input

		resp := embeddingResponse{}
		resp.Data = []struct {
			Embedding []float64 `json:"embedding"`
		}{{Embedding: []float64{0.1, 0.2, 0.3}}}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	e, err := NewOpenAIEmbedder(map[string]interface{}{
		"api_key": "sk-test",
		"api_url": server.URL,
	})
	require.NoError(t, err)

	vec, err := e.Embed(context.Background(), "hello embedding")
	require.NoError(t, err)
	assert.Equal(t, []float64{0.1, 0.2, 0.3}, vec)
	assert.Equal(t, "Bearer sk-test", gotAuth)
	assert.Equal(t, "hello embedding", gotBody)
}

func TestOpenAIEmbedder_Embed_ErrorsOnNonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	e, err := NewOpenAIEmbedder(map[string]interface{}{
		"api_key": "sk-test",
		"api_url": server.URL,
	})
	require.NoError(t, err)

	_, err = e.Embed(context.Background(), "hello")
	assert.Error(t, err)
}

func TestOpenAIEmbedder_GetDimension_KnownModels(t *testing.T) {
	cases := map[string]int{
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
	}
	for model, want := range cases {
		e, err := NewOpenAIEmbedder(map[string]interface{}{"api_key": "sk-test", "model": model})
		require.NoError(t, err)
		dim, err := e.GetDimension()
		require.NoError(t, err)
		assert.Equal(t, want, dim)
	}
}

func TestOpenAIEmbedder_GetDimension_UnknownModelErrors(t *testing.T) {
	e, err := NewOpenAIEmbedder(map[string]interface{}{"api_key": "sk-test", "model": "mystery-model"})
	require.NoError(t, err)
	_, err = e.GetDimension()
	assert.Error(t, err)
}
