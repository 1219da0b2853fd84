// Package raggo implements a sophisticated document retrieval system that combines
// hybrid vector similarity search with optional reranking strategies. The retriever
// component serves as the core engine for finding and ranking relevant documents
// based on semantic similarity and other configurable criteria.
//
// Key features:
//   - Sparse (BM25/SPLADE), dense, and RRF-fused hybrid search
//   - Optional cross-encoder reranking
//   - Flexible result filtering and scoring
//   - Extensible callback system for result processing
package raggo

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/teilomillet/raggo/rag"
)

// Retriever handles retrieval operations with a reusable configuration.
// It provides a high-level interface for performing hybrid similarity
// searches and managing search results. The Retriever maintains a
// connection to the vector store and its resolved strategy throughout
// its lifecycle.
type Retriever struct {
	config   *RetrieverConfig        // Configuration for retrieval operations
	manager  *rag.VectorStoreManager // Connection to the vector store
	strategy rag.Strategy            // Resolved retrieval strategy
	ready    bool                    // Initialization status
}

// RetrieverConfig holds settings for the retrieval process. It provides
// fine-grained control over search behavior, store connections, and
// result processing.
type RetrieverConfig struct {
	// Core settings define the basic search behavior
	Collection string  // Name of the collection to search
	TopK       int     // Maximum number of results to return
	MinScore   float64 // Minimum similarity score threshold

	// Store settings configure the connection
	ServerURL string // Qdrant gRPC address
	StoreKey  string // Qdrant API key, if required

	// Strategy settings configure how the query is embedded and searched
	StrategyTag string // e.g. "hybrid_rrf"
	SparseKind  string // "bm25", "splade", "bm42"
	Provider    string // Dense embedding provider
	Model       string // Dense embedding model
	APIKey      string // Authentication key for the embedding provider
	Dimension   int    // Dense embedding vector dimension

	// Advanced settings provide additional control
	Timeout  time.Duration          // Operation timeout
	OnResult func(rag.Hit)          // Callback for each raw hit
	OnError  func(error)            // Error handling callback
	Filter   map[string]interface{} // Optional structured filter applied to every query
}

// RetrieverResult represents a single retrieved result with its metadata
// and relevance information. It provides a structured way to access both
// the content and context of each search result.
type RetrieverResult struct {
	Content    string                 `json:"content"`     // Retrieved text content
	Score      float64                `json:"score"`       // Similarity score
	Metadata   map[string]interface{} `json:"metadata"`     // Associated metadata (full payload)
	Source     string                 `json:"source"`      // Source identifier
	ChunkIndex int                    `json:"chunk_index"` // Position in source
}

// NewRetriever creates a new Retriever with the given options. It initializes
// the necessary connections and validates the configuration.
//
// Example:
//
//	retriever, err := NewRetriever(
//	    WithRetrieveCollection("documents"),
//	    WithTopK(5),
//	    WithMinScore(0.7),
//	    WithRetrieveDB("localhost:6334"),
//	    WithRetrieveEmbedding("openai", "text-embedding-3-small", os.Getenv("OPENAI_API_KEY")),
//	)
func NewRetriever(opts ...RetrieverOption) (*Retriever, error) {
	cfg := defaultRetrieverConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	r := &Retriever{config: cfg}
	if err := r.initialize(); err != nil {
		return nil, err
	}

	return r, nil
}

// RetrieverOption configures the retriever using the functional options pattern.
type RetrieverOption func(*RetrieverConfig)

// Retrieve finds relevant content for the given query. It handles the
// complete retrieval pipeline:
//  1. Query embedding / lexical scoring, per the resolved strategy
//  2. Candidate generation and, for hybrid strategies, RRF fusion
//  3. Client-side score threshold and filter enforcement
//  4. Optional cross-encoder reranking
//
// Example:
//
//	results, err := retriever.Retrieve(ctx, "How does photosynthesis work?")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, result := range results {
//	    fmt.Printf("Score: %.2f, Content: %s\n", result.Score, result.Content)
//	}
func (r *Retriever) Retrieve(ctx context.Context, query string) ([]RetrieverResult, error) {
	if !r.ready {
		return nil, fmt.Errorf("retriever not properly initialized")
	}

	hits, err := r.manager.QueryPoints(ctx, r.config.Collection, r.strategy, query, r.config.TopK, r.config.MinScore, rag.Filter(r.config.Filter), nil)
	if err != nil {
		if r.config.OnError != nil {
			r.config.OnError(err)
		}
		return nil, fmt.Errorf("retrieval failed: %w", err)
	}

	if len(hits) == 0 {
		log.Printf("Warning: Collection '%s' returned no results for query", r.config.Collection)
		return []RetrieverResult{}, nil
	}

	results := make([]RetrieverResult, 0, len(hits))
	for _, hit := range hits {
		if r.config.OnResult != nil {
			r.config.OnResult(hit)
		}

		content, _ := hit.Payload["text"].(string)
		match := RetrieverResult{
			Content:  content,
			Score:    hit.Score,
			Metadata: hit.Payload,
		}
		match.Source, _ = hit.Payload["source"].(string)
		if idx, ok := hit.Payload["chunk_index"].(int64); ok {
			match.ChunkIndex = int(idx)
		}

		results = append(results, match)
	}

	if len(results) < r.config.TopK {
		log.Printf("Info: Returned %d results (fewer than requested TopK=%d)", len(results), r.config.TopK)
	}

	return results, nil
}

// GetManager returns the underlying vector store manager.
// This provides access to lower-level store operations when needed.
func (r *Retriever) GetManager() *rag.VectorStoreManager {
	return r.manager
}

// GetStrategy returns the resolved retrieval strategy, for callers that
// need to write chunks through the same strategy a Retriever reads with.
func (r *Retriever) GetStrategy() rag.Strategy {
	return r.strategy
}

// WithRetrieveCollection sets the collection name for retrieval operations.
// The collection must exist in the vector store.
func WithRetrieveCollection(name string) RetrieverOption {
	return func(c *RetrieverConfig) {
		c.Collection = name
	}
}

// WithTopK sets the maximum number of results to return.
func WithTopK(k int) RetrieverOption {
	return func(c *RetrieverConfig) {
		c.TopK = k
	}
}

// WithMinScore sets the minimum similarity score threshold.
func WithMinScore(score float64) RetrieverOption {
	return func(c *RetrieverConfig) {
		c.MinScore = score
	}
}

// WithRetrieveDB configures the Qdrant connection address.
func WithRetrieveDB(serverURL string) RetrieverOption {
	return func(c *RetrieverConfig) {
		c.ServerURL = serverURL
	}
}

// WithRetrieveEmbedding configures the dense embedding provider used by
// the resolved strategy, if the strategy embeds a dense field.
func WithRetrieveEmbedding(provider, model, key string) RetrieverOption {
	return func(c *RetrieverConfig) {
		c.Provider = provider
		c.Model = model
		c.APIKey = key
	}
}

// WithStrategy sets the retrieval strategy tag and sparse embedding kind.
// See rag.BuildStrategy for the supported tags.
func WithStrategy(tag, sparseKind string) RetrieverOption {
	return func(c *RetrieverConfig) {
		c.StrategyTag = tag
		c.SparseKind = sparseKind
	}
}

// WithRetrieveDimension sets the dense embedding vector dimension.
// This must match the dimension of the chosen embedding model.
func WithRetrieveDimension(dimension int) RetrieverOption {
	return func(c *RetrieverConfig) {
		c.Dimension = dimension
	}
}

// WithRetrieveFilter applies a structured filter to every query this
// retriever issues; Retrieve takes no per-call filter.
func WithRetrieveFilter(filter map[string]interface{}) RetrieverOption {
	return func(c *RetrieverConfig) {
		c.Filter = filter
	}
}

// WithRetrieveCallbacks sets result and error handling callbacks.
// These callbacks are called during the retrieval process.
func WithRetrieveCallbacks(onResult func(rag.Hit), onError func(error)) RetrieverOption {
	return func(c *RetrieverConfig) {
		c.OnResult = onResult
		c.OnError = onError
	}
}

// defaultRetrieverConfig returns a RetrieverConfig with production-ready defaults.
func defaultRetrieverConfig() *RetrieverConfig {
	return &RetrieverConfig{
		Collection:  "documents",
		TopK:        5,
		MinScore:    rag.NoThreshold,
		ServerURL:   "localhost:6334",
		StrategyTag: "hybrid_rrf",
		SparseKind:  "bm25",
		Provider:    "openai",
		Model:       "text-embedding-3-small",
		APIKey:      os.Getenv("OPENAI_API_KEY"),
		Dimension:   1536,
		Timeout:     30 * time.Second,
	}
}

func (r *Retriever) initialize() error {
	ctx, cancel := context.WithTimeout(context.Background(), r.config.Timeout)
	defer cancel()

	manager, err := rag.SharedManager(ctx, rag.ManagerConfig{
		ServerURL: r.config.ServerURL,
		APIKey:    r.config.StoreKey,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to vector store: %w", err)
	}
	r.manager = manager

	strategy, err := rag.BuildStrategy(rag.StrategyConfig{
		Tag:           r.config.StrategyTag,
		SparseKind:    rag.SparseKind(r.config.SparseKind),
		DenseProvider: r.config.Provider,
		DenseModel:    r.config.Model,
		DenseAPIKey:   r.config.APIKey,
		DenseDim:      r.config.Dimension,
	})
	if err != nil {
		return fmt.Errorf("failed to build retrieval strategy: %w", err)
	}
	r.strategy = strategy

	r.ready = true
	return nil
}

// Close is a no-op: the retriever shares the process-wide manager
// returned by rag.SharedManager, which outlives any single Retriever.
func (r *Retriever) Close() error {
	return nil
}
