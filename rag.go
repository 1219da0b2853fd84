// Package raggo implements a comprehensive Retrieval-Augmented Generation (RAG) system
// that enhances language models with the ability to access and reason over external
// knowledge. The system seamlessly integrates hybrid vector similarity search with
// natural language processing to provide accurate and contextually relevant responses.
//
// The package offers two main interfaces:
//   - RAG: A full-featured implementation with extensive configuration options
//   - SimpleRAG: A streamlined interface for basic use cases
//
// The RAG system works by:
// 1. Processing documents into semantic chunks
// 2. Storing document vectors in Qdrant under a named retrieval strategy
// 3. Finding relevant context through sparse, dense, or fused hybrid search
// 4. Generating responses that combine retrieved context with queries
//
// Key Features:
//   - Hybrid BM25/SPLADE + dense retrieval fused with Reciprocal Rank Fusion
//   - Intelligent document chunking and embedding
//   - Optional cross-encoder reranking
//   - Context-aware retrieval
//   - Configurable LLM integration
//
// Example Usage:
//
//	config := raggo.DefaultRAGConfig()
//	config.EmbedAPIKey = os.Getenv("OPENAI_API_KEY")
//
//	rag, err := raggo.NewRAG(
//	    raggo.SetProvider("openai"),
//	    raggo.SetModel("text-embedding-3-small"),
//	    raggo.SetCollection("my_documents"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Add documents
//	err = rag.LoadDocuments(context.Background(), "path/to/docs")
//
//	// Query the system
//	results, err := rag.Query(context.Background(), "your question here")
package raggo

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/teilomillet/gollm"
	"github.com/teilomillet/raggo/rag"
	"github.com/teilomillet/raggo/rag/ingest"
	"github.com/teilomillet/raggo/rag/plan"
)

// RAGConfig holds the complete configuration for a RAG system. It provides
// fine-grained control over all aspects of the system's operation, from
// store settings to search parameters. The configuration is designed to be
// flexible enough to accommodate various use cases while maintaining
// sensible defaults.
type RAGConfig struct {
	// Store settings control how the Qdrant connection is established.
	// Exactly one of ServerURL or FilePath should be set.
	ServerURL string
	StoreKey  string // Qdrant API key, if the deployment requires one
	FilePath  string
	UseTLS    bool

	// Collection settings
	Collection string // Name of the vector collection
	AutoCreate bool   // Automatically create & catalog the collection if missing

	// Processing settings determine how documents are handled
	ChunkSize    int // Size of text chunks in characters
	ChunkOverlap int // Overlap between consecutive chunks
	BatchSize    int // Stored with the config; no processing path reads it

	// Embedding settings configure vector generation
	Provider    string // Dense embedding provider (e.g., "openai", "static")
	Model       string // Dense embedding model name
	LLMModel    string // Language model used for contextual chunk enrichment
	EmbedAPIKey string // API key for the embedding/LLM provider

	// Retrieval strategy settings (see rag.BuildStrategy)
	StrategyTag string // e.g. "hybrid_rrf", "hybrid_rrf_rerank", "dense_only", "sparse_only"
	SparseKind  string // "bm25", "splade", or "bm42"
	DenseDim    int    // Dense vector dimension

	// Search settings control retrieval behavior
	TopK     int     // Number of results to retrieve
	MinScore float64 // Minimum similarity score threshold (rag.NoThreshold disables it)

	// QueryExpansion selects an optional query-planning step run before
	// retrieval: "" (none, the query is used as-is), "multi_query"
	// (decompose into sub-queries and merge their results), "hyde"
	// (search with a hypothetical answer instead of the question),
	// "stepback" (search with a more general form of the question), or
	// "deepsearch" (iterative evaluate-then-search loop).
	QueryExpansion string

	// System settings affect operational behavior
	Timeout time.Duration // Operation timeout
	TempDir string        // Directory for temporary files
	Debug   bool          // Enable debug logging
}

// RAGOption is a function that modifies RAGConfig.
// It follows the functional options pattern for clean and flexible configuration.
type RAGOption func(*RAGConfig)

// RAG provides a comprehensive interface for document processing and retrieval.
// It coordinates the interaction between multiple components:
//   - The vector store manager for efficient hybrid similarity search
//   - The retrieval strategy resolved for the collection
//   - The catalog, which records the collection's configuration for later processes
//   - A language model for context-aware chunk enrichment
//
// The system is designed to be:
//   - Thread-safe for concurrent operations
//   - Memory-efficient when processing large documents
//   - Extensible through custom implementations
//   - Configurable for different use cases
type RAG struct {
	manager  *rag.VectorStoreManager
	catalog  *rag.Catalog
	strategy rag.Strategy
	config   *RAGConfig
}

// DefaultRAGConfig returns a default RAG configuration.
// It provides a reasonable set of default values for most use cases.
func DefaultRAGConfig() *RAGConfig {
	return &RAGConfig{
		ServerURL:    "localhost:6334",
		Collection:   "documents",
		AutoCreate:   true,
		ChunkSize:    512,
		ChunkOverlap: 64,
		BatchSize:    100,
		Provider:     "openai",
		Model:        "text-embedding-3-small",
		LLMModel:     "gpt-4o-mini",
		EmbedAPIKey:  os.Getenv("OPENAI_API_KEY"),
		StrategyTag:  "hybrid_rrf",
		SparseKind:   "bm25",
		DenseDim:     1536,
		TopK:         5,
		MinScore:     0.7,
		Timeout:      5 * time.Minute,
		TempDir:      os.TempDir(),
	}
}

// Common options
// SetProvider sets the dense embedding provider for the RAG system.
//
// Example:
//
//	rag, err := raggo.NewRAG(
//	    raggo.SetProvider("openai"),
//	)
func SetProvider(provider string) RAGOption {
	return func(c *RAGConfig) {
		c.Provider = provider
	}
}

// SetModel specifies the dense embedding model to use for vector generation.
// The model should be compatible with the chosen provider.
func SetModel(model string) RAGOption {
	return func(c *RAGConfig) {
		c.Model = model
	}
}

// SetAPIKey configures the API key for the embedding/LLM provider.
func SetAPIKey(key string) RAGOption {
	return func(c *RAGConfig) {
		c.EmbedAPIKey = key
	}
}

// SetCollection specifies the name of the collection to use.
func SetCollection(name string) RAGOption {
	return func(c *RAGConfig) {
		c.Collection = name
	}
}

// SetSearchStrategy configures the retrieval strategy tag for the collection.
// Supported values are "sparse_only", "dense_only", "hybrid_rrf", and
// "hybrid_rrf_rerank" (see rag.BuildStrategy).
func SetSearchStrategy(strategy string) RAGOption {
	return func(c *RAGConfig) {
		c.StrategyTag = strategy
	}
}

// SetQueryExpansion selects a query-planning step Query runs before
// retrieval. See RAGConfig.QueryExpansion for the accepted values.
func SetQueryExpansion(mode string) RAGOption {
	return func(c *RAGConfig) {
		c.QueryExpansion = mode
	}
}

// SetDBAddress configures the Qdrant gRPC connection address
// (e.g., "localhost:6334").
func SetDBAddress(address string) RAGOption {
	return func(c *RAGConfig) {
		c.ServerURL = address
	}
}

// SetChunkSize configures the size of text chunks in characters.
func SetChunkSize(size int) RAGOption {
	return func(c *RAGConfig) {
		c.ChunkSize = size
	}
}

// SetChunkOverlap specifies the overlap between consecutive chunks in characters.
func SetChunkOverlap(overlap int) RAGOption {
	return func(c *RAGConfig) {
		c.ChunkOverlap = overlap
	}
}

// SetTopK configures the number of similar documents to retrieve.
func SetTopK(k int) RAGOption {
	return func(c *RAGConfig) {
		c.TopK = k
	}
}

// SetMinScore sets the minimum similarity score threshold for retrieval.
func SetMinScore(score float64) RAGOption {
	return func(c *RAGConfig) {
		c.MinScore = score
	}
}

// SetTimeout configures the maximum duration for operations.
func SetTimeout(timeout time.Duration) RAGOption {
	return func(c *RAGConfig) {
		c.Timeout = timeout
	}
}

// SetDebug enables or disables debug logging.
func SetDebug(debug bool) RAGOption {
	return func(c *RAGConfig) {
		c.Debug = debug
	}
}

// WithOpenAI is a convenience function that configures the RAG system
// to use OpenAI's embedding and language models.
func WithOpenAI(apiKey string) RAGOption {
	return func(c *RAGConfig) {
		c.Provider = "openai"
		c.Model = "text-embedding-3-small"
		c.EmbedAPIKey = apiKey
	}
}

// WithQdrant is a convenience function that configures the RAG system's
// store connection and target collection in one call.
func WithQdrant(serverURL, collection string) RAGOption {
	return func(c *RAGConfig) {
		c.ServerURL = serverURL
		c.Collection = collection
	}
}

// NewRAG creates a new RAG instance.
// It takes a variable number of RAGOption functions to configure the system.
func NewRAG(opts ...RAGOption) (*RAG, error) {
	cfg := DefaultRAGConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	r := &RAG{config: cfg}
	if err := r.initialize(); err != nil {
		return nil, err
	}

	return r, nil
}

func (r *RAG) initialize() error {
	ctx, cancel := context.WithTimeout(context.Background(), r.config.Timeout)
	defer cancel()

	manager, err := rag.SharedManager(ctx, rag.ManagerConfig{
		ServerURL: r.config.ServerURL,
		APIKey:    r.config.StoreKey,
		FilePath:  r.config.FilePath,
		UseTLS:    r.config.UseTLS,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to vector store: %w", err)
	}
	r.manager = manager
	r.catalog = rag.NewCatalog(manager)

	strategy, err := rag.BuildStrategy(rag.StrategyConfig{
		Tag:           r.config.StrategyTag,
		SparseKind:    rag.SparseKind(r.config.SparseKind),
		DenseProvider: r.config.Provider,
		DenseModel:    r.config.Model,
		DenseAPIKey:   r.config.EmbedAPIKey,
		DenseDim:      r.config.DenseDim,
	})
	if err != nil {
		return fmt.Errorf("failed to build retrieval strategy: %w", err)
	}
	r.strategy = strategy

	if r.config.AutoCreate {
		if err := r.ensureCollection(ctx); err != nil {
			return err
		}
	}

	return nil
}

// ensureCollection creates the collection if missing and records (or
// refreshes) its catalog entry, so a later process can rebuild the exact
// same strategy from nothing but the collection's name.
func (r *RAG) ensureCollection(ctx context.Context) error {
	if err := r.manager.EnsureCollection(ctx, r.config.Collection, r.strategy, r.config.DenseDim); err != nil {
		return fmt.Errorf("failed to ensure collection: %w", err)
	}

	return r.catalog.Save(ctx, rag.CollectionEntry{
		Name:           r.config.Collection,
		ChunkSize:      r.config.ChunkSize,
		ChunkOverlap:   r.config.ChunkOverlap,
		TopK:           r.config.TopK,
		ScoreThreshold: r.config.MinScore,
		Strategy:       r.strategy.Tag(),
		SparseKind:     r.config.SparseKind,
		DenseModel:     r.config.Model,
		DenseDim:       r.config.DenseDim,
	})
}

// LoadDocuments processes and stores documents in the vector store.
// It handles various document formats and automatically chunks text
// based on the configured chunk size and overlap.
//
// The source parameter can be a file path or directory. When a directory
// is provided, all supported documents within it are processed recursively.
//
// Example:
//
//	err := rag.LoadDocuments(ctx, "path/to/docs")
func (r *RAG) LoadDocuments(ctx context.Context, source string) error {
	pipeline := &ingest.Pipeline{
		Manager:      r.manager,
		Collection:   r.config.Collection,
		Strategy:     r.strategy,
		ChunkSize:    r.config.ChunkSize,
		ChunkOverlap: r.config.ChunkOverlap,
		TempDir:      r.config.TempDir,
	}

	var firstErr error
	pipeline.OnError = func(source string, err error) {
		Error("failed to ingest document", "source", source, "error", err)
		if firstErr == nil {
			firstErr = fmt.Errorf("failed to ingest %s: %w", source, err)
		}
	}

	if err := pipeline.Ingest(ctx, source); err != nil {
		return err
	}
	return firstErr
}

// ProcessWithContext processes and stores a document with additional
// contextual information generated per chunk: before embedding, an LLM is
// asked to describe how the chunk relates to the whole document, and that
// description is prepended to the chunk's stored text. This technique
// (contextual retrieval) substantially improves recall for chunks whose
// content is ambiguous out of context.
func (r *RAG) ProcessWithContext(ctx context.Context, source string, llmModel string) error {
	Debug("Processing source:", source)

	result, err := ingest.Extract(ctx, source)
	if err != nil {
		return fmt.Errorf("failed to parse document: %w", err)
	}

	var fullDoc strings.Builder
	for _, pg := range result.Pages {
		fullDoc.WriteString(pg.Content)
		fullDoc.WriteString("\n")
	}
	documentText := fullDoc.String()

	modelToUse := r.config.LLMModel
	if llmModel != "" {
		modelToUse = llmModel
	}

	llm, err := gollm.NewLLM(
		gollm.SetProvider("openai"),
		gollm.SetModel(modelToUse),
		gollm.SetAPIKey(r.config.EmbedAPIKey),
	)
	if err != nil {
		return fmt.Errorf("failed to initialize LLM: %w", err)
	}

	if err := r.manager.DeleteByFilter(ctx, r.config.Collection, rag.Filter{"source": source}); err != nil {
		return fmt.Errorf("failed to clear existing chunks: %w", err)
	}

	chunkCount := 0
	pageChunks := make([][]string, len(result.Pages))
	for pageIdx, pg := range result.Pages {
		chunks := rag.Split(pg.Content, r.config.ChunkSize, r.config.ChunkOverlap)
		enriched := make([]string, len(chunks))
		for i, chunk := range chunks {
			chunkContext, err := generateChunkContext(ctx, llm, documentText, chunk)
			if err != nil {
				return fmt.Errorf("failed to generate context: %w", err)
			}
			enriched[i] = fmt.Sprintf("%s\n\nContent:\n%s", chunkContext, chunk)

			chunkCount++
			Debug("Chunk", chunkCount, "page", pageIdx+1)
			Debug("Original content:", truncateString(chunk, 100))
			Debug("Generated context:", chunkContext)
		}
		pageChunks[pageIdx] = enriched
	}
	Debug("Number of chunks created:", chunkCount)

	if _, err := r.manager.AddEnrichedPages(ctx, r.config.Collection, r.strategy, source, pageChunks, nil); err != nil {
		return fmt.Errorf("failed to store chunks: %w", err)
	}

	return nil
}

func generateChunkContext(ctx context.Context, llm gollm.LLM, document, chunk string) (string, error) {
	documentContextPrompt := fmt.Sprintf("<document> %s </document>", document)
	chunkContextPrompt := fmt.Sprintf(`Analyze the following chunk from a larger document:
<chunk> %s </chunk>

Your task is to craft a concise, highly specific context (1-2 sentences) for this chunk. The context should:
1. Reflect the unique content and ideas presented in the chunk.
2. Relate the chunk's information to the broader themes of the document.
3. Be formulated in a way that enhances semantic search and retrieval.
4. Stand independently without relying on phrases like "This chunk" or "This section".
5. Use varied, natural language that avoids repetitive structures.

Provide only the context, without any introductory phrases or explanations.`, chunk)

	prompt := fmt.Sprintf("%s\n\n%s", documentContextPrompt, chunkContextPrompt)

	return llm.Generate(ctx, gollm.NewPrompt(prompt))
}

// Query performs a retrieval operation using the collection's configured
// retrieval strategy. If RAGConfig.QueryExpansion is set, the query is
// first transformed by the corresponding planning step (see
// RAGConfig.QueryExpansion) before hitting the vector store. It returns
// a slice of RetrieverResult containing relevant document chunks and
// their similarity scores.
//
// Example:
//
//	results, err := rag.Query(ctx, "How does feature X work?")
func (r *RAG) Query(ctx context.Context, query string) ([]RetrieverResult, error) {
	switch r.config.QueryExpansion {
	case "":
		hits, err := r.manager.QueryPoints(ctx, r.config.Collection, r.strategy, query, r.config.TopK, r.config.MinScore, nil, nil)
		if err != nil {
			return nil, err
		}
		return hitsToResults(hits), nil

	case "multi_query":
		llm, err := r.planningLLM()
		if err != nil {
			return nil, err
		}
		planner := &plan.Planner{LLM: llm}
		queries, err := planner.Transform(ctx, query)
		if err != nil {
			return nil, fmt.Errorf("failed to decompose query: %w", err)
		}
		blacklist := make(map[string]struct{})
		sets := make([][]rag.Hit, 0, len(queries))
		for _, q := range queries {
			ds := &plan.DeepSearch{
				Manager:       r.manager,
				Strategy:      r.strategy,
				Collection:    r.config.Collection,
				LLM:           llm,
				TopK:          r.config.TopK,
				MaxIterations: 1,
				Blacklist:     blacklist,
			}
			outcome, err := ds.Run(ctx, q)
			if err != nil {
				return nil, err
			}
			sets = append(sets, outcome.Hits)
		}
		return hitsToResults(plan.ResultMerge(blacklist, sets...)), nil

	case "hyde":
		llm, err := r.planningLLM()
		if err != nil {
			return nil, err
		}
		hypothetical, err := plan.HypotheticalDocument(ctx, llm, query)
		if err != nil {
			return nil, fmt.Errorf("failed to generate hypothetical document: %w", err)
		}
		hits, err := r.manager.QueryPoints(ctx, r.config.Collection, r.strategy, hypothetical, r.config.TopK, r.config.MinScore, nil, nil)
		if err != nil {
			return nil, err
		}
		return hitsToResults(hits), nil

	case "stepback":
		llm, err := r.planningLLM()
		if err != nil {
			return nil, err
		}
		generalized, err := plan.StepBackQuery(ctx, llm, query)
		if err != nil {
			return nil, fmt.Errorf("failed to generate step-back query: %w", err)
		}
		hits, err := r.manager.QueryPoints(ctx, r.config.Collection, r.strategy, generalized, r.config.TopK, r.config.MinScore, nil, nil)
		if err != nil {
			return nil, err
		}
		return hitsToResults(hits), nil

	case "deepsearch":
		llm, err := r.planningLLM()
		if err != nil {
			return nil, err
		}
		ds := &plan.DeepSearch{
			Manager:    r.manager,
			Strategy:   r.strategy,
			Collection: r.config.Collection,
			LLM:        llm,
			TopK:       r.config.TopK,
		}
		outcome, err := ds.Run(ctx, query)
		if err != nil {
			return nil, err
		}
		return hitsToResults(outcome.Hits), nil

	default:
		return nil, fmt.Errorf("unknown query expansion mode: %s", r.config.QueryExpansion)
	}
}

// planningLLM builds the LLM client used by query-planning steps, using
// the same model/key convention ProcessWithContext uses for contextual
// chunk enrichment.
func (r *RAG) planningLLM() (gollm.LLM, error) {
	llm, err := gollm.NewLLM(
		gollm.SetProvider("openai"),
		gollm.SetModel(r.config.LLMModel),
		gollm.SetAPIKey(r.config.EmbedAPIKey),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM: %w", err)
	}
	return llm, nil
}

// Close releases all resources held by the RAG system, including the
// store connection.
func (r *RAG) Close() error {
	if r.manager != nil {
		return r.manager.Close()
	}
	return nil
}

func hitsToResults(hits []rag.Hit) []RetrieverResult {
	results := make([]RetrieverResult, 0, len(hits))
	for _, hit := range hits {
		content, _ := hit.Payload["text"].(string)
		result := RetrieverResult{
			Content:  content,
			Score:    hit.Score,
			Metadata: hit.Payload,
		}
		result.Source, _ = hit.Payload["source"].(string)
		if idx, ok := hit.Payload["chunk_index"].(int64); ok {
			result.ChunkIndex = int(idx)
		}
		results = append(results, result)
	}
	return results
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
