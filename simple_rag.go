// SimpleRAG provides a minimal, easy-to-use interface for RAG operations.
// It simplifies the configuration and usage of the RAG system while maintaining
// core functionality. This implementation is ideal for:
//   - Quick prototyping
//   - Simple document retrieval needs
//   - Learning the RAG system
//
// Example usage:
//
//	config := raggo.DefaultConfig()
//	config.APIKey = "your-api-key"
//
//	rag, err := raggo.NewSimpleRAG(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Add documents
//	err = rag.AddDocuments(context.Background(), "path/to/docs")
//
//	// Search
//	response, err := rag.Search(context.Background(), "your query")
package raggo

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/teilomillet/gollm"
)

// SimpleRAG provides a minimal interface for RAG operations.
// It encapsulates the core functionality while hiding complexity.
type SimpleRAG struct {
	rag *RAG     // Handles storage and retrieval
	llm gollm.LLM // Language model used to generate answers from context
}

// SimpleRAGConfig holds configuration for SimpleRAG.
// It provides essential configuration options while using
// sensible defaults for other settings.
type SimpleRAGConfig struct {
	Collection   string  // Name of the collection
	APIKey       string  // API key for services (e.g., OpenAI)
	Model        string  // Embedding model name
	ChunkSize    int     // Size of text chunks in characters
	ChunkOverlap int     // Overlap between consecutive chunks
	TopK         int     // Number of results to retrieve
	MinScore     float64 // Minimum similarity score threshold
	LLMModel     string  // Language model for answer generation
	ServerURL    string  // Qdrant gRPC address
	Dimension    int     // Dimension of dense embedding vectors
}

// DefaultConfig returns a default configuration for SimpleRAG.
// It provides reasonable defaults for all settings:
//   - OpenAI's text-embedding-3-small for embeddings
//   - Qdrant on localhost, hybrid BM25 + dense retrieval
//   - Balanced chunk size and overlap
//   - Conservative similarity threshold
func DefaultConfig() SimpleRAGConfig {
	return SimpleRAGConfig{
		Collection:   "documents",
		Model:        "text-embedding-3-small",
		ChunkSize:    200,
		ChunkOverlap: 50,
		TopK:         5,
		MinScore:     0.1,
		LLMModel:     "gpt-4o-mini",
		ServerURL:    "localhost:6334",
		Dimension:    1536, // Default dimension for text-embedding-3-small
	}
}

// NewSimpleRAG creates a new SimpleRAG instance with minimal configuration.
// It performs the following setup:
// 1. Validates and applies configuration
// 2. Initializes the language model
// 3. Connects to the vector store and ensures the collection exists
//
// Returns an error if:
//   - API key is missing
//   - LLM initialization fails
//   - The vector store connection fails
func NewSimpleRAG(config SimpleRAGConfig) (*SimpleRAG, error) {
	def := DefaultConfig()
	if config.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	if config.Collection == "" {
		config.Collection = def.Collection
	}
	if config.Model == "" {
		config.Model = def.Model
	}
	if config.LLMModel == "" {
		config.LLMModel = def.LLMModel
	}
	if config.ServerURL == "" {
		config.ServerURL = def.ServerURL
	}
	if config.Dimension == 0 {
		config.Dimension = def.Dimension
	}
	if config.ChunkSize == 0 {
		config.ChunkSize = def.ChunkSize
	}
	if config.ChunkOverlap == 0 {
		config.ChunkOverlap = def.ChunkOverlap
	}
	if config.TopK == 0 {
		config.TopK = def.TopK
	}

	llm, err := gollm.NewLLM(
		gollm.SetProvider("openai"),
		gollm.SetModel(config.LLMModel),
		gollm.SetAPIKey(config.APIKey),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM: %w", err)
	}

	r, err := NewRAG(
		SetCollection(config.Collection),
		SetDBAddress(config.ServerURL),
		SetProvider("openai"),
		SetModel(config.Model),
		SetAPIKey(config.APIKey),
		SetChunkSize(config.ChunkSize),
		SetChunkOverlap(config.ChunkOverlap),
		SetTopK(config.TopK),
		SetMinScore(config.MinScore),
		SetSearchStrategy("hybrid_rrf"),
		func(c *RAGConfig) { c.DenseDim = config.Dimension },
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create RAG: %w", err)
	}

	return &SimpleRAG{rag: r, llm: llm}, nil
}

// AddDocuments processes and stores documents in the collection.
//
// The source parameter can be a single file path or a directory path;
// directories are walked recursively by the underlying loader.
func (s *SimpleRAG) AddDocuments(ctx context.Context, source string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	log.Printf("Adding documents from source: %s", source)
	if err := s.rag.LoadDocuments(ctx, source); err != nil {
		return fmt.Errorf("failed to add documents: %w", err)
	}
	log.Printf("Successfully added documents from: %s", source)
	return nil
}

// Search performs a hybrid retrieval query and generates a response.
// The process:
// 1. Retrieves the most relevant chunks for the query
// 2. Uses the LLM to generate a response based on retrieved context
//
// Returns a natural language response incorporating retrieved information,
// or an error if retrieval or generation fails.
func (s *SimpleRAG) Search(ctx context.Context, query string) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	log.Printf("Performing search with query: %s", query)

	results, err := s.rag.Query(ctx, query)
	if err != nil {
		return "", fmt.Errorf("failed to search: %w", err)
	}

	log.Printf("Found %d results", len(results))

	contexts := make([]string, 0, len(results))
	for _, result := range results {
		contexts = append(contexts, result.Content)
	}

	prompt := fmt.Sprintf(`Here are some relevant sections from our documentation:

%s

Based on this information, please answer the following question: %s

If the information isn't found in the provided context, please say so clearly.`,
		strings.Join(contexts, "\n\n---\n\n"),
		query,
	)

	resp, err := s.llm.Generate(ctx, gollm.NewPrompt(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate response: %w", err)
	}

	return resp, nil
}

// Close releases all resources held by the SimpleRAG instance.
func (s *SimpleRAG) Close() error {
	return s.rag.Close()
}
