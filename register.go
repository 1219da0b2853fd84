// Package raggo provides a comprehensive registration system for document
// ingestion in RAG (Retrieval-Augmented Generation) applications. This
// package enables one-call document registration against a named
// collection, with support for progress monitoring and error handling.
package raggo

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/teilomillet/raggo/rag"
	"github.com/teilomillet/raggo/rag/ingest"
)

// RegisterConfig holds the complete configuration for document registration
// and collection setup. It provides fine-grained control over all aspects
// of the registration process.
type RegisterConfig struct {
	// Store settings control the Qdrant connection and collection
	ServerURL      string // Qdrant gRPC address
	StoreKey       string // Qdrant API key, if required
	CollectionName string // Name of the collection to store vectors in
	AutoCreate     bool   // Automatically create the collection if missing

	// Retrieval strategy settings (see rag.BuildStrategy)
	StrategyTag string
	SparseKind  string
	DenseDim    int

	// Processing settings define how documents are handled
	ChunkSize    int           // Size of text chunks for processing
	ChunkOverlap int           // Overlap between consecutive chunks
	TempDir      string        // Directory for temporary files
	Timeout      time.Duration // Operation timeout duration

	// Embedding settings configure the embedding generation
	EmbeddingProvider string // Embedding service provider (e.g., "openai")
	EmbeddingModel    string // Specific model to use for embeddings
	EmbeddingKey      string // Authentication key for embedding service

	// Callbacks for monitoring and error handling
	OnProgress func(processed, total int) // Called to report progress
	OnError    func(error)                // Called when errors occur
}

// defaultConfig returns a RegisterConfig initialized with production-ready
// default values.
//
// Default settings include:
//   - Qdrant on localhost
//   - 512-character chunks with 64-character overlap
//   - OpenAI's text-embedding-3-small model fused with BM25 via RRF
func defaultConfig() *RegisterConfig {
	return &RegisterConfig{
		ServerURL:         "localhost:6334",
		CollectionName:    "documents",
		AutoCreate:        true,
		StrategyTag:       "hybrid_rrf",
		SparseKind:        "bm25",
		DenseDim:          1536,
		ChunkSize:         512,
		ChunkOverlap:      64,
		TempDir:           os.TempDir(),
		Timeout:           5 * time.Minute,
		EmbeddingProvider: "openai",
		EmbeddingModel:    "text-embedding-3-small",
		EmbeddingKey:      os.Getenv("OPENAI_API_KEY"),
		OnProgress:        func(processed, total int) { Debug("Progress", "processed", processed, "total", total) },
		OnError:           func(err error) { Error("Error during registration", "error", err) },
	}
}

// RegisterOption is a function type for modifying RegisterConfig.
// It follows the functional options pattern to provide a clean and
// extensible way to configure the registration process.
type RegisterOption func(*RegisterConfig)

// Register processes documents from various sources and stores them in a
// collection. It handles the entire pipeline from document loading to
// vector storage:
//  1. Document loading from files, directories, or URLs
//  2. Collection creation and catalog registration, if AutoCreate is set
//  3. Chunking, embedding, and hybrid storage, one document at a time
//
// The process is highly configurable through RegisterOptions and supports
// progress monitoring and error handling through callbacks.
//
// Example:
//
//	err := Register(ctx, "docs/",
//	    WithCollection("technical_docs", true),
//	    WithChunking(512, 64),
//	    WithEmbedding("openai", "text-embedding-3-small", os.Getenv("OPENAI_API_KEY")),
//	)
func Register(ctx context.Context, source string, opts ...RegisterOption) error {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	Debug("Initializing registration", "source", source, "collection", cfg.CollectionName)

	manager, err := rag.SharedManager(ctx, rag.ManagerConfig{ServerURL: cfg.ServerURL, APIKey: cfg.StoreKey})
	if err != nil {
		return fmt.Errorf("failed to connect to vector store: %w", err)
	}

	strategy, err := rag.BuildStrategy(rag.StrategyConfig{
		Tag:           cfg.StrategyTag,
		SparseKind:    rag.SparseKind(cfg.SparseKind),
		DenseProvider: cfg.EmbeddingProvider,
		DenseModel:    cfg.EmbeddingModel,
		DenseAPIKey:   cfg.EmbeddingKey,
		DenseDim:      cfg.DenseDim,
	})
	if err != nil {
		return fmt.Errorf("failed to build retrieval strategy: %w", err)
	}

	if cfg.AutoCreate {
		Debug("Ensuring collection", "collection", cfg.CollectionName)
		if err := manager.EnsureCollection(ctx, cfg.CollectionName, strategy, cfg.DenseDim); err != nil {
			return fmt.Errorf("failed to ensure collection: %w", err)
		}
		catalog := rag.NewCatalog(manager)
		if err := catalog.Save(ctx, rag.CollectionEntry{
			Name:         cfg.CollectionName,
			ChunkSize:    cfg.ChunkSize,
			ChunkOverlap: cfg.ChunkOverlap,
			Strategy:     strategy.Tag(),
			SparseKind:   cfg.SparseKind,
			DenseModel:   cfg.EmbeddingModel,
			DenseDim:     cfg.DenseDim,
		}); err != nil {
			return fmt.Errorf("failed to update catalog: %w", err)
		}
	}

	Debug("Processing source", "source", source)

	processed := 0
	pipeline := &ingest.Pipeline{
		Manager:      manager,
		Collection:   cfg.CollectionName,
		Strategy:     strategy,
		ChunkSize:    cfg.ChunkSize,
		ChunkOverlap: cfg.ChunkOverlap,
		TempDir:      cfg.TempDir,
		OnProgress: func(source string, pageCount int) {
			processed++
			cfg.OnProgress(processed, processed)
		},
		OnError: func(source string, err error) {
			cfg.OnError(fmt.Errorf("failed to ingest %s: %w", source, err))
		},
	}

	if !isURL(source) {
		if _, statErr := os.Stat(source); statErr != nil {
			return fmt.Errorf("invalid source: %s", source)
		}
	}
	if err := pipeline.Ingest(ctx, source); err != nil {
		return fmt.Errorf("failed to ingest source: %w", err)
	}

	Debug("Registration complete")
	return nil
}

// WithCollection sets the collection name and auto-creation behavior.
// When autoCreate is true, the collection will be created (and its
// catalog entry written) if it doesn't already exist.
//
// Example:
//
//	Register(ctx, "docs/",
//	    WithCollection("technical_docs", true),
//	)
func WithCollection(name string, autoCreate bool) RegisterOption {
	return func(cfg *RegisterConfig) {
		cfg.CollectionName = name
		cfg.AutoCreate = autoCreate
	}
}

// WithRegisterStore configures the Qdrant connection used for registration.
func WithRegisterStore(serverURL string) RegisterOption {
	return func(cfg *RegisterConfig) {
		cfg.ServerURL = serverURL
	}
}

// WithRegisterStrategy sets the retrieval strategy tag and sparse kind
// used for the collection (see rag.BuildStrategy).
func WithRegisterStrategy(tag, sparseKind string) RegisterOption {
	return func(cfg *RegisterConfig) {
		cfg.StrategyTag = tag
		cfg.SparseKind = sparseKind
	}
}

// WithChunking configures the text chunking parameters for document processing.
// The size parameter determines the length of each chunk, while overlap
// specifies how much text should be shared between consecutive chunks.
//
// Example:
//
//	Register(ctx, "docs/",
//	    WithChunking(512, 64), // 512-character chunks with 64-character overlap
//	)
func WithChunking(size, overlap int) RegisterOption {
	return func(cfg *RegisterConfig) {
		cfg.ChunkSize = size
		cfg.ChunkOverlap = overlap
	}
}

// WithEmbedding configures the dense embedding generation settings.
// It specifies the provider, model, and authentication key for
// generating vector embeddings from text.
//
// Example:
//
//	Register(ctx, "docs/",
//	    WithEmbedding("openai",
//	        "text-embedding-3-small",
//	        os.Getenv("OPENAI_API_KEY"),
//	    ),
//	)
func WithEmbedding(provider, model, key string) RegisterOption {
	return func(cfg *RegisterConfig) {
		cfg.EmbeddingProvider = provider
		cfg.EmbeddingModel = model
		cfg.EmbeddingKey = key
	}
}

// isURL determines if a string represents a valid URL.
// It checks for common URL schemes (http, https).
func isURL(s string) bool {
	return len(s) > 8 && (s[:7] == "http://" || s[:8] == "https://")
}
