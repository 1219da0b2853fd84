// Package raggo provides advanced context-aware retrieval and memory management
// capabilities for RAG (Retrieval-Augmented Generation) systems.
package raggo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/teilomillet/gollm"
)

// MemoryContextOptions configures the behavior of the contextual memory system.
// It provides fine-grained control over memory storage, retrieval, and relevance
// assessment through a set of configurable parameters.
type MemoryContextOptions struct {
	// TopK determines how many relevant memories to retrieve for context
	// Higher values provide more context but may introduce noise
	TopK int

	// MinScore sets the minimum similarity threshold for memory retrieval
	// Higher values ensure more relevant but fewer memories
	MinScore float64

	// Collection specifies the collection for storing memories
	Collection string

	// ServerURL specifies the Qdrant gRPC address (e.g., "localhost:6334")
	ServerURL string

	// StrategyTag names the retrieval strategy used for memory search
	// (see rag.BuildStrategy). Defaults to "hybrid_rrf".
	StrategyTag string

	// IncludeScore determines whether to include relevance scores in results
	IncludeScore bool

	// StoreLastN sets how often the StoreLastN method writes: it stores only
	// once at least StoreLastN/2 new messages have arrived since the last
	// store, or more than 5 minutes have passed. 0 means every call stores.
	// How many messages each store keeps is the method's own n argument.
	StoreLastN int

	// StoreRAGInfo enables storage of RAG-enhanced context information
	// This provides richer context by storing processed and enhanced memories
	StoreRAGInfo bool
}

// MemoryContext provides intelligent context management for RAG systems by:
//   - Storing and retrieving relevant past interactions
//   - Enriching queries with historical context
//   - Managing memory lifecycle and relevance
//
// It integrates with the vector store for efficient similarity search and
// supports configurable memory management strategies.
type MemoryContext struct {
	retriever     *Retriever
	options       MemoryContextOptions
	lastStoreTime time.Time
	lastMemoryLen int
	storeCount    int
}

// MemoryTopK configures the number of relevant memories to retrieve.
func MemoryTopK(k int) func(*MemoryContextOptions) {
	return func(o *MemoryContextOptions) {
		o.TopK = k
	}
}

// MemoryMinScore sets the similarity threshold for memory retrieval.
// Memories with scores below this threshold are considered irrelevant.
func MemoryMinScore(score float64) func(*MemoryContextOptions) {
	return func(o *MemoryContextOptions) {
		o.MinScore = score
	}
}

// MemoryCollection specifies the collection for storing memories.
// Different collections can be used to separate contexts for different use cases.
func MemoryCollection(collection string) func(*MemoryContextOptions) {
	return func(o *MemoryContextOptions) {
		o.Collection = collection
	}
}

// MemoryStore configures the Qdrant gRPC address used for memory storage.
func MemoryStore(serverURL string) func(*MemoryContextOptions) {
	return func(o *MemoryContextOptions) {
		o.ServerURL = serverURL
	}
}

// MemoryStrategy sets the retrieval strategy tag used for memory search.
func MemoryStrategy(tag string) func(*MemoryContextOptions) {
	return func(o *MemoryContextOptions) {
		o.StrategyTag = tag
	}
}

// MemoryScoreInclusion controls whether similarity scores are included in results.
// Useful for debugging or implementing custom relevance filtering.
func MemoryScoreInclusion(include bool) func(*MemoryContextOptions) {
	return func(o *MemoryContextOptions) {
		o.IncludeScore = include
	}
}

// MemoryStoreLastN sets the StoreLastN store-frequency threshold: the
// StoreLastN method stores once at least n/2 new messages have arrived
// since its last store, or after 5 minutes.
func MemoryStoreLastN(n int) func(*MemoryContextOptions) {
	return func(o *MemoryContextOptions) {
		o.StoreLastN = n
	}
}

// MemoryStoreRAGInfo enables storage of RAG-enhanced context information.
// This provides richer context by storing processed and enhanced memories.
func MemoryStoreRAGInfo(store bool) func(*MemoryContextOptions) {
	return func(o *MemoryContextOptions) {
		o.StoreRAGInfo = store
	}
}

// NewMemoryContext creates a new memory context manager with the specified options.
// It initializes the underlying vector store connection, resolves its
// retrieval strategy, and ensures the memory collection exists.
//
// Example:
//
//	ctx, err := raggo.NewMemoryContext(apiKey,
//	    raggo.MemoryTopK(5),
//	    raggo.MemoryMinScore(0.7),
//	    raggo.MemoryCollection("chat_memory"),
//	    raggo.MemoryStoreLastN(100),
//	    raggo.MemoryStoreRAGInfo(true),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer ctx.Close()
func NewMemoryContext(apiKey string, opts ...func(*MemoryContextOptions)) (*MemoryContext, error) {
	options := MemoryContextOptions{
		TopK:         3,
		MinScore:     0.7,
		Collection:   "memory_store",
		ServerURL:    "localhost:6334",
		StrategyTag:  "hybrid_rrf",
		IncludeScore: false,
		StoreLastN:   0,
		StoreRAGInfo: false,
	}

	for _, opt := range opts {
		opt(&options)
	}

	retriever, err := NewRetriever(
		WithRetrieveCollection(options.Collection),
		WithTopK(options.TopK),
		WithMinScore(options.MinScore),
		WithRetrieveEmbedding("openai", "text-embedding-3-small", apiKey),
		WithRetrieveDB(options.ServerURL),
		WithStrategy(options.StrategyTag, "bm25"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize retriever: %w", err)
	}

	ctx := context.Background()
	if err := retriever.GetManager().EnsureCollection(ctx, options.Collection, retriever.GetStrategy(), retriever.config.Dimension); err != nil {
		return nil, fmt.Errorf("failed to ensure memory collection: %w", err)
	}

	return &MemoryContext{
		retriever:     retriever,
		options:       options,
		lastStoreTime: time.Time{},
		lastMemoryLen: 0,
	}, nil
}

// shouldStore determines whether to store the given memory based on configured rules.
// It returns true when at least options.StoreLastN/2 messages were added
// since the last store, or when more than 5 minutes have passed since it.
// Message content is not inspected.
func (m *MemoryContext) shouldStore(memory []gollm.MemoryMessage) bool {
	newLen := len(memory)
	timeSinceLastStore := time.Since(m.lastStoreTime)
	messagesDiff := newLen - m.lastMemoryLen

	return messagesDiff >= m.options.StoreLastN/2 ||
		timeSinceLastStore > 5*time.Minute
}

// StoreMemory explicitly stores messages in the memory context, indexing
// the conversation turn under the source id "memory/<n>", where n counts
// the stores made by this MemoryContext. Repeated stores through one
// MemoryContext never collide; a new MemoryContext starts again at
// "memory/0" and overwrites the points stored under the same ids.
//
// Example:
//
//	err := ctx.StoreMemory(context.Background(), []gollm.MemoryMessage{
//	    {Role: "user", Content: "How does feature X work?"},
//	    {Role: "assistant", Content: "Feature X works by..."},
//	})
func (m *MemoryContext) StoreMemory(ctx context.Context, messages []gollm.MemoryMessage) error {
	if len(messages) == 0 {
		return nil
	}

	var memoryContent strings.Builder
	for _, msg := range messages {
		fmt.Fprintf(&memoryContent, "%s: %s\n", msg.Role, msg.Content)
	}

	source := fmt.Sprintf("memory/%d", m.storeCount)
	m.storeCount++

	manager := m.retriever.GetManager()
	strategy := m.retriever.GetStrategy()
	if _, err := manager.AddChunks(ctx, m.options.Collection, strategy, source, []string{memoryContent.String()}, nil); err != nil {
		return fmt.Errorf("failed to store memory: %w", err)
	}

	return nil
}

// StoreLastN stores only the most recent N messages from the memory.
// This helps maintain a sliding window of relevant context.
//
// Example:
//
//	err := ctx.StoreLastN(context.Background(), messages, 10)  // Keep last 10 messages
func (m *MemoryContext) StoreLastN(ctx context.Context, memory []gollm.MemoryMessage, n int) error {
	if !m.shouldStore(memory) {
		return nil
	}

	start := len(memory) - n
	if start < 0 {
		start = 0
	}

	err := m.StoreMemory(ctx, memory[start:])
	if err == nil {
		m.lastStoreTime = time.Now()
		m.lastMemoryLen = len(memory)
	}
	return err
}

// EnhancePrompt enriches a prompt with relevant context from memory.
// It retrieves and integrates past interactions to provide better context.
//
// Example:
//
//	enhanced, err := ctx.EnhancePrompt(context.Background(), prompt, messages)
func (m *MemoryContext) EnhancePrompt(ctx context.Context, prompt *gollm.Prompt, memory []gollm.MemoryMessage) (*gollm.Prompt, error) {
	relevantContext, err := m.retrieveContext(ctx, prompt.Input)
	if err != nil {
		return prompt, fmt.Errorf("failed to retrieve context: %w", err)
	}

	enhancedPrompt := gollm.NewPrompt(
		prompt.Input,
		gollm.WithSystemPrompt(prompt.SystemPrompt, gollm.CacheTypeEphemeral),
		gollm.WithContext(strings.Join(relevantContext, "\n")),
	)

	if m.options.StoreRAGInfo && len(relevantContext) > 0 {
		contextMsg := gollm.MemoryMessage{
			Role:    "system",
			Content: "Retrieved Context:\n" + strings.Join(relevantContext, "\n"),
		}
		if err := m.StoreMemory(ctx, []gollm.MemoryMessage{contextMsg}); err != nil {
			return enhancedPrompt, fmt.Errorf("failed to store retrieved context: %w", err)
		}
	}

	return enhancedPrompt, nil
}

// retrieveContext retrieves relevant context from stored memories.
// It uses the configured retrieval strategy to find the most relevant
// past interactions.
func (m *MemoryContext) retrieveContext(ctx context.Context, input string) ([]string, error) {
	results, err := m.retriever.Retrieve(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to search context: %w", err)
	}

	var relevantContext []string
	for _, result := range results {
		if result.Content != "" {
			if m.options.IncludeScore {
				relevantContext = append(relevantContext, fmt.Sprintf("[Score: %.2f] %s", result.Score, result.Content))
			} else {
				relevantContext = append(relevantContext, result.Content)
			}
		}
	}

	return relevantContext, nil
}

// Close releases resources held by the memory context.
// Always defer Close() after creating a new memory context.
func (m *MemoryContext) Close() error {
	return m.retriever.Close()
}

// GetRetriever returns the underlying retriever for advanced configuration.
// This provides access to low-level retrieval settings and operations.
func (m *MemoryContext) GetRetriever() *Retriever {
	return m.retriever
}

// GetOptions returns the current context options configuration.
// Useful for inspecting or copying the current settings.
func (m *MemoryContext) GetOptions() MemoryContextOptions {
	return m.options
}

// UpdateOptions allows updating context options at runtime.
// This enables dynamic reconfiguration of memory management behavior.
//
// Example:
//
//	ctx.UpdateOptions(
//	    raggo.MemoryTopK(10),      // Increase context breadth
//	    raggo.MemoryMinScore(0.8), // Raise relevance threshold
//	)
func (m *MemoryContext) UpdateOptions(opts ...func(*MemoryContextOptions)) {
	options := m.GetOptions()
	for _, opt := range opts {
		opt(&options)
	}
	m.options = options

	if retriever, err := NewRetriever(
		WithRetrieveCollection(options.Collection),
		WithTopK(options.TopK),
		WithMinScore(options.MinScore),
		WithRetrieveDB(options.ServerURL),
		WithStrategy(options.StrategyTag, "bm25"),
	); err == nil {
		m.retriever = retriever
	}
}
