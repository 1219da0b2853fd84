// Command raggo-server exposes a retrieval-augmented HTTP surface over a
// running Qdrant-backed collection catalog: an OpenAI-compatible chat
// completions proxy that injects retrieved context before forwarding to an
// LLM, a plain retrieval/indexing REST API, and a Continue-compatible
// context provider endpoint.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/teilomillet/gollm"
	"github.com/teilomillet/raggo/config"
	"github.com/teilomillet/raggo/rag"
)

func main() {
	host := flag.String("host", "0.0.0.0", "host to bind the server to")
	port := flag.Int("port", 8080, "port to bind the server to")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "raggo-server: loading config: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	manager, err := rag.SharedManager(ctx, rag.ManagerConfig{ServerURL: cfg.ServerURL, APIKey: cfg.APIKey})
	if err != nil {
		fmt.Fprintf(os.Stderr, "raggo-server: connecting to vector store: %v\n", err)
		os.Exit(1)
	}
	catalog := rag.NewCatalog(manager)

	llm, err := gollm.NewLLM(
		gollm.SetProvider(cfg.Provider),
		gollm.SetModel(cfg.Model),
		gollm.SetAPIKey(cfg.APIKeys[cfg.Provider]),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "raggo-server: initializing LLM client: %v\n", err)
		os.Exit(1)
	}

	srv := &server{manager: manager, catalog: catalog, llm: llm}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	router.POST("/v1/chat/completions", srv.chatCompletions)
	router.GET("/v1/models", srv.listModels)
	router.POST("/retrieve", srv.retrieve)
	router.POST("/create", srv.create)
	router.POST("/context/retrieve", srv.contextRetrieve)

	addr := fmt.Sprintf("%s:%d", *host, *port)
	fmt.Printf("raggo-server listening on %s\n", addr)
	if err := router.Run(addr); err != nil {
		fmt.Fprintf(os.Stderr, "raggo-server: %v\n", err)
		os.Exit(1)
	}
}

type server struct {
	manager *rag.VectorStoreManager
	catalog *rag.Catalog
	llm     gollm.LLM
}

// chatMessage mirrors the subset of the OpenAI chat message shape this
// proxy actually reads and rewrites.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
}

// chatCompletions implements the OpenAI-compatible proxy: the request's
// "model" field selects which collection to search (mirroring the
// original proxy's use of the model field as a collection selector), the
// retrieved context is appended to the last user message, and the
// augmented conversation is sent to the configured LLM. Streaming
// responses are not supported; a streaming request gets a 501 rather than
// a silently non-streamed body, since a client expecting SSE framing would
// otherwise hang parsing a plain JSON response.
func (s *server) chatCompletions(c *gin.Context) {
	var req chatCompletionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": err.Error()}})
		return
	}
	if req.Stream {
		c.JSON(http.StatusNotImplemented, gin.H{"error": gin.H{"message": "streaming is not supported"}})
		return
	}

	if req.Model != "" && len(req.Messages) > 0 {
		last := &req.Messages[len(req.Messages)-1]
		if last.Role == "user" {
			if entry, err := s.catalog.Load(c.Request.Context(), req.Model); err == nil {
				if augmented, err := s.searchContext(c.Request.Context(), entry, last.Content); err == nil {
					last.Content += augmented
				}
			}
		}
	}

	var prompt strings.Builder
	for _, m := range req.Messages {
		fmt.Fprintf(&prompt, "%s: %s\n", m.Role, m.Content)
	}

	completion, err := s.llm.Generate(c.Request.Context(), gollm.NewPrompt(prompt.String()))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": err.Error()}})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":      "chatcmpl-raggo",
		"object":  "chat.completion",
		"created": time.Now().Unix(),
		"model":   req.Model,
		"choices": []gin.H{
			{
				"index":         0,
				"message":       gin.H{"role": "assistant", "content": completion},
				"finish_reason": "stop",
			},
		},
	})
}

// listModels exposes each catalog collection as a selectable "model", so
// a chat client's model picker doubles as a collection picker.
func (s *server) listModels(c *gin.Context) {
	entries, err := s.catalog.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": err.Error()}})
		return
	}
	data := make([]gin.H, 0, len(entries))
	for _, e := range entries {
		data = append(data, gin.H{"id": e.Name, "object": "model"})
	}
	c.JSON(http.StatusOK, gin.H{"object": "list", "data": data})
}

type retrieveRequest struct {
	Query          string `json:"query"`
	CollectionName string `json:"collection_name"`
}

// retrieve implements the plain /retrieve REST surface: a non-augmenting
// search that returns raw context items for a caller to assemble itself.
func (s *server) retrieve(c *gin.Context) {
	var req retrieveRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Query == "" || req.CollectionName == "" {
		c.JSON(http.StatusOK, []gin.H{})
		return
	}

	entry, err := s.catalog.Load(c.Request.Context(), req.CollectionName)
	if err != nil {
		c.JSON(http.StatusOK, []gin.H{})
		return
	}

	items, err := s.contextItems(c.Request.Context(), entry, req.Query)
	if err != nil {
		c.JSON(http.StatusOK, []gin.H{})
		return
	}
	c.JSON(http.StatusOK, items)
}

type indexRequest struct {
	CollectionName string `json:"collection_name"`
	Source         string `json:"source"`
	Text           string `json:"text"`
	Page           int    `json:"page"`
}

// create implements the plain /create REST surface: direct single-document
// indexing outside the file-based ingestion pipeline, for callers storing
// text they generated rather than text they loaded from a file.
func (s *server) create(c *gin.Context) {
	var req indexRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, gin.H{"create": false})
		return
	}
	if req.Source == "" || req.Text == "" || req.CollectionName == "" {
		c.JSON(http.StatusOK, gin.H{"create": false})
		return
	}

	entry, err := s.catalog.Load(c.Request.Context(), req.CollectionName)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"create": false})
		return
	}

	strategy, err := s.buildStrategy(entry)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"create": false})
		return
	}

	extra := map[string]interface{}{}
	if req.Page > 0 {
		extra["page"] = req.Page
	}

	if _, err := s.manager.AddPages(c.Request.Context(), entry.Name, strategy, req.Source,
		[]string{req.Text}, entry.ChunkSize, entry.ChunkOverlap, extra); err != nil {
		c.JSON(http.StatusOK, gin.H{"create": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{"create": true})
}

type contextProviderRequest struct {
	Query     string                 `json:"query"`
	FullInput string                 `json:"fullInput"`
	Options   map[string]interface{} `json:"options"`
}

// contextRetrieve implements the Continue editor's HTTP context provider
// contract: collection comes from options.collection rather than a
// top-level field, and items are shaped for display (name/description)
// rather than for LLM consumption (source/page).
func (s *server) contextRetrieve(c *gin.Context) {
	var req contextProviderRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.FullInput == "" {
		c.JSON(http.StatusOK, []gin.H{})
		return
	}
	collection, _ := req.Options["collection"].(string)
	if collection == "" {
		c.JSON(http.StatusOK, []gin.H{})
		return
	}

	entry, err := s.catalog.Load(c.Request.Context(), collection)
	if err != nil {
		c.JSON(http.StatusOK, []gin.H{})
		return
	}

	strategy, err := s.buildStrategy(entry)
	if err != nil {
		c.JSON(http.StatusOK, []gin.H{})
		return
	}
	hits, err := s.manager.QueryPoints(c.Request.Context(), entry.Name, strategy, req.FullInput,
		entry.TopK, entry.ScoreThreshold, nil, nil)
	if err != nil {
		c.JSON(http.StatusOK, []gin.H{})
		return
	}

	items := make([]gin.H, 0, len(hits))
	for _, h := range hits {
		source, _ := h.Payload["source"].(string)
		text, _ := h.Payload["text"].(string)
		items = append(items, gin.H{"name": source, "description": source, "content": text})
	}
	c.JSON(http.StatusOK, items)
}

func (s *server) buildStrategy(entry rag.CollectionEntry) (rag.Strategy, error) {
	return rag.BuildStrategy(rag.StrategyConfig{
		Tag:        entry.Strategy,
		SparseKind: rag.SparseKind(entry.SparseKind),
		DenseModel: entry.DenseModel,
		DenseDim:   entry.DenseDim,
	})
}

func (s *server) contextItems(ctx context.Context, entry rag.CollectionEntry, query string) ([]gin.H, error) {
	strategy, err := s.buildStrategy(entry)
	if err != nil {
		return nil, err
	}
	hits, err := s.manager.QueryPoints(ctx, entry.Name, strategy, query, entry.TopK, entry.ScoreThreshold, nil, nil)
	if err != nil {
		return nil, err
	}
	items := make([]gin.H, 0, len(hits))
	for _, h := range hits {
		source, _ := h.Payload["source"].(string)
		text, _ := h.Payload["text"].(string)
		page := h.Payload["page"]
		items = append(items, gin.H{"source": source, "content": text, "page": page})
	}
	return items, nil
}

func (s *server) searchContext(ctx context.Context, entry rag.CollectionEntry, query string) (string, error) {
	items, err := s.contextItems(ctx, entry, query)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	b.WriteString("\n\nContext:\n")
	for _, item := range items {
		fmt.Fprintf(&b, "- %v\n", item["content"])
	}
	return b.String(), nil
}
