// Command raggo-mcp exposes every collection in the catalog as a Model
// Context Protocol tool: one search-<collection> tool per collection, plus
// a collections-list tool for discovering what's available. It serves
// either over stdio (for desktop MCP clients) or over a streamable HTTP
// transport (for remote deployments), selected with --mode.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	mcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/teilomillet/raggo/config"
	"github.com/teilomillet/raggo/rag"
)

func main() {
	mode := flag.String("mode", "local", "server mode: local (stdio) or remote (HTTP)")
	host := flag.String("host", "0.0.0.0", "host to bind the server to (remote mode only)")
	port := flag.Int("port", 8000, "port to bind the server to (remote mode only)")
	flag.Parse()

	if *mode != "local" && *mode != "remote" {
		fmt.Fprintf(os.Stderr, "raggo-mcp: unknown mode %q (use local or remote)\n", *mode)
		os.Exit(1)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "raggo-mcp: loading config: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	manager, err := rag.SharedManager(ctx, rag.ManagerConfig{ServerURL: cfg.ServerURL, APIKey: cfg.APIKey})
	if err != nil {
		fmt.Fprintf(os.Stderr, "raggo-mcp: connecting to vector store: %v\n", err)
		os.Exit(1)
	}
	catalog := rag.NewCatalog(manager)

	toolset := &toolset{manager: manager, catalog: catalog}
	server := mcp.NewServer(&mcp.Implementation{Name: "raggo", Version: "0.1.0"}, nil)

	if err := toolset.registerTools(ctx, server); err != nil {
		fmt.Fprintf(os.Stderr, "raggo-mcp: registering tools: %v\n", err)
		os.Exit(1)
	}

	switch *mode {
	case "local":
		if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
			fmt.Fprintf(os.Stderr, "raggo-mcp: %v\n", err)
			os.Exit(1)
		}
	case "remote":
		addr := fmt.Sprintf("%s:%d", *host, *port)
		handler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server { return server }, nil)
		fmt.Printf("raggo-mcp listening on %s\n", addr)
		if err := http.ListenAndServe(addr, handler); err != nil {
			fmt.Fprintf(os.Stderr, "raggo-mcp: %v\n", err)
			os.Exit(1)
		}
	}
}

type toolset struct {
	manager *rag.VectorStoreManager
	catalog *rag.Catalog
}

type searchInput struct {
	Query          string  `json:"query" jsonschema:"the text to search for"`
	TopK           int     `json:"top_k,omitempty" jsonschema:"how many results to return"`
	ScoreThreshold float64 `json:"score_threshold,omitempty" jsonschema:"minimum score to include a result"`
}

type contextItem struct {
	Source string  `json:"source"`
	Page   int     `json:"page,omitempty"`
	Score  float64 `json:"score"`
	Text   string  `json:"text"`
}

type searchOutput struct {
	Items []contextItem `json:"items"`
}

type collectionsListOutput struct {
	Collections []string `json:"collections"`
}

// registerTools dynamically adds one search-<collection> tool per catalog
// entry (skipping the catalog's own reserved collection) plus a static
// collections-list tool.
func (t *toolset) registerTools(ctx context.Context, server *mcp.Server) error {
	entries, err := t.catalog.List(ctx)
	if err != nil {
		return fmt.Errorf("listing catalog: %w", err)
	}

	mcp.AddTool(server, &mcp.Tool{
		Name:        "collections-list",
		Description: "List every searchable collection and its description.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, in struct{}) (*mcp.CallToolResult, collectionsListOutput, error) {
		names := make([]string, len(entries))
		for i, e := range entries {
			names[i] = e.Name
		}
		return nil, collectionsListOutput{Collections: names}, nil
	})

	for _, entry := range entries {
		entry := entry
		description := entry.Description
		if description == "" {
			description = fmt.Sprintf("Search the %s collection.", entry.Name)
		}

		strategy, err := rag.BuildStrategy(rag.StrategyConfig{
			Tag:        entry.Strategy,
			SparseKind: rag.SparseKind(entry.SparseKind),
			DenseModel: entry.DenseModel,
			DenseDim:   entry.DenseDim,
		})
		if err != nil {
			return fmt.Errorf("building strategy for %s: %w", entry.Name, err)
		}

		mcp.AddTool(server, &mcp.Tool{
			Name:        "search-" + entry.Name,
			Description: description,
		}, t.searchHandler(entry, strategy))
	}

	return nil
}

func (t *toolset) searchHandler(entry rag.CollectionEntry, strategy rag.Strategy) func(context.Context, *mcp.CallToolRequest, searchInput) (*mcp.CallToolResult, searchOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, in searchInput) (*mcp.CallToolResult, searchOutput, error) {
		topK := in.TopK
		if topK <= 0 {
			topK = entry.TopK
		}
		threshold := in.ScoreThreshold
		if threshold == 0 {
			threshold = entry.ScoreThreshold
		}

		hits, err := t.manager.QueryPoints(ctx, entry.Name, strategy, in.Query, topK, threshold, nil, nil)
		if err != nil {
			return nil, searchOutput{}, fmt.Errorf("searching %s: %w", entry.Name, err)
		}

		items := make([]contextItem, 0, len(hits))
		for _, h := range hits {
			source, _ := h.Payload["source"].(string)
			text, _ := h.Payload["text"].(string)
			var page int
			if p, ok := h.Payload["page"].(int64); ok {
				page = int(p)
			}
			items = append(items, contextItem{Source: source, Page: page, Score: h.Score, Text: text})
		}

		return nil, searchOutput{Items: items}, nil
	}
}
