package mcpadapter

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/supplydesk/search-agent/internal/models"
	"github.com/supplydesk/search-agent/internal/search"
)

// SearchInput is the MCP tool input schema for literal product search.
type SearchInput struct {
	Query string `json:"query" jsonschema:"product name or code to search for"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of products to return (default: 10)"`
}

// VectorSearchInput is the MCP tool input schema for semantic product search.
type VectorSearchInput struct {
	Query     string  `json:"query" jsonschema:"natural-language description of the product"`
	Limit     int     `json:"limit,omitempty" jsonschema:"maximum number of products to return (default: 10)"`
	Threshold float64 `json:"threshold,omitempty" jsonschema:"minimum similarity score (0.0-1.0, default: 0.7)"`
}

// NewSearchHandler returns a tool handler backed by the given searcher.
// Pass the returned function to mcp.AddTool.
func NewSearchHandler(searcher *search.Searcher) func(context.Context, *mcp.CallToolRequest, SearchInput) (*mcp.CallToolResult, models.SearchResult, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input SearchInput) (*mcp.CallToolResult, models.SearchResult, error) {
		result := searcher.LiteralSearch(ctx, models.SearchQuery{
			Text:  input.Query,
			Limit: input.Limit,
		})
		return nil, result, nil
	}
}

// NewVectorSearchHandler returns a tool handler for semantic search.
// Pass the returned function to mcp.AddTool.
func NewVectorSearchHandler(searcher *search.Searcher) func(context.Context, *mcp.CallToolRequest, VectorSearchInput) (*mcp.CallToolResult, models.SearchResult, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input VectorSearchInput) (*mcp.CallToolResult, models.SearchResult, error) {
		result := searcher.VectorSearch(ctx, models.SearchQuery{
			Text:      input.Query,
			Limit:     input.Limit,
			Threshold: input.Threshold,
		})
		return nil, result, nil
	}
}
