package mcpadapter

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/supplydesk/search-agent/internal/models"
	"github.com/supplydesk/search-agent/internal/search"
)

// Operation names exposed over the tool surface.
const (
	OpSearch       = "products.search"
	OpVectorSearch = "products.vectorSearch"
)

// UnknownOperationError is returned when a call names an operation the
// registry does not declare.
type UnknownOperationError struct {
	Name string
}

func (e *UnknownOperationError) Error() string {
	return fmt.Sprintf("no such operation: %s", e.Name)
}

// Registry declares the callable operations and dispatches calls to the
// searcher. Register binds the operations to an MCP server; Dispatch is the
// transport-agnostic entry point.
type Registry struct {
	searcher *search.Searcher
}

func NewRegistry(searcher *search.Searcher) *Registry {
	return &Registry{searcher: searcher}
}

// Register adds both search tools to the MCP server.
func (r *Registry) Register(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        OpSearch,
		Description: "Search products by name or code. Prefers semantic matching and falls back to literal matching when nothing is found.",
	}, NewSearchHandler(r.searcher))

	mcp.AddTool(server, &mcp.Tool{
		Name:        OpVectorSearch,
		Description: "Search products by meaning using embedding similarity. Threshold filters by minimum similarity score.",
	}, NewVectorSearchHandler(r.searcher))
}

// Dispatch invokes the named operation with loosely typed arguments. Unknown
// names yield an UnknownOperationError; a missing query is rejected before
// the searcher is invoked.
func (r *Registry) Dispatch(ctx context.Context, name string, args map[string]any) (models.SearchResult, error) {
	switch name {
	case OpSearch:
		var input SearchInput
		if err := decodeArgs(args, &input); err != nil {
			return models.SearchResult{}, err
		}
		if input.Query == "" {
			return models.SearchResult{}, fmt.Errorf("query is required")
		}
		result := r.searcher.LiteralSearch(ctx, models.SearchQuery{Text: input.Query, Limit: input.Limit})
		return result, nil

	case OpVectorSearch:
		var input VectorSearchInput
		if err := decodeArgs(args, &input); err != nil {
			return models.SearchResult{}, err
		}
		if input.Query == "" {
			return models.SearchResult{}, fmt.Errorf("query is required")
		}
		result := r.searcher.VectorSearch(ctx, models.SearchQuery{
			Text:      input.Query,
			Limit:     input.Limit,
			Threshold: input.Threshold,
		})
		return result, nil

	default:
		return models.SearchResult{}, &UnknownOperationError{Name: name}
	}
}

// Call wraps Dispatch into the transport envelope: errors become an
// error-flagged tool result instead of propagating.
func (r *Registry) Call(ctx context.Context, name string, args map[string]any) *mcp.CallToolResult {
	result, err := r.Dispatch(ctx, name, args)
	if err != nil {
		return &mcp.CallToolResult{
			IsError: true,
			Content: []mcp.Content{&mcp.TextContent{Text: err.Error()}},
		}
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return &mcp.CallToolResult{
			IsError: true,
			Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf("encoding result: %v", err)}},
		}
	}

	return &mcp.CallToolResult{
		Content:           []mcp.Content{&mcp.TextContent{Text: string(payload)}},
		StructuredContent: result,
	}
}

func decodeArgs(args map[string]any, out any) error {
	data, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("encoding arguments: %w", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}
