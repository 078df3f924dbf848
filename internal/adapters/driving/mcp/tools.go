package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"the search query"`
	K     int    `json:"k,omitempty" jsonschema:"number of results to return (default 5)"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Results []SearchResultOutput `json:"results"`
	Count   int                  `json:"count"`
}

// SearchResultOutput is a single ranked chunk.
type SearchResultOutput struct {
	DocID     string  `json:"doc_id"`
	ChunkText string  `json:"chunk_text"`
	Score     float64 `json:"score"`
}

// AddDocumentInput is the input schema for the add_document tool.
type AddDocumentInput struct {
	DocID   string `json:"doc_id" jsonschema:"identifier for the document"`
	Content string `json:"content" jsonschema:"raw text content to chunk and index"`
}

// AddDocumentOutput is the output schema for the add_document tool.
type AddDocumentOutput struct {
	AddedCount int `json:"added_count"`
}

// ResetOutput is the output schema for the reset tool.
type ResetOutput struct {
	Status string `json:"status"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search",
		Description: "Search indexed documents by semantic similarity",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "add_document",
		Description: "Chunk, embed and index a document",
	}, s.handleAddDocument)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "reset",
		Description: "Delete all indexed documents and vectors",
	}, s.handleReset)
}

func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	k := input.K
	if k <= 0 {
		k = 5
	}

	results, err := s.ports.Search.Search(ctx, input.Query, k)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Results: make([]SearchResultOutput, len(results)),
		Count:   len(results),
	}
	for i := range results {
		output.Results[i] = SearchResultOutput{
			DocID:     results[i].DocID,
			ChunkText: results[i].ChunkText,
			Score:     results[i].Score,
		}
	}

	return nil, output, nil
}

func (s *Server) handleAddDocument(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AddDocumentInput,
) (*mcp.CallToolResult, AddDocumentOutput, error) {
	added, err := s.ports.Ingest.AddDocument(ctx, input.DocID, input.Content)
	if err != nil {
		return nil, AddDocumentOutput{}, err
	}
	return nil, AddDocumentOutput{AddedCount: added}, nil
}

func (s *Server) handleReset(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ struct{},
) (*mcp.CallToolResult, ResetOutput, error) {
	if err := s.ports.Admin.Reset(ctx); err != nil {
		return nil, ResetOutput{}, err
	}
	return nil, ResetOutput{Status: "ok"}, nil
}
