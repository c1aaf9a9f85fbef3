package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/docqa/internal/qa"
	"github.com/ziadkadry99/docqa/internal/vectordb"
)

// handleAskDocuments answers a question with citations.
func (s *Server) handleAskDocuments(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	question, err := request.RequireString("question")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: question"), nil
	}

	switch res := s.app.AskQuestion(ctx, question, request.GetInt("k", 0)).(type) {
	case *qa.Success:
		return mcp.NewToolResultText(formatAnswer(res)), nil
	case *qa.Failure:
		return mcp.NewToolResultError(res.Reason), nil
	default:
		return mcp.NewToolResultError("unexpected result"), nil
	}
}

// handleSearchDocuments returns the passages most similar to a query.
func (s *Server) handleSearchDocuments(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: query"), nil
	}

	results, err := s.app.Search(ctx, query, request.GetInt("k", 0))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}
	if len(results) == 0 {
		return mcp.NewToolResultText("No results found. The documents may not be indexed yet. Run `docqa ingest` to index them."), nil
	}

	return mcp.NewToolResultText(vectordb.FormatResults(results)), nil
}

// handleIndexStats describes the index and the processed corpus.
func (s *Server) handleIndexStats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	st := s.app.IndexStats()
	if !st.Initialized {
		return mcp.NewToolResultText("The index is empty. Run `docqa ingest` to index documents."), nil
	}

	docs := s.app.DocumentStats()
	var sb strings.Builder
	fmt.Fprintf(&sb, "Chunks: %d\n", st.NumDocuments)
	if st.Dimension != nil {
		fmt.Fprintf(&sb, "Dimension: %d\n", *st.Dimension)
	}
	fmt.Fprintf(&sb, "Embedding model: %s\n", st.EmbeddingModel)
	fmt.Fprintf(&sb, "Backend: %s\n", st.Backend)
	fmt.Fprintf(&sb, "Average chunk size: %.0f characters\n", docs.AverageChunkSize)
	fmt.Fprintf(&sb, "Sources (%d):\n", docs.NumSources)
	for _, src := range docs.Sources {
		fmt.Fprintf(&sb, "- %s\n", src)
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// formatAnswer renders an answer and its sources as plain text for agents.
func formatAnswer(res *qa.Success) string {
	var sb strings.Builder
	sb.WriteString(res.Answer)
	sb.WriteString("\n")

	if !res.Grounded {
		sb.WriteString("\n(No matching passages were found; this answer is not backed by the documents.)\n")
		return sb.String()
	}

	sb.WriteString("\nSources:\n")
	for _, c := range res.Citations {
		fmt.Fprintf(&sb, "[Source %d] %s, chunk %d (relevance %.3f): %s\n",
			c.SourceID, c.Filename, c.ChunkID, c.RelevanceScore, c.Excerpt)
	}
	return sb.String()
}
