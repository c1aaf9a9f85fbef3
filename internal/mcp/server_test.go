package mcp

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/docqa/internal/app"
	"github.com/ziadkadry99/docqa/internal/chunker"
	"github.com/ziadkadry99/docqa/internal/citation"
	"github.com/ziadkadry99/docqa/internal/qa"
	"github.com/ziadkadry99/docqa/internal/vectordb"
)

// mockApp implements App for testing.
type mockApp struct {
	result  qa.Result
	results []vectordb.SearchResult
	stats   vectordb.Stats
	lastK   int
}

func (m *mockApp) AskQuestion(_ context.Context, question string, k int) qa.Result {
	m.lastK = k
	return m.result
}

func (m *mockApp) Search(_ context.Context, query string, k int) ([]vectordb.SearchResult, error) {
	m.lastK = k
	return m.results, nil
}

func (m *mockApp) IndexStats() vectordb.Stats { return m.stats }

func (m *mockApp) DocumentStats() app.DocumentStats {
	return app.DocumentStats{TotalChunks: 2, AverageChunkSize: 512, Sources: []string{"cats.pdf", "dogs.pdf"}, NumSources: 2}
}

func textOf(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("empty tool result")
	}
	tc, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("unexpected content type %T", result.Content[0])
	}
	return tc.Text
}

func TestToolDefinitions(t *testing.T) {
	tests := []struct {
		name     string
		tool     mcp.Tool
		wantName string
	}{
		{"ask_documents", askDocumentsTool, "ask_documents"},
		{"search_documents", searchDocumentsTool, "search_documents"},
		{"index_stats", indexStatsTool, "index_stats"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.tool.Name != tt.wantName {
				t.Errorf("tool name = %q, want %q", tt.tool.Name, tt.wantName)
			}
			if tt.tool.Description == "" {
				t.Error("tool description should not be empty")
			}
		})
	}
}

func TestNewServer(t *testing.T) {
	a := &mockApp{}
	srv := NewServer(a)
	if srv == nil || srv.mcp == nil {
		t.Fatal("MCP server not initialized")
	}
	if srv.app != a {
		t.Error("app not set correctly")
	}
}

func TestHandleAskDocuments(t *testing.T) {
	ctx := context.Background()

	t.Run("grounded answer", func(t *testing.T) {
		a := &mockApp{result: &qa.Success{
			Answer:    "According to Source 1, cats are mammals.",
			Grounded:  true,
			Citations: []citation.Citation{{SourceID: 1, Filename: "cats.pdf", ChunkID: 4, RelevanceScore: 0.87, Excerpt: "Cats are mammals."}},
		}}
		srv := NewServer(a)

		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{"question": "Are cats mammals?", "k": 3}

		result, err := srv.handleAskDocuments(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.IsError {
			t.Fatalf("unexpected tool error: %v", result.Content)
		}
		text := textOf(t, result)
		if !strings.Contains(text, "[Source 1] cats.pdf, chunk 4 (relevance 0.870)") {
			t.Errorf("missing source line:\n%s", text)
		}
		if a.lastK != 3 {
			t.Errorf("k = %d, want 3", a.lastK)
		}
	})

	t.Run("ungrounded answer", func(t *testing.T) {
		srv := NewServer(&mockApp{result: &qa.Success{Answer: "Go is a language."}})
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{"question": "What is Go?"}

		result, _ := srv.handleAskDocuments(ctx, req)
		if text := textOf(t, result); !strings.Contains(text, "not backed by the documents") {
			t.Errorf("expected ungrounded note:\n%s", text)
		}
	})

	t.Run("failure", func(t *testing.T) {
		srv := NewServer(&mockApp{result: &qa.Failure{Kind: qa.FailEmptyQuestion, Reason: qa.ReasonEmptyQuestion}})
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{"question": " "}

		result, _ := srv.handleAskDocuments(ctx, req)
		if !result.IsError || textOf(t, result) != "Empty question" {
			t.Errorf("expected Empty question error, got %+v", result)
		}
	})

	t.Run("missing question", func(t *testing.T) {
		srv := NewServer(&mockApp{})
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{}

		result, err := srv.handleAskDocuments(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.IsError {
			t.Error("expected error for missing question")
		}
	})
}

func TestHandleSearchDocuments(t *testing.T) {
	ctx := context.Background()

	t.Run("results", func(t *testing.T) {
		srv := NewServer(&mockApp{results: []vectordb.SearchResult{
			{Chunk: chunker.Chunk{ID: 1, SourceName: "cats.pdf", Content: "Cats purr."}, Score: 0.9},
		}})
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{"query": "purring"}

		result, _ := srv.handleSearchDocuments(ctx, req)
		if result.IsError {
			t.Fatalf("unexpected tool error: %v", result.Content)
		}
		if text := textOf(t, result); !strings.Contains(text, "cats.pdf") || !strings.Contains(text, "Cats purr.") {
			t.Errorf("unexpected text:\n%s", text)
		}
	})

	t.Run("empty index", func(t *testing.T) {
		srv := NewServer(&mockApp{})
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{"query": "anything"}

		result, _ := srv.handleSearchDocuments(ctx, req)
		if result.IsError {
			t.Error("empty results should not be an error")
		}
	})

	t.Run("missing query", func(t *testing.T) {
		srv := NewServer(&mockApp{})
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{}

		result, _ := srv.handleSearchDocuments(ctx, req)
		if !result.IsError {
			t.Error("expected error for missing query")
		}
	})
}

func TestHandleIndexStats(t *testing.T) {
	ctx := context.Background()

	empty := NewServer(&mockApp{stats: vectordb.Stats{}})
	result, _ := empty.handleIndexStats(ctx, mcp.CallToolRequest{})
	if text := textOf(t, result); !strings.Contains(text, "index is empty") {
		t.Errorf("unexpected text for empty index: %s", text)
	}

	dim := 384
	srv := NewServer(&mockApp{stats: vectordb.Stats{Initialized: true, NumDocuments: 2, Dimension: &dim, EmbeddingModel: "all-minilm", Backend: vectordb.BackendFlat}})
	result, _ = srv.handleIndexStats(ctx, mcp.CallToolRequest{})
	text := textOf(t, result)
	for _, want := range []string{"Chunks: 2", "Dimension: 384", "all-minilm", "- cats.pdf", "- dogs.pdf"} {
		if !strings.Contains(text, want) {
			t.Errorf("stats missing %q:\n%s", want, text)
		}
	}
}
