package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/server"

	"github.com/ziadkadry99/docqa/internal/app"
	"github.com/ziadkadry99/docqa/internal/qa"
	"github.com/ziadkadry99/docqa/internal/vectordb"
)

// Version is set via ldflags at build time.
var Version = "dev"

// App is the part of the application the tools use. *app.App implements it.
type App interface {
	AskQuestion(ctx context.Context, question string, k int) qa.Result
	Search(ctx context.Context, query string, k int) ([]vectordb.SearchResult, error)
	IndexStats() vectordb.Stats
	DocumentStats() app.DocumentStats
}

// Server wraps an MCP server that exposes document Q&A tools.
type Server struct {
	app App
	mcp *server.MCPServer
}

// NewServer creates a new MCP server backed by a.
func NewServer(a App) *Server {
	s := &Server{app: a}

	s.mcp = server.NewMCPServer(
		"docqa",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(askDocumentsTool, s.handleAskDocuments)
	s.mcp.AddTool(searchDocumentsTool, s.handleSearchDocuments)
	s.mcp.AddTool(indexStatsTool, s.handleIndexStats)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
