package mcp

import "github.com/mark3labs/mcp-go/mcp"

// askDocumentsTool defines the ask_documents MCP tool.
var askDocumentsTool = mcp.NewTool("ask_documents",
	mcp.WithDescription("Answer a question from the indexed documents. Returns the answer followed by the numbered sources it cites."),
	mcp.WithString("question",
		mcp.Required(),
		mcp.Description("Natural language question"),
	),
	mcp.WithNumber("k",
		mcp.Description("Number of passages to retrieve as context (default from config)"),
	),
)

// searchDocumentsTool defines the search_documents MCP tool.
var searchDocumentsTool = mcp.NewTool("search_documents",
	mcp.WithDescription("Semantic search over the indexed document passages. Returns the most similar chunks with their source file and score."),
	mcp.WithString("query",
		mcp.Required(),
		mcp.Description("Natural language search query"),
	),
	mcp.WithNumber("k",
		mcp.Description("Maximum number of results to return (default from config)"),
	),
)

// indexStatsTool defines the index_stats MCP tool.
var indexStatsTool = mcp.NewTool("index_stats",
	mcp.WithDescription("Report what the document index holds: chunk count, dimension, embedding model and source files."),
)
