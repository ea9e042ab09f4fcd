package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// RegisterTools registers the polydup MCP tools with the server.
func RegisterTools(s *server.MCPServer, h *HandlerSet) {
	s.AddTool(mcp.NewTool("detect_clones",
		mcp.WithDescription("Detect duplicated or structurally similar functions across Python, Go, JavaScript/TypeScript and Rust source trees using the APTED tree edit distance algorithm"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to source code (file or directory) to analyze")),
		mcp.WithNumber("similarity_threshold",
			mcp.Description("Minimum similarity threshold 0.0-1.0 (default: 0.8)")),
		mcp.WithNumber("min_lines",
			mcp.Description("Minimum lines for a function to be considered (default: 5)")),
		mcp.WithBoolean("group_clones",
			mcp.Description("Group related clones into connected components (default: true)")),
		mcp.WithBoolean("recursive",
			mcp.Description("Recursively analyze directories (default: true)")),
		mcp.WithBoolean("skip_tests",
			mcp.Description("Exclude test functions from clone detection (default: false)")),
		mcp.WithBoolean("cross_file",
			mcp.Description("Compare fragments across files in addition to within each file (default: true)")),
		mcp.WithNumber("rename_cost",
			mcp.Description("APTED cost of renaming a node (default: 0.3)")),
		mcp.WithNumber("delete_cost",
			mcp.Description("APTED cost of deleting a node (default: 1.0)")),
		mcp.WithNumber("insert_cost",
			mcp.Description("APTED cost of inserting a node (default: 1.0)")),
	), h.HandleDetectClones)
}
