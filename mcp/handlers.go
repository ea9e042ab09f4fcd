package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/polydup/polydup/domain"
	mcplib "github.com/mark3labs/mcp-go/mcp"
)

// HandlerSet binds MCP tool handlers to a shared Dependencies instance.
type HandlerSet struct {
	deps *Dependencies
}

// NewHandlerSet creates a HandlerSet backed by deps.
func NewHandlerSet(deps *Dependencies) *HandlerSet {
	return &HandlerSet{deps: deps}
}

// HandleDetectClones handles the detect_clones tool.
func (h *HandlerSet) HandleDetectClones(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcplib.NewToolResultError("invalid arguments format"), nil
	}

	path, ok := args["path"].(string)
	if !ok {
		return mcplib.NewToolResultError("path parameter is required and must be a string"), nil
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return mcplib.NewToolResultError(fmt.Sprintf("path does not exist: %s", path)), nil
	}

	similarityThreshold := 0.8
	if st, ok := args["similarity_threshold"].(float64); ok {
		similarityThreshold = st
	}

	minLines := 5
	if ml, ok := args["min_lines"].(float64); ok {
		minLines = int(ml)
	}

	groupClones := true
	if gc, ok := args["group_clones"].(bool); ok {
		groupClones = gc
	}

	recursive := true
	if r, ok := args["recursive"].(bool); ok {
		recursive = r
	}

	req := domain.DefaultCloneRequest()
	req.Paths = []string{path}
	req.SimilarityThreshold = similarityThreshold
	req.MinLines = minLines
	req.GroupClones = groupClones
	req.Recursive = recursive
	req.OutputFormat = domain.OutputFormatJSON
	req.OutputWriter = io.Discard
	req.ConfigPath = h.deps.ConfigPath()

	if st, ok := args["skip_tests"].(bool); ok {
		req.SkipTests = st
	}
	if cf, ok := args["cross_file"].(bool); ok {
		req.CrossFile = cf
	}
	if rc, ok := args["rename_cost"].(float64); ok {
		req.RenameCost = rc
	}
	if dc, ok := args["delete_cost"].(float64); ok {
		req.DeleteCost = dc
	}
	if ic, ok := args["insert_cost"].(float64); ok {
		req.InsertCost = ic
	}

	cloneUC, err := h.deps.BuildCloneUseCase()
	if err != nil {
		return mcplib.NewToolResultError(fmt.Sprintf("failed to create clone detector: %v", err)), nil
	}

	result, err := cloneUC.ExecuteAndReturn(ctx, *req)
	if err != nil {
		return mcplib.NewToolResultError(fmt.Sprintf("clone detection failed: %v", err)), nil
	}

	jsonData, err := json.Marshal(result)
	if err != nil {
		return mcplib.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}

	return mcplib.NewToolResultText(string(jsonData)), nil
}
