package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/giantswarm/agent-eval/internal/server"
)

func registerBenchmarkTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	listTool := mcp.NewTool("list_benchmarks",
		mcp.WithDescription("List available question benchmarks with metadata"),
	)
	s.AddTool(listTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleListBenchmarks(ctx, request, sc)
	})
	return nil
}

func handleListBenchmarks(ctx context.Context, _ mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	benchmarks, err := sc.Benchmarks.ListAll(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list benchmarks: %v", err)), nil
	}

	type benchmarkInfo struct {
		ID            string `json:"id"`
		Name          string `json:"name"`
		Description   string `json:"description"`
		FormatVersion string `json:"format_version"`
		QuestionCount int    `json:"question_count"`
	}

	out := make([]benchmarkInfo, 0, len(benchmarks))
	for _, b := range benchmarks {
		out = append(out, benchmarkInfo{
			ID:            b.ID,
			Name:          b.Name,
			Description:   b.Description,
			FormatVersion: b.FormatVersion,
			QuestionCount: b.QuestionCount,
		})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal benchmarks: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
