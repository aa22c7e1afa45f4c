// Package mcp exposes the evaluation operations as MCP tools.
package mcp

import (
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/giantswarm/agent-eval/internal/server"
)

// RegisterTools registers all MCP tools with the server.
func RegisterTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	if err := registerEvaluationTools(s, sc); err != nil {
		return err
	}
	if err := registerBenchmarkTools(s, sc); err != nil {
		return err
	}
	return nil
}
