package server

import (
	"github.com/giantswarm/agent-eval/internal/orchestrator"
	"github.com/giantswarm/agent-eval/internal/storage"
)

// ServerContext holds shared dependencies for MCP tool handlers.
type ServerContext struct {
	Orchestrator *orchestrator.Orchestrator
	Benchmarks   storage.BenchmarkRepository
}
