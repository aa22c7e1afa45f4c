package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/giantswarm/agent-eval/internal/agent"
	"github.com/giantswarm/agent-eval/internal/server"
)

func registerEvaluationTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	// create_evaluation
	createTool := mcp.NewTool("create_evaluation",
		mcp.WithDescription("Create a pending evaluation of a reasoning agent against a benchmark"),
		mcp.WithString("benchmark",
			mcp.Required(),
			mcp.Description("Benchmark name (e.g. 'gpqa-sample')"),
		),
		mcp.WithString("agent_type",
			mcp.Description("Reasoning strategy: 'none' or 'chain_of_thought' (default: 'none')"),
		),
		mcp.WithString("model",
			mcp.Description("Model name to evaluate"),
		),
		mcp.WithString("provider",
			mcp.Description("Model provider identifier"),
		),
		mcp.WithNumber("temperature",
			mcp.Description("Sampling temperature in [0, 2]"),
		),
	)
	s.AddTool(createTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleCreateEvaluation(ctx, request, sc)
	})

	// execute_evaluation
	executeTool := mcp.NewTool("execute_evaluation",
		mcp.WithDescription("Execute a pending evaluation to completion and return its results summary"),
		mcp.WithString("evaluation_id",
			mcp.Required(),
			mcp.Description("ID returned by create_evaluation"),
		),
	)
	s.AddTool(executeTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleExecuteEvaluation(ctx, request, sc)
	})

	// get_evaluation_status
	statusTool := mcp.NewTool("get_evaluation_status",
		mcp.WithDescription("Get the lifecycle status of an evaluation"),
		mcp.WithString("evaluation_id",
			mcp.Required(),
			mcp.Description("Evaluation ID"),
		),
	)
	s.AddTool(statusTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleEvaluationStatus(ctx, request, sc)
	})

	// get_evaluation_results
	resultsTool := mcp.NewTool("get_evaluation_results",
		mcp.WithDescription("Get aggregate results of a completed evaluation"),
		mcp.WithString("evaluation_id",
			mcp.Required(),
			mcp.Description("Evaluation ID"),
		),
		mcp.WithBoolean("detailed",
			mcp.Description("Include per-question results (default: false)"),
		),
	)
	s.AddTool(resultsTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleEvaluationResults(ctx, request, sc)
	})

	// list_evaluations
	listTool := mcp.NewTool("list_evaluations",
		mcp.WithDescription("List all evaluations with status and accuracy"),
	)
	s.AddTool(listTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleListEvaluations(ctx, request, sc)
	})

	return nil
}

func handleCreateEvaluation(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	benchmarkName, ok := args["benchmark"].(string)
	if !ok || benchmarkName == "" {
		return mcp.NewToolResultError("benchmark is required"), nil
	}

	agentType, _ := args["agent_type"].(string)
	if agentType == "" {
		agentType = agent.TypeNone
	}
	model, _ := args["model"].(string)
	provider, _ := args["provider"].(string)

	cfg := agent.Config{
		AgentType:     agentType,
		ModelProvider: provider,
		ModelName:     model,
	}
	if temp, ok := args["temperature"].(float64); ok {
		cfg.ModelParameters = map[string]any{"temperature": temp}
	}

	evaluationID, err := sc.Orchestrator.CreateEvaluation(ctx, cfg, benchmarkName)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to create evaluation: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf(`{"evaluation_id": %q}`, evaluationID)), nil
}

func handleExecuteEvaluation(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	evaluationID, ok := args["evaluation_id"].(string)
	if !ok || evaluationID == "" {
		return mcp.NewToolResultError("evaluation_id is required"), nil
	}

	if err := sc.Orchestrator.ExecuteEvaluation(ctx, evaluationID, nil); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("evaluation failed: %v", err)), nil
	}

	results, err := sc.Orchestrator.Results(ctx, evaluationID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load results: %v", err)), nil
	}

	summary := map[string]any{
		"evaluation_id":   evaluationID,
		"total_questions": results.TotalQuestions,
		"correct_answers": results.CorrectAnswers,
		"accuracy":        results.Accuracy,
		"error_count":     results.ErrorCount,
	}
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal summary: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func handleEvaluationStatus(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	evaluationID, ok := args["evaluation_id"].(string)
	if !ok || evaluationID == "" {
		return mcp.NewToolResultError("evaluation_id is required"), nil
	}

	status, err := sc.Orchestrator.Status(ctx, evaluationID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to get status: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf(`{"evaluation_id": %q, "status": %q}`, evaluationID, status)), nil
}

func handleEvaluationResults(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	evaluationID, ok := args["evaluation_id"].(string)
	if !ok || evaluationID == "" {
		return mcp.NewToolResultError("evaluation_id is required"), nil
	}
	detailed, _ := args["detailed"].(bool)

	results, err := sc.Orchestrator.Results(ctx, evaluationID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to get results: %v", err)), nil
	}

	out := map[string]any{
		"evaluation_id":             evaluationID,
		"total_questions":           results.TotalQuestions,
		"correct_answers":           results.CorrectAnswers,
		"accuracy":                  results.Accuracy,
		"error_count":               results.ErrorCount,
		"average_execution_time_ms": results.AverageExecutionTime.Milliseconds(),
		"summary_statistics":        results.SummaryStatistics,
	}
	if detailed {
		out["detailed_results"] = results.DetailedResults
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal results: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func handleListEvaluations(ctx context.Context, _ mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	infos, err := sc.Orchestrator.ListEvaluations(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list evaluations: %v", err)), nil
	}

	type evaluationInfo struct {
		EvaluationID string   `json:"evaluation_id"`
		Benchmark    string   `json:"benchmark"`
		AgentType    string   `json:"agent_type"`
		Model        string   `json:"model"`
		Status       string   `json:"status"`
		Accuracy     *float64 `json:"accuracy,omitempty"`
	}

	out := make([]evaluationInfo, 0, len(infos))
	for _, info := range infos {
		name := info.BenchmarkName
		if name == "" {
			name = info.BenchmarkID
		}
		out = append(out, evaluationInfo{
			EvaluationID: info.EvaluationID,
			Benchmark:    name,
			AgentType:    info.AgentType,
			Model:        info.ModelName,
			Status:       string(info.Status),
			Accuracy:     info.Accuracy,
		})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal evaluations: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
