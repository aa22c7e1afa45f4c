package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/giantswarm/agent-eval/internal/agent"
	"github.com/giantswarm/agent-eval/internal/evaluation"
	"github.com/giantswarm/agent-eval/internal/export"
	"github.com/giantswarm/agent-eval/internal/orchestrator"
	"github.com/giantswarm/agent-eval/internal/storage"
)

func newRunCmd() *cobra.Command {
	var (
		agentType        string
		model            string
		provider         string
		temperature      float64
		maxTokens        int
		endpoint         string
		apiKey           string
		benchmarksDir    string
		dataDir          string
		csvOut           string
		timeout          time.Duration
		failureTolerance int
	)

	cmd := &cobra.Command{
		Use:   "run <benchmark>",
		Short: "Evaluate a reasoning agent against a benchmark",
		Long: `Create and execute one evaluation: every question in the benchmark is sent
through the configured reasoning strategy to the LLM backend, answers are judged
against the expected answers, and aggregate accuracy statistics are reported.

Per-question failures (timeouts, rate limits, refusals) are recorded and do not
abort the run.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}

			benchmarkName := args[0]

			st, err := openStores(dataDir)
			if err != nil {
				return fmt.Errorf("failed to open storage: %w", err)
			}
			defer st.close()

			o := orchestrator.New(
				agent.NewRegistry(),
				newGatewayFromFlags(endpoint, apiKey),
				storage.NewFSBenchmarkRepository(benchmarksDir),
				st.evaluations,
				st.results,
			)
			if failureTolerance > 0 {
				o.SetFailureTolerance(failureTolerance)
			}

			cfg := agent.Config{
				AgentType:       agentType,
				ModelProvider:   provider,
				ModelName:       model,
				ModelParameters: map[string]any{},
			}
			if cmd.Flags().Changed("temperature") {
				cfg.ModelParameters["temperature"] = temperature
			}
			if cmd.Flags().Changed("max-tokens") {
				cfg.ModelParameters["max_tokens"] = maxTokens
			}

			evaluationID, err := o.CreateEvaluation(ctx, cfg, benchmarkName)
			if err != nil {
				return err
			}

			fmt.Printf("Benchmark: %s\n", benchmarkName)
			fmt.Printf("Agent type: %s\n", agentType)
			fmt.Printf("Model: %s\n", model)
			fmt.Printf("Evaluation: %s\n\n", evaluationID)

			execErr := o.ExecuteEvaluation(ctx, evaluationID, func(p orchestrator.ProgressInfo) {
				fmt.Printf("\r  Question %d/%d (ok: %d, failed: %d)...",
					p.CurrentQuestion, p.TotalQuestions, p.Succeeded, p.Failed)
			})
			fmt.Println()
			if execErr != nil {
				// A failed evaluation still has an inspectable failure reason.
				if status, err := o.Status(ctx, evaluationID); err == nil && status == evaluation.StatusFailed {
					fmt.Printf("\nEvaluation failed: %v\n", execErr)
				}
				return execErr
			}

			results, err := o.Results(ctx, evaluationID)
			if err != nil {
				return err
			}

			fmt.Printf("\nEvaluation completed.\n")
			printResultsSummary(results)

			if csvOut != "" {
				if err := export.WriteResultsCSVFile(csvOut, results); err != nil {
					return err
				}
				fmt.Printf("Detailed results written to %s\n", csvOut)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&agentType, "agent-type", agent.TypeNone, "Reasoning strategy: none or chain_of_thought")
	cmd.Flags().StringVar(&model, "model", "", "Model name to evaluate")
	cmd.Flags().StringVar(&provider, "provider", "openai", "Model provider identifier")
	cmd.Flags().Float64Var(&temperature, "temperature", 0.0, "Sampling temperature in [0, 2]")
	cmd.Flags().IntVar(&maxTokens, "max-tokens", 0, "Completion token limit (0 means backend default)")
	cmd.Flags().StringVar(&endpoint, "endpoint", "", "LLM API endpoint URL")
	cmd.Flags().StringVar(&apiKey, "api-key", "", "API key (or set OPENAI_API_KEY)")
	cmd.Flags().StringVar(&benchmarksDir, "benchmarks-dir", "", "External benchmarks directory")
	cmd.Flags().StringVar(&dataDir, "data-dir", "", "Directory for persistent evaluation storage (default: in-memory)")
	cmd.Flags().StringVar(&csvOut, "csv-out", "", "Write detailed per-question results to this CSV file")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "Overall timeout for the evaluation (e.g. 30m). 0 means no timeout")
	cmd.Flags().IntVar(&failureTolerance, "failure-tolerance", 0, "Abort after this many non-recoverable question failures (0 means never)")

	return cmd
}

func printResultsSummary(results *evaluation.Results) {
	fmt.Printf("  Questions: %d\n", results.TotalQuestions)
	fmt.Printf("  Correct: %d\n", results.CorrectAnswers)
	fmt.Printf("  Accuracy: %.1f%%\n", results.Accuracy)
	fmt.Printf("  Errors: %d\n", results.ErrorCount)
	fmt.Printf("  Avg time per question: %s\n", results.AverageExecutionTime.Round(time.Millisecond))
}
