package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/giantswarm/agent-eval/internal/evaluation"
	"github.com/giantswarm/agent-eval/internal/export"
)

func newResultsCmd() *cobra.Command {
	var (
		dataDir string
		csvOut  string
		full    bool
	)

	cmd := &cobra.Command{
		Use:   "results <evaluation-id>",
		Short: "Show the status and results of a stored evaluation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			evaluationID := args[0]

			if dataDir == "" {
				return fmt.Errorf("--data-dir is required to read stored evaluations")
			}

			st, err := openStores(dataDir)
			if err != nil {
				return fmt.Errorf("failed to open storage: %w", err)
			}
			defer st.close()

			eval, err := st.evaluations.GetByID(ctx, evaluationID)
			if err != nil {
				if errNotFound(err) {
					return fmt.Errorf("evaluation %s not found", evaluationID)
				}
				return err
			}

			fmt.Printf("Evaluation: %s\n", eval.ID)
			fmt.Printf("Benchmark: %s\n", eval.BenchmarkID)
			fmt.Printf("Agent type: %s\n", eval.AgentConfig.AgentType)
			fmt.Printf("Model: %s\n", eval.AgentConfig.ModelName)
			fmt.Printf("Status: %s\n", eval.Status)

			switch eval.Status {
			case evaluation.StatusFailed:
				if eval.FailureReason != nil {
					fmt.Printf("\nFailure: %s\n", eval.FailureReason.Description)
					fmt.Printf("  Category: %s\n", eval.FailureReason.Category)
					fmt.Printf("  Recoverable: %t\n", eval.FailureReason.Recoverable)
					if eval.FailureReason.TechnicalDetails != "" {
						fmt.Printf("  Details: %s\n", eval.FailureReason.TechnicalDetails)
					}
				}
			case evaluation.StatusCompleted:
				fmt.Println()
				printResultsSummary(eval.Results)

				if full {
					fmt.Println()
					for _, r := range eval.Results.DetailedResults {
						printQuestionResult(r)
					}
				}

				if csvOut != "" {
					if err := export.WriteResultsCSVFile(csvOut, eval.Results); err != nil {
						return err
					}
					fmt.Printf("\nDetailed results written to %s\n", csvOut)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dataDir, "data-dir", "", "Directory for persistent evaluation storage")
	cmd.Flags().StringVar(&csvOut, "csv-out", "", "Write detailed per-question results to this CSV file")
	cmd.Flags().BoolVar(&full, "full", false, "Print every per-question result")

	return cmd
}

func printQuestionResult(r evaluation.QuestionResult) {
	fmt.Printf("---\n")
	fmt.Printf("NO. %s\n", r.QuestionID)
	fmt.Printf("QUESTION: %s\n", r.QuestionText)
	fmt.Printf("EXPECTED ANSWER: %s\n", r.ExpectedAnswer)
	if r.IsSuccessful() {
		fmt.Printf("ACTUAL ANSWER: %s\n", *r.ActualAnswer)
		fmt.Printf("CORRECT: %t\n", *r.IsCorrect)
	} else {
		fmt.Printf("ERROR: %s\n", r.ErrorMessage)
	}
	fmt.Printf("TIME: %s\n", r.ExecutionTime.Round(time.Millisecond))
}
