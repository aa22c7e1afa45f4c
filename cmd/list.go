package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/giantswarm/agent-eval/internal/agent"
	"github.com/giantswarm/agent-eval/internal/orchestrator"
	"github.com/giantswarm/agent-eval/internal/storage"
)

func newListCmd() *cobra.Command {
	var (
		benchmarksDir string
		dataDir       string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List available benchmarks and stored evaluations",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			benchmarks := storage.NewFSBenchmarkRepository(benchmarksDir)
			all, err := benchmarks.ListAll(ctx)
			if err != nil {
				return fmt.Errorf("failed to list benchmarks: %w", err)
			}

			if len(all) == 0 {
				fmt.Println("No benchmarks found.")
			} else {
				fmt.Printf("Available benchmarks:\n\n")
				for _, b := range all {
					fmt.Printf("  - %s\n", b.ID)
					fmt.Printf("    Name: %s\n", b.Name)
					fmt.Printf("    Description: %s\n", b.Description)
					fmt.Printf("    Format version: %s\n", b.FormatVersion)
					fmt.Printf("    Questions: %d\n\n", b.QuestionCount)
				}
			}

			if dataDir == "" {
				return nil
			}

			st, err := openStores(dataDir)
			if err != nil {
				return fmt.Errorf("failed to open storage: %w", err)
			}
			defer st.close()

			o := orchestrator.New(agent.NewRegistry(), nil, benchmarks, st.evaluations, st.results)
			infos, err := o.ListEvaluations(ctx)
			if err != nil {
				return err
			}

			if len(infos) == 0 {
				fmt.Println("No evaluations stored.")
				return nil
			}

			fmt.Printf("Stored evaluations:\n\n")
			for _, info := range infos {
				fmt.Printf("  - %s\n", info.EvaluationID)
				fmt.Printf("    Benchmark: %s\n", info.BenchmarkID)
				fmt.Printf("    Agent type: %s\n", info.AgentType)
				fmt.Printf("    Model: %s\n", info.ModelName)
				fmt.Printf("    Status: %s\n", info.Status)
				if info.Accuracy != nil {
					fmt.Printf("    Accuracy: %.1f%%\n", *info.Accuracy)
				}
				fmt.Println()
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&benchmarksDir, "benchmarks-dir", "", "External benchmarks directory")
	cmd.Flags().StringVar(&dataDir, "data-dir", "", "Directory for persistent evaluation storage")

	return cmd
}
