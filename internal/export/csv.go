// Package export writes evaluation results to external formats.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/giantswarm/agent-eval/internal/evaluation"
)

var csvHeader = []string{
	"QuestionID",
	"Question",
	"ExpectedAnswer",
	"ActualAnswer",
	"IsCorrect",
	"ErrorMessage",
	"ExecutionTimeMS",
	"ProcessedAt",
}

// WriteResultsCSV writes the detailed per-question results as CSV,
// in benchmark order.
func WriteResultsCSV(w io.Writer, results *evaluation.Results) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, r := range results.DetailedResults {
		actual := ""
		if r.ActualAnswer != nil {
			actual = *r.ActualAnswer
		}
		correct := ""
		if r.IsCorrect != nil {
			correct = strconv.FormatBool(*r.IsCorrect)
		}

		record := []string{
			r.QuestionID,
			r.QuestionText,
			r.ExpectedAnswer,
			actual,
			correct,
			r.ErrorMessage,
			strconv.FormatInt(r.ExecutionTime.Milliseconds(), 10),
			r.ProcessedAt.Format(time.RFC3339),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row for question %s: %w", r.QuestionID, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteResultsCSVFile writes the detailed results to a file.
func WriteResultsCSVFile(path string, results *evaluation.Results) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := WriteResultsCSV(f, results); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
