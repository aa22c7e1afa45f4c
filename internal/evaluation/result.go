package evaluation

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/giantswarm/agent-eval/internal/benchmark"
)

var (
	// ErrNegativeExecutionTime is returned when a result is constructed
	// with a negative execution time.
	ErrNegativeExecutionTime = errors.New("execution time must not be negative")

	// ErrNoOutcome is returned when a result carries neither a successful
	// answer nor an error message.
	ErrNoOutcome = errors.New("result must carry an answer or an error message")

	// ErrAnswerWithoutJudgment is returned when a result carries an answer
	// without a correctness judgment.
	ErrAnswerWithoutJudgment = errors.New("answer requires a correctness judgment")

	// ErrConflictingOutcome is returned when a result carries both an
	// answer and an error message.
	ErrConflictingOutcome = errors.New("result cannot be both successful and failed")
)

// QuestionResult is the outcome of processing exactly one question.
// Exactly one of two shapes holds: the success shape (ActualAnswer and
// IsCorrect set) or the failure shape (ErrorMessage set, ActualAnswer nil).
// Results are created once during execution and never mutated.
type QuestionResult struct {
	ID               string        `json:"id"`
	EvaluationID     string        `json:"evaluation_id"`
	QuestionID       string        `json:"question_id"`
	QuestionText     string        `json:"question_text"`
	ExpectedAnswer   string        `json:"expected_answer"`
	ActualAnswer     *string       `json:"actual_answer,omitempty"`
	IsCorrect        *bool         `json:"is_correct,omitempty"`
	ExecutionTime    time.Duration `json:"execution_time"`
	ReasoningTrace   string        `json:"reasoning_trace,omitempty"`
	ErrorMessage     string        `json:"error_message,omitempty"`
	TechnicalDetails string        `json:"technical_details,omitempty"`
	ProcessedAt      time.Time     `json:"processed_at"`
}

// NewQuestionResult validates and constructs a QuestionResult.
func NewQuestionResult(
	evaluationID string,
	q benchmark.Question,
	actualAnswer *string,
	isCorrect *bool,
	errorMessage, technicalDetails, reasoningTrace string,
	executionTime time.Duration,
) (QuestionResult, error) {
	if executionTime < 0 {
		return QuestionResult{}, ErrNegativeExecutionTime
	}
	if actualAnswer == nil && errorMessage == "" {
		return QuestionResult{}, ErrNoOutcome
	}
	if actualAnswer != nil && errorMessage != "" {
		return QuestionResult{}, ErrConflictingOutcome
	}
	if actualAnswer != nil && isCorrect == nil {
		return QuestionResult{}, ErrAnswerWithoutJudgment
	}

	return QuestionResult{
		ID:               uuid.NewString(),
		EvaluationID:     evaluationID,
		QuestionID:       q.ID,
		QuestionText:     q.Text,
		ExpectedAnswer:   q.ExpectedAnswer,
		ActualAnswer:     actualAnswer,
		IsCorrect:        isCorrect,
		ExecutionTime:    executionTime,
		ReasoningTrace:   reasoningTrace,
		ErrorMessage:     errorMessage,
		TechnicalDetails: technicalDetails,
		ProcessedAt:      time.Now().UTC(),
	}, nil
}

// NewSuccessfulResult constructs the success shape of a QuestionResult.
func NewSuccessfulResult(
	evaluationID string,
	q benchmark.Question,
	answer string,
	correct bool,
	reasoningTrace string,
	executionTime time.Duration,
) (QuestionResult, error) {
	return NewQuestionResult(evaluationID, q, &answer, &correct, "", "", reasoningTrace, executionTime)
}

// NewFailedResult constructs the failure shape of a QuestionResult from a
// mapped FailureReason.
func NewFailedResult(
	evaluationID string,
	q benchmark.Question,
	reason FailureReason,
	executionTime time.Duration,
) (QuestionResult, error) {
	return NewQuestionResult(evaluationID, q, nil, nil,
		reason.Description, reason.TechnicalDetails, "", executionTime)
}

// IsSuccessful reports whether the result carries an answer.
func (r QuestionResult) IsSuccessful() bool {
	return r.ActualAnswer != nil
}

// Results holds the aggregate statistics for a completed evaluation.
type Results struct {
	TotalQuestions       int              `json:"total_questions"`
	CorrectAnswers       int              `json:"correct_answers"`
	Accuracy             float64          `json:"accuracy"`
	AverageExecutionTime time.Duration    `json:"average_execution_time"`
	ErrorCount           int              `json:"error_count"`
	DetailedResults      []QuestionResult `json:"detailed_results"`
	SummaryStatistics    map[string]any   `json:"summary_statistics,omitempty"`
}

// Aggregate computes evaluation results from an ordered sequence of
// question results. Execution time is averaged over all results,
// successes and failures alike.
func Aggregate(results []QuestionResult) Results {
	total := len(results)

	correct := 0
	failed := 0
	var totalTime time.Duration
	for _, r := range results {
		if r.IsCorrect != nil && *r.IsCorrect {
			correct++
		}
		if !r.IsSuccessful() {
			failed++
		}
		totalTime += r.ExecutionTime
	}

	accuracy := 0.0
	var avgTime time.Duration
	if total > 0 {
		accuracy = float64(correct) / float64(total) * 100
		avgTime = totalTime / time.Duration(total)
	}

	return Results{
		TotalQuestions:       total,
		CorrectAnswers:       correct,
		Accuracy:             accuracy,
		AverageExecutionTime: avgTime,
		ErrorCount:           failed,
		DetailedResults:      results,
		SummaryStatistics: map[string]any{
			"succeeded":     total - failed,
			"failed":        failed,
			"incorrect":     total - failed - correct,
			"total_time_ms": totalTime.Milliseconds(),
		},
	}
}

// AnswerMatches is the baseline correctness comparator: exact match first,
// then a normalized comparison that ignores case, surrounding space, and
// trailing punctuation.
func AnswerMatches(actual, expected string) bool {
	if actual == expected {
		return true
	}
	return normalizeAnswer(actual) == normalizeAnswer(expected)
}

func normalizeAnswer(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimRight(s, ".!?,")
	s = strings.TrimSpace(s)
	return strings.ToLower(s)
}
