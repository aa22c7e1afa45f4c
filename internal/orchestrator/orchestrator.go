// Package orchestrator drives one evaluation from creation to completion:
// it dispatches each benchmark question through the configured reasoning
// strategy, classifies failures, and aggregates results. Per-question
// failures are recovered into failed results and never abort the run; only
// load-time and persistence failures are fatal.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/giantswarm/agent-eval/internal/agent"
	"github.com/giantswarm/agent-eval/internal/benchmark"
	"github.com/giantswarm/agent-eval/internal/evaluation"
	"github.com/giantswarm/agent-eval/internal/llm"
	"github.com/giantswarm/agent-eval/internal/storage"
)

// ErrNotCompleted is returned when results are requested for an evaluation
// that has not completed.
var ErrNotCompleted = errors.New("evaluation is not completed")

// ConfigValidationError reports an invalid agent configuration at
// evaluation-creation time.
type ConfigValidationError struct {
	Errors []string
}

func (e *ConfigValidationError) Error() string {
	return "invalid agent config: " + strings.Join(e.Errors, "; ")
}

// ProgressInfo is passed to progress callbacks after each question.
type ProgressInfo struct {
	EvaluationID    string
	CurrentQuestion int
	TotalQuestions  int
	Succeeded       int
	Failed          int
	Elapsed         time.Duration
}

// ProgressFunc is called to report progress during evaluation execution.
// It is advisory only and never affects control flow.
type ProgressFunc func(info ProgressInfo)

// EvaluationInfo is a read-only projection joining evaluation and benchmark
// data for reporting.
type EvaluationInfo struct {
	EvaluationID  string
	BenchmarkID   string
	BenchmarkName string
	AgentType     string
	ModelName     string
	Status        evaluation.Status
	CreatedAt     time.Time
	CompletedAt   *time.Time
	Accuracy      *float64
}

// Orchestrator composes the strategy registry, the LLM gateway, and the
// repositories to run evaluations. It is stateless with respect to other
// evaluations; concurrent executions of distinct evaluation ids are fine,
// concurrent executions of the same id are the caller's to prevent.
type Orchestrator struct {
	registry    *agent.Registry
	gateway     llm.Gateway
	benchmarks  storage.BenchmarkRepository
	evaluations storage.EvaluationRepository
	results     storage.QuestionResultRepository

	// failureTolerance caps non-recoverable per-question failures before
	// the run is declared failed. Zero means unlimited, matching the
	// default policy that question-level failures never abort a run.
	failureTolerance int
}

// New creates an orchestrator over the given collaborators.
func New(
	registry *agent.Registry,
	gateway llm.Gateway,
	benchmarks storage.BenchmarkRepository,
	evaluations storage.EvaluationRepository,
	results storage.QuestionResultRepository,
) *Orchestrator {
	return &Orchestrator{
		registry:    registry,
		gateway:     gateway,
		benchmarks:  benchmarks,
		evaluations: evaluations,
		results:     results,
	}
}

// SetFailureTolerance caps non-recoverable per-question failures per run.
// Zero (the default) disables the cap.
func (o *Orchestrator) SetFailureTolerance(n int) {
	o.failureTolerance = n
}

// CreateEvaluation validates the agent config, resolves the benchmark by
// name, and persists a pending evaluation. It returns the evaluation id.
func (o *Orchestrator) CreateEvaluation(ctx context.Context, cfg agent.Config, benchmarkName string) (string, error) {
	if result := cfg.Validate(o.registry.SupportedTypes()); !result.Valid {
		return "", &ConfigValidationError{Errors: result.Errors}
	}

	// The generic rules passed; give the strategy its say (a registered
	// strategy may require parameters Config.Validate knows nothing about).
	strategy, err := o.registry.CreateService(cfg.AgentType)
	if err != nil {
		return "", err
	}
	if !strategy.ValidateConfig(cfg) {
		return "", &ConfigValidationError{Errors: []string{
			fmt.Sprintf("configuration rejected by agent type %q", cfg.AgentType),
		}}
	}

	b, err := o.benchmarks.GetByName(ctx, benchmarkName)
	if err != nil {
		return "", fmt.Errorf("failed to resolve benchmark %q: %w", benchmarkName, err)
	}

	eval := evaluation.New(cfg, b.ID)
	if err := o.evaluations.Save(ctx, eval); err != nil {
		return "", fmt.Errorf("failed to persist evaluation: %w", err)
	}

	slog.Info("evaluation created",
		"evaluation_id", eval.ID,
		"benchmark", b.ID,
		"agent_type", cfg.AgentType,
		"model", cfg.ModelName,
	)
	return eval.ID, nil
}

// ExecuteEvaluation runs a pending evaluation to a terminal state.
// Questions are processed strictly sequentially, in benchmark order, with
// one in-flight gateway call at a time.
func (o *Orchestrator) ExecuteEvaluation(ctx context.Context, evaluationID string, progress ProgressFunc) error {
	eval, err := o.evaluations.GetByID(ctx, evaluationID)
	if err != nil {
		return fmt.Errorf("failed to load evaluation %s: %w", evaluationID, err)
	}

	if err := eval.Start(); err != nil {
		return err
	}
	if err := o.evaluations.Update(ctx, eval); err != nil {
		return fmt.Errorf("failed to persist running transition: %w", err)
	}

	b, err := o.benchmarks.GetByID(ctx, eval.BenchmarkID)
	if err != nil {
		loadErr := fmt.Errorf("failed to load benchmark %s: %w", eval.BenchmarkID, err)
		o.failEvaluation(ctx, eval, evaluation.MapError(loadErr))
		return loadErr
	}

	// A fresh strategy map per run; per-instance state cannot leak across runs.
	instances := o.registry.Instantiate()
	strategy, ok := instances[eval.AgentConfig.AgentType]
	if !ok {
		// Creation-time validation should have caught this; treat it as an
		// internal invariant violation, not a per-question failure.
		reason, _ := evaluation.NewFailureReason(evaluation.CategoryUnknown,
			fmt.Sprintf("agent type %q is not supported", eval.AgentConfig.AgentType),
			"strategy missing from registry at execution time", false)
		o.failEvaluation(ctx, eval, reason)
		return &agent.UnknownAgentTypeError{
			AgentType: eval.AgentConfig.AgentType,
			Supported: o.registry.SupportedTypes(),
		}
	}

	slog.Info("executing evaluation",
		"evaluation_id", eval.ID,
		"benchmark", b.ID,
		"questions", len(b.Questions),
		"agent_type", eval.AgentConfig.AgentType,
	)

	runStart := time.Now()
	succeeded := 0
	failed := 0
	nonRecoverable := 0
	results := make([]evaluation.QuestionResult, 0, len(b.Questions))

	for i, q := range b.Questions {
		// A gateway call, once issued, runs to completion; cancellation is
		// only honored between questions.
		if ctxErr := ctx.Err(); ctxErr != nil {
			reason, _ := evaluation.NewFailureReason(evaluation.CategoryUnknown,
				"evaluation cancelled before completion", ctxErr.Error(), false)
			o.failEvaluation(ctx, eval, reason)
			return fmt.Errorf("evaluation %s cancelled: %w", eval.ID, ctxErr)
		}

		result, reason, err := o.processQuestion(ctx, eval, strategy, q)
		if err != nil {
			o.failEvaluation(ctx, eval, evaluation.MapError(err))
			return err
		}

		if result.IsSuccessful() {
			succeeded++
		} else {
			failed++
			slog.Warn("question failed",
				"evaluation_id", eval.ID,
				"question_id", q.ID,
				"category", reason.Category,
				"recoverable", reason.Recoverable,
				"error", result.ErrorMessage,
			)
			if !reason.Recoverable {
				nonRecoverable++
			}
		}

		if err := o.results.Save(ctx, i, result); err != nil {
			saveErr := fmt.Errorf("failed to persist result for question %s: %w", q.ID, err)
			o.failEvaluation(ctx, eval, evaluation.MapError(saveErr))
			return saveErr
		}
		results = append(results, result)

		if progress != nil {
			progress(ProgressInfo{
				EvaluationID:    eval.ID,
				CurrentQuestion: i + 1,
				TotalQuestions:  len(b.Questions),
				Succeeded:       succeeded,
				Failed:          failed,
				Elapsed:         time.Since(runStart),
			})
		}

		if o.failureTolerance > 0 && nonRecoverable > o.failureTolerance {
			reason, _ := evaluation.NewFailureReason(evaluation.CategoryUnknown,
				fmt.Sprintf("non-recoverable question failures exceeded tolerance of %d", o.failureTolerance),
				fmt.Sprintf("%d non-recoverable failures after %d questions", nonRecoverable, i+1), false)
			o.failEvaluation(ctx, eval, reason)
			return fmt.Errorf("evaluation %s aborted: %s", eval.ID, reason.Description)
		}
	}

	aggregated := evaluation.Aggregate(results)
	if err := eval.Complete(aggregated); err != nil {
		return err
	}
	if err := o.evaluations.Update(ctx, eval); err != nil {
		return fmt.Errorf("failed to persist completed evaluation: %w", err)
	}

	slog.Info("evaluation complete",
		"evaluation_id", eval.ID,
		"total", aggregated.TotalQuestions,
		"correct", aggregated.CorrectAnswers,
		"accuracy", aggregated.Accuracy,
		"errors", aggregated.ErrorCount,
		"duration", time.Since(runStart),
	)
	return nil
}

// processQuestion runs one question through the strategy and the gateway
// and always produces a result record. The returned error is non-nil only
// for internal failures that must abort the run.
func (o *Orchestrator) processQuestion(
	ctx context.Context,
	eval *evaluation.Evaluation,
	strategy agent.Strategy,
	q benchmark.Question,
) (evaluation.QuestionResult, evaluation.FailureReason, error) {
	start := time.Now()

	answer, procErr := o.askQuestion(ctx, eval.AgentConfig, strategy, q)
	elapsed := time.Since(start)

	if procErr != nil {
		reason := evaluation.MapError(procErr)
		result, err := evaluation.NewFailedResult(eval.ID, q, reason, elapsed)
		return result, reason, err
	}

	correct := evaluation.AnswerMatches(answer.Text, q.ExpectedAnswer)
	result, err := evaluation.NewSuccessfulResult(eval.ID, q, answer.Text, correct, answer.ReasoningTrace, elapsed)
	return result, evaluation.FailureReason{}, err
}

// askQuestion is the strategy's two-phase contract around the single
// suspension point: build the prompt, await the gateway, parse the response.
func (o *Orchestrator) askQuestion(
	ctx context.Context,
	cfg agent.Config,
	strategy agent.Strategy,
	q benchmark.Question,
) (agent.Answer, error) {
	messages, err := strategy.BuildPrompt(q, cfg)
	if err != nil {
		return agent.Answer{}, err
	}

	req := llm.Request{
		Model:    cfg.ModelName,
		Messages: messages,
	}
	if temp, ok := cfg.Temperature(); ok {
		req.Temperature = llm.Float64Ptr(temp)
	}
	if maxTokens, ok := cfg.MaxTokens(); ok {
		req.MaxTokens = maxTokens
	}

	resp, err := o.gateway.Answer(ctx, req)
	if err != nil {
		return agent.Answer{}, err
	}

	return strategy.ParseResponse(resp, q)
}

// failEvaluation records a fatal failure, best effort: a persistence error
// here must not mask the original failure.
func (o *Orchestrator) failEvaluation(ctx context.Context, eval *evaluation.Evaluation, reason evaluation.FailureReason) {
	if err := eval.Fail(reason); err != nil {
		slog.Error("failed to transition evaluation to failed", "evaluation_id", eval.ID, "error", err)
		return
	}
	// The run may be failing because ctx was cancelled; still persist.
	if err := o.evaluations.Update(context.WithoutCancel(ctx), eval); err != nil {
		slog.Error("failed to persist failed evaluation", "evaluation_id", eval.ID, "error", err)
	}
}

// Status returns the lifecycle state of an evaluation.
func (o *Orchestrator) Status(ctx context.Context, evaluationID string) (evaluation.Status, error) {
	eval, err := o.evaluations.GetByID(ctx, evaluationID)
	if err != nil {
		return "", fmt.Errorf("failed to load evaluation %s: %w", evaluationID, err)
	}
	return eval.Status, nil
}

// Results returns the aggregate results of a completed evaluation.
func (o *Orchestrator) Results(ctx context.Context, evaluationID string) (*evaluation.Results, error) {
	eval, err := o.evaluations.GetByID(ctx, evaluationID)
	if err != nil {
		return nil, fmt.Errorf("failed to load evaluation %s: %w", evaluationID, err)
	}
	if eval.Status != evaluation.StatusCompleted {
		return nil, fmt.Errorf("%w: evaluation %s is %s", ErrNotCompleted, evaluationID, eval.Status)
	}
	return eval.Results, nil
}

// ListEvaluations returns a reporting projection of all evaluations in
// creation order.
func (o *Orchestrator) ListEvaluations(ctx context.Context) ([]EvaluationInfo, error) {
	evals, err := o.evaluations.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list evaluations: %w", err)
	}

	infos := make([]EvaluationInfo, 0, len(evals))
	for _, eval := range evals {
		info := EvaluationInfo{
			EvaluationID: eval.ID,
			BenchmarkID:  eval.BenchmarkID,
			AgentType:    eval.AgentConfig.AgentType,
			ModelName:    eval.AgentConfig.ModelName,
			Status:       eval.Status,
			CreatedAt:    eval.CreatedAt,
			CompletedAt:  eval.CompletedAt,
		}
		if b, err := o.benchmarks.GetByID(ctx, eval.BenchmarkID); err == nil {
			info.BenchmarkName = b.Name
		}
		if eval.Results != nil {
			accuracy := eval.Results.Accuracy
			info.Accuracy = &accuracy
		}
		infos = append(infos, info)
	}
	return infos, nil
}
