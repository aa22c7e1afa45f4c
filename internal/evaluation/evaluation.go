package evaluation

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/giantswarm/agent-eval/internal/agent"
)

// Status is an evaluation lifecycle state.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Terminal reports whether no further transitions are defined out of s.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// InvalidTransitionError is returned when a state transition is attempted
// that the lifecycle does not define. This indicates a programming error in
// the caller, not a domain failure.
type InvalidTransitionError struct {
	From Status
	To   Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid evaluation transition: %s -> %s", e.From, e.To)
}

// Evaluation is the aggregate root for one run of an agent configuration
// against a benchmark. Its state machine is pending -> running ->
// completed | failed; no transition skips running and none leaves a
// terminal state. Only the orchestrator mutates an Evaluation, through the
// transition methods below.
type Evaluation struct {
	ID            string         `json:"evaluation_id"`
	AgentConfig   agent.Config   `json:"agent_config"`
	BenchmarkID   string         `json:"benchmark_id"`
	Status        Status         `json:"status"`
	CreatedAt     time.Time      `json:"created_at"`
	StartedAt     *time.Time     `json:"started_at,omitempty"`
	CompletedAt   *time.Time     `json:"completed_at,omitempty"`
	Results       *Results       `json:"results,omitempty"`
	FailureReason *FailureReason `json:"failure_reason,omitempty"`
}

// New creates a pending evaluation bound to an agent config and a benchmark.
func New(cfg agent.Config, benchmarkID string) *Evaluation {
	return &Evaluation{
		ID:          uuid.NewString(),
		AgentConfig: cfg,
		BenchmarkID: benchmarkID,
		Status:      StatusPending,
		CreatedAt:   time.Now().UTC(),
	}
}

// Start transitions pending -> running and records the start time.
func (e *Evaluation) Start() error {
	if e.Status != StatusPending {
		return &InvalidTransitionError{From: e.Status, To: StatusRunning}
	}
	now := time.Now().UTC()
	e.Status = StatusRunning
	e.StartedAt = &now
	return nil
}

// Complete transitions running -> completed and records the results.
func (e *Evaluation) Complete(results Results) error {
	if e.Status != StatusRunning {
		return &InvalidTransitionError{From: e.Status, To: StatusCompleted}
	}
	now := time.Now().UTC()
	e.Status = StatusCompleted
	e.CompletedAt = &now
	e.Results = &results
	return nil
}

// Fail transitions running -> failed and records the failure reason.
func (e *Evaluation) Fail(reason FailureReason) error {
	if e.Status != StatusRunning {
		return &InvalidTransitionError{From: e.Status, To: StatusFailed}
	}
	now := time.Now().UTC()
	e.Status = StatusFailed
	e.CompletedAt = &now
	e.FailureReason = &reason
	return nil
}
