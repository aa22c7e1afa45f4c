// Package storage defines the repository contracts for evaluations,
// benchmarks, and per-question results, with in-memory and BadgerDB-backed
// implementations. Repositories are the system of record; the orchestrator
// treats them as request/response collaborators.
package storage

import (
	"context"
	"errors"

	"github.com/giantswarm/agent-eval/internal/benchmark"
	"github.com/giantswarm/agent-eval/internal/evaluation"
)

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicateEntity is returned when saving an entity whose id
	// already exists.
	ErrDuplicateEntity = errors.New("duplicate entity")
)

// BenchmarkRepository provides read access to ingested benchmarks.
type BenchmarkRepository interface {
	GetByName(ctx context.Context, name string) (*benchmark.Benchmark, error)
	GetByID(ctx context.Context, id string) (*benchmark.Benchmark, error)
	ListAll(ctx context.Context) ([]*benchmark.Benchmark, error)
}

// EvaluationRepository persists evaluation aggregates.
type EvaluationRepository interface {
	Save(ctx context.Context, eval *evaluation.Evaluation) error
	Update(ctx context.Context, eval *evaluation.Evaluation) error
	GetByID(ctx context.Context, id string) (*evaluation.Evaluation, error)
	ListAll(ctx context.Context) ([]*evaluation.Evaluation, error)
	ListByStatus(ctx context.Context, status evaluation.Status) ([]*evaluation.Evaluation, error)
}

// QuestionResultRepository persists one result per processed question,
// keyed by evaluation id and benchmark-order sequence.
type QuestionResultRepository interface {
	Save(ctx context.Context, seq int, result evaluation.QuestionResult) error
	ListByEvaluation(ctx context.Context, evaluationID string) ([]evaluation.QuestionResult, error)
}
