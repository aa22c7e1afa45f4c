package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/giantswarm/agent-eval/internal/evaluation"
)

// MemoryEvaluationRepository is an in-memory EvaluationRepository for tests
// and ephemeral runs. Safe for concurrent use.
type MemoryEvaluationRepository struct {
	mu          sync.RWMutex
	evaluations map[string]evaluation.Evaluation
	order       []string
}

// NewMemoryEvaluationRepository creates an empty in-memory repository.
func NewMemoryEvaluationRepository() *MemoryEvaluationRepository {
	return &MemoryEvaluationRepository{
		evaluations: make(map[string]evaluation.Evaluation),
	}
}

func (r *MemoryEvaluationRepository) Save(_ context.Context, eval *evaluation.Evaluation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.evaluations[eval.ID]; exists {
		return fmt.Errorf("%w: evaluation %s", ErrDuplicateEntity, eval.ID)
	}
	r.evaluations[eval.ID] = *eval
	r.order = append(r.order, eval.ID)
	return nil
}

func (r *MemoryEvaluationRepository) Update(_ context.Context, eval *evaluation.Evaluation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.evaluations[eval.ID]; !exists {
		return fmt.Errorf("%w: evaluation %s", ErrNotFound, eval.ID)
	}
	r.evaluations[eval.ID] = *eval
	return nil
}

func (r *MemoryEvaluationRepository) GetByID(_ context.Context, id string) (*evaluation.Evaluation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	eval, ok := r.evaluations[id]
	if !ok {
		return nil, fmt.Errorf("%w: evaluation %s", ErrNotFound, id)
	}
	found := eval
	return &found, nil
}

func (r *MemoryEvaluationRepository) ListAll(_ context.Context) ([]*evaluation.Evaluation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*evaluation.Evaluation, 0, len(r.order))
	for _, id := range r.order {
		eval := r.evaluations[id]
		out = append(out, &eval)
	}
	return out, nil
}

func (r *MemoryEvaluationRepository) ListByStatus(ctx context.Context, status evaluation.Status) ([]*evaluation.Evaluation, error) {
	all, err := r.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	var out []*evaluation.Evaluation
	for _, eval := range all {
		if eval.Status == status {
			out = append(out, eval)
		}
	}
	return out, nil
}

// MemoryQuestionResultRepository is an in-memory QuestionResultRepository.
// Safe for concurrent use.
type MemoryQuestionResultRepository struct {
	mu      sync.RWMutex
	results map[string]map[int]evaluation.QuestionResult
}

// NewMemoryQuestionResultRepository creates an empty in-memory repository.
func NewMemoryQuestionResultRepository() *MemoryQuestionResultRepository {
	return &MemoryQuestionResultRepository{
		results: make(map[string]map[int]evaluation.QuestionResult),
	}
}

func (r *MemoryQuestionResultRepository) Save(_ context.Context, seq int, result evaluation.QuestionResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	byEval, ok := r.results[result.EvaluationID]
	if !ok {
		byEval = make(map[int]evaluation.QuestionResult)
		r.results[result.EvaluationID] = byEval
	}
	if _, exists := byEval[seq]; exists {
		return fmt.Errorf("%w: result %d for evaluation %s", ErrDuplicateEntity, seq, result.EvaluationID)
	}
	byEval[seq] = result
	return nil
}

func (r *MemoryQuestionResultRepository) ListByEvaluation(_ context.Context, evaluationID string) ([]evaluation.QuestionResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	byEval := r.results[evaluationID]
	seqs := make([]int, 0, len(byEval))
	for seq := range byEval {
		seqs = append(seqs, seq)
	}
	sort.Ints(seqs)

	out := make([]evaluation.QuestionResult, 0, len(seqs))
	for _, seq := range seqs {
		out = append(out, byEval[seq])
	}
	return out, nil
}
