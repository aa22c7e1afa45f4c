package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giantswarm/agent-eval/internal/agent"
	"github.com/giantswarm/agent-eval/internal/benchmark"
	"github.com/giantswarm/agent-eval/internal/evaluation"
)

func newEval(t *testing.T) *evaluation.Evaluation {
	t.Helper()
	return evaluation.New(agent.Config{AgentType: "none", ModelName: "gpt-4o"}, "gpqa-sample")
}

func newResult(t *testing.T, evaluationID string) evaluation.QuestionResult {
	t.Helper()
	q, err := benchmark.NewQuestion("q1", "What is 2+2?", "4", nil)
	require.NoError(t, err)
	r, err := evaluation.NewSuccessfulResult(evaluationID, q, "4", true, "", 10*time.Millisecond)
	require.NoError(t, err)
	return r
}

func TestMemoryEvaluationRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryEvaluationRepository()
	eval := newEval(t)

	require.NoError(t, repo.Save(ctx, eval))

	loaded, err := repo.GetByID(ctx, eval.ID)
	require.NoError(t, err)
	assert.Equal(t, eval.ID, loaded.ID)
	assert.Equal(t, evaluation.StatusPending, loaded.Status)
	assert.Equal(t, "gpqa-sample", loaded.BenchmarkID)
}

func TestMemoryEvaluationRepositoryDuplicateSave(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryEvaluationRepository()
	eval := newEval(t)

	require.NoError(t, repo.Save(ctx, eval))
	assert.ErrorIs(t, repo.Save(ctx, eval), ErrDuplicateEntity)
}

func TestMemoryEvaluationRepositoryGetMissing(t *testing.T) {
	repo := NewMemoryEvaluationRepository()
	_, err := repo.GetByID(context.Background(), "nonexistent")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryEvaluationRepositoryUpdate(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryEvaluationRepository()
	eval := newEval(t)

	require.NoError(t, repo.Save(ctx, eval))
	require.NoError(t, eval.Start())
	require.NoError(t, repo.Update(ctx, eval))

	loaded, err := repo.GetByID(ctx, eval.ID)
	require.NoError(t, err)
	assert.Equal(t, evaluation.StatusRunning, loaded.Status)
}

func TestMemoryEvaluationRepositoryUpdateMissing(t *testing.T) {
	repo := NewMemoryEvaluationRepository()
	err := repo.Update(context.Background(), newEval(t))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryEvaluationRepositoryStoresCopy(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryEvaluationRepository()
	eval := newEval(t)

	require.NoError(t, repo.Save(ctx, eval))

	// Mutating the caller's evaluation must not change the stored state.
	require.NoError(t, eval.Start())

	loaded, err := repo.GetByID(ctx, eval.ID)
	require.NoError(t, err)
	assert.Equal(t, evaluation.StatusPending, loaded.Status)
}

func TestMemoryEvaluationRepositoryListAllPreservesOrder(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryEvaluationRepository()

	first := newEval(t)
	second := newEval(t)
	third := newEval(t)
	for _, e := range []*evaluation.Evaluation{first, second, third} {
		require.NoError(t, repo.Save(ctx, e))
	}

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, first.ID, all[0].ID)
	assert.Equal(t, second.ID, all[1].ID)
	assert.Equal(t, third.ID, all[2].ID)
}

func TestMemoryEvaluationRepositoryListByStatus(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryEvaluationRepository()

	pending := newEval(t)
	running := newEval(t)
	require.NoError(t, repo.Save(ctx, pending))
	require.NoError(t, repo.Save(ctx, running))
	require.NoError(t, running.Start())
	require.NoError(t, repo.Update(ctx, running))

	got, err := repo.ListByStatus(ctx, evaluation.StatusRunning)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, running.ID, got[0].ID)
}

func TestMemoryQuestionResultRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryQuestionResultRepository()

	r0 := newResult(t, "eval-1")
	r1 := newResult(t, "eval-1")
	other := newResult(t, "eval-2")

	// Out-of-order saves still list in sequence order.
	require.NoError(t, repo.Save(ctx, 1, r1))
	require.NoError(t, repo.Save(ctx, 0, r0))
	require.NoError(t, repo.Save(ctx, 0, other))

	got, err := repo.ListByEvaluation(ctx, "eval-1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, r0.ID, got[0].ID)
	assert.Equal(t, r1.ID, got[1].ID)
}

func TestMemoryQuestionResultRepositoryDuplicateSeq(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryQuestionResultRepository()
	r := newResult(t, "eval-1")

	require.NoError(t, repo.Save(ctx, 0, r))
	assert.ErrorIs(t, repo.Save(ctx, 0, r), ErrDuplicateEntity)
}

func TestMemoryQuestionResultRepositoryEmptyList(t *testing.T) {
	repo := NewMemoryQuestionResultRepository()
	got, err := repo.ListByEvaluation(context.Background(), "unknown")
	require.NoError(t, err)
	assert.Empty(t, got)
}
