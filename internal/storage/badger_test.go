package storage

import (
	"context"
	"testing"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giantswarm/agent-eval/internal/evaluation"
)

func openTestDB(t *testing.T) *badger.DB {
	t.Helper()
	db, err := OpenBadger(BadgerConfig{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestOpenBadgerRequiresPath(t *testing.T) {
	_, err := OpenBadger(BadgerConfig{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "path is required")
}

func TestOpenBadgerOnDisk(t *testing.T) {
	db, err := OpenBadger(BadgerConfig{Path: t.TempDir()})
	require.NoError(t, err)
	require.NoError(t, db.Close())
}

func TestBadgerEvaluationRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewBadgerEvaluationRepository(openTestDB(t))
	eval := newEval(t)

	require.NoError(t, repo.Save(ctx, eval))

	loaded, err := repo.GetByID(ctx, eval.ID)
	require.NoError(t, err)
	assert.Equal(t, eval.ID, loaded.ID)
	assert.Equal(t, eval.BenchmarkID, loaded.BenchmarkID)
	assert.Equal(t, evaluation.StatusPending, loaded.Status)
	assert.Equal(t, eval.AgentConfig.AgentType, loaded.AgentConfig.AgentType)
}

func TestBadgerEvaluationRepositoryDuplicateSave(t *testing.T) {
	ctx := context.Background()
	repo := NewBadgerEvaluationRepository(openTestDB(t))
	eval := newEval(t)

	require.NoError(t, repo.Save(ctx, eval))
	assert.ErrorIs(t, repo.Save(ctx, eval), ErrDuplicateEntity)
}

func TestBadgerEvaluationRepositoryGetMissing(t *testing.T) {
	repo := NewBadgerEvaluationRepository(openTestDB(t))
	_, err := repo.GetByID(context.Background(), "nonexistent")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBadgerEvaluationRepositoryUpdate(t *testing.T) {
	ctx := context.Background()
	repo := NewBadgerEvaluationRepository(openTestDB(t))
	eval := newEval(t)

	require.NoError(t, repo.Save(ctx, eval))
	require.NoError(t, eval.Start())
	require.NoError(t, eval.Complete(evaluation.Results{TotalQuestions: 3, CorrectAnswers: 2, Accuracy: 66.7}))
	require.NoError(t, repo.Update(ctx, eval))

	loaded, err := repo.GetByID(ctx, eval.ID)
	require.NoError(t, err)
	assert.Equal(t, evaluation.StatusCompleted, loaded.Status)
	require.NotNil(t, loaded.Results)
	assert.Equal(t, 66.7, loaded.Results.Accuracy)
}

func TestBadgerEvaluationRepositoryUpdateMissing(t *testing.T) {
	repo := NewBadgerEvaluationRepository(openTestDB(t))
	err := repo.Update(context.Background(), newEval(t))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBadgerEvaluationRepositoryListByStatus(t *testing.T) {
	ctx := context.Background()
	repo := NewBadgerEvaluationRepository(openTestDB(t))

	pending := newEval(t)
	running := newEval(t)
	require.NoError(t, repo.Save(ctx, pending))
	require.NoError(t, repo.Save(ctx, running))
	require.NoError(t, running.Start())
	require.NoError(t, repo.Update(ctx, running))

	got, err := repo.ListByStatus(ctx, evaluation.StatusPending)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, pending.ID, got[0].ID)
}

func TestBadgerQuestionResultRepositoryOrder(t *testing.T) {
	ctx := context.Background()
	repo := NewBadgerQuestionResultRepository(openTestDB(t))

	r0 := newResult(t, "eval-1")
	r1 := newResult(t, "eval-1")
	r2 := newResult(t, "eval-1")
	other := newResult(t, "eval-2")

	require.NoError(t, repo.Save(ctx, 2, r2))
	require.NoError(t, repo.Save(ctx, 0, r0))
	require.NoError(t, repo.Save(ctx, 1, r1))
	require.NoError(t, repo.Save(ctx, 0, other))

	got, err := repo.ListByEvaluation(ctx, "eval-1")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, r0.ID, got[0].ID)
	assert.Equal(t, r1.ID, got[1].ID)
	assert.Equal(t, r2.ID, got[2].ID)
}

func TestBadgerQuestionResultRepositoryDuplicateSeq(t *testing.T) {
	ctx := context.Background()
	repo := NewBadgerQuestionResultRepository(openTestDB(t))
	r := newResult(t, "eval-1")

	require.NoError(t, repo.Save(ctx, 0, r))
	assert.ErrorIs(t, repo.Save(ctx, 0, r), ErrDuplicateEntity)
}

func TestBadgerQuestionResultRepositoryPreservesShape(t *testing.T) {
	ctx := context.Background()
	repo := NewBadgerQuestionResultRepository(openTestDB(t))

	r := newResult(t, "eval-1")
	require.NoError(t, repo.Save(ctx, 0, r))

	got, err := repo.ListByEvaluation(ctx, "eval-1")
	require.NoError(t, err)
	require.Len(t, got, 1)

	require.NotNil(t, got[0].ActualAnswer)
	assert.Equal(t, *r.ActualAnswer, *got[0].ActualAnswer)
	require.NotNil(t, got[0].IsCorrect)
	assert.True(t, *got[0].IsCorrect)
	assert.Equal(t, r.ExecutionTime, got[0].ExecutionTime)
}
