package evaluation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giantswarm/agent-eval/internal/agent"
)

func newTestEvaluation(t *testing.T) *Evaluation {
	t.Helper()
	cfg := agent.Config{AgentType: "none", ModelName: "gpt-4o"}
	eval := New(cfg, "gpqa-sample")
	require.NotEmpty(t, eval.ID)
	return eval
}

func TestNewEvaluationIsPending(t *testing.T) {
	eval := newTestEvaluation(t)

	assert.Equal(t, StatusPending, eval.Status)
	assert.False(t, eval.CreatedAt.IsZero())
	assert.Nil(t, eval.StartedAt)
	assert.Nil(t, eval.CompletedAt)
	assert.Nil(t, eval.Results)
	assert.Nil(t, eval.FailureReason)
}

func TestEvaluationLifecycleCompleted(t *testing.T) {
	eval := newTestEvaluation(t)

	require.NoError(t, eval.Start())
	assert.Equal(t, StatusRunning, eval.Status)
	require.NotNil(t, eval.StartedAt)

	require.NoError(t, eval.Complete(Results{TotalQuestions: 5, CorrectAnswers: 4, Accuracy: 80}))
	assert.Equal(t, StatusCompleted, eval.Status)
	require.NotNil(t, eval.CompletedAt)
	require.NotNil(t, eval.Results)
	assert.Equal(t, 80.0, eval.Results.Accuracy)
}

func TestEvaluationLifecycleFailed(t *testing.T) {
	eval := newTestEvaluation(t)
	reason, err := NewFailureReason(CategoryAuthenticationError, "auth failed", "", false)
	require.NoError(t, err)

	require.NoError(t, eval.Start())
	require.NoError(t, eval.Fail(reason))

	assert.Equal(t, StatusFailed, eval.Status)
	require.NotNil(t, eval.FailureReason)
	assert.Equal(t, CategoryAuthenticationError, eval.FailureReason.Category)
	assert.Nil(t, eval.Results)
}

func TestEvaluationInvalidTransitions(t *testing.T) {
	reason, err := NewFailureReason(CategoryUnknown, "boom", "", false)
	require.NoError(t, err)

	t.Run("complete from pending", func(t *testing.T) {
		eval := newTestEvaluation(t)
		err := eval.Complete(Results{})

		var transitionErr *InvalidTransitionError
		require.ErrorAs(t, err, &transitionErr)
		assert.Equal(t, StatusPending, transitionErr.From)
		assert.Equal(t, StatusCompleted, transitionErr.To)
		assert.Equal(t, StatusPending, eval.Status)
	})

	t.Run("fail from pending", func(t *testing.T) {
		eval := newTestEvaluation(t)
		var transitionErr *InvalidTransitionError
		assert.ErrorAs(t, eval.Fail(reason), &transitionErr)
	})

	t.Run("start twice", func(t *testing.T) {
		eval := newTestEvaluation(t)
		require.NoError(t, eval.Start())
		var transitionErr *InvalidTransitionError
		assert.ErrorAs(t, eval.Start(), &transitionErr)
	})

	t.Run("no transition out of completed", func(t *testing.T) {
		eval := newTestEvaluation(t)
		require.NoError(t, eval.Start())
		require.NoError(t, eval.Complete(Results{}))

		var transitionErr *InvalidTransitionError
		assert.ErrorAs(t, eval.Fail(reason), &transitionErr)
		assert.ErrorAs(t, eval.Start(), &transitionErr)
		assert.Equal(t, StatusCompleted, eval.Status)
	})

	t.Run("no transition out of failed", func(t *testing.T) {
		eval := newTestEvaluation(t)
		require.NoError(t, eval.Start())
		require.NoError(t, eval.Fail(reason))

		var transitionErr *InvalidTransitionError
		assert.ErrorAs(t, eval.Complete(Results{}), &transitionErr)
		assert.Equal(t, StatusFailed, eval.Status)
	})
}

func TestStatusTerminal(t *testing.T) {
	assert.False(t, StatusPending.Terminal())
	assert.False(t, StatusRunning.Terminal())
	assert.True(t, StatusCompleted.Terminal())
	assert.True(t, StatusFailed.Terminal())
}
