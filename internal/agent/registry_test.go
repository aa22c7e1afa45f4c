package agent

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giantswarm/agent-eval/internal/benchmark"
	"github.com/giantswarm/agent-eval/internal/llm"
)

// treeStrategy is a registry extension used to verify runtime registration.
// It requires tree_depth and branches_per_step agent parameters.
type treeStrategy struct{}

func (s *treeStrategy) AgentType() string { return "tree_of_thought" }

func (s *treeStrategy) ValidateConfig(cfg Config) bool {
	for _, key := range []string{"tree_depth", "branches_per_step"} {
		if _, ok := cfg.AgentParameters[key]; !ok {
			return false
		}
	}
	return true
}

func (s *treeStrategy) BuildPrompt(q benchmark.Question, _ Config) ([]llm.Message, error) {
	return []llm.Message{{Role: llm.RoleUser, Content: q.Text}}, nil
}

func (s *treeStrategy) ParseResponse(resp *llm.ParsedResponse, _ benchmark.Question) (Answer, error) {
	return Answer{Text: resp.Content}, nil
}

func TestNewRegistryHasBuiltins(t *testing.T) {
	r := NewRegistry()
	assert.Equal(t, []string{TypeChainOfThought, TypeNone}, r.SupportedTypes())
}

func TestRegistryCreateService(t *testing.T) {
	r := NewRegistry()

	s, err := r.CreateService(TypeChainOfThought)
	require.NoError(t, err)
	assert.Equal(t, TypeChainOfThought, s.AgentType())

	s, err = r.CreateService(TypeNone)
	require.NoError(t, err)
	assert.Equal(t, TypeNone, s.AgentType())
}

func TestRegistryCreateServiceUnknownType(t *testing.T) {
	r := NewRegistry()

	_, err := r.CreateService("tree_of_thought")
	require.Error(t, err)

	var unknownErr *UnknownAgentTypeError
	require.ErrorAs(t, err, &unknownErr)
	assert.Equal(t, "tree_of_thought", unknownErr.AgentType)
	assert.Equal(t, []string{TypeChainOfThought, TypeNone}, unknownErr.Supported)
	assert.Contains(t, err.Error(), `unknown agent type "tree_of_thought"`)
	assert.Contains(t, err.Error(), "supported: chain_of_thought, none")
}

func TestRegistryRegisterRuntimeStrategy(t *testing.T) {
	r := NewRegistry()

	err := r.Register("tree_of_thought", func() Strategy { return &treeStrategy{} })
	require.NoError(t, err)

	assert.Equal(t, []string{TypeChainOfThought, TypeNone, "tree_of_thought"}, r.SupportedTypes())

	s, err := r.CreateService("tree_of_thought")
	require.NoError(t, err)

	assert.False(t, s.ValidateConfig(Config{AgentType: "tree_of_thought"}))
	assert.True(t, s.ValidateConfig(Config{
		AgentType: "tree_of_thought",
		AgentParameters: map[string]any{
			"tree_depth":        3,
			"branches_per_step": 2,
		},
	}))
}

func TestRegistryRegisterRejectsNilFactory(t *testing.T) {
	r := NewRegistry()
	err := r.Register("custom", nil)
	assert.ErrorIs(t, err, ErrNilFactory)
}

func TestRegistryRegisterRejectsDuplicate(t *testing.T) {
	r := NewRegistry()
	err := r.Register(TypeNone, func() Strategy { return NewDirectStrategy() })
	assert.ErrorIs(t, err, ErrAlreadyRegistered)
}

// statefulStrategy carries per-instance state so tests can detect instances
// shared across Instantiate or CreateService calls.
type statefulStrategy struct {
	prompts int
}

func (s *statefulStrategy) AgentType() string { return "stateful" }

func (s *statefulStrategy) ValidateConfig(_ Config) bool { return true }

func (s *statefulStrategy) BuildPrompt(q benchmark.Question, _ Config) ([]llm.Message, error) {
	s.prompts++
	return []llm.Message{{Role: llm.RoleUser, Content: q.Text}}, nil
}

func (s *statefulStrategy) ParseResponse(resp *llm.ParsedResponse, _ benchmark.Question) (Answer, error) {
	return Answer{Text: resp.Content}, nil
}

func TestRegistryInstantiateReturnsFreshInstances(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("stateful", func() Strategy { return &statefulStrategy{} }))

	first := r.Instantiate()
	second := r.Instantiate()
	require.Contains(t, first, "stateful")
	require.Contains(t, second, "stateful")

	q, err := benchmark.NewQuestion("q1", "Q?", "A", nil)
	require.NoError(t, err)

	// Mutating one run's instance must not leak into the other's.
	_, err = first["stateful"].BuildPrompt(q, Config{})
	require.NoError(t, err)

	assert.Equal(t, 1, first["stateful"].(*statefulStrategy).prompts)
	assert.Equal(t, 0, second["stateful"].(*statefulStrategy).prompts)
}

func TestRegistryCreateServiceReturnsFreshInstances(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("stateful", func() Strategy { return &statefulStrategy{} }))

	q, err := benchmark.NewQuestion("q1", "Q?", "A", nil)
	require.NoError(t, err)

	first, err := r.CreateService("stateful")
	require.NoError(t, err)
	_, err = first.BuildPrompt(q, Config{})
	require.NoError(t, err)

	second, err := r.CreateService("stateful")
	require.NoError(t, err)
	assert.Equal(t, 0, second.(*statefulStrategy).prompts)
}

func TestRegistryInstantiateIndependentOfLaterRegistrations(t *testing.T) {
	r := NewRegistry()

	before := r.Instantiate()
	require.NoError(t, r.Register("tree_of_thought", func() Strategy { return &treeStrategy{} }))
	after := r.Instantiate()

	assert.NotContains(t, before, "tree_of_thought")
	assert.Contains(t, after, "tree_of_thought")
}

func TestRegistryConcurrentAccess(t *testing.T) {
	r := NewRegistry()

	done := make(chan struct{})
	for i := 0; i < 10; i++ {
		go func(i int) {
			defer func() { done <- struct{}{} }()
			_ = r.Register(fmt.Sprintf("custom-%d", i), func() Strategy { return &treeStrategy{} })
			_ = r.Instantiate()
			_, err := r.CreateService(TypeNone)
			if err != nil && !errors.Is(err, ErrAlreadyRegistered) {
				t.Error(err)
			}
		}(i)
	}
	for i := 0; i < 10; i++ {
		<-done
	}

	assert.Len(t, r.SupportedTypes(), 12)
}
