package agent

import (
	"github.com/giantswarm/agent-eval/internal/benchmark"
	"github.com/giantswarm/agent-eval/internal/llm"
)

// Agent types built into the default registry.
const (
	TypeNone           = "none"
	TypeChainOfThought = "chain_of_thought"
)

// Answer is a strategy's interpretation of a model response.
type Answer struct {
	// Text is the extracted final answer.
	Text string
	// ReasoningTrace is the intermediate reasoning, when the strategy
	// produces one (empty for direct prompting).
	ReasoningTrace string
}

// Strategy defines how a question is turned into an answer via the LLM
// gateway. Prompt construction and response interpretation are separate
// phases, so parsing failures can be attributed distinctly from transport
// failures.
type Strategy interface {
	// AgentType returns the stable identifier used as the registry key.
	AgentType() string

	// ValidateConfig reports whether this strategy accepts the config
	// (e.g. a tree-search strategy may require depth parameters).
	ValidateConfig(cfg Config) bool

	// BuildPrompt prepares the gateway messages for a question.
	BuildPrompt(q benchmark.Question, cfg Config) ([]llm.Message, error)

	// ParseResponse extracts an Answer from a gateway response.
	// Extraction failures are returned as *llm.DecodeError.
	ParseResponse(resp *llm.ParsedResponse, q benchmark.Question) (Answer, error)
}
