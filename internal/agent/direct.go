package agent

import (
	"strings"

	"github.com/giantswarm/agent-eval/internal/benchmark"
	"github.com/giantswarm/agent-eval/internal/llm"
)

const directSystemPrompt = `You are answering benchmark questions.
Answer the question directly and concisely. Respond with only the final answer,
without explanation or commentary.`

// DirectStrategy prompts the model for an answer with no intermediate
// reasoning. Its agent type is "none".
type DirectStrategy struct{}

// NewDirectStrategy creates a direct-prompting strategy.
func NewDirectStrategy() *DirectStrategy {
	return &DirectStrategy{}
}

func (s *DirectStrategy) AgentType() string {
	return TypeNone
}

// ValidateConfig accepts any config; direct prompting has no
// strategy-specific parameters.
func (s *DirectStrategy) ValidateConfig(_ Config) bool {
	return true
}

func (s *DirectStrategy) BuildPrompt(q benchmark.Question, _ Config) ([]llm.Message, error) {
	return []llm.Message{
		{Role: llm.RoleSystem, Content: directSystemPrompt},
		{Role: llm.RoleUser, Content: q.Text},
	}, nil
}

func (s *DirectStrategy) ParseResponse(resp *llm.ParsedResponse, _ benchmark.Question) (Answer, error) {
	text := strings.TrimSpace(resp.Content)
	if text == "" {
		return Answer{}, &llm.DecodeError{Message: "empty model response"}
	}
	return Answer{Text: text}, nil
}
