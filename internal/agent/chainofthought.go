package agent

import (
	"regexp"
	"strings"

	"github.com/giantswarm/agent-eval/internal/benchmark"
	"github.com/giantswarm/agent-eval/internal/llm"
)

const chainOfThoughtSystemPrompt = `You are answering benchmark questions.
Think through the problem step by step before answering. After your reasoning,
give your answer on its own line in exactly this format:

Final Answer: <answer>`

var finalAnswerPattern = regexp.MustCompile(`(?im)^\s*final answer:\s*(.+?)\s*$`)

// ChainOfThoughtStrategy asks the model for a single-pass reasoning trace
// followed by a marked final answer, and extracts both.
type ChainOfThoughtStrategy struct{}

// NewChainOfThoughtStrategy creates a chain-of-thought strategy.
func NewChainOfThoughtStrategy() *ChainOfThoughtStrategy {
	return &ChainOfThoughtStrategy{}
}

func (s *ChainOfThoughtStrategy) AgentType() string {
	return TypeChainOfThought
}

// ValidateConfig accepts any config; the reasoning prompt has no required
// parameters.
func (s *ChainOfThoughtStrategy) ValidateConfig(_ Config) bool {
	return true
}

func (s *ChainOfThoughtStrategy) BuildPrompt(q benchmark.Question, _ Config) ([]llm.Message, error) {
	return []llm.Message{
		{Role: llm.RoleSystem, Content: chainOfThoughtSystemPrompt},
		{Role: llm.RoleUser, Content: q.Text},
	}, nil
}

// ParseResponse extracts the marked final answer. The text before the last
// marker becomes the reasoning trace. A response without the marker is a
// parsing failure, not a wrong answer.
func (s *ChainOfThoughtStrategy) ParseResponse(resp *llm.ParsedResponse, _ benchmark.Question) (Answer, error) {
	content := strings.TrimSpace(resp.Content)
	if content == "" {
		return Answer{}, &llm.DecodeError{Message: "empty model response"}
	}

	matches := finalAnswerPattern.FindAllStringSubmatchIndex(content, -1)
	if len(matches) == 0 {
		return Answer{}, &llm.DecodeError{Message: "no final answer marker in response"}
	}

	// Use the last marker; models sometimes restate the format mid-reasoning.
	last := matches[len(matches)-1]
	answer := strings.TrimSpace(content[last[2]:last[3]])
	trace := strings.TrimSpace(content[:last[0]])

	if answer == "" {
		return Answer{}, &llm.DecodeError{Message: "final answer marker present but empty"}
	}

	return Answer{Text: answer, ReasoningTrace: trace}, nil
}
