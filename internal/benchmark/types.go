package benchmark

import (
	"fmt"
	"strings"
	"time"
)

// Question is a single benchmark question with its expected answer.
// Questions are created once during benchmark ingestion and never mutated.
type Question struct {
	ID             string
	Text           string
	ExpectedAnswer string
	Metadata       map[string]string
}

// NewQuestion validates and constructs a Question.
func NewQuestion(id, text, expectedAnswer string, metadata map[string]string) (Question, error) {
	if strings.TrimSpace(id) == "" {
		return Question{}, fmt.Errorf("question id must not be empty")
	}
	if strings.TrimSpace(text) == "" {
		return Question{}, fmt.Errorf("question %s: text must not be empty", id)
	}
	if strings.TrimSpace(expectedAnswer) == "" {
		return Question{}, fmt.Errorf("question %s: expected answer must not be empty", id)
	}
	return Question{
		ID:             id,
		Text:           text,
		ExpectedAnswer: expectedAnswer,
		Metadata:       metadata,
	}, nil
}

// Benchmark is a named, versioned, ordered collection of questions.
// Once built by the loader it is treated as read-only.
type Benchmark struct {
	ID            string
	Name          string
	Description   string
	Questions     []Question
	QuestionCount int
	FormatVersion string
	Metadata      map[string]string
	CreatedAt     time.Time
}

// config mirrors the config.yaml file of a benchmark directory.
type config struct {
	Name          string            `yaml:"name"`
	Description   string            `yaml:"description"`
	FormatVersion string            `yaml:"format_version"`
	QuestionsFile string            `yaml:"questions_file"`
	Metadata      map[string]string `yaml:"metadata"`
}
