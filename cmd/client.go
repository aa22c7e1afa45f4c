package cmd

import (
	"errors"
	"os"

	"github.com/giantswarm/agent-eval/internal/llm"
	"github.com/giantswarm/agent-eval/internal/storage"
)

// newGatewayFromFlags creates an LLM gateway from common CLI flags.
// It checks the endpoint and apiKey flags, falling back to the OPENAI_API_KEY
// environment variable when no explicit key is provided.
func newGatewayFromFlags(endpoint, apiKey string) llm.Gateway {
	var opts []llm.Option
	if endpoint != "" {
		opts = append(opts, llm.WithBaseURL(endpoint))
	}
	if apiKey != "" {
		opts = append(opts, llm.WithAPIKey(apiKey))
	} else if envKey := os.Getenv("OPENAI_API_KEY"); envKey != "" {
		opts = append(opts, llm.WithAPIKey(envKey))
	}
	return llm.NewOpenAIGateway(opts...)
}

// stores bundles the evaluation and result repositories with their cleanup.
type stores struct {
	evaluations storage.EvaluationRepository
	results     storage.QuestionResultRepository
	close       func() error
}

// openStores opens BadgerDB-backed repositories at dataDir, or in-memory
// repositories when dataDir is empty.
func openStores(dataDir string) (*stores, error) {
	if dataDir == "" {
		return &stores{
			evaluations: storage.NewMemoryEvaluationRepository(),
			results:     storage.NewMemoryQuestionResultRepository(),
			close:       func() error { return nil },
		}, nil
	}

	db, err := storage.OpenBadger(storage.BadgerConfig{
		Path:       dataDir,
		SyncWrites: true,
	})
	if err != nil {
		return nil, err
	}
	return &stores{
		evaluations: storage.NewBadgerEvaluationRepository(db),
		results:     storage.NewBadgerQuestionResultRepository(db),
		close:       db.Close,
	}, nil
}

// errNotFound reports whether err is a missing-entity error from storage.
func errNotFound(err error) bool {
	return errors.Is(err, storage.ErrNotFound)
}
