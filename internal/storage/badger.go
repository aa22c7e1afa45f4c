package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/giantswarm/agent-eval/internal/evaluation"
)

// BadgerConfig holds configuration for the embedded BadgerDB store.
type BadgerConfig struct {
	// Path is the directory for BadgerDB files. Ignored when InMemory is true.
	Path string

	// InMemory enables in-memory mode (no disk persistence). Useful for tests.
	InMemory bool

	// SyncWrites enables synchronous writes for durability.
	SyncWrites bool
}

// OpenBadger opens a BadgerDB instance for the repository implementations.
// Badger's own logging is disabled; repository operations log through slog
// at the call sites that need it.
func OpenBadger(cfg BadgerConfig) (*badger.DB, error) {
	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if cfg.Path == "" {
			return nil, fmt.Errorf("badger path is required for persistent storage")
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.WithSyncWrites(cfg.SyncWrites).WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger store: %w", err)
	}
	return db, nil
}

const (
	evaluationKeyPrefix = "evaluation/"
	resultKeyPrefix     = "result/"
)

// BadgerEvaluationRepository is a BadgerDB-backed EvaluationRepository.
// Values are JSON-encoded; each Save/Update is one atomic transaction.
type BadgerEvaluationRepository struct {
	db *badger.DB
}

// NewBadgerEvaluationRepository creates a repository on an open DB.
func NewBadgerEvaluationRepository(db *badger.DB) *BadgerEvaluationRepository {
	return &BadgerEvaluationRepository{db: db}
}

func evaluationKey(id string) []byte {
	return []byte(evaluationKeyPrefix + id)
}

func (r *BadgerEvaluationRepository) Save(_ context.Context, eval *evaluation.Evaluation) error {
	value, err := json.Marshal(eval)
	if err != nil {
		return fmt.Errorf("failed to encode evaluation %s: %w", eval.ID, err)
	}

	key := evaluationKey(eval.ID)
	return r.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		if err == nil {
			return fmt.Errorf("%w: evaluation %s", ErrDuplicateEntity, eval.ID)
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		return txn.Set(key, value)
	})
}

func (r *BadgerEvaluationRepository) Update(_ context.Context, eval *evaluation.Evaluation) error {
	value, err := json.Marshal(eval)
	if err != nil {
		return fmt.Errorf("failed to encode evaluation %s: %w", eval.ID, err)
	}

	key := evaluationKey(eval.ID)
	return r.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(key); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("%w: evaluation %s", ErrNotFound, eval.ID)
			}
			return err
		}
		return txn.Set(key, value)
	})
}

func (r *BadgerEvaluationRepository) GetByID(_ context.Context, id string) (*evaluation.Evaluation, error) {
	var eval evaluation.Evaluation
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(evaluationKey(id))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("%w: evaluation %s", ErrNotFound, id)
			}
			return err
		}
		return item.Value(func(value []byte) error {
			return json.Unmarshal(value, &eval)
		})
	})
	if err != nil {
		return nil, err
	}
	return &eval, nil
}

func (r *BadgerEvaluationRepository) ListAll(_ context.Context) ([]*evaluation.Evaluation, error) {
	var out []*evaluation.Evaluation
	err := r.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(evaluationKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var eval evaluation.Evaluation
			err := it.Item().Value(func(value []byte) error {
				return json.Unmarshal(value, &eval)
			})
			if err != nil {
				return err
			}
			out = append(out, &eval)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Keys are UUIDs; order by creation time instead of key order.
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *BadgerEvaluationRepository) ListByStatus(ctx context.Context, status evaluation.Status) ([]*evaluation.Evaluation, error) {
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

// BadgerQuestionResultRepository is a BadgerDB-backed QuestionResultRepository.
// Result keys embed a zero-padded benchmark-order sequence so iteration
// returns results in benchmark order.
type BadgerQuestionResultRepository struct {
	db *badger.DB
}

// NewBadgerQuestionResultRepository creates a repository on an open DB.
func NewBadgerQuestionResultRepository(db *badger.DB) *BadgerQuestionResultRepository {
	return &BadgerQuestionResultRepository{db: db}
}

func resultKey(evaluationID string, seq int) []byte {
	return []byte(fmt.Sprintf("%s%s/%08d", resultKeyPrefix, evaluationID, seq))
}

func (r *BadgerQuestionResultRepository) Save(_ context.Context, seq int, result evaluation.QuestionResult) error {
	value, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to encode result for question %s: %w", result.QuestionID, err)
	}

	key := resultKey(result.EvaluationID, seq)
	return r.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		if err == nil {
			return fmt.Errorf("%w: result %d for evaluation %s", ErrDuplicateEntity, seq, result.EvaluationID)
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		return txn.Set(key, value)
	})
}

func (r *BadgerQuestionResultRepository) ListByEvaluation(_ context.Context, evaluationID string) ([]evaluation.QuestionResult, error) {
	var out []evaluation.QuestionResult
	err := r.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(resultKeyPrefix + evaluationID + "/")
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var result evaluation.QuestionResult
			err := it.Item().Value(func(value []byte) error {
				return json.Unmarshal(value, &result)
			})
			if err != nil {
				return err
			}
			out = append(out, result)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
