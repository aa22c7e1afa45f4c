package storage

import (
	"context"
	"fmt"

	"github.com/giantswarm/agent-eval/internal/benchmark"
)

// FSBenchmarkRepository serves benchmarks from the loader: embedded
// benchmark directories plus an optional external directory override.
// Loaded benchmarks are cached for the repository's lifetime so repeated
// lookups during a run see one consistent snapshot.
type FSBenchmarkRepository struct {
	externalDir string
	cache       map[string]*benchmark.Benchmark
}

// NewFSBenchmarkRepository creates a repository over the benchmark loader.
func NewFSBenchmarkRepository(externalDir string) *FSBenchmarkRepository {
	return &FSBenchmarkRepository{
		externalDir: externalDir,
		cache:       make(map[string]*benchmark.Benchmark),
	}
}

func (r *FSBenchmarkRepository) load(id string) (*benchmark.Benchmark, error) {
	if b, ok := r.cache[id]; ok {
		return b, nil
	}
	b, err := benchmark.Load(id, r.externalDir)
	if err != nil {
		return nil, fmt.Errorf("%w: benchmark %s", ErrNotFound, id)
	}
	r.cache[id] = b
	return b, nil
}

// GetByID loads a benchmark by its directory name.
func (r *FSBenchmarkRepository) GetByID(_ context.Context, id string) (*benchmark.Benchmark, error) {
	return r.load(id)
}

// GetByName resolves a benchmark by its configured display name, falling
// back to the directory name.
func (r *FSBenchmarkRepository) GetByName(ctx context.Context, name string) (*benchmark.Benchmark, error) {
	names, err := benchmark.List(r.externalDir)
	if err != nil {
		return nil, err
	}
	for _, id := range names {
		b, err := r.load(id)
		if err != nil {
			continue
		}
		if b.Name == name || b.ID == name {
			return b, nil
		}
	}
	return nil, fmt.Errorf("%w: benchmark %s", ErrNotFound, name)
}

// ListAll returns every loadable benchmark.
func (r *FSBenchmarkRepository) ListAll(_ context.Context) ([]*benchmark.Benchmark, error) {
	names, err := benchmark.List(r.externalDir)
	if err != nil {
		return nil, err
	}

	out := make([]*benchmark.Benchmark, 0, len(names))
	for _, id := range names {
		b, err := r.load(id)
		if err != nil {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}
