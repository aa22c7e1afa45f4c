package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFSBenchmarkRepositoryGetByID(t *testing.T) {
	repo := NewFSBenchmarkRepository("")

	b, err := repo.GetByID(context.Background(), "gpqa-sample")
	require.NoError(t, err)
	assert.Equal(t, "gpqa-sample", b.ID)
	assert.NotEmpty(t, b.Questions)
}

func TestFSBenchmarkRepositoryGetByIDMissing(t *testing.T) {
	repo := NewFSBenchmarkRepository("")
	_, err := repo.GetByID(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFSBenchmarkRepositoryGetByName(t *testing.T) {
	repo := NewFSBenchmarkRepository("")

	// Display name resolves.
	b, err := repo.GetByName(context.Background(), "GPQA Sample")
	require.NoError(t, err)
	assert.Equal(t, "gpqa-sample", b.ID)

	// Directory name resolves too.
	b, err = repo.GetByName(context.Background(), "gpqa-sample")
	require.NoError(t, err)
	assert.Equal(t, "gpqa-sample", b.ID)

	_, err = repo.GetByName(context.Background(), "No Such Benchmark")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFSBenchmarkRepositoryListAll(t *testing.T) {
	tmpDir := t.TempDir()
	dir := filepath.Join(tmpDir, "extra")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("name: Extra\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "questions.csv"),
		[]byte("ID,Question,ExpectedAnswer\n1,Q?,A\n"), 0o644))

	repo := NewFSBenchmarkRepository(tmpDir)
	all, err := repo.ListAll(context.Background())
	require.NoError(t, err)

	ids := make([]string, 0, len(all))
	for _, b := range all {
		ids = append(ids, b.ID)
	}
	assert.Contains(t, ids, "gpqa-sample")
	assert.Contains(t, ids, "extra")
}

func TestFSBenchmarkRepositoryCaches(t *testing.T) {
	tmpDir := t.TempDir()
	dir := filepath.Join(tmpDir, "cached")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("name: Cached\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "questions.csv"),
		[]byte("ID,Question,ExpectedAnswer\n1,Q?,A\n"), 0o644))

	repo := NewFSBenchmarkRepository(tmpDir)

	first, err := repo.GetByID(context.Background(), "cached")
	require.NoError(t, err)

	// Removing the directory after the first load must not invalidate the
	// cached snapshot.
	require.NoError(t, os.RemoveAll(dir))

	second, err := repo.GetByID(context.Background(), "cached")
	require.NoError(t, err)
	assert.Same(t, first, second)
}
