package benchmark

import (
	"embed"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed all:testdata
var embeddedBenchmarks embed.FS

// Load loads a benchmark by directory name, searching first in the external
// directory (if provided), then in the embedded benchmarks.
func Load(name string, externalDir string) (*Benchmark, error) {
	// Try external directory first.
	if externalDir != "" {
		p := filepath.Join(externalDir, name)
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			return loadFromFS(os.DirFS(p), name)
		}
	}

	// Fall back to embedded benchmarks.
	// Use path.Join (not filepath.Join) because embed.FS always uses forward slashes.
	subFS, err := fs.Sub(embeddedBenchmarks, path.Join("testdata", name))
	if err != nil {
		return nil, fmt.Errorf("benchmark %q not found: %w", name, err)
	}
	return loadFromFS(subFS, name)
}

// List returns the directory names of all available benchmarks.
func List(externalDir string) ([]string, error) {
	seen := make(map[string]bool)
	var names []string

	// List embedded benchmarks.
	entries, err := fs.ReadDir(embeddedBenchmarks, "testdata")
	if err == nil {
		for _, e := range entries {
			if e.IsDir() {
				seen[e.Name()] = true
				names = append(names, e.Name())
			}
		}
	}

	// List external benchmarks.
	if externalDir != "" {
		entries, err := os.ReadDir(externalDir)
		if err == nil {
			for _, e := range entries {
				if e.IsDir() && !seen[e.Name()] {
					names = append(names, e.Name())
				}
			}
		}
	}

	return names, nil
}

func loadFromFS(fsys fs.FS, name string) (*Benchmark, error) {
	configData, err := fs.ReadFile(fsys, "config.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to read config.yaml for benchmark %q: %w", name, err)
	}

	var cfg config
	if err := yaml.Unmarshal(configData, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config.yaml for benchmark %q: %w", name, err)
	}

	if cfg.Name == "" {
		cfg.Name = name
	}
	if cfg.FormatVersion == "" {
		cfg.FormatVersion = "1.0"
	}
	if cfg.QuestionsFile == "" {
		cfg.QuestionsFile = "questions.csv"
	}

	questions, err := loadQuestionsFromFS(fsys, cfg.QuestionsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load questions for benchmark %q: %w", name, err)
	}

	return &Benchmark{
		ID:            name,
		Name:          cfg.Name,
		Description:   cfg.Description,
		Questions:     questions,
		QuestionCount: len(questions),
		FormatVersion: cfg.FormatVersion,
		Metadata:      cfg.Metadata,
		CreatedAt:     time.Now().UTC(),
	}, nil
}

func loadQuestionsFromFS(fsys fs.FS, filename string) ([]Question, error) {
	f, err := fsys.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", filename, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1 // Allow variable field counts.

	// Read header.
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	colIndex := make(map[string]int)
	for i, col := range header {
		colIndex[strings.TrimSpace(col)] = i
	}

	// Validate required columns.
	for _, required := range []string{"ID", "Question", "ExpectedAnswer"} {
		if _, ok := colIndex[required]; !ok {
			return nil, fmt.Errorf("missing required CSV column: %s", required)
		}
	}

	// Columns beyond the required three are carried as question metadata.
	var metaCols []string
	for col := range colIndex {
		switch col {
		case "ID", "Question", "ExpectedAnswer":
		default:
			metaCols = append(metaCols, col)
		}
	}

	// Determine the minimum number of columns required by checking the max column index.
	minCols := 0
	for _, idx := range colIndex {
		if idx >= minCols {
			minCols = idx + 1
		}
	}

	var questions []Question
	for lineNum := 2; ; lineNum++ { // lineNum starts at 2 (1-indexed, after header).
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row %d: %w", lineNum, err)
		}
		if len(record) < minCols {
			return nil, fmt.Errorf("CSV row %d has %d columns, expected at least %d", lineNum, len(record), minCols)
		}

		var metadata map[string]string
		for _, col := range metaCols {
			if v := strings.TrimSpace(record[colIndex[col]]); v != "" {
				if metadata == nil {
					metadata = make(map[string]string)
				}
				metadata[col] = v
			}
		}

		q, err := NewQuestion(
			record[colIndex["ID"]],
			record[colIndex["Question"]],
			record[colIndex["ExpectedAnswer"]],
			metadata,
		)
		if err != nil {
			return nil, fmt.Errorf("CSV row %d: %w", lineNum, err)
		}
		questions = append(questions, q)
	}

	return questions, nil
}
