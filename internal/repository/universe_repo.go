package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"vnstock-service/pkg/utils"
)

// UniverseRepository loads the full ticker universe from its JSON file.
type UniverseRepository interface {
	Load(ctx context.Context) ([]string, error)
}

type universeRepository struct {
	path string
}

func NewUniverseRepository(path string) UniverseRepository {
	return &universeRepository{path: path}
}

// Load reads the universe file, a JSON array of ticker strings. Any read
// or decode failure is fatal for the caller; a partial universe is never
// returned.
func (r *universeRepository) Load(_ context.Context) ([]string, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read universe file %s: %w", r.path, err)
	}

	var tickers []string
	if err := json.Unmarshal(data, &tickers); err != nil {
		return nil, fmt.Errorf("universe file %s is not a JSON array of strings: %w", r.path, err)
	}

	normalized := make([]string, 0, len(tickers))
	for _, t := range tickers {
		if ticker := utils.NormalizeTicker(t); ticker != "" {
			normalized = append(normalized, ticker)
		}
	}
	return normalized, nil
}
