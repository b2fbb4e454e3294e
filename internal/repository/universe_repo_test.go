package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeUniverseFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tickers.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestUniverseRepository_Load(t *testing.T) {
	path := writeUniverseFile(t, `["vic", "FPT", " hpg ", ""]`)
	repo := NewUniverseRepository(path)

	tickers, err := repo.Load(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"VIC", "FPT", "HPG"}, tickers)
}

func TestUniverseRepository_Load_MissingFile(t *testing.T) {
	repo := NewUniverseRepository(filepath.Join(t.TempDir(), "nope.json"))

	_, err := repo.Load(context.Background())

	assert.Error(t, err)
}

func TestUniverseRepository_Load_NotAnArray(t *testing.T) {
	path := writeUniverseFile(t, `{"tickers": ["VIC"]}`)
	repo := NewUniverseRepository(path)

	_, err := repo.Load(context.Background())

	assert.Error(t, err)
}
