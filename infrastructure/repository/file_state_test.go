package repository

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStateRepository_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "storage.json")
	repo := NewFileStateRepository(path)

	_, ok, err := repo.Get(testKey)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, repo.Set(testKey, `{"fields":{}}`))
	require.NoError(t, repo.Set("other", "kept"))

	got, ok, err := NewFileStateRepository(path).Get(testKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"fields":{}}`, got)

	require.NoError(t, repo.Remove(testKey))
	_, ok, err = repo.Get(testKey)
	require.NoError(t, err)
	assert.False(t, ok)

	other, ok, err := repo.Get("other")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "kept", other)
}

func TestFileStateRepository_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))
	repo := NewFileStateRepository(path)

	_, _, err := repo.Get(testKey)
	assert.Error(t, err)

	// Escrever substitui o arquivo ilegível
	require.NoError(t, repo.Set(testKey, "v"))
	got, ok, err := repo.Get(testKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", got)
}

func TestFileStateRepository_WriteFailure(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("file"), 0o600))

	// O diretório pai é um arquivo, então a escrita falha
	repo := NewFileStateRepository(filepath.Join(blocker, "storage.json"))
	assert.Error(t, repo.Set(testKey, "v"))
}

func TestDefaultStatePath(t *testing.T) {
	assert.Equal(t, "storage.json", filepath.Base(DefaultStatePath()))
}
