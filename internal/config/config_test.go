package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "http://localhost:11434", cfg.Ollama.URL)
	assert.Equal(t, "bge-m3:567m-fp16", cfg.Ollama.Model)
	assert.Equal(t, 1024, cfg.Ollama.EmbeddingDim)
	assert.Equal(t, 8192, cfg.Ollama.ContextLength)

	assert.Equal(t, "http://localhost:6333", cfg.Qdrant.URL)
	assert.Equal(t, "chefrag-ollama-bge-m3-567m-fp16", cfg.Qdrant.Collection)
	assert.Empty(t, cfg.Qdrant.APIKey)

	assert.Equal(t, "full", cfg.Pipeline.Strategy)
	assert.Equal(t, 64, cfg.Pipeline.BatchSize)
	assert.Equal(t, 5, cfg.Search.TopK)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
data_dir = "/srv/chefrag"

[ollama]
model = "nomic-embed-text"
embedding_dim = 768

[qdrant]
collection = "my-recipes"

[pipeline]
strategy = "all_kinds"
batch_size = 16

[search]
top_k = 10
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/srv/chefrag", cfg.DataDir)
	assert.Equal(t, "nomic-embed-text", cfg.Ollama.Model)
	assert.Equal(t, 768, cfg.Ollama.EmbeddingDim)
	assert.Equal(t, "my-recipes", cfg.Qdrant.Collection)
	assert.Equal(t, "all_kinds", cfg.Pipeline.Strategy)
	assert.Equal(t, 16, cfg.Pipeline.BatchSize)
	assert.Equal(t, 10, cfg.Search.TopK)

	// Untouched sections keep their defaults.
	assert.Equal(t, "http://localhost:11434", cfg.Ollama.URL)
	assert.Equal(t, 256, cfg.Pipeline.UploadBatch)
}

func TestLoad_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("not [valid toml"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestStorePath(t *testing.T) {
	cfg := Default()
	cfg.DataDir = "/srv/chefrag"

	assert.Equal(t, filepath.Join("/srv/chefrag", "embeddings.mmap"), cfg.StorePath())

	cfg.Pipeline.StoreFile = "/tmp/vectors.mmap"
	assert.Equal(t, "/tmp/vectors.mmap", cfg.StorePath())
}
