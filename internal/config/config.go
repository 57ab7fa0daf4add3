// Package config loads the chefrag TOML configuration.
//
// Everything here is external wiring (paths, API URLs, model names,
// batch sizes); the pipeline services receive plain values and never
// read configuration themselves. A missing file yields the defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Ollama configures the embedding service.
type Ollama struct {
	URL           string `toml:"url"`
	Model         string `toml:"model"`
	EmbeddingDim  int    `toml:"embedding_dim"`
	ContextLength int    `toml:"context_length"`
	TimeoutSecs   int    `toml:"timeout_secs"`
}

// Qdrant configures the vector index.
type Qdrant struct {
	URL         string `toml:"url"`
	APIKey      string `toml:"api_key"`
	Collection  string `toml:"collection"`
	TimeoutSecs int    `toml:"timeout_secs"`
}

// Pipeline configures the chunk/vectorize/upload stages.
type Pipeline struct {
	Strategy    string `toml:"strategy"`
	BatchSize   int    `toml:"batch_size"`
	FlushEvery  int    `toml:"flush_every"`
	UploadBatch int    `toml:"upload_batch"`
	// StoreFile is the embedding store path, relative to the data dir
	// unless absolute.
	StoreFile string `toml:"store_file"`
}

// Search configures query retrieval.
type Search struct {
	TopK int `toml:"top_k"`
}

// Scraper configures the listing/detail page scraper.
type Scraper struct {
	BaseURL string `toml:"base_url"`
	// ProxyURL is the scraping proxy endpoint; the proxy API key is
	// read from the SCRAPEOPS_API_KEY environment variable, never from
	// this file.
	ProxyURL string `toml:"proxy_url"`
	// AgentsFile is a JSON array of user-agent strings to rotate.
	AgentsFile  string  `toml:"agents_file"`
	RatePerSec  float64 `toml:"rate_per_sec"`
	TimeoutSecs int     `toml:"timeout_secs"`
	StartFid    int     `toml:"start_fid"`
	MaxFid      int     `toml:"max_fid"`
	StartPage   int     `toml:"start_page"`
	MaxPage     int     `toml:"max_page"`
}

// Benchmark configures the RAG-vs-LLM comparison.
type Benchmark struct {
	// OpenAI-compatible chat endpoint; the API key comes from the
	// OPENAI_API_KEY environment variable.
	ChatURL     string `toml:"chat_url"`
	ChatModel   string `toml:"chat_model"`
	TimeoutSecs int    `toml:"timeout_secs"`
}

// Config is the root configuration.
type Config struct {
	// DataDir holds the sqlite database and embedding store files.
	DataDir string `toml:"data_dir"`

	Ollama    Ollama    `toml:"ollama"`
	Qdrant    Qdrant    `toml:"qdrant"`
	Pipeline  Pipeline  `toml:"pipeline"`
	Search    Search    `toml:"search"`
	Scraper   Scraper   `toml:"scraper"`
	Benchmark Benchmark `toml:"benchmark"`
}

// Default returns the built-in configuration, mirroring the corpus
// defaults (bge-m3 over local Ollama, local Qdrant, batch 64).
func Default() *Config {
	return &Config{
		Ollama: Ollama{
			URL:           "http://localhost:11434",
			Model:         "bge-m3:567m-fp16",
			EmbeddingDim:  1024,
			ContextLength: 8192,
			TimeoutSecs:   120,
		},
		Qdrant: Qdrant{
			URL:         "http://localhost:6333",
			Collection:  "chefrag-ollama-bge-m3-567m-fp16",
			TimeoutSecs: 60,
		},
		Pipeline: Pipeline{
			Strategy:    "full",
			BatchSize:   64,
			FlushEvery:  10,
			UploadBatch: 256,
			StoreFile:   "embeddings.mmap",
		},
		Search: Search{
			TopK: 5,
		},
		Scraper: Scraper{
			BaseURL:     "https://www.russianfood.com",
			ProxyURL:    "https://proxy.scrapeops.io/v1/",
			RatePerSec:  0.5,
			TimeoutSecs: 120,
			StartFid:    2,
			MaxFid:      25,
			StartPage:   1,
			MaxPage:     50,
		},
		Benchmark: Benchmark{
			ChatModel:   "gpt-4o-mini",
			TimeoutSecs: 120,
		},
	}
}

// Load reads the config at path, or the defaults when the file does
// not exist. If path is empty, ~/.chefrag/config.toml is tried.
func Load(path string) (*Config, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		path = filepath.Join(home, ".chefrag", "config.toml")
	}

	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// StorePath resolves the embedding store file against the data dir.
func (c *Config) StorePath() string {
	if filepath.IsAbs(c.Pipeline.StoreFile) {
		return c.Pipeline.StoreFile
	}
	return filepath.Join(c.DataDir, c.Pipeline.StoreFile)
}
