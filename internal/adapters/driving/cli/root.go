// Package cli implements the chefrag command-line interface.
package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/chefrag-labs/chefrag-cli/internal/adapters/driven/embedding/ollama"
	"github.com/chefrag-labs/chefrag-cli/internal/adapters/driven/index/qdrant"
	"github.com/chefrag-labs/chefrag-cli/internal/adapters/driven/storage/sqlite"
	"github.com/chefrag-labs/chefrag-cli/internal/config"
	"github.com/chefrag-labs/chefrag-cli/internal/core/ports/driven"
	"github.com/chefrag-labs/chefrag-cli/internal/logger"
)

// version is set from main at build time.
var version = "dev"

// Persistent flag values.
var (
	flagConfig  string
	flagDataDir string
	flagVerbose bool
)

// Wired dependencies. Commands go through the accessor functions
// below; tests inject fakes by assigning these directly.
var (
	cfg          *config.Config
	store        *sqlite.Store
	embedService driven.EmbeddingService
	vectorIndex  driven.VectorIndex
)

var rootCmd = &cobra.Command{
	Use:   "chefrag",
	Short: "Recipe RAG pipeline: scrape, chunk, embed, index, search",
	Long: `chefrag maintains a semantic search index over a scraped recipe
corpus. The pipeline stages are separate commands, run in order:

  scrape links, scrape texts   collect the corpus
  clean                        strip unwanted characters
  chunk                        build the chunk table
  vectorize                    embed chunks into the vector store file
  upload                       push vectors into the Qdrant collection
  search / tui                 query the index
  bench                        compare plain-LLM vs RAG answers

Stages are idempotent: a stopped run can simply be repeated.`,
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger.SetVerbose(flagVerbose)
		// Best-effort; API keys may come from the real environment.
		_ = godotenv.Load()

		var err error
		cfg, err = config.Load(flagConfig)
		if err != nil {
			return err
		}
		if flagDataDir != "" {
			cfg.DataDir = flagDataDir
		}
		if cfg.DataDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return fmt.Errorf("getting home directory: %w", err)
			}
			cfg.DataDir = filepath.Join(home, ".chefrag", "data")
		}
		return nil
	},
	PersistentPostRunE: func(*cobra.Command, []string) error {
		if store != nil {
			err := store.Close()
			store = nil
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (default ~/.chefrag/config.toml)")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory (default ~/.chefrag/data)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "verbose logging to stderr")
}

// Execute runs the CLI. The version string is shown by the version
// command.
func Execute(v string) error {
	if v != "" {
		version = v
	}
	return rootCmd.Execute()
}

// ensureStore opens the sqlite store on first use.
func ensureStore() (*sqlite.Store, error) {
	if store != nil {
		return store, nil
	}
	s, err := sqlite.NewStore(cfg.DataDir)
	if err != nil {
		return nil, err
	}
	store = s
	return store, nil
}

// embedder returns the configured embedding service.
func embedder() driven.EmbeddingService {
	if embedService != nil {
		return embedService
	}
	embedService = ollama.NewEmbeddingService(ollama.Config{
		BaseURL:       cfg.Ollama.URL,
		Model:         cfg.Ollama.Model,
		Dimensions:    cfg.Ollama.EmbeddingDim,
		ContextLength: cfg.Ollama.ContextLength,
		Timeout:       time.Duration(cfg.Ollama.TimeoutSecs) * time.Second,
	})
	return embedService
}

// index returns the configured vector index client.
func index() driven.VectorIndex {
	if vectorIndex != nil {
		return vectorIndex
	}
	vectorIndex = qdrant.New(qdrant.Config{
		URL:     cfg.Qdrant.URL,
		APIKey:  cfg.Qdrant.APIKey,
		Timeout: time.Duration(cfg.Qdrant.TimeoutSecs) * time.Second,
	})
	return vectorIndex
}
