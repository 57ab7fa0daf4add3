package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chefrag-labs/chefrag-cli/internal/core/domain"
	"github.com/chefrag-labs/chefrag-cli/internal/core/services"
	"github.com/chefrag-labs/chefrag-cli/internal/logger"
)

var flagStrategy string

var chunkCmd = &cobra.Command{
	Use:   "chunk",
	Short: "Rebuild the chunk table from stored recipes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		strategy := flagStrategy
		if strategy == "" {
			strategy = cfg.Pipeline.Strategy
		}
		st, ok := domain.ParseStrategy(strategy)
		if !ok {
			return fmt.Errorf("%w: unknown chunking strategy %q", domain.ErrInvalidInput, strategy)
		}

		s, err := ensureStore()
		if err != nil {
			return err
		}
		raws, err := s.RecipeStore().ListRecords(cmd.Context())
		if err != nil {
			return err
		}

		norm := services.NewNormalizer()
		builder := services.NewChunkBuilder(st)
		var chunks []domain.Chunk
		for _, raw := range raws {
			rec := norm.Normalize(raw)
			built := builder.Build(rec)
			if built == nil {
				logger.Debug("skipping recipe %d: nothing to chunk", raw.RecipeID)
				continue
			}
			chunks = append(chunks, built...)
		}

		if err := s.ChunkStore().ReplaceChunks(cmd.Context(), chunks); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "built %d chunks from %d recipes (%s)\n", len(chunks), len(raws), st)
		return nil
	},
}

func init() {
	chunkCmd.Flags().StringVar(&flagStrategy, "strategy", "", "chunking strategy: full, all_kinds or recipe_and_ingredients")
	rootCmd.AddCommand(chunkCmd)
}
