package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chefrag-labs/chefrag-cli/internal/adapters/driven/storage/embfile"
	"github.com/chefrag-labs/chefrag-cli/internal/core/domain"
	"github.com/chefrag-labs/chefrag-cli/internal/core/services"
	"github.com/chefrag-labs/chefrag-cli/internal/logger"
)

var vectorizeCmd = &cobra.Command{
	Use:   "vectorize",
	Short: "Embed every chunk into the vector store file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		s, err := ensureStore()
		if err != nil {
			return err
		}
		chunks, err := s.ChunkStore().ListChunks(cmd.Context())
		if err != nil {
			return err
		}
		if len(chunks) == 0 {
			return fmt.Errorf("no chunks stored, run chunk first")
		}

		emb := embedder()
		if err := emb.Ping(cmd.Context()); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrEmbeddingUnavailable, err)
		}

		// Rows are addressed by chunk id, so the file must cover the
		// highest id rather than just the chunk count.
		rows := int(chunks[len(chunks)-1].ID) + 1
		vstore, err := embfile.Create(cfg.StorePath(), rows, emb.Dimensions())
		if err != nil {
			return err
		}
		defer vstore.Close()

		vectorizer := services.NewVectorizer(emb,
			services.WithBatchSize(cfg.Pipeline.BatchSize),
			services.WithFlushEvery(cfg.Pipeline.FlushEvery),
		)
		report, err := vectorizer.Run(cmd.Context(), chunks, vstore)
		if err != nil {
			return err
		}
		if report.FailedBatches > 0 {
			logger.Warn("%d batches failed and were left as zero rows", report.FailedBatches)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "embedded %d/%d chunks into %s\n", report.Written, report.Chunks, cfg.StorePath())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(vectorizeCmd)
}
