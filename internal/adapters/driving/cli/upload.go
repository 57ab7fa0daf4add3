package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chefrag-labs/chefrag-cli/internal/adapters/driven/storage/embfile"
	"github.com/chefrag-labs/chefrag-cli/internal/core/services"
)

var uploadCmd = &cobra.Command{
	Use:   "upload",
	Short: "Push stored vectors into the Qdrant collection",
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
			return fmt.Errorf("no chunks stored, run chunk and vectorize first")
		}

		dim := cfg.Ollama.EmbeddingDim
		rows := int(chunks[len(chunks)-1].ID) + 1
		vstore, err := embfile.OpenReadOnly(cfg.StorePath(), rows, dim)
		if err != nil {
			return err
		}
		defer vstore.Close()

		sync := services.NewIndexSync(index(),
			services.WithUploadBatch(cfg.Pipeline.UploadBatch),
		)
		if err := sync.EnsureCollection(cmd.Context(), cfg.Qdrant.Collection, dim); err != nil {
			return err
		}
		if err := sync.Upload(cmd.Context(), cfg.Qdrant.Collection, chunks, vstore); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "uploaded %d points to %s\n", len(chunks), cfg.Qdrant.Collection)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(uploadCmd)
}
