package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chefrag-labs/chefrag-cli/internal/benchmark"
	"github.com/chefrag-labs/chefrag-cli/internal/core/domain"
	"github.com/chefrag-labs/chefrag-cli/internal/core/services"
)

var flagBenchSaveDir string

var benchCmd = &cobra.Command{
	Use:   "bench <questions.json>",
	Short: "Compare plain-LLM answers against RAG-grounded answers",
	Long: `bench asks every question twice, once bare and once with the
top-k retrieved recipes prepended, embeds all three answer sets
(ground truth, plain, RAG) and reports the mean cosine similarity of
each answer set against the ground truth.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		questions, err := benchmark.LoadQuestions(args[0])
		if err != nil {
			return err
		}

		emb := embedder()
		if err := emb.Ping(cmd.Context()); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrEmbeddingUnavailable, err)
		}
		retriever := services.NewRetriever(emb, index(), cfg.Qdrant.Collection)

		saveDir := flagBenchSaveDir
		if saveDir == "" {
			saveDir = cfg.DataDir
		}
		runner := benchmark.NewRunner(benchmark.Config{
			ChatURL:   cfg.Benchmark.ChatURL,
			ChatModel: cfg.Benchmark.ChatModel,
			TopK:      cfg.Search.TopK,
			SaveDir:   saveDir,
		}, emb, retriever)

		result, err := runner.Run(cmd.Context(), questions)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "questions: %d (failed: %d)\n", result.Questions, result.Failed)
		fmt.Fprintf(out, "plain LLM similarity: %.4f\n", result.LLMSimilarity)
		fmt.Fprintf(out, "RAG similarity:       %.4f\n", result.RAGSimilarity)
		return nil
	},
}

func init() {
	benchCmd.Flags().StringVar(&flagBenchSaveDir, "save-dir", "", "directory for answer embedding files (default data dir)")
	rootCmd.AddCommand(benchCmd)
}
