package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chefrag-labs/chefrag-cli/internal/core/services"
)

var (
	flagTopK       int
	flagSearchJSON bool
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the recipe index",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")
		k := flagTopK
		if k <= 0 {
			k = cfg.Search.TopK
		}

		retriever := services.NewRetriever(embedder(), index(), cfg.Qdrant.Collection)
		results, err := retriever.Search(cmd.Context(), query, k)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if flagSearchJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(results)
		}

		if len(results) == 0 {
			fmt.Fprintln(out, "no results")
			return nil
		}
		for i, r := range results {
			fmt.Fprintf(out, "%d. [%.3f] chunk %d\n", i+1, r.Score, r.ChunkID)
			fmt.Fprintln(out, indent(r.Text, "   "))
		}
		return nil
	},
}

func init() {
	searchCmd.Flags().IntVarP(&flagTopK, "top-k", "k", 0, "number of results (default from config)")
	searchCmd.Flags().BoolVar(&flagSearchJSON, "json", false, "emit results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func indent(s, prefix string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}
