package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/chefrag-labs/chefrag-cli/internal/adapters/driving/tui"
	"github.com/chefrag-labs/chefrag-cli/internal/core/services"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Interactive search over the recipe index",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		retriever := services.NewRetriever(embedder(), index(), cfg.Qdrant.Collection)
		topK := cfg.Search.TopK
		if topK <= 0 {
			topK = services.DefaultTopK
		}
		p := tea.NewProgram(tui.New(retriever, topK), tea.WithAltScreen())
		_, err := p.Run()
		return err
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}
