package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chefrag-labs/chefrag-cli/internal/core/services"
)

var flagStopCharsFile string

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Strip unwanted characters from stored recipe texts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		stopChars, err := loadStopChars(flagStopCharsFile)
		if err != nil {
			return err
		}
		s, err := ensureStore()
		if err != nil {
			return err
		}
		recipes := s.RecipeStore()
		raws, err := recipes.ListRecords(cmd.Context())
		if err != nil {
			return err
		}

		norm := services.NewNormalizer()
		for i, raw := range raws {
			rec := norm.Normalize(raw)
			rec = norm.Clean(rec, stopChars)
			raws[i].Title = rec.Title
			raws[i].Description = rec.Description
			raws[i].Ingredients = services.EncodeListLiteral(rec.Ingredients)
			raws[i].Steps = services.EncodeListLiteral(rec.Steps)
		}
		if err := recipes.UpdateRecords(cmd.Context(), raws); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "cleaned %d recipes\n", len(raws))
		return nil
	},
}

func init() {
	cleanCmd.Flags().StringVar(&flagStopCharsFile, "stop-chars-file", "", "JSON file listing characters to strip from every text field")
	rootCmd.AddCommand(cleanCmd)
}

// loadStopChars reads a JSON array of characters and joins it into the
// set passed to the normalizer. An empty path means nothing is stripped.
func loadStopChars(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read stop chars: %w", err)
	}
	var chars []string
	if err := json.Unmarshal(data, &chars); err != nil {
		return "", fmt.Errorf("parse stop chars %s: %w", path, err)
	}
	return strings.Join(chars, ""), nil
}
