package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/chefrag-labs/chefrag-cli/internal/scraper"
)

var flagScrapeAll bool

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Collect the recipe corpus from the source site",
}

var scrapeLinksCmd = &cobra.Command{
	Use:   "links",
	Short: "Crawl listing pages and store recipe links",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		s, err := ensureStore()
		if err != nil {
			return err
		}
		crawler := scraper.NewCrawler(scrapeClient(), s.RecipeStore())
		n, err := crawler.CrawlListings(cmd.Context(), scraper.CrawlConfig{
			BaseURL:   cfg.Scraper.BaseURL,
			StartFid:  cfg.Scraper.StartFid,
			MaxFid:    cfg.Scraper.MaxFid,
			StartPage: cfg.Scraper.StartPage,
			MaxPage:   cfg.Scraper.MaxPage,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "stored %d new links\n", n)
		return nil
	},
}

var scrapeTextsCmd = &cobra.Command{
	Use:   "texts",
	Short: "Fetch recipe pages for stored links and extract their texts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		s, err := ensureStore()
		if err != nil {
			return err
		}
		crawler := scraper.NewCrawler(scrapeClient(), s.RecipeStore())
		n, err := crawler.ScrapeRecipes(cmd.Context(), !flagScrapeAll)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "scraped %d recipes\n", n)
		return nil
	},
}

func init() {
	scrapeTextsCmd.Flags().BoolVar(&flagScrapeAll, "all", false, "re-scrape links that already have a stored recipe")
	scrapeCmd.AddCommand(scrapeLinksCmd)
	scrapeCmd.AddCommand(scrapeTextsCmd)
	rootCmd.AddCommand(scrapeCmd)
}

func scrapeClient() *scraper.Client {
	return scraper.NewClient(scraper.ClientConfig{
		ProxyURL:   cfg.Scraper.ProxyURL,
		Agents:     loadAgents(cfg.Scraper.AgentsFile),
		RatePerSec: cfg.Scraper.RatePerSec,
		Timeout:    time.Duration(cfg.Scraper.TimeoutSecs) * time.Second,
	})
}

// loadAgents reads the user-agent pool. A missing or malformed file
// just means the default agent is used.
func loadAgents(path string) []string {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var agents []string
	if err := json.Unmarshal(data, &agents); err != nil {
		return nil
	}
	return agents
}
