package scraper

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/chefrag-labs/chefrag-cli/internal/core/domain"
	"github.com/chefrag-labs/chefrag-cli/internal/core/ports/driven"
	"github.com/chefrag-labs/chefrag-cli/internal/core/services"
	"github.com/chefrag-labs/chefrag-cli/internal/logger"
)

// CrawlConfig bounds the listing crawl over the source's category
// (fid) and page grid.
type CrawlConfig struct {
	BaseURL   string
	StartFid  int
	MaxFid    int
	StartPage int
	MaxPage   int
}

// Crawler walks the source site and stores what it finds.
type Crawler struct {
	client *Client
	store  driven.RecipeStore
}

// NewCrawler creates a crawler writing into the given store.
func NewCrawler(client *Client, store driven.RecipeStore) *Crawler {
	return &Crawler{client: client, store: store}
}

// CrawlListings walks the fid/page grid collecting recipe links. A
// page that yields no links ends that category early, so MaxPage only
// has to be an upper bound. Fetch failures skip the page; the crawl
// itself keeps going. Each run is recorded as a scrape session.
func (c *Crawler) CrawlListings(ctx context.Context, cfg CrawlConfig) (int, error) {
	logger.Section("Crawl")
	sessionID := uuid.New().String()

	pages, found := 0, 0
	for fid := cfg.StartFid; fid <= cfg.MaxFid; fid++ {
		for page := cfg.StartPage; page <= cfg.MaxPage; page++ {
			if err := ctx.Err(); err != nil {
				return found, err
			}

			target := fmt.Sprintf("%s/recipes/bytype/?fid=%d&page=%d#rcp_list", cfg.BaseURL, fid, page)
			body, err := c.client.FetchPage(ctx, target)
			if err != nil {
				logger.Warn("listing fid=%d page=%d skipped: %v", fid, page, err)
				continue
			}
			pages++

			links := ExtractListing(body, cfg.BaseURL)
			if len(links) == 0 {
				logger.Debug("fid=%d exhausted at page %d", fid, page)
				break
			}

			saved, err := c.store.SaveLinks(ctx, links)
			if err != nil {
				return found, fmt.Errorf("save links: %w", err)
			}
			found += saved
			logger.Debug("fid=%d page=%d: %d links (%d new)", fid, page, len(links), saved)
		}
	}

	if err := c.store.RecordScrapeSession(ctx, sessionID, pages, found); err != nil {
		return found, fmt.Errorf("record session: %w", err)
	}
	logger.Info("Crawl session %s: %d pages, %d new links", sessionID, pages, found)
	return found, nil
}

// ScrapeRecipes fetches the recipe page behind every stored link and
// extracts its ingredient and step lists. With pendingOnly set, links
// that already have a scraped body are skipped, which makes a stopped
// run resumable. Per-page failures are skipped, not fatal.
func (c *Crawler) ScrapeRecipes(ctx context.Context, pendingOnly bool) (int, error) {
	logger.Section("Scrape")

	links, err := c.store.ListLinks(ctx, pendingOnly)
	if err != nil {
		return 0, fmt.Errorf("list links: %w", err)
	}
	logger.Info("Scraping %d recipe pages", len(links))

	scraped := 0
	for _, link := range links {
		if err := ctx.Err(); err != nil {
			return scraped, err
		}

		body, err := c.client.FetchPage(ctx, link.URL)
		if err != nil {
			logger.Warn("recipe %q skipped: %v", link.URL, err)
			continue
		}

		ingredients, steps := ExtractRecipe(body)
		rec := domain.RawRecord{
			URL:         link.URL,
			Title:       link.Title,
			Ingredients: services.EncodeListLiteral(ingredients),
			Steps:       services.EncodeListLiteral(steps),
		}
		if err := c.store.SaveRecord(ctx, rec); err != nil {
			return scraped, fmt.Errorf("save recipe %q: %w", link.URL, err)
		}
		scraped++
	}

	logger.Info("Scraped %d/%d recipes", scraped, len(links))
	return scraped, nil
}
