package driven

import (
	"context"

	"github.com/chefrag-labs/chefrag-cli/internal/core/domain"
)

// RecipeLink is one scraped (title, link) pair from a listing page.
type RecipeLink struct {
	Title string
	URL   string
}

// RecipeStore persists raw scraped recipe rows.
type RecipeStore interface {
	// SaveLinks stores listing-page links, skipping URLs already seen
	// (first occurrence kept).
	SaveLinks(ctx context.Context, links []RecipeLink) (int, error)

	// ListLinks returns stored links ordered by title, optionally only
	// those without a scraped recipe body yet.
	ListLinks(ctx context.Context, pendingOnly bool) ([]RecipeLink, error)

	// SaveRecord stores the scraped body for a link.
	SaveRecord(ctx context.Context, rec domain.RawRecord) error

	// ListRecords returns all raw records ordered by recipe id.
	ListRecords(ctx context.Context) ([]domain.RawRecord, error)

	// UpdateRecords rewrites the text fields of the given records,
	// used by the stop-char cleaning pass.
	UpdateRecords(ctx context.Context, recs []domain.RawRecord) error

	// RecordScrapeSession records a completed scrape run for auditing.
	RecordScrapeSession(ctx context.Context, sessionID string, pages, links int) error
}

// ChunkStore persists the flat chunk table.
//
// Row order equals chunk id order; ids are dense and 0-based.
type ChunkStore interface {
	// ReplaceChunks atomically replaces the whole chunk table.
	ReplaceChunks(ctx context.Context, chunks []domain.Chunk) error

	// ListChunks returns all chunks ordered by chunk id.
	ListChunks(ctx context.Context) ([]domain.Chunk, error)

	// CountChunks returns the number of stored chunks.
	CountChunks(ctx context.Context) (int, error)
}
