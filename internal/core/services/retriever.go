package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/chefrag-labs/chefrag-cli/internal/core/domain"
	"github.com/chefrag-labs/chefrag-cli/internal/core/ports/driven"
	"github.com/chefrag-labs/chefrag-cli/internal/logger"
)

// DefaultTopK is the default number of neighbours requested.
const DefaultTopK = 5

// Retriever answers semantic queries against a populated collection.
// The query is embedded through the same embedding service used at
// indexing time; a mismatched embedder would silently degrade
// relevance, which is why the service is injected once here rather
// than chosen per call.
type Retriever struct {
	embedder   driven.EmbeddingService
	index      driven.VectorIndex
	collection string
}

// NewRetriever creates a retriever over the given collection.
func NewRetriever(embedder driven.EmbeddingService, index driven.VectorIndex, collection string) *Retriever {
	return &Retriever{
		embedder:   embedder,
		index:      index,
		collection: collection,
	}
}

// Search embeds the query, retrieves the top-k neighbours and
// deduplicates them by payload text, keeping first-seen (rank) order so
// the best-scoring hit of each recipe survives.
//
// A failed query embedding yields an empty result set, not an error.
func (r *Retriever) Search(ctx context.Context, query string, k int) ([]domain.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []domain.SearchResult{}, nil
	}
	if k <= 0 {
		k = DefaultTopK
	}

	logger.Section("Search")
	logger.Debug("Query: %q, top-k %d", query, k)

	vec, err := r.embedder.Embed(ctx, query)
	if err != nil {
		logger.Warn("query encoding failed: %v", err)
		return []domain.SearchResult{}, nil
	}

	hits, err := r.index.Query(ctx, r.collection, vec, k)
	if err != nil {
		return nil, fmt.Errorf("query collection %q: %w", r.collection, err)
	}

	// Several chunk rows can share one recipe payload; keep the first
	// ranked hit per distinct text.
	seen := make(map[string]struct{}, len(hits))
	results := make([]domain.SearchResult, 0, len(hits))
	for _, h := range hits {
		if _, dup := seen[h.Text]; dup {
			continue
		}
		seen[h.Text] = struct{}{}
		results = append(results, domain.SearchResult{
			ChunkID: h.ID,
			Text:    h.Text,
			Score:   h.Score,
		})
	}

	logger.Debug("%d hits, %d after dedup", len(hits), len(results))
	return results, nil
}
