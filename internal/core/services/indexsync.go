package services

import (
	"context"
	"fmt"

	"github.com/chefrag-labs/chefrag-cli/internal/core/domain"
	"github.com/chefrag-labs/chefrag-cli/internal/core/ports/driven"
	"github.com/chefrag-labs/chefrag-cli/internal/logger"
)

// DefaultUploadBatch is how many points go into one upsert call.
const DefaultUploadBatch = 256

// IndexSync pushes a vectorized chunk set into the external similarity
// index: it makes sure the collection exists with the right geometry,
// then upserts one point per chunk, vector read from the embedding
// store at the chunk's id, payload carrying the full recipe text.
//
// Upserts are idempotent, so a stopped upload can simply be re-run.
type IndexSync struct {
	index       driven.VectorIndex
	uploadBatch int
}

// IndexSyncOption configures an IndexSync.
type IndexSyncOption func(*IndexSync)

// WithUploadBatch sets the upsert batch size.
func WithUploadBatch(n int) IndexSyncOption {
	return func(s *IndexSync) {
		if n > 0 {
			s.uploadBatch = n
		}
	}
}

// NewIndexSync creates an index sync service over the given index.
func NewIndexSync(index driven.VectorIndex, opts ...IndexSyncOption) *IndexSync {
	s := &IndexSync{
		index:       index,
		uploadBatch: DefaultUploadBatch,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// EnsureCollection creates the named collection with the given
// dimensionality and cosine distance if it does not exist yet. An
// existing collection is never recreated or altered: if its dimension
// differs from dim, the mismatch is surfaced to the caller.
func (s *IndexSync) EnsureCollection(ctx context.Context, name string, dim int) error {
	exists, err := s.index.CollectionExists(ctx, name)
	if err != nil {
		return fmt.Errorf("check collection %q: %w", name, err)
	}

	if exists {
		got, err := s.index.CollectionDimensions(ctx, name)
		if err != nil {
			return fmt.Errorf("inspect collection %q: %w", name, err)
		}
		if got != dim {
			return fmt.Errorf("collection %q has dimension %d, want %d: %w",
				name, got, dim, domain.ErrCollectionMismatch)
		}
		logger.Debug("collection %q exists (dim %d)", name, dim)
		return nil
	}

	if err := s.index.CreateCollection(ctx, name, dim); err != nil {
		return fmt.Errorf("create collection %q: %w", name, err)
	}
	logger.Info("Created collection %q (dim %d, cosine)", name, dim)
	return nil
}

// Upload upserts every chunk's (id, vector, payload) triple into the
// collection, reading vectors from the store at the chunk ids.
func (s *IndexSync) Upload(ctx context.Context, name string, chunks []domain.Chunk, store driven.EmbeddingStore) error {
	if len(chunks) == 0 {
		return domain.ErrNoChunks
	}

	logger.Section("Upload")
	logger.Info("Upserting %d points into %q", len(chunks), name)

	for start := 0; start < len(chunks); start += s.uploadBatch {
		if err := ctx.Err(); err != nil {
			return err
		}

		end := start + s.uploadBatch
		if end > len(chunks) {
			end = len(chunks)
		}

		points := make([]driven.Point, 0, end-start)
		for _, c := range chunks[start:end] {
			vec, err := store.ReadRow(int(c.ID))
			if err != nil {
				return fmt.Errorf("read row %d: %w", c.ID, err)
			}
			points = append(points, driven.Point{
				ID:     c.ID,
				Vector: vec,
				Text:   c.FullRecipe,
			})
		}

		if err := s.index.UpsertPoints(ctx, name, points); err != nil {
			return fmt.Errorf("upsert points %d-%d: %w", start, end-1, err)
		}
		logger.Debug("upserted points %d-%d", start, end-1)
	}

	return nil
}
