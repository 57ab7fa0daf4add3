package services

import (
	"context"
	"fmt"

	"github.com/chefrag-labs/chefrag-cli/internal/core/domain"
	"github.com/chefrag-labs/chefrag-cli/internal/core/ports/driven"
	"github.com/chefrag-labs/chefrag-cli/internal/logger"
)

// Default batching parameters, mirroring the corpus defaults.
const (
	DefaultBatchSize  = 64
	DefaultFlushEvery = 10
)

// Vectorizer streams chunk texts through the embedding service in
// consecutive batches and writes the resulting vectors into an
// embedding store at the rows matching the chunk ids.
//
// A failed embedding call skips just that batch: its rows keep their
// prior content and the run continues, so an idempotent re-run with
// the same chunk set heals the gap. Only store-level shape errors are
// fatal.
type Vectorizer struct {
	embedder   driven.EmbeddingService
	batchSize  int
	flushEvery int
}

// VectorizerOption configures a Vectorizer.
type VectorizerOption func(*Vectorizer)

// WithBatchSize sets how many chunk texts go into one embedding call.
func WithBatchSize(n int) VectorizerOption {
	return func(v *Vectorizer) {
		if n > 0 {
			v.batchSize = n
		}
	}
}

// WithFlushEvery sets how many batches are written between store
// flushes. The final flush always happens regardless.
func WithFlushEvery(n int) VectorizerOption {
	return func(v *Vectorizer) {
		if n > 0 {
			v.flushEvery = n
		}
	}
}

// NewVectorizer creates a vectorizer over the given embedding service.
func NewVectorizer(embedder driven.EmbeddingService, opts ...VectorizerOption) *Vectorizer {
	v := &Vectorizer{
		embedder:   embedder,
		batchSize:  DefaultBatchSize,
		flushEvery: DefaultFlushEvery,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// VectorizeReport summarises one vectorization run.
type VectorizeReport struct {
	// Chunks is the number of input chunks.
	Chunks int

	// Written is the number of rows written to the store.
	Written int

	// FailedBatches counts embedding calls that failed and were
	// skipped. Their rows are left unwritten.
	FailedBatches int
}

// Run vectorizes the chunk set into the store. Row i of the store ends
// up holding the embedding of the chunk with id i; the embedding call
// preserves input order, so vectors land at batch_start+offset.
func (v *Vectorizer) Run(ctx context.Context, chunks []domain.Chunk, store driven.EmbeddingStore) (VectorizeReport, error) {
	report := VectorizeReport{Chunks: len(chunks)}
	if len(chunks) == 0 {
		return report, nil
	}
	if len(chunks) > store.Rows() {
		return report, fmt.Errorf("store holds %d rows for %d chunks: %w",
			store.Rows(), len(chunks), domain.ErrStoreSize)
	}
	if dim := v.embedder.Dimensions(); dim != store.Dim() {
		return report, fmt.Errorf("embedder dimension %d, store dimension %d: %w",
			dim, store.Dim(), domain.ErrBadShape)
	}

	logger.Section("Vectorize")
	logger.Info("Embedding %d chunks with %s (batch %d)",
		len(chunks), v.embedder.ModelName(), v.batchSize)

	batches := 0
	for start := 0; start < len(chunks); start += v.batchSize {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		end := start + v.batchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[start:end]

		texts := make([]string, len(batch))
		for i, c := range batch {
			texts[i] = c.Text
		}

		vectors, err := v.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			logger.Warn("batch %d-%d skipped: %v", start, end-1, err)
			report.FailedBatches++
			continue
		}
		if len(vectors) != len(batch) {
			// The embed contract promises one vector per input in
			// order. A short response cannot be mapped onto rows.
			logger.Warn("batch %d-%d skipped: got %d vectors for %d texts",
				start, end-1, len(vectors), len(batch))
			report.FailedBatches++
			continue
		}

		for i, vec := range vectors {
			if err := store.WriteRow(int(batch[i].ID), vec); err != nil {
				return report, fmt.Errorf("write row %d: %w", batch[i].ID, err)
			}
			report.Written++
		}

		batches++
		if batches%v.flushEvery == 0 {
			if err := store.Flush(); err != nil {
				return report, fmt.Errorf("flush store: %w", err)
			}
			logger.Debug("flushed after %d batches (%d rows)", batches, report.Written)
		}
	}

	if err := store.Flush(); err != nil {
		return report, fmt.Errorf("flush store: %w", err)
	}

	logger.Info("Wrote %d/%d rows, %d failed batches",
		report.Written, report.Chunks, report.FailedBatches)
	return report, nil
}
