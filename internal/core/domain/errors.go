package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
//
// Malformed field text (the parse-error class) is never surfaced: the
// normaliser degrades it to an empty value locally. Transport failures
// against the embedding service are recovered at batch granularity by
// the vectorizer and never escape a pipeline run either.
var (
	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrBadShape indicates a vector whose length does not match the
	// store's configured dimension. Fatal to the single write.
	ErrBadShape = errors.New("vector dimension mismatch")

	// ErrRowOutOfRange indicates a row index outside the store's
	// preallocated row range.
	ErrRowOutOfRange = errors.New("row index out of range")

	// ErrStoreSize indicates an embedding store file whose size does
	// not match the configured rows*dim layout.
	ErrStoreSize = errors.New("embedding store size mismatch")

	// ErrStoreClosed indicates an operation on a closed embedding store.
	ErrStoreClosed = errors.New("embedding store closed")

	// ErrStoreReadOnly indicates a write to a read-only embedding store.
	ErrStoreReadOnly = errors.New("embedding store is read-only")

	// ErrCollectionMismatch indicates an existing collection whose
	// dimensionality differs from the configured one. The collection
	// is never altered; the caller must resolve it.
	ErrCollectionMismatch = errors.New("collection dimension mismatch")

	// ErrEmbeddingUnavailable indicates the embedding service is not
	// configured or unreachable.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrVectorIndexUnavailable indicates the vector index is not
	// configured or unreachable.
	ErrVectorIndexUnavailable = errors.New("vector index unavailable")

	// ErrNoChunks indicates a pipeline stage was run before any chunks
	// were built.
	ErrNoChunks = errors.New("no chunks available")
)
