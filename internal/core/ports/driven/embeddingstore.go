package driven

// EmbeddingStore is a fixed-row-width persisted vector buffer.
//
// The on-disk layout is a flat, header-free file of exactly
// rows*dim*4 bytes of row-major little-endian float32. Row i holds the
// embedding of chunk id i in the paired chunk table; that positional
// correspondence is the only join key between the two artifacts, so
// rows and dim must be supplied externally to reopen a store.
//
// Writers at disjoint row ranges need no locking; readers must only
// run after the corresponding writer has flushed.
type EmbeddingStore interface {
	// WriteRow writes a vector at the given row index. It fails with
	// domain.ErrRowOutOfRange or domain.ErrBadShape on a bad index or
	// vector length.
	WriteRow(row int, vec []float32) error

	// ReadRow reads the vector at the given row index.
	ReadRow(row int) ([]float32, error)

	// Flush forces buffered writes to durable storage. Call it
	// periodically during a long write session and once at the end, so
	// a crash loses at most the last unflushed batch.
	Flush() error

	// Rows returns the preallocated row count.
	Rows() int

	// Dim returns the fixed vector width.
	Dim() int

	// Close flushes (when writable) and releases the file.
	Close() error
}
