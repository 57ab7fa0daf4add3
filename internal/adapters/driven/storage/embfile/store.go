// Package embfile implements the embedding store as a flat,
// header-free binary file: rows*dim little-endian float32 values in
// row-major order, addressed by row index. The layout is bit-exact
// with the memory-mapped arrays the corpus was originally built with,
// so row count and dimension must be supplied externally to reopen a
// file.
package embfile

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"

	"github.com/chefrag-labs/chefrag-cli/internal/core/domain"
	"github.com/chefrag-labs/chefrag-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.EmbeddingStore = (*Store)(nil)

const bytesPerValue = 4

// Store is a fixed-layout on-disk vector buffer.
//
// Writers at disjoint row ranges are independent; the Store itself
// does no locking.
type Store struct {
	f        *os.File
	rows     int
	dim      int
	readonly bool
}

// Create creates (or truncates) the file at path and preallocates
// rows*dim*4 bytes of zeroed storage.
func Create(path string, rows, dim int) (*Store, error) {
	if rows <= 0 || dim <= 0 {
		return nil, fmt.Errorf("create %q with rows=%d dim=%d: %w",
			path, rows, dim, domain.ErrInvalidInput)
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("create embedding store: %w", err)
	}
	if err := f.Truncate(int64(rows) * int64(dim) * bytesPerValue); err != nil {
		f.Close()
		return nil, fmt.Errorf("preallocate embedding store: %w", err)
	}

	return &Store{f: f, rows: rows, dim: dim}, nil
}

// OpenReadOnly opens an existing store file for reading. The file size
// must match rows*dim*4 exactly, otherwise the supplied geometry does
// not describe this file.
func OpenReadOnly(path string, rows, dim int) (*Store, error) {
	if rows <= 0 || dim <= 0 {
		return nil, fmt.Errorf("open %q with rows=%d dim=%d: %w",
			path, rows, dim, domain.ErrInvalidInput)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open embedding store: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat embedding store: %w", err)
	}
	want := int64(rows) * int64(dim) * bytesPerValue
	if info.Size() != want {
		f.Close()
		return nil, fmt.Errorf("%q is %d bytes, rows=%d dim=%d needs %d: %w",
			path, info.Size(), rows, dim, want, domain.ErrStoreSize)
	}

	return &Store{f: f, rows: rows, dim: dim, readonly: true}, nil
}

// Rows returns the preallocated row count.
func (s *Store) Rows() int { return s.rows }

// Dim returns the fixed vector width.
func (s *Store) Dim() int { return s.dim }

// WriteRow writes vec at the given row index. Each row is written with
// a single positioned write, so writers at distinct rows never touch
// the same byte range.
func (s *Store) WriteRow(row int, vec []float32) error {
	if s.f == nil {
		return domain.ErrStoreClosed
	}
	if s.readonly {
		return domain.ErrStoreReadOnly
	}
	if row < 0 || row >= s.rows {
		return fmt.Errorf("row %d of %d: %w", row, s.rows, domain.ErrRowOutOfRange)
	}
	if len(vec) != s.dim {
		return fmt.Errorf("vector length %d, store dimension %d: %w",
			len(vec), s.dim, domain.ErrBadShape)
	}

	buf := make([]byte, s.dim*bytesPerValue)
	for i, v := range vec {
		binary.LittleEndian.PutUint32(buf[i*bytesPerValue:], math.Float32bits(v))
	}

	if _, err := s.f.WriteAt(buf, s.rowOffset(row)); err != nil {
		return fmt.Errorf("write row %d: %w", row, err)
	}
	return nil
}

// ReadRow reads the vector at the given row index.
func (s *Store) ReadRow(row int) ([]float32, error) {
	if s.f == nil {
		return nil, domain.ErrStoreClosed
	}
	if row < 0 || row >= s.rows {
		return nil, fmt.Errorf("row %d of %d: %w", row, s.rows, domain.ErrRowOutOfRange)
	}

	buf := make([]byte, s.dim*bytesPerValue)
	if _, err := s.f.ReadAt(buf, s.rowOffset(row)); err != nil {
		return nil, fmt.Errorf("read row %d: %w", row, err)
	}

	vec := make([]float32, s.dim)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[i*bytesPerValue:]))
	}
	return vec, nil
}

// Flush forces buffered writes to durable storage.
func (s *Store) Flush() error {
	if s.f == nil {
		return domain.ErrStoreClosed
	}
	if s.readonly {
		return nil
	}
	if err := s.f.Sync(); err != nil {
		return fmt.Errorf("sync embedding store: %w", err)
	}
	return nil
}

// Close flushes pending writes and releases the file. Close is
// idempotent.
func (s *Store) Close() error {
	if s.f == nil {
		return nil
	}
	if !s.readonly {
		if err := s.f.Sync(); err != nil {
			s.f.Close()
			s.f = nil
			return fmt.Errorf("sync embedding store: %w", err)
		}
	}
	err := s.f.Close()
	s.f = nil
	return err
}

func (s *Store) rowOffset(row int) int64 {
	return int64(row) * int64(s.dim) * bytesPerValue
}
