package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/chefrag-labs/chefrag-cli/internal/core/domain"
	"github.com/chefrag-labs/chefrag-cli/internal/core/ports/driven"
)

// fakeEmbedder returns a deterministic vector per input text. Calls
// listed in failCalls (0-based EmbedBatch call index) return an error.
type fakeEmbedder struct {
	dim       int
	calls     int
	failCalls map[int]bool

	// short makes every response one vector too short.
	short bool
}

var _ driven.EmbeddingService = (*fakeEmbedder)(nil)

func newFakeEmbedder(dim int) *fakeEmbedder {
	return &fakeEmbedder{dim: dim, failCalls: map[int]bool{}}
}

// vectorFor derives a recognisable vector from the text so tests can
// assert which text ended up in which row.
func (f *fakeEmbedder) vectorFor(text string) []float32 {
	vec := make([]float32, f.dim)
	var sum float32
	for _, r := range text {
		sum += float32(r)
	}
	for i := range vec {
		vec[i] = sum + float32(i)
	}
	return vec
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	vecs, err := f.EmbedBatch(context.Background(), []string{text})
	if err != nil {
		return nil, err
	}
	if len(vecs) == 0 {
		return nil, errors.New("no embedding returned")
	}
	return vecs[0], nil
}

func (f *fakeEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	call := f.calls
	f.calls++
	if f.failCalls[call] {
		return nil, fmt.Errorf("embed call %d failed", call)
	}
	out := make([][]float32, 0, len(texts))
	for _, t := range texts {
		out = append(out, f.vectorFor(t))
	}
	if f.short && len(out) > 0 {
		out = out[:len(out)-1]
	}
	return out, nil
}

func (f *fakeEmbedder) Dimensions() int { return f.dim }

func (f *fakeEmbedder) ModelName() string { return "fake-embedder" }

func (f *fakeEmbedder) Ping(context.Context) error { return nil }

func (f *fakeEmbedder) Close() error { return nil }

// memStore is an in-memory embedding store.
type memStore struct {
	rows    [][]float32
	dim     int
	flushes int
}

var _ driven.EmbeddingStore = (*memStore)(nil)

func newMemStore(rows, dim int) *memStore {
	return &memStore{rows: make([][]float32, rows), dim: dim}
}

func (m *memStore) WriteRow(row int, vec []float32) error {
	if row < 0 || row >= len(m.rows) {
		return domain.ErrRowOutOfRange
	}
	if len(vec) != m.dim {
		return domain.ErrBadShape
	}
	m.rows[row] = append([]float32(nil), vec...)
	return nil
}

func (m *memStore) ReadRow(row int) ([]float32, error) {
	if row < 0 || row >= len(m.rows) {
		return nil, domain.ErrRowOutOfRange
	}
	if m.rows[row] == nil {
		return make([]float32, m.dim), nil
	}
	return m.rows[row], nil
}

func (m *memStore) Flush() error { m.flushes++; return nil }
func (m *memStore) Rows() int    { return len(m.rows) }
func (m *memStore) Dim() int     { return m.dim }
func (m *memStore) Close() error { return nil }

// fakeIndex records index calls and serves canned hits.
type fakeIndex struct {
	exists      bool
	dims        int
	createCalls int
	created     []string
	upserts     [][]driven.Point
	hits        []driven.Hit
	queryErr    error
}

var _ driven.VectorIndex = (*fakeIndex)(nil)

func (f *fakeIndex) CollectionExists(_ context.Context, _ string) (bool, error) {
	return f.exists, nil
}

func (f *fakeIndex) CollectionDimensions(_ context.Context, _ string) (int, error) {
	return f.dims, nil
}

func (f *fakeIndex) CreateCollection(_ context.Context, name string, dim int) error {
	f.createCalls++
	f.created = append(f.created, name)
	f.exists = true
	f.dims = dim
	return nil
}

func (f *fakeIndex) UpsertPoints(_ context.Context, _ string, points []driven.Point) error {
	f.upserts = append(f.upserts, points)
	return nil
}

func (f *fakeIndex) Query(_ context.Context, _ string, _ []float32, k int) ([]driven.Hit, error) {
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	if k > len(f.hits) {
		k = len(f.hits)
	}
	return f.hits[:k], nil
}
