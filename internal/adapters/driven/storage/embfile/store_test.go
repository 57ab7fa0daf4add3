package embfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chefrag-labs/chefrag-cli/internal/core/domain"
)

func TestCreateWriteRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vectors.mmap")

	store, err := Create(path, 3, 4)
	require.NoError(t, err)
	defer store.Close()

	assert.Equal(t, 3, store.Rows())
	assert.Equal(t, 4, store.Dim())

	vec := []float32{0.1, -2.5, 3.75, 0}
	require.NoError(t, store.WriteRow(1, vec))
	require.NoError(t, store.Flush())

	got, err := store.ReadRow(1)
	require.NoError(t, err)
	assert.Equal(t, vec, got)

	// Untouched rows read back as zeros.
	zero, err := store.ReadRow(0)
	require.NoError(t, err)
	assert.Equal(t, make([]float32, 4), zero)
}

func TestCreate_FileSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vectors.mmap")

	store, err := Create(path, 5, 8)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, int64(5*8*4), info.Size())
}

func TestCreate_Truncates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vectors.mmap")

	store, err := Create(path, 2, 2)
	require.NoError(t, err)
	require.NoError(t, store.WriteRow(0, []float32{1, 2}))
	require.NoError(t, store.Close())

	store, err = Create(path, 2, 2)
	require.NoError(t, err)
	defer store.Close()

	got, err := store.ReadRow(0)
	require.NoError(t, err)
	assert.Equal(t, []float32{0, 0}, got)
}

func TestWriteRow_Errors(t *testing.T) {
	store, err := Create(filepath.Join(t.TempDir(), "v.mmap"), 2, 3)
	require.NoError(t, err)
	defer store.Close()

	assert.ErrorIs(t, store.WriteRow(-1, make([]float32, 3)), domain.ErrRowOutOfRange)
	assert.ErrorIs(t, store.WriteRow(2, make([]float32, 3)), domain.ErrRowOutOfRange)
	assert.ErrorIs(t, store.WriteRow(0, make([]float32, 2)), domain.ErrBadShape)
	assert.ErrorIs(t, store.WriteRow(0, nil), domain.ErrBadShape)
}

func TestReadRow_OutOfRange(t *testing.T) {
	store, err := Create(filepath.Join(t.TempDir(), "v.mmap"), 2, 3)
	require.NoError(t, err)
	defer store.Close()

	_, err = store.ReadRow(2)
	assert.ErrorIs(t, err, domain.ErrRowOutOfRange)
}

func TestOpenReadOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "v.mmap")

	w, err := Create(path, 2, 2)
	require.NoError(t, err)
	require.NoError(t, w.WriteRow(1, []float32{7, -7}))
	require.NoError(t, w.Close())

	r, err := OpenReadOnly(path, 2, 2)
	require.NoError(t, err)
	defer r.Close()

	got, err := r.ReadRow(1)
	require.NoError(t, err)
	assert.Equal(t, []float32{7, -7}, got)

	assert.ErrorIs(t, r.WriteRow(0, []float32{1, 2}), domain.ErrStoreReadOnly)
}

func TestOpenReadOnly_SizeMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "v.mmap")

	w, err := Create(path, 2, 2)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	_, err = OpenReadOnly(path, 3, 2)
	assert.ErrorIs(t, err, domain.ErrStoreSize)

	_, err = OpenReadOnly(path, 2, 4)
	assert.ErrorIs(t, err, domain.ErrStoreSize)
}

func TestClosedStore(t *testing.T) {
	store, err := Create(filepath.Join(t.TempDir(), "v.mmap"), 1, 1)
	require.NoError(t, err)
	require.NoError(t, store.Close())
	require.NoError(t, store.Close())

	assert.ErrorIs(t, store.WriteRow(0, []float32{1}), domain.ErrStoreClosed)
	_, err = store.ReadRow(0)
	assert.ErrorIs(t, err, domain.ErrStoreClosed)
}
