package session

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalBlobStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store, err := NewLocalBlobStore(filepath.Join(t.TempDir(), "storage"))
	require.NoError(t, err)

	exists, err := store.BlobExists(ctx, "uploads/a.xlsx")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, store.StoreBlob(ctx, "uploads/a.xlsx", []byte("one")))
	require.NoError(t, store.StoreBlob(ctx, "uploads/a.xlsx", []byte("two")))

	data, err := store.ReadBlob(ctx, "uploads/a.xlsx")
	require.NoError(t, err)
	assert.Equal(t, "two", string(data))

	meta, err := store.GetBlobMetadata(ctx, "uploads/a.xlsx")
	require.NoError(t, err)
	assert.Equal(t, int64(3), meta.Size)
	assert.False(t, meta.LastModified.IsZero())

	entries, err := os.ReadDir(filepath.Join(store.BasePath(), "uploads"))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestLocalBlobStore_Missing(t *testing.T) {
	ctx := context.Background()
	store, err := NewLocalBlobStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.ReadBlob(ctx, "latest.json")
	assert.ErrorIs(t, err, fs.ErrNotExist)

	_, err = store.GetBlobMetadata(ctx, "latest.json")
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestLocalBlobStore_CanceledContext(t *testing.T) {
	store, err := NewLocalBlobStore(t.TempDir())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, store.StoreBlob(ctx, "latest.json", []byte("{}")), context.Canceled)
}
