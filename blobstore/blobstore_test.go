package blobstore

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T, store BlobStore) {
	t.Helper()
	ctx := context.Background()

	t.Run("open missing", func(t *testing.T) {
		_, err := store.Open(ctx, "missing")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("create and open", func(t *testing.T) {
		wb, err := store.Create(ctx, "dir/blob")
		require.NoError(t, err)
		_, err = wb.Write([]byte("hello "))
		require.NoError(t, err)
		_, err = wb.Write([]byte("world"))
		require.NoError(t, err)
		require.NoError(t, wb.Close())

		blob, err := store.Open(ctx, "dir/blob")
		require.NoError(t, err)
		defer blob.Close()

		assert.Equal(t, int64(11), blob.Size())
		data, err := io.ReadAll(blob)
		require.NoError(t, err)
		assert.Equal(t, "hello world", string(data))
	})

	t.Run("list", func(t *testing.T) {
		wb, err := store.Create(ctx, "dir/other")
		require.NoError(t, err)
		require.NoError(t, wb.Close())

		names, err := store.List(ctx, "dir/")
		require.NoError(t, err)
		assert.Equal(t, []string{"dir/blob", "dir/other"}, names)

		names, err = store.List(ctx, "nope/")
		require.NoError(t, err)
		assert.Empty(t, names)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, "dir/other"))
		_, err := store.Open(ctx, "dir/other")
		assert.ErrorIs(t, err, ErrNotFound)

		// Deleting again is not an error.
		assert.NoError(t, store.Delete(ctx, "dir/other"))
	})
}

func TestMemoryStore(t *testing.T) {
	testStore(t, NewMemoryStore())
}

func TestLocalStore(t *testing.T) {
	testStore(t, NewLocalStore(t.TempDir()))
}

func TestLocalStoreUncommittedBlobInvisible(t *testing.T) {
	ctx := context.Background()
	store := NewLocalStore(t.TempDir())

	wb, err := store.Create(ctx, "pending")
	require.NoError(t, err)
	_, err = wb.Write([]byte("partial"))
	require.NoError(t, err)

	// Not closed yet: Open must not see it.
	_, err = store.Open(ctx, "pending")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, wb.Close())
	blob, err := store.Open(ctx, "pending")
	require.NoError(t, err)
	defer blob.Close()
	assert.Equal(t, int64(7), blob.Size())
}
