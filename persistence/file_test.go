package persistence

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveToFileAndLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blob.bin")
	payload := []byte("serialized trie bytes")

	err := SaveToFile(path, func(w io.Writer) error {
		_, err := w.Write(payload)
		return err
	})
	require.NoError(t, err)

	var got []byte
	err = LoadFromFile(path, func(r io.Reader) error {
		var err error
		got, err = io.ReadAll(r)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestSaveToFileCleansUpOnError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "blob.bin")
	boom := errors.New("boom")

	err := SaveToFile(path, func(io.Writer) error { return boom })
	require.ErrorIs(t, err, boom)

	// Neither the target nor a temp file may remain.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSaveToFileOverwritesAtomically(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blob.bin")

	for _, payload := range []string{"first version", "second"} {
		err := SaveToFile(path, func(w io.Writer) error {
			_, err := io.WriteString(w, payload)
			return err
		})
		require.NoError(t, err)
	}

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
}

func TestMapFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blob.bin")
	payload := []byte("mapped bytes")
	require.NoError(t, os.WriteFile(path, payload, 0644))

	mf, err := MapFile(path)
	require.NoError(t, err)
	assert.Equal(t, payload, mf.Bytes())
	require.NoError(t, mf.Close())
	assert.Nil(t, mf.Bytes())
}
