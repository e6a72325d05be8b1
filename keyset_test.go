package rsmarisa_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tokuhirom/rsmarisa"
)

func TestKeyset(t *testing.T) {
	ks := rsmarisa.NewKeyset()
	assert.Equal(t, 0, ks.Len())
	assert.False(t, ks.Contains([]byte("apple")))

	buf := []byte("apple")
	ks.Push(buf)
	buf[0] = 'z' // pushed keys must be copies

	ks.PushString("banana")
	ks.PushWeight([]byte("cherry"), 2.5)

	assert.Equal(t, 3, ks.Len())
	assert.Equal(t, len("apple")+len("banana")+len("cherry"), ks.TotalLength())

	assert.True(t, ks.Contains([]byte("apple")))
	assert.True(t, ks.Contains([]byte("banana")))
	assert.False(t, ks.Contains([]byte("zpple")))

	assert.Equal(t, []byte("apple"), ks.Key(0))
	assert.Equal(t, float32(1), ks.Weight(0))
	assert.Equal(t, float32(2.5), ks.Weight(2))
}

func TestKeysetBuild(t *testing.T) {
	ks := rsmarisa.NewKeyset()
	for _, w := range words {
		ks.PushString(w)
	}

	tr, err := rsmarisa.Build(ks)
	require.NoError(t, err)
	assert.Equal(t, uint64(len(words)), tr.NumKeys())
}

func TestZeroValueTrie(t *testing.T) {
	var tr rsmarisa.Trie

	_, ok := tr.Lookup([]byte("x"))
	assert.False(t, ok)
	_, err := tr.ReverseLookup(0)
	assert.ErrorIs(t, err, rsmarisa.ErrNotBuilt)
	assert.Equal(t, uint64(0), tr.NumKeys())
	assert.True(t, tr.Empty())
}
