package trie

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompareReversed(t *testing.T) {
	assert.Equal(t, 0, compareReversed([]byte("abc"), []byte("abc")))
	assert.Equal(t, -1, compareReversed([]byte("le"), []byte("apple")))
	assert.Equal(t, 1, compareReversed([]byte("apple"), []byte("le")))
	assert.Equal(t, -1, compareReversed([]byte("pea"), []byte("peb")))
	assert.Equal(t, -1, compareReversed([]byte(""), []byte("x")))
}

func TestBuildTailSharing(t *testing.T) {
	tails := [][]byte{[]byte("apple"), []byte("le"), []byte("pp")}
	tail, offsets := buildTail(tails, TailText)
	require.Len(t, offsets, 3)

	assert.Equal(t, TailText, tail.Mode())
	for i, want := range tails {
		got := tail.Restore(nil, uint32(offsets[i]))
		assert.Equal(t, want, got)
	}

	// "le" is a suffix of "apple" and must share its storage, so the
	// buffer holds "apple\0" and "pp\0" only.
	assert.Equal(t, len("apple")+1+len("pp")+1, tail.Len())
	assert.Equal(t, offsets[0]+3, offsets[1])
}

func TestBuildTailBinaryUpgrade(t *testing.T) {
	tails := [][]byte{{0x61, 0x00, 0x62}, {0x62}}
	tail, offsets := buildTail(tails, TailText)

	assert.Equal(t, TailBinary, tail.Mode())
	assert.Equal(t, tail.Len(), tail.EndFlags().Len())
	for i, want := range tails {
		assert.Equal(t, want, tail.Restore(nil, uint32(offsets[i])))
	}
}

func TestBuildTailWideOffsets(t *testing.T) {
	if testing.Short() {
		t.Skip("allocates a tail buffer past the record offset limit")
	}

	// One huge string stored first pushes the next stored offset past
	// what a node record can hold; the returned offset must not wrap.
	big := make([]byte, MaxTailOffset+1)
	big[len(big)-1] = 0xFF
	small := []byte{0x01, 0x01}

	tail, offsets := buildTail([][]byte{big, small}, TailBinary)
	require.Len(t, offsets, 2)
	assert.Equal(t, uint64(0), offsets[0])
	assert.Equal(t, uint64(len(big)), offsets[1])
	assert.Greater(t, offsets[1], uint64(MaxTailOffset))
	assert.Equal(t, len(big)+len(small), tail.Len())
}

func TestTailMatching(t *testing.T) {
	tail, offsets := buildTail([][]byte{[]byte("ication")}, TailText)
	off := uint32(offsets[0])

	t.Run("exact", func(t *testing.T) {
		assert.True(t, tail.MatchExact(off, []byte("application"), 4))
		assert.False(t, tail.MatchExact(off, []byte("applications"), 4))
		assert.False(t, tail.MatchExact(off, []byte("applicatio"), 4))
	})

	t.Run("prefix", func(t *testing.T) {
		n, ok := tail.MatchPrefix(off, []byte("applications"), 4)
		require.True(t, ok)
		assert.Equal(t, 7, n)

		_, ok = tail.MatchPrefix(off, []byte("applicable"), 4)
		assert.False(t, ok)
	})

	t.Run("query prefix", func(t *testing.T) {
		assert.True(t, tail.MatchesQueryPrefix(off, []byte("appli"), 4))
		assert.True(t, tail.MatchesQueryPrefix(off, []byte("application"), 4))
		assert.False(t, tail.MatchesQueryPrefix(off, []byte("applications"), 4))
		assert.False(t, tail.MatchesQueryPrefix(off, []byte("apple"), 4))
	})
}
