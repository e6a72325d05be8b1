package trie

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tokuhirom/rsmarisa/persistence"
)

func serialize(t *testing.T, tr *Trie) []byte {
	t.Helper()
	var buf bytes.Buffer
	n, err := tr.WriteTo(&buf)
	require.NoError(t, err)
	require.Equal(t, int64(buf.Len()), n)
	return buf.Bytes()
}

func TestWriteToIsExactlyIOSize(t *testing.T) {
	for _, keys := range [][]string{
		nil,
		{""},
		{"a", "app"},
		testKeys,
	} {
		tr := buildTest(t, keys, BuildOptions{})
		data := serialize(t, tr)
		assert.Equal(t, tr.IOSize(), uint64(len(data)), "keys %v", keys)
	}
}

func TestWriteToHeaderLayout(t *testing.T) {
	tr := buildTest(t, []string{"a", "app"}, BuildOptions{})
	data := serialize(t, tr)
	require.GreaterOrEqual(t, len(data), persistence.HeaderSize)

	// "MTR0" little-endian.
	assert.Equal(t, []byte{0x30, 0x52, 0x54, 0x4D}, data[0:4])
	assert.Equal(t, uint32(persistence.Version), binary.LittleEndian.Uint32(data[4:]))
	assert.Equal(t, uint32(0), binary.LittleEndian.Uint32(data[8:]), "text mode, label order")
	assert.Equal(t, uint32(1), binary.LittleEndian.Uint32(data[12:]))
	assert.Equal(t, uint64(2), binary.LittleEndian.Uint64(data[16:]))
	assert.Equal(t, tr.NumNodes(), binary.LittleEndian.Uint64(data[24:]))
	assert.Equal(t, uint64(len(data)), binary.LittleEndian.Uint64(data[32:]))
}

func TestWriteToDeterministic(t *testing.T) {
	a, err := Build([][]byte{[]byte("cat"), []byte("dog"), []byte("cow")}, nil, BuildOptions{})
	require.NoError(t, err)
	b, err := Build([][]byte{[]byte("dog"), []byte("cow"), []byte("cat")}, nil, BuildOptions{})
	require.NoError(t, err)

	assert.Equal(t, serialize(t, a), serialize(t, b))
}

func roundTrip(t *testing.T, keys []string, opt BuildOptions) (*Trie, *Trie) {
	t.Helper()
	tr := buildTest(t, keys, opt)
	data := serialize(t, tr)
	loaded, err := ReadFrom(bytes.NewReader(data))
	require.NoError(t, err)
	return tr, loaded
}

func assertSameTrie(t *testing.T, want, got *Trie, keys []string) {
	t.Helper()
	assert.Equal(t, want.NumKeys(), got.NumKeys())
	assert.Equal(t, want.NumNodes(), got.NumNodes())
	for _, k := range keys {
		wantID, ok := want.Lookup([]byte(k))
		require.True(t, ok)
		gotID, ok := got.Lookup([]byte(k))
		require.True(t, ok, "key %q lost in round trip", k)
		assert.Equal(t, wantID, gotID, "key %q", k)
	}
}

func TestReadFromRoundTrip(t *testing.T) {
	t.Run("text", func(t *testing.T) {
		want, got := roundTrip(t, testKeys, BuildOptions{})
		assertSameTrie(t, want, got, testKeys)
	})

	t.Run("weight order flag", func(t *testing.T) {
		want, got := roundTrip(t, testKeys, BuildOptions{Order: OrderWeight})
		assert.Equal(t, OrderWeight, got.Order())
		assertSameTrie(t, want, got, testKeys)
	})

	t.Run("empty", func(t *testing.T) {
		want, got := roundTrip(t, nil, BuildOptions{})
		assert.Equal(t, uint64(0), got.NumKeys())
		assert.Equal(t, want.NumNodes(), got.NumNodes())
	})
}

func TestReadFromBinaryTail(t *testing.T) {
	keys := [][]byte{{0x01, 0x02, 0x00, 0x03}, {0x07}}
	tr, err := Build(keys, nil, BuildOptions{})
	require.NoError(t, err)
	require.Equal(t, TailBinary, tr.TailMode())

	data := serialize(t, tr)
	loaded, err := ReadFrom(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, TailBinary, loaded.TailMode())

	for _, k := range keys {
		wantID, ok := tr.Lookup(k)
		require.True(t, ok)
		gotID, ok := loaded.Lookup(k)
		require.True(t, ok)
		assert.Equal(t, wantID, gotID)
	}
}

func TestReadFromRejectsCorruption(t *testing.T) {
	tr := buildTest(t, testKeys, BuildOptions{})
	data := serialize(t, tr)

	t.Run("bad magic", func(t *testing.T) {
		bad := append([]byte(nil), data...)
		bad[0] ^= 0xFF
		_, err := ReadFrom(bytes.NewReader(bad))
		assert.ErrorIs(t, err, persistence.ErrInvalidMagic)
	})

	t.Run("bad version", func(t *testing.T) {
		bad := append([]byte(nil), data...)
		binary.LittleEndian.PutUint32(bad[4:], 0x00020000)
		_, err := ReadFrom(bytes.NewReader(bad))
		assert.ErrorIs(t, err, persistence.ErrInvalidVersion)
	})

	t.Run("reserved flags", func(t *testing.T) {
		bad := append([]byte(nil), data...)
		binary.LittleEndian.PutUint32(bad[8:], 1<<7)
		_, err := ReadFrom(bytes.NewReader(bad))
		assert.ErrorIs(t, err, persistence.ErrInvalidFlags)
	})

	t.Run("unsupported levels", func(t *testing.T) {
		bad := append([]byte(nil), data...)
		binary.LittleEndian.PutUint32(bad[12:], 3)
		_, err := ReadFrom(bytes.NewReader(bad))
		assert.ErrorIs(t, err, persistence.ErrUnsupportedLevels)
	})

	t.Run("declared size mismatch", func(t *testing.T) {
		bad := append([]byte(nil), data...)
		binary.LittleEndian.PutUint64(bad[32:], uint64(len(bad))+8)
		_, err := ReadFrom(bytes.NewReader(bad))
		assert.ErrorIs(t, err, persistence.ErrSizeMismatch)
	})

	t.Run("truncated", func(t *testing.T) {
		_, err := ReadFrom(bytes.NewReader(data[:len(data)-10]))
		assert.ErrorIs(t, err, persistence.ErrTruncated)
	})

	t.Run("flipped payload byte", func(t *testing.T) {
		bad := append([]byte(nil), data...)
		bad[persistence.HeaderSize+3] ^= 0x40
		_, err := ReadFrom(bytes.NewReader(bad))
		var cm *persistence.ChecksumMismatchError
		if !assert.ErrorAs(t, err, &cm) {
			t.Logf("got error: %v", err)
		}
	})
}

func TestReadFromRejectsUnterminatedBinaryTail(t *testing.T) {
	tr, err := Build([][]byte{{0x01, 0x02, 0x00, 0x03}, {0x07}}, nil, BuildOptions{})
	require.NoError(t, err)
	require.Equal(t, TailBinary, tr.TailMode())

	// Zero the single end-flags word so no tail string terminates, then
	// restore a valid checksum so only the structure check can object.
	data := serialize(t, tr)
	wordOff := len(data) - persistence.ChecksumSize - 8
	binary.LittleEndian.PutUint64(data[wordOff:], 0)
	body := data[:len(data)-persistence.ChecksumSize]
	binary.LittleEndian.PutUint32(data[wordOff+8:], crc32.ChecksumIEEE(body))

	_, err = ReadFrom(bytes.NewReader(data))
	assert.ErrorIs(t, err, ErrMalformed)

	_, err = DecodeMapped(data)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestDecodeMapped(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		tr := buildTest(t, testKeys, BuildOptions{})
		data := serialize(t, tr)

		loaded, err := DecodeMapped(data)
		require.NoError(t, err)
		assertSameTrie(t, tr, loaded, testKeys)
	})

	t.Run("binary tail", func(t *testing.T) {
		keys := [][]byte{{0x10, 0x00, 0x20}, {0x30}}
		tr, err := Build(keys, nil, BuildOptions{})
		require.NoError(t, err)

		data := serialize(t, tr)
		loaded, err := DecodeMapped(data)
		require.NoError(t, err)
		for _, k := range keys {
			_, ok := loaded.Lookup(k)
			assert.True(t, ok)
		}
	})

	t.Run("tampered", func(t *testing.T) {
		tr := buildTest(t, testKeys, BuildOptions{})
		data := serialize(t, tr)
		data[persistence.HeaderSize] ^= 1
		_, err := DecodeMapped(data)
		var cm *persistence.ChecksumMismatchError
		assert.ErrorAs(t, err, &cm)
	})

	t.Run("truncated", func(t *testing.T) {
		tr := buildTest(t, testKeys, BuildOptions{})
		data := serialize(t, tr)
		_, err := DecodeMapped(data[:len(data)-1])
		assert.ErrorIs(t, err, persistence.ErrSizeMismatch)
	})
}
