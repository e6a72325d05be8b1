package rsmarisa

import (
	"bytes"

	"github.com/cespare/xxhash/v2"
)

// Keyset collects the keys (and optional weights) a build consumes.
// Keys may be pushed in any order; the build sorts them. Pushed bytes
// are copied, so callers may reuse their buffers.
//
// Keyset keeps an xxhash index over pushed keys so Contains stays cheap
// even for large sets, letting callers screen duplicates up front
// instead of paying for a failed build.
type Keyset struct {
	keys    [][]byte
	weights []float32
	total   int

	// hash -> positions of keys with that hash, verified on probe.
	index map[uint64][]int
}

// NewKeyset creates an empty key set.
func NewKeyset() *Keyset {
	return &Keyset{index: make(map[uint64][]int)}
}

// Push appends a key with weight 1.
func (ks *Keyset) Push(key []byte) {
	ks.PushWeight(key, 1)
}

// PushString appends a string key with weight 1.
func (ks *Keyset) PushString(key string) {
	ks.PushWeight([]byte(key), 1)
}

// PushWeight appends a key with an explicit weight. Weights only matter
// under OrderWeight; merged duplicates sum their weights.
func (ks *Keyset) PushWeight(key []byte, weight float32) {
	cp := make([]byte, len(key))
	copy(cp, key)
	h := xxhash.Sum64(cp)
	ks.index[h] = append(ks.index[h], len(ks.keys))
	ks.keys = append(ks.keys, cp)
	ks.weights = append(ks.weights, weight)
	ks.total += len(cp)
}

// Contains reports whether key has been pushed.
func (ks *Keyset) Contains(key []byte) bool {
	for _, i := range ks.index[xxhash.Sum64(key)] {
		if bytes.Equal(ks.keys[i], key) {
			return true
		}
	}
	return false
}

// Len returns the number of pushed keys, duplicates included.
func (ks *Keyset) Len() int { return len(ks.keys) }

// TotalLength returns the summed length of all pushed keys in bytes.
func (ks *Keyset) TotalLength() int { return ks.total }

// Key returns the i-th pushed key. The returned slice must not be
// modified.
func (ks *Keyset) Key(i int) []byte { return ks.keys[i] }

// Weight returns the i-th pushed weight.
func (ks *Keyset) Weight(i int) float32 { return ks.weights[i] }
