package trie

// BitVector is a plain append-only bit sequence. It terminates tail
// strings in binary tail mode, where NUL bytes may occur in key data.
type BitVector struct {
	words []uint64
	n     int
}

// Push appends one bit.
func (bv *BitVector) Push(bit bool) {
	if bv.n&63 == 0 {
		bv.words = append(bv.words, 0)
	}
	if bit {
		bv.words[bv.n>>6] |= 1 << (bv.n & 63)
	}
	bv.n++
}

// Get returns the i-th bit. i must be in [0, Len).
func (bv *BitVector) Get(i int) bool {
	return bv.words[i>>6]&(1<<(i&63)) != 0
}

// Len returns the number of bits.
func (bv *BitVector) Len() int { return bv.n }

// Words exposes the backing words for serialization. Bits past Len are
// zero.
func (bv *BitVector) Words() []uint64 { return bv.words }

// Reset replaces the vector contents. words must cover n bits.
func (bv *BitVector) Reset(words []uint64, n int) {
	bv.words = words
	bv.n = n
}
