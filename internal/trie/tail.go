package trie

import (
	"bytes"
	"sort"
)

// TailMode selects how stored tail strings are terminated.
type TailMode uint8

const (
	// TailText terminates tails with a NUL byte. Chosen by default;
	// builds fall back to TailBinary when a tail contains NUL itself.
	TailText TailMode = iota
	// TailBinary terminates tails with a bit vector marking each last
	// byte, so tails may contain arbitrary bytes.
	TailBinary
)

// Tail is the shared suffix store. Each tail-flagged node references one
// stored string by offset. Strings whose bytes are a suffix of another
// stored string share its storage.
type Tail struct {
	buf      []byte
	endFlags BitVector
	mode     TailMode
}

// Mode returns the termination mode.
func (t *Tail) Mode() TailMode { return t.mode }

// Len returns the size of the tail buffer in bytes.
func (t *Tail) Len() int { return len(t.buf) }

// Bytes exposes the raw buffer for serialization.
func (t *Tail) Bytes() []byte { return t.buf }

// EndFlags exposes the termination bit vector (binary mode only).
func (t *Tail) EndFlags() *BitVector { return &t.endFlags }

// Reset replaces the store contents, as done by the loader.
func (t *Tail) Reset(buf []byte, endFlags BitVector, mode TailMode) {
	t.buf = buf
	t.endFlags = endFlags
	t.mode = mode
}

// buildTail lays out the given strings in a shared buffer and returns
// the offset of each. Strings must be non-empty. mode is upgraded to
// TailBinary if any string contains NUL. Offsets are returned wide;
// the caller range-checks them before narrowing into node records.
func buildTail(tails [][]byte, mode TailMode) (*Tail, []uint64) {
	if mode == TailText {
	scan:
		for _, s := range tails {
			for _, b := range s {
				if b == 0 {
					mode = TailBinary
					break scan
				}
			}
		}
	}

	t := &Tail{mode: mode}
	offsets := make([]uint64, len(tails))

	// Sort by reversed bytes so that a string which is a suffix of
	// another ends up right before it and can share its storage.
	order := make([]int, len(tails))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return compareReversed(tails[order[i]], tails[order[j]]) < 0
	})

	var last []byte
	var lastOffset uint64
	for i := len(order) - 1; i >= 0; i-- {
		id := order[i]
		cur := tails[id]
		if isSuffixOf(cur, last) {
			offsets[id] = lastOffset + uint64(len(last)-len(cur))
		} else {
			off := uint64(len(t.buf))
			t.buf = append(t.buf, cur...)
			if mode == TailText {
				t.buf = append(t.buf, 0)
			} else {
				for j := 0; j < len(cur)-1; j++ {
					t.endFlags.Push(false)
				}
				t.endFlags.Push(true)
			}
			offsets[id] = off
			lastOffset = off
			last = cur
		}
	}
	return t, offsets
}

func isSuffixOf(short, long []byte) bool {
	if len(short) == 0 || len(short) > len(long) {
		return false
	}
	d := len(long) - len(short)
	for i := range short {
		if short[i] != long[d+i] {
			return false
		}
	}
	return true
}

// At returns the first byte of the tail string at off. This is the edge
// label of the referencing node.
func (t *Tail) At(off uint32) byte { return t.buf[off] }

// length returns the stored length of the tail string at off.
func (t *Tail) length(off uint32) int {
	if t.mode == TailText {
		i := int(off)
		for t.buf[i] != 0 {
			i++
		}
		return i - int(off)
	}
	i := int(off)
	for !t.endFlags.Get(i) {
		i++
	}
	return i - int(off) + 1
}

// Restore returns a copy of the tail string at off appended to dst.
func (t *Tail) Restore(dst []byte, off uint32) []byte {
	n := t.length(off)
	return append(dst, t.buf[off:int(off)+n]...)
}

// MatchExact reports whether q[pos:] equals the tail string at off
// exactly, including the length.
func (t *Tail) MatchExact(off uint32, q []byte, pos int) bool {
	n := t.length(off)
	if len(q)-pos != n {
		return false
	}
	return bytes.Equal(t.buf[off:int(off)+n], q[pos:])
}

// MatchPrefix reports whether the tail string at off is a prefix of
// q[pos:], returning the tail length on success.
func (t *Tail) MatchPrefix(off uint32, q []byte, pos int) (int, bool) {
	n := t.length(off)
	if len(q)-pos < n {
		return 0, false
	}
	if !bytes.Equal(t.buf[off:int(off)+n], q[pos:pos+n]) {
		return 0, false
	}
	return n, true
}

// MatchesQueryPrefix reports whether q[pos:] is a prefix of the tail
// string at off (the predictive-search descent case).
func (t *Tail) MatchesQueryPrefix(off uint32, q []byte, pos int) bool {
	n := t.length(off)
	if len(q)-pos > n {
		return false
	}
	return bytes.Equal(t.buf[off:int(off)+len(q)-pos], q[pos:])
}
