// Package trie implements the static trie engine: packed node records,
// the tail store, the recursive builder, the query algorithms, and the
// binary codec. The public API lives in the root package.
package trie

// Node is one packed trie record. The layout is part of the serialized
// format and must not change within a format version:
//
//	bits 0-31   link      first-child index (0 = leaf)
//	bits 32-39  base      edge label byte, or low 8 bits of the tail offset
//	bit  40     tail      base+extra hold a tail store offset
//	bit  41     terminal  node ends a stored key
//	bit  42     sibling   next child of the same parent follows at index+1
//	bits 43-63  extra     reserved (0), or high 21 bits of the tail offset
//
// link is readable regardless of the tail flag. extra is defined only
// while the tail flag is clear; Extra returns 0 otherwise. A tail-flagged
// node's edge is the whole stored tail string, so its first tail byte
// doubles as the edge label.
type Node uint64

const (
	linkMask  = 0xFFFFFFFF
	baseShift = 32
	baseMask  = Node(0xFF) << baseShift

	flagTail     = Node(1) << 40
	flagTerminal = Node(1) << 41
	flagSibling  = Node(1) << 42

	extraShift = 43
	extraBits  = 21
	extraMask  = Node(1)<<extraBits - 1

	// MaxTailOffset is the largest tail store offset a record can hold
	// (8 base bits + 21 extra bits).
	MaxTailOffset = 1<<(8+extraBits) - 1

	// MaxNodes bounds the node array so link always fits its field.
	MaxNodes = 1 << 32
)

// Link returns the first-child index.
func (n Node) Link() uint32 { return uint32(n & linkMask) }

// SetLink stores the first-child index.
func (n *Node) SetLink(v uint32) {
	*n = (*n &^ linkMask) | Node(v)
}

// Base returns the label byte (or the low 8 bits of the tail offset).
func (n Node) Base() byte { return byte(n >> baseShift) }

// SetBase stores a label byte and resets the extra bits to zero.
func (n *Node) SetBase(b byte) {
	*n = (*n &^ (baseMask | extraMask<<extraShift)) | Node(b)<<baseShift
}

// Extra returns the extra bits, or 0 while the node is tail-flagged.
func (n Node) Extra() uint32 {
	if n.IsTail() {
		return 0
	}
	return uint32(n >> extraShift)
}

// SetExtra stores the extra bits. v must fit in 21 bits.
func (n *Node) SetExtra(v uint32) {
	*n = (*n &^ (extraMask << extraShift)) | Node(v&uint32(extraMask))<<extraShift
}

// IsTail reports whether base+extra hold a tail store offset.
func (n Node) IsTail() bool { return n&flagTail != 0 }

// Terminal reports whether the node ends a stored key.
func (n Node) Terminal() bool { return n&flagTerminal != 0 }

// SetTerminal marks the node as ending a stored key.
func (n *Node) SetTerminal() { *n |= flagTerminal }

// HasSibling reports whether the next array slot holds another child of
// the same parent.
func (n Node) HasSibling() bool { return n&flagSibling != 0 }

// SetSibling marks the node as having a following sibling.
func (n *Node) SetSibling() { *n |= flagSibling }

// TailOffset returns the tail store offset. Valid only when IsTail.
func (n Node) TailOffset() uint32 {
	return uint32(n.Base()) | uint32(n>>extraShift)<<8
}

// SetTailOffset stores a tail store offset and sets the tail flag.
// off must not exceed MaxTailOffset.
func (n *Node) SetTailOffset(off uint32) {
	*n = (*n &^ (baseMask | extraMask<<extraShift)) |
		Node(off&0xFF)<<baseShift |
		Node(off>>8)<<extraShift |
		flagTail
}
