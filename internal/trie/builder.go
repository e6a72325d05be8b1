package trie

import (
	"errors"
	"fmt"
)

// NodeOrder selects how children of one node are laid out, which in turn
// fixes the order key ids are assigned in.
type NodeOrder uint8

const (
	// OrderLabel lays children out by ascending edge label. Ids then
	// follow lexicographic key order.
	OrderLabel NodeOrder = iota
	// OrderWeight lays children out by descending cumulative weight,
	// keeping label order between equal weights. Frequent keys get
	// smaller ids.
	OrderWeight
)

// DuplicatePolicy decides what a build does with repeated keys.
type DuplicatePolicy uint8

const (
	// DuplicateReject fails the build on the first repeated key.
	DuplicateReject DuplicatePolicy = iota
	// DuplicateMerge collapses repeated keys into one, summing weights.
	DuplicateMerge
)

var (
	// ErrTooManyNodes is returned when a build would exceed the 32-bit
	// link field of the node record.
	ErrTooManyNodes = errors.New("node count exceeds format limit")

	// ErrTailTooLarge is returned when a tail store offset would exceed
	// the 29 bits a node record can hold.
	ErrTailTooLarge = errors.New("tail store exceeds format limit")
)

// DuplicateKeyError reports the first repeated key seen by a rejecting
// build.
type DuplicateKeyError struct {
	Key []byte
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate key %q", e.Key)
}

// BuildOptions carries the construction knobs. The zero value is the
// default configuration.
type BuildOptions struct {
	TailMode    TailMode
	Order       NodeOrder
	OnDuplicate DuplicatePolicy
}

// Build constructs a trie over the given keys. weights may be nil, in
// which case every key weighs 1. Keys need not be sorted or unique;
// repeated keys are handled per opt.OnDuplicate.
func Build(keys [][]byte, weights []float32, opt BuildOptions) (*Trie, error) {
	entries := make([]entry, len(keys))
	for i, k := range keys {
		w := float32(1)
		if weights != nil {
			w = weights[i]
		}
		entries[i] = entry{data: k, weight: w}
	}
	sortEntries(entries)

	entries, err := dedupe(entries, opt.OnDuplicate)
	if err != nil {
		return nil, err
	}

	b := &builder{
		entries: entries,
		nodes:   make([]Node, 1),
		order:   opt.Order,
	}

	lo := 0
	if len(entries) > 0 && len(entries[0].data) == 0 {
		b.nodes[0].SetTerminal()
		lo = 1
	}
	if lo < len(entries) {
		if err := b.build(0, lo, len(entries), 0); err != nil {
			return nil, err
		}
	}

	tail, offsets := buildTail(b.tails, opt.TailMode)
	for i, off := range offsets {
		if off > MaxTailOffset {
			return nil, ErrTailTooLarge
		}
		b.nodes[b.tailNodes[i]].SetTailOffset(uint32(off))
	}

	t := &Trie{
		nodes:   b.nodes,
		tail:    tail,
		numKeys: uint64(len(entries)),
		order:   opt.Order,
	}
	if err := t.derive(); err != nil {
		return nil, err
	}
	return t, nil
}

// dedupe collapses or rejects adjacent equal keys in sorted entries.
func dedupe(entries []entry, policy DuplicatePolicy) ([]entry, error) {
	out := entries[:0]
	for i := range entries {
		if i > 0 && string(entries[i].data) == string(out[len(out)-1].data) {
			if policy == DuplicateReject {
				return nil, &DuplicateKeyError{Key: entries[i].data}
			}
			out[len(out)-1].weight += entries[i].weight
			continue
		}
		out = append(out, entries[i])
	}
	return out, nil
}

type builder struct {
	entries []entry
	nodes   []Node
	order   NodeOrder

	// Tail strings and the node index each one patches, filled during
	// recursion and resolved in one pass once the layout is final.
	tails     [][]byte
	tailNodes []uint32
}

// build lays out the subtrie below nodes[idx]. entries[lo:hi] all share
// the length-depth prefix spelled by the path to idx and are sorted.
func (b *builder) build(idx uint32, lo, hi, depth int) error {
	if len(b.entries[lo].data) == depth {
		b.nodes[idx].SetTerminal()
		lo++
		if lo == hi {
			return nil
		}
	}

	runs := partition(b.entries, lo, hi, depth)
	if b.order == OrderWeight {
		sortRunsByWeight(runs)
	}

	firstChild := len(b.nodes)
	if firstChild+len(runs) > MaxNodes {
		return ErrTooManyNodes
	}
	b.nodes[idx].SetLink(uint32(firstChild))
	b.nodes = append(b.nodes, make([]Node, len(runs))...)
	for i := 0; i < len(runs)-1; i++ {
		b.nodes[firstChild+i].SetSibling()
	}

	for i, r := range runs {
		child := uint32(firstChild + i)
		suffix := b.entries[r.lo].data[depth:]
		switch {
		case r.hi-r.lo == 1 && len(suffix) > 1:
			// A single key below this edge with more than the label
			// byte left: the whole remainder becomes one tail edge.
			b.tails = append(b.tails, suffix)
			b.tailNodes = append(b.tailNodes, child)
			b.nodes[child].SetTerminal()
		case r.hi-r.lo == 1:
			b.nodes[child].SetBase(suffix[0])
			b.nodes[child].SetTerminal()
		default:
			b.nodes[child].SetBase(suffix[0])
			if err := b.build(child, r.lo, r.hi, depth+1); err != nil {
				return err
			}
		}
	}
	return nil
}
