package trie

import "errors"

// ErrMalformed is returned when loaded records do not describe a valid
// trie (out-of-range links, overlapping child blocks, bad tail offsets,
// or a terminal count that disagrees with the header).
var ErrMalformed = errors.New("malformed trie structure")

// Trie is the static engine. nodes, tail and numKeys are the serialized
// state; ids, terminals and parents are derived on construction and on
// load, never stored.
type Trie struct {
	nodes   []Node
	tail    *Tail
	numKeys uint64
	order   NodeOrder

	// ids[n] is the key id of node n when it is terminal. terminals[id]
	// is the inverse. parents[n] is the parent of node n (0 for the
	// root, which no link ever targets).
	ids       []uint32
	terminals []uint32
	parents   []uint32
}

// NumKeys returns the number of stored keys.
func (t *Trie) NumKeys() uint64 { return t.numKeys }

// NumNodes returns the number of node records, root included.
func (t *Trie) NumNodes() uint64 { return uint64(len(t.nodes)) }

// Order returns the child layout order the trie was built with.
func (t *Trie) Order() NodeOrder { return t.order }

// TailMode returns the tail termination mode.
func (t *Trie) TailMode() TailMode { return t.tail.mode }

// TotalSize returns the in-memory footprint in bytes, derived tables
// included.
func (t *Trie) TotalSize() uint64 {
	s := uint64(len(t.nodes)) * 8
	s += uint64(t.tail.Len())
	s += uint64(len(t.tail.endFlags.Words())) * 8
	s += uint64(len(t.ids)+len(t.terminals)+len(t.parents)) * 4
	return s
}

// derive walks the structure in depth-first pre-order, assigning each
// terminal node the next key id and recording parent links. Under
// OrderLabel this makes ids equal to lexicographic rank. The walk also
// validates every record, so the loader can trust the result.
func (t *Trie) derive() error {
	n := len(t.nodes)
	t.ids = make([]uint32, n)
	t.parents = make([]uint32, n)
	t.terminals = make([]uint32, 0, t.numKeys)

	visited := make([]bool, n)
	stack := make([]uint32, 0, 64)
	stack = append(stack, 0)
	for len(stack) > 0 {
		idx := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[idx] {
			return ErrMalformed
		}
		visited[idx] = true

		node := t.nodes[idx]
		if node.IsTail() {
			if off := node.TailOffset(); int(off) >= t.tail.Len() {
				return ErrMalformed
			}
			if node.Link() != 0 || !node.Terminal() {
				return ErrMalformed
			}
		}
		if node.Terminal() {
			t.ids[idx] = uint32(len(t.terminals))
			t.terminals = append(t.terminals, idx)
		}

		link := node.Link()
		if link == 0 {
			continue
		}
		end := link
		for {
			if int(end) >= n {
				return ErrMalformed
			}
			t.parents[end] = idx
			if !t.nodes[end].HasSibling() {
				break
			}
			end++
		}
		for c := end; ; c-- {
			stack = append(stack, c)
			if c == link {
				break
			}
		}
	}

	if uint64(len(t.terminals)) != t.numKeys {
		return ErrMalformed
	}
	return nil
}

// label returns the edge label of a non-root node: the base byte, or
// the first byte of the referenced tail string.
func (t *Trie) label(idx uint32) byte {
	n := t.nodes[idx]
	if n.IsTail() {
		return t.tail.At(n.TailOffset())
	}
	return n.Base()
}

// findChild scans the child block of idx for the child whose edge
// starts with label.
func (t *Trie) findChild(idx uint32, label byte) (uint32, bool) {
	link := t.nodes[idx].Link()
	if link == 0 {
		return 0, false
	}
	for c := link; ; c++ {
		if t.label(c) == label {
			return c, true
		}
		if !t.nodes[c].HasSibling() {
			return 0, false
		}
	}
}

// Lookup returns the id of q, or false when q is not stored.
func (t *Trie) Lookup(q []byte) (uint32, bool) {
	idx := uint32(0)
	pos := 0
	for pos < len(q) {
		child, ok := t.findChild(idx, q[pos])
		if !ok {
			return 0, false
		}
		node := t.nodes[child]
		if node.IsTail() {
			if t.tail.MatchExact(node.TailOffset(), q, pos) {
				return t.ids[child], true
			}
			return 0, false
		}
		pos++
		idx = child
	}
	if t.nodes[idx].Terminal() {
		return t.ids[idx], true
	}
	return 0, false
}

// ReverseLookup appends the key with the given id to dst. It reports
// false when id is out of range.
func (t *Trie) ReverseLookup(dst []byte, id uint32) ([]byte, bool) {
	if uint64(id) >= t.numKeys {
		return dst, false
	}
	start := len(dst)
	idx := t.terminals[id]
	for idx != 0 {
		node := t.nodes[idx]
		if node.IsTail() {
			// Tail bytes come out forward; append them reversed so the
			// final flip below restores key order.
			mark := len(dst)
			dst = t.tail.Restore(dst, node.TailOffset())
			reverseBytes(dst[mark:])
		} else {
			dst = append(dst, node.Base())
		}
		idx = t.parents[idx]
	}
	reverseBytes(dst[start:])
	return dst, true
}

func reverseBytes(b []byte) {
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
}

// State tracks an in-progress common prefix search so repeated calls
// yield one match at a time. The zero value starts a fresh search.
type State struct {
	node    uint32
	pos     int
	started bool
	done    bool
}

// Reset makes the state reusable for a new query.
func (s *State) Reset() { *s = State{} }

// CommonPrefixNext yields the next stored key that is a prefix of q, in
// increasing length (which is id order under OrderLabel). The match is
// q[:n]. Returns false when no matches remain.
func (t *Trie) CommonPrefixNext(s *State, q []byte) (id uint32, n int, ok bool) {
	if s.done {
		return 0, 0, false
	}
	if !s.started {
		s.started = true
		if t.nodes[0].Terminal() {
			return t.ids[0], 0, true
		}
	}
	for s.pos < len(q) {
		child, ok := t.findChild(s.node, q[s.pos])
		if !ok {
			break
		}
		node := t.nodes[child]
		if node.IsTail() {
			ln, ok := t.tail.MatchPrefix(node.TailOffset(), q, s.pos)
			if !ok {
				break
			}
			// Tail nodes are leaves: this is the last possible match.
			s.pos += ln
			s.done = true
			return t.ids[child], s.pos, true
		}
		s.pos++
		s.node = child
		if node.Terminal() {
			return t.ids[child], s.pos, true
		}
	}
	s.done = true
	return 0, 0, false
}

// psFrame is one pending node of the predictive DFS, paired with the
// key length of the path to its parent.
type psFrame struct {
	node   uint32
	keyLen int
}

// PredictiveState tracks an in-progress predictive search. The zero
// value starts a fresh search.
type PredictiveState struct {
	started bool
	done    bool
	stack   []psFrame
	key     []byte
}

// Reset makes the state reusable for a new query.
func (s *PredictiveState) Reset() { *s = PredictiveState{} }

// PredictiveNext yields the next stored key that has q as a prefix, in
// depth-first pre-order (id order under OrderLabel). The returned key
// slice is valid until the next call on the same state.
func (t *Trie) PredictiveNext(s *PredictiveState, q []byte) (id uint32, key []byte, ok bool) {
	if s.done {
		return 0, nil, false
	}
	if !s.started {
		s.started = true
		s.key = append(s.key[:0], q...)

		node := uint32(0)
		pos := 0
		for pos < len(q) {
			child, ok := t.findChild(node, q[pos])
			if !ok {
				s.done = true
				return 0, nil, false
			}
			n := t.nodes[child]
			if n.IsTail() {
				// The query ends inside this tail edge, or not at all.
				off := n.TailOffset()
				s.done = true
				if t.tail.MatchesQueryPrefix(off, q, pos) {
					s.key = t.tail.Restore(s.key[:pos], off)
					return t.ids[child], s.key, true
				}
				return 0, nil, false
			}
			pos++
			node = child
		}

		t.pushChildren(s, node, len(q))
		if t.nodes[node].Terminal() {
			return t.ids[node], s.key, true
		}
	}

	for len(s.stack) > 0 {
		f := s.stack[len(s.stack)-1]
		s.stack = s.stack[:len(s.stack)-1]
		s.key = s.key[:f.keyLen]

		node := t.nodes[f.node]
		if node.IsTail() {
			s.key = t.tail.Restore(s.key, node.TailOffset())
			return t.ids[f.node], s.key, true
		}
		s.key = append(s.key, node.Base())
		t.pushChildren(s, f.node, len(s.key))
		if node.Terminal() {
			return t.ids[f.node], s.key, true
		}
	}
	s.done = true
	return 0, nil, false
}

// pushChildren pushes the child block of idx in reverse, so the first
// child is popped first and the walk stays pre-order.
func (t *Trie) pushChildren(s *PredictiveState, idx uint32, keyLen int) {
	link := t.nodes[idx].Link()
	if link == 0 {
		return
	}
	end := link
	for t.nodes[end].HasSibling() {
		end++
	}
	for c := end; ; c-- {
		s.stack = append(s.stack, psFrame{node: c, keyLen: keyLen})
		if c == link {
			break
		}
	}
}
