package trie

import (
	"bytes"
	"sort"
)

// entry is a construction-time view of one key: the byte range plus the
// accumulated weight. Entries exist only during a build pass.
type entry struct {
	data   []byte
	weight float32
}

// sortEntries orders entries lexicographically by raw bytes (unsigned
// byte order, not locale-aware).
func sortEntries(entries []entry) {
	sort.Slice(entries, func(i, j int) bool {
		return bytes.Compare(entries[i].data, entries[j].data) < 0
	})
}

// run is a contiguous range of sorted entries sharing the same byte at
// the current branching depth.
type run struct {
	lo, hi int
	weight float32
}

// partition splits sorted entries[lo:hi] into runs by the byte at
// position depth. Every entry must be at least depth+1 bytes long.
// Runs come out in label order; run weights accumulate entry weights.
func partition(entries []entry, lo, hi, depth int) []run {
	var runs []run
	start := lo
	for i := lo; i <= hi; i++ {
		if i == hi || entries[i].data[depth] != entries[start].data[depth] {
			r := run{lo: start, hi: i}
			for j := start; j < i; j++ {
				r.weight += entries[j].weight
			}
			runs = append(runs, r)
			start = i
		}
	}
	return runs
}

// sortRunsByWeight reorders runs by descending weight. The sort is
// stable so equal weights keep label order, which keeps the layout
// deterministic.
func sortRunsByWeight(runs []run) {
	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].weight > runs[j].weight
	})
}

// compareReversed compares two byte strings right to left: the ordering
// used by the tail store so that shared suffixes become adjacent.
// A string that is a suffix of a longer one sorts first.
func compareReversed(a, b []byte) int {
	i, j := len(a)-1, len(b)-1
	for i >= 0 && j >= 0 {
		if a[i] != b[j] {
			if a[i] < b[j] {
				return -1
			}
			return 1
		}
		i--
		j--
	}
	switch {
	case i < 0 && j < 0:
		return 0
	case i < 0:
		return -1
	default:
		return 1
	}
}
