package rsmarisa

import (
	"context"
	"iter"
	"runtime"
	"time"

	"github.com/RoaringBitmap/roaring/v2"
	"golang.org/x/sync/errgroup"

	"github.com/tokuhirom/rsmarisa/internal/trie"
)

// CommonPrefixes returns an iterator over the stored keys that are
// prefixes of q, shortest first. Yielded keys alias q.
//
//	for id, key := range t.CommonPrefixes([]byte("application")) {
//	    fmt.Println(id, string(key))
//	}
func (t *Trie) CommonPrefixes(q []byte) iter.Seq2[uint32, []byte] {
	return func(yield func(uint32, []byte) bool) {
		core, err := t.engine()
		if err != nil {
			return
		}
		start := time.Now()
		results := 0
		var s trie.State
		for {
			id, n, ok := core.CommonPrefixNext(&s, q)
			if !ok {
				break
			}
			results++
			if !yield(id, q[:n]) {
				break
			}
		}
		t.opts.metricsCollector.RecordSearch(results, time.Since(start))
		t.opts.logger.LogSearch(context.Background(), "common_prefix", results)
	}
}

// Predictive returns an iterator over the stored keys that have q as a
// prefix, in id order. Yielded key slices are reused between
// iterations; copy them if they outlive the loop body.
func (t *Trie) Predictive(q []byte) iter.Seq2[uint32, []byte] {
	return func(yield func(uint32, []byte) bool) {
		core, err := t.engine()
		if err != nil {
			return
		}
		start := time.Now()
		results := 0
		var s trie.PredictiveState
		for {
			id, key, ok := core.PredictiveNext(&s, q)
			if !ok {
				break
			}
			results++
			if !yield(id, key) {
				break
			}
		}
		t.opts.metricsCollector.RecordSearch(results, time.Since(start))
		t.opts.logger.LogSearch(context.Background(), "predictive", results)
	}
}

// CommonPrefixIDs returns the id set of stored keys that are prefixes
// of q.
func (t *Trie) CommonPrefixIDs(q []byte) (*roaring.Bitmap, error) {
	core, err := t.engine()
	if err != nil {
		return nil, err
	}
	bm := roaring.New()
	var s trie.State
	for {
		id, _, ok := core.CommonPrefixNext(&s, q)
		if !ok {
			return bm, nil
		}
		bm.Add(id)
	}
}

// PredictiveIDs returns the id set of stored keys that have q as a
// prefix. Under the default layout the ids of one subtree are
// contiguous, so these bitmaps stay small and intersect cheaply across
// queries.
func (t *Trie) PredictiveIDs(q []byte) (*roaring.Bitmap, error) {
	core, err := t.engine()
	if err != nil {
		return nil, err
	}
	bm := roaring.New()
	var s trie.PredictiveState
	for {
		id, _, ok := core.PredictiveNext(&s, q)
		if !ok {
			return bm, nil
		}
		bm.Add(id)
	}
}

// BatchResult is one LookupBatch outcome, in input order.
type BatchResult struct {
	ID    uint32
	Found bool
}

// LookupBatch looks up many keys concurrently and returns one result
// per key, in input order. It uses up to GOMAXPROCS workers.
func (t *Trie) LookupBatch(ctx context.Context, keys [][]byte) ([]BatchResult, error) {
	core, err := t.engine()
	if err != nil {
		return nil, err
	}

	results := make([]BatchResult, len(keys))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	const chunk = 256
	for lo := 0; lo < len(keys); lo += chunk {
		hi := min(lo+chunk, len(keys))
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			for i := lo; i < hi; i++ {
				id, ok := core.Lookup(keys[i])
				results[i] = BatchResult{ID: id, Found: ok}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
