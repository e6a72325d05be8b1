package rsmarisa

import (
	"bufio"
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"sync/atomic"
	"time"

	"github.com/tokuhirom/rsmarisa/internal/trie"
	"github.com/tokuhirom/rsmarisa/persistence"
)

// Trie is an immutable dictionary over a fixed key set. Each stored key
// has a dense id in [0, NumKeys); ids follow lexicographic key order
// under the default layout.
//
// A built trie is safe for concurrent reads. Close matters only for
// mapped tries, where it releases the underlying mapping.
type Trie struct {
	t    *trie.Trie
	opts options

	// Non-nil when the trie aliases a memory-mapped file.
	mapped *persistence.MappedFile
	closed atomic.Bool
}

// Build constructs a trie over the keys in ks. Repeated keys are
// handled per WithDuplicatePolicy; the default rejects them with
// ErrDuplicateKey.
func Build(ks *Keyset, optFns ...Option) (*Trie, error) {
	o := applyOptions(optFns)
	start := time.Now()

	core, err := trie.Build(ks.keys, ks.weights, trie.BuildOptions{
		TailMode:    o.tailMode,
		Order:       o.order,
		OnDuplicate: o.onDuplicate,
	})
	err = translateError(err)

	o.metricsCollector.RecordBuild(uint64(ks.Len()), time.Since(start), err)
	if err != nil {
		o.logger.LogBuild(context.Background(), uint64(ks.Len()), 0, err)
		return nil, err
	}
	o.logger.LogBuild(context.Background(), core.NumKeys(), core.NumNodes(), nil)

	return &Trie{t: core, opts: o}, nil
}

// BuildStrings is a convenience wrapper building over string keys with
// weight 1 each.
func BuildStrings(keys []string, optFns ...Option) (*Trie, error) {
	ks := NewKeyset()
	for _, k := range keys {
		ks.PushString(k)
	}
	return Build(ks, optFns...)
}

// engine returns the core trie, guarding against zero-value and closed
// receivers.
func (t *Trie) engine() (*trie.Trie, error) {
	if t == nil || t.t == nil {
		return nil, ErrNotBuilt
	}
	if t.closed.Load() {
		return nil, ErrClosed
	}
	return t.t, nil
}

// Lookup returns the id of key. ok is false when key is not stored, or
// when the trie is unbuilt or closed.
func (t *Trie) Lookup(key []byte) (id uint32, ok bool) {
	core, err := t.engine()
	if err != nil {
		return 0, false
	}
	start := time.Now()
	id, ok = core.Lookup(key)
	t.opts.metricsCollector.RecordLookup(time.Since(start), ok)
	return id, ok
}

// LookupString returns the id of key.
func (t *Trie) LookupString(key string) (uint32, bool) {
	return t.Lookup([]byte(key))
}

// ReverseLookup returns the key with the given id.
func (t *Trie) ReverseLookup(id uint32) ([]byte, error) {
	return t.ReverseLookupAppend(nil, id)
}

// ReverseLookupAppend appends the key with the given id to dst and
// returns the extended slice.
func (t *Trie) ReverseLookupAppend(dst []byte, id uint32) ([]byte, error) {
	core, err := t.engine()
	if err != nil {
		return dst, err
	}
	start := time.Now()
	out, ok := core.ReverseLookup(dst, id)
	t.opts.metricsCollector.RecordLookup(time.Since(start), ok)
	if !ok {
		return dst, &ErrInvalidID{ID: id, NumKeys: core.NumKeys()}
	}
	return out, nil
}

// NumKeys returns the number of stored keys.
func (t *Trie) NumKeys() uint64 {
	core, err := t.engine()
	if err != nil {
		return 0
	}
	return core.NumKeys()
}

// NumNodes returns the number of trie nodes, root included. An empty
// trie has exactly one node.
func (t *Trie) NumNodes() uint64 {
	core, err := t.engine()
	if err != nil {
		return 0
	}
	return core.NumNodes()
}

// Empty reports whether the trie stores no keys.
func (t *Trie) Empty() bool { return t.NumKeys() == 0 }

// IOSize returns the exact serialized size in bytes: the value WriteTo
// produces and the size Save writes.
func (t *Trie) IOSize() uint64 {
	core, err := t.engine()
	if err != nil {
		return 0
	}
	return core.IOSize()
}

// TotalSize returns the in-memory footprint in bytes, derived lookup
// tables included.
func (t *Trie) TotalSize() uint64 {
	core, err := t.engine()
	if err != nil {
		return 0
	}
	return core.TotalSize()
}

// WriteTo writes the canonical serialized form to w. Equal tries
// produce byte-identical output regardless of insertion order.
func (t *Trie) WriteTo(w io.Writer) (int64, error) {
	core, err := t.engine()
	if err != nil {
		return 0, err
	}
	return core.WriteTo(w)
}

// Read decodes a serialized trie from r. It accepts both raw and
// compressed containers.
func Read(r io.Reader, optFns ...Option) (*Trie, error) {
	o := applyOptions(optFns)

	br := bufio.NewReaderSize(r, 256*1024)
	core, err := readDetect(br)
	if err != nil {
		return nil, translateError(err)
	}
	return &Trie{t: core, opts: o}, nil
}

// readDetect sniffs the leading magic to route raw and compressed
// streams to the right decoder.
func readDetect(br *bufio.Reader) (*trie.Trie, error) {
	head, err := br.Peek(4)
	if err != nil {
		if err == io.EOF {
			return nil, persistence.NewFormatError(0, persistence.ErrTruncated)
		}
		return nil, err
	}
	if binary.LittleEndian.Uint32(head) == persistence.CompressedMagic {
		cr, err := persistence.NewCompressedReader(br)
		if err != nil {
			return nil, err
		}
		return trie.ReadFrom(cr)
	}
	return trie.ReadFrom(br)
}

// Save writes the trie to filename atomically.
func (t *Trie) Save(filename string) error {
	core, err := t.engine()
	if err != nil {
		return err
	}
	start := time.Now()
	err = persistence.SaveToFile(filename, func(w io.Writer) error {
		_, err := core.WriteTo(w)
		return err
	})
	t.opts.metricsCollector.RecordSave(core.IOSize(), time.Since(start), err)
	t.opts.logger.LogSave(context.Background(), filename, core.IOSize(), err)
	return err
}

// SaveCompressed writes the trie to filename inside a compressed
// container. Load and Read detect the container automatically.
func (t *Trie) SaveCompressed(filename string, codec persistence.Compression) error {
	core, err := t.engine()
	if err != nil {
		return err
	}
	start := time.Now()
	err = persistence.SaveToFile(filename, func(w io.Writer) error {
		cw, err := persistence.NewCompressedWriter(w, codec)
		if err != nil {
			return err
		}
		if _, err := core.WriteTo(cw); err != nil {
			_ = cw.Close()
			return err
		}
		return cw.Close()
	})
	t.opts.metricsCollector.RecordSave(core.IOSize(), time.Since(start), err)
	t.opts.logger.LogSave(context.Background(), filename, core.IOSize(), err)
	return err
}

// Load reads a trie from filename. It accepts files written by Save
// and SaveCompressed.
func Load(filename string, optFns ...Option) (*Trie, error) {
	o := applyOptions(optFns)
	start := time.Now()

	var core *trie.Trie
	err := persistence.LoadFromFile(filename, func(r io.Reader) error {
		br, ok := r.(*bufio.Reader)
		if !ok {
			br = bufio.NewReader(r)
		}
		var err error
		core, err = readDetect(br)
		return err
	})
	err = translateError(err)

	var size uint64
	if core != nil {
		size = core.IOSize()
	}
	o.metricsCollector.RecordLoad(size, time.Since(start), err)
	if err != nil {
		o.logger.LogLoad(context.Background(), filename, 0, err)
		return nil, err
	}
	o.logger.LogLoad(context.Background(), filename, core.NumKeys(), nil)

	return &Trie{t: core, opts: o}, nil
}

// Map memory-maps filename and decodes it without copying node or tail
// data. The returned trie must be closed to release the mapping; the
// file must stay unmodified while the trie is in use. Only raw files
// can be mapped.
func Map(filename string, optFns ...Option) (*Trie, error) {
	o := applyOptions(optFns)
	start := time.Now()

	mf, err := persistence.MapFile(filename)
	if err != nil {
		return nil, err
	}
	data := mf.Bytes()
	if len(data) >= 4 && binary.LittleEndian.Uint32(data) == persistence.CompressedMagic {
		_ = mf.Close()
		return nil, fmt.Errorf("%w: compressed containers cannot be mapped, use Load", os.ErrInvalid)
	}

	core, err := trie.DecodeMapped(data)
	err = translateError(err)
	o.metricsCollector.RecordLoad(uint64(len(data)), time.Since(start), err)
	if err != nil {
		_ = mf.Close()
		o.logger.LogLoad(context.Background(), filename, 0, err)
		return nil, err
	}
	o.logger.LogLoad(context.Background(), filename, core.NumKeys(), nil)

	return &Trie{t: core, opts: o, mapped: mf}, nil
}

// Close releases resources held by the trie. For mapped tries this
// unmaps the file; every other view of the data becomes invalid. Close
// is idempotent.
func (t *Trie) Close() error {
	if t == nil || !t.closed.CompareAndSwap(false, true) {
		return nil
	}
	if t.mapped != nil {
		return t.mapped.Close()
	}
	return nil
}
