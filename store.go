package rsmarisa

import (
	"bufio"
	"context"
	"time"

	"github.com/tokuhirom/rsmarisa/blobstore"
)

// SaveToStore writes the trie into store under name. The blob appears
// atomically once the upload completes.
func (t *Trie) SaveToStore(ctx context.Context, store blobstore.BlobStore, name string) error {
	core, err := t.engine()
	if err != nil {
		return err
	}
	start := time.Now()

	err = func() error {
		wb, err := store.Create(ctx, name)
		if err != nil {
			return err
		}
		if _, err := core.WriteTo(wb); err != nil {
			_ = wb.Close()
			return err
		}
		return wb.Close()
	}()

	t.opts.metricsCollector.RecordSave(core.IOSize(), time.Since(start), err)
	t.opts.logger.LogSave(ctx, name, core.IOSize(), err)
	return err
}

// LoadFromStore reads a trie written by SaveToStore. It accepts both
// raw and compressed blobs.
func LoadFromStore(ctx context.Context, store blobstore.BlobStore, name string, optFns ...Option) (*Trie, error) {
	o := applyOptions(optFns)
	start := time.Now()

	blob, err := store.Open(ctx, name)
	if err != nil {
		o.metricsCollector.RecordLoad(0, time.Since(start), err)
		o.logger.LogLoad(ctx, name, 0, err)
		return nil, err
	}
	defer blob.Close()

	core, err := readDetect(bufio.NewReaderSize(blob, 256*1024))
	err = translateError(err)

	var size uint64
	if core != nil {
		size = core.IOSize()
	}
	o.metricsCollector.RecordLoad(size, time.Since(start), err)
	if err != nil {
		o.logger.LogLoad(ctx, name, 0, err)
		return nil, err
	}
	o.logger.LogLoad(ctx, name, core.NumKeys(), nil)

	return &Trie{t: core, opts: o}, nil
}
