package persistence

import (
	"bufio"
	"io"
	"os"
	"path/filepath"

	"github.com/tokuhirom/rsmarisa/internal/mmap"
)

// SaveToFile writes data produced by writeFunc to filename atomically:
// the bytes go to a temp file in the same directory, which is fsynced and
// renamed over the target.
func SaveToFile(filename string, writeFunc func(io.Writer) error) error {
	dir := filepath.Dir(filename)
	base := filepath.Base(filename)

	tmp, err := os.CreateTemp(dir, base+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		_ = tmp.Close()
		if tmpName != "" {
			_ = os.Remove(tmpName)
		}
	}()

	_ = tmp.Chmod(0644)

	buf := bufio.NewWriterSize(tmp, 256*1024)
	if err := writeFunc(buf); err != nil {
		return err
	}
	if err := buf.Flush(); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Rename(tmpName, filename); err != nil {
		return err
	}

	// Best-effort: fsync the directory so the rename is durable on POSIX.
	if d, err := os.Open(dir); err == nil {
		_ = d.Sync()
		_ = d.Close()
	}

	tmpName = ""
	return nil
}

// LoadFromFile opens filename and passes a buffered reader to readFunc.
func LoadFromFile(filename string, readFunc func(io.Reader) error) error {
	f, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	return readFunc(bufio.NewReaderSize(f, 256*1024))
}

// MappedFile is a read-only memory mapping of a serialized trie.
//
// Bytes aliases the mapped region; any view into it becomes invalid after
// Close. Callers that decode zero-copy views must keep the mapping alive
// for as long as the views are in use.
type MappedFile struct {
	m *mmap.File
}

// MapFile memory-maps filename as read-only.
func MapFile(filename string) (*MappedFile, error) {
	m, err := mmap.Open(filename)
	if err != nil {
		return nil, err
	}
	return &MappedFile{m: m}, nil
}

// Bytes returns the mapped region.
func (mf *MappedFile) Bytes() []byte {
	if mf == nil || mf.m == nil {
		return nil
	}
	return mf.m.Data
}

// Close unmaps the region and closes the underlying file.
func (mf *MappedFile) Close() error {
	if mf == nil {
		return nil
	}
	m := mf.m
	mf.m = nil
	return m.Close()
}
