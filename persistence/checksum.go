package persistence

import (
	"fmt"
	"hash"
	"hash/crc32"
	"io"
)

// CRC32 (IEEE) guards against accidental corruption of serialized tries.
// It is not cryptographically secure and is not meant for tamper detection.

// ChecksumWriter wraps an io.Writer and computes a running CRC32 of
// everything written through it.
type ChecksumWriter struct {
	w    io.Writer
	hash hash.Hash32
	n    int64
}

// NewChecksumWriter creates a new checksumming writer.
func NewChecksumWriter(w io.Writer) *ChecksumWriter {
	return &ChecksumWriter{w: w, hash: crc32.NewIEEE()}
}

// Write implements io.Writer.
func (cw *ChecksumWriter) Write(p []byte) (int, error) {
	cw.hash.Write(p) // never returns an error
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	return n, err
}

// Sum returns the current checksum value.
func (cw *ChecksumWriter) Sum() uint32 { return cw.hash.Sum32() }

// Count returns the number of bytes written so far.
func (cw *ChecksumWriter) Count() int64 { return cw.n }

// ChecksumReader wraps an io.Reader and computes a running CRC32 of
// everything read through it.
type ChecksumReader struct {
	r    io.Reader
	hash hash.Hash32
	n    int64
}

// NewChecksumReader creates a new checksumming reader.
func NewChecksumReader(r io.Reader) *ChecksumReader {
	return &ChecksumReader{r: r, hash: crc32.NewIEEE()}
}

// Read implements io.Reader.
func (cr *ChecksumReader) Read(p []byte) (int, error) {
	n, err := cr.r.Read(p)
	if n > 0 {
		cr.hash.Write(p[:n])
		cr.n += int64(n)
	}
	return n, err
}

// Sum returns the current checksum value.
func (cr *ChecksumReader) Sum() uint32 { return cr.hash.Sum32() }

// Count returns the number of bytes read so far.
func (cr *ChecksumReader) Count() int64 { return cr.n }

// ChecksumMismatchError is returned when checksum verification fails.
type ChecksumMismatchError struct {
	Expected uint32
	Actual   uint32
}

func (e *ChecksumMismatchError) Error() string {
	return fmt.Sprintf("checksum mismatch: expected 0x%08x, got 0x%08x", e.Expected, e.Actual)
}

// VerifyChecksum compares an expected checksum against a computed one.
func VerifyChecksum(expected, actual uint32) error {
	if expected != actual {
		return &ChecksumMismatchError{Expected: expected, Actual: actual}
	}
	return nil
}
