package persistence

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

const (
	// MagicNumber identifies serialized trie files (ASCII "MTR0").
	MagicNumber = 0x4D545230
	// Version is the current file format version (v1.0).
	Version = 0x00010000

	// HeaderSize is the fixed size of the file header in bytes.
	HeaderSize = 40
	// ChecksumSize is the size of the trailing CRC32 in bytes.
	ChecksumSize = 4

	// FlagBinaryTail marks a bit-vector-terminated tail store.
	FlagBinaryTail = 1 << 0
	// FlagWeightOrder marks weight-ordered node layout.
	FlagWeightOrder = 1 << 1

	flagsMask = FlagBinaryTail | FlagWeightOrder
)

var (
	// ErrInvalidMagic is returned when a file does not start with MagicNumber.
	ErrInvalidMagic = errors.New("invalid magic number")
	// ErrInvalidVersion is returned for an unrecognized format version.
	ErrInvalidVersion = errors.New("unsupported format version")
	// ErrUnsupportedLevels is returned when the file declares a cascade
	// level count this implementation cannot read.
	ErrUnsupportedLevels = errors.New("unsupported cascade level count")
	// ErrInvalidFlags is returned when reserved flag bits are set.
	ErrInvalidFlags = errors.New("invalid format flags")
	// ErrTruncated is returned when the byte stream ends before the
	// declared counts are satisfied.
	ErrTruncated = errors.New("truncated data")
	// ErrSizeMismatch is returned when the declared io size disagrees with
	// the byte length implied by the declared counts.
	ErrSizeMismatch = errors.New("declared size mismatch")
)

// FormatError wraps a format-level load failure with positional context.
//
// The underlying cause (one of the sentinel errors above, or a checksum
// mismatch) is accessible via errors.Unwrap.
type FormatError struct {
	Offset int64
	cause  error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("format error at byte %d: %v", e.Offset, e.cause)
}

func (e *FormatError) Unwrap() error { return e.cause }

// NewFormatError wraps cause as a FormatError at the given byte offset.
func NewFormatError(offset int64, cause error) *FormatError {
	return &FormatError{Offset: offset, cause: cause}
}

// Header is the 40-byte header at the start of every trie file.
//
// All fields are serialized little-endian with no padding.
type Header struct {
	Magic    uint32
	Version  uint32
	Flags    uint32
	Levels   uint32
	NumKeys  uint64
	NumNodes uint64
	IOSize   uint64
}

// WriteTo writes the header in its canonical byte layout.
func (h *Header) WriteTo(w io.Writer) (int64, error) {
	var buf [HeaderSize]byte
	binary.LittleEndian.PutUint32(buf[0:], h.Magic)
	binary.LittleEndian.PutUint32(buf[4:], h.Version)
	binary.LittleEndian.PutUint32(buf[8:], h.Flags)
	binary.LittleEndian.PutUint32(buf[12:], h.Levels)
	binary.LittleEndian.PutUint64(buf[16:], h.NumKeys)
	binary.LittleEndian.PutUint64(buf[24:], h.NumNodes)
	binary.LittleEndian.PutUint64(buf[32:], h.IOSize)
	n, err := w.Write(buf[:])
	return int64(n), err
}

// ReadHeaderFrom reads and validates a header.
func ReadHeaderFrom(r io.Reader) (*Header, error) {
	var buf [HeaderSize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, NewFormatError(0, ErrTruncated)
		}
		return nil, err
	}
	return ParseHeader(buf[:])
}

// ParseHeader decodes and validates a header from its canonical bytes.
func ParseHeader(buf []byte) (*Header, error) {
	if len(buf) < HeaderSize {
		return nil, NewFormatError(0, ErrTruncated)
	}
	h := &Header{
		Magic:    binary.LittleEndian.Uint32(buf[0:]),
		Version:  binary.LittleEndian.Uint32(buf[4:]),
		Flags:    binary.LittleEndian.Uint32(buf[8:]),
		Levels:   binary.LittleEndian.Uint32(buf[12:]),
		NumKeys:  binary.LittleEndian.Uint64(buf[16:]),
		NumNodes: binary.LittleEndian.Uint64(buf[24:]),
		IOSize:   binary.LittleEndian.Uint64(buf[32:]),
	}
	if h.Magic != MagicNumber {
		return nil, NewFormatError(0, fmt.Errorf("%w: got 0x%08x", ErrInvalidMagic, h.Magic))
	}
	if h.Version != Version {
		return nil, NewFormatError(4, fmt.Errorf("%w: got 0x%08x", ErrInvalidVersion, h.Version))
	}
	if h.Flags&^uint32(flagsMask) != 0 {
		return nil, NewFormatError(8, fmt.Errorf("%w: got 0x%08x", ErrInvalidFlags, h.Flags))
	}
	if h.Levels != 1 {
		return nil, NewFormatError(12, fmt.Errorf("%w: got %d", ErrUnsupportedLevels, h.Levels))
	}
	return h, nil
}
