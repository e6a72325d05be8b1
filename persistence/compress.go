package persistence

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compressed container: an 8-byte preamble followed by the canonical
// serialized trie inside a compression stream. The byte-exactness contract
// applies to the payload, not the container; the container exists for
// cheaper storage and transfer of large dictionaries.
//
//	preamble (8 bytes):
//	  magic u32  0x4D54525A ("MTRZ")
//	  codec u8   1=zstd, 2=lz4
//	  reserved [3]byte (zero)

const (
	// CompressedMagic identifies compressed trie containers (ASCII "MTRZ").
	CompressedMagic = 0x4D54525A

	compressedPreambleSize = 8
)

// Compression selects the codec used by compressed containers.
type Compression uint8

const (
	// CompressionZstd selects klauspost zstd streams.
	CompressionZstd Compression = 1
	// CompressionLZ4 selects lz4 frame streams.
	CompressionLZ4 Compression = 2
)

// ErrUnknownCodec is returned when a container declares a codec this
// implementation cannot decode.
var ErrUnknownCodec = errors.New("unknown compression codec")

func (c Compression) String() string {
	switch c {
	case CompressionZstd:
		return "zstd"
	case CompressionLZ4:
		return "lz4"
	default:
		return fmt.Sprintf("compression(%d)", uint8(c))
	}
}

// NewCompressedWriter writes the container preamble to w and returns a
// WriteCloser streaming compressed payload bytes into w. Close flushes the
// compression stream; it does not close w.
func NewCompressedWriter(w io.Writer, codec Compression) (io.WriteCloser, error) {
	var preamble [compressedPreambleSize]byte
	binary.LittleEndian.PutUint32(preamble[0:], CompressedMagic)
	preamble[4] = byte(codec)
	if _, err := w.Write(preamble[:]); err != nil {
		return nil, err
	}

	switch codec {
	case CompressionZstd:
		return zstd.NewWriter(w)
	case CompressionLZ4:
		return lz4.NewWriter(w), nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownCodec, codec)
	}
}

// NewCompressedReader consumes the container preamble from r and returns a
// reader yielding the decompressed payload.
func NewCompressedReader(r io.Reader) (io.Reader, error) {
	var preamble [compressedPreambleSize]byte
	if _, err := io.ReadFull(r, preamble[:]); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, NewFormatError(0, ErrTruncated)
		}
		return nil, err
	}
	if magic := binary.LittleEndian.Uint32(preamble[0:]); magic != CompressedMagic {
		return nil, NewFormatError(0, fmt.Errorf("%w: got 0x%08x", ErrInvalidMagic, magic))
	}

	switch Compression(preamble[4]) {
	case CompressionZstd:
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		return zr.IOReadCloser(), nil
	case CompressionLZ4:
		return lz4.NewReader(r), nil
	default:
		return nil, NewFormatError(4, fmt.Errorf("%w: %d", ErrUnknownCodec, preamble[4]))
	}
}
