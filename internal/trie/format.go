package trie

import (
	"bytes"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"io"
	"unsafe"

	"github.com/tokuhirom/rsmarisa/persistence"
)

// Serialized layout, after the 40-byte header (everything little-endian,
// no padding):
//
//	nodes     NumNodes x u64 records
//	tail      u64 byte count, then the raw bytes
//	endFlags  u64 bit count, then ceil(bits/64) x u64 words
//	          (present only under FlagBinaryTail)
//	crc32     u32 IEEE checksum of every preceding byte
//
// Ids, terminals and parents are never written; loaders rebuild them
// with the same deterministic walk the builder uses.

const nodeChunk = 4096

// flags returns the format flag word for this trie.
func (t *Trie) flags() uint32 {
	var f uint32
	if t.tail.mode == TailBinary {
		f |= persistence.FlagBinaryTail
	}
	if t.order == OrderWeight {
		f |= persistence.FlagWeightOrder
	}
	return f
}

// IOSize returns the exact serialized size in bytes, checksum included.
func (t *Trie) IOSize() uint64 {
	s := uint64(persistence.HeaderSize)
	s += uint64(len(t.nodes)) * 8
	s += 8 + uint64(t.tail.Len())
	if t.tail.mode == TailBinary {
		s += 8 + uint64(len(t.tail.endFlags.Words()))*8
	}
	return s + persistence.ChecksumSize
}

// WriteTo writes the canonical serialized form. Equal tries produce
// byte-identical output.
func (t *Trie) WriteTo(w io.Writer) (int64, error) {
	cw := persistence.NewChecksumWriter(w)

	h := &persistence.Header{
		Magic:    persistence.MagicNumber,
		Version:  persistence.Version,
		Flags:    t.flags(),
		Levels:   1,
		NumKeys:  t.numKeys,
		NumNodes: uint64(len(t.nodes)),
		IOSize:   t.IOSize(),
	}
	if _, err := h.WriteTo(cw); err != nil {
		return cw.Count(), err
	}

	var buf [nodeChunk * 8]byte
	for off := 0; off < len(t.nodes); off += nodeChunk {
		end := off + nodeChunk
		if end > len(t.nodes) {
			end = len(t.nodes)
		}
		for i, n := range t.nodes[off:end] {
			binary.LittleEndian.PutUint64(buf[i*8:], uint64(n))
		}
		if _, err := cw.Write(buf[:(end-off)*8]); err != nil {
			return cw.Count(), err
		}
	}

	if err := writeUint64(cw, uint64(t.tail.Len())); err != nil {
		return cw.Count(), err
	}
	if _, err := cw.Write(t.tail.Bytes()); err != nil {
		return cw.Count(), err
	}

	if t.tail.mode == TailBinary {
		fv := &t.tail.endFlags
		if err := writeUint64(cw, uint64(fv.Len())); err != nil {
			return cw.Count(), err
		}
		words := fv.Words()
		for off := 0; off < len(words); off += nodeChunk {
			end := off + nodeChunk
			if end > len(words) {
				end = len(words)
			}
			for i, word := range words[off:end] {
				binary.LittleEndian.PutUint64(buf[i*8:], word)
			}
			if _, err := cw.Write(buf[:(end-off)*8]); err != nil {
				return cw.Count(), err
			}
		}
	}

	// The checksum covers everything above and is not part of itself,
	// so it bypasses the checksumming writer.
	var sum [persistence.ChecksumSize]byte
	binary.LittleEndian.PutUint32(sum[:], cw.Sum())
	n, err := w.Write(sum[:])
	return cw.Count() + int64(n), err
}

func writeUint64(w io.Writer, v uint64) error {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

// ReadFrom decodes a serialized trie from r, validating the header, the
// structure and the trailing checksum.
func ReadFrom(r io.Reader) (*Trie, error) {
	cr := persistence.NewChecksumReader(r)

	h, err := persistence.ReadHeaderFrom(cr)
	if err != nil {
		return nil, err
	}
	if h.NumNodes == 0 || h.NumNodes > MaxNodes || h.NumKeys > h.NumNodes {
		return nil, persistence.NewFormatError(16, ErrMalformed)
	}

	nodes := make([]Node, h.NumNodes)
	var buf [nodeChunk * 8]byte
	for off := 0; off < len(nodes); off += nodeChunk {
		end := off + nodeChunk
		if end > len(nodes) {
			end = len(nodes)
		}
		if err := readFull(cr, buf[:(end-off)*8]); err != nil {
			return nil, err
		}
		for i := range nodes[off:end] {
			nodes[off+i] = Node(binary.LittleEndian.Uint64(buf[i*8:]))
		}
	}

	tailLen, err := readUint64(cr)
	if err != nil {
		return nil, err
	}
	if tailLen > h.IOSize {
		return nil, persistence.NewFormatError(cr.Count(), persistence.ErrSizeMismatch)
	}
	tailBuf := make([]byte, tailLen)
	if err := readFull(cr, tailBuf); err != nil {
		return nil, err
	}

	mode := TailText
	var endFlags BitVector
	if h.Flags&persistence.FlagBinaryTail != 0 {
		mode = TailBinary
		bits, err := readUint64(cr)
		if err != nil {
			return nil, err
		}
		if bits != tailLen {
			return nil, persistence.NewFormatError(cr.Count(), ErrMalformed)
		}
		words := make([]uint64, (bits+63)/64)
		for off := 0; off < len(words); off += nodeChunk {
			end := off + nodeChunk
			if end > len(words) {
				end = len(words)
			}
			if err := readFull(cr, buf[:(end-off)*8]); err != nil {
				return nil, err
			}
			for i := range words[off:end] {
				words[off+i] = binary.LittleEndian.Uint64(buf[i*8:])
			}
		}
		endFlags.Reset(words, int(bits))
		if bits > 0 && !endFlags.Get(int(bits)-1) {
			// Binary mode tails always end on a set termination bit,
			// which bounds every length scan within the vector.
			return nil, persistence.NewFormatError(cr.Count(), ErrMalformed)
		}
	} else if tailLen > 0 && tailBuf[tailLen-1] != 0 {
		// Text mode tails always end on a NUL terminator.
		return nil, persistence.NewFormatError(cr.Count(), ErrMalformed)
	}

	if got := uint64(cr.Count()) + persistence.ChecksumSize; got != h.IOSize {
		return nil, persistence.NewFormatError(32, persistence.ErrSizeMismatch)
	}

	// The stored checksum covers everything above but not itself, so it
	// is read from the underlying stream, not through the hasher.
	computed := cr.Sum()
	var sum [persistence.ChecksumSize]byte
	if err := readFull(r, sum[:]); err != nil {
		return nil, err
	}
	if err := persistence.VerifyChecksum(binary.LittleEndian.Uint32(sum[:]), computed); err != nil {
		return nil, err
	}

	return assemble(h, nodes, tailBuf, endFlags, mode)
}

// assemble builds a queryable trie from decoded parts, rederiving the
// id tables and validating the structure along the way.
func assemble(h *persistence.Header, nodes []Node, tailBuf []byte, endFlags BitVector, mode TailMode) (*Trie, error) {
	order := OrderLabel
	if h.Flags&persistence.FlagWeightOrder != 0 {
		order = OrderWeight
	}
	tail := &Tail{}
	tail.Reset(tailBuf, endFlags, mode)

	t := &Trie{
		nodes:   nodes,
		tail:    tail,
		numKeys: h.NumKeys,
		order:   order,
	}
	if err := t.derive(); err != nil {
		return nil, err
	}
	return t, nil
}

// nativeLittleEndian reports whether the host stores multi-byte words
// little-endian, which allows zero-copy views over mapped files.
var nativeLittleEndian = func() bool {
	var x uint16 = 1
	return *(*byte)(unsafe.Pointer(&x)) == 1
}()

// DecodeMapped decodes a serialized trie from a complete in-memory
// image, typically a memory-mapped file. On little-endian hosts the
// node records and tail bytes alias data, so data must stay valid and
// unmodified for the life of the returned trie.
func DecodeMapped(data []byte) (*Trie, error) {
	if !nativeLittleEndian {
		return ReadFrom(bytes.NewReader(data))
	}

	h, err := persistence.ParseHeader(data)
	if err != nil {
		return nil, err
	}
	if uint64(len(data)) != h.IOSize {
		return nil, persistence.NewFormatError(32, persistence.ErrSizeMismatch)
	}
	if h.NumNodes == 0 || h.NumNodes > MaxNodes || h.NumKeys > h.NumNodes {
		return nil, persistence.NewFormatError(16, ErrMalformed)
	}

	body := data[:len(data)-persistence.ChecksumSize]
	stored := binary.LittleEndian.Uint32(data[len(body):])
	if err := persistence.VerifyChecksum(stored, crc32.ChecksumIEEE(body)); err != nil {
		return nil, err
	}

	off := uint64(persistence.HeaderSize)
	nodesEnd := off + h.NumNodes*8
	if nodesEnd+8 > uint64(len(body)) {
		return nil, persistence.NewFormatError(int64(off), persistence.ErrTruncated)
	}
	// The node region starts at byte 40, so it is 8-byte aligned within
	// the mapping and safe to view as []Node directly.
	nodes := unsafe.Slice((*Node)(unsafe.Pointer(&data[off])), h.NumNodes)

	tailLen := binary.LittleEndian.Uint64(data[nodesEnd:])
	tailStart := nodesEnd + 8
	if tailStart+tailLen > uint64(len(body)) {
		return nil, persistence.NewFormatError(int64(nodesEnd), persistence.ErrTruncated)
	}
	tailBuf := data[tailStart : tailStart+tailLen]

	mode := TailText
	var endFlags BitVector
	rest := tailStart + tailLen
	if h.Flags&persistence.FlagBinaryTail != 0 {
		mode = TailBinary
		if rest+8 > uint64(len(body)) {
			return nil, persistence.NewFormatError(int64(rest), persistence.ErrTruncated)
		}
		bits := binary.LittleEndian.Uint64(data[rest:])
		if bits != tailLen {
			return nil, persistence.NewFormatError(int64(rest), ErrMalformed)
		}
		nwords := (bits + 63) / 64
		wordsStart := rest + 8
		if wordsStart+nwords*8 > uint64(len(body)) {
			return nil, persistence.NewFormatError(int64(rest), persistence.ErrTruncated)
		}
		var words []uint64
		if wordsStart%8 == 0 {
			words = unsafe.Slice((*uint64)(unsafe.Pointer(&data[wordsStart])), nwords)
		} else {
			// A misaligned word region cannot be viewed in place.
			words = make([]uint64, nwords)
			for i := range words {
				words[i] = binary.LittleEndian.Uint64(data[wordsStart+uint64(i)*8:])
			}
		}
		endFlags.Reset(words, int(bits))
		if bits > 0 && !endFlags.Get(int(bits)-1) {
			return nil, persistence.NewFormatError(int64(rest), ErrMalformed)
		}
		rest = wordsStart + nwords*8
	} else if tailLen > 0 && tailBuf[tailLen-1] != 0 {
		return nil, persistence.NewFormatError(int64(rest), ErrMalformed)
	}

	if rest != uint64(len(body)) {
		return nil, persistence.NewFormatError(32, persistence.ErrSizeMismatch)
	}
	return assemble(h, nodes, tailBuf, endFlags, mode)
}

func readUint64(r io.Reader) (uint64, error) {
	var buf [8]byte
	if err := readFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(buf[:]), nil
}

func readFull(r io.Reader, buf []byte) error {
	if _, err := io.ReadFull(r, buf); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return persistence.NewFormatError(0, persistence.ErrTruncated)
		}
		return err
	}
	return nil
}
