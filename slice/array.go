package slice

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/viant/cpgraph/scanerr"
)

// arraySlice is a Slice backed entirely by an in-memory byte slice: the
// simplest case, for data already held in memory.
type arraySlice struct {
	data    []byte
	owns    bool // true only for the top-level slice that should release on Close
	release func()
}

// NewArray wraps data as a top-level Slice. release, if non-nil, is invoked
// exactly once on Close.
func NewArray(data []byte, release func()) Slice {
	return &arraySlice{data: data, owns: true, release: release}
}

func (s *arraySlice) Len() uint64 { return uint64(len(s.data)) }

func (s *arraySlice) SubSlice(offset, length uint64) (Slice, error) {
	if offset+length > uint64(len(s.data)) || offset+length < offset {
		return nil, scanerr.New(scanerr.IoError, "slice.SubSlice", fmt.Errorf("range [%d,%d) out of bounds (len=%d)", offset, offset+length, len(s.data)))
	}
	return &arraySlice{data: s.data[offset : offset+length], owns: false}, nil
}

func (s *arraySlice) RandomRead(at uint64, buf []byte) (int, error) {
	if at > uint64(len(s.data)) {
		return 0, scanerr.New(scanerr.IoError, "slice.RandomRead", io.EOF)
	}
	n := copy(buf, s.data[at:])
	if n < len(buf) {
		return n, io.EOF
	}
	return n, nil
}

func (s *arraySlice) SequentialReader() (SeqReader, error) {
	return &byteReader{data: s.data}, nil
}

func (s *arraySlice) Bytes() ([]byte, bool, error) { return s.data, true, nil }

func (s *arraySlice) Close() error {
	if s.owns && s.release != nil {
		s.release()
		s.release = nil
	}
	return nil
}

// byteReader is the SeqReader implementation shared by arraySlice and any
// other slice kind whose data is already addressable as a []byte (e.g. a
// memory-mapped file slice).
type byteReader struct {
	data []byte
	pos  uint64
}

func (r *byteReader) Pos() uint64 { return r.pos }

func (r *byteReader) remaining() []byte {
	if r.pos >= uint64(len(r.data)) {
		return nil
	}
	return r.data[r.pos:]
}

func (r *byteReader) Read(p []byte) (int, error) {
	rem := r.remaining()
	if len(rem) == 0 {
		return 0, io.EOF
	}
	n := copy(p, rem)
	r.pos += uint64(n)
	return n, nil
}

func (r *byteReader) Skip(n uint64) error {
	if r.pos+n > uint64(len(r.data)) {
		r.pos = uint64(len(r.data))
		return io.ErrUnexpectedEOF
	}
	r.pos += n
	return nil
}

func (r *byteReader) ReadN(n uint64) ([]byte, error) {
	rem := r.remaining()
	if uint64(len(rem)) < n {
		return nil, io.ErrUnexpectedEOF
	}
	out := rem[:n]
	r.pos += n
	return out, nil
}

func (r *byteReader) ReadU8() (uint8, error) {
	b, err := r.ReadN(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *byteReader) ReadU16BE() (uint16, error) {
	b, err := r.ReadN(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

func (r *byteReader) ReadU32BE() (uint32, error) {
	b, err := r.ReadN(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

func (r *byteReader) ReadU64BE() (uint64, error) {
	b, err := r.ReadN(8)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(b), nil
}

func (r *byteReader) ReadU16LE() (uint16, error) {
	b, err := r.ReadN(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (r *byteReader) ReadU32LE() (uint32, error) {
	b, err := r.ReadN(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (r *byteReader) ReadU64LE() (uint64, error) {
	b, err := r.ReadN(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}
