package slice

import (
	"fmt"
	"io"

	"github.com/viant/cpgraph/scanerr"
)

// Inflater is the minimal contract the archive package's recyclable
// decompressor pool must satisfy (see archive.Handler). It matches
// compress/flate.Reader's Reset-based reuse convention.
type Inflater interface {
	io.ReadCloser
	Reset(r io.Reader, dict []byte) error
}

// inflatingSlice wraps a deflated zip entry. It forbids SubSlice outright; a
// consumer must call Bytes (which fully materializes via LoadAll semantics)
// or SequentialReader, which streams through a one-shot inflater obtained
// from the caller (archive.Handler owns the pool and the release callback).
type inflatingSlice struct {
	opener       func() (io.Reader, error) // reopens the compressed byte source
	inflaterFor  func(io.Reader) (Inflater, func(), error)
	uncompressed uint64 // declared size from the zip local/central header
}

// NewInflating returns a Slice representing a deflated entry. opener must
// return a fresh reader over the compressed bytes each time it is called
// (sub-slicing is forbidden so this is only ever invoked once per logical
// read, but SequentialReader may be called more than once across retries).
// inflaterFor acquires a pooled Inflater wrapping r and returns a release
// func to return it to the pool; this is how archive.Handler's inflater
// recycling is exercised.
func NewInflating(uncompressedSize uint64, opener func() (io.Reader, error), inflaterFor func(io.Reader) (Inflater, func(), error)) Slice {
	return &inflatingSlice{opener: opener, inflaterFor: inflaterFor, uncompressed: uncompressedSize}
}

func (s *inflatingSlice) Len() uint64 { return s.uncompressed }

func (s *inflatingSlice) SubSlice(uint64, uint64) (Slice, error) {
	return nil, errDeflated("slice.SubSlice")
}

func (s *inflatingSlice) RandomRead(uint64, []byte) (int, error) {
	return 0, errDeflated("slice.RandomRead")
}

func (s *inflatingSlice) SequentialReader() (SeqReader, error) {
	raw, err := s.opener()
	if err != nil {
		return nil, scanerr.New(scanerr.IoError, "slice.SequentialReader", err)
	}
	inf, release, err := s.inflaterFor(raw)
	if err != nil {
		return nil, scanerr.New(scanerr.MalformedArchive, "slice.SequentialReader", err)
	}
	return &inflateReader{inf: inf, release: release}, nil
}

func (s *inflatingSlice) Bytes() ([]byte, bool, error) {
	r, err := s.SequentialReader()
	if err != nil {
		return nil, false, err
	}
	defer r.(*inflateReader).Close()
	buf := make([]byte, 0, s.uncompressed)
	tmp := make([]byte, 32*1024)
	for {
		n, err := r.Read(tmp)
		if n > 0 {
			buf = append(buf, tmp[:n]...)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, false, scanerr.New(scanerr.MalformedArchive, "slice.Bytes", err)
		}
	}
	if uint64(len(buf)) != s.uncompressed && s.uncompressed != 0 {
		return buf, false, scanerr.New(scanerr.MalformedArchive, "slice.Bytes",
			fmt.Errorf("inflated size %d does not match declared size %d", len(buf), s.uncompressed))
	}
	return buf, false, nil
}

func (s *inflatingSlice) Close() error { return nil }

// inflateReader adapts a pooled Inflater to the SeqReader contract. Random
// access primitives are implemented in terms of ReadN since deflate streams
// are inherently sequential.
type inflateReader struct {
	inf     Inflater
	release func()
	pos     uint64
	closed  bool
}

func (r *inflateReader) Read(p []byte) (int, error) {
	n, err := r.inf.Read(p)
	r.pos += uint64(n)
	return n, err
}

func (r *inflateReader) Pos() uint64 { return r.pos }

func (r *inflateReader) Skip(n uint64) error {
	_, err := r.ReadN(n)
	return err
}

func (r *inflateReader) ReadN(n uint64) ([]byte, error) {
	buf := make([]byte, n)
	got := uint64(0)
	for got < n {
		m, err := r.Read(buf[got:])
		got += uint64(m)
		if err != nil {
			if got == n {
				break
			}
			return nil, io.ErrUnexpectedEOF
		}
	}
	return buf, nil
}

func (r *inflateReader) ReadU8() (uint8, error) {
	b, err := r.ReadN(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *inflateReader) ReadU16BE() (uint16, error) { return readBE16(r) }
func (r *inflateReader) ReadU32BE() (uint32, error) { return readBE32(r) }
func (r *inflateReader) ReadU64BE() (uint64, error) { return readBE64(r) }
func (r *inflateReader) ReadU16LE() (uint16, error) { return readLE16(r) }
func (r *inflateReader) ReadU32LE() (uint32, error) { return readLE32(r) }
func (r *inflateReader) ReadU64LE() (uint64, error) { return readLE64(r) }

// Close returns the inflater to its pool exactly once.
func (r *inflateReader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	if r.release != nil {
		r.release()
	}
	return nil
}
