package slice

import (
	"fmt"
	"io"
	"os"

	"github.com/viant/cpgraph/scanerr"
)

// fileSlice is a Slice backed by an *os.File window, read positionally via
// ReadAt by default. If mmapping is enabled and succeeds (see mmap_unix.go /
// mmap_other.go), reads are served from the mapped region instead; mapping
// failure of any kind falls back to positional reads transparently; the
// mapping policy is a boolean configuration, never an algorithmic choice.
type fileSlice struct {
	f          *os.File
	base, size uint64 // window into f
	owns       bool   // true for the top-level slice created by NewFile
	mapped     []byte // non-nil if backed by an mmap of [base,base+size)
	unmap      func([]byte) error
}

// FileOptions configures how a file-backed top-level Slice is opened.
type FileOptions struct {
	// EnableMemoryMapping attempts to back the slice with a shared mapping.
	EnableMemoryMapping bool
}

// NewFile opens path and returns a top-level Slice over its full contents.
func NewFile(path string, opts FileOptions) (Slice, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, scanerr.New(scanerr.IoError, "slice.NewFile", err)
	}
	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, scanerr.New(scanerr.IoError, "slice.NewFile", err)
	}
	size := uint64(st.Size())
	s := &fileSlice{f: f, base: 0, size: size, owns: true}
	if opts.EnableMemoryMapping {
		if mapped, unmap, err := tryMmap(f, size); err == nil {
			s.mapped = mapped
			s.unmap = unmap
		}
		// mapping failure is silently ignored: fall back to positional reads.
	}
	return s, nil
}

func (s *fileSlice) Len() uint64 { return s.size }

func (s *fileSlice) SubSlice(offset, length uint64) (Slice, error) {
	if offset+length > s.size || offset+length < offset {
		return nil, scanerr.New(scanerr.IoError, "slice.SubSlice", fmt.Errorf("range [%d,%d) out of bounds (len=%d)", offset, offset+length, s.size))
	}
	return &fileSlice{
		f: s.f, base: s.base + offset, size: length, owns: false,
		mapped: subMapped(s.mapped, offset, length),
	}, nil
}

func subMapped(mapped []byte, offset, length uint64) []byte {
	if mapped == nil {
		return nil
	}
	return mapped[offset : offset+length]
}

func (s *fileSlice) RandomRead(at uint64, buf []byte) (int, error) {
	if at > s.size {
		return 0, scanerr.New(scanerr.IoError, "slice.RandomRead", io.EOF)
	}
	if s.mapped != nil {
		n := copy(buf, s.mapped[at:])
		if n < len(buf) {
			return n, io.EOF
		}
		return n, nil
	}
	n, err := s.f.ReadAt(buf, int64(s.base+at))
	if err != nil && err != io.EOF {
		return n, scanerr.New(scanerr.IoError, "slice.RandomRead", err)
	}
	return n, err
}

func (s *fileSlice) SequentialReader() (SeqReader, error) {
	if s.mapped != nil {
		return &byteReader{data: s.mapped}, nil
	}
	return &fileSeqReader{s: s}, nil
}

func (s *fileSlice) Bytes() ([]byte, bool, error) {
	if s.mapped != nil {
		return s.mapped, true, nil
	}
	buf := make([]byte, s.size)
	if _, err := s.f.ReadAt(buf, int64(s.base)); err != nil && err != io.EOF {
		return nil, false, scanerr.New(scanerr.IoError, "slice.Bytes", err)
	}
	return buf, false, nil
}

func (s *fileSlice) Close() error {
	if !s.owns {
		return nil
	}
	s.owns = false
	var err error
	if s.unmap != nil && s.mapped != nil {
		err = s.unmap(s.mapped)
	}
	if cerr := s.f.Close(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		return scanerr.New(scanerr.IoError, "slice.Close", err)
	}
	return nil
}

// fileSeqReader reads sequentially from a fileSlice without mmap, using
// ReadAt under the hood so concurrent readers over sibling sub-slices of the
// same *os.File never contend on a shared offset.
type fileSeqReader struct {
	s   *fileSlice
	pos uint64
}

func (r *fileSeqReader) Pos() uint64 { return r.pos }

func (r *fileSeqReader) Read(p []byte) (int, error) {
	if r.pos >= r.s.size {
		return 0, io.EOF
	}
	max := r.s.size - r.pos
	if uint64(len(p)) > max {
		p = p[:max]
	}
	n, err := r.s.f.ReadAt(p, int64(r.s.base+r.pos))
	r.pos += uint64(n)
	return n, err
}

func (r *fileSeqReader) Skip(n uint64) error {
	if r.pos+n > r.s.size {
		r.pos = r.s.size
		return io.ErrUnexpectedEOF
	}
	r.pos += n
	return nil
}

func (r *fileSeqReader) ReadN(n uint64) ([]byte, error) {
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

func (r *fileSeqReader) ReadU8() (uint8, error) {
	b, err := r.ReadN(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *fileSeqReader) ReadU16BE() (uint16, error) { return readBE16(r) }
func (r *fileSeqReader) ReadU32BE() (uint32, error) { return readBE32(r) }
func (r *fileSeqReader) ReadU64BE() (uint64, error) { return readBE64(r) }
func (r *fileSeqReader) ReadU16LE() (uint16, error) { return readLE16(r) }
func (r *fileSeqReader) ReadU32LE() (uint32, error) { return readLE32(r) }
func (r *fileSeqReader) ReadU64LE() (uint64, error) { return readLE64(r) }
