package archive

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/viant/cpgraph/scanerr"
	"github.com/viant/cpgraph/slice"
)

// Entry describes one member of an Archive, relative to its InnerPrefix.
type Entry struct {
	Name             string
	UncompressedSize uint64
	Method           uint16
}

// Archive is an opened, directory-parsed ZIP/JAR (possibly the innermost of
// a chain of nested archives). Its entries are listed and their bytes are
// handed back as slice.Slice values, sliced directly for STORED entries and
// streamed through a pooled inflater for DEFLATE entries.
type Archive struct {
	canonical   string
	backing     slice.Slice
	zr          *zip.Reader
	innerPrefix string
	byName      map[string]*zip.File
	names       []string // sorted, relative to innerPrefix
	inflaters   *inflaterPool
}

// sliceReaderAt adapts a slice.Slice to io.ReaderAt, which archive/zip.NewReader
// requires for random access into the central directory and local headers.
type sliceReaderAt struct{ s slice.Slice }

func (a sliceReaderAt) ReadAt(p []byte, off int64) (int, error) {
	return a.s.RandomRead(uint64(off), p)
}

// openZip parses backing as a ZIP central directory (STORED/DEFLATE, Zip64
// extensions handled transparently by archive/zip itself) and restricts the
// entry listing to innerPrefix.
func openZip(canonical string, backing slice.Slice, innerPrefix string, inflaters *inflaterPool) (*Archive, error) {
	zr, err := zip.NewReader(sliceReaderAt{backing}, int64(backing.Len()))
	if err != nil {
		return nil, scanerr.New(scanerr.MalformedArchive, "archive.openZip", err)
	}
	a := &Archive{
		canonical:   canonical,
		backing:     backing,
		zr:          zr,
		innerPrefix: innerPrefix,
		byName:      make(map[string]*zip.File, len(zr.File)),
		inflaters:   inflaters,
	}
	for _, f := range zr.File {
		name := f.Name
		if innerPrefix != "" {
			if !strings.HasPrefix(name, innerPrefix) {
				continue
			}
			name = strings.TrimPrefix(name, innerPrefix)
			if name == "" {
				continue
			}
		}
		a.byName[name] = f
		a.names = append(a.names, name)
	}
	sort.Strings(a.names)
	return a, nil
}

// Entries returns this archive's members (relative to InnerPrefix) in
// lexicographic order.
func (a *Archive) Entries() []Entry {
	out := make([]Entry, 0, len(a.names))
	for _, name := range a.names {
		f := a.byName[name]
		out = append(out, Entry{Name: name, UncompressedSize: f.UncompressedSize64, Method: f.Method})
	}
	return out
}

// Canonical returns the "A!B!C" path this archive was opened from.
func (a *Archive) Canonical() string { return a.canonical }

// OpenEntry returns a Slice over the named entry's uncompressed bytes.
// STORED entries are sub-sliced directly out of the archive's backing
// bytes; DEFLATE entries stream through a pooled inflater.
func (a *Archive) OpenEntry(name string) (slice.Slice, error) {
	f, ok := a.byName[name]
	if !ok {
		return nil, scanerr.New(scanerr.IoError, "archive.OpenEntry", fmt.Errorf("no such entry %q", name))
	}
	switch f.Method {
	case zip.Store:
		offset, err := f.DataOffset()
		if err != nil {
			return nil, scanerr.New(scanerr.MalformedArchive, "archive.OpenEntry", err)
		}
		return a.backing.SubSlice(uint64(offset), f.UncompressedSize64)
	case zip.Deflate:
		opener := func() (io.Reader, error) {
			offset, err := f.DataOffset()
			if err != nil {
				return nil, err
			}
			return io.NewSectionReader(sliceReaderAt{a.backing}, offset, int64(f.CompressedSize64)), nil
		}
		return slice.NewInflating(f.UncompressedSize64, opener, a.inflaters.Acquire), nil
	default:
		return nil, scanerr.New(scanerr.MalformedArchive, "archive.OpenEntry",
			fmt.Errorf("unsupported compression method %d for entry %q", f.Method, name))
	}
}

// openRawEntry is used internally when this archive's entry is itself a
// nested archive: it returns a reader over the member's uncompressed bytes
// (a deflated member is decompressed by the returned reader).
func (a *Archive) openRawEntry(ctx context.Context, name string) (io.ReadCloser, error) {
	f, ok := a.byName[name]
	if !ok {
		return nil, scanerr.New(scanerr.IoError, "archive.openRawEntry", fmt.Errorf("no such nested archive entry %q", name))
	}
	rc, err := f.Open()
	if err != nil {
		return nil, scanerr.New(scanerr.MalformedArchive, "archive.openRawEntry", err)
	}
	return rc, nil
}

// storedRaw reports whether the named entry is STORED, and if so its slice
// directly backed by the parent archive (used to avoid a temp-file
// round-trip when nesting into an uncompressed inner archive).
func (a *Archive) storedRaw(name string) (slice.Slice, bool) {
	f, ok := a.byName[name]
	if !ok || f.Method != zip.Store {
		return nil, false
	}
	offset, err := f.DataOffset()
	if err != nil {
		return nil, false
	}
	s, err := a.backing.SubSlice(uint64(offset), f.UncompressedSize64)
	if err != nil {
		return nil, false
	}
	return s, true
}

func (a *Archive) close() error {
	return a.backing.Close()
}
