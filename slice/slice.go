// Package slice implements a uniform byte-range view used by every other
// cpgraph subsystem to read classfile and archive bytes without committing
// to a single backing store: an in-memory array, a random-access file
// (optionally memory-mapped), or a one-shot inflated zip entry.
package slice

import (
	"fmt"
	"io"

	"github.com/viant/cpgraph/scanerr"
)

// Slice is a read-only, offset-bounded window onto a byte source. Sub-slices
// share the parent's backing resource and never release it on Close; only a
// top-level Slice (one returned by New*, not by SubSlice) actually frees
// anything.
type Slice interface {
	// Len reports the slice's length in bytes.
	Len() uint64
	// SubSlice returns a new Slice covering [offset, offset+length) of this
	// slice. It never crosses this slice's bounds. Deflated entries return
	// scanerr.MalformedArchive ("cannot slice a deflated region").
	SubSlice(offset, length uint64) (Slice, error)
	// RandomRead reads len(buf) bytes starting at byte offset at, returning
	// the number of bytes read. Deflated entries return an error; use
	// SequentialReader for those.
	RandomRead(at uint64, buf []byte) (int, error)
	// SequentialReader returns a reader positioned at offset 0.
	SequentialReader() (SeqReader, error)
	// Bytes returns the slice fully materialized in memory, and whether the
	// return value aliases the backing store (true) or was copied/inflated
	// fresh (false). Callers that need a stable copy must copy it themselves
	// when the second return is true.
	Bytes() ([]byte, bool, error)
	// Close releases the top-level resource this slice owns. Idempotent.
	// Sub-slices created via SubSlice are no-ops.
	Close() error
}

// SeqReader is a forward-only reader over a Slice, offering explicit
// big-/little-endian primitives: readers must never silently flip
// endianness based on context.
type SeqReader interface {
	io.Reader
	// Pos reports the current read offset.
	Pos() uint64
	// Skip advances the reader by n bytes without materializing them.
	Skip(n uint64) error
	ReadU8() (uint8, error)
	ReadU16BE() (uint16, error)
	ReadU32BE() (uint32, error)
	ReadU64BE() (uint64, error)
	ReadU16LE() (uint16, error)
	ReadU32LE() (uint32, error)
	ReadU64LE() (uint64, error)
	// ReadN reads exactly n bytes and returns them.
	ReadN(n uint64) ([]byte, error)
}

// errDeflated is returned by SubSlice/RandomRead on a deflated region.
func errDeflated(op string) error {
	return scanerr.New(scanerr.MalformedArchive, op, fmt.Errorf("cannot slice a deflated region"))
}
