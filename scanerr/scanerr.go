// Package scanerr defines the error taxonomy shared by every cpgraph
// subsystem. Per-classfile and per-archive failures are never propagated as
// Go panics; they are wrapped in an *Error carrying a Kind and handed to the
// caller's warning collector (see scanlog.Collector) or returned from a
// setup-time call.
package scanerr

import (
	"errors"
	"fmt"
)

// Kind classifies an Error so callers can branch on failure category without
// string matching.
type Kind int

const (
	// Unknown is the zero value and should never be returned by this package.
	Unknown Kind = iota
	// IoError covers unreadable files, premature EOF, failed mmap, temp-file
	// creation failures.
	IoError
	// MalformedArchive covers bad central directories, truncated entries,
	// unsupported compression methods.
	MalformedArchive
	// MalformedClassfile covers bad magic, bad constant-pool tags, malformed
	// modified UTF-8, attribute-length truncation, path/name mismatches.
	MalformedClassfile
	// Cancelled marks cooperative cancellation having been observed.
	Cancelled
	// InvalidConfiguration covers mutually inconsistent options, negative
	// sizes, bogus include/exclude prefixes.
	InvalidConfiguration
	// Internal marks invariant violations such as cycle detection tripping
	// a code path that assumed acyclicity.
	Internal
)

func (k Kind) String() string {
	switch k {
	case IoError:
		return "io"
	case MalformedArchive:
		return "malformed_archive"
	case MalformedClassfile:
		return "malformed_classfile"
	case Cancelled:
		return "cancelled"
	case InvalidConfiguration:
		return "invalid_configuration"
	case Internal:
		return "internal"
	default:
		return "unknown"
	}
}

// Error is the concrete error type returned across package boundaries. Use
// errors.As to recover it and inspect Kind, Class, and Offset.
type Error struct {
	Kind Kind
	// Op names the operation that failed, e.g. "classfile.Parse".
	Op string
	// Class is the fully-qualified class name, if known at the failure point.
	Class string
	// Offset is the byte offset into the classfile/archive entry, if known.
	Offset int64
	// Err is the underlying cause, if any.
	Err error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Op, e.Kind)
	if e.Class != "" {
		msg += fmt.Sprintf(" class=%s", e.Class)
	}
	if e.Offset != 0 {
		msg += fmt.Sprintf(" offset=%d", e.Offset)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// New builds an *Error for op/kind, wrapping cause.
func New(kind Kind, op string, cause error) *Error {
	return &Error{Kind: kind, Op: op, Err: cause}
}

// WithClass returns a copy of e annotated with a class name.
func (e *Error) WithClass(name string) *Error {
	c := *e
	c.Class = name
	return &c
}

// WithOffset returns a copy of e annotated with a byte offset.
func (e *Error) WithOffset(off int64) *Error {
	c := *e
	c.Offset = off
	return &c
}

// Is reports whether err carries the given Kind.
func Is(err error, kind Kind) bool {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind == kind
	}
	return false
}

// ErrCancelled is a sentinel for cooperative cancellation, matching
// context.Canceled in spirit but distinct so callers can tell a cancelled
// scan apart from a context timeout raised by surrounding code.
var ErrCancelled = &Error{Kind: Cancelled, Op: "scan"}
