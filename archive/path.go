package archive

import "strings"

// archiveExts lists the file extensions treated as nestable archives when
// splitting a classpath entry like "outer.zip!inner.jar!classes/". Anything
// else in the "!"-separated tail is an inner path prefix inside the deepest
// archive, not a further nesting level.
var archiveExts = []string{".jar", ".zip", ".war", ".ear", ".jmod"}

func looksLikeArchive(name string) bool {
	return IsArchiveName(name)
}

// IsArchiveName reports whether name has a file extension this module treats
// as a nestable archive ("jar", "zip", "war", "ear", "jmod"). Exported so
// package classpath can classify a classpath entry without duplicating the
// extension list.
func IsArchiveName(name string) bool {
	lower := strings.ToLower(name)
	for _, ext := range archiveExts {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// ParsedPath is the result of splitting a nested-archive classpath entry.
type ParsedPath struct {
	// OSPath is the real filesystem path of the outermost archive.
	OSPath string
	// Nested holds the archive-internal entry name of each further nesting
	// level, outermost first (e.g. ["inner.jar"] for "outer.zip!inner.jar").
	Nested []string
	// InnerPrefix is a directory prefix within the innermost archive, or ""
	// (e.g. "classes/" for "outer.zip!inner.jar!classes/").
	InnerPrefix string
}

// ParsePath splits a classpath entry of the form "A!B!C" into its OS file,
// its chain of nested-archive entry names, and a trailing directory prefix.
func ParsePath(path string) ParsedPath {
	segments := strings.Split(path, "!")
	out := ParsedPath{OSPath: segments[0]}
	for _, seg := range segments[1:] {
		if looksLikeArchive(seg) {
			out.Nested = append(out.Nested, seg)
			continue
		}
		// first non-archive segment terminates the nesting chain; anything
		// after it (unusual, but tolerated) is folded into the same prefix.
		if out.InnerPrefix == "" {
			out.InnerPrefix = seg
		} else {
			out.InnerPrefix = out.InnerPrefix + "!" + seg
		}
	}
	return out
}

// String reconstructs the canonical "A!B!C" form, used for pool keys and for
// reporting resource paths from nested archives.
func (p ParsedPath) String() string {
	parts := append([]string{p.OSPath}, p.Nested...)
	s := strings.Join(parts, "!")
	if p.InnerPrefix != "" {
		s += "!" + p.InnerPrefix
	}
	return s
}
