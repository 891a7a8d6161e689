package classpath

import (
	"net/url"
	"path/filepath"
	"strings"
)

// normalize applies the classpath entry normalization rules to one raw
// entry. The "A!B" nested-archive form and a trailing "/*" wildcard marker
// are left intact; Resolve handles those after normalization.
func normalize(raw string) string {
	s := raw
	s = strings.TrimPrefix(s, "jar:")
	s = strings.TrimPrefix(s, "file://")
	s = strings.TrimPrefix(s, "file:")
	if decoded, err := url.QueryUnescape(s); err == nil {
		s = decoded
	}
	s = strings.ReplaceAll(s, "\\", "/")

	if len(s) >= 2 && isASCIILetter(s[0]) && s[1] == ':' {
		s = "/" + s // bare Windows drive letter, e.g. "C:/foo" -> "/C:/foo"
	}
	for strings.Contains(s, "//") {
		s = strings.ReplaceAll(s, "//", "/")
	}
	if s != "/" && !strings.HasSuffix(s, "/*") {
		s = strings.TrimSuffix(s, "/")
	}

	if !strings.HasPrefix(s, "/") {
		if abs, err := filepath.Abs(s); err == nil {
			s = filepath.ToSlash(abs)
		}
	}
	return s
}

func isASCIILetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
