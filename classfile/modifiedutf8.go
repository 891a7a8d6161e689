package classfile

import (
	"fmt"

	"github.com/viant/cpgraph/scanerr"
)

// decodeModifiedUTF8 decodes the classfile format's "modified UTF-8"
// encoding: ASCII single-byte fast path, 2- and 3-byte multi-byte forms, and
// the classfile-specific encoding of the NUL code point as the two-byte
// sequence 0xC0 0x80 (never a literal 0x00 byte).
// This is distinct from standard UTF-8's 4-byte forms for code points
// outside the Basic Multilingual Plane; modified UTF-8 instead encodes
// those as a pair of 3-byte surrogate sequences, which this function
// reassembles.
func decodeModifiedUTF8(b []byte) (string, error) {
	runes := make([]rune, 0, len(b))
	i := 0
	for i < len(b) {
		b0 := b[i]
		switch {
		case b0&0x80 == 0: // 1-byte ASCII, 0xxxxxxx (but never 0x00: that's 0xC0 0x80)
			runes = append(runes, rune(b0))
			i++
		case b0&0xE0 == 0xC0: // 2-byte, 110xxxxx 10xxxxxx
			if i+1 >= len(b) {
				return "", malformedUTF8(i)
			}
			b1 := b[i+1]
			if b1&0xC0 != 0x80 {
				return "", malformedUTF8(i)
			}
			r := rune(b0&0x1F)<<6 | rune(b1&0x3F)
			runes = append(runes, r)
			i += 2
		case b0&0xF0 == 0xE0: // 3-byte, 1110xxxx 10xxxxxx 10xxxxxx
			if i+2 >= len(b) {
				return "", malformedUTF8(i)
			}
			b1, b2 := b[i+1], b[i+2]
			if b1&0xC0 != 0x80 || b2&0xC0 != 0x80 {
				return "", malformedUTF8(i)
			}
			r := rune(b0&0x0F)<<12 | rune(b1&0x3F)<<6 | rune(b2&0x3F)
			runes = append(runes, r)
			i += 3
		default:
			// Any other leading byte pattern (a stray continuation byte, a
			// surrogate-range lead, or a 4-byte UTF-8 lead, which modified
			// UTF-8 never uses directly) is malformed.
			return "", malformedUTF8(i)
		}
	}
	return mergeSurrogatePairs(runes), nil
}

func malformedUTF8(offset int) error {
	return scanerr.New(scanerr.MalformedClassfile, "classfile.decodeModifiedUTF8", fmt.Errorf("malformed modified-UTF-8 at byte %d", offset)).WithOffset(int64(offset))
}

// mergeSurrogatePairs reassembles supplementary characters that modified
// UTF-8 stores as two adjacent 3-byte-encoded UTF-16 surrogates into a
// single Go rune, so the returned string is ordinary UTF-8.
func mergeSurrogatePairs(runes []rune) string {
	var out []rune
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r >= 0xD800 && r <= 0xDBFF && i+1 < len(runes) {
			low := runes[i+1]
			if low >= 0xDC00 && low <= 0xDFFF {
				combined := 0x10000 + (r-0xD800)<<10 + (low - 0xDC00)
				out = append(out, combined)
				i++
				continue
			}
		}
		out = append(out, r)
	}
	return string(out)
}
