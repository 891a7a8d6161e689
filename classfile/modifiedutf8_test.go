package classfile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeModifiedUTF8_ASCII(t *testing.T) {
	s, err := decodeModifiedUTF8([]byte("com/example/Widget"))
	require.NoError(t, err)
	assert.Equal(t, "com/example/Widget", s)
}

func TestDecodeModifiedUTF8_TwoByteNull(t *testing.T) {
	// The classfile format never encodes a literal 0x00; the NUL code point
	// uses the two-byte overlong form 0xC0 0x80 instead.
	s, err := decodeModifiedUTF8([]byte{0xC0, 0x80})
	require.NoError(t, err)
	assert.Equal(t, "\x00", s)
}

func TestDecodeModifiedUTF8_ThreeByte(t *testing.T) {
	// U+20AC EURO SIGN, encoded as a plain 3-byte modified-UTF-8 sequence.
	s, err := decodeModifiedUTF8([]byte{0xE2, 0x82, 0xAC})
	require.NoError(t, err)
	assert.Equal(t, "€", s)
}

func TestDecodeModifiedUTF8_SurrogatePair(t *testing.T) {
	// U+1F600 GRINNING FACE, stored as two adjacent 3-byte-encoded UTF-16
	// surrogates (0xD83D 0xDE00) rather than one 4-byte sequence.
	high := []byte{0xED, 0xA0, 0xBD}
	low := []byte{0xED, 0xB8, 0x80}
	raw := append(append([]byte{}, high...), low...)
	s, err := decodeModifiedUTF8(raw)
	require.NoError(t, err)
	assert.Equal(t, "\U0001F600", s)
}

func TestDecodeModifiedUTF8_TruncatedMultiByte(t *testing.T) {
	_, err := decodeModifiedUTF8([]byte{0xE2, 0x82})
	assert.Error(t, err)
}

func TestDecodeModifiedUTF8_StrayContinuationByte(t *testing.T) {
	_, err := decodeModifiedUTF8([]byte{0x80})
	assert.Error(t, err)
}
