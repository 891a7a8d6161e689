package slice

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArraySlice_RandomReadAndSubSlice(t *testing.T) {
	data := []byte{0xCA, 0xFE, 0xBA, 0xBE, 0x00, 0x34, 0x01, 0x02}
	s := NewArray(data, nil)
	defer s.Close()

	assert.EqualValues(t, len(data), s.Len())

	buf := make([]byte, 4)
	n, err := s.RandomRead(0, buf)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, []byte{0xCA, 0xFE, 0xBA, 0xBE}, buf)

	sub, err := s.SubSlice(4, 4)
	require.NoError(t, err)
	assert.EqualValues(t, 4, sub.Len())

	_, err = s.SubSlice(5, 10)
	assert.Error(t, err)
}

func TestArraySlice_SequentialReaderEndianness(t *testing.T) {
	data := []byte{0x00, 0x01, 0x00, 0x00, 0x00, 0x02, 0x01, 0x00}
	s := NewArray(data, nil)
	r, err := s.SequentialReader()
	require.NoError(t, err)

	u16, err := r.ReadU16BE()
	require.NoError(t, err)
	assert.EqualValues(t, 1, u16)

	u32, err := r.ReadU32BE()
	require.NoError(t, err)
	assert.EqualValues(t, 2, u32)

	u16le, err := r.ReadU16LE()
	require.NoError(t, err)
	assert.EqualValues(t, 1, u16le)

	_, err = r.ReadU8()
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestArraySlice_CloseReleasesOnlyTopLevel(t *testing.T) {
	released := 0
	s := NewArray([]byte{1, 2, 3, 4}, func() { released++ })
	sub, err := s.SubSlice(0, 2)
	require.NoError(t, err)

	require.NoError(t, sub.Close())
	assert.Equal(t, 0, released, "sub-slice close must not release the parent resource")

	require.NoError(t, s.Close())
	assert.Equal(t, 1, released)

	require.NoError(t, s.Close())
	assert.Equal(t, 1, released, "close must be idempotent")
}

func TestInflatingSlice_ForbidsSubSlicing(t *testing.T) {
	s := NewInflating(0, nil, nil)
	_, err := s.SubSlice(0, 1)
	assert.Error(t, err)
	_, err = s.RandomRead(0, make([]byte, 1))
	assert.Error(t, err)
}
