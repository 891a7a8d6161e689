package archive

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeTestZip(t *testing.T, path string, entries map[string][]byte, method uint16) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	zw := zip.NewWriter(f)
	for name, data := range entries {
		w, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: method})
		require.NoError(t, err)
		_, err = w.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
}

func TestHandler_OpenDirectArchive(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "outer.jar")
	writeTestZip(t, path, map[string][]byte{
		"p/A.class": {0xCA, 0xFE, 0xBA, 0xBE},
		"p/B.class": bytes.Repeat([]byte{0x01}, 4096),
	}, zip.Deflate)

	h, err := NewHandler()
	require.NoError(t, err)
	defer h.Close()

	a, release, err := h.Open(context.Background(), path)
	require.NoError(t, err)
	defer release()

	entries := a.Entries()
	require.Len(t, entries, 2)

	s, err := a.OpenEntry("p/A.class")
	require.NoError(t, err)
	r, err := s.SequentialReader()
	require.NoError(t, err)
	magic, err := r.ReadU32BE()
	require.NoError(t, err)
	require.EqualValues(t, 0xCAFEBABE, magic)
}

func TestHandler_OpenStoredArchiveAllowsSubSlice(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "outer.jar")
	writeTestZip(t, path, map[string][]byte{
		"p/A.class": {0xCA, 0xFE, 0xBA, 0xBE, 0x00, 0x00, 0x00, 0x3D},
	}, zip.Store)

	h, err := NewHandler()
	require.NoError(t, err)
	defer h.Close()

	a, release, err := h.Open(context.Background(), path)
	require.NoError(t, err)
	defer release()

	s, err := a.OpenEntry("p/A.class")
	require.NoError(t, err)
	sub, err := s.SubSlice(0, 4)
	require.NoError(t, err)
	buf := make([]byte, 4)
	n, err := sub.RandomRead(0, buf)
	require.NoError(t, err)
	require.Equal(t, 4, n)
	require.Equal(t, []byte{0xCA, 0xFE, 0xBA, 0xBE}, buf)
}

func TestHandler_NestedArchive(t *testing.T) {
	dir := t.TempDir()

	var innerBuf bytes.Buffer
	izw := zip.NewWriter(&innerBuf)
	w, err := izw.CreateHeader(&zip.FileHeader{Name: "classes/p/X.class", Method: zip.Deflate})
	require.NoError(t, err)
	_, err = w.Write([]byte{0xCA, 0xFE, 0xBA, 0xBE})
	require.NoError(t, err)
	require.NoError(t, izw.Close())

	outerPath := filepath.Join(dir, "outer.zip")
	f, err := os.Create(outerPath)
	require.NoError(t, err)
	ozw := zip.NewWriter(f)
	ow, err := ozw.CreateHeader(&zip.FileHeader{Name: "inner.jar", Method: zip.Deflate})
	require.NoError(t, err)
	_, err = io.Copy(ow, bytes.NewReader(innerBuf.Bytes()))
	require.NoError(t, err)
	require.NoError(t, ozw.Close())
	require.NoError(t, f.Close())

	h, err := NewHandler()
	require.NoError(t, err)
	defer h.Close()

	nestedPath := outerPath + "!inner.jar!classes/"
	a, release, err := h.Open(context.Background(), nestedPath)
	require.NoError(t, err)
	defer release()

	entries := a.Entries()
	require.Len(t, entries, 1)
	require.Equal(t, "p/X.class", entries[0].Name)
}
