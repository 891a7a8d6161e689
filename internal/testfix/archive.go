package testfix

import (
	"archive/zip"
	"bytes"
	"encoding/base64"
	"sort"
	"strings"

	"golang.org/x/tools/txtar"
)

// Archive packs entries (relative path, e.g. "com/example/Widget.class", to
// classfile bytes) into an in-memory, uncompressed ZIP/JAR so scan's
// archive-root code path can be exercised without touching the filesystem.
func Archive(entries map[string][]byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		w, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Store})
		if err != nil {
			return nil, err
		}
		if _, err := w.Write(entries[name]); err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// LoadScenario decodes a txtar archive of base64-encoded classfile bytes,
// one section per expected class, keyed by section name (conventionally a
// "com/example/Widget.class"-style relative path). Lets an end-to-end scan
// scenario live as a single golden file instead of inline byte literals.
func LoadScenario(data []byte) (map[string][]byte, error) {
	parsed := txtar.Parse(data)
	out := make(map[string][]byte, len(parsed.Files))
	for _, f := range parsed.Files {
		decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(string(f.Data)))
		if err != nil {
			return nil, err
		}
		out[f.Name] = decoded
	}
	return out, nil
}
