package classpath

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/viant/cpgraph/scanerr"
)

const manifestEntryName = "META-INF/MANIFEST.MF"

// chaseManifest opens archivePath and, if it carries a MANIFEST.MF with a
// Class-Path attribute, resolves each whitespace-separated token relative to
// archivePath's parent directory, matching the standard runtime's own
// resolution rule. A missing manifest, a
// manifest without Class-Path, or any open failure all resolve to "nothing
// to chase" rather than an error: manifest chasing is a best-effort
// enrichment, never a hard scan dependency.
func (r *Resolver) chaseManifest(ctx context.Context, archivePath string) ([]string, error) {
	if r.archives == nil {
		return nil, nil
	}
	a, release, err := r.archives.Open(ctx, archivePath)
	if err != nil {
		return nil, nil
	}
	defer release()

	s, err := a.OpenEntry(manifestEntryName)
	if err != nil {
		return nil, nil
	}
	data, _, err := s.Bytes()
	if err != nil {
		return nil, scanerr.New(scanerr.IoError, "classpath.chaseManifest", err)
	}

	classPath := manifestAttribute(data, "Class-Path")
	if classPath == "" {
		return nil, nil
	}
	dir := filepath.Dir(archivePath)
	var out []string
	for _, token := range strings.Fields(classPath) {
		out = append(out, filepath.ToSlash(filepath.Join(dir, token)))
	}
	return out, nil
}

// manifestAttribute returns the value of the named attribute from a raw
// MANIFEST.MF byte stream, first unfolding continuation lines (a
// continuation line starts with exactly one space, per the JAR manifest
// format) and then matching "Name: value" case-sensitively.
func manifestAttribute(data []byte, name string) string {
	lines := unfoldManifestLines(data)
	prefix := name + ": "
	for _, line := range lines {
		if strings.HasPrefix(line, prefix) {
			return strings.TrimSpace(strings.TrimPrefix(line, prefix))
		}
	}
	return ""
}

func unfoldManifestLines(data []byte) []string {
	raw := strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")
	var out []string
	for _, line := range raw {
		if strings.HasPrefix(line, " ") && len(out) > 0 {
			out[len(out)-1] += strings.TrimPrefix(line, " ")
			continue
		}
		out = append(out, line)
	}
	return out
}
