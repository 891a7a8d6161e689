package classpath

import (
	"context"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"golang.org/x/mod/semver"

	"github.com/viant/afs"
)

// systemArchiveMarkers are the files/directories whose presence under a
// candidate root identifies it as a JDK/JRE install: rt.jar for Java 8 and
// earlier, a jmods/ directory of platform modules for Java 9+.
var systemArchiveMarkers = []string{"lib/rt.jar", "jre/lib/rt.jar", "jmods"}

// systemArchiveDetector locates the newest JDK/JRE install among a set of
// candidate roots and tags ResourceRoots living under it as system
// archives.
type systemArchiveDetector struct {
	fs    afs.Service
	roots []string
}

type jdkCandidate struct {
	root    string
	version string // semver.Canonical form, used only for deterministic ordering
}

// tagAndFilter marks every ResourceRoot under the newest detected JDK root
// as IsSystem, dropping them from the result when exclude is true.
func (d *systemArchiveDetector) tagAndFilter(ctx context.Context, roots []ResourceRoot, exclude bool) []ResourceRoot {
	jdkRoot := d.selectNewest(ctx)
	if jdkRoot == "" {
		return roots
	}
	out := make([]ResourceRoot, 0, len(roots))
	for _, r := range roots {
		if strings.HasPrefix(r.Path, jdkRoot) {
			r.IsSystem = true
			if exclude {
				continue
			}
		}
		out = append(out, r)
	}
	return out
}

// selectNewest probes every candidate root and, when more than one carries
// a system-archive marker, picks the highest version deterministically via
// golang.org/x/mod/semver.
func (d *systemArchiveDetector) selectNewest(ctx context.Context) string {
	var found []jdkCandidate
	for _, root := range d.roots {
		if v, ok := d.probe(ctx, root); ok {
			found = append(found, jdkCandidate{root: root, version: v})
		}
	}
	if len(found) == 0 {
		return ""
	}
	sort.Slice(found, func(i, j int) bool {
		if found[i].version != found[j].version {
			return semver.Compare(found[i].version, found[j].version) > 0
		}
		return found[i].root < found[j].root
	})
	return found[0].root
}

func (d *systemArchiveDetector) probe(ctx context.Context, root string) (string, bool) {
	if d.fs == nil {
		return "", false
	}
	for _, marker := range systemArchiveMarkers {
		path := filepath.ToSlash(filepath.Join(root, marker))
		if ok, err := d.fs.Exists(ctx, path); err == nil && ok {
			return versionFromRoot(root), true
		}
	}
	return "", false
}

var versionDigits = regexp.MustCompile(`(\d+)(?:\.(\d+))?(?:\.(\d+))?`)

// versionFromRoot extracts a semver-comparable version tag from a JDK
// install directory name such as "jdk-17.0.2" or "jdk1.8.0_361", defaulting
// to the lowest precedence ("v0.0.0") when nothing recognizable is found.
func versionFromRoot(root string) string {
	base := filepath.Base(root)
	m := versionDigits.FindStringSubmatch(base)
	if m == nil {
		return "v0.0.0"
	}
	major, minor, patch := m[1], m[2], m[3]
	if minor == "" {
		minor = "0"
	}
	if patch == "" {
		patch = "0"
	}
	v := "v" + major + "." + minor + "." + patch
	if !semver.IsValid(v) {
		return "v0.0.0"
	}
	return v
}
