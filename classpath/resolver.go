// Package classpath turns
// the abstract notion of "a classpath" -- an ordered sequence of sources,
// each contributing path-strings -- into a deduplicated, classpath-ordered
// list of ResourceRoot values ready for the scan package to walk.
package classpath

import (
	"context"
	"sort"
	"strings"

	"github.com/viant/afs"

	"github.com/viant/cpgraph/archive"
	"github.com/viant/cpgraph/scanerr"
)

// RootKind distinguishes a directory root (walked recursively for .class
// files) from an archive root (opened through the nested-archive handler).
type RootKind int

const (
	KindDirectory RootKind = iota
	KindArchive
)

func (k RootKind) String() string {
	if k == KindArchive {
		return "archive"
	}
	return "directory"
}

// ResourceRoot is one resolved classpath element, in final classpath order.
type ResourceRoot struct {
	// Path is the normalized entry: an absolute directory, an absolute
	// archive file, or a nested "A!B!C" archive.ParsePath-compatible string.
	Path string
	Kind RootKind
	// IsSystem marks a root living under a detected JDK/JRE install.
	IsSystem bool
	// Rank is this root's position in final classpath order; lower wins
	// ties during first-writer-wins masking.
	Rank int
}

// Source contributes zero or more raw classpath path-strings, given the
// entries accumulated from earlier sources. The core knows nothing about a
// Source beyond this contract -- a pluggable adapter point in place of
// runtime reflection over classloader objects.
type Source interface {
	Contribute(ctx context.Context, accumulated []string) ([]string, error)
}

// Resolver builds the final ResourceRoot list from one or more Sources.
type Resolver struct {
	fs                    afs.Service
	archives              *archive.Handler
	excludeSystemArchives bool
	detector              *systemArchiveDetector
}

// Option configures a Resolver, following the functional-options convention
// used throughout this module.
type Option func(*Resolver)

// WithFileSystem overrides the afs.Service used for directory listing
// (wildcard expansion) and system-archive probing. Defaults to afs.New().
func WithFileSystem(fs afs.Service) Option {
	return func(r *Resolver) { r.fs = fs }
}

// WithArchiveHandler supplies the NestedArchiveHandler used to open archives
// for manifest chasing. Without one, archives
// are still listed as roots but their MANIFEST.MF Class-Path is not chased.
func WithArchiveHandler(h *archive.Handler) Option {
	return func(r *Resolver) { r.archives = h }
}

// WithExcludeSystemArchives drops roots tagged IsSystem from the final list
// instead of merely tagging them.
func WithExcludeSystemArchives(exclude bool) Option {
	return func(r *Resolver) { r.excludeSystemArchives = exclude }
}

// WithJDKRoots registers candidate JDK/JRE install directories to probe for
// system-archive markers (rt.jar, jmods/). Without any, system-archive
// detection is a no-op and every root is treated as non-system.
func WithJDKRoots(roots ...string) Option {
	return func(r *Resolver) {
		if r.detector == nil {
			r.detector = &systemArchiveDetector{}
		}
		r.detector.roots = append(r.detector.roots, roots...)
	}
}

// NewResolver builds a Resolver with the given options.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{fs: afs.New()}
	for _, opt := range opts {
		opt(r)
	}
	if r.detector != nil {
		r.detector.fs = r.fs
	}
	return r
}

// Resolve consults sources in order, normalizes and expands their
// contributions, chases manifests, deduplicates by canonical path, tags
// and/or drops system archives, and returns the final classpath-ordered
// ResourceRoot list.
func (r *Resolver) Resolve(ctx context.Context, sources ...Source) ([]ResourceRoot, error) {
	var raw []string
	var accumulated []string
	for _, src := range sources {
		contributed, err := src.Contribute(ctx, accumulated)
		if err != nil {
			return nil, scanerr.New(scanerr.InvalidConfiguration, "classpath.Resolve", err)
		}
		accumulated = append(accumulated, contributed...)
		raw = append(raw, contributed...)
	}

	seen := make(map[string]bool, len(raw))
	var roots []ResourceRoot
	rank := 0

	add := func(entryPath string) {
		norm := normalize(entryPath)
		entries := []string{norm}
		if strings.HasSuffix(norm, "/*") {
			children, err := r.expandWildcard(ctx, strings.TrimSuffix(norm, "/*"))
			if err != nil {
				return // unreadable wildcard directory: contribute nothing, not a hard failure
			}
			entries = children
		}
		for _, e := range entries {
			key := canonicalKey(e)
			if seen[key] {
				continue
			}
			seen[key] = true
			roots = append(roots, ResourceRoot{Path: e, Kind: classifyKind(e), Rank: rank})
			rank++

			if classifyKind(e) == KindArchive {
				manifestEntries, _ := r.chaseManifest(ctx, e)
				for _, m := range manifestEntries {
					mkey := canonicalKey(m)
					if seen[mkey] {
						continue
					}
					seen[mkey] = true
					roots = append(roots, ResourceRoot{Path: m, Kind: classifyKind(m), Rank: rank})
					rank++
				}
			}
		}
	}
	for _, entry := range raw {
		add(entry)
	}

	if r.detector != nil {
		roots = r.detector.tagAndFilter(ctx, roots, r.excludeSystemArchives)
	}
	return roots, nil
}

func classifyKind(path string) RootKind {
	parsed := archive.ParsePath(path)
	if len(parsed.Nested) > 0 || archive.IsArchiveName(parsed.OSPath) {
		return KindArchive
	}
	return KindDirectory
}

// canonicalKey collapses a normalized entry to the key used for dedup: the
// already-absolute, already-cleaned path is used as-is, since normalize has
// already resolved it against the working directory and collapsed redundant
// separators.
func canonicalKey(path string) string {
	return path
}

func (r *Resolver) expandWildcard(ctx context.Context, dir string) ([]string, error) {
	objects, err := r.fs.List(ctx, dir)
	if err != nil {
		return nil, scanerr.New(scanerr.IoError, "classpath.expandWildcard", err)
	}
	var children []string
	for _, obj := range objects {
		if obj.IsDir() || obj.URL() == dir {
			continue
		}
		children = append(children, obj.URL())
	}
	sort.Strings(children)
	return children, nil
}
