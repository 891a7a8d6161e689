// Package scan walks a resolved classpath's roots, parses every .class entry
// found under them, and links the surviving classes into a relationship
// graph, fanning the parsing work out over a bounded worker pool.
package scan

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/minio/highwayhash"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/viant/afs"
	"github.com/viant/afs/url"

	"github.com/viant/cpgraph/archive"
	"github.com/viant/cpgraph/cgraph"
	"github.com/viant/cpgraph/classfile"
	"github.com/viant/cpgraph/classpath"
	"github.com/viant/cpgraph/scanerr"
	"github.com/viant/cpgraph/scanfilter"
	"github.com/viant/cpgraph/scanlog"
	"github.com/viant/cpgraph/slice"
)

const classSuffix = ".class"

// contentHashKey seeds the keyed hash used to fingerprint each classfile's
// raw bytes, for masking diagnostics. A distinct key from mask.go's shard
// hash keeps the two unrelated uses from being confused with one another if
// either key is ever rotated independently.
var contentHashKey = []byte("cpgraph-scan-content-hash-key-32")

func contentHash(raw []byte) uint64 {
	h, err := highwayhash.New64(contentHashKey)
	if err != nil {
		return 0
	}
	_, _ = h.Write(raw)
	return h.Sum64()
}

// Driver turns a classpath-ordered []classpath.ResourceRoot into a frozen
// cgraph.ScanResult. A Driver is reusable across calls to Scan but is not
// itself safe for concurrent Scan calls sharing the same archive.Handler.
type Driver struct {
	fs       afs.Service
	archives *archive.Handler
	fileOpts slice.FileOptions

	parseOpts   classfile.ParseOptions
	filter      *scanfilter.Filter
	workerCount int

	retainExternalReferences bool

	parsers sync.Pool
}

// Option configures a Driver, following the functional-options convention
// used throughout this module.
type Option func(*Driver)

// WithFileSystem overrides the afs.Service used to walk directory roots.
// Defaults to afs.New().
func WithFileSystem(fs afs.Service) Option {
	return func(d *Driver) { d.fs = fs }
}

// WithArchiveHandler supplies the handler used to open archive roots.
// Without one, NewDriver constructs its own via archive.NewHandler.
func WithArchiveHandler(h *archive.Handler) Option {
	return func(d *Driver) { d.archives = h }
}

// WithMemoryMapping controls whether individual directory-root .class files
// are opened with memory mapping enabled.
func WithMemoryMapping(enabled bool) Option {
	return func(d *Driver) { d.fileOpts.EnableMemoryMapping = enabled }
}

// WithWorkerCount bounds how many classfiles are parsed concurrently. Values
// less than 1 are ignored (the default of 1 applies).
func WithWorkerCount(n int) Option {
	return func(d *Driver) {
		if n > 0 {
			d.workerCount = n
		}
	}
}

// WithFilter restricts which class names are scanned at all and which
// referenced type names a parsed class retains. The same Filter is used for
// both, matching scanfilter's design.
func WithFilter(f *scanfilter.Filter) Option {
	return func(d *Driver) { d.filter = f }
}

// WithParseOptions controls which per-classfile facts the parser computes
// (field/method/annotation info, constant folding). A TypeFilter left nil
// here is replaced by the Driver's Filter (which, without WithFilter,
// retains every type name); a non-nil TypeFilter is kept as given.
func WithParseOptions(opts classfile.ParseOptions) Option {
	return func(d *Driver) { d.parseOpts = opts }
}

// WithRetainExternalReferences controls whether a name referenced by a
// scanned class but never itself scanned materializes as a KindExternal stub
// node in the final graph, mirroring cgraph.Linker.RetainExternalReferences.
func WithRetainExternalReferences(retain bool) Option {
	return func(d *Driver) { d.retainExternalReferences = retain }
}

// NewDriver builds a Driver from options.
func NewDriver(opts ...Option) (*Driver, error) {
	d := &Driver{
		fs:          afs.New(),
		workerCount: 1,
		filter:      scanfilter.New(),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.archives == nil {
		h, err := archive.NewHandler(archive.WithMemoryMapping(d.fileOpts.EnableMemoryMapping))
		if err != nil {
			return nil, err
		}
		d.archives = h
	}
	if d.parseOpts.TypeFilter == nil {
		d.parseOpts.TypeFilter = d.filter
	}
	d.parsers.New = func() interface{} { return classfile.NewParser() }
	return d, nil
}

// Scan walks every root in roots, in classpath order, parses every .class
// entry found, applies first-writer-wins masking across duplicate class
// names, and links the surviving classes into a ScanResult. Per-classfile
// and per-root failures are recorded as warnings via scanlog and otherwise
// skipped; Scan itself only fails on cooperative cancellation or a
// programmer-error invariant violation surfacing from cgraph.Linker.
func (d *Driver) Scan(ctx context.Context, roots []classpath.ResourceRoot) (*cgraph.ScanResult, error) {
	entries := d.collectEntries(ctx, roots)

	mask := newMaskTable()
	sem := semaphore.NewWeighted(int64(d.workerCount))
	g, gctx := errgroup.WithContext(ctx)

submit:
	for _, e := range entries {
		e := e
		if err := sem.Acquire(gctx, 1); err != nil {
			break submit
		}
		g.Go(func() error {
			defer sem.Release(1)
			return d.parseOne(gctx, e, mask)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if ctx.Err() != nil {
		return nil, scanerr.ErrCancelled
	}

	linker := &cgraph.Linker{RetainExternalReferences: d.retainExternalReferences}
	return linker.Link(ctx, mask.orderedClasses(), mask.orderedMasked())
}

// classEntry is one candidate classfile located under a ResourceRoot, not
// yet opened or parsed.
type classEntry struct {
	root         classpath.ResourceRoot
	relativePath string // slash-separated, without a trailing ".class"
	open         func() (slice.Slice, error)
}

func (d *Driver) collectEntries(ctx context.Context, roots []classpath.ResourceRoot) []classEntry {
	var out []classEntry
	for _, root := range roots {
		var entries []classEntry
		var err error
		switch root.Kind {
		case classpath.KindDirectory:
			entries, err = d.collectDirectoryEntries(ctx, root)
		case classpath.KindArchive:
			entries, err = d.collectArchiveEntries(ctx, root)
		}
		if err != nil {
			scanlog.Warn(ctx, "", fmt.Sprintf("failed to enumerate root %q: %v", root.Path, err), 0)
			continue
		}
		out = append(out, entries...)
	}
	return out
}

func (d *Driver) collectDirectoryEntries(ctx context.Context, root classpath.ResourceRoot) ([]classEntry, error) {
	var out []classEntry
	visitor := func(_ context.Context, baseURL, parent string, info os.FileInfo, _ io.Reader) (bool, error) {
		if info.IsDir() {
			return true, nil
		}
		if !strings.HasSuffix(info.Name(), classSuffix) {
			return true, nil
		}
		rel := strings.TrimPrefix(url.Join(parent, info.Name()), "/")
		fileURL := url.Join(baseURL, parent, info.Name())
		opts := d.fileOpts
		out = append(out, classEntry{
			root:         root,
			relativePath: strings.TrimSuffix(rel, classSuffix),
			open: func() (slice.Slice, error) {
				return slice.NewFile(fileURL, opts)
			},
		})
		return true, nil
	}
	if err := d.fs.Walk(ctx, root.Path, visitor); err != nil {
		return nil, scanerr.New(scanerr.IoError, "scan.collectDirectoryEntries", err)
	}
	return out, nil
}

func (d *Driver) collectArchiveEntries(ctx context.Context, root classpath.ResourceRoot) ([]classEntry, error) {
	a, release, err := d.archives.Open(ctx, root.Path)
	if err != nil {
		return nil, err
	}
	defer release()

	var out []classEntry
	for _, entry := range a.Entries() {
		if !strings.HasSuffix(entry.Name, classSuffix) {
			continue
		}
		name := entry.Name
		out = append(out, classEntry{
			root:         root,
			relativePath: strings.TrimSuffix(name, classSuffix),
			open: func() (slice.Slice, error) {
				return a.OpenEntry(name)
			},
		})
	}
	return out, nil
}

// parseOne parses one classEntry and, if it survives every check, offers it
// to mask. It never returns a non-nil error except when ctx has already been
// cancelled, so one bad classfile never aborts an otherwise-healthy scan.
func (d *Driver) parseOne(ctx context.Context, e classEntry, mask *maskTable) error {
	if err := ctx.Err(); err != nil {
		return scanerr.ErrCancelled
	}

	pathName := dottedNameFromPath(e.relativePath)
	if !d.filter.Allow(pathName) {
		return nil
	}

	s, err := e.open()
	if err != nil {
		scanlog.Warn(ctx, pathName, fmt.Sprintf("failed to open: %v", err), 0)
		return nil
	}
	defer s.Close()

	raw, _, err := s.Bytes()
	if err != nil {
		scanlog.Warn(ctx, pathName, fmt.Sprintf("failed to read: %v", err), 0)
		return nil
	}
	hash := contentHash(raw)

	r, err := s.SequentialReader()
	if err != nil {
		scanlog.Warn(ctx, pathName, fmt.Sprintf("failed to read: %v", err), 0)
		return nil
	}
	if c, ok := r.(io.Closer); ok {
		defer c.Close()
	}

	p := d.parsers.Get().(*classfile.Parser)
	defer d.parsers.Put(p)

	info, err := p.Parse(r, d.parseOpts)
	if err != nil {
		scanlog.Warn(ctx, pathName, err.Error(), 0)
		return nil
	}
	if info == nil {
		return nil // java.lang.Object: intentionally dropped by classfile.Parse
	}
	if info.Name != pathName {
		scanlog.Warn(ctx, info.Name, fmt.Sprintf(
			"declared name %q does not match its path-derived name %q, dropping", info.Name, pathName), 0)
		return nil
	}
	if !d.filter.Allow(info.Name) {
		return nil
	}

	mask.offer(info.Name, cgraph.ScannedClass{
		Info:           info,
		ClasspathEntry: e.root.Path,
		RelativePath:   e.relativePath + classSuffix,
		ContentHash:    hash,
	}, e.root.Rank)
	return nil
}

func dottedNameFromPath(relativePath string) string {
	return strings.ReplaceAll(relativePath, "/", ".")
}
