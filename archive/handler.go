// Package archive opens ZIP/JAR-family archives — including archives nested
// inside other archives at paths like "outer.jar!inner.jar!pkg/" — recycles
// reader and inflater resources, and owns the temp-file lifecycle for
// archives that must be materialized before they can be parsed further.
package archive

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/viant/cpgraph/scanlog"
	"github.com/viant/cpgraph/slice"
)

// Handler is the NestedArchiveHandler. It is safe for concurrent use by
// multiple scan workers; a single Handler is shared for the lifetime of one
// scan.
type Handler struct {
	fileOpts  slice.FileOptions
	archives  *archiveReaderPool
	inflaters *inflaterPool
	temps     *tempStore

	closeOnce sync.Once
	stopHook  chan struct{}
}

// Option configures a Handler, following the functional-options convention
// used throughout this module.
type Option func(*Handler)

// WithMemoryMapping enables mmap-backed top-level file slices when opening
// archive files (outermost archives and extracted nested-archive temp files).
func WithMemoryMapping(enabled bool) Option {
	return func(h *Handler) { h.fileOpts.EnableMemoryMapping = enabled }
}

// NewHandler constructs a Handler with its own temp directory and installs a
// shutdown hook so abnormal termination (SIGINT/SIGTERM) still cleans up
// extracted temp files.
func NewHandler(opts ...Option) (*Handler, error) {
	temps, err := newTempStore()
	if err != nil {
		return nil, err
	}
	h := &Handler{
		archives:  newArchiveReaderPool(),
		inflaters: newInflaterPool(),
		temps:     temps,
		stopHook:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.installShutdownHook()
	return h, nil
}

func (h *Handler) installShutdownHook() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			slog.Default().Warn("archive handler: abnormal termination, cleaning up temp files")
			_ = h.Close()
		case <-h.stopHook:
		}
		signal.Stop(sigCh)
	}()
}

// Open resolves rawPath (possibly a nested "A!B!C" form) to an Archive. Any
// single archive's failure to open is isolated by the caller: Open returns a
// *scanerr.Error the caller logs and skips, continuing the scan with
// remaining roots.
//
// The returned release func must be called exactly once when the caller is
// done with the Archive for this unit of work; it does not close the
// Archive (which is pooled and shared), only returns the pool entry.
func (h *Handler) Open(ctx context.Context, rawPath string) (*Archive, func(), error) {
	parsed := ParsePath(rawPath)
	key := parsed.String()
	a, release, err := h.archives.acquireOrOpen(key, func() (*Archive, error) {
		return h.openChain(ctx, parsed)
	})
	if err != nil {
		scanlog.Warn(ctx, "", fmt.Sprintf("failed to open archive %q: %v", key, err), 0)
		return nil, nil, err
	}
	return a, release, nil
}

// openChain walks OSPath -> Nested[0] -> Nested[1] -> ... opening each level
// as a zip.Reader, extracting to a temp file first whenever the next level's
// member is a deflated entry (since deflated regions cannot be sub-sliced).
func (h *Handler) openChain(ctx context.Context, parsed ParsedPath) (*Archive, error) {
	top, err := slice.NewFile(parsed.OSPath, h.fileOpts)
	if err != nil {
		return nil, err
	}
	current, err := openZip(parsed.OSPath, top, "", h.inflaters)
	if err != nil {
		_ = top.Close()
		return nil, err
	}

	canonical := parsed.OSPath
	for _, nested := range parsed.Nested {
		canonical += "!" + nested
		if s, ok := current.storedRaw(nested); ok {
			next, err := openZip(canonical, s, "", h.inflaters)
			if err != nil {
				return nil, err
			}
			current = next
			continue
		}
		rc, err := current.openRawEntry(ctx, nested)
		if err != nil {
			return nil, err
		}
		path, err := h.temps.extract(rc)
		_ = rc.Close()
		if err != nil {
			return nil, err
		}
		f, err := slice.NewFile(path, h.fileOpts)
		if err != nil {
			return nil, err
		}
		next, err := openZip(canonical, f, "", h.inflaters)
		if err != nil {
			_ = f.Close()
			return nil, err
		}
		current = next
	}
	if parsed.InnerPrefix != "" {
		return openZip(parsed.String(), current.backing, parsed.InnerPrefix, h.inflaters)
	}
	return current, nil
}

// Close releases all pooled archives (which close their top-level slices in
// the pool's traversal order) and then deletes every extracted temp file in
// LIFO order.
func (h *Handler) Close() error {
	var err error
	h.closeOnce.Do(func() {
		if aErr := h.archives.closeAll(); aErr != nil {
			err = aErr
		}
		if tErr := h.temps.closeAll(); tErr != nil && err == nil {
			err = tErr
		}
		close(h.stopHook)
	})
	return err
}

