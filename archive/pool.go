package archive

import (
	"io"
	"sync"

	"github.com/klauspost/compress/flate"
	"github.com/viant/cpgraph/slice"
)

// inflaterPool recycles *flate.Reader instances. klauspost/compress's
// flate.Reader implements Reset(io.Reader, []byte) error, the exact shape
// slice.Inflater requires, so pooling is just a free-list guarded by a
// mutex plus a scoped acquire/release pair.
type inflaterPool struct {
	mu   sync.Mutex
	free []slice.Inflater
}

func newInflaterPool() *inflaterPool { return &inflaterPool{} }

// Acquire returns an Inflater reset to read from r, and a release func that
// returns it to the pool. The release func is safe to call exactly once;
// callers MUST call it on every exit path (including error paths) so pool
// growth stays bounded by peak concurrent usage rather than total work done.
func (p *inflaterPool) Acquire(r io.Reader) (slice.Inflater, func(), error) {
	p.mu.Lock()
	var inf slice.Inflater
	if n := len(p.free); n > 0 {
		inf = p.free[n-1]
		p.free = p.free[:n-1]
	}
	p.mu.Unlock()

	if inf == nil {
		inf = flate.NewReader(r).(slice.Inflater)
	} else if err := inf.Reset(r, nil); err != nil {
		return nil, nil, err
	}

	released := false
	release := func() {
		if released {
			return
		}
		released = true
		p.mu.Lock()
		p.free = append(p.free, inf)
		p.mu.Unlock()
	}
	return inf, release, nil
}

// archiveReaderPool recycles parsed zip.Reader/central-directory handles per
// canonical archive path, so reopening the same jar across many worker
// goroutines doesn't re-parse its central directory each time.
type archiveReaderPool struct {
	mu      sync.Mutex
	entries map[string]*pooledArchive
}

type pooledArchive struct {
	mu      sync.Mutex
	inUse   bool
	archive *Archive
}

func newArchiveReaderPool() *archiveReaderPool {
	return &archiveReaderPool{entries: make(map[string]*pooledArchive)}
}

// acquireOrOpen returns the Archive for key, opening it via open if this is
// the first request for key. Each pool entry is single-owner between acquire
// and the returned release func.
func (p *archiveReaderPool) acquireOrOpen(key string, open func() (*Archive, error)) (*Archive, func(), error) {
	p.mu.Lock()
	pa, ok := p.entries[key]
	if !ok {
		pa = &pooledArchive{}
		p.entries[key] = pa
	}
	p.mu.Unlock()

	pa.mu.Lock()
	if pa.archive == nil {
		a, err := open()
		if err != nil {
			pa.mu.Unlock()
			return nil, nil, err
		}
		pa.archive = a
	}
	pa.inUse = true
	archive := pa.archive
	released := false
	release := func() {
		if released {
			return
		}
		released = true
		pa.inUse = false
		pa.mu.Unlock()
	}
	return archive, release, nil
}

// closeAll releases every opened archive in map iteration order, which is
// unspecified: the pool records no creation order, so archives are not
// closed in reverse order of opening (the temp-file store does keep LIFO
// order for its deletions).
func (p *archiveReaderPool) closeAll() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	var first error
	for _, pa := range p.entries {
		if pa.archive == nil {
			continue
		}
		if err := pa.archive.close(); err != nil && first == nil {
			first = err
		}
	}
	p.entries = make(map[string]*pooledArchive)
	return first
}
