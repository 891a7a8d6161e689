package archive

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/viant/cpgraph/scanerr"
)

// tempStore owns a process-scoped temp directory and the unique names handed
// out within it: the handler owns all temp files and deletes them at
// shutdown. Name generation is guarded by a counter, not the filesystem, so
// concurrent extractions never collide.
type tempStore struct {
	dir     string
	counter uint64
	mu      sync.Mutex
	created []string // creation order, for LIFO deletion
}

func newTempStore() (*tempStore, error) {
	dir, err := os.MkdirTemp("", "cpgraph-*")
	if err != nil {
		return nil, scanerr.New(scanerr.IoError, "archive.newTempStore", err)
	}
	return &tempStore{dir: dir}, nil
}

// extract copies r fully into a uniquely named file under the temp
// directory and returns its path. The file is tracked for LIFO cleanup.
func (t *tempStore) extract(r io.Reader) (string, error) {
	n := atomic.AddUint64(&t.counter, 1)
	path := filepath.Join(t.dir, fmt.Sprintf("entry-%d", n))
	f, err := os.Create(path)
	if err != nil {
		return "", scanerr.New(scanerr.IoError, "archive.tempStore.extract", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", scanerr.New(scanerr.IoError, "archive.tempStore.extract", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", scanerr.New(scanerr.IoError, "archive.tempStore.extract", err)
	}
	t.mu.Lock()
	t.created = append(t.created, path)
	t.mu.Unlock()
	return path, nil
}

// closeAll deletes every extracted temp file in LIFO order, then the temp
// directory itself.
func (t *tempStore) closeAll() error {
	t.mu.Lock()
	files := t.created
	t.created = nil
	t.mu.Unlock()

	var first error
	for i := len(files) - 1; i >= 0; i-- {
		if err := os.Remove(files[i]); err != nil && !os.IsNotExist(err) && first == nil {
			first = err
		}
	}
	if err := os.Remove(t.dir); err != nil && !os.IsNotExist(err) && first == nil {
		first = err
	}
	if first != nil {
		return scanerr.New(scanerr.IoError, "archive.tempStore.closeAll", first)
	}
	return nil
}
