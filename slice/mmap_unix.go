//go:build unix

package slice

import (
	"os"

	"golang.org/x/sys/unix"
)

// tryMmap attempts a read-only shared mapping of f's first size bytes.
// Mapping failures (size 0, platform limits, etc.) are returned so the
// caller can fall back to positional reads; they are never fatal.
func tryMmap(f *os.File, size uint64) ([]byte, func([]byte) error, error) {
	if size == 0 {
		return nil, nil, unix.EINVAL
	}
	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, nil, err
	}
	return data, func(b []byte) error { return unix.Munmap(b) }, nil
}
