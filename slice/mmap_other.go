//go:build !unix

package slice

import (
	"errors"
	"os"
)

// tryMmap is unimplemented on non-unix platforms; the caller treats any
// error as "mapping unsupported here" and falls back to positional reads.
func tryMmap(f *os.File, size uint64) ([]byte, func([]byte) error, error) {
	return nil, nil, errors.New("memory mapping not supported on this platform")
}
