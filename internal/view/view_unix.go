//go:build unix

package view

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// mapFile maps the whole of f read-only via mmap. A zero-length file maps
// to an empty, closeable View without calling into unix.Mmap (which
// rejects zero-length mappings on most platforms).
func mapFile(f *os.File, size int64) (*View, error) {
	if size == 0 {
		return &View{
			file: f,
			data: nil,
			size: 0,
			close: func() error {
				return f.Close()
			},
		}, nil
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("mmap: %w", err)
	}

	v := &View{
		file: f,
		data: data,
		size: size,
	}
	v.close = func() error {
		mapErr := unix.Munmap(data)
		closeErr := f.Close()
		if mapErr != nil {
			return fmt.Errorf("munmap: %w", mapErr)
		}

		return closeErr
	}

	return v, nil
}
