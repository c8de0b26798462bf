//go:build !unix

package view

import (
	"fmt"
	"io"
	"os"
)

// mapFile falls back to reading the whole file into memory on platforms
// without an mmap syscall exposed through golang.org/x/sys/unix. Behavior
// is identical from the caller's perspective; only the resource cost
// differs.
func mapFile(f *os.File, size int64) (*View, error) {
	data := make([]byte, size)
	if _, err := io.ReadFull(f, data); err != nil && err != io.EOF {
		f.Close()
		return nil, fmt.Errorf("reading whole file: %w", err)
	}

	return &View{
		file: f,
		data: data,
		size: size,
		close: func() error {
			return f.Close()
		},
	}, nil
}
