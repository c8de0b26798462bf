// Package view provides a scoped, read-only byte-range view over a file on
// disk, backed by a memory-mapped region where the platform supports it.
// Acquisition happens once at construction; Close releases the mapping (or
// the file) on every path, including error paths, mirroring the "acquire on
// construction, guaranteed release on scope exit" contract the scanner and
// coordinator both depend on.
package view

import (
	"fmt"
	"os"
)

// View is a read-only window over the bytes of a file. Bytes(lo, hi)
// returns a slice into the mapped region without copying; callers must not
// retain it past Close.
type View struct {
	file *os.File
	data []byte
	size int64

	close func() error
}

// Open acquires a View over the whole of the file at path. The returned
// View must be released with Close.
func Open(path string) (*View, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("view: opening %s: %w", path, err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("view: stat %s: %w", path, err)
	}

	v, err := mapFile(f, info.Size())
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("view: mapping %s: %w", path, err)
	}

	return v, nil
}

// Size returns the total length of the view in bytes.
func (v *View) Size() int64 {
	return v.size
}

// Bytes returns the slice of the view covering [lo, hi). It does not copy.
func (v *View) Bytes(lo, hi int64) ([]byte, error) {
	if lo < 0 || hi > v.size || lo > hi {
		return nil, fmt.Errorf("view: range [%d, %d) out of bounds for size %d", lo, hi, v.size)
	}

	return v.data[lo:hi], nil
}

// At returns the single byte at offset off.
func (v *View) At(off int64) (byte, bool) {
	if off < 0 || off >= v.size {
		return 0, false
	}

	return v.data[off], true
}

// Close releases the underlying mapping and file handle. Safe to call
// exactly once; subsequent calls are no-ops.
func (v *View) Close() error {
	if v.close == nil {
		return nil
	}
	closeFn := v.close
	v.close = nil

	return closeFn()
}
