//go:build nobuild

// This file documents the cgo-backed zstd peer to zstd_pure.go. It is kept
// out of the default build (the "nobuild" tag never matches): valyala/gozstd
// pulls in the system zstd via cgo, which isn't something a cache codec on
// the decoding hot path should force on every consumer of this module. It
// stays in the tree as the documented alternative for anyone building with
// cgo enabled and willing to flip the build tag.
package cache

import "github.com/valyala/gozstd"

// Compress compresses the input data using Zstandard compression (cgo).
func (c ZstdCodec) Compress(data []byte) ([]byte, error) {
	return gozstd.CompressLevel(nil, data, 3), nil
}

// Decompress decompresses the input data using Zstandard compression (cgo).
func (c ZstdCodec) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return gozstd.Decompress(nil, data)
}
