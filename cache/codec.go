// Package cache implements an optional on-disk cache of the prescanned format
// table for a .BIN file, so that repeated runs over the same file skip the
// linear prescan pass described in package parallel.
//
// A cache entry is keyed on the file's path, size and modification time
// (internal/hash) and holds the serialized format table compressed with a
// selectable Codec. The cache is strictly an optimization: a miss, a
// corrupted entry, or a disabled cache always falls back to a fresh prescan.
package cache

import "fmt"

// CodecType identifies which compression algorithm a cache entry is stored with.
type CodecType uint8

const (
	CodecNone CodecType = iota
	CodecZstd
	CodecS2
	CodecLZ4
)

func (t CodecType) String() string {
	switch t {
	case CodecNone:
		return "none"
	case CodecZstd:
		return "zstd"
	case CodecS2:
		return "s2"
	case CodecLZ4:
		return "lz4"
	default:
		return "unknown"
	}
}

// Compressor compresses a serialized cache entry before it is written to disk.
type Compressor interface {
	// Compress compresses the input data and returns the compressed result.
	//
	// Memory management:
	//   - Returned slice is newly allocated and owned by the caller
	//   - Input slice is not modified
	Compress(data []byte) ([]byte, error)
}

// Decompressor restores a serialized cache entry read from disk.
type Decompressor interface {
	// Decompress decompresses the input data and returns the original result.
	//
	// Returns an error if the data is corrupted or was compressed with a
	// different codec; callers must treat that as a cache miss, not a fatal
	// error.
	Decompress(data []byte) ([]byte, error)
}

// Codec combines both compression and decompression for a cache entry.
type Codec interface {
	Compressor
	Decompressor
}

var builtinCodecs = map[CodecType]Codec{
	CodecNone: NewNoOpCodec(),
	CodecZstd: NewZstdCodec(),
	CodecS2:   NewS2Codec(),
	CodecLZ4:  NewLZ4Codec(),
}

// GetCodec retrieves the built-in Codec for the given CodecType.
//
// Returns an error if t is not one of the built-in codec types.
func GetCodec(t CodecType) (Codec, error) {
	if codec, ok := builtinCodecs[t]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("cache: unsupported codec type: %s", t)
}
