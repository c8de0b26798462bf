package cache

// ZstdCodec compresses cache entries with Zstandard.
//
// Default codec for the prescan cache: on large log files the serialized
// format table is small, but zstd's ratio keeps the cache directory cheap
// even across many cached files.
type ZstdCodec struct{}

var _ Codec = (*ZstdCodec)(nil)

// NewZstdCodec creates a new Zstd cache codec with default settings.
func NewZstdCodec() ZstdCodec {
	return ZstdCodec{}
}
