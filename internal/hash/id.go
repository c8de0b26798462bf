// Package hash provides xxHash64-based key derivation used by the prescan cache.
package hash

import (
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// ID computes the xxHash64 of the given string.
func ID(data string) uint64 {
	return xxhash.Sum64String(data)
}

// CacheKey derives a stable cache key for a file from its path, size and
// modification time. Any change to size or mtime invalidates the entry,
// since both are cheap signals that the file's content may have changed.
func CacheKey(path string, size int64, modUnixNano int64) uint64 {
	var h xxhash.Digest
	h.Reset()
	_, _ = h.WriteString(path)
	_, _ = h.WriteString("\x00")
	_, _ = h.WriteString(strconv.FormatInt(size, 10))
	_, _ = h.WriteString("\x00")
	_, _ = h.WriteString(strconv.FormatInt(modUnixNano, 10))

	return h.Sum64()
}
