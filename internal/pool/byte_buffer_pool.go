// Package pool provides a reusable growable byte buffer used when
// serializing a prescanned format table into a cache entry.
package pool

import (
	"io"
	"sync"
)

// Default and maximum retained sizes for buffers handed out by the cache
// buffer pool. A serialized format table rarely exceeds a few KiB (256
// descriptors at most), so these are modest compared to typical blob-sized
// buffer pools.
const (
	CacheBufferDefaultSize  = 4 * 1024  // 4KiB
	CacheBufferMaxThreshold = 256 * 1024 // 256KiB
)

// ByteBuffer is a growable byte buffer with an amortized growth strategy,
// intended for pooled reuse rather than one-off allocation.
type ByteBuffer struct {
	B []byte
}

// NewByteBuffer creates a new ByteBuffer with the specified default size.
func NewByteBuffer(defaultSize int) *ByteBuffer {
	return &ByteBuffer{
		B: make([]byte, 0, defaultSize),
	}
}

// Bytes returns the underlying byte slice.
func (bb *ByteBuffer) Bytes() []byte {
	return bb.B
}

// Reset resets the buffer to be empty, but retains the allocated memory for reuse.
func (bb *ByteBuffer) Reset() {
	bb.B = bb.B[:0]
}

// Len returns the length of the buffer.
func (bb *ByteBuffer) Len() int {
	return len(bb.B)
}

// Grow grows the buffer to ensure it can hold requiredBytes more bytes
// without reallocating.
//
//   - For small buffers (< 4x default), grow by CacheBufferDefaultSize.
//   - For larger buffers, grow by 25% of current capacity.
func (bb *ByteBuffer) Grow(requiredBytes int) {
	available := cap(bb.B) - len(bb.B)
	if available >= requiredBytes {
		return
	}

	growBy := CacheBufferDefaultSize
	if cap(bb.B) > 4*CacheBufferDefaultSize {
		growBy = cap(bb.B) / 4
	}
	if growBy < requiredBytes {
		growBy = requiredBytes
	}

	newBuf := make([]byte, len(bb.B), len(bb.B)+growBy)
	copy(newBuf, bb.B)
	bb.B = newBuf
}

// Write appends the contents of data to the buffer, growing it as needed.
func (bb *ByteBuffer) Write(data []byte) (int, error) {
	bb.Grow(len(data))
	bb.B = append(bb.B, data...)

	return len(data), nil
}

// WriteTo writes the contents of the buffer to w.
func (bb *ByteBuffer) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(bb.B)
	return int64(n), err
}

// ByteBufferPool is a sync.Pool of ByteBuffers with an optional maximum
// retained size, so that one unusually large entry doesn't bloat the pool
// for every subsequent Get.
type ByteBufferPool struct {
	pool         sync.Pool
	maxThreshold int
}

// NewByteBufferPool creates a new ByteBufferPool with buffers of the
// specified default size.
func NewByteBufferPool(defaultSize, maxThreshold int) *ByteBufferPool {
	return &ByteBufferPool{
		pool: sync.Pool{
			New: func() any { return NewByteBuffer(defaultSize) },
		},
		maxThreshold: maxThreshold,
	}
}

// Get retrieves a ByteBuffer from the pool.
func (bbp *ByteBufferPool) Get() *ByteBuffer {
	bb, _ := bbp.pool.Get().(*ByteBuffer)
	return bb
}

// Put returns a ByteBuffer to the pool for reuse.
func (bbp *ByteBufferPool) Put(bb *ByteBuffer) {
	if bb == nil {
		return
	}

	if bbp.maxThreshold > 0 && cap(bb.B) > bbp.maxThreshold {
		return
	}

	bb.Reset()
	bbp.pool.Put(bb)
}

var cacheBufferPool = NewByteBufferPool(CacheBufferDefaultSize, CacheBufferMaxThreshold)

// GetCacheBuffer retrieves a ByteBuffer from the default cache-entry pool.
func GetCacheBuffer() *ByteBuffer {
	return cacheBufferPool.Get()
}

// PutCacheBuffer returns a ByteBuffer to the default cache-entry pool.
func PutCacheBuffer(bb *ByteBuffer) {
	cacheBufferPool.Put(bb)
}
