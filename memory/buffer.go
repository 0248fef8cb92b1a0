package memory

import (
	"fmt"
	"math"
)

// Buffer is a heap-backed Memory. It is the default region implementation
// when the engine runs without a host-provided stable memory, and the one
// used by tests.
type Buffer struct {
	data     []byte
	maxPages uint64 // 0 means unlimited
}

// NewBuffer returns an empty heap-backed region without a growth limit.
func NewBuffer() *Buffer {
	return &Buffer{}
}

// NewBufferLimit returns an empty heap-backed region that refuses to grow
// beyond maxPages.
func NewBufferLimit(maxPages uint64) *Buffer {
	return &Buffer{maxPages: maxPages}
}

func (b *Buffer) Size() uint64 {
	return uint64(len(b.data)) / PageSize
}

func (b *Buffer) Grow(pages uint64) int64 {
	if pages > (math.MaxUint64-uint64(len(b.data)))/PageSize {
		return -1 // byte size would overflow
	}
	newSize := b.Size() + pages
	if b.maxPages > 0 && newSize > b.maxPages {
		return -1
	}
	b.data = append(b.data, make([]byte, pages*PageSize)...)
	return int64(newSize)
}

func (b *Buffer) Read(offset uint64, dst []byte) {
	b.checkRange(offset, uint64(len(dst)), "read")
	copy(dst, b.data[offset:])
}

func (b *Buffer) Write(offset uint64, src []byte) {
	b.checkRange(offset, uint64(len(src)), "write")
	copy(b.data[offset:], src)
}

func (b *Buffer) checkRange(offset, n uint64, op string) {
	size := uint64(len(b.data))
	if offset > size || n > size-offset {
		panic(fmt.Sprintf("memory: %s of %d bytes at offset %d out of range (size %d bytes)",
			op, n, offset, size))
	}
}
