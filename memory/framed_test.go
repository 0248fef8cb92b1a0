package memory

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteReadFramed(t *testing.T) {
	mem := NewBuffer()
	payload := []byte("Hi World")

	err := WriteFramed(mem, HeaderSize, payload)
	require.NoError(t, err)
	assert.Equal(t, payload, ReadFramed(mem, HeaderSize))

	// The reserved header must remain untouched
	header := make([]byte, HeaderSize)
	mem.Read(0, header)
	assert.Equal(t, make([]byte, HeaderSize), header)
}

func TestWriteReadFramedEmpty(t *testing.T) {
	mem := NewBuffer()

	err := WriteFramed(mem, HeaderSize, []byte{})
	require.NoError(t, err)
	assert.Len(t, ReadFramed(mem, HeaderSize), 0)
}

func TestWriteFramedOverwrite(t *testing.T) {
	mem := NewBuffer()

	require.NoError(t, WriteFramed(mem, HeaderSize, bytes.Repeat([]byte{'a'}, 1000)))
	require.NoError(t, WriteFramed(mem, HeaderSize, []byte("short")))
	assert.Equal(t, []byte("short"), ReadFramed(mem, HeaderSize))
}

func TestEnsureBytesGrowth(t *testing.T) {
	tests := []struct {
		name      string
		payload   int
		wantPages uint64
	}{
		{"small payload", 100, 1},
		{"fills first page", PageSize - int(HeaderSize) - 8 - 1, 1},
		{"crosses page boundary", PageSize, 2},
		{"two pages of payload", 2 * PageSize, 3},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mem := NewBuffer()
			err := WriteFramed(mem, HeaderSize, make([]byte, tc.payload))
			require.NoError(t, err)
			// One page of headroom beyond the strictly needed size
			assert.Equal(t, tc.wantPages, mem.Size())
		})
	}
}

func TestEnsureBytesNoShrink(t *testing.T) {
	mem := NewBuffer()
	require.NoError(t, EnsureBytes(mem, 3*PageSize))
	size := mem.Size()

	require.NoError(t, EnsureBytes(mem, PageSize))
	assert.Equal(t, size, mem.Size())
}

func TestWriteFramedOutOfMemory(t *testing.T) {
	mem := NewBufferLimit(1)
	err := WriteFramed(mem, HeaderSize, make([]byte, 2*PageSize))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrOutOfMemory)
}

func TestReadFramedChecked(t *testing.T) {
	mem := NewBuffer()
	payload := []byte("Hi World")
	require.NoError(t, WriteFramed(mem, HeaderSize, payload))

	got, err := ReadFramedChecked(mem, HeaderSize)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestReadFramedCheckedCorruptLength(t *testing.T) {
	mem := NewBuffer()
	mem.Grow(1)

	// A length prefix claiming far more payload than the memory holds must
	// produce an error, not an allocation of the claimed size.
	var lenBuf [8]byte
	binary.BigEndian.PutUint64(lenBuf[:], 1<<40)
	mem.Write(HeaderSize, lenBuf[:])

	_, err := ReadFramedChecked(mem, HeaderSize)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "claims")
}

func TestReadFramedCheckedTooSmall(t *testing.T) {
	mem := NewBuffer() // zero pages, cannot hold a length prefix
	_, err := ReadFramedChecked(mem, HeaderSize)
	require.Error(t, err)
}

func TestBufferRangeChecks(t *testing.T) {
	mem := NewBuffer()
	mem.Grow(1)

	assert.Panics(t, func() {
		mem.Read(PageSize-4, make([]byte, 8))
	})
	assert.Panics(t, func() {
		mem.Write(PageSize+1, []byte{1})
	})
	assert.NotPanics(t, func() {
		mem.Write(PageSize-8, make([]byte, 8))
	})
}

func TestBufferGrowLimit(t *testing.T) {
	mem := NewBufferLimit(2)
	assert.Equal(t, int64(2), mem.Grow(2))
	assert.Equal(t, int64(-1), mem.Grow(1))
	assert.Equal(t, uint64(2), mem.Size())
}

func TestBufferGrowOverflow(t *testing.T) {
	mem := NewBuffer()
	mem.Grow(1)

	// Page counts whose byte size would wrap uint64 must be refused, not
	// reported as a successful grow to a bogus size.
	assert.Equal(t, int64(-1), mem.Grow(math.MaxUint64/PageSize))
	assert.Equal(t, int64(-1), mem.Grow(1<<48))
	assert.Equal(t, uint64(1), mem.Size())
}

func TestManager(t *testing.T) {
	m := NewManager(nil)

	// A fresh region starts at zero pages and is vended on demand
	r7 := m.Get(7)
	assert.Equal(t, uint64(0), r7.Size())

	// Same id returns the same region
	r7.Grow(1)
	assert.Equal(t, uint64(1), m.Get(7).Size())

	// Regions are independent
	assert.Equal(t, uint64(0), m.Get(0).Size())

	assert.Equal(t, []ID{0, 7}, m.IDs())
}
