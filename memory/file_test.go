package memory

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileRegion(t *testing.T) {
	path := filepath.Join(t.TempDir(), RegionFileName(0))

	r, err := OpenFileRegion(path)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), r.Size())

	assert.Equal(t, int64(1), r.Grow(1))
	r.Write(100, []byte("persist me"))

	payload := []byte("framed payload")
	require.NoError(t, WriteFramed(r, HeaderSize, payload))
	require.NoError(t, r.Close())

	// Contents survive a reopen
	r, err = OpenFileRegion(path)
	require.NoError(t, err)
	defer func() {
		require.NoError(t, r.Close())
	}()

	assert.Equal(t, uint64(1), r.Size())
	b := make([]byte, 10)
	r.Read(100, b)
	assert.Equal(t, []byte("persist me"), b)
	assert.Equal(t, payload, ReadFramed(r, HeaderSize))
}

func TestFileRegionGrowAcrossPages(t *testing.T) {
	path := filepath.Join(t.TempDir(), RegionFileName(3))

	r, err := OpenFileRegion(path)
	require.NoError(t, err)
	defer func() {
		require.NoError(t, r.Close())
	}()

	require.NoError(t, WriteFramed(r, HeaderSize, make([]byte, PageSize)))
	assert.Equal(t, uint64(2), r.Size())
}

func TestRegionFileName(t *testing.T) {
	tests := []struct {
		id   ID
		name string
	}{
		{0, "region-000.mem"},
		{7, "region-007.mem"},
		{255, "region-255.mem"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.name, RegionFileName(tc.id))
		id, ok := ParseRegionFileName(tc.name)
		assert.True(t, ok)
		assert.Equal(t, tc.id, id)
	}

	for _, name := range []string{"region-abc.mem", "region-300.mem", "other.mem", "region-000.bin"} {
		_, ok := ParseRegionFileName(name)
		assert.False(t, ok, name)
	}
}

func TestNewFileManager(t *testing.T) {
	dir := t.TempDir()
	m := NewFileManager(dir)

	r := m.Get(1)
	require.NoError(t, WriteFramed(r, HeaderSize, []byte("x")))

	assert.FileExists(t, filepath.Join(dir, RegionFileName(1)))
}
