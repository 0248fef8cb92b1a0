package endpoints

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWireArgs(t *testing.T) {
	t.Run("id", func(t *testing.T) {
		id, err := UnmarshalIDArg(MarshalIDArg(200))
		require.NoError(t, err)
		assert.Equal(t, uint8(200), id)
	})

	t.Run("range", func(t *testing.T) {
		id, offset, length, err := UnmarshalRangeArg(MarshalRangeArg(3, 1024, 65536))
		require.NoError(t, err)
		assert.Equal(t, uint8(3), id)
		assert.Equal(t, uint64(1024), offset)
		assert.Equal(t, uint64(65536), length)
	})

	t.Run("range zero values", func(t *testing.T) {
		id, offset, length, err := UnmarshalRangeArg(MarshalRangeArg(0, 0, 0))
		require.NoError(t, err)
		assert.Equal(t, uint8(0), id)
		assert.Equal(t, uint64(0), offset)
		assert.Equal(t, uint64(0), length)
	})

	t.Run("blob", func(t *testing.T) {
		id, blob, err := UnmarshalBlobArg(MarshalBlobArg(7, []byte("payload")))
		require.NoError(t, err)
		assert.Equal(t, uint8(7), id)
		assert.Equal(t, []byte("payload"), blob)
	})

	t.Run("empty blob", func(t *testing.T) {
		id, blob, err := UnmarshalBlobArg(MarshalBlobArg(7, nil))
		require.NoError(t, err)
		assert.Equal(t, uint8(7), id)
		assert.Len(t, blob, 0)
	})

	t.Run("write", func(t *testing.T) {
		id, offset, blob, err := UnmarshalWriteArg(MarshalWriteArg(1, 4096, []byte{0xde, 0xad}))
		require.NoError(t, err)
		assert.Equal(t, uint8(1), id)
		assert.Equal(t, uint64(4096), offset)
		assert.Equal(t, []byte{0xde, 0xad}, blob)
	})

	t.Run("pages", func(t *testing.T) {
		id, pages, err := UnmarshalPagesArg(MarshalPagesArg(9, 16))
		require.NoError(t, err)
		assert.Equal(t, uint8(9), id)
		assert.Equal(t, uint64(16), pages)
	})
}

func TestWireReplies(t *testing.T) {
	v, err := UnmarshalU64Reply(MarshalU64Reply(1 << 40))
	require.NoError(t, err)
	assert.Equal(t, uint64(1)<<40, v)

	for _, want := range []int64{-1, 0, 42} {
		got, err := UnmarshalI64Reply(MarshalI64Reply(want))
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	blob, err := UnmarshalBlobReply(MarshalBlobReply([]byte("chunk")))
	require.NoError(t, err)
	assert.Equal(t, []byte("chunk"), blob)

	assert.Len(t, MarshalUnitReply(), 0)
}

func TestWireGarbage(t *testing.T) {
	_, err := UnmarshalIDArg([]byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff})
	assert.Error(t, err)
}
