package canistertools_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tools "github.com/icforge/canistertools"
	"github.com/icforge/canistertools/codec"
	"github.com/icforge/canistertools/endpoints"
	"github.com/icforge/canistertools/host/hosttest"
	"github.com/icforge/canistertools/memory"
)

type data struct {
	FieldOne string `yaml:"field_one"`
	FieldTwo uint64 `yaml:"field_two"`
}

func TestBasicUpgrade(t *testing.T) {
	tools.Reset()

	value := data{FieldOne: "Hi World", FieldTwo: 55}
	tools.Init(&value, 0)
	tools.PreUpgrade()

	// The region holds exactly the framed encoding of the value
	c := codec.YAML[data]()
	want, err := c.Forward(value)
	require.NoError(t, err)
	assert.Equal(t, want, memory.ReadFramed(tools.Memory(0), memory.HeaderSize))

	// New instance: fresh heap, persistent stable memory
	tools.ResetHeap()
	value = data{}
	tools.PostUpgrade(&value, 0)

	assert.Equal(t, data{FieldOne: "Hi World", FieldTwo: 55}, value)
}

func TestUpgradeWithExplicitCodec(t *testing.T) {
	tools.Reset()

	value := data{FieldOne: "compressed", FieldTwo: 99}
	c := codec.Gzip(codec.YAML[data]())
	tools.InitWithCodec(&value, 0, c)
	tools.PreUpgrade()

	tools.ResetHeap()
	value = data{}
	tools.PostUpgradeWithCodec(&value, 0, c)

	assert.Equal(t, uint64(99), value.FieldTwo)
}

type oldData struct{}

func TestSchemaEvolution(t *testing.T) {
	tools.Reset()

	// Version A stores an empty type
	old := oldData{}
	tools.Init(&old, 0)
	tools.PreUpgrade()

	// Version B decodes it as oldData and converts to the new shape
	tools.ResetHeap()
	value := data{}
	tools.PostUpgradeConvert(&value, 0,
		codec.YAML[oldData](), codec.YAML[data](),
		func(oldData) data {
			return data{FieldOne: "Hi World", FieldTwo: 55}
		})

	assert.Equal(t, data{FieldOne: "Hi World", FieldTwo: 55}, value)

	// The value is re-registered under the new codec
	tools.PreUpgrade()
	restored := data{}
	tools.ResetHeap()
	tools.PostUpgrade(&restored, 0)
	assert.Equal(t, value, restored)
}

func TestDuplicateInitTraps(t *testing.T) {
	tools.Reset()

	value := data{}
	tools.Init(&value, 0)

	trap := hosttest.Catch(func() {
		tools.Init(&value, 0)
	})
	require.NotNil(t, trap)
	assert.Contains(t, trap.Message, "already registered")
}

func TestMultipleRegions(t *testing.T) {
	tools.Reset()

	first := data{FieldOne: "one", FieldTwo: 1}
	second := data{FieldOne: "two", FieldTwo: 2}
	tools.Init(&first, 0)
	tools.Init(&second, 1)
	tools.PreUpgrade()

	tools.ResetHeap()
	first, second = data{}, data{}
	tools.PostUpgrade(&first, 0)
	tools.PostUpgrade(&second, 1)

	assert.Equal(t, uint64(1), first.FieldTwo)
	assert.Equal(t, uint64(2), second.FieldTwo)
}

func TestExports(t *testing.T) {
	tools.Reset()

	value := data{FieldTwo: 55}
	tools.Init(&value, 0)

	rt := hosttest.New()
	methods := tools.Exports(rt)
	require.Len(t, methods, 9)

	byName := map[string]endpoints.Method{}
	for _, m := range methods {
		byName[m.Name] = m
	}
	assert.True(t, byName[endpoints.NameDownloadStateSnapshot].Query)
	assert.True(t, byName[endpoints.NameStableMemoryRead].Query)
	assert.True(t, byName[endpoints.NameStableMemorySize].Query)
	assert.False(t, byName[endpoints.NameCreateStateSnapshot].Query)

	// The exported handlers operate on the same singletons as Init
	reply := byName[endpoints.NameCreateStateSnapshot].Fn(endpoints.MarshalIDArg(0))
	n, err := endpoints.UnmarshalU64Reply(reply)
	require.NoError(t, err)
	assert.Greater(t, n, uint64(0))
}
