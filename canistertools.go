// Package canistertools serializes a canister's in-memory state across code
// upgrades and backs the controller-only snapshot and stable-memory
// maintenance endpoints.
//
// A global value is registered under a memory id with Init from the
// canister's init hook. PreUpgrade serializes every registered value into
// its stable memory region; PostUpgrade restores it and re-registers the
// value for the next upgrade. Exports returns the nine controller endpoint
// handlers for the host shim to install.
//
// All functions in this package trap (panic with *host.TrapError) on
// failure, matching the host's message rollback model. The underlying
// registry and memory packages return plain errors instead.
package canistertools

import (
	"github.com/icforge/canistertools/codec"
	"github.com/icforge/canistertools/endpoints"
	"github.com/icforge/canistertools/host"
	"github.com/icforge/canistertools/memory"
	"github.com/icforge/canistertools/registry"
)

// The memory manager and the snapshot registry are process-wide singletons
// with the lifetime of the canister instance.
var (
	defaultManager  = memory.NewManager(nil)
	defaultRegistry = registry.New(defaultManager)
)

// Memory returns the persistent region mapped to id, creating it on first
// use.
func Memory(id memory.ID) memory.Memory {
	return defaultManager.Get(id)
}

// Init registers value under id with the default codec for the upgrades and
// the state snapshots. Call it from the canister init hook. Traps when id
// is already registered.
func Init[T any](value *T, id memory.ID) {
	InitWithCodec(value, id, codec.YAML[T]())
}

// InitWithCodec is Init with an explicit codec.
func InitWithCodec[T any](value *T, id memory.ID, c codec.Codec[T]) {
	if err := registry.Register(defaultRegistry, id, value, c); err != nil {
		host.Trap(err.Error())
	}
}

// PreUpgrade serializes every registered value into its stable memory
// region. Call it from the canister pre-upgrade hook.
func PreUpgrade() {
	if err := defaultRegistry.PreUpgrade(); err != nil {
		host.Trap(err.Error())
	}
}

// PostUpgrade restores the value stored at id with the default codec and
// re-registers it for the next upgrade. Call it from the canister
// post-upgrade hook.
func PostUpgrade[T any](value *T, id memory.ID) {
	PostUpgradeWithCodec(value, id, codec.YAML[T]())
}

// PostUpgradeWithCodec is PostUpgrade with an explicit codec.
func PostUpgradeWithCodec[T any](value *T, id memory.ID, c codec.Codec[T]) {
	if err := registry.Restore(defaultRegistry, id, value, c); err != nil {
		host.Trap(err.Error())
	}
}

// PostUpgradeConvert is PostUpgrade across a schema change: the payload the
// previous code version wrote is decoded with the old type's codec,
// converted, and value is re-registered with the new type's codec.
func PostUpgradeConvert[Old, New any](
	value *New,
	id memory.ID,
	oldc codec.Codec[Old],
	newc codec.Codec[New],
	convert func(Old) New,
) {
	if err := registry.RestoreConvert(defaultRegistry, id, value, oldc, newc, convert); err != nil {
		host.Trap(err.Error())
	}
}

// Exports returns the controller endpoint methods wired to the process-wide
// registry and memory manager, authorized through rt.
func Exports(rt host.Runtime) []endpoints.Method {
	return endpoints.New(rt, defaultRegistry, defaultManager).Methods()
}

// Reset replaces the process-wide registry and memory manager with fresh
// ones. It exists for tests; a canister never calls it.
func Reset() {
	defaultManager = memory.NewManager(nil)
	defaultRegistry = registry.New(defaultManager)
}

// ResetHeap replaces only the registry, keeping the memory manager. Tests
// use it to simulate the fresh wasm instance that comes up after an
// upgrade: the heap is new, stable memory persists.
func ResetHeap() {
	defaultRegistry = registry.New(defaultManager)
}
