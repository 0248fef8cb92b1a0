// Package registry binds memory ids to live in-memory values for upgrades
// and state snapshots.
//
// The registry is designed as process-wide singleton state: the host
// schedules one message at a time, so no locking is needed, but a runtime
// borrow discipline still catches reentrancy (a serialize or load closure
// calling back into the registry traps instead of corrupting state).
package registry

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/icforge/canistertools/memory"
)

var (
	// ErrAlreadyRegistered is returned when a memory id is registered twice.
	ErrAlreadyRegistered = errors.New("memory id is already registered")
	// ErrUnregistered is returned by snapshot operations on a memory id
	// that was never registered.
	ErrUnregistered = errors.New("no data associated with this memory_id")
)

// An entry owns the staged snapshot buffer for one memory id, plus the two
// closures bound to the registered value. The closures reference the user's
// value, they never own it; serialize always reads its current contents.
type entry struct {
	staged    []byte
	serialize func() ([]byte, error)
	load      func([]byte) error
}

// Registry maps memory ids to their snapshot entries.
type Registry struct {
	guard   guard
	mem     *memory.Manager
	entries map[memory.ID]*entry
	log     logrus.FieldLogger
}

// New returns an empty Registry writing upgrade payloads through mem.
func New(mem *memory.Manager) *Registry {
	return &Registry{
		mem:     mem,
		entries: make(map[memory.ID]*entry),
		log:     logrus.WithField("component", "registry"),
	}
}

// Bind registers the serialize and load closures under id. Registration is
// one-shot: binding an id twice fails and leaves the registry unchanged.
//
// Most callers want the typed Register instead.
func (r *Registry) Bind(id memory.ID, serialize func() ([]byte, error), load func([]byte) error) error {
	defer r.guard.exclusive()()

	if _, ok := r.entries[id]; ok {
		return errors.Wrapf(ErrAlreadyRegistered, "memory id %s", id)
	}
	r.entries[id] = &entry{
		serialize: serialize,
		load:      load,
	}
	metricRegistered.Inc()
	return nil
}

// Snapshot replaces the staged buffer with a fresh encoding of the
// registered value and returns its length in bytes. The old buffer is
// dropped before serializing so the heap peaks at one copy of the encoding.
func (r *Registry) Snapshot(id memory.ID) (uint64, error) {
	defer r.guard.exclusive()()

	e, ok := r.entries[id]
	if !ok {
		return 0, errors.Wrapf(ErrUnregistered, "memory id %s", id)
	}
	e.staged = nil
	b, err := e.serialize()
	if err != nil {
		return 0, errors.Wrapf(err, "serialize value for memory id %s", id)
	}
	e.staged = b
	metricSnapshots.Inc()
	metricSnapshotBytes.Add(float64(len(b)))
	return uint64(len(b)), nil
}

// Clear drops the staged buffer for id.
func (r *Registry) Clear(id memory.ID) error {
	defer r.guard.exclusive()()

	e, ok := r.entries[id]
	if !ok {
		return errors.Wrapf(ErrUnregistered, "memory id %s", id)
	}
	e.staged = nil
	return nil
}

// Append appends b to the staged buffer for id. Uploading a snapshot is a
// Clear followed by a sequence of Appends and a Load.
func (r *Registry) Append(id memory.ID, b []byte) error {
	defer r.guard.exclusive()()

	e, ok := r.entries[id]
	if !ok {
		return errors.Wrapf(ErrUnregistered, "memory id %s", id)
	}
	e.staged = append(e.staged, b...)
	return nil
}

// Load decodes the staged buffer into the registered value.
func (r *Registry) Load(id memory.ID) error {
	defer r.guard.exclusive()()

	e, ok := r.entries[id]
	if !ok {
		return errors.Wrapf(ErrUnregistered, "memory id %s", id)
	}
	if err := e.load(e.staged); err != nil {
		return errors.Wrapf(err, "load staged snapshot for memory id %s", id)
	}
	return nil
}

// ReadChunk returns the staged buffer slice [offset, offset+length). The
// returned slice aliases the staged buffer and must not be retained across
// registry mutations.
func (r *Registry) ReadChunk(id memory.ID, offset, length uint64) ([]byte, error) {
	defer r.guard.shared()()

	e, ok := r.entries[id]
	if !ok {
		return nil, errors.Wrapf(ErrUnregistered, "memory id %s", id)
	}
	size := uint64(len(e.staged))
	if offset > size || length > size-offset {
		return nil, errors.Errorf("chunk [%d, %d) out of range for memory id %s, staged snapshot is %d bytes",
			offset, offset+length, id, size)
	}
	return e.staged[offset : offset+length : offset+length], nil
}

// StagedLen returns the current length of the staged buffer for id.
func (r *Registry) StagedLen(id memory.ID) (uint64, error) {
	defer r.guard.shared()()

	e, ok := r.entries[id]
	if !ok {
		return 0, errors.Wrapf(ErrUnregistered, "memory id %s", id)
	}
	return uint64(len(e.staged)), nil
}
