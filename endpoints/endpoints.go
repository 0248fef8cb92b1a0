// Package endpoints implements the controller-only maintenance methods a
// canister exposes over the snapshot registry and raw stable memory.
//
// Each handler receives the raw argument blob delivered by the host and
// returns the raw reply blob. Handlers are synchronous, run the controller
// guard before touching any state, and trap on any failure; the host rolls
// the message back on trap.
package endpoints

import (
	"github.com/sirupsen/logrus"

	"github.com/icforge/canistertools/host"
	"github.com/icforge/canistertools/memory"
	"github.com/icforge/canistertools/registry"
)

// Exported method names.
const (
	NameCreateStateSnapshot   = "controller_create_state_snapshot"
	NameDownloadStateSnapshot = "controller_download_state_snapshot"
	NameClearStateSnapshot    = "controller_clear_state_snapshot"
	NameAppendStateSnapshot   = "controller_append_state_snapshot"
	NameLoadStateSnapshot     = "controller_load_state_snapshot"
	NameStableMemoryRead      = "controller_stable_memory_read"
	NameStableMemoryWrite     = "controller_stable_memory_write"
	NameStableMemorySize      = "controller_stable_memory_size"
	NameStableMemoryGrow      = "controller_stable_memory_grow"
)

// Handler processes one message: raw argument blob in, raw reply blob out.
type Handler func(arg []byte) (reply []byte)

// Method describes one exported endpoint for the host shim to install.
type Method struct {
	Name  string
	Query bool // no state change, may be served from a read-only replica
	Fn    Handler
}

// Endpoints binds the nine controller methods to a host runtime, a snapshot
// registry and a memory manager.
type Endpoints struct {
	rt  host.Runtime
	reg *registry.Registry
	mem *memory.Manager
	log logrus.FieldLogger
}

// New returns the endpoint surface over reg and mem, authorizing callers
// through rt.
func New(rt host.Runtime, reg *registry.Registry, mem *memory.Manager) *Endpoints {
	return &Endpoints{
		rt:  rt,
		reg: reg,
		mem: mem,
		log: logrus.WithField("component", "endpoints"),
	}
}

// Methods lists the nine exported methods.
func (e *Endpoints) Methods() []Method {
	return []Method{
		{Name: NameCreateStateSnapshot, Fn: e.CreateStateSnapshot},
		{Name: NameDownloadStateSnapshot, Query: true, Fn: e.DownloadStateSnapshot},
		{Name: NameClearStateSnapshot, Fn: e.ClearStateSnapshot},
		{Name: NameAppendStateSnapshot, Fn: e.AppendStateSnapshot},
		{Name: NameLoadStateSnapshot, Fn: e.LoadStateSnapshot},
		{Name: NameStableMemoryRead, Query: true, Fn: e.StableMemoryRead},
		{Name: NameStableMemoryWrite, Fn: e.StableMemoryWrite},
		{Name: NameStableMemorySize, Query: true, Fn: e.StableMemorySize},
		{Name: NameStableMemoryGrow, Fn: e.StableMemoryGrow},
	}
}

func (e *Endpoints) guard(method string) {
	host.MustBeController(e.rt)
	metricCalls.WithLabelValues(method).Inc()
}

func trapOn(err error) {
	if err != nil {
		host.Trap(err.Error())
	}
}

// CreateStateSnapshot serializes the registered value into the staged
// buffer and replies with the staged length.
func (e *Endpoints) CreateStateSnapshot(arg []byte) []byte {
	e.guard(NameCreateStateSnapshot)
	id, err := UnmarshalIDArg(arg)
	trapOn(err)

	n, err := e.reg.Snapshot(memory.ID(id))
	trapOn(err)

	e.log.WithFields(logrus.Fields{"memory_id": id, "len": n}).Debug("State snapshot created")
	return MarshalU64Reply(n)
}

// DownloadStateSnapshot replies with the staged buffer slice
// [offset, offset+length).
func (e *Endpoints) DownloadStateSnapshot(arg []byte) []byte {
	e.guard(NameDownloadStateSnapshot)
	id, offset, length, err := UnmarshalRangeArg(arg)
	trapOn(err)

	chunk, err := e.reg.ReadChunk(memory.ID(id), offset, length)
	trapOn(err)

	return MarshalBlobReply(chunk)
}

// ClearStateSnapshot drops the staged buffer.
func (e *Endpoints) ClearStateSnapshot(arg []byte) []byte {
	e.guard(NameClearStateSnapshot)
	id, err := UnmarshalIDArg(arg)
	trapOn(err)

	trapOn(e.reg.Clear(memory.ID(id)))
	return MarshalUnitReply()
}

// AppendStateSnapshot appends the argument blob to the staged buffer.
func (e *Endpoints) AppendStateSnapshot(arg []byte) []byte {
	e.guard(NameAppendStateSnapshot)
	id, blob, err := UnmarshalBlobArg(arg)
	trapOn(err)

	trapOn(e.reg.Append(memory.ID(id), blob))
	return MarshalUnitReply()
}

// LoadStateSnapshot decodes the staged buffer into the registered value.
func (e *Endpoints) LoadStateSnapshot(arg []byte) []byte {
	e.guard(NameLoadStateSnapshot)
	id, err := UnmarshalIDArg(arg)
	trapOn(err)

	trapOn(e.reg.Load(memory.ID(id)))
	e.log.WithField("memory_id", id).Debug("State snapshot loaded")
	return MarshalUnitReply()
}

// StableMemoryRead replies with length bytes of the region at offset. The
// range must be within the current region size.
func (e *Endpoints) StableMemoryRead(arg []byte) []byte {
	e.guard(NameStableMemoryRead)
	id, offset, length, err := UnmarshalRangeArg(arg)
	trapOn(err)

	b := make([]byte, length)
	e.mem.Get(memory.ID(id)).Read(offset, b)
	return MarshalBlobReply(b)
}

// StableMemoryWrite writes the argument blob into the region at offset.
// The region is not grown; the range must be within its current size.
func (e *Endpoints) StableMemoryWrite(arg []byte) []byte {
	e.guard(NameStableMemoryWrite)
	id, offset, blob, err := UnmarshalWriteArg(arg)
	trapOn(err)

	e.mem.Get(memory.ID(id)).Write(offset, blob)
	return MarshalUnitReply()
}

// StableMemorySize replies with the region size in pages.
func (e *Endpoints) StableMemorySize(arg []byte) []byte {
	e.guard(NameStableMemorySize)
	id, err := UnmarshalIDArg(arg)
	trapOn(err)

	return MarshalU64Reply(e.mem.Get(memory.ID(id)).Size())
}

// StableMemoryGrow grows the region and replies with the new size in pages,
// or -1 when the region cannot grow.
func (e *Endpoints) StableMemoryGrow(arg []byte) []byte {
	e.guard(NameStableMemoryGrow)
	id, pages, err := UnmarshalPagesArg(arg)
	trapOn(err)

	return MarshalI64Reply(e.mem.Get(memory.ID(id)).Grow(pages))
}
