package memory

import (
	"slices"

	"github.com/samber/lo"
)

// Factory creates the region backing a given ID the first time it is
// requested from a Manager.
type Factory func(id ID) Memory

// Manager maps each ID to an independent persistent region. Regions are
// created on demand, so asking for an ID that was never written to vends a
// fresh zero-page region.
type Manager struct {
	factory Factory
	regions map[ID]Memory
}

// NewManager returns a Manager using factory to create regions. A nil
// factory defaults to heap-backed regions.
func NewManager(factory Factory) *Manager {
	if factory == nil {
		factory = func(ID) Memory { return NewBuffer() }
	}
	return &Manager{
		factory: factory,
		regions: make(map[ID]Memory),
	}
}

// Get returns the region for id, creating it if needed.
func (m *Manager) Get(id ID) Memory {
	mem, ok := m.regions[id]
	if !ok {
		mem = m.factory(id)
		m.regions[id] = mem
	}
	return mem
}

// IDs returns the ids of all regions created so far, in ascending order.
func (m *Manager) IDs() []ID {
	ids := lo.Keys(m.regions)
	slices.Sort(ids)
	return ids
}
