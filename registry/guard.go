package registry

import (
	"go.uber.org/atomic"

	"github.com/icforge/canistertools/host"
)

// guard enforces the scoped borrow discipline on the registry. The host is
// single-threaded per instance, so this is not a lock: it exists to trap
// reentrancy bugs, e.g. a serialize closure calling back into the registry
// while the registry is being mutated.
//
// State: 0 free, -1 exclusively borrowed, >0 number of shared borrows.
type guard struct {
	state atomic.Int32
}

func (g *guard) shared() (release func()) {
	if g.state.Load() < 0 {
		host.Trap("state snapshot registry is already mutably borrowed")
	}
	g.state.Inc()
	return func() { g.state.Dec() }
}

func (g *guard) exclusive() (release func()) {
	if g.state.Load() != 0 {
		host.Trap("state snapshot registry is already borrowed")
	}
	g.state.Store(-1)
	return func() { g.state.Store(0) }
}
