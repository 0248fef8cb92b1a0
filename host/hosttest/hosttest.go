// Package hosttest provides a host runtime for tests.
package hosttest

import (
	"github.com/icforge/canistertools/host"
)

// Runtime is an in-process host.Runtime with a settable caller and a fixed
// controller set.
type Runtime struct {
	CallerPrincipal host.Principal
	Controllers     map[host.Principal]bool
}

// New returns a Runtime whose caller is a controller.
func New() *Runtime {
	const admin = host.Principal("controller-admin")
	return &Runtime{
		CallerPrincipal: admin,
		Controllers:     map[host.Principal]bool{admin: true},
	}
}

func (r *Runtime) Caller() host.Principal {
	return r.CallerPrincipal
}

func (r *Runtime) IsController(p host.Principal) bool {
	return r.Controllers[p]
}

// Catch runs fn and returns the trap it panicked with, or nil when fn
// returned normally. Panics that are not traps are re-raised.
func Catch(fn func()) (trap *host.TrapError) {
	defer func() {
		if r := recover(); r != nil {
			te, ok := r.(*host.TrapError)
			if !ok {
				panic(r)
			}
			trap = te
		}
	}()
	fn()
	return nil
}
