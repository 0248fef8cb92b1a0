// Package host abstracts the imports the engine consumes from the canister
// host runtime: caller identity, the controller predicate, and trapping.
//
// The engine never installs lifecycle callbacks itself; the host shim calls
// the library at the defined lifecycle points.
package host

import "fmt"

// Principal identifies a caller in the host's textual encoding. The engine
// only ever passes it back to the Runtime, so the encoding is opaque here.
type Principal string

// Runtime is the set of host imports the controller endpoints consume.
type Runtime interface {
	// Caller returns the principal that sent the current message.
	Caller() Principal
	// IsController reports whether p is a platform controller of this
	// canister.
	IsController(p Principal) bool
}

// TrapError is the panic value used to abort the current message. The host
// rolls back all state changes made during a trapped message.
type TrapError struct {
	Message string
}

func (e *TrapError) Error() string {
	return "canister trap: " + e.Message
}

// Trap aborts the current message with a reason.
func Trap(msg string) {
	panic(&TrapError{Message: msg})
}

// Trapf aborts the current message with a formatted reason.
func Trapf(format string, args ...interface{}) {
	Trap(fmt.Sprintf(format, args...))
}

// MustBeController traps unless the current caller is a platform controller.
// Every controller endpoint runs this guard before touching any state.
func MustBeController(rt Runtime) {
	if !rt.IsController(rt.Caller()) {
		Trap("Caller must be a controller for this method.")
	}
}
