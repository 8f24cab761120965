package rtfiber

import "sync/atomic"

// InterruptMask is the reference-counted enable/disable collaborator the
// Scheduler uses around queue mutations that an interrupt-handler-like
// caller (e.g. a goroutine delivering an external event) might race with.
// Only the first Disable in a nesting disables; only the last matching
// Enable re-enables.
type InterruptMask interface {
	Disable()
	Enable()
}

// RefCountMask is the default InterruptMask: a nested counter with no
// actual masking effect, since a Go scheduler's "interrupt handler" is just
// another goroutine and true interrupt masking is hardware-specific and out
// of this module's scope (named as an external collaborator in the
// purpose/scope section). It exists so callers have a correctly-nesting
// default without wiring real hardware primitives, grounded on the
// teacher's cache-line-padded atomic counters in state.go.
type RefCountMask struct {
	depth atomic.Int32
}

func (m *RefCountMask) Disable() { m.depth.Add(1) }

func (m *RefCountMask) Enable() {
	if m.depth.Add(-1) < 0 {
		panic(InvalidStateError{Op: "RefCountMask.Enable"})
	}
}

// Depth reports the current nesting depth, for diagnostics.
func (m *RefCountMask) Depth() int32 { return m.depth.Load() }
