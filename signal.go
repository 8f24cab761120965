package rtfiber

import (
	"fmt"
	"time"
)

// SignalKind identifies the variant carried by a Signal.
type SignalKind uint8

const (
	// SignalNone means the fiber finished, or produced no scheduling request.
	SignalNone SignalKind = iota
	// SignalAwait means the fiber is blocked on an external Awaitable.
	SignalAwait
	// SignalNextCycle means the fiber completed one logical cycle and wants
	// its schedule recomputed via its ScheduleStrategy.
	SignalNextCycle
	// SignalImplicitDelay defers the ready time by Delay and re-derives the
	// deadline from the task's previous relative deadline.
	SignalImplicitDelay
	// SignalExplicitDelay defers the ready time by Delay and sets an
	// explicit relative deadline RelDeadline.
	SignalExplicitDelay
)

// String renders the kind for logging and debugging.
func (k SignalKind) String() string {
	switch k {
	case SignalNone:
		return "None"
	case SignalAwait:
		return "Await"
	case SignalNextCycle:
		return "NextCycle"
	case SignalImplicitDelay:
		return "ImplicitDelay"
	case SignalExplicitDelay:
		return "ExplicitDelay"
	default:
		return "Unknown"
	}
}

// Signal is the value a suspension point hands back to the enclosing Task
// and, ultimately, to the Scheduler. At most one Signal is live per resume
// cycle; Task.GetSignal consumes it and resets the pending value to
// SignalNone.
type Signal struct {
	Kind        SignalKind
	Delay       time.Duration
	RelDeadline time.Duration
}

// None is the zero Signal: no scheduling request.
func None() Signal { return Signal{Kind: SignalNone} }

// Await reports that the fiber is blocked on an external Awaitable.
func Await() Signal { return Signal{Kind: SignalAwait} }

// NextCycle reports that the fiber completed a logical cycle and its
// schedule should be recomputed by the owning RealTimeTask's strategy.
func NextCycle() Signal { return Signal{Kind: SignalNextCycle} }

// ImplicitDelay defers the ready time by d; the deadline is derived by the
// scheduler from the previous relative deadline (deadline - ready).
func ImplicitDelay(d time.Duration) Signal {
	return Signal{Kind: SignalImplicitDelay, Delay: d}
}

// ExplicitDelay defers the ready time by d and sets the deadline to
// now + d + relDeadline.
func ExplicitDelay(d, relDeadline time.Duration) Signal {
	return Signal{Kind: SignalExplicitDelay, Delay: d, RelDeadline: relDeadline}
}

func (s Signal) String() string {
	switch s.Kind {
	case SignalImplicitDelay:
		return fmt.Sprintf("ImplicitDelay(%s)", s.Delay)
	case SignalExplicitDelay:
		return fmt.Sprintf("ExplicitDelay(%s, rel=%s)", s.Delay, s.RelDeadline)
	default:
		return s.Kind.String()
	}
}
