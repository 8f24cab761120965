package rtfiber

import "time"

// Awaitable is the suspension-point contract: Ready must be deterministic
// and side-effect-free; ResumeValue may be called only after Ready reports
// true, and yields its value exactly once; OnSuspend is called at most once
// per suspension and its result becomes the Task's pending Signal.
type Awaitable[T any] interface {
	Ready() bool
	ResumeValue() T
	OnSuspend() Signal
}

// Delay is an Awaitable that becomes ready exactly one scheduler turn after
// it is first suspended on. The first Ready() is false; OnSuspend latches
// the delay and arms the next Ready() to return true.
type Delay struct {
	d        time.Duration
	relDead  time.Duration
	explicit bool
	latched  bool
}

// NewDelay returns an implicit delay: the deadline is re-derived by the
// scheduler from the task's previous relative deadline.
func NewDelay(d time.Duration) *Delay {
	return &Delay{d: d}
}

// NewExplicitDelay returns a delay with an explicit relative deadline.
func NewExplicitDelay(d, relDeadline time.Duration) *Delay {
	return &Delay{d: d, relDead: relDeadline, explicit: true}
}

func (a *Delay) Ready() bool { return a.latched }

func (a *Delay) ResumeValue() struct{} { return struct{}{} }

func (a *Delay) OnSuspend() Signal {
	a.latched = true
	if a.explicit {
		return ExplicitDelay(a.d, a.relDead)
	}
	return ImplicitDelay(a.d)
}

// NextCycleAwaitable does not register itself as a leaf awaitable; the Frame
// machinery never routes a Task through the await queue for it. It signals
// "reschedule me, but I am not blocked" by emitting Signal NextCycle.
// Ready() is false on the first call and true thereafter, mirroring Delay's
// one-shot latch without an actual time delay.
type NextCycleAwaitable struct {
	latched bool
}

func NewNextCycleAwaitable() *NextCycleAwaitable { return &NextCycleAwaitable{} }

func (a *NextCycleAwaitable) Ready() bool {
	if !a.latched {
		return false
	}
	return true
}

func (a *NextCycleAwaitable) ResumeValue() struct{} { return struct{}{} }

func (a *NextCycleAwaitable) OnSuspend() Signal {
	a.latched = true
	return NextCycle()
}

// FuncAwaitable adapts arbitrary ready/value functions with no scheduler
// hint into an Awaitable whose OnSuspend always defaults to Await.
type FuncAwaitable[T any] struct {
	ReadyFunc func() bool
	ValueFunc func() T
}

func (a *FuncAwaitable[T]) Ready() bool { return a.ReadyFunc() }

func (a *FuncAwaitable[T]) ResumeValue() T { return a.ValueFunc() }

func (a *FuncAwaitable[T]) OnSuspend() Signal { return Await() }
