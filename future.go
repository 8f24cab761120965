package rtfiber

import "sync"

type cellState uint8

const (
	cellEmpty cellState = iota
	cellReady
	cellBroken
)

// cell is the single-slot rendezvous shared by a Future/Promise pair. It is
// mutated only from the single scheduling goroutine in normal operation, but
// a mutex guards it because Promise.Set may be called from producer fibers
// that are themselves resumed by the scheduler at a different point in the
// same logical step; the lock is uncontended in the common case and mirrors
// the teacher's promise.go guarding its shared state with a mutex.
type cell[T any] struct {
	mu     sync.Mutex
	state  cellState
	value  T
	future *Future[T]
	prom   *Promise[T]
}

// Future is the consumer handle of a single-producer/single-consumer
// rendezvous. It is Ready once the peer Promise has set a value or been
// dropped unset. Because its ResumeValue also reports Ready-vs-Broken, a
// Future does not satisfy Awaitable[T] itself; Awaitable returns an adapter
// that does.
type Future[T any] struct {
	c *cell[T]
}

// Promise is the producer handle of the same rendezvous.
type Promise[T any] struct {
	c *cell[T]
}

// NewFuturePromise returns a connected pair sharing a fresh cell in state
// Empty.
func NewFuturePromise[T any]() (Future[T], Promise[T]) {
	c := &cell[T]{}
	f := Future[T]{c: c}
	p := Promise[T]{c: c}
	c.future = &f
	c.prom = &p
	return f, p
}

// ConnectedTo reports whether f and p reference the same cell.
func (f Future[T]) ConnectedTo(p Promise[T]) bool {
	return f.c != nil && f.c == p.c
}

// Moved reports whether this handle has already been moved (and so
// references no cell).
func (f Future[T]) Moved() bool { return f.c == nil }

// Move transfers f's cell to a new handle, which it returns, and updates
// the cell's future back-reference. After Move, f references no cell.
// Moving an already-moved Future panics: Go has no linear types to enforce
// "move exactly once" at compile time, so the nil cell reference (see
// Moved) and this panic are the run-time stand-in.
func (f *Future[T]) Move() Future[T] {
	if f.c == nil {
		panic("rtfiber: Move of an already-moved Future")
	}
	c := f.c
	f.c = nil
	c.mu.Lock()
	next := Future[T]{c: c}
	c.future = &next
	c.mu.Unlock()
	return next
}

// Ready implements Awaitable: true once the cell is Ready or Broken.
func (f Future[T]) Ready() bool {
	if f.c == nil {
		return true
	}
	f.c.mu.Lock()
	defer f.c.mu.Unlock()
	return f.c.state != cellEmpty
}

// ResumeValue returns the value and true if the cell resolved to Ready, or
// the zero value and false if Broken or still Empty (the fiber must only
// call this after Ready() reports true).
func (f Future[T]) ResumeValue() (T, bool) {
	var zero T
	if f.c == nil {
		return zero, false
	}
	f.c.mu.Lock()
	defer f.c.mu.Unlock()
	if f.c.state == cellReady {
		return f.c.value, true
	}
	return zero, false
}

// OnSuspend implements Awaitable: a Future always reports Await.
func (f Future[T]) OnSuspend() Signal { return Await() }

// futureAwaitable adapts a Future[T] to the single-return Awaitable[T]
// contract AwaitOn requires: Future[T] itself can't satisfy Awaitable[T]
// directly, since its own ResumeValue also reports whether the cell
// resolved Ready or Broken, a second return value Awaitable's ResumeValue
// has no room for. ResumeValue here is only ever called after Ready
// reports true (AwaitOn's own contract), at which point the ok flag is
// dropped: a broken cell resolves to the zero value.
type futureAwaitable[T any] struct {
	f Future[T]
}

func (a futureAwaitable[T]) Ready() bool { return a.f.Ready() }

func (a futureAwaitable[T]) ResumeValue() T {
	v, _ := a.f.ResumeValue()
	return v
}

func (a futureAwaitable[T]) OnSuspend() Signal { return a.f.OnSuspend() }

// Awaitable adapts f to the Awaitable[T] interface, so it can be passed to
// AwaitOn like any built-in suspension point.
func (f Future[T]) Awaitable() Awaitable[T] { return futureAwaitable[T]{f: f} }

// AwaitFuture suspends the enclosing fiber until f resolves, then returns
// its value and whether the cell was actually Ready (as opposed to
// Broken). It is the Future-specific counterpart of AwaitOn, needed
// because Future[T]'s own ResumeValue carries that second return AwaitOn
// can't plumb through a bare Awaitable[T].
func AwaitFuture[T any](ctx *Context, f Future[T]) (T, bool) {
	AwaitOn(ctx, f.Awaitable())
	return f.ResumeValue()
}

// Get fails with BrokenPromiseError if the cell is Broken, and otherwise
// returns the value once Ready. Callers on the hot path should prefer
// awaiting readiness and using ResumeValue; Get is for synchronous contexts.
func (f Future[T]) Get() (T, error) {
	var zero T
	if f.c == nil {
		return zero, BrokenPromiseError{}
	}
	f.c.mu.Lock()
	defer f.c.mu.Unlock()
	switch f.c.state {
	case cellReady:
		return f.c.value, nil
	case cellBroken:
		return zero, BrokenPromiseError{}
	default:
		return zero, nil
	}
}

// Moved reports whether this handle has already been moved.
func (p Promise[T]) Moved() bool { return p.c == nil }

// ConnectedTo reports whether p references the same cell as f.
func (p Promise[T]) ConnectedTo(f Future[T]) bool {
	return p.c != nil && p.c == f.c
}

// Move transfers p's back-reference to a new handle, the same way
// Future.Move does.
func (p *Promise[T]) Move() Promise[T] {
	if p.c == nil {
		panic("rtfiber: Move of an already-moved Promise")
	}
	c := p.c
	p.c = nil
	c.mu.Lock()
	next := Promise[T]{c: c}
	c.prom = &next
	c.mu.Unlock()
	return next
}

// Set transitions the cell Empty -> Ready(v). Setting a cell that is already
// Ready or Broken fails with AlreadySetError.
func (p Promise[T]) Set(v T) error {
	if p.c == nil {
		return InvalidStateError{Op: "Promise.Set"}
	}
	p.c.mu.Lock()
	defer p.c.mu.Unlock()
	if p.c.state != cellEmpty {
		return AlreadySetError{}
	}
	p.c.value = v
	p.c.state = cellReady
	return nil
}

// Drop breaks the cell if it is still Empty, so the peer Future observes a
// terminal Broken state. Drop is idempotent and safe on a moved-from
// Promise.
func (p *Promise[T]) Drop() {
	if p.c == nil {
		return
	}
	p.c.mu.Lock()
	if p.c.state == cellEmpty {
		p.c.state = cellBroken
	}
	p.c.mu.Unlock()
	p.c = nil
}
