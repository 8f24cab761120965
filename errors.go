// Package rtfiber provides the error taxonomy named by the error handling
// design: CapacityExceeded, AllocationFailure, BrokenPromise, AlreadySet,
// InvalidState, and FiberFault.
package rtfiber

import "fmt"

// CapacityExceededError is returned by Scheduler.Add when the fixed task
// pool is already full.
type CapacityExceededError struct {
	Capacity int
}

func (e CapacityExceededError) Error() string {
	return fmt.Sprintf("rtfiber: scheduler at capacity (%d)", e.Capacity)
}

// AllocationFailureError is returned by a FrameAllocator when it cannot
// satisfy a request, carrying the requested size and the remaining
// capacity so callers can decide whether to shed load.
type AllocationFailureError struct {
	Requested uintptr
	Remaining uintptr
}

func (e AllocationFailureError) Error() string {
	return fmt.Sprintf("rtfiber: frame allocator exhausted: requested %d, %d remaining", e.Requested, e.Remaining)
}

// BrokenPromiseError is returned when a Future is read after its peer
// Promise was dropped while the cell was still Empty.
type BrokenPromiseError struct{}

func (e BrokenPromiseError) Error() string { return "rtfiber: broken promise" }

// AlreadySetError is returned by Promise.Set when the cell is no longer
// Empty.
type AlreadySetError struct{}

func (e AlreadySetError) Error() string { return "rtfiber: promise already set" }

// InvalidStateError reports an operation invoked in a state that forbids
// it. It is returned as an error (e.g. Scheduler.Add after Shutdown) or, for
// Task.Resume on a Task that is not resumable, raised as a panic value.
type InvalidStateError struct {
	Op string
}

func (e InvalidStateError) Error() string {
	return fmt.Sprintf("rtfiber: invalid state for %s", e.Op)
}

// FiberFaultError records an uncaught panic inside a Task's Frame chain.
// The Task is destroyed and the scheduler continues; the Scheduler prints
// a "[FiberFault] <name> id=<id>" line to its error stream, and a caller
// can inspect the error itself through Task.Fault.
type FiberFaultError struct {
	TaskName string
	TaskID   uint64
	Cause    any
}

func (e FiberFaultError) Error() string {
	return fmt.Sprintf("[FiberFault] %s id=%d: %v", e.TaskName, e.TaskID, e.Cause)
}

// Unwrap exposes the underlying cause for errors.Is/errors.As when the
// fault value happens to be an error itself.
func (e FiberFaultError) Unwrap() error {
	if err, ok := e.Cause.(error); ok {
		return err
	}
	return nil
}
