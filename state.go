package rtfiber

import (
	"sync/atomic"
)

// SchedulerState represents the lifecycle state of a Scheduler.
//
// State Machine:
//
//	StateCreated (0) -> StateRunning (1)      [first Add()]
//	StateRunning (1) -> StateDraining (2)     [Shutdown() requested]
//	StateDraining (2) -> StateStopped (3)     [last Task retired]
//	StateStopped (3) -> (terminal)
//
// Use TryTransition (CAS) for every transition; Store bypasses validation
// and is used only for the initial construction of a fresh FastState and
// by Scheduler.Shutdown to settle an already-empty scheduler to Stopped.
type SchedulerState uint64

const (
	// StateCreated indicates the scheduler has been constructed but no
	// Task has been added yet.
	StateCreated SchedulerState = 0
	// StateRunning indicates the scheduler is actively dispatching.
	StateRunning SchedulerState = 1
	// StateDraining indicates shutdown has been requested; no new Tasks
	// are admitted but in-flight ones are allowed to finish.
	StateDraining SchedulerState = 2
	// StateStopped indicates the scheduler has fully drained and is
	// inert.
	StateStopped SchedulerState = 3
)

// String returns a human-readable representation of the state.
func (s SchedulerState) String() string {
	switch s {
	case StateCreated:
		return "Created"
	case StateRunning:
		return "Running"
	case StateDraining:
		return "Draining"
	case StateStopped:
		return "Stopped"
	default:
		return "Unknown"
	}
}

// FastState is a lock-free state machine with cache-line padding, used by
// Scheduler to track its own lifecycle without a mutex on the hot path.
// Cache-line padding prevents false sharing with neighbouring fields when
// a Scheduler is embedded in a larger struct and polled from another
// goroutine (e.g. a metrics exporter).
type FastState struct { // betteralign:ignore
	_ [64]byte      // cache line padding (before value) //nolint:unused
	v atomic.Uint64 // state value
	_ [56]byte      // pad to complete cache line (64 - 8 = 56) //nolint:unused
}

// NewFastState creates a new state machine in StateCreated.
func NewFastState() *FastState {
	s := &FastState{}
	s.v.Store(uint64(StateCreated))
	return s
}

// Load returns the current state atomically.
func (s *FastState) Load() SchedulerState {
	return SchedulerState(s.v.Load())
}

// Store atomically stores a new state, bypassing transition validation.
// Used for initialization and by Scheduler.Shutdown on an empty scheduler.
func (s *FastState) Store(state SchedulerState) {
	s.v.Store(uint64(state))
}

// TryTransition attempts to atomically transition from one state to
// another. Returns true if the transition was successful.
func (s *FastState) TryTransition(from, to SchedulerState) bool {
	return s.v.CompareAndSwap(uint64(from), uint64(to))
}

// IsTerminal returns true if the current state is terminal (Stopped).
func (s *FastState) IsTerminal() bool {
	return s.Load() == StateStopped
}

// CanAcceptWork returns true if the scheduler can admit new Tasks.
func (s *FastState) CanAcceptWork() bool {
	state := s.Load()
	return state == StateCreated || state == StateRunning
}
