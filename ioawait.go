package rtfiber

import (
	"errors"
	"sync"
	"sync/atomic"
)

// IOEvents is a bitmask of the I/O readiness conditions an IOPoller can
// report, mirroring the event bits the platform poller backends expose.
type IOEvents uint32

const (
	IOEventRead IOEvents = 1 << iota
	IOEventWrite
	IOEventError
	IOEventHangup
)

// ErrIOUnsupported is returned by NewIOPoller on platforms with no
// implemented readiness backend.
var ErrIOUnsupported = errors.New("rtfiber: I/O readiness polling is not supported on this platform")

// ioEvent is one readiness notification from a platform backend.
type ioEvent struct {
	fd     int
	events IOEvents
}

// pollerImpl is the platform-specific readiness backend: epoll on Linux,
// kqueue on Darwin. Other platforms get a stub returning ErrIOUnsupported
// from newPollerImpl.
type pollerImpl interface {
	init() error
	register(fd int, events IOEvents) error
	unregister(fd int) error
	poll(timeoutMs int) ([]ioEvent, error)
	close() error
}

// ioReadyState holds the most recently observed readiness mask for one
// registered file descriptor, set by Poll and consumed by ResumeValue.
type ioReadyState struct {
	mask  IOEvents
	ready atomic.Uint32
}

// IOPoller multiplexes a platform readiness backend into Awaitables
// consumable by AwaitOn, so a fiber can suspend until a file descriptor
// becomes readable, writable, or errors -- without blocking the single
// scheduling goroutine. Grounded on the teacher's FastPoller, re-cast
// from an inline-callback design (suited to the teacher's own run loop)
// into the pull-based Ready()/ResumeValue() shape this runtime's
// Awaitable protocol requires.
type IOPoller struct {
	impl pollerImpl
	mu   sync.Mutex
	fds  map[int]*ioReadyState
}

// NewIOPoller constructs an IOPoller using the platform's readiness
// backend, returning ErrIOUnsupported where none is implemented.
func NewIOPoller() (*IOPoller, error) {
	impl, err := newPollerImpl()
	if err != nil {
		return nil, err
	}
	if err := impl.init(); err != nil {
		return nil, err
	}
	return &IOPoller{impl: impl, fds: make(map[int]*ioReadyState)}, nil
}

// Register begins monitoring fd for the given events, returning an
// Awaitable[IOEvents] that becomes Ready once Poll observes any of them.
func (p *IOPoller) Register(fd int, events IOEvents) (Awaitable[IOEvents], error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, exists := p.fds[fd]; exists {
		return nil, InvalidStateError{Op: "IOPoller.Register"}
	}
	if err := p.impl.register(fd, events); err != nil {
		return nil, err
	}
	st := &ioReadyState{mask: events}
	p.fds[fd] = st
	return &ioAwaitable{state: st}, nil
}

// Unregister stops monitoring fd.
func (p *IOPoller) Unregister(fd int) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, exists := p.fds[fd]; !exists {
		return InvalidStateError{Op: "IOPoller.Unregister"}
	}
	delete(p.fds, fd)
	return p.impl.unregister(fd)
}

// Poll performs one bounded scan of the platform backend (timeoutMs <= 0
// means non-blocking) and latches observed readiness onto every affected
// fd's ioReadyState. Intended to run once per Scheduler.Spin cycle --
// typically wired as a SleepHook, since the Scheduler only calls that
// when the running queue is empty and something is worth waiting for.
func (p *IOPoller) Poll(timeoutMs int) error {
	events, err := p.impl.poll(timeoutMs)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	for _, ev := range events {
		if st, ok := p.fds[ev.fd]; ok {
			st.ready.Store(uint32(ev.events))
		}
	}
	return nil
}

// Close releases the underlying platform resource.
func (p *IOPoller) Close() error { return p.impl.close() }

// ioAwaitable is the Awaitable[IOEvents] handed back by Register.
type ioAwaitable struct {
	state *ioReadyState
}

func (a *ioAwaitable) Ready() bool { return a.state.ready.Load() != 0 }

func (a *ioAwaitable) ResumeValue() IOEvents {
	return IOEvents(a.state.ready.Swap(0))
}

func (a *ioAwaitable) OnSuspend() Signal { return Await() }
