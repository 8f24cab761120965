//go:build darwin

package rtfiber

import "golang.org/x/sys/unix"

// kqueuePoller is the Darwin pollerImpl, grounded on the teacher's
// FastPoller (poller_darwin.go): kqueue/kevent registration and polling,
// stripped of the per-fd callback table the teacher's push-based run
// loop needed -- readiness here is pulled once per fd via ioReadyState.
type kqueuePoller struct {
	kq  int
	buf [256]unix.Kevent_t
}

func newPollerImpl() (pollerImpl, error) { return &kqueuePoller{}, nil }

func (p *kqueuePoller) init() error {
	kq, err := unix.Kqueue()
	if err != nil {
		return err
	}
	unix.CloseOnExec(kq)
	p.kq = kq
	return nil
}

func (p *kqueuePoller) register(fd int, events IOEvents) error {
	changes := eventsToKevents(fd, events, unix.EV_ADD|unix.EV_ENABLE)
	if len(changes) == 0 {
		return nil
	}
	_, err := unix.Kevent(p.kq, changes, nil, nil)
	return err
}

func (p *kqueuePoller) unregister(fd int) error {
	changes := eventsToKevents(fd, IOEventRead|IOEventWrite, unix.EV_DELETE)
	if len(changes) == 0 {
		return nil
	}
	_, _ = unix.Kevent(p.kq, changes, nil, nil)
	return nil
}

func (p *kqueuePoller) poll(timeoutMs int) ([]ioEvent, error) {
	var ts *unix.Timespec
	if timeoutMs >= 0 {
		ts = &unix.Timespec{
			Sec:  int64(timeoutMs / 1000),
			Nsec: int64((timeoutMs % 1000) * 1000000),
		}
	}

	n, err := unix.Kevent(p.kq, nil, p.buf[:], ts)
	if err != nil {
		if err == unix.EINTR {
			return nil, nil
		}
		return nil, err
	}

	out := make([]ioEvent, 0, n)
	for i := 0; i < n; i++ {
		fd := int(p.buf[i].Ident)
		if fd < 0 {
			continue
		}
		out = append(out, ioEvent{fd: fd, events: keventToEvents(&p.buf[i])})
	}
	return out, nil
}

func (p *kqueuePoller) close() error { return unix.Close(p.kq) }

func eventsToKevents(fd int, events IOEvents, flags uint16) []unix.Kevent_t {
	var kevents []unix.Kevent_t
	if events&IOEventRead != 0 {
		kevents = append(kevents, unix.Kevent_t{Ident: uint64(fd), Filter: unix.EVFILT_READ, Flags: flags})
	}
	if events&IOEventWrite != 0 {
		kevents = append(kevents, unix.Kevent_t{Ident: uint64(fd), Filter: unix.EVFILT_WRITE, Flags: flags})
	}
	return kevents
}

func keventToEvents(kev *unix.Kevent_t) IOEvents {
	var events IOEvents
	switch kev.Filter {
	case unix.EVFILT_READ:
		events |= IOEventRead
	case unix.EVFILT_WRITE:
		events |= IOEventWrite
	}
	if kev.Flags&unix.EV_ERROR != 0 {
		events |= IOEventError
	}
	if kev.Flags&unix.EV_EOF != 0 {
		events |= IOEventHangup
	}
	return events
}
