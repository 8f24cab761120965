//go:build linux

package rtfiber

import "golang.org/x/sys/unix"

// epollPoller is the Linux pollerImpl, grounded on the teacher's
// FastPoller (poller_linux.go): epoll_create1/epoll_ctl/epoll_wait,
// stripped of the direct-indexed fd array and inline-callback dispatch
// the teacher's push-based run loop needed, since this runtime's
// Awaitables are pulled (Ready()) rather than pushed.
type epollPoller struct {
	epfd int
	buf  [256]unix.EpollEvent
}

func newPollerImpl() (pollerImpl, error) { return &epollPoller{}, nil }

func (p *epollPoller) init() error {
	fd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return err
	}
	p.epfd = fd
	return nil
}

func (p *epollPoller) register(fd int, events IOEvents) error {
	ev := &unix.EpollEvent{Events: toEpoll(events), Fd: int32(fd)}
	return unix.EpollCtl(p.epfd, unix.EPOLL_CTL_ADD, fd, ev)
}

func (p *epollPoller) unregister(fd int) error {
	return unix.EpollCtl(p.epfd, unix.EPOLL_CTL_DEL, fd, nil)
}

func (p *epollPoller) poll(timeoutMs int) ([]ioEvent, error) {
	n, err := unix.EpollWait(p.epfd, p.buf[:], timeoutMs)
	if err != nil {
		if err == unix.EINTR {
			return nil, nil
		}
		return nil, err
	}
	out := make([]ioEvent, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, ioEvent{
			fd:     int(p.buf[i].Fd),
			events: fromEpoll(p.buf[i].Events),
		})
	}
	return out, nil
}

func (p *epollPoller) close() error { return unix.Close(p.epfd) }

func toEpoll(events IOEvents) uint32 {
	var e uint32
	if events&IOEventRead != 0 {
		e |= unix.EPOLLIN
	}
	if events&IOEventWrite != 0 {
		e |= unix.EPOLLOUT
	}
	return e
}

func fromEpoll(e uint32) IOEvents {
	var events IOEvents
	if e&unix.EPOLLIN != 0 {
		events |= IOEventRead
	}
	if e&unix.EPOLLOUT != 0 {
		events |= IOEventWrite
	}
	if e&unix.EPOLLERR != 0 {
		events |= IOEventError
	}
	if e&unix.EPOLLHUP != 0 {
		events |= IOEventHangup
	}
	return events
}
