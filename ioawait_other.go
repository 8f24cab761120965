//go:build !linux && !darwin

package rtfiber

// unsupportedPoller is the fallback pollerImpl for platforms without an
// implemented readiness backend (the teacher's own poller set is
// similarly limited to linux/darwin/windows; this runtime narrows that
// further since it targets embedded cooperative deployments rather than
// a general-purpose event loop).
type unsupportedPoller struct{}

func newPollerImpl() (pollerImpl, error) { return nil, ErrIOUnsupported }

func (unsupportedPoller) init() error                             { return ErrIOUnsupported }
func (unsupportedPoller) register(int, IOEvents) error             { return ErrIOUnsupported }
func (unsupportedPoller) unregister(int) error                     { return ErrIOUnsupported }
func (unsupportedPoller) poll(int) ([]ioEvent, error)              { return nil, ErrIOUnsupported }
func (unsupportedPoller) close() error                             { return ErrIOUnsupported }
