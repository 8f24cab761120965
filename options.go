package rtfiber

import (
	"io"
	"os"
)

// schedulerOptions holds configuration resolved at Scheduler construction.
type schedulerOptions struct {
	capacity       int
	clock          Clock
	logger         Logger
	allocator      FrameAllocator
	interruptMask  InterruptMask
	metricsEnabled bool
	sleepHook      SleepHook
	errStream      io.Writer
}

// Option configures a Scheduler instance.
type Option interface {
	apply(*schedulerOptions) error
}

// optionFunc implements Option.
type optionFunc struct {
	fn func(*schedulerOptions) error
}

func (o *optionFunc) apply(opts *schedulerOptions) error { return o.fn(opts) }

// WithCapacity sets the fixed task-pool capacity. Required to be positive;
// the default is 32.
func WithCapacity(n int) Option {
	return &optionFunc{func(opts *schedulerOptions) error {
		if n <= 0 {
			return InvalidStateError{Op: "WithCapacity"}
		}
		opts.capacity = n
		return nil
	}}
}

// WithClock overrides the default SystemClock.
func WithClock(c Clock) Option {
	return &optionFunc{func(opts *schedulerOptions) error {
		opts.clock = c
		return nil
	}}
}

// WithLogger overrides the default no-op Logger.
func WithLogger(l Logger) Option {
	return &optionFunc{func(opts *schedulerOptions) error {
		opts.logger = l
		return nil
	}}
}

// WithFrameAllocator overrides the default heap-backed FrameAllocator with,
// e.g., a bumpalloc.Arena. Scheduler.Add hands it to every added Task that
// was constructed without an allocator of its own.
func WithFrameAllocator(a FrameAllocator) Option {
	return &optionFunc{func(opts *schedulerOptions) error {
		opts.allocator = a
		return nil
	}}
}

// WithInterruptMask overrides the default RefCountMask.
func WithInterruptMask(m InterruptMask) Option {
	return &optionFunc{func(opts *schedulerOptions) error {
		opts.interruptMask = m
		return nil
	}}
}

// WithSleepHook installs a callback invoked with the next ready time when
// the running queue is empty. Default: no-op.
func WithSleepHook(hook SleepHook) Option {
	return &optionFunc{func(opts *schedulerOptions) error {
		opts.sleepHook = hook
		return nil
	}}
}

// WithErrorStream overrides the destination for the unconditional
// "[FiberFault]" diagnostic the Scheduler prints when a Task's fiber
// panics. Default: os.Stderr. Unlike the pluggable Logger (whose default
// is a silent no-op), this print always happens -- it is the Scheduler's
// own fault diagnostic, not a trace event a caller opted into.
func WithErrorStream(w io.Writer) Option {
	return &optionFunc{func(opts *schedulerOptions) error {
		opts.errStream = w
		return nil
	}}
}

// WithMetrics enables dispatch-lateness and queue-depth metrics collection.
func WithMetrics(enabled bool) Option {
	return &optionFunc{func(opts *schedulerOptions) error {
		opts.metricsEnabled = enabled
		return nil
	}}
}

// resolveOptions applies Option instances over defaults.
func resolveOptions(opts []Option) (*schedulerOptions, error) {
	cfg := &schedulerOptions{
		capacity:      32,
		clock:         SystemClock{},
		logger:        NoOpLogger{},
		allocator:     noopAllocator{},
		interruptMask: &RefCountMask{},
		errStream:     os.Stderr,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt.apply(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}
