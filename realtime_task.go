package rtfiber

import (
	"time"

	"golang.org/x/exp/constraints"
)

// clamp restricts v to [lo, hi], grounded on catrate's ringBuffer generic
// bound (constraints.Ordered) over the element type it rotates through.
func clamp[T constraints.Ordered](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Schedule is the (ready, deadline) pair consulted by the Scheduler. It is
// mutated only by the Scheduler, between resume cycles.
type Schedule struct {
	Ready    time.Time
	Deadline time.Time
}

// ExecutionWindow records when one dispatch of a Task actually ran.
type ExecutionWindow struct {
	Start time.Time
	End   time.Time
}

// ScheduleStrategy computes a RealTimeTask's next Schedule after a
// NextCycle signal, and decides whether a Task that has already missed its
// deadline should still run. It is the "small strategy object" the design
// notes call for in place of an inheritance chain from Task to a
// real-time-aware subclass.
type ScheduleStrategy interface {
	// NextSchedule is called by the Scheduler after a NextCycle signal.
	NextSchedule(prev Schedule, exec ExecutionWindow) Schedule
	// MissedDeadline is called when the Scheduler detects a missed
	// deadline before dispatch; returning false instructs the Scheduler
	// to drop the Task instead of running it.
	MissedDeadline(lateness time.Duration) bool
}

// DefaultStrategy is the strategy a RealTimeTask uses when none is
// supplied: NextSchedule returns {ready: exec.End, deadline: exec.End},
// equivalent to "no further cycles" (the Task becomes immediately
// runnable once more, with a deadline of now, so it is scheduled at
// lowest urgency margin); MissedDeadline always returns true.
type DefaultStrategy struct{}

func (DefaultStrategy) NextSchedule(_ Schedule, exec ExecutionWindow) Schedule {
	return Schedule{Ready: exec.End, Deadline: exec.End}
}

func (DefaultStrategy) MissedDeadline(time.Duration) bool { return true }

// PeriodicStrategy advances ready/deadline by a fixed period every cycle,
// ignoring jitter in when the Task actually ran: ready += period,
// deadline = ready + relDeadline. Grounded on the original scheduler's
// PeriodicTask::next_schedule.
type PeriodicStrategy struct {
	Period      time.Duration
	RelDeadline time.Duration
}

func (s PeriodicStrategy) NextSchedule(prev Schedule, _ ExecutionWindow) Schedule {
	ready := prev.Ready.Add(s.Period)
	return Schedule{Ready: ready, Deadline: ready.Add(s.RelDeadline)}
}

func (PeriodicStrategy) MissedDeadline(time.Duration) bool { return true }

// SoftPeriodicStrategy is PeriodicStrategy with an integral drift-
// correction term: it measures the actual elapsed time between successive
// executions and nudges an accumulated offset toward compensating for
// jitter, exactly the original scheduler's SoftPeriodicTask formula
// (offset += error/32). The offset is clamped to at most one nominal
// period in magnitude -- this resolves the open question about unbounded
// integral drift: an unclamped offset can run away under sustained
// one-directional jitter (e.g. a consistently slow producer), eventually
// scheduling the task arbitrarily far from its nominal period.
type SoftPeriodicStrategy struct {
	Period      time.Duration
	RelDeadline time.Duration

	prevStart time.Time
	offset    time.Duration
}

func (s *SoftPeriodicStrategy) NextSchedule(_ Schedule, exec ExecutionWindow) Schedule {
	if !s.prevStart.IsZero() {
		measuredPeriod := exec.Start.Sub(s.prevStart)
		errorTerm := s.Period - measuredPeriod
		s.offset = clamp(s.offset+errorTerm/32, -s.Period, s.Period)
	}
	s.prevStart = exec.Start

	ready := exec.Start.Add(s.Period).Add(s.offset)
	deadline := ready.Add(s.RelDeadline).Add(s.offset)
	return Schedule{Ready: ready, Deadline: deadline}
}

func (*SoftPeriodicStrategy) MissedDeadline(time.Duration) bool { return true }

// RealTimeTask is a Task extended with a Schedule and a ScheduleStrategy
// governing how that schedule advances.
type RealTimeTask struct {
	*Task

	Schedule Schedule
	Strategy ScheduleStrategy

	execStart time.Time
	poolIndex int
}

// NewRealTimeTask constructs a RealTimeTask. A nil strategy defaults to
// DefaultStrategy{}; a nil allocator defaults to a heap-backed one, which
// Scheduler.Add replaces with the Scheduler's own FrameAllocator.
func NewRealTimeTask(name string, alloc FrameAllocator, sched Schedule, strategy ScheduleStrategy, gen Generator) *RealTimeTask {
	if strategy == nil {
		strategy = DefaultStrategy{}
	}
	return &RealTimeTask{
		Task:     NewTask(name, alloc, gen),
		Schedule: sched,
		Strategy: strategy,
	}
}

func (t *RealTimeTask) readyTime() time.Time { return t.Schedule.Ready }
func (t *RealTimeTask) deadline() time.Time  { return t.Schedule.Deadline }
