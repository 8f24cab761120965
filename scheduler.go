package rtfiber

import (
	"container/heap"
	"fmt"
	"sync"
	"time"

	"github.com/davecgh/go-spew/spew"
)

// waitingHeap is a min-heap of RealTimeTasks ordered by ready time,
// grounded on the teacher's timerHeap (loop.go) implementing
// container/heap.Interface over a duration-ordered slice.
type waitingHeap []*RealTimeTask

func (h waitingHeap) Len() int { return len(h) }
func (h waitingHeap) Less(i, j int) bool {
	return h[i].Schedule.Ready.Before(h[j].Schedule.Ready)
}
func (h waitingHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *waitingHeap) Push(x any)   { *h = append(*h, x.(*RealTimeTask)) }
func (h *waitingHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return t
}

// runningHeap is a min-heap of RealTimeTasks ordered by deadline (earliest
// deadline first).
type runningHeap []*RealTimeTask

func (h runningHeap) Len() int { return len(h) }
func (h runningHeap) Less(i, j int) bool {
	return h[i].Schedule.Deadline.Before(h[j].Schedule.Deadline)
}
func (h runningHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *runningHeap) Push(x any)   { *h = append(*h, x.(*RealTimeTask)) }
func (h *runningHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return t
}

// Scheduler is the three-queue, earliest-deadline-first dispatcher: a
// waiting queue (min-heap by ready time), a running queue (min-heap by
// deadline), and an await bag (unordered, linearly rescanned), all drawn
// from one fixed-capacity taskPool.
//
// Scheduler.Spin is expected to be called from a single goroutine; Add may
// additionally be called from other goroutines (the "interrupt handler"
// case named in the concurrency model), guarded by mu and the configured
// InterruptMask.
type Scheduler struct {
	opts  *schedulerOptions
	state *FastState
	pool  *taskPool

	mu      sync.Mutex
	waiting waitingHeap
	running runningHeap
	await   []*RealTimeTask

	nextID  uint64
	metrics *SchedulerMetrics
	faults  *faultLimiter
}

// NewScheduler constructs a Scheduler with the given Options applied over
// the defaults (capacity 32, SystemClock, NoOpLogger, heap-backed
// FrameAllocator, RefCountMask).
func NewScheduler(opts ...Option) (*Scheduler, error) {
	cfg, err := resolveOptions(opts)
	if err != nil {
		return nil, err
	}
	s := &Scheduler{
		opts:   cfg,
		state:  NewFastState(),
		pool:   newTaskPool(cfg.capacity),
		faults: newFaultLimiter(),
	}
	if cfg.metricsEnabled {
		s.metrics = NewSchedulerMetrics()
	}
	heap.Init(&s.waiting)
	heap.Init(&s.running)
	return s, nil
}

// Metrics returns the Scheduler's metrics, or nil if WithMetrics(true) was
// not supplied at construction.
func (s *Scheduler) Metrics() *SchedulerMetrics { return s.metrics }

// Add admits task into the scheduler, assigning it the next admission id
// and routing it into the running queue if its ready time has already
// passed, or the waiting queue otherwise. Fails with CapacityExceededError
// once the pool is full.
func (s *Scheduler) Add(task *RealTimeTask) error {
	s.opts.interruptMask.Disable()
	defer s.opts.interruptMask.Enable()

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.state.CanAcceptWork() {
		return InvalidStateError{Op: "Scheduler.Add"}
	}

	idx, err := s.pool.acquire(task)
	if err != nil {
		return err
	}
	task.poolIndex = idx
	if _, heapBacked := task.alloc.(noopAllocator); heapBacked {
		task.alloc = s.opts.allocator
	}

	s.nextID++
	task.SetSchedulerID(s.nextID)

	now := s.opts.clock.Now()
	if !task.Schedule.Ready.After(now) {
		heap.Push(&s.running, task)
		s.opts.logger.LogAdd(now, task.Name(), task.ID(), "run")
	} else {
		heap.Push(&s.waiting, task)
		s.opts.logger.LogAdd(now, task.Name(), task.ID(), "wait")
	}

	s.state.TryTransition(StateCreated, StateRunning)
	s.updateQueueMetrics()
	return nil
}

// Spin runs one scheduling step: promote ready Tasks from the await bag
// and the waiting queue into the running queue, then dispatch the running
// Task with the earliest deadline, if any.
func (s *Scheduler) Spin() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.promoteFromAwait()
	s.promoteFromWaiting()
	s.dispatch()
	s.updateQueueMetrics()
}

func (s *Scheduler) promoteFromAwait() {
	now := s.opts.clock.Now()
	kept := s.await[:0]
	for _, t := range s.await {
		if t.leafAwaitable != nil && t.leafAwaitable.Ready() {
			heap.Push(&s.running, t)
			s.opts.logger.LogMove(now, t.Name(), t.ID(), "await", "run")
		} else {
			kept = append(kept, t)
		}
	}
	s.await = kept
}

func (s *Scheduler) promoteFromWaiting() {
	now := s.opts.clock.Now()
	for s.waiting.Len() > 0 {
		top := s.waiting[0]
		if top.Schedule.Ready.After(now) {
			break
		}
		heap.Pop(&s.waiting)
		heap.Push(&s.running, top)
		s.opts.logger.LogMove(now, top.Name(), top.ID(), "wait", "run")
	}
}

func (s *Scheduler) dispatch() {
	now := s.opts.clock.Now()

	if s.running.Len() == 0 {
		if s.waiting.Len() > 0 && s.opts.sleepHook != nil {
			until := s.waiting[0].Schedule.Ready
			s.opts.logger.LogSleep(now, until)
			s.opts.sleepHook(until)
		}
		return
	}

	task := heap.Pop(&s.running).(*RealTimeTask)

	if lateness := now.Sub(task.Schedule.Deadline); lateness > 0 {
		if !task.Strategy.MissedDeadline(lateness) {
			s.retire(task, now)
			return
		}
	}

	if s.metrics != nil {
		s.metrics.Lateness.Record(now.Sub(task.Schedule.Ready))
	}

	start := s.opts.clock.Now()
	task.execStart = start
	task.Resume()
	end := s.opts.clock.Now()
	s.opts.logger.LogResume(start, end, task.Name(), task.ID())
	if s.metrics != nil {
		s.metrics.Rate.Increment()
	}

	if fault := task.Fault(); fault != nil {
		if f, ok := fault.(FiberFaultError); ok && s.faults.allow(f.TaskName) {
			fmt.Fprintf(s.opts.errStream, "[FiberFault] %s id=%d\n", f.TaskName, f.TaskID)
		}
		s.opts.logger.LogDelete(end, task.Name(), task.ID())
		s.retire(task, end)
		return
	}

	signal := task.GetSignal()
	switch signal.Kind {
	case SignalAwait:
		s.await = append(s.await, task)
		s.opts.logger.LogMove(end, task.Name(), task.ID(), "resume", "await")

	case SignalNextCycle:
		task.Schedule = task.Strategy.NextSchedule(task.Schedule, ExecutionWindow{Start: start, End: end})
		s.requeueAfterCycle(task, end)

	case SignalImplicitDelay:
		relDeadline := task.Schedule.Deadline.Sub(task.Schedule.Ready)
		task.Schedule.Ready = end.Add(signal.Delay)
		task.Schedule.Deadline = task.Schedule.Ready.Add(relDeadline)
		heap.Push(&s.waiting, task)
		s.opts.logger.LogMove(end, task.Name(), task.ID(), "resume", "wait")

	case SignalExplicitDelay:
		task.Schedule.Ready = end.Add(signal.Delay)
		task.Schedule.Deadline = task.Schedule.Ready.Add(signal.RelDeadline)
		heap.Push(&s.waiting, task)
		s.opts.logger.LogMove(end, task.Name(), task.ID(), "resume", "wait")

	default: // SignalNone: finished, or faulted without a FiberFaultError
		s.retire(task, end)
	}
}

func (s *Scheduler) requeueAfterCycle(task *RealTimeTask, now time.Time) {
	if !task.Schedule.Ready.After(now) {
		heap.Push(&s.running, task)
		s.opts.logger.LogMove(now, task.Name(), task.ID(), "resume", "run")
		return
	}
	heap.Push(&s.waiting, task)
	s.opts.logger.LogMove(now, task.Name(), task.ID(), "resume", "wait")
}

func (s *Scheduler) retire(task *RealTimeTask, now time.Time) {
	s.pool.release(task.poolIndex)
	s.opts.logger.LogDelete(now, task.Name(), task.ID())
	if s.pool.size() == 0 {
		s.state.TryTransition(StateDraining, StateStopped)
	}
}

func (s *Scheduler) updateQueueMetrics() {
	if s.metrics == nil {
		return
	}
	s.metrics.Queue.UpdateWaiting(s.waiting.Len())
	s.metrics.Queue.UpdateRunning(s.running.Len())
	s.metrics.Queue.UpdateAwait(len(s.await))
}

// Capacity returns the fixed pool capacity.
func (s *Scheduler) Capacity() int { return s.pool.capacity() }

// Size returns the current number of admitted Tasks.
func (s *Scheduler) Size() int { return s.pool.size() }

// Reserve returns the number of Tasks that can still be admitted.
func (s *Scheduler) Reserve() int { return s.pool.reserve() }

// NWaiting returns the number of Tasks in the waiting queue.
func (s *Scheduler) NWaiting() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.waiting.Len()
}

// NRunning returns the number of Tasks in the running queue.
func (s *Scheduler) NRunning() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running.Len()
}

// NAwaiting returns the number of Tasks in the await bag.
func (s *Scheduler) NAwaiting() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.await)
}

// IsWaiting reports whether the running queue is currently empty.
func (s *Scheduler) IsWaiting() bool { return s.NRunning() == 0 }

// IsBusy reports whether the running queue is non-empty.
func (s *Scheduler) IsBusy() bool { return s.NRunning() > 0 }

// IsEmpty reports whether the scheduler holds no Tasks at all.
func (s *Scheduler) IsEmpty() bool { return s.Size() == 0 }

// IsFull reports whether the fixed pool is at capacity.
func (s *Scheduler) IsFull() bool { return s.Reserve() == 0 }

// IsDone is an alias for IsEmpty, for callers that read a scheduler loop
// more naturally as "while not done" than "while not empty".
func (s *Scheduler) IsDone() bool { return s.IsEmpty() }

// Shutdown requests the scheduler stop admitting new Tasks. Already
// in-flight Tasks continue to be dispatched by further Spin calls until
// the pool drains, at which point the state settles to StateStopped.
func (s *Scheduler) Shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.TryTransition(StateRunning, StateDraining)
	if s.pool.size() == 0 {
		s.state.Store(StateStopped)
	}
}

// DumpState renders the full Frame/Task chain state of every queue for
// debugging, using go-spew for deep, cycle-safe struct formatting.
func (s *Scheduler) DumpState() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return spew.Sdump(s.waiting, s.running, s.await)
}
