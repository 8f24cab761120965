package rtfiber

import (
	"time"

	"github.com/joeycumines/go-catrate"
)

// faultLimiter throttles the repeated [FiberFault] diagnostic print per task
// name, so a task that crash-loops (faults every cycle it's re-added)
// cannot flood the Scheduler's error stream; Logger calls are not
// throttled. Grounded on catrate's category-based sliding-
// window limiter, keyed by task name as the category.
type faultLimiter struct {
	limiter *catrate.Limiter
}

func newFaultLimiter() *faultLimiter {
	return &faultLimiter{
		limiter: catrate.NewLimiter(map[time.Duration]int{
			time.Second: 1,
		}),
	}
}

// allow reports whether a fault for the given task name should be logged
// right now.
func (f *faultLimiter) allow(taskName string) bool {
	_, ok := f.limiter.Allow(taskName)
	return ok
}
