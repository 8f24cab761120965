// Package rtfiber provides a cooperative, single-threaded, earliest-
// deadline-first scheduling runtime for fibers: suspendable computations
// expressed as nested Frames that yield control at well-defined await
// points.
//
// # Architecture
//
// The runtime is built around four tightly coupled subsystems:
//
//   - Signal: the value a suspension point hands back to the scheduler
//     (None, Await, NextCycle, ImplicitDelay, ExplicitDelay).
//   - Awaitable: the suspension-point contract (Ready, ResumeValue,
//     OnSuspend), with built-ins Delay, NextCycleAwaitable, Future, and a
//     FuncAwaitable adapter for user types.
//   - Future/Promise: a single-producer, single-consumer rendezvous for
//     cross-fiber handoff of one value, with explicit move semantics. A
//     fiber suspends on one with [AwaitFuture], the Future-specific
//     counterpart of [AwaitOn].
//   - Scheduler: a three-queue (waiting, running, await) dispatcher with
//     EDF priority and a sleep-until hook.
//
// # Execution model
//
// A [Task] owns a chain of [Frame]s rooted at a [Generator] function. The
// [Scheduler] calls [Scheduler.Spin] repeatedly; each Spin promotes ready
// Tasks from the waiting and await queues into the running queue, then
// dispatches the running Task with the earliest deadline. A dispatched
// Task runs until it next suspends (by awaiting something not yet ready)
// or finishes.
//
// [RealTimeTask] extends Task with a Schedule (ready time, deadline) and a
// [ScheduleStrategy] governing how the schedule advances after a
// NextCycle signal; [PeriodicStrategy] and [SoftPeriodicStrategy]
// implement fixed-period and drift-corrected periodic tasks.
//
// # Concurrency model
//
// The Scheduler is driven from a single goroutine; Scheduler.Add may be
// called from other goroutines (the Go rendering of "an interrupt handler
// calling add"), guarded by the configured [InterruptMask]. Fibers
// themselves run on their own parked goroutines -- see [Frame]'s doc
// comment for why that is the idiomatic Go rendering of a suspendable
// stack frame when the language has no stackful user coroutines.
//
// # Usage
//
//	sched, err := rtfiber.NewScheduler(rtfiber.WithCapacity(16))
//	if err != nil {
//		log.Fatal(err)
//	}
//	task := rtfiber.NewRealTimeTask("blink", nil, rtfiber.Schedule{}, nil,
//		func(ctx *rtfiber.Context) {
//			for {
//				toggleLED()
//				rtfiber.AwaitOn(ctx, rtfiber.NewDelay(10*time.Millisecond))
//			}
//		})
//	if err := sched.Add(task); err != nil {
//		log.Fatal(err)
//	}
//	for !sched.IsDone() {
//		sched.Spin()
//	}
//
// # Error types
//
// The package surfaces the error taxonomy named by the scheduling design:
// [CapacityExceededError], [AllocationFailureError], [BrokenPromiseError],
// [AlreadySetError], [InvalidStateError], and [FiberFaultError]. All
// implement [error] and, where applicable, errors.Unwrap.
package rtfiber
