package rtfiber

import (
	"testing"
)

func TestTaskRunsToCompletion(t *testing.T) {
	var proof int
	task := NewTask("t", nil, func(ctx *Context) {
		proof = 258
	})
	if task.IsDone() {
		t.Fatal("Task must not be done before its first Resume")
	}
	task.Resume()
	if !task.IsDone() {
		t.Fatal("Task must be done after its body returns")
	}
	if proof != 258 {
		t.Errorf("proof = %d, want 258", proof)
	}
	if task.Fault() != nil {
		t.Errorf("Fault() = %v, want nil", task.Fault())
	}
}

func TestTaskAwaitSuspendsAndResumes(t *testing.T) {
	var trace []int
	d := NewDelay(0)
	task := NewTask("t", nil, func(ctx *Context) {
		trace = append(trace, 1)
		AwaitOn(ctx, d)
		trace = append(trace, 2)
	})

	task.Resume()
	if task.IsDone() {
		t.Fatal("Task must suspend on Delay before completing")
	}
	sig := task.GetSignal()
	if sig.Kind != SignalImplicitDelay {
		t.Errorf("GetSignal().Kind = %v, want SignalImplicitDelay", sig.Kind)
	}
	if !task.IsResumable() {
		t.Fatal("a latched Delay must report the Task resumable")
	}

	task.Resume()
	if !task.IsDone() {
		t.Fatal("Task must be done after resuming past the Delay")
	}
	if len(trace) != 2 || trace[0] != 1 || trace[1] != 2 {
		t.Errorf("trace = %v, want [1 2]", trace)
	}
}

func TestGetSignalConsumedOnce(t *testing.T) {
	task := NewTask("t", nil, func(ctx *Context) {
		AwaitOn(ctx, NewDelay(0))
	})
	task.Resume()
	if k := task.GetSignal().Kind; k != SignalImplicitDelay {
		t.Fatalf("first GetSignal().Kind = %v, want SignalImplicitDelay", k)
	}
	if k := task.GetSignal().Kind; k != SignalNone {
		t.Fatalf("second GetSignal().Kind = %v, want SignalNone", k)
	}
}

func TestTaskFaultRecorded(t *testing.T) {
	task := NewTask("t", nil, func(ctx *Context) {
		panic("boom")
	})
	task.Resume()
	if !task.IsDone() {
		t.Fatal("a panicking Task must still settle to done")
	}
	fault, ok := task.Fault().(FiberFaultError)
	if !ok {
		t.Fatalf("Fault() = %v, want FiberFaultError", task.Fault())
	}
	if fault.Cause != "boom" {
		t.Errorf("fault.Cause = %v, want %q", fault.Cause, "boom")
	}
}

func TestDestroyBeforeFirstResumeDoesNotLeak(t *testing.T) {
	ran := false
	task := NewTask("t", nil, func(ctx *Context) {
		ran = true
	})
	task.Destroy()
	if !task.IsDone() {
		t.Fatal("Destroy must mark the Task done")
	}
	if ran {
		t.Fatal("generator body must never run if destroyed before first Resume")
	}
	task.Destroy() // idempotent, must not block or panic
}

func TestDestroyWhileSuspendedDoesNotLeak(t *testing.T) {
	ran := make(chan struct{})
	task := NewTask("t", nil, func(ctx *Context) {
		AwaitOn(ctx, NewDelay(0))
		close(ran)
	})
	task.Resume()
	if task.IsDone() {
		t.Fatal("Task must be suspended on the Delay, not done")
	}

	task.Destroy()
	if !task.IsDone() {
		t.Fatal("Destroy must mark the Task done")
	}
	select {
	case <-ran:
		t.Fatal("generator body must not resume past a Destroy-induced kill")
	default:
	}
}

func TestResumeOfNonResumablePanics(t *testing.T) {
	task := NewTask("t", nil, func(ctx *Context) {})
	task.Resume()
	defer func() {
		if recover() == nil {
			t.Fatal("Resume on a done Task must panic")
		}
	}()
	task.Resume()
}
