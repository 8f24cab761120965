package rtfiber

import "testing"

func TestFuturePromiseHandoff(t *testing.T) {
	f, p := NewFuturePromise[int]()
	if !f.ConnectedTo(p) {
		t.Fatal("freshly paired Future/Promise must be connected")
	}
	if f.Ready() {
		t.Fatal("Future must not be Ready before Set")
	}

	if err := p.Set(55); err != nil {
		t.Fatalf("Set() = %v, want nil", err)
	}
	if !f.Ready() {
		t.Fatal("Future must be Ready after Set")
	}
	v, ok := f.ResumeValue()
	if !ok || v != 55 {
		t.Errorf("ResumeValue() = (%d, %v), want (55, true)", v, ok)
	}
}

func TestPromiseSetTwiceFails(t *testing.T) {
	_, p := NewFuturePromise[int]()
	if err := p.Set(1); err != nil {
		t.Fatalf("first Set() = %v, want nil", err)
	}
	err := p.Set(2)
	if _, ok := err.(AlreadySetError); !ok {
		t.Errorf("second Set() = %v, want AlreadySetError", err)
	}
}

func TestBrokenPromise(t *testing.T) {
	f, p := NewFuturePromise[string]()
	p.Drop()

	if !f.Ready() {
		t.Fatal("Future must be Ready once its Promise is dropped")
	}
	_, ok := f.ResumeValue()
	if ok {
		t.Fatal("ResumeValue() ok must be false for a broken cell")
	}
	_, err := f.Get()
	if _, isBroken := err.(BrokenPromiseError); !isBroken {
		t.Errorf("Get() err = %v, want BrokenPromiseError", err)
	}
}

func TestDropIsIdempotent(t *testing.T) {
	_, p := NewFuturePromise[int]()
	p.Drop()
	p.Drop() // must not panic
}

func TestMoveSemantics(t *testing.T) {
	f, p := NewFuturePromise[int]()
	f2 := f.Move()
	if !f.Moved() {
		t.Fatal("original Future must report Moved after Move")
	}
	if !f2.ConnectedTo(p) {
		t.Fatal("moved-to Future must remain connected to the Promise")
	}

	defer func() {
		if recover() == nil {
			t.Fatal("second Move of an already-moved Future must panic")
		}
	}()
	f.Move()
}

func TestFutureAwaitableSatisfiesAwaitable(t *testing.T) {
	var _ Awaitable[int] = futureAwaitable[int]{}
}

func TestAwaitFutureSuspendsUntilSet(t *testing.T) {
	f, p := NewFuturePromise[int]()
	var got int
	var ok bool

	task := NewTask("t", nil, func(ctx *Context) {
		got, ok = AwaitFuture(ctx, f)
	})

	task.Resume()
	if task.IsDone() {
		t.Fatal("Task must suspend until the Future resolves")
	}

	if err := p.Set(55); err != nil {
		t.Fatalf("Set() = %v, want nil", err)
	}
	if !task.IsResumable() {
		t.Fatal("Task must be resumable once the awaited Future is Ready")
	}
	task.Resume()

	if !task.IsDone() {
		t.Fatal("Task must complete once the Future resolves")
	}
	if !ok || got != 55 {
		t.Errorf("AwaitFuture() = (%d, %v), want (55, true)", got, ok)
	}
}

func TestAwaitFutureOnBrokenPromise(t *testing.T) {
	f, p := NewFuturePromise[int]()
	var ok bool

	task := NewTask("t", nil, func(ctx *Context) {
		_, ok = AwaitFuture(ctx, f)
	})
	task.Resume()
	p.Drop()
	if !task.IsResumable() {
		t.Fatal("Task must be resumable once the Promise is dropped")
	}
	task.Resume()

	if !task.IsDone() {
		t.Fatal("Task must complete once the Future breaks")
	}
	if ok {
		t.Error("AwaitFuture() ok must be false for a broken cell")
	}
}

func TestMoveOfAlreadyMovedPromisePanics(t *testing.T) {
	_, p := NewFuturePromise[int]()
	p.Move()

	defer func() {
		if recover() == nil {
			t.Fatal("second Move of an already-moved Promise must panic")
		}
	}()
	p.Move()
}
