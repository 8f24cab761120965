package rtfiber

import (
	"testing"

	"github.com/tobiaswallner/rtfiber/bumpalloc"
)

func TestFrameChainLIFOWithArena(t *testing.T) {
	arena := bumpalloc.NewArena(256)

	var order []string
	var childName, rootNameAfter, parentName string
	var childLocalsLen int
	var enterErr error

	task := NewTask("root", arena, func(ctx *Context) {
		order = append(order, "root")
		enterErr = ctx.Enter("child", 16, func(ctx *Context) {
			order = append(order, "child")
			childName = ctx.Leaf().Name()
			childLocalsLen = len(ctx.Leaf().Locals())
			parentName = ctx.Leaf().Parent().Name()
		})
		rootNameAfter = ctx.Leaf().Name()
	})
	task.Resume()

	if !task.IsDone() {
		t.Fatal("task must complete")
	}
	if enterErr != nil {
		t.Fatalf("Enter() = %v, want nil", enterErr)
	}
	if childName != "child" {
		t.Errorf("child Leaf().Name() = %q, want %q", childName, "child")
	}
	if childLocalsLen != 16 {
		t.Errorf("len(Locals()) = %d, want 16", childLocalsLen)
	}
	if parentName != "root" {
		t.Errorf("child Leaf().Parent().Name() = %q, want %q", parentName, "root")
	}
	if rootNameAfter != "root" {
		t.Errorf("after Enter returns, Leaf().Name() = %q, want %q", rootNameAfter, "root")
	}
	if got := arena.Remaining(); got != 256 {
		t.Errorf("arena.Remaining() = %d, want 256 (every Frame released)", got)
	}
	want := []string{"root", "child"}
	for i, w := range want {
		if i >= len(order) || order[i] != w {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

func TestFrameAllocationFailurePropagates(t *testing.T) {
	arena := bumpalloc.NewArena(4)
	var enterErr error
	bodyRan := false
	task := NewTask("root", arena, func(ctx *Context) {
		enterErr = ctx.Enter("too-big", 64, func(ctx *Context) {
			bodyRan = true
		})
	})
	task.Resume()
	if !task.IsDone() {
		t.Fatal("task must complete even if a nested Enter fails")
	}
	if enterErr == nil {
		t.Error("Enter() should fail when the arena is too small")
	}
	if bodyRan {
		t.Error("Enter body must not run when allocation fails")
	}
}
