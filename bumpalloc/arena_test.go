package bumpalloc

import "testing"

func TestArenaAllocateAdvancesOffset(t *testing.T) {
	a := NewArena(64)
	b, err := a.Allocate(16, 8)
	if err != nil {
		t.Fatalf("Allocate() = %v, want nil", err)
	}
	if len(b) != 16 {
		t.Fatalf("len(b) = %d, want 16", len(b))
	}
	if got := a.Remaining(); got != 48 {
		t.Errorf("Remaining() = %d, want 48", got)
	}
}

func TestArenaDeallocateNonTopmostIsIgnored(t *testing.T) {
	a := NewArena(64)
	first, _ := a.Allocate(16, 8)
	_, _ = a.Allocate(16, 8)

	if got := a.Remaining(); got != 32 {
		t.Fatalf("Remaining() after two allocations = %d, want 32", got)
	}

	// Deallocating the first (non-topmost) block is a caller error this
	// method silently ignores rather than corrupting the arena.
	a.Deallocate(first)
	if got := a.Remaining(); got != 32 {
		t.Errorf("Remaining() after deallocating a non-topmost block = %d, want unchanged 32", got)
	}
}

func TestArenaDeallocateTopmostReclaims(t *testing.T) {
	a := NewArena(64)
	_, _ = a.Allocate(16, 8)
	second, _ := a.Allocate(16, 8)

	a.Deallocate(second)
	if got := a.Remaining(); got != 48 {
		t.Errorf("Remaining() after popping the topmost block = %d, want 48", got)
	}
}

func TestArenaExhaustion(t *testing.T) {
	a := NewArena(8)
	_, err := a.Allocate(16, 8)
	if err == nil {
		t.Fatal("Allocate() beyond capacity must fail")
	}
	afe, ok := err.(allocationFailureError)
	if !ok {
		t.Fatalf("err = %T, want allocationFailureError", err)
	}
	if afe.Requested != 16 {
		t.Errorf("Requested = %d, want 16", afe.Requested)
	}
	if afe.Remaining != 8 {
		t.Errorf("Remaining = %d, want 8", afe.Remaining)
	}
}

func TestArenaAlignment(t *testing.T) {
	a := NewArena(64)
	if _, err := a.Allocate(1, 1); err != nil { // unalign the offset
		t.Fatalf("Allocate() = %v, want nil", err)
	}
	if _, err := a.Allocate(8, 8); err != nil {
		t.Fatalf("Allocate() = %v, want nil", err)
	}
	// 1 byte consumed, then padding to the next 8-byte boundary, then 8
	// more bytes: at least 15 bytes gone, strictly more than the 9 bytes
	// the two requests would need without alignment.
	if got := a.Remaining(); got > 64-15 {
		t.Errorf("Remaining() = %d, expected padding to have been consumed for alignment", got)
	}
}

func TestArenaReset(t *testing.T) {
	a := NewArena(32)
	_, _ = a.Allocate(16, 8)
	a.Reset()
	if got := a.Remaining(); got != 32 {
		t.Errorf("Remaining() after Reset = %d, want 32 (full capacity)", got)
	}
}
