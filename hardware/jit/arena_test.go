package jit

import "testing"

func TestAcquireReleaseRefCounts(t *testing.T) {
	a := &Arena{plat: newPlatform(), freeMask: (1 << sliceCount) - 1}

	if err := a.Acquire(); err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if err := a.Acquire(); err != nil {
		t.Fatalf("second Acquire: %v", err)
	}
	if a.refCount != 2 {
		t.Fatalf("refCount = %d, want 2", a.refCount)
	}

	a.Release()
	if a.refCount != 1 {
		t.Fatalf("refCount after one Release = %d, want 1", a.refCount)
	}
	a.Release()
	if a.refCount != 0 {
		t.Fatalf("refCount after final Release = %d, want 0", a.refCount)
	}
}

func TestAllocSliceExhaustionReturnsFalse(t *testing.T) {
	a := &Arena{plat: newPlatform(), freeMask: (1 << sliceCount) - 1}
	if err := a.Acquire(); err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	defer a.Release()

	var handles []Handle
	for i := 0; i < sliceCount; i++ {
		h, ok := a.AllocSlice()
		if !ok {
			t.Fatalf("slice %d: expected allocation to succeed", i)
		}
		handles = append(handles, h)
	}

	if _, ok := a.AllocSlice(); ok {
		t.Fatal("expected allocation to fail once all slices are taken")
	}

	a.FreeSlice(handles[0])
	if _, ok := a.AllocSlice(); !ok {
		t.Fatal("expected allocation to succeed again after a FreeSlice")
	}
}
