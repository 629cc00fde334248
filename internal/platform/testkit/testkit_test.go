package testkit

import (
	"testing"
)

var stepHours = 6

func TestPanicHelpers(t *testing.T) {
	MustPanic(t, func() { panic("unknown body") })
	MustNotPanic(t, func() {})
	MustContain(t, "trine Sun Mars", "Mars")
}

func TestSwapRestores(t *testing.T) {
	t.Run("swapped", func(t *testing.T) {
		Swap(t, &stepHours, 24)
		if stepHours != 24 {
			t.Fatalf("stepHours = %d", stepHours)
		}
	})
	if stepHours != 6 {
		t.Fatalf("not restored: %d", stepHours)
	}
}

func TestSerialHoldsLockUntilCleanup(t *testing.T) {
	t.Run("first", func(t *testing.T) {
		Serial(t)
		if seamMu.TryLock() {
			seamMu.Unlock()
			t.Fatal("lock not held inside Serial")
		}
	})
	if !seamMu.TryLock() {
		t.Fatal("lock not released after cleanup")
	}
	seamMu.Unlock()
}
