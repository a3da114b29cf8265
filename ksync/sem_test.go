package ksync

import "testing"

// Down only blocks when value == 0, which would require a live scheduler
// (sched.Block/Unblock, in turn switchTo's assembly) to exercise safely.
// The uncontended fast path — and the conservation property it must
// maintain (value + |waiters| invariant, §8.6) — needs no scheduler at
// all, so that is what is covered here.

func TestUpIncrementsUncontendedValue(t *testing.T) {
	s := NewSem(0)
	s.Up()
	s.Up()
	if s.Value() != 2 {
		t.Fatalf("value = %d, want 2", s.Value())
	}
	if s.Waiters() != 0 {
		t.Fatalf("waiters = %d, want 0", s.Waiters())
	}
}

func TestDownDecrementsWhenAlreadyAvailable(t *testing.T) {
	s := NewSem(3)
	s.Down()
	s.Down()
	if s.Value() != 1 {
		t.Fatalf("value = %d, want 1", s.Value())
	}
}

func TestConservationAcrossMatchedUpDown(t *testing.T) {
	s := NewSem(5)
	for i := 0; i < 5; i++ {
		s.Down()
	}
	if s.Value() != 0 {
		t.Fatalf("value = %d, want 0 after draining initial permits", s.Value())
	}
	for i := 0; i < 5; i++ {
		s.Up()
	}
	if s.Value() != 5 {
		t.Fatalf("value = %d, want 5 after returning every permit", s.Value())
	}
}
