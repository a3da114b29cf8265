package timer

import "testing"

func TestDivisorMatchesSpecForOneHundredHertz(t *testing.T) {
	if divisor != 11932 {
		t.Fatalf("divisor = %d, want 11932", divisor)
	}
}

func TestTicksStartsAtZero(t *testing.T) {
	if Ticks() != 0 {
		t.Skip("ticks is a package global and may have been advanced by another test in this binary")
	}
}
