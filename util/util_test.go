package util

import "testing"

func TestMinMax(t *testing.T) {
	if Min(3, 5) != 3 {
		t.Fatal("Min(3,5) != 3")
	}
	if Max(3, 5) != 5 {
		t.Fatal("Max(3,5) != 5")
	}
	if Min(uint32(7), uint32(2)) != 2 {
		t.Fatal("Min over uint32 failed")
	}
}

func TestRounddownRoundup(t *testing.T) {
	if Rounddown(13, 4) != 12 {
		t.Fatalf("Rounddown(13,4) = %d, want 12", Rounddown(13, 4))
	}
	if Roundup(13, 4) != 16 {
		t.Fatalf("Roundup(13,4) = %d, want 16", Roundup(13, 4))
	}
	if Roundup(12, 4) != 12 {
		t.Fatalf("Roundup(12,4) = %d, want 12 (already aligned)", Roundup(12, 4))
	}
	if Rounddown(uintptr(0x1234), uintptr(0x1000)) != 0x1000 {
		t.Fatal("Rounddown over uintptr failed")
	}
}

func TestReadnWritenRoundTrip(t *testing.T) {
	buf := make([]byte, 16)
	Writen(buf, 4, 0, 0xDEADBEEF)
	if got := Readn(buf, 4, 0); got != int(uint32(0xDEADBEEF)) {
		t.Fatalf("4-byte round trip: got %#x", got)
	}
	Writen(buf, 2, 4, 0xBEEF)
	if got := Readn(buf, 2, 4); got != 0xBEEF {
		t.Fatalf("2-byte round trip: got %#x", got)
	}
	Writen(buf, 1, 6, 0xAB)
	if got := Readn(buf, 1, 6); got != 0xAB {
		t.Fatalf("1-byte round trip: got %#x", got)
	}
}

func TestReadnOutOfBoundsPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on out-of-bounds Readn")
		}
	}()
	Readn(make([]byte, 4), 4, 2)
}
