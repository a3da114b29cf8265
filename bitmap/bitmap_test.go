package bitmap

import "testing"

func TestAllocOneFillsInOrder(t *testing.T) {
	b := New(8)
	for i := 0; i < 8; i++ {
		idx, ok := b.AllocOne()
		if !ok || idx != i {
			t.Fatalf("alloc %d: got (%d, %v)", i, idx, ok)
		}
	}
	if _, ok := b.AllocOne(); ok {
		t.Fatal("expected bitmap full")
	}
	if b.Count() != 8 {
		t.Fatalf("count = %d, want 8", b.Count())
	}
}

func TestFreeMakesBitAvailableAgain(t *testing.T) {
	b := New(4)
	idx, _ := b.AllocOne()
	b.Free(idx)
	if b.Test(idx) {
		t.Fatal("bit still set after Free")
	}
	if b.Count() != 0 {
		t.Fatalf("count = %d, want 0", b.Count())
	}
}

func TestAllocRangeFindsContiguousRun(t *testing.T) {
	b := New(16)
	b.Set(0)
	b.Set(1)
	idx, ok := b.AllocRange(4)
	if !ok || idx != 2 {
		t.Fatalf("got (%d, %v), want (2, true)", idx, ok)
	}
	for i := 2; i < 6; i++ {
		if !b.Test(i) {
			t.Fatalf("bit %d not set after AllocRange", i)
		}
	}
}

func TestAllocRangeFailsWhenNoRunFits(t *testing.T) {
	b := New(4)
	b.Set(1)
	if _, ok := b.AllocRange(3); ok {
		t.Fatal("expected no 3-bit run to fit in a 4-bit map with bit 1 set")
	}
}

func TestFreeRangeClearsWholeRun(t *testing.T) {
	b := New(8)
	idx, _ := b.AllocRange(4)
	b.FreeRange(idx, 4)
	if b.Count() != 0 {
		t.Fatalf("count = %d, want 0 after FreeRange", b.Count())
	}
}

func TestBytesRoundTrip(t *testing.T) {
	b := New(32)
	b.Set(0)
	b.Set(17)
	b.Set(31)
	b2 := FromBytes(b.Bytes(), 32)
	for _, i := range []int{0, 17, 31} {
		if !b2.Test(i) {
			t.Fatalf("bit %d lost across Bytes/FromBytes round trip", i)
		}
	}
	if b2.Count() != 3 {
		t.Fatalf("count = %d, want 3", b2.Count())
	}
}

func TestOutOfRangeIndexPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on out-of-range index")
		}
	}()
	b := New(4)
	b.Set(4)
}
