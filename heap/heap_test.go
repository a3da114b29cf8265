package heap

import "testing"

// Alloc/Free themselves need a live page directory (mem.AllocKernelPages
// walks the recursive-mapping window set up by the out-of-scope boot
// collaborator), so they cannot run outside real or emulated hardware —
// the same boundary mem/paging.go sits behind. What's pure Go here —
// class dispatch and arena-recovery arithmetic — is covered below,
// exercising the testable property from spec §8.1 (arena class dispatch).

func TestClassForPicksSmallestFittingClass(t *testing.T) {
	cases := []struct {
		size int
		want int
	}{
		{1, 16}, {16, 16}, {17, 32}, {64, 64}, {65, 128},
		{1000, 1024}, {1024, 1024},
	}
	for _, c := range cases {
		got := classSizes[classFor(c.size)]
		if got != c.want {
			t.Errorf("classFor(%d) = %d, want %d", c.size, got, c.want)
		}
	}
}

func TestClassForPanicsAboveLargeThreshold(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for size above largeThreshold")
		}
	}()
	classFor(largeThreshold + 1)
}

func TestBlocksPerArenaFitsWithinOnePage(t *testing.T) {
	for _, sz := range classSizes {
		n := blocksPerArena(sz)
		if n <= 0 {
			t.Fatalf("blockSize %d: non-positive block count", sz)
		}
		used := int(headerSize) + n*sz
		if used > 4096 {
			t.Fatalf("blockSize %d: arena overflows one page (%d bytes)", sz, used)
		}
	}
}

func TestArenaOfMasksToPageBoundary(t *testing.T) {
	const page = 0x12345000
	for _, off := range []uintptr{0, 16, 4095} {
		got := arenaOf(page + off)
		want := arenaOf(page)
		if got != want {
			t.Fatalf("arenaOf(%#x) != arenaOf(%#x): offsets into the same page must share an arena", page+off, page)
		}
	}
}
