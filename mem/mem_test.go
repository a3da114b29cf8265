package mem

import "testing"

func TestPoolAllocFreeConsistency(t *testing.T) {
	p := newPool(0x100000, 4)
	var got []Pa_t
	for i := 0; i < 4; i++ {
		pa, ok := p.AllocFrame()
		if !ok {
			t.Fatalf("alloc %d failed", i)
		}
		got = append(got, pa)
	}
	if p.Used() != 4 {
		t.Fatalf("used = %d, want 4", p.Used())
	}
	if _, ok := p.AllocFrame(); ok {
		t.Fatal("expected pool exhausted")
	}
	for _, pa := range got {
		p.FreeFrame(pa)
	}
	if p.Used() != 0 {
		t.Fatalf("used = %d, want 0 after freeing every frame", p.Used())
	}
}

func TestPoolFramesAreFrameAligned(t *testing.T) {
	p := newPool(0x100000, 4)
	for i := 0; i < 4; i++ {
		pa, _ := p.AllocFrame()
		if pa&PGOFFSET != 0 {
			t.Fatalf("frame %#x is not page-aligned", pa)
		}
	}
}

func TestPhysInitPanicsWithoutBiosMemKB(t *testing.T) {
	saved := BiosMemKB
	defer func() { BiosMemKB = saved }()
	BiosMemKB = 0
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic when BiosMemKB is unset")
		}
	}()
	PhysInit()
}

func TestPhysInitSplitsMemoryEvenly(t *testing.T) {
	saved := BiosMemKB
	defer func() { BiosMemKB = saved }()
	BiosMemKB = 16 * 1024 // 16 MiB
	PhysInit()
	if Kernel_pool.Nframes() != User_pool.Nframes() {
		t.Fatalf("pools not split evenly: kernel=%d user=%d",
			Kernel_pool.Nframes(), User_pool.Nframes())
	}
	if Kernel_pool.Nframes() == 0 {
		t.Fatal("expected a non-empty kernel pool")
	}
}
