package mem

import "testing"

func TestVpoolAllocPagesReturnsPageAlignedAscendingRuns(t *testing.T) {
	v := NewVpool(0x40000000, 16)
	va1, ok := v.AllocPages(3)
	if !ok {
		t.Fatal("alloc 1 failed")
	}
	va2, ok := v.AllocPages(2)
	if !ok {
		t.Fatal("alloc 2 failed")
	}
	if va2 != va1+3*uintptr(PGSIZE) {
		t.Fatalf("second allocation not contiguous after first: va1=%#x va2=%#x", va1, va2)
	}
}

func TestVpoolFreePagesAllowsReuse(t *testing.T) {
	v := NewVpool(0x40000000, 4)
	va, _ := v.AllocPages(4)
	if _, ok := v.AllocPages(1); ok {
		t.Fatal("expected pool exhausted before freeing")
	}
	v.FreePages(va, 4)
	if _, ok := v.AllocPages(4); !ok {
		t.Fatal("expected pages available again after FreePages")
	}
}

func TestUserVpoolStaysWithinUVALIMIT(t *testing.T) {
	v := NewUserVpool()
	if v.Base != UVASTART {
		t.Fatalf("base = %#x, want %#x", v.Base, UVASTART)
	}
	npages := int((UVALIMIT - UVASTART) / uintptr(PGSIZE))
	va, ok := v.AllocPages(npages)
	if !ok {
		t.Fatal("expected full-size allocation to fit exactly")
	}
	if va+uintptr(npages*PGSIZE) > UVALIMIT {
		t.Fatal("user vpool allocation exceeds UVALIMIT")
	}
	if _, ok := v.AllocPages(1); ok {
		t.Fatal("expected no room left past UVALIMIT")
	}
}
