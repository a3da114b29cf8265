package mem

import (
	"unsafe"

	"xunos/defs"
)

// AllocKernelPages allocates n contiguous virtual pages from Kernel_vpool,
// backs each with a (not necessarily contiguous) physical frame from
// Kernel_pool, installs the mappings, zeroes the region, and returns the
// starting virtual address. Fails with ErrOOM if either pool is exhausted
// (§4.1).
func AllocKernelPages(n int) (uintptr, defs.Err_t) {
	return allocPages(Kernel_vpool, Kernel_pool, n, PTE_W)
}

// AllocUserPages is AllocKernelPages against the running task's own user
// virtual pool and the shared user frame pool; vp must not exceed UVALIMIT
// (§4.1), which NewUserVpool's sizing already guarantees.
func AllocUserPages(vp *Vpool_t, n int) (uintptr, defs.Err_t) {
	return allocPages(vp, User_pool, n, PTE_W|PTE_U)
}

func allocPages(vp *Vpool_t, pool *Pool_t, n int, flags Pa_t) (uintptr, defs.Err_t) {
	va, ok := vp.AllocPages(n)
	if !ok {
		return 0, ErrOOM
	}
	frames := make([]Pa_t, 0, n)
	for i := 0; i < n; i++ {
		pa, ok := pool.AllocFrame()
		if !ok {
			for _, f := range frames {
				pool.FreeFrame(f)
			}
			vp.FreePages(va, n)
			return 0, ErrOOM
		}
		frames = append(frames, pa)
	}
	for i, pa := range frames {
		Map(va+uintptr(i*PGSIZE), pa, flags)
	}
	zeroRegion(va, n)
	return va, 0
}

func zeroRegion(va uintptr, n int) {
	buf := unsafe.Slice((*byte)(unsafe.Pointer(va)), n*PGSIZE)
	for i := range buf {
		buf[i] = 0
	}
}

// FreeKernelPages unmaps and releases n pages starting at va back to
// Kernel_vpool/Kernel_pool.
func FreeKernelPages(va uintptr, n int) {
	freePages(Kernel_vpool, Kernel_pool, va, n)
}

// FreeUserPages is FreeKernelPages against a user task's own virtual pool.
func FreeUserPages(vp *Vpool_t, va uintptr, n int) {
	freePages(vp, User_pool, va, n)
}

func freePages(vp *Vpool_t, pool *Pool_t, va uintptr, n int) {
	for i := 0; i < n; i++ {
		pa, ok := Unmap(va + uintptr(i*PGSIZE))
		if ok {
			pool.FreeFrame(pa)
		}
	}
	vp.FreePages(va, n)
}
