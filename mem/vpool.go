package mem

import (
	"sync"

	"xunos/bitmap"
	"xunos/util"
)

// Vpool_t is a virtual address pool: a starting virtual address plus a
// page-granular bitmap (§3). The kernel has exactly one, shared across the
// whole system; each user task owns a private one.
type Vpool_t struct {
	sync.Mutex
	Base  uintptr
	bits  *bitmap.Bitmap_t
	limit uintptr // one past the highest allocatable address, 0 = unbounded
}

// NewVpool creates a pool spanning npages pages starting at base.
func NewVpool(base uintptr, npages int) *Vpool_t {
	return &Vpool_t{Base: base, bits: bitmap.New(npages)}
}

// KVASTART is the kernel virtual pool's starting address (§3).
const KVASTART uintptr = 0xC0100000

// UVASTART is the starting address of every user task's private virtual
// pool (§3).
const UVASTART uintptr = 0x08048000

// UVALIMIT bounds user allocations: "Must not exceed 0xC0000000 - 4 KiB"
// (§4.1).
const UVALIMIT uintptr = 0xC0000000 - uintptr(PGSIZE)

// Kernel_vpool is the single shared kernel virtual address pool (§3, §9's
// `kernel_vaddr` global).
var Kernel_vpool *Vpool_t

// VpoolInit sizes Kernel_vpool at four virtual pages per Kernel_pool frame,
// so it must be called after PhysInit.
func VpoolInit() {
	if Kernel_pool == nil {
		panic("PhysInit must run before VpoolInit")
	}
	Kernel_vpool = NewVpool(KVASTART, Kernel_pool.Nframes()*4)
}

// NewUserVpool allocates a fresh per-task user virtual pool, sized to the
// maximum a single user address space could ever need between UVASTART and
// UVALIMIT.
func NewUserVpool() *Vpool_t {
	npages := int((UVALIMIT - UVASTART) / uintptr(PGSIZE))
	return NewVpool(UVASTART, npages)
}

// AllocPages reserves n contiguous pages from the pool and returns the
// starting virtual address.
func (v *Vpool_t) AllocPages(n int) (uintptr, bool) {
	idx, ok := v.bits.AllocRange(n)
	if !ok {
		return 0, false
	}
	va := v.Base + uintptr(idx)*uintptr(PGSIZE)
	if v.limit != 0 && va+uintptr(n)*uintptr(PGSIZE) > v.limit {
		v.bits.FreeRange(idx, n)
		return 0, false
	}
	return va, true
}

// FreePages releases n contiguous pages starting at va.
func (v *Vpool_t) FreePages(va uintptr, n int) {
	idx := int(util.Rounddown(va-v.Base, uintptr(PGSIZE)) / uintptr(PGSIZE))
	v.bits.FreeRange(idx, n)
}
