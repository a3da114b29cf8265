// Package mem implements the physical/virtual memory manager (§2.4, §4.1):
// the kernel and user physical frame pools, the kernel and per-process
// virtual address pools, the page-table mapper, and v2p address translation.
// The kernel heap (arena + size-class slab) lives in the sibling heap
// package, which is built entirely on top of this one's AllocKernelPages.
//
// Grounded on the teacher's mem/mem.go (Physmem_t: a pool owning a bitmap of
// free frames, guarded by its own mutex, exposing Refpg_new/Refdown-style
// alloc/free) and mem/dmap.go (the page-table-walking helpers pgbits/mkpg).
// The teacher's pool is refcounted and free-list-threaded to support COW and
// multi-CPU per-CPU caches — both Non-goals here — so XUN-OS's Pool_t is a
// plain bitmap.Bitmap_t instead, matching spec §3's literal "a bit is set
// iff the frame is owned" invariant exactly.
package mem

import (
	"fmt"
	"sync"

	"xunos/bitmap"
	"xunos/defs"
)

// Pa_t is a physical address, named after the teacher's mem.Pa_t.
type Pa_t uintptr

const (
	PGSHIFT uint    = 12
	PGSIZE  int     = 1 << PGSHIFT
	PGOFFSET Pa_t   = 0xFFF
	PGMASK   Pa_t   = ^PGOFFSET
)

// Pool_t is one physical frame pool: a base address plus a page-granular
// bitmap, one bit per 4 KiB frame (§3).
type Pool_t struct {
	sync.Mutex
	base   Pa_t
	bits   *bitmap.Bitmap_t
	nframe int
}

func newPool(base Pa_t, nframe int) *Pool_t {
	return &Pool_t{base: base, bits: bitmap.New(nframe), nframe: nframe}
}

// AllocFrame reserves and returns one physical frame from the pool.
func (p *Pool_t) AllocFrame() (Pa_t, bool) {
	idx, ok := p.bits.AllocOne()
	if !ok {
		return 0, false
	}
	return p.base + Pa_t(idx)*Pa_t(PGSIZE), true
}

// FreeFrame releases a previously allocated frame back to the pool.
func (p *Pool_t) FreeFrame(pa Pa_t) {
	idx := int((pa - p.base) / Pa_t(PGSIZE))
	p.bits.Free(idx)
}

// Used reports how many frames are currently allocated — the left side of
// the bitmap/pool consistency invariant (spec §8.1).
func (p *Pool_t) Used() int {
	return p.bits.Count()
}

// Nframes returns the total capacity of the pool.
func (p *Pool_t) Nframes() int {
	return p.nframe
}

const (
	kernelReservedBytes = 2 << 20 // low 1MB boot area + 1MB of page tables (§4.1)
)

var (
	// Kernel_pool and User_pool are the two disjoint physical regions
	// named in §3. They are package-level globals, matching the teacher's
	// single `var Physmem = &Physmem_t{}` global and design note §9's
	// acknowledgment that a faithful port keeps this global-state shape.
	Kernel_pool *Pool_t
	User_pool   *Pool_t

	// KernelPageDir is the physical address of the page directory the
	// (out-of-scope) boot collaborator already built and activated before
	// handing off to Go code — filled in the same way as BiosMemKB below,
	// by reading CR3 once at boot, since capturing it is itself a boot-time
	// side effect this package does not perform. proc.Activate reloads CR3
	// with this value for kernel tasks so a switch away from a user task's
	// address space always lands back on the real kernel page directory,
	// never physical address 0.
	KernelPageDir Pa_t
)

// BiosMemKB is filled in by the boot collaborator from the BIOS-reserved
// memory-size location (§4.1: "total physical memory is read from a
// BIOS-reserved location at boot"); it is a variable rather than a function
// call because reading that location is itself a boot-time side effect this
// package does not perform.
var BiosMemKB int

// PhysInit splits the machine's physical memory, less the kernel's 2 MiB
// reservation, evenly between Kernel_pool and User_pool (§4.1).
func PhysInit() {
	if BiosMemKB <= 0 {
		panic("BiosMemKB not set before PhysInit")
	}
	totalBytes := BiosMemKB * 1024
	usable := totalBytes - kernelReservedBytes
	if usable <= 0 {
		panic("not enough physical memory")
	}
	half := usable / 2
	nframesEach := half / PGSIZE
	if nframesEach == 0 {
		panic("not enough physical memory for two pools")
	}
	kbase := Pa_t(kernelReservedBytes)
	ubase := kbase + Pa_t(nframesEach*PGSIZE)
	Kernel_pool = newPool(kbase, nframesEach)
	User_pool = newPool(ubase, nframesEach)
	fmt.Printf("mem: %d KB total, %d frames/pool\n", BiosMemKB, nframesEach)
}

// ErrOOM reports allocator exhaustion (§4.1: "Fails with OutOfMemory").
var ErrOOM = defs.ENOMEM
