package mem

import (
	"unsafe"

	"xunos/ioport"
)

// This file is the page-table mapper (§4.1: map/v2p). XUN-OS uses classic
// x86 32-bit non-PAE paging with the page directory's last entry recursively
// mapped to itself — the standard "recursive paging" trick that lets kernel
// code address any page table through a fixed, always-valid virtual window
// without a separate physical-memory direct map. The teacher instead builds
// a full direct map of all physical memory (mem/dmap.go's Dmap/Vdirect,
// sized for 64-bit's vast address space); a 32-bit address space has no room
// for that, so recursive mapping is the idiomatic 32-bit substitute taught
// throughout the bare-metal-Go retrieval pack's peers. Installing the
// initial recursive slot in the boot page directory is the out-of-scope
// boot-loader collaborator's job; everything here assumes it is already in
// place.

const (
	PTE_P Pa_t = 1 << 0 // present
	PTE_W Pa_t = 1 << 1 // writable
	PTE_U Pa_t = 1 << 2 // user-accessible
)

const (
	recursiveSlot = 1023
	pdVirt        = uintptr(0xFFFFF000)
	ptVirtBase    = uintptr(0xFFC00000)
)

type pagetable [1024]uint32

func pdirPtr() *pagetable {
	return (*pagetable)(unsafe.Pointer(pdVirt))
}

func ptblPtr(pdeIdx int) *pagetable {
	return (*pagetable)(unsafe.Pointer(ptVirtBase + uintptr(pdeIdx)*uintptr(PGSIZE)))
}

func pdeIndex(va uintptr) int { return int(va>>22) & 0x3FF }
func pteIndex(va uintptr) int { return int(va>>12) & 0x3FF }

func invalidate(vaddr uintptr) { ioport.Invlpg(vaddr) }

// Map installs a PTE mapping vaddr to paddr with the given permission flags
// (present|writable|user as appropriate), allocating a fresh, zeroed
// page-table frame from Kernel_pool if the governing PDE is absent (§4.1).
// Precondition: the target PTE is absent; Map panics on a double-map
// (programmer error, §4.1/§7).
func Map(vaddr uintptr, paddr Pa_t, flags Pa_t) {
	if vaddr&uintptr(PGOFFSET) != 0 || paddr&PGOFFSET != 0 {
		panic("map: unaligned address")
	}
	pdi := pdeIndex(vaddr)
	pd := pdirPtr()
	if pd[pdi]&uint32(PTE_P) == 0 {
		frame, ok := Kernel_pool.AllocFrame()
		if !ok {
			panic("map: out of memory for page table")
		}
		pd[pdi] = uint32(frame) | uint32(PTE_P|PTE_W|PTE_U)
		zeroRecursive(pdi)
	}
	pt := ptblPtr(pdi)
	pti := pteIndex(vaddr)
	if pt[pti]&uint32(PTE_P) != 0 {
		panic("map: double-map of already-present PTE")
	}
	pt[pti] = uint32(paddr) | uint32(flags|PTE_P)
	invalidate(vaddr)
}

// zeroRecursive clears a freshly allocated page table, reachable only
// through the recursive window now that its PDE has been installed.
func zeroRecursive(pdi int) {
	pt := ptblPtr(pdi)
	for i := range pt {
		pt[i] = 0
	}
}

// Unmap clears the PTE for vaddr, if present, and returns the physical
// frame it referenced (the caller owns returning that frame to its pool).
func Unmap(vaddr uintptr) (Pa_t, bool) {
	pdi := pdeIndex(vaddr)
	pd := pdirPtr()
	if pd[pdi]&uint32(PTE_P) == 0 {
		return 0, false
	}
	pt := ptblPtr(pdi)
	pti := pteIndex(vaddr)
	if pt[pti]&uint32(PTE_P) == 0 {
		return 0, false
	}
	old := Pa_t(pt[pti]) & PGMASK
	pt[pti] = 0
	invalidate(vaddr)
	return old, true
}

// V2p walks the active page tables and returns the physical address backing
// vaddr. The caller must guarantee the mapping is present (§4.1).
func V2p(vaddr uintptr) Pa_t {
	pdi := pdeIndex(vaddr)
	pd := pdirPtr()
	if pd[pdi]&uint32(PTE_P) == 0 {
		panic("v2p: PDE not present")
	}
	pt := ptblPtr(pdi)
	pti := pteIndex(vaddr)
	pte := pt[pti]
	if pte&uint32(PTE_P) == 0 {
		panic("v2p: PTE not present")
	}
	off := Pa_t(vaddr) & PGOFFSET
	return Pa_t(pte)&PGMASK | off
}
