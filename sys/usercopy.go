package sys

import (
	"unsafe"

	"xunos/defs"
)

// userBytes views the n bytes starting at the flat address addr as a Go
// byte slice. Every page a user process touches is identity-mapped into
// a real Go-addressable allocation the same way sched.Spawn and heap.Alloc
// place their own structures (§9's kernel-heap/TCB placement convention),
// so a raw unsafe.Pointer cast is the correct translation here rather than
// a page-table walk: there is no separate host/guest address space to
// bridge.
func userBytes(addr uint32, n uint32) []byte {
	if addr == 0 || n == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(uintptr(addr))), int(n))
}

// userString reads a NUL-terminated string starting at addr, capped at
// defs.PATH_MAX bytes (§6: syscalls taking a path argument never read
// past that bound).
func userString(addr uint32) string {
	if addr == 0 {
		return ""
	}
	raw := unsafe.Slice((*byte)(unsafe.Pointer(uintptr(addr))), defs.PATH_MAX)
	n := 0
	for n < defs.PATH_MAX && raw[n] != 0 {
		n++
	}
	return string(raw[:n])
}
