package irq

import (
	"unsafe"

	"xunos/defs"
	"xunos/ioport"
)

// idtEntry is one 8-byte x86 protected-mode interrupt-gate descriptor.
type idtEntry struct {
	offsetLow  uint16
	selector   uint16
	zero       uint8
	typeAttr   uint8
	offsetHigh uint16
}

// idt holds the IDT_ENTRIES gates for vectors 0x00-0x2F and the syscall gate
// at index VEC_SYSCALL (0x80); the slots in between stay zero (not present).
// The out-of-scope assembly entry stub is the single indirect target every
// gate points at; it saves registers, pushes the vector number, and calls
// Dispatch — see Frame's field order in irq.go for exactly what it must push.
var idt [defs.VEC_SYSCALL + 1]idtEntry

const kernelCodeSelector = 0x08

func setGate(i int, isr uintptr, dpl uint8) {
	idt[i] = idtEntry{
		offsetLow:  uint16(isr),
		selector:   kernelCodeSelector,
		zero:       0,
		typeAttr:   0x8E | (dpl << 5), // present, 32-bit interrupt gate
		offsetHigh: uint16(isr >> 16),
	}
}

// idtr is the 6-byte pseudo-descriptor LIDT expects: limit then base.
type idtr struct {
	limit uint16
	base  uint32
}

// InitIDT builds and loads the interrupt descriptor table. isrTable supplies
// one small per-vector assembly stub address apiece — each pushes its own
// vector number before jumping to the shared entry path, since x86 gates
// have no other way to tell software which vector fired — and syscallISR is
// the ring-3-callable int 0x80 gate. Building those per-vector stubs is the
// out-of-scope "assembly entry stub" collaborator; InitIDT only assembles
// and loads the table of gate descriptors pointing at them.
func InitIDT(isrTable [defs.IDT_ENTRIES]uintptr, syscallISR uintptr) {
	for i, isr := range isrTable {
		setGate(i, isr, 0)
	}
	setGate(defs.VEC_SYSCALL, syscallISR, 3) // int 0x80 is callable from ring 3
	desc := idtr{
		limit: uint16(len(idt)*8 - 1),
		base:  uint32(uintptr(unsafe.Pointer(&idt[0]))),
	}
	ioport.Lidt(uintptr(unsafe.Pointer(&desc)))
}
