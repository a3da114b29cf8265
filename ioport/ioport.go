// Package ioport is the one place in this kernel where inline assembly is
// unavoidable (design note §9): raw x86 port I/O, IDT loading, and the
// interrupt-flag primitives have no portable Go expression. Every other
// function in this kernel is ordinary Go; these are Go assembly (plan9 asm,
// ioport_386.s) declared here with empty bodies, exactly the pattern the
// teacher's mem/dmap.go relies on for its own hardware primitives
// (runtime.Cpuid, runtime.Rcr4, runtime.Vtop) — there the primitives live in
// a patched runtime; here, since XUN-OS does not fork the Go runtime, they
// live in a leaf package with the same "thin asm shim, typed Go signature"
// shape.
package ioport

// Inb reads one byte from the given I/O port.
func Inb(port uint16) uint8

// Outb writes one byte to the given I/O port.
func Outb(port uint16, val uint8)

// Inw reads one 16-bit word from the given I/O port.
func Inw(port uint16) uint16

// Outw writes one 16-bit word to the given I/O port.
func Outw(port uint16, val uint16)

// Insw reads len(dst) 16-bit words from port into dst, advancing dst but
// not port.
func Insw(port uint16, dst []uint16)

// Outsw writes len(src) 16-bit words from src to port, advancing src but
// not port.
func Outsw(port uint16, src []uint16)

// Lidt loads the interrupt descriptor table register from the 6-byte
// pseudo-descriptor at base.
func Lidt(base uintptr)

// Cli clears the interrupt flag (disables maskable interrupts).
func Cli()

// Sti sets the interrupt flag (enables maskable interrupts).
func Sti()

// Hlt halts the processor until the next interrupt.
func Hlt()

// Eflags returns the current EFLAGS register.
func Eflags() uint32

// Invlpg invalidates the TLB entry for the given linear address.
func Invlpg(va uintptr)

// Cr2 reads CR2, the faulting linear address left behind by a page fault
// (§4.2: "page-fault additionally prints the faulting linear address from
// CR2").
func Cr2() uintptr

// Lcr3 loads CR3 with the physical address of a page directory, switching
// the active address space (§4.3's "activates the task's page directory").
func Lcr3(pdPhys uintptr)

// Cr3 reads the physical address of the currently active page directory.
func Cr3() uintptr
