// Package irq is the interrupt core (§4.2): IDT construction, PIC
// programming, the enable/disable/save-restore primitives, and per-vector
// handler registration invoked from the common assembly entry stub. The
// vector/handler-table shape is the idiomatic Go-kernel pattern seen across
// the retrieval pack's bare-metal entries (the `irq.Frame`/`irq.Regs`
// naming convention referenced by gopheros's vmm.go); the locking and
// enable/disable discipline follows the teacher's own convention of saving
// and restoring interrupt state around every critical section rather than
// unconditionally re-enabling (design note in §4.2, mirrored by every
// Lock()/Unlock() pair in the teacher's mem.Physmem_t and vm.Vm_t).
package irq

import (
	"fmt"

	"xunos/defs"
	"xunos/ioport"
)

// Frame is the register state saved by the common entry stub before calling
// into Go. It mirrors exactly what the (out-of-scope) assembly stub pushes:
// general-purpose registers, then segment registers, then the hardware-
// pushed vector/error-code/eip/cs/eflags tail.
type Frame struct {
	GS, FS, ES, DS                     uint32
	EDI, ESI, EBP, ESP, EBX, EDX, ECX, EAX uint32
	Vector, ErrorCode                  uint32
	EIP, CS, EFLAGS                    uint32
}

// Handler_fn is the signature every registered interrupt handler must
// implement.
type Handler_fn func(fr *Frame)

var handlers [defs.IDT_ENTRIES]Handler_fn
var syscallHandler Handler_fn

func init() {
	for i := range handlers {
		handlers[i] = defaultHandler
	}
}

// Register installs fn as the handler for vec, replacing the default
// handler. Drivers call this once during their own Init (§4.2: "Drivers
// replace their own slot via register_handler(vec, fn)").
func Register(vec int, fn Handler_fn) {
	if vec == defs.VEC_SYSCALL {
		syscallHandler = fn
		return
	}
	if vec < 0 || vec >= defs.IDT_ENTRIES {
		panic("vector out of range")
	}
	handlers[vec] = fn
}

// Dispatch is called by the common assembly entry stub with the frame it
// has just finished building and invokes the registered handler. Neither
// the stub nor Dispatch sends an EOI: each driver's handler acks its own
// IRQ line with EOI.
func Dispatch(fr *Frame) {
	if fr.Vector == defs.VEC_SYSCALL {
		if syscallHandler == nil {
			panic("no syscall handler registered")
		}
		syscallHandler(fr)
		return
	}
	handlers[fr.Vector](fr)
}

func defaultHandler(fr *Frame) {
	fmt.Printf("*** fatal exception: vector %#x, error %#x, eip %#x\n",
		fr.Vector, fr.ErrorCode, fr.EIP)
	if fr.Vector == defs.VEC_PAGEFAULT {
		fmt.Printf("*** faulting address: %#x\n", ioport.Cr2())
	}
	for {
		ioport.Hlt()
	}
}

// --- PIC programming (§4.2, §6) ---

const (
	picICW1Init = 0x11
	picICW4_8086 = 0x01
)

// InitPIC remaps the master/slave 8259 PICs so hardware IRQs land at
// 0x20-0x2F instead of colliding with CPU exception vectors, then masks
// every line until a driver unmasks the ones it owns.
func InitPIC() {
	ioport.Outb(defs.PIC_MASTER_CMD, picICW1Init)
	ioport.Outb(defs.PIC_SLAVE_CMD, picICW1Init)
	ioport.Outb(defs.PIC_MASTER_DATA, defs.VEC_TIMER) // ICW2: master base vector 0x20
	ioport.Outb(defs.PIC_SLAVE_DATA, defs.VEC_TIMER+8) // ICW2: slave base vector 0x28
	ioport.Outb(defs.PIC_MASTER_DATA, 1<<2)            // ICW3: slave attached to IRQ2
	ioport.Outb(defs.PIC_SLAVE_DATA, 2)                // ICW3: slave's cascade identity
	ioport.Outb(defs.PIC_MASTER_DATA, picICW4_8086)
	ioport.Outb(defs.PIC_SLAVE_DATA, picICW4_8086)
	// mask everything; drivers unmask their own IRQ line
	ioport.Outb(defs.PIC_MASTER_DATA, 0xFF)
	ioport.Outb(defs.PIC_SLAVE_DATA, 0xFF)
}

// Unmask enables delivery of the given IRQ line (0-15).
func Unmask(irqLine int) {
	if irqLine < 8 {
		cur := ioport.Inb(defs.PIC_MASTER_DATA)
		ioport.Outb(defs.PIC_MASTER_DATA, cur&^(1<<uint(irqLine)))
		return
	}
	cur := ioport.Inb(defs.PIC_SLAVE_DATA)
	ioport.Outb(defs.PIC_SLAVE_DATA, cur&^(1<<uint(irqLine-8)))
	mcur := ioport.Inb(defs.PIC_MASTER_DATA)
	ioport.Outb(defs.PIC_MASTER_DATA, mcur&^(1<<2))
}

// EOI acknowledges an interrupt to the PIC(s); irqLine >= 8 also acks the
// slave.
func EOI(irqLine int) {
	if irqLine >= 8 {
		ioport.Outb(defs.PIC_SLAVE_CMD, 0x20)
	}
	ioport.Outb(defs.PIC_MASTER_CMD, 0x20)
}

// --- interrupt-flag primitives (§4.2) ---

// Get returns the current interrupt status.
func Get() defs.Intr_status_t {
	if ioport.Eflags()&(1<<9) != 0 {
		return defs.INTR_ON
	}
	return defs.INTR_OFF
}

// Enable turns interrupts on and returns the previous status.
func Enable() defs.Intr_status_t {
	old := Get()
	ioport.Sti()
	return old
}

// Disable turns interrupts off and returns the previous status.
func Disable() defs.Intr_status_t {
	old := Get()
	ioport.Cli()
	return old
}

// Set restores a previously-saved interrupt status. Every critical section
// in this kernel follows the pattern `old := irq.Disable(); ...;
// irq.Set(old)` rather than an unconditional Enable, so nested critical
// sections compose correctly (§4.2).
func Set(old defs.Intr_status_t) {
	if old == defs.INTR_ON {
		ioport.Sti()
	} else {
		ioport.Cli()
	}
}
