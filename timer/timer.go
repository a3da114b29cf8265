// Package timer programs the PIT to 100 Hz and drives preemption from its
// interrupt (§4.5). Grounded on the teacher's own IRQ-vector-to-handler
// registration convention (mirrored from `irq.Register`, itself modeled on
// the retrieval pack's bare-metal entry points) applied to the PIT rather
// than any teacher timer driver — the teacher runs under a hosted
// scheduler with no PIT of its own to program.
package timer

import (
	"xunos/defs"
	"xunos/ioport"
	"xunos/irq"
	"xunos/sched"
)

// pitFrequency is the PIT's fixed input clock in Hz.
const pitFrequency = 1193182

// targetHz is the tick rate the spec mandates (§4.5).
const targetHz = 100

// divisor = pitFrequency / targetHz, rounded to the nearest integer:
// 1193182/100 = 11931.82, which rounds to 11932.
const divisor = 11932

const (
	pitModeCmdChan0     = 0x34 // channel 0, lobyte/hibyte, mode 2 (rate generator)
	pitChannel0DataPort = defs.PIT_CHAN0
	pitCommandPort      = defs.PIT_CMD
)

// ticks is the global monotonic tick counter (§8.A: "tick counter
// monotonically increases at ~100/s").
var ticks uint64

// Ticks returns the number of timer interrupts serviced since Init.
func Ticks() uint64 {
	return ticks
}

// Init programs PIT channel 0 as a 100 Hz rate generator, registers the
// timer ISR and unmasks IRQ0 at the PIC; no tick is delivered until the
// caller enables interrupts (§4.5, §8.A's boot ordering).
func Init() {
	ioport.Outb(pitCommandPort, pitModeCmdChan0)
	ioport.Outb(pitChannel0DataPort, byte(divisor&0xFF))
	ioport.Outb(pitChannel0DataPort, byte(divisor>>8))

	irq.Register(defs.VEC_TIMER, isr)
	irq.Unmask(0)
}

func isr(fr *irq.Frame) {
	_ = fr
	ticks++
	irq.EOI(0)
	sched.Tick()
}
