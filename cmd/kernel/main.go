// Command kernel is the boot entry point (§2): an out-of-scope thin
// collaborator per §1 ("boot loader, GDT/TSS construction ... are
// replaceable without changing the core"), kept here only to exercise
// every subsystem's Init in the order §2.3-2.11 mandates. Grounded on the
// teacher's mkfs/mkfs.go main() shape — straight-line setup calls, panic
// on any unrecoverable error, no flag parsing beyond what the real boot
// loader would have already resolved.
package main

import (
	"xunos/fs"
	"xunos/ide"
	"xunos/ioport"
	"xunos/irq"
	"xunos/kbd"
	"xunos/mem"
	"xunos/proc"
	"xunos/sched"
	"xunos/sys"
	"xunos/timer"
)

func main() {
	// §2.3: interrupt core first, so every later Init can safely register
	// a handler and unmask its own IRQ line.
	irq.InitPIC()
	irq.InitIDT(isrStubAddrs(), syscallStubAddr())

	// §2.7: register the (out-of-scope) TSS's ESP0 setter before the
	// scheduler ever runs, so sched.schedule's proc.UpdateTSS call on the
	// very first context switch already has somewhere real to write.
	proc.InitTSSHook(setTSS0)

	// §2.4-2.5: physical and virtual memory pools. KernelPageDir is read
	// from CR3 before PhysInit touches anything, since the boot loader has
	// already built and activated the kernel's own page directory by now.
	mem.KernelPageDir = mem.Pa_t(ioport.Cr3())
	mem.PhysInit()
	mem.VpoolInit()

	// §2.6: the scheduler takes over task bookkeeping; this call also
	// promotes the code already running (kernel main) into the first
	// TASK_RUNNING task.
	sched.Init()

	// §2.7: PIT at 100Hz, driving sched.Tick from here on.
	timer.Init()

	// §2.8: keyboard ring, driven by IRQ1.
	kbd.Init()

	// §2.9: IDE channels/disks, PIO protocol ready for fs.Init to probe.
	ide.Init()

	// §2.10: scan every non-boot disk's partitions, mount or format each,
	// and select sdb1 as the default mount (§4.7, §9).
	if err := fs.Init(); err != 0 {
		panic("kernel: filesystem init failed")
	}

	// §2.11: syscall dispatch table, routed at vector 0x80.
	sys.Init()

	// Every subsystem is up; hand control to the scheduler's idle task.
	irq.Enable()
	for {
		// sched.Init already queued the idle task; once main itself
		// blocks or is preempted the scheduler takes it from here.
	}
}
