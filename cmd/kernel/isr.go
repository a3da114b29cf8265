package main

// isrStubAddrs and syscallStubAddr are implemented in isr_386.s: the
// out-of-scope assembly entry-stub collaborator (§1), wired only as far
// as the address table irq.InitIDT needs.
func isrStubAddrs() [48]uintptr
func syscallStubAddr() uintptr

// tss0 stands in for the out-of-scope TSS's ESP0 field (§1: GDT/TSS
// construction is a thin collaborator specified only by interface).
// setTSS0 is registered with proc.InitTSSHook so sched.schedule's
// per-switch proc.UpdateTSS call has a real sink to write through to,
// exactly as a genuine boot collaborator's TSS setter would be.
var tss0 uintptr

func setTSS0(esp0 uintptr) {
	tss0 = esp0
}
