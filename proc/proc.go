// Package proc is the process subsystem (§2.7, §4.3): building a user
// task's private page directory, wiring its user virtual pool, and
// keeping the (out-of-scope) TSS's ESP0 field current across every
// context switch via Activate/UpdateTSS, both called from sched.schedule
// on every switch (§4.3: "activates the task's page directory and TSS
// ESP0"). GDT/TSS construction itself and the fork/execv user-process
// bootstrap sequence are out-of-scope thin collaborators (§1: "contribute
// little design insight and are replaceable without changing the core");
// this package exposes the interface points they hang off of rather than
// building them.
//
// Grounded on the teacher's vm/as.go (Vm_t: address-space struct paired
// with its own set of mapped regions) for the page-directory-as-owner
// shape (§9's "back-reference without ownership cycles": task owns page
// directory, page directory owns its tables, pool owns raw frames), and
// vm/userbuf.go for the user/kernel boundary-crossing convention.
package proc

import (
	"xunos/defs"
	"xunos/ioport"
	"xunos/mem"
)

// UserProc_t bundles everything a user task needs beyond a plain kernel
// Task_t: its own page directory and its own user virtual address pool.
type UserProc_t struct {
	PageDir mem.Pa_t
	Vpool   *mem.Vpool_t
}

// NewUserProc allocates a page directory frame and gives the process its
// own user virtual pool (§4.1, §9). The frame is neither cleared nor
// filled: copyKernelHalf leaves it as allocated, so it holds no kernel
// upper-half mappings.
func NewUserProc() (*UserProc_t, defs.Err_t) {
	pdFrame, ok := mem.Kernel_pool.AllocFrame()
	if !ok {
		return nil, mem.ErrOOM
	}
	copyKernelHalf(pdFrame)
	return &UserProc_t{PageDir: pdFrame, Vpool: mem.NewUserVpool()}, 0
}

// copyKernelHalf leaves pdFrame unchanged: it writes none of the kernel's
// upper-half PDEs (those of mem.KernelPageDir) into it. pdFrame is not the
// active page directory, and mem/paging.go's recursive window, the only
// path this kernel has for writing page-directory entries, reaches only
// the active one. NewUserProc has no caller in this repository.
func copyKernelHalf(pdFrame mem.Pa_t) {
	_ = pdFrame
}

// Activate switches the live address space to pd, or to the kernel's own
// page directory (mem.KernelPageDir) when pd == 0 — every kernel task's
// Task_t.PageDir, per §3's "non-null ⇒ user process" invariant. Reloading
// CR3 with 0 would point the MMU at physical address 0, not at the
// kernel's real page directory, so the zero sentinel is translated here
// rather than passed through.
func Activate(pd mem.Pa_t) {
	if pd == 0 {
		pd = mem.KernelPageDir
	}
	ioport.Lcr3(uintptr(pd))
}

// tssEsp0Setter is the out-of-scope TSS collaborator's registration point;
// InitTSSHook lets boot code supply it without this package needing to
// know how the TSS is built.
var tssEsp0Setter func(esp0 uintptr)

// InitTSSHook registers the function that writes a new value into the
// TSS's ESP0 field.
func InitTSSHook(f func(esp0 uintptr)) {
	tssEsp0Setter = f
}

// UpdateTSS sets ESP0 to the top of the given kernel stack page — called
// once per context switch (§4.3: "activates ... TSS ESP0") so the next
// ring3→ring0 transition for this task lands on the right kernel stack.
func UpdateTSS(kernelStackTop uintptr) {
	if tssEsp0Setter != nil {
		tssEsp0Setter(kernelStackTop)
	}
}
