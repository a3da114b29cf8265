// Package sched is the thread/scheduler subsystem (§2.5, §4.3): task
// control blocks, the ready/all-tasks lists, spawn/block/unblock/yield,
// and the priority-weighted round-robin scheduler itself. Context
// switching (saving/restoring the callee-saved registers and swapping
// stack pointers) is the one piece that cannot be expressed in portable
// Go — it lives in switch_386.s, grounded on the same plan9-assembly
// convention as the ioport package.
//
// Grounded on the teacher's tinfo/accnt.go (Tinfo_t: pid/status/priority
// bookkeeping) for field naming, and on the design note in §9 calling for
// two independent ilist.Link_t nodes per TCB so the same task sits on the
// ready list and the all-tasks list simultaneously.
package sched

import (
	"fmt"
	"unsafe"

	"xunos/defs"
	"xunos/ilist"
	"xunos/irq"
	"xunos/mem"
)

const guardMagic uint32 = 0x19950802

// Task_t is one task control block. Per §4.3 it occupies exactly one 4 KiB
// kernel page: this struct lives at the page's low address, and the
// remainder of the page (above unsafe.Sizeof(Task_t{})) is that task's
// kernel stack, growing down toward the struct. task_from_esp's invariant
// (any kernel-stack pointer belonging to a task masks down to the page
// holding its Task_t) falls out of that layout for free.
type Task_t struct {
	GuardMagic uint32

	Pid       defs.Pid_t
	ParentPid defs.Pid_t
	Name      [defs.TASK_NAME_LEN]byte

	Status       defs.Task_status_t
	Priority     int
	TicksLeft    int
	ElapsedTicks int

	Esp     uintptr // saved kernel stack pointer; the context-switch slot
	PageDir uintptr // physical address of the page directory; 0 => kernel task

	UserVpool *mem.Vpool_t

	FdTable [defs.MAX_FILES_OPEN_PER_PROC]int32
	CwdInode int32

	readyLink ilist.Link_t
	allLink   ilist.Link_t
}

func (t *Task_t) checkMagic() {
	if t.GuardMagic != guardMagic {
		panic("sched: task guard magic corrupted")
	}
}

// SetName copies s into Name, truncating to fit.
func (t *Task_t) SetName(s string) {
	n := copy(t.Name[:], s)
	for i := n; i < len(t.Name); i++ {
		t.Name[i] = 0
	}
}

func (t *Task_t) NameString() string {
	n := 0
	for n < len(t.Name) && t.Name[n] != 0 {
		n++
	}
	return string(t.Name[:n])
}

// IsUser reports whether t is a user process (has its own page directory).
func (t *Task_t) IsUser() bool { return t.PageDir != 0 }

// kernelStackTop returns the address just past t's kernel stack — the top
// of the 4 KiB page t itself lives at the low end of (§3's TCB layout) —
// the value the TSS's ESP0 field must hold while t is the running task so
// the next ring3->ring0 trap lands on t's own stack (§4.3).
func (t *Task_t) kernelStackTop() uintptr {
	page := uintptr(unsafe.Pointer(t)) &^ uintptr(mem.PGSIZE-1)
	return page + uintptr(mem.PGSIZE)
}

var (
	readyList ilist.List_t
	allList   ilist.List_t

	current *Task_t
	idle    *Task_t

	nextPid   defs.Pid_t = 1
	pidLocked bool
)

func init() {
	readyList.Init()
	allList.Init()
}

func allocPid() defs.Pid_t {
	old := irq.Disable()
	p := nextPid
	nextPid++
	irq.Set(old)
	return p
}

// Current returns the presently-running task.
func Current() *Task_t { return current }

// AllTasks invokes f for every task on the all-tasks list, in list order.
func AllTasks(f func(t *Task_t)) {
	allList.Apply(func(owner interface{}) { f(owner.(*Task_t)) })
}

func fatalf(format string, args ...interface{}) {
	fmt.Printf("sched: "+format+"\n", args...)
	panic("sched: invariant violated")
}
