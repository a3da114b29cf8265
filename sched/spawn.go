package sched

import (
	"unsafe"

	"xunos/defs"
	"xunos/irq"
	"xunos/mem"
)

// EntryFn is a kernel thread's entry point.
type EntryFn func(arg uintptr)

var entryTable = map[uintptr]EntryFn{}
var entryTableNext uintptr = 1

// switchTo and taskTrampoline are implemented in switch_386.s.
// taskTrampolineAddr returns taskTrampoline's code address, for planting in
// a freshly spawned task's synthetic return-address slot.
func switchTo(oldEspSlot *uintptr, newEsp uintptr)
func taskTrampoline()
func taskTrampolineAddr() uintptr

// runTask is called by taskTrampoline on a brand-new task's very first
// context switch. It re-enables interrupts (spec §4.3: "returns into
// kernel_thread(entry, arg) which re-enables interrupts and calls
// entry(arg)") and invokes the registered entry function; if entry
// returns, the task is marked DIED and never scheduled again.
func runTask(entryKey uintptr, arg uintptr) {
	irq.Enable()
	fn := entryTable[entryKey]
	delete(entryTable, entryKey)
	fn(arg)
	old := irq.Disable()
	current.Status = defs.TASK_DIED
	schedule()
	irq.Set(old)
}

// Spawn allocates a fresh TCB page, formats it, pushes the synthetic
// stack frame taskTrampoline expects, and appends the new task to the
// ready and all-tasks lists (§4.3).
func Spawn(name string, priority int, entry EntryFn, arg uintptr) *Task_t {
	page, err := mem.AllocKernelPages(1)
	if err != 0 {
		panic("sched: out of memory spawning task")
	}
	t := (*Task_t)(unsafe.Pointer(page))
	t.GuardMagic = guardMagic
	t.Pid = allocPid()
	if current != nil {
		t.ParentPid = current.Pid
	}
	t.SetName(name)
	t.Status = defs.TASK_READY
	t.Priority = priority
	t.TicksLeft = priority
	t.CwdInode = 0
	for i := range t.FdTable {
		t.FdTable[i] = -1
	}

	stackTop := page + uintptr(mem.PGSIZE)
	key := entryTableNext
	entryTableNext++
	entryTable[key] = entry

	frame := []uintptr{
		taskTrampolineAddr(), // return address
		key,                  // entry key, popped first by taskTrampoline
		arg,                  // arg, popped second
	}
	sp := stackTop
	for i := len(frame) - 1; i >= 0; i-- {
		sp -= unsafe.Sizeof(uintptr(0))
		*(*uintptr)(unsafe.Pointer(sp)) = frame[i]
	}
	// four callee-saved placeholder slots (BP, SI, DI, BX) below that,
	// matching switchTo's restore sequence.
	for i := 0; i < 4; i++ {
		sp -= unsafe.Sizeof(uintptr(0))
		*(*uintptr)(unsafe.Pointer(sp)) = 0
	}
	t.Esp = sp

	old := irq.Disable()
	readyList.PushBack(&t.readyLink, t)
	allList.PushBack(&t.allLink, t)
	irq.Set(old)
	return t
}
