package sched

import (
	"xunos/defs"
	"xunos/ilist"
	"xunos/ioport"
	"xunos/irq"
	"xunos/mem"
	"xunos/proc"
)

// Block sets the current task's status and invokes the scheduler.
// Precondition: interrupts are disabled by the caller (§4.3).
func Block(status defs.Task_status_t) {
	switch status {
	case defs.TASK_BLOCKED, defs.TASK_WAITING, defs.TASK_HANGING:
	default:
		panic("sched: Block called with a non-blocking status")
	}
	current.Status = status
	schedule()
}

// Unblock moves a blocked/waiting/hanging task back to READY and pushes it
// to the ready-list head, interrupts disabled around the list mutation
// (§4.3).
func Unblock(t *Task_t) {
	switch t.Status {
	case defs.TASK_BLOCKED, defs.TASK_WAITING, defs.TASK_HANGING:
	default:
		panic("sched: Unblock called on a task that was not blocked")
	}
	old := irq.Disable()
	t.Status = defs.TASK_READY
	readyList.PushFront(&t.readyLink, t)
	irq.Set(old)
}

// Yield appends the current task to the ready tail and reschedules.
func Yield() {
	old := irq.Disable()
	current.Status = defs.TASK_READY
	readyList.PushBack(&current.readyLink, current)
	schedule()
	irq.Set(old)
}

// schedule picks the next ready task and context-switches to it. Callers
// must already hold interrupts disabled. If the ready list is empty, the
// idle task is woken first (§4.3).
func schedule() {
	if readyList.Empty() {
		Unblock(idle)
	}
	next := readyList.PopFront().(*Task_t)
	assertSchedulerInvariant(next)

	next.checkMagic()
	next.Status = defs.TASK_RUNNING
	next.TicksLeft = next.Priority

	prev := current
	current = next

	// §4.3: "activates the task's page directory and TSS ESP0" before the
	// context switch itself, so a user task's address space and kernel
	// stack are both correct by the time any interrupt can land on it.
	proc.Activate(mem.Pa_t(next.PageDir))
	proc.UpdateTSS(next.kernelStackTop())

	if prev == nil {
		var discard uintptr
		switchTo(&discard, next.Esp)
		return
	}
	switchTo(&prev.Esp, next.Esp)
}

// assertSchedulerInvariant checks spec §8's scheduler invariant: the
// running task is never a member of the ready list, and every ready task
// is READY.
func assertSchedulerInvariant(next *Task_t) {
	if ilist.Linked(&next.readyLink) {
		fatalf("task popped off ready list still linked")
	}
	readyList.Apply(func(owner interface{}) {
		rt := owner.(*Task_t)
		if rt.Status != defs.TASK_READY {
			fatalf("ready-list member %d has status %s", rt.Pid, rt.Status)
		}
	})
}

// Init spawns the idle task and registers the calling context (kernel main,
// already running on the boot stack the out-of-scope boot collaborator set
// up) as the first running task, per §4.3 and the boot→idle scenario
// (§8.A). main's synthetic taskTrampoline stack frame is allocated for
// uniformity but never used: main is already executing, so its first real
// switchTo call (the next time it yields or blocks) overwrites Esp with its
// actual stack pointer at that moment.
func Init() *Task_t {
	idle = Spawn("idle", defs.MIN_PRIORITY, idleLoop, 0)
	main := Spawn("main", defs.MAX_PRIORITY, func(uintptr) {}, 0)
	readyList.Remove(&main.readyLink)
	main.Status = defs.TASK_RUNNING
	current = main
	return main
}

// Tick is called by the timer ISR once per PIT firing (§4.5): it books the
// elapsed tick against the running task, asserts its guard magic, and
// invokes the scheduler once ticks_left reaches zero. Called with
// interrupts already disabled (ISR context); schedule's own context switch
// carries the interrupt state of whichever task resumes, so this function
// never needs to restore a flag itself.
func Tick() {
	current.checkMagic()
	current.ElapsedTicks++
	if current.TicksLeft > 0 {
		current.TicksLeft--
	}
	if current.TicksLeft == 0 {
		current.Status = defs.TASK_READY
		readyList.PushBack(&current.readyLink, current)
		schedule()
	}
}

// idleLoop blocks itself and, once woken, executes sti;hlt before blocking
// again — the idle task per §4.3.
func idleLoop(uintptr) {
	for {
		old := irq.Disable()
		Block(defs.TASK_HANGING)
		irq.Set(old)
		ioport.Sti()
		ioport.Hlt()
	}
}
