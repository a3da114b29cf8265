// Package ksync implements the counting semaphore and recursive-holder
// lock built directly over sched's thread blocking (§2.3, §4.4) — not
// sync.Mutex, since nothing below the scheduler can rely on OS-level
// locking primitives that don't exist yet at this layer.
//
// Grounded on the teacher's own Go sync.Mutex-over-atomics style (embedded
// locks everywhere in mem/vm/fs) for the surrounding field layout and
// panic-on-misuse discipline, with the actual blocking mechanism replaced
// by sched.Block/Unblock per spec §4.4 since the teacher runs on a real
// multi-CPU scheduler this kernel does not have.
package ksync

import (
	"xunos/defs"
	"xunos/ilist"
	"xunos/irq"
	"xunos/sched"
)

// Sem_t is a counting semaphore with a FIFO waiter list, avoiding
// starvation (§4.4).
type Sem_t struct {
	value   int
	waiters ilist.List_t
}

// NewSem creates a semaphore with the given initial value.
func NewSem(initial int) *Sem_t {
	s := &Sem_t{value: initial}
	s.waiters.Init()
	return s
}

type waiter struct {
	task *sched.Task_t
	link ilist.Link_t
}

// Down blocks until value > 0, then decrements it. Interrupts are disabled
// around the value mutation; starvation is avoided by the FIFO waiter list
// (§4.4).
func (s *Sem_t) Down() {
	old := irq.Disable()
	for s.value == 0 {
		w := &waiter{task: sched.Current()}
		s.waiters.PushBack(&w.link, w)
		sched.Block(defs.TASK_WAITING)
	}
	s.value--
	irq.Set(old)
}

// TryDown decrements value without blocking, returning false if value was
// already zero. Used by interrupt-context producers (§4.5's non-blocking
// try_put) that must never block.
func (s *Sem_t) TryDown() bool {
	old := irq.Disable()
	ok := s.value > 0
	if ok {
		s.value--
	}
	irq.Set(old)
	return ok
}

// Up increments value, waking the longest-waiting blocked task if any.
func (s *Sem_t) Up() {
	old := irq.Disable()
	if !s.waiters.Empty() {
		w := s.waiters.PopFront().(*waiter)
		sched.Unblock(w.task)
	}
	s.value++
	irq.Set(old)
}

// Value returns the current count, for the semaphore-conservation testable
// property (§8.6): value + |blocked waiters| is invariant across matched
// up/down pairs.
func (s *Sem_t) Value() int {
	return s.value
}

// Waiters returns the number of tasks currently blocked on this semaphore.
func (s *Sem_t) Waiters() int {
	return s.waiters.Len()
}
