package ksync

import "xunos/sched"

// Lock_t is a recursive mutex: the same holder may acquire it repeatedly
// without deadlocking itself, tracked by recursive_depth. Invariant (§3):
// recursive_depth > 0 iff holder != nil iff sem.value == 0.
type Lock_t struct {
	holder         *sched.Task_t
	sem            *Sem_t
	recursiveDepth uint32
}

// NewLock creates an unheld lock.
func NewLock() *Lock_t {
	return &Lock_t{sem: NewSem(1)}
}

// Acquire blocks until the lock is free, or immediately increments the
// recursive depth if the caller already holds it.
func (l *Lock_t) Acquire() {
	me := sched.Current()
	if l.holder == me {
		l.recursiveDepth++
		return
	}
	l.sem.Down()
	l.holder = me
	l.recursiveDepth = 1
}

// Release decrements the recursive depth, releasing the lock entirely once
// it reaches zero. Panics if called by a task that does not hold the lock
// (programmer error, §7).
func (l *Lock_t) Release() {
	if l.holder != sched.Current() {
		panic("ksync: Release called by non-holder")
	}
	l.recursiveDepth--
	if l.recursiveDepth == 0 {
		l.holder = nil
		l.sem.Up()
	}
}

// Held reports whether the calling task currently holds the lock.
func (l *Lock_t) Held() bool {
	return l.holder == sched.Current()
}
