package kbd

import (
	"xunos/defs"
	"xunos/irq"
	"xunos/ksync"
)

// Ring_t is the bounded single-producer, single-consumer byte queue shared
// by every blocking device source in this kernel (§3, §4.5): keyboard
// input here, and the same shape reusable by any other character device.
// Full iff (head+1) mod N == tail; empty iff head == tail; capacity is
// N-1 (§3's exact invariant — one slot is always kept empty to
// distinguish full from empty without a separate counter).
//
// Grounded on the teacher's circbuf.Circbuf_t head/tail modulo-arithmetic
// shape; the blocking/waking mechanism here is two counting semaphores
// (ksync.Sem_t) standing in for the spec's separate producer/consumer
// waiter lists — Sem_t already is exactly that (a FIFO waiter list plus a
// count), so `slots` is what a blocked producer waits on and `items` is
// what a blocked consumer waits on, matching the corrected ioq_wait
// semantics in §8's redesign notes (wait on producer when full, consumer
// when empty).
type Ring_t struct {
	buf        [defs.IO_RING_SIZE]byte
	head, tail int

	slots *ksync.Sem_t // free slots available to a producer
	items *ksync.Sem_t // filled slots available to a consumer
}

const ringCap = defs.IO_RING_SIZE - 1

// NewRing returns an empty ring buffer.
func NewRing() *Ring_t {
	return &Ring_t{
		slots: ksync.NewSem(ringCap),
		items: ksync.NewSem(0),
	}
}

// Full reports the ring's full condition per §3's invariant: (head+1) mod
// N == tail. Exposed for introspection/testing; production code never
// needs to check it directly since slots/items already encode it.
func (r *Ring_t) Full() bool {
	return (r.head+1)%defs.IO_RING_SIZE == r.tail
}

// Empty reports whether head == tail.
func (r *Ring_t) Empty() bool {
	return r.head == r.tail
}

func (r *Ring_t) enqueueLocked(b byte) {
	r.buf[r.head] = b
	r.head = (r.head + 1) % defs.IO_RING_SIZE
}

func (r *Ring_t) dequeueLocked() byte {
	b := r.buf[r.tail]
	r.tail = (r.tail + 1) % defs.IO_RING_SIZE
	return b
}

// TryPut is the interrupt-context, non-blocking producer path (§4.5): the
// byte is dropped silently if the ring is full.
func (r *Ring_t) TryPut(b byte) {
	if !r.slots.TryDown() {
		return // full: drop silently, per §4.5
	}
	old := irq.Disable()
	r.enqueueLocked(b)
	irq.Set(old)
	r.items.Up()
}

// Put is the blocking producer path for kernel producers: blocks on
// `slots` while the ring is full.
func (r *Ring_t) Put(b byte) {
	r.slots.Down()
	old := irq.Disable()
	r.enqueueLocked(b)
	irq.Set(old)
	r.items.Up()
}

// Get blocks on `items` while the ring is empty, then dequeues one byte.
func (r *Ring_t) Get() byte {
	r.items.Down()
	old := irq.Disable()
	b := r.dequeueLocked()
	irq.Set(old)
	r.slots.Up()
	return b
}
