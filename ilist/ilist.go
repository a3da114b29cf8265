// Package ilist implements an intrusive doubly linked list: nodes embed a
// Link_t field rather than being wrapped by the list, so the same object
// (e.g. a task control block) can sit on two independent lists at once — the
// ready queue and the all-tasks list — each through its own embedded link.
// This is explicitly called for by design note §9 ("Intrusive lists"); the
// teacher's own fs/blk.go instead wraps container/list (BlkList_t) because a
// Bdev_block_t only ever needs to be on one list at a time. Here we need the
// stronger intrusive form and build it directly rather than through
// container/list.
package ilist

// Link_t is one embedded link. A struct that needs to participate in N
// independent lists embeds N Link_t fields, one per list.
type Link_t struct {
	next, prev *Link_t
	owner      interface{}
}

func (l *Link_t) reset(owner interface{}) {
	l.next, l.prev = l, l
	l.owner = owner
}

// List_t is a circular doubly linked list with a sentinel head. It stores no
// elements directly: it only manages Link_t nodes embedded in caller
// structs, recovered again via the owner field stashed when a node is linked.
type List_t struct {
	head Link_t
	n    int
}

// Init prepares an empty list. Must be called before use.
func (l *List_t) Init() {
	l.head.next, l.head.prev = &l.head, &l.head
	l.n = 0
}

// Len returns the number of elements currently linked.
func (l *List_t) Len() int {
	return l.n
}

// Empty reports whether the list has no elements.
func (l *List_t) Empty() bool {
	return l.head.next == &l.head
}

func (l *List_t) insertAfter(at *Link_t, node *Link_t, owner interface{}) {
	node.reset(owner)
	node.prev = at
	node.next = at.next
	at.next.prev = node
	at.next = node
	l.n++
}

// PushFront links owner's node at the head of the list.
func (l *List_t) PushFront(node *Link_t, owner interface{}) {
	l.insertAfter(&l.head, node, owner)
}

// PushBack links owner's node at the tail of the list.
func (l *List_t) PushBack(node *Link_t, owner interface{}) {
	l.insertAfter(l.head.prev, node, owner)
}

// Remove unlinks node from whichever list it is on. It is a no-op on an
// already-unlinked (zero-value) node.
func (l *List_t) Remove(node *Link_t) {
	if node.next == nil {
		return
	}
	node.prev.next = node.next
	node.next.prev = node.prev
	node.next, node.prev, node.owner = nil, nil, nil
	l.n--
}

// Linked reports whether node currently sits on some list.
func Linked(node *Link_t) bool {
	return node.next != nil
}

// Front returns the owner at the head of the list, or nil if empty.
func (l *List_t) Front() interface{} {
	if l.Empty() {
		return nil
	}
	return l.head.next.owner
}

// PopFront unlinks and returns the owner at the head of the list, or nil if
// empty.
func (l *List_t) PopFront() interface{} {
	if l.Empty() {
		return nil
	}
	n := l.head.next
	owner := n.owner
	l.Remove(n)
	return owner
}

// Apply calls f with the owner of every linked node, front to back. f must
// not mutate the list.
func (l *List_t) Apply(f func(owner interface{})) {
	for n := l.head.next; n != &l.head; n = n.next {
		f(n.owner)
	}
}

// Contains reports whether node is currently linked into this particular
// list (as opposed to some other list it may also be linked into).
func (l *List_t) Contains(node *Link_t) bool {
	for n := l.head.next; n != &l.head; n = n.next {
		if n == node {
			return true
		}
	}
	return false
}
