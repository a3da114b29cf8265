package ilist

import "testing"

type item struct {
	id   int
	link Link_t
}

func newListOf(ids ...int) (*List_t, []*item) {
	l := &List_t{}
	l.Init()
	items := make([]*item, len(ids))
	for i, id := range ids {
		it := &item{id: id}
		items[i] = it
		l.PushBack(&it.link, it)
	}
	return l, items
}

func TestPushFrontAndBackOrder(t *testing.T) {
	l := &List_t{}
	l.Init()
	a, b, c := &item{id: 1}, &item{id: 2}, &item{id: 3}
	l.PushBack(&a.link, a)
	l.PushBack(&b.link, b)
	l.PushFront(&c.link, c)
	want := []int{3, 1, 2}
	var got []int
	l.Apply(func(o interface{}) { got = append(got, o.(*item).id) })
	if !equalInts(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestPopFrontUnlinksAndReturnsHead(t *testing.T) {
	l, items := newListOf(1, 2, 3)
	got := l.PopFront().(*item)
	if got != items[0] {
		t.Fatal("PopFront did not return the head item")
	}
	if Linked(&items[0].link) {
		t.Fatal("popped item still reports as linked")
	}
	if l.Len() != 2 {
		t.Fatalf("len = %d, want 2", l.Len())
	}
}

func TestRemoveIsNoOpOnUnlinkedNode(t *testing.T) {
	l := &List_t{}
	l.Init()
	it := &item{id: 1}
	l.Remove(&it.link) // never linked
	if l.Len() != 0 {
		t.Fatal("Remove on an unlinked node must not affect list length")
	}
}

func TestSameOwnerOnTwoIndependentLists(t *testing.T) {
	type dual struct {
		a, b Link_t
	}
	la, lb := &List_t{}, &List_t{}
	la.Init()
	lb.Init()
	d := &dual{}
	la.PushBack(&d.a, d)
	lb.PushBack(&d.b, d)
	if la.PopFront().(*dual) != d || lb.PopFront().(*dual) != d {
		t.Fatal("same owner must be independently reachable from two lists")
	}
}

func TestContainsDistinguishesLists(t *testing.T) {
	la, lb := &List_t{}, &List_t{}
	la.Init()
	lb.Init()
	it := &item{id: 1}
	la.PushBack(&it.link, it)
	if !la.Contains(&it.link) {
		t.Fatal("expected la to contain it")
	}
	if lb.Contains(&it.link) {
		t.Fatal("lb must not contain a node linked only into la")
	}
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
