package fs

import "testing"

func TestCanonicalize(t *testing.T) {
	cases := []struct{ in, want string }{
		{"/a/b/../c", "/a/c"},
		{"/", "/"},
		{"/a/./b", "/a/b"},
		{"/a/b/c", "/a/b/c"},
		{"/../../a", "/a"},
		{"/a/b/..", "/a"},
	}
	for _, c := range cases {
		if got := Canonicalize(c.in); got != c.want {
			t.Errorf("Canonicalize(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestDepth(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"/a/b/c", 3},
		{"/", 0},
		{"/a", 1},
		{"/a/../b/c", 2},
	}
	for _, c := range cases {
		if got := Depth(c.in); got != c.want {
			t.Errorf("Depth(%q) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestSplitPathResolvesDotDot(t *testing.T) {
	got := splitPath("/a/b/../../c")
	want := []string{"c"}
	if len(got) != len(want) {
		t.Fatalf("splitPath = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("splitPath = %v, want %v", got, want)
		}
	}
}
