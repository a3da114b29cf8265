package ide

import "testing"

func TestPartitionNaming(t *testing.T) {
	if got := primaryPartName("sdb", 0); got != "sdb1" {
		t.Fatalf("got %q, want sdb1", got)
	}
	if got := logicalPartName("sdb", 0); got != "sdb5" {
		t.Fatalf("got %q, want sdb5", got)
	}
}
