package sched

import "testing"

func TestSetNameTruncatesAndZeroPads(t *testing.T) {
	var task Task_t
	task.SetName("init")
	if got := task.NameString(); got != "init" {
		t.Fatalf("NameString() = %q, want %q", got, "init")
	}
	task.SetName("a-name-much-longer-than-sixteen-bytes")
	if len(task.NameString()) > len(task.Name) {
		t.Fatalf("NameString() longer than backing array: %q", task.NameString())
	}
}

func TestIsUserReflectsPageDir(t *testing.T) {
	var task Task_t
	if task.IsUser() {
		t.Fatal("zero-value task must not report as a user process")
	}
	task.PageDir = 0x1000
	if !task.IsUser() {
		t.Fatal("non-zero PageDir must report as a user process")
	}
}

func TestCheckMagicPanicsOnCorruption(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on corrupted guard magic")
		}
	}()
	task := Task_t{GuardMagic: 0xBAD}
	task.checkMagic()
}
