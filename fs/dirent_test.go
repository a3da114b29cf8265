package fs

import "testing"

func TestDirentEncodeDecodeRoundTrip(t *testing.T) {
	d := newDirent("hello.txt", 42, FT_REGULAR)
	var buf [dirEntSize]byte
	d.encode(buf[:])

	got := decodeDirent(buf[:])
	if got.NameString() != "hello.txt" {
		t.Errorf("NameString() = %q, want %q", got.NameString(), "hello.txt")
	}
	if got.INo != 42 {
		t.Errorf("INo = %d, want 42", got.INo)
	}
	if got.Type != FT_REGULAR {
		t.Errorf("Type = %v, want FT_REGULAR", got.Type)
	}
}

func TestDirentNameTruncation(t *testing.T) {
	long := "this-name-is-way-too-long-to-fit"
	d := newDirent(long, 1, FT_DIRECTORY)
	if len(d.NameString()) > 16 {
		t.Errorf("NameString() = %q, longer than DIR_ENTRY_NAME_LEN", d.NameString())
	}
}

func TestDirentEmptySlotIsUnknown(t *testing.T) {
	var d Dirent_t
	if d.Type != FT_UNKNOWN {
		t.Errorf("zero-value Dirent_t.Type = %v, want FT_UNKNOWN", d.Type)
	}
}
