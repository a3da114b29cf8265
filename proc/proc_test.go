package proc

import "testing"

func TestUpdateTSSCallsRegisteredHook(t *testing.T) {
	var got uintptr
	InitTSSHook(func(esp0 uintptr) { got = esp0 })
	defer InitTSSHook(nil)

	UpdateTSS(0xDEAD000)
	if got != 0xDEAD000 {
		t.Fatalf("hook received %#x, want %#x", got, 0xDEAD000)
	}
}

func TestUpdateTSSWithoutHookIsNoOp(t *testing.T) {
	InitTSSHook(nil)
	UpdateTSS(0x1000) // must not panic with no hook registered
}
