package ide

import (
	"testing"

	"xunos/defs"
)

func TestDiskTimeoutMatchesThirtySecondsAtOneHundredHertz(t *testing.T) {
	if defs.DISK_TIMEOUT_TICKS != 3000 {
		t.Fatalf("30s timeout at 100Hz should be 3000 ticks, got %d", defs.DISK_TIMEOUT_TICKS)
	}
}

func TestSectorCountRegisterEncodingWrapsAt256(t *testing.T) {
	cases := []struct {
		sectors int
		want    byte
	}{
		{1, 1},
		{255, 255},
		{256, 0}, // 0 means 256 sectors per the 8-bit register
	}
	for _, c := range cases {
		got := byte(c.sectors)
		if c.sectors == 256 {
			got = 0
		}
		if got != c.want {
			t.Fatalf("sectors=%d: got %d, want %d", c.sectors, got, c.want)
		}
	}
}
