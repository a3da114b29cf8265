package fs

import (
	"testing"

	"xunos/defs"
)

func TestComputeLayoutRegionsDoNotOverlap(t *testing.T) {
	l := computeLayout(200000)

	if l.inodeBitmapLBA != 2 {
		t.Errorf("inodeBitmapLBA = %d, want 2 (after boot+superblock)", l.inodeBitmapLBA)
	}
	if l.inodeTableLBA != l.inodeBitmapLBA+l.inodeBitmapLen {
		t.Errorf("inodeTableLBA = %d, want %d", l.inodeTableLBA, l.inodeBitmapLBA+l.inodeBitmapLen)
	}
	if l.blockBitmapLBA != l.inodeTableLBA+l.inodeTableLen {
		t.Errorf("blockBitmapLBA = %d, want %d", l.blockBitmapLBA, l.inodeTableLBA+l.inodeTableLen)
	}
	if l.dataStartLBA != l.blockBitmapLBA+l.blockBitmapLen {
		t.Errorf("dataStartLBA = %d, want %d", l.dataStartLBA, l.blockBitmapLBA+l.blockBitmapLen)
	}
}

// TestComputeLayoutBlockBitmapCoversData checks the fixed-point the spec's
// iterative solve (§4.7) converges to: the block bitmap's own sector count
// must be large enough to address every sector left over once every other
// region (including the bitmap itself) has been carved out.
func TestComputeLayoutBlockBitmapCoversData(t *testing.T) {
	total := uint32(500000)
	l := computeLayout(total)

	used := l.blockBitmapLBA // everything before the block bitmap
	dataSectors := total - used - l.blockBitmapLen
	need := (dataSectors + bitsPerSector - 1) / bitsPerSector
	if need != l.blockBitmapLen {
		t.Errorf("blockBitmapLen = %d does not cover %d data sectors (needs %d)",
			l.blockBitmapLen, dataSectors, need)
	}
}

func TestComputeLayoutInodeRegionSizedForInodeCount(t *testing.T) {
	l := computeLayout(100000)
	wantInodeBitmapLen := uint32((defs.INODE_COUNT + bitsPerSector - 1) / bitsPerSector)
	if l.inodeBitmapLen != wantInodeBitmapLen {
		t.Errorf("inodeBitmapLen = %d, want %d", l.inodeBitmapLen, wantInodeBitmapLen)
	}
}
