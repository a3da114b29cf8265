package fs

import "xunos/defs"

// allocInodeNo reserves one free inode number from the partition's inode
// bitmap.
func allocInodeNo(p *Partition_t) (uint32, defs.Err_t) {
	idx, ok := p.InodeBitmap.AllocOne()
	if !ok {
		return 0, defs.ENOSPC
	}
	if err := syncBitmapBit(p, p.InodeBitmap, p.SB.InodeBitmapLBA(), idx); err != 0 {
		p.InodeBitmap.Free(idx)
		return 0, err
	}
	return uint32(idx), 0
}

// freeInodeNo releases an inode number back to the partition's inode
// bitmap.
func freeInodeNo(p *Partition_t, no uint32) {
	p.InodeBitmap.Free(int(no))
	syncBitmapBit(p, p.InodeBitmap, p.SB.InodeBitmapLBA(), int(no))
}
