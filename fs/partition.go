package fs

import (
	"xunos/bitmap"
	"xunos/defs"
	"xunos/ide"
	"xunos/ilist"
	"xunos/ksync"
)

// Partition_t is the unit a filesystem is mounted on (§3): a slice of a
// disk plus its superblock, bitmaps, and the open-inode cache every
// inode_open/inode_close call in this package walks.
//
// Grounded on the teacher's fs/super.go field-reader pattern for the
// superblock shape and fs/blk.go's cache-list idiom for open_inodes;
// distinct from ide.Partition_t (the bare MBR scan result this wraps) the
// way the teacher's fs.Ufs_t wraps the lower-level fs.FS_t.
type Partition_t struct {
	Disk     *ide.Disk_t
	Name     string
	StartLBA uint32
	Sectors  uint32

	SB *Superblock_t

	BlockBitmap *bitmap.Bitmap_t
	InodeBitmap *bitmap.Bitmap_t

	openInodes ilist.List_t
	// lock serializes open-inode list mutation and bitmap allocation
	// together, matching §5's lock-order note that the filesystem's own
	// serialization is "implicit" at the syscall boundary rather than a
	// second independent lock nested under pool_lock/channel_lock.
	lock *ksync.Lock_t
}

func newPartition(raw ide.Partition_t) *Partition_t {
	p := &Partition_t{
		Disk:     raw.Disk,
		Name:     raw.Name,
		StartLBA: raw.StartLBA,
		Sectors:  raw.Sectors,
		lock:     ksync.NewLock(),
	}
	p.openInodes.Init()
	return p
}

// readSector reads sector lba (relative to the partition's own start) into
// buf, which must be exactly BLOCK_SIZE bytes.
func (p *Partition_t) readSector(lba uint32, buf []byte) defs.Err_t {
	req := &ide.Request_t{LBA: p.StartLBA + lba, Sectors: 1, Buf: buf}
	return p.Disk.Channel.Do(p.Disk, req)
}

// writeSector writes buf (exactly BLOCK_SIZE bytes) to sector lba relative
// to the partition's own start.
func (p *Partition_t) writeSector(lba uint32, buf []byte) defs.Err_t {
	req := &ide.Request_t{LBA: p.StartLBA + lba, Sectors: 1, Buf: buf, Write: true}
	return p.Disk.Channel.Do(p.Disk, req)
}

// CurPart is the single mounted partition the spec's global state calls
// for (§9: "cur_part"). The only default mount is sdb1 (§4.7).
var CurPart *Partition_t
