package fs

import (
	"xunos/bitmap"
	"xunos/defs"
	"xunos/ide"
)

// layout is the sector-offset plan Format computes for a freshly
// partitioned disk (§4.7): boot(1) + superblock(1) are fixed; inode bitmap,
// inode table and block bitmap lengths follow from INODE_COUNT and the
// partition's own size.
type layout struct {
	inodeBitmapLBA, inodeBitmapLen uint32
	inodeTableLBA, inodeTableLen   uint32
	blockBitmapLBA, blockBitmapLen uint32
	dataStartLBA                  uint32
}

const bitsPerSector = defs.BLOCK_SIZE * 8

// computeLayout derives every region's LBA and length from the partition's
// total sector count. The block bitmap's own length is self-referential
// (the bitmap must cover the data region, but the bitmap itself eats into
// that region), so it is solved by the iteration the spec calls for:
// "initial estimate, deduct itself, re-estimate" (§4.7).
func computeLayout(totalSectors uint32) layout {
	var l layout

	l.inodeBitmapLen = uint32((defs.INODE_COUNT + bitsPerSector - 1) / bitsPerSector)
	l.inodeTableLen = uint32((defs.INODE_COUNT*inodeDiskSize + defs.BLOCK_SIZE - 1) / defs.BLOCK_SIZE)

	used := uint32(2) // boot record + superblock
	l.inodeBitmapLBA = used
	used += l.inodeBitmapLen
	l.inodeTableLBA = used
	used += l.inodeTableLen

	blockBitmapLen := uint32(1)
	for {
		dataSectors := totalSectors - used - blockBitmapLen
		need := uint32((dataSectors + bitsPerSector - 1) / bitsPerSector)
		if need == blockBitmapLen {
			break
		}
		blockBitmapLen = need
	}
	l.blockBitmapLen = blockBitmapLen
	l.blockBitmapLBA = used
	l.dataStartLBA = used + blockBitmapLen
	return l
}

// Format writes a fresh XUN-OS filesystem onto raw and returns the mounted
// Partition_t (§4.7). Called by mountOne for any partition whose sector
// start_lba+1 does not already carry the magic.
func Format(raw ide.Partition_t) (*Partition_t, defs.Err_t) {
	p := newPartition(raw)
	l := computeLayout(raw.Sectors)

	sb := &Superblock_t{}
	sb.SetMagic(Magic)
	sb.SetTotalSectors(raw.Sectors)
	sb.SetInodeCount(defs.INODE_COUNT)
	sb.SetPartitionLBA(raw.StartLBA)
	sb.SetBlockBitmapLBA(l.blockBitmapLBA)
	sb.SetBlockBitmapLen(l.blockBitmapLen)
	sb.SetInodeBitmapLBA(l.inodeBitmapLBA)
	sb.SetInodeBitmapLen(l.inodeBitmapLen)
	sb.SetInodeTableLBA(l.inodeTableLBA)
	sb.SetInodeTableLen(l.inodeTableLen)
	sb.SetDataStartLBA(l.dataStartLBA)
	sb.SetRootInode(0)
	sb.SetDirEntrySize(dirEntSize)
	p.SB = sb

	p.InodeBitmap = bitmap.New(defs.INODE_COUNT)
	p.InodeBitmap.Set(0) // reserve root (§4.7)

	dataSectors := int(l.blockBitmapLen) * bitsPerSector
	p.BlockBitmap = bitmap.New(dataSectors)
	p.BlockBitmap.Set(0) // root's first data block

	if err := writeZeroedBitmapSectors(p, l.inodeBitmapLBA, l.inodeBitmapLen, p.InodeBitmap); err != 0 {
		return nil, err
	}
	if err := writeZeroedBitmapSectors(p, l.blockBitmapLBA, l.blockBitmapLen, p.BlockBitmap); err != 0 {
		return nil, err
	}

	root := &Inode_t{INo: 0, Size: 2 * dirEntSize, part: p}
	root.Blocks[0] = l.dataStartLBA
	if err := writeInodeToDisk(p, root); err != 0 {
		return nil, err
	}

	var dirBlock [defs.BLOCK_SIZE]byte
	writeDirentAt(dirBlock[:], 0, newDirent(".", 0, FT_DIRECTORY))
	writeDirentAt(dirBlock[:], 1, newDirent("..", 0, FT_DIRECTORY))
	if err := p.writeSector(l.dataStartLBA, dirBlock[:]); err != 0 {
		return nil, err
	}

	if err := writeSuperblock(p); err != 0 {
		return nil, err
	}
	return p, 0
}

func writeSuperblock(p *Partition_t) defs.Err_t {
	return p.writeSector(1, p.SB.Data[:])
}

// writeZeroedBitmapSectors writes the in-memory bitmap's current contents
// out across its on-disk sector run. Per §8's redesign note on
// bitmap_sync's sector-alignment bug, each sector holds exactly
// bitsPerSector bits of the bitmap image, addressed plainly rather than by
// the original's off-by-sector multiplication.
func writeZeroedBitmapSectors(p *Partition_t, lba, length uint32, b *bitmap.Bitmap_t) defs.Err_t {
	raw := b.Bytes()
	for i := uint32(0); i < length; i++ {
		var sector [defs.BLOCK_SIZE]byte
		off := int(i) * defs.BLOCK_SIZE
		if off < len(raw) {
			copy(sector[:], raw[off:])
		}
		if err := p.writeSector(lba+i, sector[:]); err != 0 {
			return err
		}
	}
	return 0
}
