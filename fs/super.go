// Package fs is the on-disk filesystem (§2.6, §4.7): superblock, block and
// inode bitmaps, a flat inode table with direct and single-indirect block
// pointers, directory entries, an open-inode cache, and the global/per-task
// file-descriptor tables every syscall in `sys` ultimately reaches into.
//
// Grounded on the teacher's `fs/super.go` (`Superblock_t`: typed field
// accessors over a raw on-disk page via `fieldr`/`fieldw`) for the
// superblock shape, adapted to the spec's own field list (§3) rather than
// the teacher's log-structured one, and on `fs/blk.go`'s `Bdev_block_t`/
// cache-list idioms for the open-inode list. The teacher's filesystem is
// journaled and COW; this one is neither (§1's non-goals), so only the
// plain superblock/inode/bitmap shapes carry over.
package fs

import (
	"encoding/binary"

	"xunos/defs"
)

// Magic identifies a formatted XUN-OS partition (§3).
const Magic = 0x20011124

// Superblock byte offsets, one sector (defs.BLOCK_SIZE) wide.
const (
	sbMagic          = 0
	sbTotalSectors   = 4
	sbInodeCount     = 8
	sbPartitionLBA   = 12
	sbBlockBitLBA    = 16
	sbBlockBitLen    = 20
	sbInodeBitLBA    = 24
	sbInodeBitLen    = 28
	sbInodeTableLBA  = 32
	sbInodeTableLen  = 36
	sbDataStartLBA   = 40
	sbRootInode      = 44
	sbDirEntrySize   = 48
)

// Superblock_t is the on-disk superblock (one 512 B sector), held in
// memory as a raw byte image with typed field accessors in the teacher's
// fieldr/fieldw style.
type Superblock_t struct {
	Data [defs.BLOCK_SIZE]byte
}

func (s *Superblock_t) r32(off int) uint32 {
	return binary.LittleEndian.Uint32(s.Data[off : off+4])
}

func (s *Superblock_t) w32(off int, v uint32) {
	binary.LittleEndian.PutUint32(s.Data[off:off+4], v)
}

func (s *Superblock_t) MagicField() uint32        { return s.r32(sbMagic) }
func (s *Superblock_t) TotalSectors() uint32       { return s.r32(sbTotalSectors) }
func (s *Superblock_t) InodeCount() uint32         { return s.r32(sbInodeCount) }
func (s *Superblock_t) PartitionLBA() uint32       { return s.r32(sbPartitionLBA) }
func (s *Superblock_t) BlockBitmapLBA() uint32     { return s.r32(sbBlockBitLBA) }
func (s *Superblock_t) BlockBitmapLen() uint32     { return s.r32(sbBlockBitLen) }
func (s *Superblock_t) InodeBitmapLBA() uint32     { return s.r32(sbInodeBitLBA) }
func (s *Superblock_t) InodeBitmapLen() uint32     { return s.r32(sbInodeBitLen) }
func (s *Superblock_t) InodeTableLBA() uint32      { return s.r32(sbInodeTableLBA) }
func (s *Superblock_t) InodeTableLen() uint32      { return s.r32(sbInodeTableLen) }
func (s *Superblock_t) DataStartLBA() uint32       { return s.r32(sbDataStartLBA) }
func (s *Superblock_t) RootInode() uint32          { return s.r32(sbRootInode) }
func (s *Superblock_t) DirEntrySize() uint32       { return s.r32(sbDirEntrySize) }

func (s *Superblock_t) SetMagic(v uint32)          { s.w32(sbMagic, v) }
func (s *Superblock_t) SetTotalSectors(v uint32)   { s.w32(sbTotalSectors, v) }
func (s *Superblock_t) SetInodeCount(v uint32)     { s.w32(sbInodeCount, v) }
func (s *Superblock_t) SetPartitionLBA(v uint32)   { s.w32(sbPartitionLBA, v) }
func (s *Superblock_t) SetBlockBitmapLBA(v uint32) { s.w32(sbBlockBitLBA, v) }
func (s *Superblock_t) SetBlockBitmapLen(v uint32) { s.w32(sbBlockBitLen, v) }
func (s *Superblock_t) SetInodeBitmapLBA(v uint32) { s.w32(sbInodeBitLBA, v) }
func (s *Superblock_t) SetInodeBitmapLen(v uint32) { s.w32(sbInodeBitLen, v) }
func (s *Superblock_t) SetInodeTableLBA(v uint32)  { s.w32(sbInodeTableLBA, v) }
func (s *Superblock_t) SetInodeTableLen(v uint32)  { s.w32(sbInodeTableLen, v) }
func (s *Superblock_t) SetDataStartLBA(v uint32)   { s.w32(sbDataStartLBA, v) }
func (s *Superblock_t) SetRootInode(v uint32)      { s.w32(sbRootInode, v) }
func (s *Superblock_t) SetDirEntrySize(v uint32)   { s.w32(sbDirEntrySize, v) }
