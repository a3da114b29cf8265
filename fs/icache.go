package fs

import (
	"unsafe"

	"xunos/defs"
	"xunos/heap"
	"xunos/irq"
)

// inodeSector returns the sector (relative to the partition) and the
// byte offset within it that holds inode no. inodeDiskSize is padded so
// BLOCK_SIZE divides evenly (inodesPerBlock inodes per sector), so unlike
// the general case described in §4.7 an inode here never actually spans
// two sectors — documented at inodeDiskSize's definition.
func inodeSector(p *Partition_t, no uint32) (uint32, int) {
	idx := no / uint32(inodesPerBlock)
	off := int(no%uint32(inodesPerBlock)) * inodeDiskSize
	return p.SB.InodeTableLBA() + idx, off
}

func readInodeFromDisk(p *Partition_t, no uint32) (*Inode_t, defs.Err_t) {
	lba, off := inodeSector(p, no)
	var sector [defs.BLOCK_SIZE]byte
	if err := p.readSector(lba, sector[:]); err != 0 {
		return nil, err
	}
	ino := decodeInode(sector[off : off+inodeDiskSize])
	ino.part = p
	return ino, 0
}

func writeInodeToDisk(p *Partition_t, ino *Inode_t) defs.Err_t {
	lba, off := inodeSector(p, ino.INo)
	var sector [defs.BLOCK_SIZE]byte
	if err := p.readSector(lba, sector[:]); err != 0 {
		return err
	}
	ino.encode(sector[off : off+inodeDiskSize])
	return p.writeSector(lba, sector[:])
}

func findOpenInode(p *Partition_t, no uint32) *Inode_t {
	var found *Inode_t
	p.openInodes.Apply(func(owner interface{}) {
		if found != nil {
			return
		}
		ino := owner.(*Inode_t)
		if ino.INo == no {
			found = ino
		}
	})
	return found
}

// kernelHeapNewInode allocates a zeroed Inode_t on the kernel heap (§9's
// "pretend to be a kernel thread" trick, re-expressed literally as the
// explicit kernel_heap_alloc API the design note calls for: heap.Alloc
// never consults the current task, so inodes are shared across every
// process that opens them regardless of which one happens to trigger the
// cache miss).
func kernelHeapNewInode() *Inode_t {
	addr, err := heap.Alloc(int(unsafe.Sizeof(Inode_t{})))
	if err != 0 {
		panic("fs: out of kernel heap allocating an inode")
	}
	return (*Inode_t)(unsafe.Pointer(addr))
}

func kernelHeapFreeInode(ino *Inode_t) {
	heap.Free(uintptr(unsafe.Pointer(ino)))
}

// inodeOpen returns the shared in-memory Inode_t for inode number no,
// bumping its reference count on a cache hit or loading it from disk into
// a freshly kernel-heap-allocated record on a miss (§4.7).
func inodeOpen(p *Partition_t, no uint32) (*Inode_t, defs.Err_t) {
	if no >= defs.INODE_COUNT {
		return nil, defs.EINVAL
	}
	if cached := findOpenInode(p, no); cached != nil {
		cached.OpenCnt++
		return cached, 0
	}
	disk, err := readInodeFromDisk(p, no)
	if err != 0 {
		return nil, err
	}
	ino := kernelHeapNewInode()
	*ino = *disk
	ino.OpenCnt = 1
	ino.part = p
	p.openInodes.PushBack(&ino.link, ino)
	return ino, 0
}

// inodeClose decrements ino's reference count, freeing it back to the
// kernel heap once the last reference drops (§4.7). List mutation runs
// with interrupts disabled (§5).
func inodeClose(ino *Inode_t) {
	old := irq.Disable()
	ino.OpenCnt--
	last := ino.OpenCnt == 0
	if last {
		ino.part.openInodes.Remove(&ino.link)
	}
	irq.Set(old)
	if last {
		kernelHeapFreeInode(ino)
	}
}

// inodeSync writes ino's on-disk fields back to the inode table, leaving
// the in-memory copies of OpenCnt/WriteDeny untouched (they are never part
// of the on-disk record, per encode's field list — §4.7's "with inode_tag,
// open_cnt, write_deny zeroed" falls out for free since encode only ever
// serializes INo/Size/Blocks).
func inodeSync(ino *Inode_t) defs.Err_t {
	return writeInodeToDisk(ino.part, ino)
}
