package fs

import (
	"xunos/defs"
)

const direntsPerBlock = defs.BLOCK_SIZE / dirEntSize

// blockList returns the absolute LBAs of every data block currently
// allocated to ino, direct blocks first followed by whatever the
// single-indirect table (Blocks[12]) holds (§3, §4.7).
func blockList(ino *Inode_t) ([]uint32, defs.Err_t) {
	n := ino.blockCount()
	if n == 0 {
		return nil, 0
	}
	out := make([]uint32, 0, n)
	direct := n
	if direct > defs.MAX_DIRECT_BLOCKS {
		direct = defs.MAX_DIRECT_BLOCKS
	}
	for i := 0; i < direct; i++ {
		out = append(out, ino.Blocks[i])
	}
	if n > defs.MAX_DIRECT_BLOCKS {
		if ino.Blocks[defs.MAX_DIRECT_BLOCKS] == 0 {
			return nil, defs.EIO
		}
		var indirect [defs.BLOCK_SIZE]byte
		if err := ino.part.readSector(ino.Blocks[defs.MAX_DIRECT_BLOCKS], indirect[:]); err != 0 {
			return nil, err
		}
		need := n - defs.MAX_DIRECT_BLOCKS
		for i := 0; i < need; i++ {
			off := i * 4
			out = append(out, readLE32(indirect[off:off+4]))
		}
	}
	return out, 0
}

// allocBlock reserves one free data block from the partition's block
// bitmap and returns its absolute LBA.
func allocBlock(p *Partition_t) (uint32, defs.Err_t) {
	idx, ok := p.BlockBitmap.AllocOne()
	if !ok {
		return 0, defs.ENOSPC
	}
	if err := syncBitmapBit(p, p.BlockBitmap, p.SB.BlockBitmapLBA(), idx); err != 0 {
		p.BlockBitmap.Free(idx)
		return 0, err
	}
	return p.SB.DataStartLBA() + uint32(idx), 0
}

// freeBlock releases a data block back to the partition's block bitmap.
func freeBlock(p *Partition_t, lba uint32) {
	idx := int(lba - p.SB.DataStartLBA())
	p.BlockBitmap.Free(idx)
	syncBitmapBit(p, p.BlockBitmap, p.SB.BlockBitmapLBA(), idx)
}

// growToBlock makes sure ino has at least n+1 blocks allocated (i.e. a
// valid block index n), allocating a new direct block or growing/
// allocating the indirect table as needed, rolling back anything it
// allocated if a later step fails (§4.7's write-grow rollback).
func growToBlock(ino *Inode_t, n int) defs.Err_t {
	if n < defs.MAX_DIRECT_BLOCKS {
		if ino.Blocks[n] != 0 {
			return 0
		}
		lba, err := allocBlock(ino.part)
		if err != 0 {
			return err
		}
		ino.Blocks[n] = lba
		return 0
	}

	idx := n - defs.MAX_DIRECT_BLOCKS
	if idx >= defs.INDIRECT_PTRS_PER_BLOCK {
		return defs.ENOSPC // beyond the 140-block maximum file size (§3)
	}

	var indirect [defs.BLOCK_SIZE]byte
	newIndirectTable := ino.Blocks[defs.MAX_DIRECT_BLOCKS] == 0
	if newIndirectTable {
		lba, err := allocBlock(ino.part)
		if err != 0 {
			return err
		}
		ino.Blocks[defs.MAX_DIRECT_BLOCKS] = lba
	} else {
		if err := ino.part.readSector(ino.Blocks[defs.MAX_DIRECT_BLOCKS], indirect[:]); err != 0 {
			return err
		}
	}

	if readLE32(indirect[idx*4:idx*4+4]) != 0 {
		return 0
	}
	lba, err := allocBlock(ino.part)
	if err != 0 {
		if newIndirectTable {
			freeBlock(ino.part, ino.Blocks[defs.MAX_DIRECT_BLOCKS])
			ino.Blocks[defs.MAX_DIRECT_BLOCKS] = 0
		}
		return err
	}
	writeLE32(indirect[idx*4:idx*4+4], lba)
	return ino.part.writeSector(ino.Blocks[defs.MAX_DIRECT_BLOCKS], indirect[:])
}

func readLE32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

func writeLE32(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
}

// readDirentBlock reads the data block at lba and decodes every dirent
// slot in it.
func readDirentBlock(p *Partition_t, lba uint32) ([direntsPerBlock]Dirent_t, defs.Err_t) {
	var block [defs.BLOCK_SIZE]byte
	var out [direntsPerBlock]Dirent_t
	if err := p.readSector(lba, block[:]); err != 0 {
		return out, err
	}
	for i := 0; i < direntsPerBlock; i++ {
		out[i] = decodeDirent(block[i*dirEntSize : (i+1)*dirEntSize])
	}
	return out, 0
}

func writeDirentAt(block []byte, slot int, d Dirent_t) {
	d.encode(block[slot*dirEntSize : (slot+1)*dirEntSize])
}

// searchDirEntry scans dir's data blocks for a dirent named name, returning
// its inode number and type (§4.7).
func searchDirEntry(dir *Inode_t, name string) (uint32, File_type_t, bool) {
	lbas, err := blockList(dir)
	if err != 0 {
		return 0, 0, false
	}
	for _, lba := range lbas {
		ents, err := readDirentBlock(dir.part, lba)
		if err != 0 {
			return 0, 0, false
		}
		for _, d := range ents {
			if d.Type != FT_UNKNOWN && d.NameString() == name {
				return d.INo, d.Type, true
			}
		}
	}
	return 0, 0, false
}

// syncDirEntry adds (name -> ino, ftype) to dir, growing dir with a new
// data block (allocating the indirect table too, if slot 12 is needed) if
// every existing block is full. Fails with ENOSPC once dir already uses all
// MAX_FILE_BLOCKS (140) data blocks and every slot in them is occupied (§4.7).
func syncDirEntry(dir *Inode_t, name string, ino uint32, ftype File_type_t) defs.Err_t {
	lbas, err := blockList(dir)
	if err != 0 {
		return err
	}
	for _, lba := range lbas {
		var block [defs.BLOCK_SIZE]byte
		if err := dir.part.readSector(lba, block[:]); err != 0 {
			return err
		}
		for i := 0; i < direntsPerBlock; i++ {
			d := decodeDirent(block[i*dirEntSize : (i+1)*dirEntSize])
			if d.Type == FT_UNKNOWN {
				writeDirentAt(block[:], i, newDirent(name, ino, ftype))
				return dir.part.writeSector(lba, block[:])
			}
		}
	}

	n := len(lbas)
	if n >= defs.MAX_FILE_BLOCKS {
		return defs.ENOSPC
	}
	if err := growToBlock(dir, n); err != 0 {
		return err
	}
	// blockList sizes its result from Size, so Size is extended into the
	// new block before the list is read again.
	dir.Size = uint32(n*defs.BLOCK_SIZE + dirEntSize)
	newLBAs, err := blockList(dir)
	if err != 0 {
		return err
	}
	newLBA := newLBAs[n]
	var block [defs.BLOCK_SIZE]byte // fresh block: every slot starts FT_UNKNOWN
	writeDirentAt(block[:], 0, newDirent(name, ino, ftype))
	if err := dir.part.writeSector(newLBA, block[:]); err != 0 {
		return err
	}
	return inodeSync(dir)
}

// removeDirEntry clears the slot named name in dir by marking it FT_UNKNOWN.
func removeDirEntry(dir *Inode_t, name string) defs.Err_t {
	lbas, err := blockList(dir)
	if err != 0 {
		return err
	}
	for _, lba := range lbas {
		var block [defs.BLOCK_SIZE]byte
		if err := dir.part.readSector(lba, block[:]); err != 0 {
			return err
		}
		changed := false
		for i := 0; i < direntsPerBlock; i++ {
			d := decodeDirent(block[i*dirEntSize : (i+1)*dirEntSize])
			if d.Type != FT_UNKNOWN && d.NameString() == name {
				writeDirentAt(block[:], i, Dirent_t{})
				changed = true
				break
			}
		}
		if changed {
			return dir.part.writeSector(lba, block[:])
		}
	}
	return defs.ENOENT
}

// reverseLookup finds the name of the entry in dir whose inode number is
// target, skipping "." and ".." (used by getcwd, §4.7).
func reverseLookup(dir *Inode_t, target uint32) (string, bool) {
	lbas, err := blockList(dir)
	if err != 0 {
		return "", false
	}
	for _, lba := range lbas {
		ents, err := readDirentBlock(dir.part, lba)
		if err != 0 {
			return "", false
		}
		for _, d := range ents {
			if d.Type == FT_UNKNOWN || d.INo != target {
				continue
			}
			name := d.NameString()
			if name == "." || name == ".." {
				continue
			}
			return name, true
		}
	}
	return "", false
}

// dirEntryCount counts non-empty slots in dir, used by rmdir's
// empty-directory check (§4.7).
func dirEntryCount(dir *Inode_t) (int, defs.Err_t) {
	lbas, err := blockList(dir)
	if err != 0 {
		return 0, err
	}
	n := 0
	for _, lba := range lbas {
		ents, err := readDirentBlock(dir.part, lba)
		if err != 0 {
			return 0, err
		}
		for _, d := range ents {
			if d.Type != FT_UNKNOWN {
				n++
			}
		}
	}
	return n, 0
}
