// File operations and the directory/path syscalls (§4.7): open, close,
// read, write, lseek, unlink, mkdir, rmdir, opendir/closedir/readdir/
// rewinddir, getcwd, chdir, stat. Every multi-step mutator records its
// rollback stage via rollback_t so a failure partway through never leaves
// a half-visible mutation (modulo individual sector writes not themselves
// being atomic — §4.7's acknowledged weakness).
package fs

import (
	"strings"

	"xunos/console"
	"xunos/defs"
	"xunos/kbd"
	"xunos/sched"
)

// Stat_t is the result of sys_stat (§4.7).
type Stat_t struct {
	INo  uint32
	Size uint32
	Type File_type_t
}

// Open resolves path and returns a task-local fd >= 3 on success (§4.7).
func Open(t *sched.Task_t, path string, flag defs.Open_flag_t) (int32, defs.Err_t) {
	ino, rec, err := SearchFile(path)
	var rb rollback_t

	switch err {
	case 0:
		if rec.FileType == FT_DIRECTORY {
			inodeClose(rec.ParentDir)
			return -1, defs.EISDIR
		}
		if flag&defs.O_CREAT != 0 {
			inodeClose(rec.ParentDir)
			return -1, defs.EEXIST
		}
	case defs.ENOENT:
		if flag&defs.O_CREAT == 0 {
			inodeClose(rec.ParentDir)
			return -1, defs.ENOENT
		}
	default:
		return -1, err
	}

	parent := rec.ParentDir
	var target *Inode_t

	if err == 0 {
		target, err = inodeOpen(CurPart, uint32(ino))
		if err != 0 {
			inodeClose(parent)
			return -1, err
		}
	} else {
		no, aerr := allocInodeNo(CurPart)
		if aerr != 0 {
			inodeClose(parent)
			return -1, aerr
		}
		rb.push(func() { freeInodeNo(CurPart, no) })

		fresh := &Inode_t{INo: no, part: CurPart}
		if serr := writeInodeToDisk(CurPart, fresh); serr != 0 {
			rb.unwind()
			inodeClose(parent)
			return -1, serr
		}

		name := baseName(path)
		if derr := syncDirEntry(parent, name, no, FT_REGULAR); derr != 0 {
			rb.unwind()
			inodeClose(parent)
			return -1, derr
		}
		rb.push(func() { removeDirEntry(parent, name) })

		target, err = inodeOpen(CurPart, no)
		if err != 0 {
			rb.unwind()
			inodeClose(parent)
			return -1, err
		}
	}
	inodeClose(parent)

	slot, serr := allocGlobalSlot()
	if serr != 0 {
		inodeClose(target)
		rb.unwind()
		return -1, serr
	}
	fileTable[slot] = OpenFile_t{Flags: flag, Inode: target}

	fd, ferr := allocFd(t)
	if ferr != 0 {
		freeGlobalSlot(slot)
		inodeClose(target)
		rb.unwind()
		return -1, ferr
	}
	t.FdTable[fd] = int32(slot)
	return fd, 0
}

func baseName(path string) string {
	parts := splitPath(path)
	if len(parts) == 0 {
		return ""
	}
	return parts[len(parts)-1]
}

// Close releases fd, which must be >= 3 (§4.7: "only for fd >= 3").
func Close(t *sched.Task_t, fd int32) defs.Err_t {
	if fd < reservedSlots {
		return defs.EBADF
	}
	slot, err := globalSlotOf(t, fd)
	if err != 0 {
		return err
	}
	of := &fileTable[slot]
	inodeClose(of.Inode)
	freeGlobalSlot(int(slot))
	t.FdTable[fd] = -1
	return 0
}

// Write writes count bytes from buf to fd, routing fd 1/2 straight to the
// console (§4.7).
func Write(t *sched.Task_t, fd int32, buf []byte) (int, defs.Err_t) {
	if fd == defs.FD_STDOUT || fd == defs.FD_STDERR {
		n, _ := console.Write(buf)
		return n, 0
	}
	slot, err := globalSlotOf(t, fd)
	if err != 0 {
		return 0, err
	}
	of := &fileTable[slot]
	if !of.Flags.Writable() {
		return 0, defs.EACCES
	}
	ino := of.Inode
	pos := int(of.Pos)
	end := pos + len(buf)

	curBlocks := ino.blockCount()
	neededBlocks := (end + defs.BLOCK_SIZE - 1) / defs.BLOCK_SIZE

	var rb rollback_t
	for b := curBlocks; b < neededBlocks; b++ {
		if gerr := growToBlock(ino, b); gerr != 0 {
			rb.unwind()
			return 0, gerr
		}
		blk := b
		rb.push(func() { shrinkBlock(ino, blk) })
	}

	// blockList sizes its result from ino.Size, so Size covers end before
	// the blocks are listed; a failed write restores the old Size.
	oldSize := ino.Size
	if uint32(end) > ino.Size {
		ino.Size = uint32(end)
	}
	fail := func() { ino.Size = oldSize; rb.unwind() }
	lbas, lerr := blockList(ino)
	if lerr != 0 {
		fail()
		return 0, lerr
	}

	written := 0
	remaining := buf
	for pos < end {
		blkIdx := pos / defs.BLOCK_SIZE
		off := pos % defs.BLOCK_SIZE
		n := defs.BLOCK_SIZE - off
		if n > len(remaining) {
			n = len(remaining)
		}

		var sector [defs.BLOCK_SIZE]byte
		if off != 0 || n != defs.BLOCK_SIZE {
			if rerr := ino.part.readSector(lbas[blkIdx], sector[:]); rerr != 0 {
				fail()
				return written, rerr
			}
		}
		copy(sector[off:off+n], remaining[:n])
		if werr := ino.part.writeSector(lbas[blkIdx], sector[:]); werr != 0 {
			fail()
			return written, werr
		}

		pos += n
		remaining = remaining[n:]
		written += n
	}

	of.Pos += int64(written)
	inodeSync(ino)
	return written, 0
}

// shrinkBlock undoes one growToBlock step on write-grow rollback; it only
// ever needs to free a freshly allocated direct block, since the
// indirect-table case is rolled back internally by growToBlock itself.
func shrinkBlock(ino *Inode_t, idx int) {
	if idx >= defs.MAX_DIRECT_BLOCKS {
		return
	}
	if ino.Blocks[idx] != 0 {
		freeBlock(ino.part, ino.Blocks[idx])
		ino.Blocks[idx] = 0
	}
}

// Read reads up to len(buf) bytes from fd, routing fd 0 to a blocking
// per-character drain of the keyboard ring (§4.7).
func Read(t *sched.Task_t, fd int32, buf []byte) (int, defs.Err_t) {
	if fd == defs.FD_STDIN {
		for i := range buf {
			buf[i] = kbd.Ring.Get()
		}
		return len(buf), 0
	}
	slot, err := globalSlotOf(t, fd)
	if err != 0 {
		return 0, err
	}
	of := &fileTable[slot]
	ino := of.Inode
	count := len(buf)
	avail := int(ino.Size) - int(of.Pos)
	if count > avail {
		count = avail
	}
	if count <= 0 {
		return 0, 0
	}

	lbas, lerr := blockList(ino)
	if lerr != 0 {
		return 0, lerr
	}

	pos := int(of.Pos)
	end := pos + count
	read := 0
	out := buf
	for pos < end {
		blkIdx := pos / defs.BLOCK_SIZE
		off := pos % defs.BLOCK_SIZE
		n := defs.BLOCK_SIZE - off
		if n > end-pos {
			n = end - pos
		}
		var sector [defs.BLOCK_SIZE]byte
		if rerr := ino.part.readSector(lbas[blkIdx], sector[:]); rerr != 0 {
			return read, rerr
		}
		copy(out[:n], sector[off:off+n])
		out = out[n:]
		pos += n
		read += n
	}
	of.Pos += int64(read)
	return read, 0
}

// Lseek repositions fd's cursor, rejecting positions outside [0, size-1]
// (§4.7).
func Lseek(t *sched.Task_t, fd int32, offset int64, whence defs.Whence_t) (int64, defs.Err_t) {
	slot, err := globalSlotOf(t, fd)
	if err != 0 {
		return -1, err
	}
	of := &fileTable[slot]
	var base int64
	switch whence {
	case defs.SEEK_SET:
		base = 0
	case defs.SEEK_CUR:
		base = of.Pos
	case defs.SEEK_END:
		base = int64(of.Inode.Size)
	default:
		return -1, defs.EINVAL
	}
	newPos := base + offset
	if newPos < 0 || newPos >= int64(of.Inode.Size) {
		return -1, defs.EINVAL
	}
	of.Pos = newPos
	return newPos, 0
}

// Unlink removes path's directory entry and releases its inode, failing
// if the target is a directory or still referenced by an open file_table
// slot (§4.7). A second Unlink of the same path returns ENOENT (§8.10).
func Unlink(path string) defs.Err_t {
	ino, rec, err := SearchFile(path)
	if err != 0 {
		if rec != nil {
			inodeClose(rec.ParentDir)
		}
		return err
	}
	parent := rec.ParentDir
	if rec.FileType == FT_DIRECTORY {
		inodeClose(parent)
		return defs.EISDIR
	}
	if inodeIsOpenElsewhere(uint32(ino)) {
		inodeClose(parent)
		return defs.EBUSY
	}

	name := baseName(path)
	if derr := removeDirEntry(parent, name); derr != 0 {
		inodeClose(parent)
		return derr
	}
	inodeClose(parent)

	target, terr := inodeOpen(CurPart, uint32(ino))
	if terr != 0 {
		return terr
	}
	for _, lba := range mustBlockList(target) {
		freeBlock(CurPart, lba)
	}
	freeInodeNo(CurPart, target.INo)
	inodeClose(target)
	return 0
}

func mustBlockList(ino *Inode_t) []uint32 {
	lbas, err := blockList(ino)
	if err != 0 {
		return nil
	}
	return lbas
}

// inodeIsOpenElsewhere reports whether any global file_table slot
// currently references inode no (§4.7's unlink precondition).
func inodeIsOpenElsewhere(no uint32) bool {
	fileTableLock.Acquire()
	defer fileTableLock.Release()
	for i := reservedSlots; i < len(fileTable); i++ {
		if fileTable[i].Inode != nil && fileTable[i].Inode.INo == no {
			return true
		}
	}
	return false
}

// Mkdir creates a new, empty directory at path with "." and ".." entries
// already populated (§4.7, §8.11).
func Mkdir(path string) defs.Err_t {
	_, rec, err := SearchFile(path)
	if err == 0 {
		inodeClose(rec.ParentDir)
		return defs.EEXIST
	}
	if err != defs.ENOENT {
		return err
	}
	parent := rec.ParentDir
	defer inodeClose(parent)

	var rb rollback_t
	no, aerr := allocInodeNo(CurPart)
	if aerr != 0 {
		return aerr
	}
	rb.push(func() { freeInodeNo(CurPart, no) })

	dataLBA, berr := allocBlock(CurPart)
	if berr != 0 {
		rb.unwind()
		return berr
	}
	rb.push(func() { freeBlock(CurPart, dataLBA) })

	fresh := &Inode_t{INo: no, Size: 2 * dirEntSize, part: CurPart}
	fresh.Blocks[0] = dataLBA
	if serr := writeInodeToDisk(CurPart, fresh); serr != 0 {
		rb.unwind()
		return serr
	}

	var block [defs.BLOCK_SIZE]byte
	writeDirentAt(block[:], 0, newDirent(".", no, FT_DIRECTORY))
	writeDirentAt(block[:], 1, newDirent("..", parent.INo, FT_DIRECTORY))
	if werr := CurPart.writeSector(dataLBA, block[:]); werr != 0 {
		rb.unwind()
		return werr
	}

	name := baseName(path)
	if derr := syncDirEntry(parent, name, no, FT_DIRECTORY); derr != 0 {
		rb.unwind()
		return derr
	}
	return 0
}

// Rmdir removes an empty directory (only "." and ".." present) at path.
func Rmdir(path string) defs.Err_t {
	ino, rec, err := SearchFile(path)
	if err != 0 {
		if rec != nil {
			inodeClose(rec.ParentDir)
		}
		return err
	}
	parent := rec.ParentDir
	if rec.FileType != FT_DIRECTORY {
		inodeClose(parent)
		return defs.ENOTDIR
	}

	target, terr := inodeOpen(CurPart, uint32(ino))
	if terr != 0 {
		inodeClose(parent)
		return terr
	}
	n, cerr := dirEntryCount(target)
	if cerr != 0 {
		inodeClose(target)
		inodeClose(parent)
		return cerr
	}
	if n > 2 {
		inodeClose(target)
		inodeClose(parent)
		return defs.ENOTEMPTY
	}

	name := baseName(path)
	if derr := removeDirEntry(parent, name); derr != 0 {
		inodeClose(target)
		inodeClose(parent)
		return derr
	}
	inodeClose(parent)

	for _, lba := range mustBlockList(target) {
		freeBlock(CurPart, lba)
	}
	freeInodeNo(CurPart, target.INo)
	inodeClose(target)
	return 0
}

// Opendir resolves path (which must be a directory) and returns a fd
// readdir/rewinddir/closedir operate on, sharing the same fd/file_table
// machinery as regular files (§4.7).
func Opendir(t *sched.Task_t, path string) (int32, defs.Err_t) {
	ino, rec, err := SearchFile(path)
	if err != 0 {
		if rec != nil {
			inodeClose(rec.ParentDir)
		}
		return -1, err
	}
	inodeClose(rec.ParentDir)
	if rec.FileType != FT_DIRECTORY {
		return -1, defs.ENOTDIR
	}

	target, terr := inodeOpen(CurPart, uint32(ino))
	if terr != 0 {
		return -1, terr
	}

	slot, serr := allocGlobalSlot()
	if serr != 0 {
		inodeClose(target)
		return -1, serr
	}
	fileTable[slot] = OpenFile_t{Inode: target, IsDir: true}

	fd, ferr := allocFd(t)
	if ferr != 0 {
		freeGlobalSlot(slot)
		inodeClose(target)
		return -1, ferr
	}
	t.FdTable[fd] = int32(slot)
	return fd, 0
}

// Closedir releases a directory fd opened by Opendir.
func Closedir(t *sched.Task_t, fd int32) defs.Err_t {
	return Close(t, fd)
}

// Readdir returns the next populated directory entry's name and type, or
// found == false once every slot has been visited (§4.7).
func Readdir(t *sched.Task_t, fd int32) (name string, ftype File_type_t, found bool, err defs.Err_t) {
	slot, gerr := globalSlotOf(t, fd)
	if gerr != 0 {
		return "", 0, false, gerr
	}
	of := &fileTable[slot]
	if !of.IsDir {
		return "", 0, false, defs.EINVAL
	}
	lbas, lerr := blockList(of.Inode)
	if lerr != 0 {
		return "", 0, false, lerr
	}
	for {
		idx := int(of.Pos) / dirEntSize
		if idx >= len(lbas)*direntsPerBlock {
			return "", 0, false, 0
		}
		blk := idx / direntsPerBlock
		slotInBlock := idx % direntsPerBlock
		ents, berr := readDirentBlock(of.Inode.part, lbas[blk])
		if berr != 0 {
			return "", 0, false, berr
		}
		of.Pos += dirEntSize
		d := ents[slotInBlock]
		if d.Type != FT_UNKNOWN {
			return d.NameString(), d.Type, true, 0
		}
	}
}

// Rewinddir resets a directory fd's read cursor to the beginning.
func Rewinddir(t *sched.Task_t, fd int32) defs.Err_t {
	slot, err := globalSlotOf(t, fd)
	if err != 0 {
		return err
	}
	fileTable[slot].Pos = 0
	return 0
}

// Getcwd walks t's current directory up to the root via each directory's
// ".." entry, building the canonical absolute path (§4.7).
func Getcwd(t *sched.Task_t) (string, defs.Err_t) {
	rootNo := CurPart.SB.RootInode()
	cur := uint32(t.CwdInode)
	if cur == rootNo {
		return "/", 0
	}
	var comps []string
	for {
		curIno, err := inodeOpen(CurPart, cur)
		if err != 0 {
			return "", err
		}
		parentNo, _, found := searchDirEntry(curIno, "..")
		if !found {
			inodeClose(curIno)
			return "", defs.EIO
		}
		parentIno, err := inodeOpen(CurPart, parentNo)
		if err != 0 {
			inodeClose(curIno)
			return "", err
		}
		name, ok := reverseLookup(parentIno, cur)
		inodeClose(curIno)
		if !ok {
			inodeClose(parentIno)
			return "", defs.EIO
		}
		comps = append([]string{name}, comps...)
		done := parentNo == rootNo
		inodeClose(parentIno)
		if done {
			break
		}
		cur = parentNo
	}
	return "/" + strings.Join(comps, "/"), 0
}

// Chdir changes t's current working directory to path, which must resolve
// to a directory (§4.7).
func Chdir(t *sched.Task_t, path string) defs.Err_t {
	ino, rec, err := SearchFile(path)
	if err != 0 {
		if rec != nil {
			inodeClose(rec.ParentDir)
		}
		return err
	}
	inodeClose(rec.ParentDir)
	if rec.FileType != FT_DIRECTORY {
		return defs.ENOTDIR
	}
	t.CwdInode = ino
	return 0
}

// Stat returns path's inode number, size and type (§4.7).
func Stat(path string) (Stat_t, defs.Err_t) {
	ino, rec, err := SearchFile(path)
	if err != 0 {
		if rec != nil {
			inodeClose(rec.ParentDir)
		}
		return Stat_t{}, err
	}
	inodeClose(rec.ParentDir)
	target, terr := inodeOpen(CurPart, uint32(ino))
	if terr != 0 {
		return Stat_t{}, terr
	}
	st := Stat_t{INo: target.INo, Size: target.Size, Type: rec.FileType}
	inodeClose(target)
	return st, 0
}
