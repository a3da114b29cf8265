// Global and per-task file descriptor tables (§3, §4.7): a 32-slot global
// open-file table shared by every process, and each task's own 16-slot
// fd_table pointing into it. The first three global slots and fds 0/1/2
// are reserved for stdin/stdout/stderr and never participate in the
// Inode_t-backed allocation below — read/write special-case fd 0 and 1/2
// directly (§4.7: "route fd 1 -> console", "fd 0 -> drain keyboard ring")
// rather than resolving them through this table.
package fs

import (
	"xunos/defs"
	"xunos/ksync"
	"xunos/sched"
)

// OpenFile_t is one global file_table entry (§3). inode_ptr == nil iff the
// slot is free, except for the three reserved stdio slots which are
// always considered in use regardless of Inode.
type OpenFile_t struct {
	Pos   int64
	Flags defs.Open_flag_t
	Inode *Inode_t
	IsDir bool
}

const reservedSlots = 3

var fileTable [defs.GLOBAL_FILE_TABLE_SIZE]OpenFile_t
var fileTableLock = ksync.NewLock()

// allocGlobalSlot finds a free file_table slot starting at index 3 (§5:
// "slot acquisition walks linearly starting from index 3").
func allocGlobalSlot() (int, defs.Err_t) {
	fileTableLock.Acquire()
	defer fileTableLock.Release()
	for i := reservedSlots; i < len(fileTable); i++ {
		if fileTable[i].Inode == nil {
			return i, 0
		}
	}
	return -1, defs.ENFILE
}

func freeGlobalSlot(i int) {
	fileTableLock.Acquire()
	defer fileTableLock.Release()
	fileTable[i] = OpenFile_t{}
}

// allocFd finds a free fd_table slot in t starting at index 3 (0/1/2 are
// reserved, §3).
func allocFd(t *sched.Task_t) (int32, defs.Err_t) {
	for i := reservedSlots; i < len(t.FdTable); i++ {
		if t.FdTable[i] == -1 {
			return int32(i), 0
		}
	}
	return -1, defs.EMFILE
}

func globalSlotOf(t *sched.Task_t, fd int32) (int32, defs.Err_t) {
	if fd < 0 || int(fd) >= len(t.FdTable) {
		return -1, defs.EBADF
	}
	slot := t.FdTable[fd]
	if slot < 0 {
		return -1, defs.EBADF
	}
	return slot, 0
}
