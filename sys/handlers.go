package sys

import (
	"encoding/binary"

	"xunos/console"
	"xunos/defs"
	"xunos/fs"
	"xunos/heap"
	"xunos/sched"
)

func sysGetpid(t *sched.Task_t, a0, a1, a2 uint32) int32 {
	return int32(t.Pid)
}

func sysWrite(t *sched.Task_t, fd, bufAddr, count uint32) int32 {
	n, err := fs.Write(t, int32(fd), userBytes(bufAddr, count))
	if err != 0 {
		return packErr(err)
	}
	return int32(n)
}

func sysRead(t *sched.Task_t, fd, bufAddr, count uint32) int32 {
	n, err := fs.Read(t, int32(fd), userBytes(bufAddr, count))
	if err != 0 {
		return packErr(err)
	}
	return int32(n)
}

func sysMalloc(t *sched.Task_t, size, a1, a2 uint32) int32 {
	addr, err := heap.Alloc(int(size))
	if err != 0 {
		return packErr(err)
	}
	return int32(addr)
}

func sysFree(t *sched.Task_t, addr, a1, a2 uint32) int32 {
	heap.Free(uintptr(addr))
	return 0
}

// sysFork and sysExecv are the two syscalls the spec names but explicitly
// scopes out ("fork/execv user-process bootstrap" — §1's thin-collaborator
// list): a real fork needs to copy a user address space and a real execv
// needs an ELF-ish loader, neither of which this kernel's memory model
// builds. What's left is the kernel-side bookkeeping these two calls would
// still need to do regardless of loader details, which is what's
// implemented here.

// sysFork copies the calling task's cwd and fd table onto a freshly
// spawned task and returns the child's pid to the parent. The fd entries
// are the parent's global file_table slot indices, copied as they are; no
// open count on those slots or their inodes is raised. The child never resumes the parent's user-mode execution
// context — that half is the out-of-scope address-space duplication — so
// it runs one trampoline that immediately exits.
func sysFork(t *sched.Task_t, a0, a1, a2 uint32) int32 {
	child := sched.Spawn(t.NameString(), t.Priority, func(uintptr) {}, 0)
	child.CwdInode = t.CwdInode
	// Sharing the parent's global file_table slot index (rather than
	// allocating a new one) gives the child the same open file
	// description POSIX fork grants it, offset included.
	for i, slot := range t.FdTable {
		child.FdTable[i] = slot
	}
	return int32(child.Pid)
}

// sysExecv has no process image to load without the out-of-scope ELF
// loader; it reports failure rather than silently no-op'ing.
func sysExecv(t *sched.Task_t, pathAddr, a1, a2 uint32) int32 {
	console.Printf("execv: %s: no loader (out of scope)\n", userString(pathAddr))
	return packErr(defs.EINVAL)
}

func sysOpen(t *sched.Task_t, pathAddr, flag, a2 uint32) int32 {
	fd, err := fs.Open(t, userString(pathAddr), defs.Open_flag_t(flag))
	if err != 0 {
		return packErr(err)
	}
	return fd
}

func sysClose(t *sched.Task_t, fd, a1, a2 uint32) int32 {
	if err := fs.Close(t, int32(fd)); err != 0 {
		return packErr(err)
	}
	return 0
}

func sysLseek(t *sched.Task_t, fd, offset, whence uint32) int32 {
	pos, err := fs.Lseek(t, int32(fd), int64(int32(offset)), defs.Whence_t(whence))
	if err != 0 {
		return packErr(err)
	}
	return int32(pos)
}

func sysUnlink(t *sched.Task_t, pathAddr, a1, a2 uint32) int32 {
	if err := fs.Unlink(userString(pathAddr)); err != 0 {
		return packErr(err)
	}
	return 0
}

func sysMkdir(t *sched.Task_t, pathAddr, a1, a2 uint32) int32 {
	if err := fs.Mkdir(userString(pathAddr)); err != 0 {
		return packErr(err)
	}
	return 0
}

func sysRmdir(t *sched.Task_t, pathAddr, a1, a2 uint32) int32 {
	if err := fs.Rmdir(userString(pathAddr)); err != 0 {
		return packErr(err)
	}
	return 0
}

func sysOpendir(t *sched.Task_t, pathAddr, a1, a2 uint32) int32 {
	fd, err := fs.Opendir(t, userString(pathAddr))
	if err != 0 {
		return packErr(err)
	}
	return fd
}

func sysClosedir(t *sched.Task_t, fd, a1, a2 uint32) int32 {
	if err := fs.Closedir(t, int32(fd)); err != 0 {
		return packErr(err)
	}
	return 0
}

// sysReaddir copies the next entry's NUL-terminated name into the user
// buffer (truncated to bufLen-1 bytes) and returns 1, or 0 once the
// directory is exhausted (§4.7).
func sysReaddir(t *sched.Task_t, fd, bufAddr, bufLen uint32) int32 {
	name, _, found, err := fs.Readdir(t, int32(fd))
	if err != 0 {
		return packErr(err)
	}
	if !found {
		return 0
	}
	out := userBytes(bufAddr, bufLen)
	n := copy(out[:len(out)-1], name)
	out[n] = 0
	return 1
}

func sysRewinddir(t *sched.Task_t, fd, a1, a2 uint32) int32 {
	if err := fs.Rewinddir(t, int32(fd)); err != 0 {
		return packErr(err)
	}
	return 0
}

func sysGetcwd(t *sched.Task_t, bufAddr, bufLen, a2 uint32) int32 {
	s, err := fs.Getcwd(t)
	if err != 0 {
		return packErr(err)
	}
	out := userBytes(bufAddr, bufLen)
	n := copy(out[:len(out)-1], s)
	out[n] = 0
	return int32(n)
}

func sysChdir(t *sched.Task_t, pathAddr, a1, a2 uint32) int32 {
	if err := fs.Chdir(t, userString(pathAddr)); err != 0 {
		return packErr(err)
	}
	return 0
}

// statBufSize is the fixed on-the-wire layout sys_stat writes: ino(4) +
// size(4) + type(1).
const statBufSize = 9

func sysStat(t *sched.Task_t, pathAddr, bufAddr, a2 uint32) int32 {
	st, err := fs.Stat(userString(pathAddr))
	if err != 0 {
		return packErr(err)
	}
	buf := userBytes(bufAddr, statBufSize)
	binary.LittleEndian.PutUint32(buf[0:4], st.INo)
	binary.LittleEndian.PutUint32(buf[4:8], st.Size)
	buf[8] = byte(st.Type)
	return 0
}

// sysPs prints one line per live task to the console (§6: "ps").
func sysPs(t *sched.Task_t, a0, a1, a2 uint32) int32 {
	sched.AllTasks(func(other *sched.Task_t) {
		console.Printf("%4d %-16s %-8s prio=%d\n",
			other.Pid, other.NameString(), other.Status, other.Priority)
	})
	return 0
}

// sysClear writes the ANSI clear-screen + home-cursor sequence, the
// closest a Sink-agnostic implementation can get without a VGA-specific
// clear primitive (§1: VGA text-mode specifics are an out-of-scope thin
// collaborator).
func sysClear(t *sched.Task_t, a0, a1, a2 uint32) int32 {
	console.Write([]byte("\x1b[2J\x1b[H"))
	return 0
}
