// Package sys is the syscall dispatch table (§4.8, §6): a numbered table
// of zero-to-three-argument kernel functions invoked from the 0x80 entry
// stub, mirroring the teacher's irq package's own vector-indexed handler
// table but keyed by defs.Syscall_t instead of interrupt vector.
package sys

import (
	"xunos/defs"
	"xunos/irq"
	"xunos/sched"
)

// handlerFn is one syscall's implementation: it receives the calling
// task and up to three 32-bit arguments (unused ones are zero) and
// returns the raw value placed back into EAX.
type handlerFn func(t *sched.Task_t, a0, a1, a2 uint32) int32

var table [int(defs.SYS_EXECV) + 1]handlerFn

func register(num defs.Syscall_t, fn handlerFn) {
	table[num] = fn
}

// packErr folds an Err_t into the negative-errno return convention every
// handler in this package uses: 0 on success, -Err_t on failure (§7).
func packErr(err defs.Err_t) int32 {
	return -int32(err)
}

func init() {
	register(defs.SYS_GETPID, sysGetpid)
	register(defs.SYS_WRITE, sysWrite)
	register(defs.SYS_READ, sysRead)
	register(defs.SYS_MALLOC, sysMalloc)
	register(defs.SYS_FREE, sysFree)
	register(defs.SYS_FORK, sysFork)
	register(defs.SYS_OPEN, sysOpen)
	register(defs.SYS_CLOSE, sysClose)
	register(defs.SYS_LSEEK, sysLseek)
	register(defs.SYS_UNLINK, sysUnlink)
	register(defs.SYS_MKDIR, sysMkdir)
	register(defs.SYS_RMDIR, sysRmdir)
	register(defs.SYS_OPENDIR, sysOpendir)
	register(defs.SYS_CLOSEDIR, sysClosedir)
	register(defs.SYS_READDIR, sysReaddir)
	register(defs.SYS_REWINDDIR, sysRewinddir)
	register(defs.SYS_GETCWD, sysGetcwd)
	register(defs.SYS_CHDIR, sysChdir)
	register(defs.SYS_STAT, sysStat)
	register(defs.SYS_PS, sysPs)
	register(defs.SYS_CLEAR, sysClear)
	register(defs.SYS_EXECV, sysExecv)
}

// Init registers the dispatch entry point at vector 0x80 (§4.8: "the 0x80
// entry stub pushes arguments, calls table[eax]"). Until it runs,
// irq.Dispatch panics on VEC_SYSCALL, since no syscall handler is
// registered.
func Init() {
	irq.Register(defs.VEC_SYSCALL, dispatch)
}

// dispatch is the common entry stub's call into Go: it reads the syscall
// number out of EAX, the up-to-three arguments out of EBX/ECX/EDX, looks
// up the handler, and stores the result back into the saved EAX so it is
// visible to the caller after iret (§4.8).
func dispatch(fr *irq.Frame) {
	num := defs.Syscall_t(fr.EAX)
	if int(num) < 0 || int(num) >= len(table) || table[num] == nil {
		fr.EAX = uint32(packErr(defs.EINVAL))
		return
	}
	t := sched.Current()
	ret := table[num](t, fr.EBX, fr.ECX, fr.EDX)
	fr.EAX = uint32(ret)
}
