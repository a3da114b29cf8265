package defs

// Hardware I/O ports and interrupt vectors (§6). Grounded directly on the
// teacher's defs/device.go, which centralizes the same sort of numeric
// hardware facts (major/minor device encodings) in one place.
const (
	PIC_MASTER_CMD  = 0x20
	PIC_MASTER_DATA = 0x21
	PIC_SLAVE_CMD   = 0xA0
	PIC_SLAVE_DATA  = 0xA1

	PIT_CHAN0 = 0x40
	PIT_CMD   = 0x43

	KBD_DATA = 0x60

	IDE_PRIMARY_BASE   = 0x1F0
	IDE_PRIMARY_CTRL   = 0x3F6
	IDE_SECONDARY_BASE = 0x170
	IDE_SECONDARY_CTRL = 0x376

	VGA_CRTC_INDEX = 0x3D4
	VGA_CRTC_DATA  = 0x3D5
	VGA_FB_LINEAR  = 0xB8000

	VEC_TIMER     = 0x20
	VEC_KEYBOARD  = 0x21
	VEC_IDE_PRIM  = 0x2E
	VEC_IDE_SEC   = 0x2F
	VEC_SYSCALL   = 0x80
	VEC_PAGEFAULT = 0x0E

	IDT_ENTRIES = 0x30 // vectors 0x00-0x2F; 0x80 (syscall) is routed separately
)

// Syscall_t is the stable, ordered syscall number enum (§6, §4.8). The first
// entries' order is mandated by the spec; numbering anything beyond that is
// an implementation choice, kept contiguous like the teacher's D_* device
// constant block.
type Syscall_t uint32

const (
	SYS_GETPID Syscall_t = iota
	SYS_WRITE
	SYS_READ
	SYS_MALLOC
	SYS_FREE
	SYS_FORK
	SYS_OPEN
	SYS_CLOSE
	SYS_LSEEK
	SYS_UNLINK
	SYS_MKDIR
	SYS_RMDIR
	SYS_OPENDIR
	SYS_CLOSEDIR
	SYS_READDIR
	SYS_REWINDDIR
	SYS_GETCWD
	SYS_CHDIR
	SYS_STAT
	SYS_PS
	SYS_CLEAR
	SYS_EXECV
)
