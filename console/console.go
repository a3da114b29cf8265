// Package console is the serialized text-output collaborator fd 1/2 write
// to (§2.8, §6). VGA text-mode CRTC programming and the actual framebuffer
// write are out-of-scope thin collaborators (§1: "VGA text-mode console
// printing ... contribute little design insight and are replaceable
// without changing the core"); this package owns only the part that does
// carry design weight — serializing concurrent writers from multiple
// tasks onto one output stream — behind a `Sink` interface the boot
// collaborator plugs a real framebuffer writer into.
//
// Grounded on the teacher's own kernel-console idiom of calling straight
// into `fmt.Printf` from privileged code (see irq.defaultHandler's fatal-
// exception dump), with the serialization lock added per §2.8's "serialized
// console output" since the teacher's single-goroutine panic path never
// needed one.
package console

import (
	"fmt"
	"io"
	"os"

	"xunos/ksync"
)

// Sink is anything capable of receiving raw console bytes. The default is
// os.Stdout, standing in for the out-of-scope VGA text-mode writer; boot
// code may call SetSink to point at a real framebuffer driver instead.
type Sink interface {
	Write(p []byte) (int, error)
}

var (
	sink io.Writer = os.Stdout
	lock           = ksync.NewLock()
)

// SetSink replaces the underlying output sink.
func SetSink(s Sink) {
	sink = s
}

// Write serializes p onto the console a line at a time from the caller's
// point of view: concurrent writers never interleave mid-write (§2.8).
func Write(p []byte) (int, error) {
	lock.Acquire()
	defer lock.Release()
	return sink.Write(p)
}

// Printf formats and writes under the same serialization as Write, the
// kernel's one-line diagnostic path (§7: "printk/console prints a
// one-line diagnostic with the offending path, fd, or LBA").
func Printf(format string, args ...interface{}) {
	lock.Acquire()
	defer lock.Release()
	fmt.Fprintf(sink, format, args...)
}
