// Package kbd is the keyboard driver (§4.5): scancode-to-ASCII
// translation and the blocking IO ring consumers read from. Grounded on
// the teacher's circbuf.Circbuf_t for the ring-buffer shape (see
// ring.go) and on the spec's own corrected ioq_wait semantics (§8's
// redesign note) rather than any teacher keyboard driver — the teacher
// targets a hosted environment with no PS/2 controller of its own.
package kbd

import (
	"xunos/defs"
	"xunos/ioport"
	"xunos/irq"
)

type keyRow struct{ lower, upper byte }

// keymap translates make codes below 0x3B; codes with no printable
// mapping are left zero-valued and simply never enqueued.
var keymap = [0x3B]keyRow{
	0x02: {'1', '!'}, 0x03: {'2', '@'}, 0x04: {'3', '#'}, 0x05: {'4', '$'},
	0x06: {'5', '%'}, 0x07: {'6', '^'}, 0x08: {'7', '&'}, 0x09: {'8', '*'},
	0x0A: {'9', '('}, 0x0B: {'0', ')'}, 0x0C: {'-', '_'}, 0x0D: {'=', '+'},

	0x0F: {'\t', '\t'},
	0x10: {'q', 'Q'}, 0x11: {'w', 'W'}, 0x12: {'e', 'E'}, 0x13: {'r', 'R'},
	0x14: {'t', 'T'}, 0x15: {'y', 'Y'}, 0x16: {'u', 'U'}, 0x17: {'i', 'I'},
	0x18: {'o', 'O'}, 0x19: {'p', 'P'}, 0x1A: {'[', '{'}, 0x1B: {']', '}'},
	0x1C: {'\n', '\n'},

	0x1E: {'a', 'A'}, 0x1F: {'s', 'S'}, 0x20: {'d', 'D'}, 0x21: {'f', 'F'},
	0x22: {'g', 'G'}, 0x23: {'h', 'H'}, 0x24: {'j', 'J'}, 0x25: {'k', 'K'},
	0x26: {'l', 'L'}, 0x27: {';', ':'}, 0x28: {'\'', '"'}, 0x29: {'`', '~'},

	0x2B: {'\\', '|'},
	0x2C: {'z', 'Z'}, 0x2D: {'x', 'X'}, 0x2E: {'c', 'C'}, 0x2F: {'v', 'V'},
	0x30: {'b', 'B'}, 0x31: {'n', 'N'}, 0x32: {'m', 'M'},
	0x33: {',', '<'}, 0x34: {'.', '>'}, 0x35: {'/', '?'},

	0x39: {' ', ' '},
}

const (
	scLShift   = 0x2A
	scRShift   = 0x36
	scCtrl     = 0x1D
	scAlt      = 0x38
	scCapsLock = 0x3A
	breakBit   = 0x80
	extPrefix  = 0xE0
)

// dualPurpose is the fixed list of keys where only Shift (never CapsLock)
// selects the upper row (§4.5).
func dualPurpose(code byte) bool {
	if code >= 0x01 && code <= 0x0D {
		return true
	}
	switch code {
	case 0x1A, 0x1B, 0x27, 0x28, 0x29, 0x2B, 0x33, 0x34, 0x35:
		return true
	}
	return false
}

type state struct {
	shift, ctrl, alt, capsLock bool
	extended                   bool
}

var st state

// Ring is the driver's single blocking IO ring; sys_read(fd=0) drains it.
var Ring = NewRing()

func translate(code byte) (byte, bool) {
	if int(code) >= len(keymap) {
		return 0, false
	}
	row := keymap[code]
	if row.lower == 0 {
		return 0, false
	}
	var shifted bool
	if dualPurpose(code) {
		shifted = st.shift
	} else {
		shifted = st.capsLock != st.shift // CapsLock XOR Shift
	}
	if shifted {
		return row.upper, true
	}
	return row.lower, true
}

func updateModifier(code byte, pressed bool) bool {
	switch code {
	case scLShift, scRShift:
		st.shift = pressed
	case scCtrl:
		st.ctrl = pressed
	case scAlt:
		st.alt = pressed
	default:
		return false
	}
	return true
}

// isr handles one IRQ1 firing: reads exactly one scancode byte and feeds
// the ring (§4.5).
func isr(fr *irq.Frame) {
	_ = fr
	sc := ioport.Inb(defs.KBD_DATA)
	irq.EOI(1)

	if sc == extPrefix {
		st.extended = true
		return
	}
	if st.extended {
		// The combined extended code, sc + 0xE0<<2, is 0x380 or above: past
		// every modifier, CapsLock and keymap entry, so it changes nothing.
		st.extended = false
		return
	}
	code := sc &^ breakBit
	isBreak := sc&breakBit != 0

	if updateModifier(code, !isBreak) {
		return
	}
	if isBreak {
		return // break codes other than modifiers carry no other effect
	}
	if code == scCapsLock {
		st.capsLock = !st.capsLock
		return
	}
	if ch, ok := translate(code); ok {
		Ring.TryPut(ch)
	}
}

// Init registers the keyboard ISR and unmasks IRQ1.
func Init() {
	irq.Register(defs.VEC_KEYBOARD, isr)
	irq.Unmask(1)
}
