package kbd

import "testing"

func resetState() { st = state{} }

func TestTranslateLowercaseByDefault(t *testing.T) {
	resetState()
	ch, ok := translate(0x1E) // 'a'
	if !ok || ch != 'a' {
		t.Fatalf("got (%q, %v), want ('a', true)", ch, ok)
	}
}

func TestTranslateShiftUppercasesLetters(t *testing.T) {
	resetState()
	st.shift = true
	ch, _ := translate(0x1E)
	if ch != 'A' {
		t.Fatalf("got %q, want 'A'", ch)
	}
}

func TestTranslateCapsLockUppercasesLetters(t *testing.T) {
	resetState()
	st.capsLock = true
	ch, _ := translate(0x1E)
	if ch != 'A' {
		t.Fatalf("got %q, want 'A'", ch)
	}
}

func TestTranslateCapsLockAndShiftCancel(t *testing.T) {
	resetState()
	st.capsLock = true
	st.shift = true
	ch, _ := translate(0x1E)
	if ch != 'a' {
		t.Fatalf("got %q, want lowercase 'a' (caps XOR shift)", ch)
	}
}

func TestTranslateDualPurposeIgnoresCapsLock(t *testing.T) {
	resetState()
	st.capsLock = true
	ch, _ := translate(0x02) // '1'/'!'
	if ch != '1' {
		t.Fatalf("caps lock must not affect digit row, got %q", ch)
	}

	st.shift = true
	ch, _ = translate(0x02)
	if ch != '!' {
		t.Fatalf("shift should still select '!', got %q", ch)
	}
}

func TestTranslateUnmappedCodeReportsFalse(t *testing.T) {
	resetState()
	if _, ok := translate(0x01); ok { // Esc has no printable mapping
		t.Fatal("Esc should not translate to a printable character")
	}
}

func TestDualPurposeSet(t *testing.T) {
	for _, c := range []byte{0x01, 0x0D, 0x1A, 0x1B, 0x27, 0x28, 0x29, 0x2B, 0x33, 0x34, 0x35} {
		if !dualPurpose(c) {
			t.Fatalf("code %#x should be dual-purpose", c)
		}
	}
	if dualPurpose(0x1E) { // 'a'
		t.Fatal("letters are not dual-purpose keys")
	}
}

func TestUpdateModifierTracksShiftPressAndRelease(t *testing.T) {
	resetState()
	if !updateModifier(scLShift, true) {
		t.Fatal("left shift should be recognized as a modifier")
	}
	if !st.shift {
		t.Fatal("shift should be down")
	}
	updateModifier(scLShift, false)
	if st.shift {
		t.Fatal("shift should be up after release")
	}
}

func TestUpdateModifierIgnoresNonModifierCodes(t *testing.T) {
	resetState()
	if updateModifier(0x1E, true) {
		t.Fatal("letter codes are not modifiers")
	}
}
