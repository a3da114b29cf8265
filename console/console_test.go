package console

import (
	"bytes"
	"strings"
	"testing"
)

func TestWriteGoesToRegisteredSink(t *testing.T) {
	var buf bytes.Buffer
	SetSink(&buf)
	defer SetSink(&buf) // leave a harmless sink installed for later tests

	Write([]byte("hello\n"))
	if buf.String() != "hello\n" {
		t.Fatalf("got %q, want %q", buf.String(), "hello\n")
	}
}

func TestPrintfFormatsIntoSink(t *testing.T) {
	var buf bytes.Buffer
	SetSink(&buf)

	Printf("panic: %s at %s:%d", "bad fd", "fs.go", 42)
	if !strings.Contains(buf.String(), "bad fd") {
		t.Fatalf("formatted output missing message: %q", buf.String())
	}
}
