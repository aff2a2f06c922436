package diag

import (
	"strings"
	"testing"

	"github.com/coregx/rxgen/byteset"
)

func TestCollectorAccumulatesWarnings(t *testing.T) {
	c := NewCollector()
	c.Warn("no final transition for %s", "rep(x)")
	if len(c.Warnings()) != 1 {
		t.Fatalf("expected 1 warning, got %d", len(c.Warnings()))
	}
	if !strings.Contains(c.Warnings()[0].String(), "rep(x)") {
		t.Fatalf("warning message missing detail: %q", c.Warnings()[0].String())
	}
}

func TestAmbiguityErrorMessage(t *testing.T) {
	err := &AmbiguityError{ActionA: "tok_a", ActionB: "tok_b", Byte: 'x', Witness: []byte("ab")}
	msg := err.Error()
	if !strings.Contains(msg, "tok_a") || !strings.Contains(msg, "tok_b") || !strings.Contains(msg, "ab") {
		t.Fatalf("ambiguity message missing detail: %q", msg)
	}
}

func TestRuntimeErrorMessage(t *testing.T) {
	valid := byteset.FromRanges(byteset.Range{Lo: 'a', Hi: 'z'})
	err := &RuntimeError{Position: 4, State: 2, LastBytes: []byte("abc"), Valid: valid}
	msg := err.Error()
	if !strings.Contains(msg, "position 4") || !strings.Contains(msg, "abc") {
		t.Fatalf("runtime error message missing detail: %q", msg)
	}
}

func TestTailBytesBounds(t *testing.T) {
	data := []byte("0123456789abcdefghij")
	tail := TailBytes(data, 5)
	if string(tail) != "01234" {
		t.Fatalf("got %q, want %q", tail, "01234")
	}
	full := TailBytes(data, len(data))
	if len(full) != tailWindow {
		t.Fatalf("expected tail capped at %d bytes, got %d", tailWindow, len(full))
	}
}

func TestValidBytesAtMatchesRanges(t *testing.T) {
	ranges := []byteset.Range{{Lo: 'a', Hi: 'c'}, {Lo: '0', Hi: '1'}}
	got := ValidBytesAt(ranges)
	for _, b := range []byte("abc01") {
		if !got.Contains(b) {
			t.Fatalf("expected %q to be valid", b)
		}
	}
	if got.Contains('z') {
		t.Fatal("did not expect 'z' to be valid")
	}
}
