package streamreader

import (
	"testing"

	"github.com/coregx/rxgen/actions"
	"github.com/coregx/rxgen/ast"
	"github.com/coregx/rxgen/compile"
	"github.com/coregx/rxgen/machine"
)

func buildMachine(t *testing.T, n ast.Node) *machine.Machine {
	t.Helper()
	m, err := compile.Compile(n, compile.DefaultOptions())
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	return m
}

func TestFeedAcrossChunksResumes(t *testing.T) {
	m := buildMachine(t, ast.Literal("hello"))
	c := New(m, nil)

	if err := c.Feed([]byte("he")); err != nil {
		t.Fatalf("unexpected error on first chunk: %v", err)
	}
	if err := c.Feed([]byte("ll")); err != nil {
		t.Fatalf("unexpected error on second chunk: %v", err)
	}
	if err := c.Feed([]byte("o")); err != nil {
		t.Fatalf("unexpected error on final chunk: %v", err)
	}
	if err := c.Finish(); err != nil {
		t.Fatalf("expected Finish to accept, got %v", err)
	}
	if c.Position() != 5 {
		t.Fatalf("expected position 5, got %d", c.Position())
	}
}

func TestFeedFiresActionsInOrder(t *testing.T) {
	reg := actions.NewRegistry()
	reg.Register("saw-h", 0)
	reg.Register("saw-i", 0)
	n := ast.Concat(
		ast.OnFinal(ast.Byte('h'), "saw-h"),
		ast.OnFinal(ast.Byte('i'), "saw-i"),
	)
	opts := compile.DefaultOptions()
	opts.Registry = reg
	m, err := compile.Compile(n, opts)
	if err != nil {
		t.Fatal(err)
	}

	var fired []actions.Name
	c := New(m, func(name actions.Name) { fired = append(fired, name) })
	if err := c.Feed([]byte("h")); err != nil {
		t.Fatal(err)
	}
	if err := c.Feed([]byte("i")); err != nil {
		t.Fatal(err)
	}
	if err := c.Finish(); err != nil {
		t.Fatal(err)
	}
	if len(fired) != 2 || fired[0] != "saw-h" || fired[1] != "saw-i" {
		t.Fatalf("expected [saw-h saw-i], got %v", fired)
	}
}

func TestFeedEvaluatesPreconditionGuardedAction(t *testing.T) {
	reg := actions.NewRegistry()
	reg.Register("guarded", 0)
	reg.Register("plain", 0)
	reg.RegisterPrecondition("cond")

	n := ast.Alt(
		ast.When(ast.OnFinal(ast.Byte('a'), "guarded"), "cond"),
		ast.OnFinal(ast.Byte('a'), "plain"),
	)
	opts := compile.DefaultOptions()
	opts.Registry = reg
	m, err := compile.Compile(n, opts)
	if err != nil {
		t.Fatal(err)
	}

	var fired []actions.Name
	c := New(m, func(name actions.Name) { fired = append(fired, name) })
	c.SetConditions(func(name actions.Name) bool { return name == "cond" })
	if err := c.Feed([]byte("a")); err != nil {
		t.Fatal(err)
	}
	if len(fired) != 1 || fired[0] != "guarded" {
		t.Fatalf("expected the guarded action to fire when its precondition holds, got %v", fired)
	}

	fired = nil
	c2 := New(m, func(name actions.Name) { fired = append(fired, name) })
	c2.SetConditions(func(actions.Name) bool { return false })
	if err := c2.Feed([]byte("a")); err != nil {
		t.Fatal(err)
	}
	if len(fired) != 1 || fired[0] != "plain" {
		t.Fatalf("expected fallthrough to the unconditional action, got %v", fired)
	}
}

func TestFeedReportsRuntimeErrorOnBadByte(t *testing.T) {
	m := buildMachine(t, ast.Literal("ok"))
	c := New(m, nil)
	err := c.Feed([]byte("x"))
	if err == nil {
		t.Fatal("expected a runtime error for unexpected byte")
	}
}

func TestMarkUnmarkTrackPosition(t *testing.T) {
	m := buildMachine(t, ast.Rep(ast.ByteRange('a', 'z')))
	c := New(m, nil)
	if _, ok := c.MarkPos(); ok {
		t.Fatal("expected no mark initially")
	}
	if err := c.Feed([]byte("ab")); err != nil {
		t.Fatal(err)
	}
	c.Mark()
	if err := c.Feed([]byte("cd")); err != nil {
		t.Fatal(err)
	}
	pos, ok := c.MarkPos()
	if !ok || pos != 2 {
		t.Fatalf("expected mark at position 2, got %d, ok=%v", pos, ok)
	}
	c.Unmark()
	if _, ok := c.MarkPos(); ok {
		t.Fatal("expected mark cleared after Unmark")
	}
}
