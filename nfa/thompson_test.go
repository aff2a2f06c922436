package nfa

import (
	"testing"

	"github.com/coregx/rxgen/actions"
	"github.com/coregx/rxgen/ast"
	"github.com/coregx/rxgen/diag"
)

// acceptsNFA is a tiny brute-force epsilon-NFA simulator used only by
// this package's tests, so Thompson construction can be checked for
// correctness before the DFA package exists.
func acceptsNFA(n *NFA, input []byte) bool {
	current := map[StateID]bool{}
	addClosure(n, n.Start(), current)

	for _, b := range input {
		next := map[StateID]bool{}
		for id := range current {
			for _, e := range n.Edges(id) {
				if e.Kind == EdgeByte && b >= e.Lo && b <= e.Hi {
					addClosure(n, e.Target, next)
				}
			}
		}
		current = next
	}
	return current[n.Final()]
}

func addClosure(n *NFA, start StateID, set map[StateID]bool) {
	if set[start] {
		return
	}
	set[start] = true
	for _, e := range n.Edges(start) {
		if e.Kind == EdgeEpsilon {
			addClosure(n, e.Target, set)
		}
	}
}

func TestCompileSymbolMatchesSingleByte(t *testing.T) {
	n, err := Compile(ast.Byte('a'), nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !acceptsNFA(n, []byte("a")) {
		t.Fatal("expected 'a' to match")
	}
	if acceptsNFA(n, []byte("b")) {
		t.Fatal("did not expect 'b' to match")
	}
}

func TestCompileConcat(t *testing.T) {
	n, err := Compile(ast.Literal("abc"), nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !acceptsNFA(n, []byte("abc")) {
		t.Fatal("expected 'abc' to match")
	}
	if acceptsNFA(n, []byte("ab")) {
		t.Fatal("did not expect partial 'ab' to match")
	}
}

func TestCompileAlt(t *testing.T) {
	n, err := Compile(ast.Alt(ast.Literal("foo"), ast.Literal("bar")), nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !acceptsNFA(n, []byte("foo")) || !acceptsNFA(n, []byte("bar")) {
		t.Fatal("expected both alternatives to match")
	}
	if acceptsNFA(n, []byte("baz")) {
		t.Fatal("did not expect 'baz' to match")
	}
}

func TestCompileRep(t *testing.T) {
	n, err := Compile(ast.Rep(ast.Byte('a')), nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	for _, s := range []string{"", "a", "aaaa"} {
		if !acceptsNFA(n, []byte(s)) {
			t.Fatalf("expected %q to match a*", s)
		}
	}
	if acceptsNFA(n, []byte("ab")) {
		t.Fatal("did not expect 'ab' to match a*")
	}
}

func TestFinalActionAttachesToLastByteTransition(t *testing.T) {
	reg := actions.NewRegistry()
	node := ast.OnFinal(ast.Literal("ab"), "done")
	n, err := Compile(node, reg, nil)
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for i := 0; i < n.NumStates(); i++ {
		for _, e := range n.Edges(StateID(i)) {
			if e.Kind == EdgeByte && e.Lo == 'b' {
				for _, a := range e.Actions {
					if a.Name == "done" {
						found = true
					}
				}
			}
		}
	}
	if !found {
		t.Fatal("expected 'done' action on the final 'b' transition")
	}
}

func TestFinalActionOnPureRepWarns(t *testing.T) {
	d := diag.NewCollector()
	node := ast.OnFinal(ast.Rep(ast.Byte('a')), "done")
	_, err := Compile(node, nil, d)
	if err != nil {
		t.Fatal(err)
	}
	if len(d.Warnings()) == 0 {
		t.Fatal("expected a warning for undeterminable final byte on rep(a)")
	}
}

func TestPreconditionAttachesToEntryEdges(t *testing.T) {
	node := ast.When(ast.Alt(ast.Byte('a'), ast.Byte('b')), "guard")
	n, err := Compile(node, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	count := 0
	for _, e := range n.Edges(n.Start()) {
		if e.HasPrecond && e.Precond == "guard" {
			count++
		}
	}
	if count != 2 {
		t.Fatalf("expected both alt branches guarded, got %d", count)
	}
}

func TestAllActionAttachesInsideFragment(t *testing.T) {
	node := ast.OnAll(ast.Literal("abc"), "tick")
	n, err := Compile(node, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	count := 0
	for i := 0; i < n.NumStates(); i++ {
		for _, e := range n.Edges(StateID(i)) {
			if e.Kind == EdgeByte {
				for _, a := range e.Actions {
					if a.Name == "tick" {
						count++
					}
				}
			}
		}
	}
	if count != 3 {
		t.Fatalf("expected tick on all 3 byte transitions, got %d", count)
	}
}

func TestExitActionsRecordedOnGate(t *testing.T) {
	node := ast.OnExit(ast.Literal("ab"), "leaving")
	n, err := Compile(node, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	total := 0
	for i := 0; i < n.NumStates(); i++ {
		total += len(n.ExitActionsAt(StateID(i)))
	}
	if total == 0 {
		t.Fatal("expected an exit gate carrying the 'leaving' action")
	}
}

func TestAndDiffRejectedAtNFALevel(t *testing.T) {
	_, err := Compile(ast.Intersect(ast.Byte('a'), ast.Byte('b')), nil, nil)
	if err != ErrUnsupportedAtNFALevel {
		t.Fatalf("expected ErrUnsupportedAtNFALevel, got %v", err)
	}
}
