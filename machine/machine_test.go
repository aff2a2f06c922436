package machine

import (
	"testing"

	"github.com/coregx/rxgen/actions"
	"github.com/coregx/rxgen/ast"
	"github.com/coregx/rxgen/dfa"
	"github.com/coregx/rxgen/nfa"
)

func buildDFA(t *testing.T, n ast.Node) *dfa.DFA {
	t.Helper()
	nf, err := nfa.Compile(n, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	d, err := dfa.Build(nf, dfa.Options{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func TestBuildReservesDeadState(t *testing.T) {
	d := buildDFA(t, ast.Literal("ab"))
	alphabet := BuildAlphabet(d)
	m := Build(d, alphabet)
	if m.States[DeadState].Accept {
		t.Fatal("dead state must never be accepting")
	}
	if int(m.Start) == DeadState {
		t.Fatal("start state must not be the dead state")
	}
}

func TestAlphabetCompressesRepeatedRanges(t *testing.T) {
	d := buildDFA(t, ast.Rep(ast.ByteRange('a', 'z')))
	alphabet := BuildAlphabet(d)
	if alphabet.Len() >= 256 {
		t.Fatalf("expected alphabet compression for [a-z]*, got %d classes", alphabet.Len())
	}
	if alphabet.Class('a') != alphabet.Class('m') {
		t.Fatal("expected 'a' and 'm' to share a class under [a-z]*")
	}
	if alphabet.Class('a') == alphabet.Class('0') {
		t.Fatal("expected 'a' and '0' to be in different classes under [a-z]*")
	}
}

func TestMachineWalkMatchesDFA(t *testing.T) {
	d := buildDFA(t, ast.Literal("ab"))
	alphabet := BuildAlphabet(d)
	m := Build(d, alphabet)

	state := m.Start
	for _, b := range []byte("ab") {
		class := alphabet.Class(b)
		next := uint32(DeadState)
		for _, tr := range m.States[state].Transitions {
			if class >= tr.ClassLo && class <= tr.ClassHi {
				next = tr.Target
				break
			}
		}
		if next == DeadState {
			t.Fatalf("no transition for byte %q from state %d", b, state)
		}
		state = next
	}
	if !m.States[state].Accept {
		t.Fatal("expected accepting state after 'ab'")
	}
}

// stepMachine builds a one-transition Machine whose single byte class
// carries groups, for exercising Step's group-selection order directly
// without routing a pattern through the whole compile pipeline.
func stepMachine(groups []dfa.ActionGroup) *Machine {
	return &Machine{
		States: []State{
			{}, // dead state
			{Transitions: []Transition{{ClassLo: 0, ClassHi: 0, Target: 2, Groups: groups}}},
			{Accept: true},
		},
		Start: 1,
	}
}

func TestStepFiresFirstUnconditionalGroup(t *testing.T) {
	a := actions.Action{Name: "a"}
	m := stepMachine([]dfa.ActionGroup{{Actions: []actions.Action{a}}})
	target, fired, ok := m.Step(1, 0, nil)
	if !ok || target != 2 || len(fired) != 1 || fired[0].Name != "a" {
		t.Fatalf("expected unconditional group to fire, got target=%d fired=%v ok=%v", target, fired, ok)
	}
}

func TestStepFiresConditionalGroupWhenPreconditionHolds(t *testing.T) {
	guarded := actions.Action{Name: "guarded"}
	groups := []dfa.ActionGroup{
		{Actions: []actions.Action{guarded}, Precond: "cond", HasPrecond: true},
	}
	m := stepMachine(groups)

	_, fired, ok := m.Step(1, 0, func(name actions.Name) bool { return name == "cond" })
	if !ok || len(fired) != 1 || fired[0].Name != "guarded" {
		t.Fatalf("expected guarded group to fire when precondition holds, got %v ok=%v", fired, ok)
	}

	_, fired, ok = m.Step(1, 0, func(actions.Name) bool { return false })
	if !ok || len(fired) != 0 {
		t.Fatalf("expected no actions when precondition fails to hold, got %v ok=%v", fired, ok)
	}
}

func TestStepFallsThroughGuardedGroupToUnconditional(t *testing.T) {
	guarded := actions.Action{Name: "guarded"}
	plain := actions.Action{Name: "plain"}
	groups := []dfa.ActionGroup{
		{Actions: []actions.Action{guarded}, Precond: "cond", HasPrecond: true},
		{Actions: []actions.Action{plain}},
	}
	m := stepMachine(groups)

	_, fired, ok := m.Step(1, 0, func(actions.Name) bool { return false })
	if !ok || len(fired) != 1 || fired[0].Name != "plain" {
		t.Fatalf("expected fallthrough to the unconditional group, got %v ok=%v", fired, ok)
	}

	_, fired, ok = m.Step(1, 0, nil)
	if !ok || len(fired) != 1 || fired[0].Name != "plain" {
		t.Fatalf("expected fallthrough to the unconditional group with nil cond, got %v ok=%v", fired, ok)
	}
}
