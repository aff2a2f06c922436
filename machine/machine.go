// Package machine compacts a DFA into the dense, code-generation-ready
// form package emit consumes: states renumbered from 1 (0 reserved for
// the implicit dead/error state), transitions keyed by byte-class
// instead of raw byte range, and per-accepting-state EOF action lists.
package machine

import (
	"github.com/coregx/rxgen/actions"
	"github.com/coregx/rxgen/dfa"
)

// DeadState is the reserved state id meaning "no transition": a matcher
// reaching it should report diag.RuntimeError rather than advance.
const DeadState = 0

// Transition is a single class-keyed outgoing edge.
type Transition struct {
	ClassLo, ClassHi byte // inclusive range of byte classes
	Target           uint32
	Groups           []dfa.ActionGroup
}

// State is one entry of a Machine's dense state table.
type State struct {
	Accept      bool
	EOFActions  []actions.Action
	Transitions []Transition
}

// Machine is the compact, immutable form produced from a dfa.DFA, ready
// for package emit to render as Go source.
type Machine struct {
	States   []State // index 0 is the dead state; real states start at 1
	Start    uint32
	Alphabet ByteClasses
	Registry *actions.Registry
}

// Build compacts d into a Machine using alphabet, which the caller
// derives via BuildAlphabet(d) (split out so callers can share one
// alphabet across several related machines, e.g. a tokenizer's skip and
// token automata).
func Build(d *dfa.DFA, alphabet ByteClasses) *Machine {
	n := d.NumStates()
	states := make([]State, n+1) // +1 for the dead state at index 0

	for i := 0; i < n; i++ {
		id := dfa.StateID(i)
		states[i+1] = State{
			Accept:      d.IsAccepting(id),
			EOFActions:  d.EOFActions(id),
			Transitions: compactTransitions(d.Transitions(id), alphabet),
		}
	}

	return &Machine{
		States:   states,
		Start:    uint32(d.Start()) + 1,
		Alphabet: alphabet,
		Registry: d.Registry(),
	}
}

// compactTransitions re-keys byte-range transitions by class range. A
// DFA transition never straddles a class boundary (BuildAlphabet derived
// the alphabet from these very ranges), so each transition maps to
// exactly one contiguous class range.
func compactTransitions(ts []dfa.Transition, alphabet ByteClasses) []Transition {
	out := make([]Transition, 0, len(ts))
	for _, t := range ts {
		out = append(out, Transition{
			ClassLo: alphabet.Class(t.Lo),
			ClassHi: alphabet.Class(t.Hi),
			Target:  uint32(t.Target) + 1,
			Groups:  t.Groups,
		})
	}
	return out
}

// NumStates returns the number of real states (excluding the dead
// state).
func (m *Machine) NumStates() int { return len(m.States) - 1 }

// Step interprets one byte class from state: it walks the winning
// transition's candidate groups in order, firing the first unconditional
// group or the first conditional group whose precondition holds per
// cond, exactly mirroring dfa.DFA.Step. cond may be nil, in which case
// every conditional group is treated as not holding. A transition with
// no winning group still consumes the byte (target reached, no actions
// fired) rather than failing — only the complete absence of a matching
// byte-range transition reports ok=false.
//
// This is the single interpreter every in-process collaborator
// (validator, tokenizer, streamreader) drives the Machine through,
// rather than each hand-rolling its own copy of this walk.
func (m *Machine) Step(state uint32, class byte, cond func(actions.Name) bool) (uint32, []actions.Action, bool) {
	for _, t := range m.States[state].Transitions {
		if class < t.ClassLo || class > t.ClassHi {
			continue
		}
		for _, g := range t.Groups {
			if !g.HasPrecond {
				return t.Target, g.Actions, true
			}
			if cond != nil && cond(g.Precond) {
				return t.Target, g.Actions, true
			}
		}
		return t.Target, nil, true
	}
	return DeadState, nil, false
}
