// Package dfa implements subset construction, minimization, and product
// construction (intersection/difference) over the epsilon-NFAs produced
// by package nfa.
package dfa

import (
	"fmt"

	"github.com/coregx/rxgen/actions"
)

// StateID identifies a DFA state within one DFA's state table.
type StateID uint32

// InvalidState marks an unset state reference.
const InvalidState StateID = 0xFFFFFFFF

// ActionGroup is one candidate action list contributed to a transition by
// a single underlying NFA edge (or a merged set of equivalent underlying
// edges). At most one group per transition is "live" at match time: the
// first group, in order, that is unconditional or whose precondition
// holds. If none is, the byte is still consumed and no action fires.
type ActionGroup struct {
	Actions    []actions.Action
	Precond    actions.Name
	HasPrecond bool
}

// Transition is one outgoing, byte-range-labeled edge of a DFA state.
// Unlike an NFA edge, Target is a single DFA state: determinization has
// already merged every NFA state reachable on this byte range into it.
type Transition struct {
	Lo, Hi byte
	Target StateID
	Groups []ActionGroup
}

// dfaState is one entry in a DFA's state table.
type dfaState struct {
	accept      bool
	eofActions  []actions.Action
	transitions []Transition
}

// DFA is a deterministic automaton produced by subset construction,
// optionally minimized or combined with another DFA via product
// construction. It is immutable once built.
type DFA struct {
	states   []dfaState
	start    StateID
	registry *actions.Registry
}

// Start returns the DFA's start state.
func (d *DFA) Start() StateID { return d.start }

// NumStates returns the number of states in the table.
func (d *DFA) NumStates() int { return len(d.states) }

// Registry returns the action registry used to order merged action lists.
func (d *DFA) Registry() *actions.Registry { return d.registry }

// IsAccepting reports whether id is an accepting state.
func (d *DFA) IsAccepting(id StateID) bool { return d.states[id].accept }

// EOFActions returns the action list that fires if input ends while in
// state id. Empty/nil unless id is accepting.
func (d *DFA) EOFActions(id StateID) []actions.Action { return d.states[id].eofActions }

// Transitions returns the outgoing transitions of state id, sorted by Lo.
func (d *DFA) Transitions(id StateID) []Transition { return d.states[id].transitions }

// Step returns the target state and winning action group for consuming
// byte b from state id, plus whether any transition exists at all.
// cond reports, for a given precondition name, whether it currently
// holds; pass nil to treat every precondition as unsatisfied.
func (d *DFA) Step(id StateID, b byte, cond func(actions.Name) bool) (StateID, []actions.Action, bool) {
	for _, t := range d.Transitions(id) {
		if b < t.Lo || b > t.Hi {
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
		// A transition exists but every group was conditional and none
		// held: the byte is still consumed (the target is reached) but
		// no action fires.
		return t.Target, nil, true
	}
	return InvalidState, nil, false
}

func (d *DFA) String() string {
	return fmt.Sprintf("DFA{states: %d, start: %d}", len(d.states), d.start)
}
