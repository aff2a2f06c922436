// Package nfa implements Thompson construction over the regex algebra:
// an epsilon-NFA whose edges carry ordered action lists and an optional
// precondition.
package nfa

import (
	"fmt"

	"github.com/coregx/rxgen/actions"
)

// StateID uniquely identifies an NFA state within one NFA's arena.
type StateID uint32

// InvalidState marks an unset or not-yet-allocated state reference.
const InvalidState StateID = 0xFFFFFFFF

// EdgeKind distinguishes byte-consuming edges from epsilon edges.
type EdgeKind uint8

const (
	// EdgeEpsilon consumes no input.
	EdgeEpsilon EdgeKind = iota
	// EdgeByte consumes exactly one byte in [Lo, Hi].
	EdgeByte
)

// Edge is one outgoing transition of a state: a byte range or an
// epsilon move, optionally annotated with an ordered action list and an
// optional precondition.
type Edge struct {
	Kind   EdgeKind
	Lo, Hi byte // valid when Kind == EdgeByte
	Target StateID

	Actions []actions.Action
	Precond actions.Name
	HasPrecond bool
}

// state is one arena entry: just an outgoing edge list. Identity and
// accept/start status live on the NFA, not the state — only the single
// final state is accepting.
type state struct {
	edges []Edge
}

// NFA is an epsilon-NFA produced by Thompson construction. It is
// immutable once returned by Compile.
type NFA struct {
	states []state
	start  StateID
	final  StateID

	// exitActions maps a "gate" state (one introduced to mark leaving a
	// sub-language annotated with OnExit) to the action list that fires
	// on the first byte-consuming edge reached after passing through
	// it, and as EOF actions if the gate is live when input ends.
	exitActions map[StateID][]actions.Action

	registry *actions.Registry
}

// Start returns the NFA's unique start state.
func (n *NFA) Start() StateID { return n.start }

// Final returns the NFA's unique accepting state.
func (n *NFA) Final() StateID { return n.final }

// NumStates returns the number of states in the arena.
func (n *NFA) NumStates() int { return len(n.states) }

// Registry returns the action registry this NFA was compiled with.
func (n *NFA) Registry() *actions.Registry { return n.registry }

// Edges returns the outgoing edges of state id.
func (n *NFA) Edges(id StateID) []Edge {
	if int(id) >= len(n.states) {
		return nil
	}
	return n.states[id].edges
}

// ExitActionsAt returns the exit/EOF action list owed by gate state id,
// or nil if id is not an exit gate.
func (n *NFA) ExitActionsAt(id StateID) []actions.Action {
	return n.exitActions[id]
}

func (n *NFA) String() string {
	return fmt.Sprintf("NFA{states: %d, start: %d, final: %d}", len(n.states), n.start, n.final)
}
