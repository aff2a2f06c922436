package nfa

import "github.com/coregx/rxgen/actions"

// Builder constructs an NFA incrementally via an append-only arena of
// states: states get fresh ids, and edges are added directly to their
// source state rather than patched in after the fact.
type Builder struct {
	states      []state
	exitActions map[StateID][]actions.Action
	registry    *actions.Registry
}

// NewBuilder returns an empty Builder using reg to order merged action
// lists.
func NewBuilder(reg *actions.Registry) *Builder {
	return &Builder{
		registry:    reg,
		exitActions: make(map[StateID][]actions.Action),
	}
}

// AddState allocates a fresh state with no outgoing edges and returns
// its id.
func (b *Builder) AddState() StateID {
	id := StateID(len(b.states))
	b.states = append(b.states, state{})
	return id
}

// AddEdge appends edge to the outgoing edge list of from.
func (b *Builder) AddEdge(from StateID, edge Edge) {
	b.states[from].edges = append(b.states[from].edges, edge)
}

// MarkExitGate records that state id is an exit gate owing actions to
// whatever byte-consuming edge is reached after it.
func (b *Builder) MarkExitGate(id StateID, list []actions.Action) {
	if len(list) == 0 {
		return
	}
	b.exitActions[id] = append(append([]actions.Action{}, b.exitActions[id]...), list...)
}

// NumStates returns the current arena size, used by Thompson
// construction to bound an "All"-annotated fragment's state range.
func (b *Builder) NumStates() int { return len(b.states) }

// StatesInRange returns the state ids in [lo, hi).
func (b *Builder) StatesInRange(lo, hi StateID) []StateID {
	ids := make([]StateID, 0, int(hi-lo))
	for i := lo; i < hi; i++ {
		ids = append(ids, i)
	}
	return ids
}

// EdgesOf exposes a state's edges for in-place mutation during
// annotation application (e.g. appending Final/All actions).
func (b *Builder) EdgesOf(id StateID) []Edge { return b.states[id].edges }

// SetEdgeActions overwrites the action list of the i-th edge of state id.
func (b *Builder) SetEdgeActions(id StateID, i int, list []actions.Action) {
	b.states[id].edges[i].Actions = list
}

// Build finalizes the NFA with the given start/final states.
func (b *Builder) Build(start, final StateID) *NFA {
	return &NFA{
		states:      b.states,
		start:       start,
		final:       final,
		exitActions: b.exitActions,
		registry:    b.registry,
	}
}
