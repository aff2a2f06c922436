package dfa

import "sort"

// Intersect builds the product DFA accepting strings accepted by both a
// and b. Action groups on the product's transitions are a's, since
// intersection/difference exist to shape the accepted language (e.g.
// negative lookahead-style exclusions), not to merge two independent
// action sets.
func Intersect(a, b *DFA) *DFA {
	return product(a, b, func(acceptA, acceptB bool) bool { return acceptA && acceptB })
}

// Difference builds the product DFA accepting strings accepted by a but
// not by b.
func Difference(a, b *DFA) *DFA {
	return product(a, b, func(acceptA, acceptB bool) bool { return acceptA && !acceptB })
}

type pairState struct {
	a, b StateID
}

func product(a, b *DFA, accept func(acceptA, acceptB bool) bool) *DFA {
	index := make(map[pairState]StateID)
	var table []dfaState
	var queue []pairState

	get := func(p pairState) StateID {
		if id, ok := index[p]; ok {
			return id
		}
		id := StateID(len(table))
		index[p] = id
		acc := accept(a.IsAccepting(p.a), p.b != InvalidState && b.IsAccepting(p.b))
		st := dfaState{accept: acc}
		if acc {
			st.eofActions = a.EOFActions(p.a)
		}
		table = append(table, st)
		queue = append(queue, p)
		return id
	}

	start := get(pairState{a: a.Start(), b: b.Start()})

	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		id := index[p]

		// p.b is InvalidState once b has had no transition for the input
		// read so far: b can no longer accept.
		var tsB []Transition
		if p.b != InvalidState {
			tsB = b.Transitions(p.b)
		}
		bounds := partitionBounds(a.Transitions(p.a), tsB)
		var transitions []Transition
		for i := 0; i+1 < len(bounds); i++ {
			lo, hi := bounds[i], bounds[i+1]-1
			if lo > 255 || hi > 255 || lo > hi {
				continue
			}
			ta, okA := findTransition(a.Transitions(p.a), byte(lo))
			tb, okB := findTransition(tsB, byte(lo))
			if !okA {
				// Both products accept only inputs that a accepts.
				continue
			}
			nextA, nextB := p.a, InvalidState
			var groups []ActionGroup
			if okA {
				nextA = ta.Target
				groups = ta.Groups
			}
			if okB {
				nextB = tb.Target
			}
			target := get(pairState{a: nextA, b: nextB})
			transitions = append(transitions, Transition{Lo: byte(lo), Hi: byte(hi), Target: target, Groups: groups})
		}
		table[id].transitions = transitions
	}

	reg := a.Registry()
	if reg == nil {
		reg = b.Registry()
	}
	return &DFA{states: table, start: start, registry: reg}
}

func findTransition(ts []Transition, b byte) (Transition, bool) {
	for _, t := range ts {
		if b >= t.Lo && b <= t.Hi {
			return t, true
		}
	}
	return Transition{}, false
}

func partitionBounds(a, b []Transition) []int {
	set := make(map[int]bool)
	for _, t := range a {
		set[int(t.Lo)] = true
		set[int(t.Hi)+1] = true
	}
	for _, t := range b {
		set[int(t.Lo)] = true
		set[int(t.Hi)+1] = true
	}
	bounds := make([]int, 0, len(set))
	for v := range set {
		bounds = append(bounds, v)
	}
	sort.Ints(bounds)
	return bounds
}
