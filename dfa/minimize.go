package dfa

import (
	"sort"
	"strconv"
	"strings"
)

// Minimize collapses equivalent states via Moore-style partition
// refinement: states start grouped by (accept, eofActions signature),
// then the partition is refined by each state's transition signature
// (the sequence of (byte range, target partition, action group
// signature) triples) until a pass produces no further split.
func Minimize(d *DFA) *DFA {
	n := len(d.states)
	if n == 0 {
		return d
	}

	group := make([]int, n)
	groupOf := make(map[string]int)
	for i, st := range d.states {
		sig := acceptSignature(st)
		g, ok := groupOf[sig]
		if !ok {
			g = len(groupOf)
			groupOf[sig] = g
		}
		group[i] = g
	}

	for {
		next := make([]int, n)
		sigToGroup := make(map[string]int)
		changed := false
		for i := range d.states {
			sig := transitionSignature(d, StateID(i), group)
			g, ok := sigToGroup[sig]
			if !ok {
				g = len(sigToGroup)
				sigToGroup[sig] = g
			}
			next[i] = g
			if g != group[i] {
				changed = true
			}
		}
		group = next
		if !changed {
			break
		}
	}

	numGroups := 0
	for _, g := range group {
		if g+1 > numGroups {
			numGroups = g + 1
		}
	}

	newStates := make([]dfaState, numGroups)
	seen := make([]bool, numGroups)
	for i, st := range d.states {
		g := group[i]
		if seen[g] {
			continue
		}
		seen[g] = true
		newTransitions := make([]Transition, len(st.transitions))
		copy(newTransitions, st.transitions)
		for j := range newTransitions {
			newTransitions[j].Target = StateID(group[newTransitions[j].Target])
		}
		newStates[g] = dfaState{
			accept:      st.accept,
			eofActions:  st.eofActions,
			transitions: newTransitions,
		}
	}

	return &DFA{states: newStates, start: StateID(group[d.start]), registry: d.registry}
}

func acceptSignature(st dfaState) string {
	var sb strings.Builder
	if st.accept {
		sb.WriteString("A:")
		for _, a := range st.eofActions {
			sb.WriteString(string(a.Name))
			sb.WriteByte('@')
			sb.WriteString(strconv.Itoa(a.Priority))
			sb.WriteByte(',')
		}
	} else {
		sb.WriteString("R")
	}
	return sb.String()
}

func transitionSignature(d *DFA, id StateID, group []int) string {
	var sb strings.Builder
	sb.WriteString(acceptSignature(d.states[id]))
	sb.WriteByte('|')

	ts := make([]Transition, len(d.states[id].transitions))
	copy(ts, d.states[id].transitions)
	sort.Slice(ts, func(i, j int) bool { return ts[i].Lo < ts[j].Lo })

	for _, t := range ts {
		sb.WriteByte('[')
		sb.WriteString(strconv.Itoa(int(t.Lo)))
		sb.WriteByte('-')
		sb.WriteString(strconv.Itoa(int(t.Hi)))
		sb.WriteString("->")
		sb.WriteString(strconv.Itoa(group[t.Target]))
		sb.WriteByte(':')
		for _, gr := range t.Groups {
			if gr.HasPrecond {
				sb.WriteString(string(gr.Precond))
				sb.WriteByte('?')
			}
			for _, a := range gr.Actions {
				sb.WriteString(string(a.Name))
				sb.WriteByte(',')
			}
			sb.WriteByte(';')
		}
		sb.WriteByte(']')
	}
	return sb.String()
}
