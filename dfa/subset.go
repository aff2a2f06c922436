package dfa

import (
	"sort"

	"github.com/coregx/rxgen/actions"
	"github.com/coregx/rxgen/diag"
	"github.com/coregx/rxgen/internal/stateset"
	"github.com/coregx/rxgen/nfa"
)

// parentEdge tracks, per DFA state, the byte that was consumed to reach
// it and from which predecessor state, used only to build a minimal
// witness input for an ambiguity report.
type parentEdge struct {
	from StateID
	b    byte
}

// Options controls subset construction.
type Options struct {
	// Unambiguous requires every transition to resolve to one action
	// list without runtime precondition evaluation: two unconditional
	// action groups on the same byte range whose highest-priority
	// actions have equal priority and different names produce a
	// diag.AmbiguityError instead of a silently built DFA.
	Unambiguous bool

	// MaxStates bounds the size of the state table; 0 means unbounded.
	MaxStates int
}

// closure is the epsilon-closure of a set of NFA states, plus the action
// lists owed to each reached state by any exit gate (see
// nfa.Builder.MarkExitGate) or action-carrying epsilon edge (an enter
// gate) passed through on the way to it.
type closure struct {
	states []nfa.StateID
	owed   map[nfa.StateID][]actions.Action
}

// epsilonClosure computes the epsilon-closure of seeds as a fixed point:
// each exit gate's action list, and each epsilon edge's own action list,
// is owed to every state reachable from it, however many further
// epsilon hops away. Because Rep introduces epsilon
// cycles, a state can be revisited with a larger owed set than before;
// the worklist keeps re-propagating until every owed set stops growing,
// which always terminates since the universe of action names in one
// compilation is finite.
func epsilonClosure(n *nfa.NFA, seeds []nfa.StateID) closure {
	reg := n.Registry()
	owed := make(map[nfa.StateID][]actions.Action)
	visited := make(map[nfa.StateID]bool)

	type item struct {
		id  nfa.StateID
		acc []actions.Action // owed actions accumulated along the path to id, not yet merged into owed[id]
	}
	queue := make([]item, 0, len(seeds))
	for _, s := range seeds {
		queue = append(queue, item{id: s})
	}

	for len(queue) > 0 {
		it := queue[0]
		queue = queue[1:]

		merged := mergeActionLists(reg, owed[it.id], it.acc)
		grew := len(merged) != len(owed[it.id])
		owed[it.id] = merged

		if visited[it.id] && !grew {
			continue
		}
		visited[it.id] = true

		forward := mergeActionLists(reg, merged, n.ExitActionsAt(it.id))
		for _, e := range n.Edges(it.id) {
			if e.Kind == nfa.EdgeEpsilon {
				queue = append(queue, item{id: e.Target, acc: mergeActionLists(reg, forward, e.Actions)})
			}
		}
	}

	states := make([]nfa.StateID, 0, len(visited))
	for id := range visited {
		states = append(states, id)
	}
	sort.Slice(states, func(i, j int) bool { return states[i] < states[j] })

	return closure{states: states, owed: owed}
}

// mergeActionLists unions two already-sorted-by-registry-order action
// lists, deduplicating by name, and re-sorts the result.
func mergeActionLists(reg *actions.Registry, a, b []actions.Action) []actions.Action {
	if len(b) == 0 {
		return a
	}
	seen := make(map[actions.Name]bool, len(a)+len(b))
	out := make([]actions.Action, 0, len(a)+len(b))
	for _, x := range a {
		if !seen[x.Name] {
			seen[x.Name] = true
			out = append(out, x)
		}
	}
	for _, x := range b {
		if !seen[x.Name] {
			seen[x.Name] = true
			out = append(out, x)
		}
	}
	if reg != nil {
		reg.SortList(out)
	}
	return out
}

func keyOf(states []nfa.StateID) string {
	s := stateset.New(1)
	if len(states) > 0 {
		maxID := states[0]
		for _, id := range states {
			if id > maxID {
				maxID = id
			}
		}
		s = stateset.New(int(maxID) + 1)
	}
	for _, id := range states {
		s.Insert(uint32(id))
	}
	return s.Key()
}

func containsState(states []nfa.StateID, target nfa.StateID) bool {
	for _, id := range states {
		if id == target {
			return true
		}
	}
	return false
}

// byteEdge is one contributing NFA transition gathered while building a
// DFA transition, with its source state's owed actions already merged
// in (an exit gate's action list fires on "the first byte-consuming edge
// reached after the gate").
type byteEdge struct {
	lo, hi  byte
	target  nfa.StateID
	actions []actions.Action
	precond actions.Name
	hasPrecond bool
}

// Build runs NFA→DFA subset construction, producing diag.AmbiguityError
// (when opts.Unambiguous) or diag.StateLimitError (when opts.MaxStates
// is exceeded) as appropriate.
func Build(n *nfa.NFA, opts Options, diagnostics *diag.Collector) (*DFA, error) {
	if diagnostics == nil {
		diagnostics = diag.NewCollector()
	}
	reg := n.Registry()

	type pending struct {
		id     StateID
		states []nfa.StateID
		owed   map[nfa.StateID][]actions.Action
	}

	byKey := make(map[string]StateID)
	var table []dfaState
	var queue []pending

	// parent tracks, per DFA state, the byte that was consumed to reach
	// it and from which predecessor state, used only to build a minimal
	// witness input for an ambiguity report.
	parent := make(map[StateID]parentEdge)

	addState := func(cl closure) StateID {
		key := keyOf(cl.states)
		if id, ok := byKey[key]; ok {
			return id
		}
		id := StateID(len(table))
		byKey[key] = id
		accept := containsState(cl.states, n.Final())
		var eof []actions.Action
		if accept {
			eof = cl.owed[n.Final()]
		}
		table = append(table, dfaState{accept: accept, eofActions: eof})
		queue = append(queue, pending{id: id, states: cl.states, owed: cl.owed})
		return id
	}

	startClosure := epsilonClosure(n, []nfa.StateID{n.Start()})
	start := addState(startClosure)

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		edges := gatherByteEdges(n, cur.states, cur.owed)
		transitions, err := buildTransitions(reg, edges, opts, diagnostics, cur.id, parent)
		if err != nil {
			return nil, err
		}

		for i := range transitions {
			t := &transitions[i]
			nextStates := edgeTargets(edges, t.Lo)
			cl := epsilonClosure(n, nextStates)
			targetID := addState(cl)
			if _, seen := parent[targetID]; !seen && targetID != start {
				parent[targetID] = parentEdge{from: cur.id, b: t.Lo}
			}
			t.Target = targetID
		}
		table[cur.id].transitions = transitions

		if opts.MaxStates > 0 && len(table) > opts.MaxStates {
			return nil, &diag.StateLimitError{Limit: opts.MaxStates}
		}
	}

	return &DFA{states: table, start: start, registry: reg}, nil
}

// gatherByteEdges collects every byte-consuming edge leaving states,
// merging in each source state's owed exit actions: an exit gate's
// action list fires on the first byte-consuming edge reached after it,
// which is exactly the edges gathered here from a state that owed
// actions propagated to.
func gatherByteEdges(n *nfa.NFA, states []nfa.StateID, owed map[nfa.StateID][]actions.Action) []byteEdge {
	reg := n.Registry()
	var edges []byteEdge
	for _, s := range states {
		for _, e := range n.Edges(s) {
			if e.Kind != nfa.EdgeByte {
				continue
			}
			edges = append(edges, byteEdge{
				lo: e.Lo, hi: e.Hi, target: e.Target,
				actions: mergeActionLists(reg, e.Actions, owed[s]), precond: e.Precond, hasPrecond: e.HasPrecond,
			})
		}
	}
	return edges
}

// edgeTargets returns the distinct NFA targets of every byteEdge
// covering byte b.
func edgeTargets(edges []byteEdge, b byte) []nfa.StateID {
	var targets []nfa.StateID
	seen := make(map[nfa.StateID]bool)
	for _, e := range edges {
		if b < e.lo || b > e.hi {
			continue
		}
		if !seen[e.target] {
			seen[e.target] = true
			targets = append(targets, e.target)
		}
	}
	return targets
}

// buildTransitions partitions [0,255] into maximal byte ranges sharing
// the same contributing edge set, and builds one Transition (minus
// Target, filled in by the caller) per non-empty partition.
func buildTransitions(reg *actions.Registry, edges []byteEdge, opts Options, diagnostics *diag.Collector, fromState StateID, parent map[StateID]parentEdge) ([]Transition, error) {
	if len(edges) == 0 {
		return nil, nil
	}

	boundarySet := make(map[int]bool)
	for _, e := range edges {
		boundarySet[int(e.lo)] = true
		boundarySet[int(e.hi)+1] = true
	}
	bounds := make([]int, 0, len(boundarySet))
	for b := range boundarySet {
		bounds = append(bounds, b)
	}
	sort.Ints(bounds)

	var out []Transition
	for i := 0; i+1 < len(bounds); i++ {
		lo, hi := bounds[i], bounds[i+1]-1
		if lo > 255 || hi > 255 || lo > hi {
			continue
		}
		groups := groupsFor(reg, edges, byte(lo))
		if len(groups) == 0 {
			continue
		}

		if opts.Unambiguous {
			if err := checkAmbiguous(groups, byte(lo), diagnostics, fromState, parent); err != nil {
				return nil, err
			}
		}

		out = append(out, Transition{Lo: byte(lo), Hi: byte(hi), Groups: groups})
	}
	return out, nil
}

// groupsFor collects one ActionGroup per edge covering b, ordered by
// (priority descending, declaration order ascending) via the registry,
// with groups carrying identical actions/precondition collapsed.
func groupsFor(reg *actions.Registry, edges []byteEdge, b byte) []ActionGroup {
	var groups []ActionGroup
	for _, e := range edges {
		if b < e.lo || b > e.hi {
			continue
		}
		g := ActionGroup{Actions: e.actions, Precond: e.precond, HasPrecond: e.hasPrecond}
		groups = append(groups, g)
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return groupOrder(reg, groups[i]) < groupOrder(reg, groups[j])
	})
	return dedupGroups(groups)
}

// groupOrder ranks a group by its highest-priority action; groups with
// no actions rank last. Conditional and unconditional groups of equal
// priority rank the same, so the stable sort keeps them in edge order.
func groupOrder(reg *actions.Registry, g ActionGroup) int {
	if len(g.Actions) == 0 {
		return 1 << 30
	}
	top := g.Actions[0]
	for _, a := range g.Actions[1:] {
		if reg.Order(a, top) < 0 {
			top = a
		}
	}
	return -top.Priority
}

func dedupGroups(groups []ActionGroup) []ActionGroup {
	var out []ActionGroup
	for _, g := range groups {
		dup := false
		for _, o := range out {
			if sameGroup(g, o) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, g)
		}
	}
	return out
}

func sameGroup(a, b ActionGroup) bool {
	if a.HasPrecond != b.HasPrecond || a.Precond != b.Precond {
		return false
	}
	if len(a.Actions) != len(b.Actions) {
		return false
	}
	for i := range a.Actions {
		if a.Actions[i].Name != b.Actions[i].Name {
			return false
		}
	}
	return true
}

// checkAmbiguous reports a diag.AmbiguityError when two distinct
// unconditional groups both claim byte b, since neither a precondition
// nor a priority ordering can decide between them at match time.
func checkAmbiguous(groups []ActionGroup, b byte, diagnostics *diag.Collector, fromState StateID, parent map[StateID]parentEdge) error {
	var unconditional []ActionGroup
	for _, g := range groups {
		if !g.HasPrecond {
			unconditional = append(unconditional, g)
		}
	}
	for i := 0; i < len(unconditional); i++ {
		for j := i + 1; j < len(unconditional); j++ {
			a, b2 := unconditional[i], unconditional[j]
			if len(a.Actions) == 0 || len(b2.Actions) == 0 || a.Actions[0].Priority != b2.Actions[0].Priority {
				continue
			}
			if a.Actions[0].Name == b2.Actions[0].Name {
				continue
			}
			return &diag.AmbiguityError{
				ActionA: a.Actions[0].Name,
				ActionB: b2.Actions[0].Name,
				Byte:    b,
				Witness: witnessTo(fromState, b, parent),
			}
		}
	}
	return nil
}

func witnessTo(state StateID, lastByte byte, parent map[StateID]parentEdge) []byte {
	var rev []byte
	cur := state
	for {
		p, ok := parent[cur]
		if !ok {
			break
		}
		rev = append(rev, p.b)
		cur = p.from
	}
	witness := make([]byte, len(rev))
	for i, b := range rev {
		witness[len(rev)-1-i] = b
	}
	return append(witness, lastByte)
}

