package compile

import (
	"github.com/coregx/rxgen/actions"
	"github.com/coregx/rxgen/ast"
	"github.com/coregx/rxgen/dfa"
	"github.com/coregx/rxgen/diag"
	"github.com/coregx/rxgen/nfa"
)

// containsAndDiff reports whether n or any descendant is an
// intersection or difference node.
func containsAndDiff(n ast.Node) bool {
	if n.Kind() == ast.KindAnd || n.Kind() == ast.KindDiff {
		return true
	}
	for _, c := range n.Children() {
		if containsAndDiff(c) {
			return true
		}
	}
	return false
}

// fragment is a spliced-in piece of a shared nfa.Builder arena: a
// single entry and a single exit state, exactly like nfa's internal
// Thompson fragment.
type fragment struct {
	entry, exit nfa.StateID
}

// lowerer builds one shared NFA arena across an AST that may contain
// And/Diff nodes anywhere, delegating whole And/Diff-free subtrees to
// nfa.Compile and splicing the result in directly, and compiling each
// And/Diff operand independently to a DFA via compileToDFA before
// embedding the product as an opaque fragment.
type lowerer struct {
	b    *nfa.Builder
	reg  *actions.Registry
	diag *diag.Collector
	opts Options
}

// compileWithAndDiff compiles n into a single NFA, resolving every
// And/Diff subtree (at any depth) through the independent
// NFA→DFA→product detour described in compile.Compile's doc comment.
func compileWithAndDiff(n ast.Node, opts Options) (*nfa.NFA, error) {
	l := &lowerer{b: nfa.NewBuilder(opts.registry()), reg: opts.registry(), diag: opts.diagnostics(), opts: opts}
	frag, err := l.compile(n)
	if err != nil {
		return nil, err
	}
	matchState := l.b.AddState()
	l.b.AddEdge(frag.exit, nfa.Edge{Kind: nfa.EdgeEpsilon, Target: matchState})
	return l.b.Build(frag.entry, matchState), nil
}

func (l *lowerer) compile(n ast.Node) (fragment, error) {
	if !containsAndDiff(n) {
		return l.delegateToNFA(n)
	}

	lo := nfa.StateID(l.b.NumStates())
	var frag fragment
	var err error
	switch n.Kind() {
	case ast.KindAnd, ast.KindDiff:
		frag, err = l.compileProductShape(n)
	case ast.KindConcat:
		frag, err = l.compileConcat(n.Children())
	case ast.KindAlt:
		children := n.Children()
		frag, err = l.compileAlt(children[0], children[1])
	case ast.KindRep:
		frag, err = l.compileRep(n.Children()[0])
	default:
		// Empty/Symbol never contain And/Diff descendants, so
		// containsAndDiff already routed them to delegateToNFA.
		return l.delegateToNFA(n)
	}
	if err != nil {
		return fragment{}, err
	}
	hi := nfa.StateID(l.b.NumStates())
	return l.annotate(frag, n, lo, hi), nil
}

// delegateToNFA compiles an And/Diff-free subtree with the existing
// Thompson construction and splices its states wholesale into the
// shared arena, preserving every edge, action, precondition and owed
// exit-action entry exactly as nfa.Compile produced them.
func (l *lowerer) delegateToNFA(n ast.Node) (fragment, error) {
	sub, err := nfa.Compile(n, l.reg, l.diag)
	if err != nil {
		return fragment{}, err
	}
	return l.embedNFA(sub), nil
}

// embedNFA copies every state of sub into l.b's arena and returns the
// corresponding entry/exit fragment. It is not annotated here: callers
// that need n's own annotation applied call l.annotate separately
// (delegateToNFA already baked annotations into sub via nfa.Compile, so
// it does not call annotate again).
func (l *lowerer) embedNFA(sub *nfa.NFA) fragment {
	n := sub.NumStates()
	ids := make([]nfa.StateID, n)
	for i := 0; i < n; i++ {
		ids[i] = l.b.AddState()
	}
	for i := 0; i < n; i++ {
		for _, e := range sub.Edges(nfa.StateID(i)) {
			l.b.AddEdge(ids[i], nfa.Edge{
				Kind: e.Kind, Lo: e.Lo, Hi: e.Hi, Target: ids[e.Target],
				Actions: e.Actions, Precond: e.Precond, HasPrecond: e.HasPrecond,
			})
		}
		if list := sub.ExitActionsAt(nfa.StateID(i)); len(list) > 0 {
			l.b.MarkExitGate(ids[i], list)
		}
	}
	return fragment{entry: ids[sub.Start()], exit: ids[sub.Final()]}
}

// embedDFA embeds an already-built DFA (the product of an And/Diff
// pair) as an opaque fragment: one arena state per DFA state, each
// accepting DFA state additionally owing its EOF actions to whatever
// byte-consuming edge is reached next and epsilon-joining the shared
// exit, exactly mirroring how a plain Thompson fragment's OnExit gate
// behaves.
func (l *lowerer) embedDFA(d *dfa.DFA) fragment {
	n := d.NumStates()
	ids := make([]nfa.StateID, n)
	for i := 0; i < n; i++ {
		ids[i] = l.b.AddState()
	}
	exit := l.b.AddState()
	for i := 0; i < n; i++ {
		id := dfa.StateID(i)
		for _, t := range d.Transitions(id) {
			for _, g := range t.Groups {
				l.b.AddEdge(ids[i], nfa.Edge{
					Kind: nfa.EdgeByte, Lo: t.Lo, Hi: t.Hi, Target: ids[t.Target],
					Actions: g.Actions, Precond: g.Precond, HasPrecond: g.HasPrecond,
				})
			}
		}
		if d.IsAccepting(id) {
			if eof := d.EOFActions(id); len(eof) > 0 {
				l.b.MarkExitGate(ids[i], eof)
			}
			l.b.AddEdge(ids[i], nfa.Edge{Kind: nfa.EdgeEpsilon, Target: exit})
		}
	}
	return fragment{entry: ids[d.Start()], exit: exit}
}

// compileToDFA independently compiles n (which may itself contain
// nested And/Diff subtrees) all the way to a DFA, for use as one
// operand of a product construction.
func compileToDFA(n ast.Node, opts Options) (*dfa.DFA, error) {
	sub, err := compileWithAndDiff(n, opts)
	if err != nil {
		return nil, err
	}
	return dfa.Build(sub, dfa.Options{Unambiguous: opts.Unambiguous, MaxStates: opts.MaxStates}, opts.diagnostics())
}

func (l *lowerer) compileProductShape(n ast.Node) (fragment, error) {
	children := n.Children()
	left, err := compileToDFA(children[0], l.opts)
	if err != nil {
		return fragment{}, err
	}
	right, err := compileToDFA(children[1], l.opts)
	if err != nil {
		return fragment{}, err
	}
	var prod *dfa.DFA
	if n.Kind() == ast.KindAnd {
		prod = dfa.Intersect(left, right)
	} else {
		prod = dfa.Difference(left, right)
	}
	return l.embedDFA(prod), nil
}

func (l *lowerer) compileConcat(children []ast.Node) (fragment, error) {
	if len(children) == 0 {
		return l.delegateToNFA(ast.Empty())
	}
	first, err := l.compile(children[0])
	if err != nil {
		return fragment{}, err
	}
	entry, exit := first.entry, first.exit
	for _, child := range children[1:] {
		next, err := l.compile(child)
		if err != nil {
			return fragment{}, err
		}
		l.b.AddEdge(exit, nfa.Edge{Kind: nfa.EdgeEpsilon, Target: next.entry})
		exit = next.exit
	}
	return fragment{entry: entry, exit: exit}, nil
}

func (l *lowerer) compileAlt(left, right ast.Node) (fragment, error) {
	lf, err := l.compile(left)
	if err != nil {
		return fragment{}, err
	}
	rf, err := l.compile(right)
	if err != nil {
		return fragment{}, err
	}
	entry := l.b.AddState()
	exit := l.b.AddState()
	l.b.AddEdge(entry, nfa.Edge{Kind: nfa.EdgeEpsilon, Target: lf.entry})
	l.b.AddEdge(entry, nfa.Edge{Kind: nfa.EdgeEpsilon, Target: rf.entry})
	l.b.AddEdge(lf.exit, nfa.Edge{Kind: nfa.EdgeEpsilon, Target: exit})
	l.b.AddEdge(rf.exit, nfa.Edge{Kind: nfa.EdgeEpsilon, Target: exit})
	return fragment{entry: entry, exit: exit}, nil
}

func (l *lowerer) compileRep(inner ast.Node) (fragment, error) {
	innerFrag, err := l.compile(inner)
	if err != nil {
		return fragment{}, err
	}
	loop := l.b.AddState()
	exit := l.b.AddState()
	l.b.AddEdge(loop, nfa.Edge{Kind: nfa.EdgeEpsilon, Target: innerFrag.entry})
	l.b.AddEdge(loop, nfa.Edge{Kind: nfa.EdgeEpsilon, Target: exit})
	l.b.AddEdge(innerFrag.exit, nfa.Edge{Kind: nfa.EdgeEpsilon, Target: loop})
	return fragment{entry: loop, exit: exit}, nil
}

// annotate applies n's own annotation (Final/All/Enter/Precond/Exit)
// against frag, restricting Final/All's search to the arena states
// allocated in [lo, hi) while building n's shape. Only reached for
// Concat/Alt/Rep/And/Diff nodes built by this lowerer; delegateToNFA's
// subtrees already had their annotation applied by nfa.Compile.
func (l *lowerer) annotate(frag fragment, n ast.Node, lo, hi nfa.StateID) fragment {
	ann := n.Annotation()
	if ann.IsZero() {
		return frag
	}
	if len(ann.Final) > 0 {
		l.attachFinal(frag, l.resolve(ann.Final), lo, hi)
	}
	if len(ann.All) > 0 {
		l.attachAll(l.resolve(ann.All), lo, hi)
	}
	if len(ann.Enter) > 0 {
		gate := l.b.AddState()
		l.b.AddEdge(gate, nfa.Edge{Kind: nfa.EdgeEpsilon, Target: frag.entry, Actions: l.resolve(ann.Enter)})
		frag.entry = gate
	}
	if ann.HasPrecond {
		edges := l.b.EdgesOf(frag.entry)
		for i := range edges {
			edges[i].Precond = ann.Precond
			edges[i].HasPrecond = true
		}
	}
	if len(ann.Exit) > 0 {
		gate := l.b.AddState()
		l.b.AddEdge(frag.exit, nfa.Edge{Kind: nfa.EdgeEpsilon, Target: gate})
		l.b.MarkExitGate(gate, l.resolve(ann.Exit))
		frag.exit = gate
	}
	return frag
}

func (l *lowerer) resolve(names []actions.Name) []actions.Action {
	list := make([]actions.Action, len(names))
	for i, name := range names {
		list[i] = l.reg.MustLookup(name)
	}
	return list
}

func (l *lowerer) attachFinal(frag fragment, list []actions.Action, lo, hi nfa.StateID) {
	found := false
	for id := lo; id < hi; id++ {
		edges := l.b.EdgesOf(id)
		for i, e := range edges {
			if e.Kind == nfa.EdgeByte && e.Target == frag.exit {
				merged := append(append([]actions.Action{}, edges[i].Actions...), list...)
				l.reg.SortList(merged)
				l.b.SetEdgeActions(id, i, merged)
				found = true
			}
		}
	}
	if !found {
		l.diag.Warn("final action has no determinable last byte for this fragment; attached to nothing")
	}
}

func (l *lowerer) attachAll(list []actions.Action, lo, hi nfa.StateID) {
	for id := lo; id < hi; id++ {
		edges := l.b.EdgesOf(id)
		for i, e := range edges {
			if e.Kind == nfa.EdgeByte {
				merged := append(append([]actions.Action{}, edges[i].Actions...), list...)
				l.reg.SortList(merged)
				l.b.SetEdgeActions(id, i, merged)
			}
		}
	}
}
