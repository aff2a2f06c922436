package nfa

import (
	"github.com/coregx/rxgen/actions"
	"github.com/coregx/rxgen/ast"
	"github.com/coregx/rxgen/diag"
)

// fragment is a Thompson fragment with a single entry and a single exit
// state.
type fragment struct {
	entry, exit StateID
	lo, hi      StateID // state id range [lo, hi) allocated while building this fragment
}

// compiler holds the per-compilation state threaded through the
// recursive descent: the arena builder, the action registry, and a
// diagnostics collector for non-fatal warnings (e.g. an undeterminable
// final-action byte).
type compiler struct {
	b    *Builder
	reg  *actions.Registry
	diag *diag.Collector
}

// Compile performs Thompson expansion of n into an epsilon-NFA.
// reg resolves action names to priorities; diagnostics
// collects non-fatal warnings (e.g. undeterminable final actions).
func Compile(n ast.Node, reg *actions.Registry, diagnostics *diag.Collector) (*NFA, error) {
	if reg == nil {
		reg = actions.NewRegistry()
	}
	if diagnostics == nil {
		diagnostics = diag.NewCollector()
	}
	c := &compiler{b: NewBuilder(reg), reg: reg, diag: diagnostics}

	frag, err := c.compile(n)
	if err != nil {
		return nil, err
	}

	matchState := c.b.AddState()
	c.b.AddEdge(frag.exit, Edge{Kind: EdgeEpsilon, Target: matchState})

	return c.b.Build(frag.entry, matchState), nil
}

func (c *compiler) compile(n ast.Node) (fragment, error) {
	lo := StateID(c.b.NumStates())

	frag, err := c.compileShape(n)
	if err != nil {
		return fragment{}, err
	}
	frag.lo, frag.hi = lo, StateID(c.b.NumStates())

	return c.annotate(frag, n.Annotation()), nil
}

func (c *compiler) compileShape(n ast.Node) (fragment, error) {
	switch n.Kind() {
	case ast.KindEmpty:
		return c.compileEmpty()
	case ast.KindSymbol:
		return c.compileSymbol(n)
	case ast.KindConcat:
		return c.compileConcat(n.Children())
	case ast.KindAlt:
		children := n.Children()
		return c.compileAlt(children[0], children[1])
	case ast.KindRep:
		return c.compileRep(n.Children()[0])
	case ast.KindAnd, ast.KindDiff:
		// Intersection and difference are lowered at the DFA level: the
		// NFA layer treats them as opaque leaves that the caller
		// resolves via dfa.Intersect/dfa.Difference before NFA
		// construction ever sees them. Reaching here means the caller
		// built an AST containing And/Diff directly instead of going
		// through the documented two-step path.
		return fragment{}, ErrUnsupportedAtNFALevel
	default:
		return fragment{}, ErrUnsupportedAtNFALevel
	}
}

func (c *compiler) compileEmpty() (fragment, error) {
	entry := c.b.AddState()
	exit := c.b.AddState()
	c.b.AddEdge(entry, Edge{Kind: EdgeEpsilon, Target: exit})
	return fragment{entry: entry, exit: exit}, nil
}

func (c *compiler) compileSymbol(n ast.Node) (fragment, error) {
	entry := c.b.AddState()
	exit := c.b.AddState()
	ranges := n.Symbol().Ranges()
	if len(ranges) == 0 {
		return fragment{}, ErrEmptySymbol
	}
	for _, r := range ranges {
		c.b.AddEdge(entry, Edge{Kind: EdgeByte, Lo: r.Lo, Hi: r.Hi, Target: exit})
	}
	return fragment{entry: entry, exit: exit}, nil
}

func (c *compiler) compileConcat(children []ast.Node) (fragment, error) {
	if len(children) == 0 {
		return c.compileEmpty()
	}
	first, err := c.compile(children[0])
	if err != nil {
		return fragment{}, err
	}
	entry, exit := first.entry, first.exit
	for _, child := range children[1:] {
		next, err := c.compile(child)
		if err != nil {
			return fragment{}, err
		}
		c.b.AddEdge(exit, Edge{Kind: EdgeEpsilon, Target: next.entry})
		exit = next.exit
	}
	return fragment{entry: entry, exit: exit}, nil
}

func (c *compiler) compileAlt(left, right ast.Node) (fragment, error) {
	lf, err := c.compile(left)
	if err != nil {
		return fragment{}, err
	}
	rf, err := c.compile(right)
	if err != nil {
		return fragment{}, err
	}

	entry := c.b.AddState()
	exit := c.b.AddState()
	// Left edge added first: priority-based disambiguation downstream
	// relies on this declaration order.
	c.b.AddEdge(entry, Edge{Kind: EdgeEpsilon, Target: lf.entry})
	c.b.AddEdge(entry, Edge{Kind: EdgeEpsilon, Target: rf.entry})
	c.b.AddEdge(lf.exit, Edge{Kind: EdgeEpsilon, Target: exit})
	c.b.AddEdge(rf.exit, Edge{Kind: EdgeEpsilon, Target: exit})
	return fragment{entry: entry, exit: exit}, nil
}

func (c *compiler) compileRep(inner ast.Node) (fragment, error) {
	innerFrag, err := c.compile(inner)
	if err != nil {
		return fragment{}, err
	}

	loop := c.b.AddState() // doubles as the fragment's entry
	exit := c.b.AddState()
	c.b.AddEdge(loop, Edge{Kind: EdgeEpsilon, Target: innerFrag.entry}) // try once more
	c.b.AddEdge(loop, Edge{Kind: EdgeEpsilon, Target: exit})            // skip / done
	c.b.AddEdge(innerFrag.exit, Edge{Kind: EdgeEpsilon, Target: loop})  // repeat
	return fragment{entry: loop, exit: exit}, nil
}

// annotate applies ann to frag in a fixed order: final, all, enter,
// precondition, exit.
func (c *compiler) annotate(frag fragment, ann ast.Annotation) fragment {
	if len(ann.Final) > 0 {
		c.attachFinal(frag, c.resolve(ann.Final))
	}
	if len(ann.All) > 0 {
		c.attachAll(frag, c.resolve(ann.All))
	}
	if len(ann.Enter) > 0 {
		frag.entry = c.attachEnter(frag.entry, c.resolve(ann.Enter))
	}
	if ann.HasPrecond {
		c.attachPrecond(frag.entry, ann.Precond)
	}
	if len(ann.Exit) > 0 {
		frag.exit = c.attachExit(frag.exit, c.resolve(ann.Exit))
	}
	return frag
}

// resolve maps action names to registered Actions, defaulting any
// never-seen name to priority 0 so actions may be attached before an
// explicit priority is assigned via the registry.
func (c *compiler) resolve(names []actions.Name) []actions.Action {
	list := make([]actions.Action, len(names))
	for i, name := range names {
		list[i] = c.reg.MustLookup(name)
	}
	return list
}

// attachFinal attaches actions to every byte-transition that ends the
// fragment: one whose target is frag.exit or reaches frag.exit through
// epsilon edges alone. It warns, instead of failing, when no such
// transition exists or when the fragment also matches the empty string
// (e.g. Rep), since a match of no bytes has no last byte.
func (c *compiler) attachFinal(frag fragment, list []actions.Action) {
	ends := map[StateID]bool{frag.exit: true}
	for grew := true; grew; {
		grew = false
		for id := frag.lo; id < frag.hi; id++ {
			for _, e := range c.b.EdgesOf(id) {
				if e.Kind == EdgeEpsilon && ends[e.Target] && !ends[id] {
					ends[id], grew = true, true
				}
			}
		}
	}
	found := false
	for id := frag.lo; id < frag.hi; id++ {
		edges := c.b.EdgesOf(id)
		for i, e := range edges {
			if e.Kind == EdgeByte && ends[e.Target] {
				c.b.SetEdgeActions(id, i, mergeActions(c.reg, edges[i].Actions, list))
				found = true
			}
		}
	}
	if !found || ends[frag.entry] {
		c.diag.Warn("final action has no determinable last byte for this fragment")
	}
}

// attachAll attaches actions to every byte-transition inside the
// fragment's allocated state range.
func (c *compiler) attachAll(frag fragment, list []actions.Action) {
	for id := frag.lo; id < frag.hi; id++ {
		edges := c.b.EdgesOf(id)
		for i, e := range edges {
			if e.Kind == EdgeByte {
				c.b.SetEdgeActions(id, i, mergeActions(c.reg, edges[i].Actions, list))
			}
		}
	}
}

// attachEnter wraps entry with a fresh epsilon gate carrying the enter
// actions. It always synthesizes a new single predecessor edge rather
// than conditionally reusing an existing one, trading a small amount of
// NFA size for a uniform, always-applicable attachment point.
func (c *compiler) attachEnter(entry StateID, list []actions.Action) StateID {
	gate := c.b.AddState()
	c.b.AddEdge(gate, Edge{Kind: EdgeEpsilon, Target: entry, Actions: list})
	return gate
}

// attachPrecond attaches a precondition to every transition leaving
// entry.
func (c *compiler) attachPrecond(entry StateID, precond actions.Name) {
	edges := c.b.EdgesOf(entry)
	for i := range edges {
		edges[i].Precond = precond
		edges[i].HasPrecond = true
	}
}

// attachExit wraps exit with a fresh epsilon gate and registers the exit
// action list as owed to the first byte-consuming edge reached after the
// gate. The same list is used for EOF actions by the NFA→DFA subset
// construction when the gate is live at end of input.
func (c *compiler) attachExit(exit StateID, list []actions.Action) StateID {
	gate := c.b.AddState()
	c.b.AddEdge(exit, Edge{Kind: EdgeEpsilon, Target: gate})
	c.b.MarkExitGate(gate, list)
	return gate
}

func mergeActions(reg *actions.Registry, existing, added []actions.Action) []actions.Action {
	merged := append(append([]actions.Action{}, existing...), added...)
	reg.SortList(merged)
	return merged
}
