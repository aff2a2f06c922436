package compile

import (
	"github.com/coregx/rxgen/ast"
	"github.com/coregx/rxgen/dfa"
	"github.com/coregx/rxgen/machine"
)

// Compile runs the full NFA→DFA→[minimize]→Machine pipeline over n.
//
// ast.And/ast.Diff subtrees, wherever they occur in n, are lowered
// through an independent NFA→DFA→product detour (each operand
// separately subset-constructed, then dfa.Intersect/dfa.Difference)
// before being spliced back into the surrounding Thompson construction
// as an opaque fragment; every other node is compiled by the ordinary
// Thompson construction unchanged.
func Compile(n ast.Node, opts Options) (*machine.Machine, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	nf, err := compileWithAndDiff(n, opts)
	if err != nil {
		return nil, err
	}

	d, err := dfa.Build(nf, dfa.Options{Unambiguous: opts.Unambiguous, MaxStates: opts.MaxStates}, opts.diagnostics())
	if err != nil {
		return nil, err
	}

	if opts.Minimize {
		d = dfa.Minimize(d)
	}

	alphabet := machine.BuildAlphabet(d)
	return machine.Build(d, alphabet), nil
}
