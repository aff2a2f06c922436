package nfa

import "errors"

// Compile-time malformed-AST errors surfaced during Thompson construction.
var (
	// ErrEmptySymbol indicates a Symbol node reached NFA construction
	// with an empty byte set. ast.NewSymbol should have already
	// rejected this; this is a defense-in-depth check.
	ErrEmptySymbol = errors.New("nfa: symbol has empty byte set")

	// ErrUnsupportedAtNFALevel indicates an And/Diff node reached
	// Thompson construction directly. Callers must resolve
	// intersection/difference via dfa.Intersect/dfa.Difference before
	// NFA construction.
	ErrUnsupportedAtNFALevel = errors.New("nfa: intersection/difference must be resolved at the DFA level before NFA construction")
)
