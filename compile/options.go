// Package compile glues the regex-algebra-to-Machine pipeline together:
// NFA construction, NFA→DFA subset construction, DFA minimization, and
// Machine compaction, with ast.KindAnd/KindDiff subtrees lowered through
// an independent NFA→DFA→product detour before being spliced back in as
// opaque fragments for any further Thompson composition.
package compile

import (
	"fmt"

	"github.com/coregx/rxgen/actions"
	"github.com/coregx/rxgen/diag"
)

// Options controls one Compile call.
type Options struct {
	// Registry resolves action/precondition names across the whole
	// tree, including every independently-compiled And/Diff operand.
	// Defaults to a fresh, empty Registry when nil.
	Registry *actions.Registry

	// Diagnostics collects non-fatal warnings, e.g. an undeterminable
	// final action. Defaults to a fresh Collector when nil.
	Diagnostics *diag.Collector

	// Unambiguous rejects any DFA transition on which two unconditional
	// action lists tie on priority with different leading actions; see
	// dfa.Options.Unambiguous.
	Unambiguous bool

	// MaxStates bounds every DFA built during compilation (both the
	// top-level DFA and any And/Diff operand's DFA); 0 means unbounded.
	MaxStates int

	// Minimize runs Moore-style partition refinement on the final DFA
	// before compacting it into a Machine.
	Minimize bool
}

// DefaultOptions returns an Options with an empty Registry, unbounded
// state count, ambiguity checking on, and minimization on.
func DefaultOptions() Options {
	return Options{
		Registry:    actions.NewRegistry(),
		Diagnostics: diag.NewCollector(),
		Unambiguous: true,
		Minimize:    true,
	}
}

// Validate reports whether o is well-formed.
func (o Options) Validate() error {
	if o.MaxStates < 0 {
		return fmt.Errorf("compile: MaxStates must not be negative")
	}
	return nil
}

func (o Options) registry() *actions.Registry {
	if o.Registry != nil {
		return o.Registry
	}
	return actions.NewRegistry()
}

func (o Options) diagnostics() *diag.Collector {
	if o.Diagnostics != nil {
		return o.Diagnostics
	}
	return diag.NewCollector()
}
