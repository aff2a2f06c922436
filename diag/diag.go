// Package diag implements compile-time and runtime diagnostics:
// ambiguity reporting with a witness input during NFA→DFA construction,
// and input-error / unexpected-EOF rendering at matcher run time.
package diag

import (
	"fmt"
	"strings"

	"github.com/coregx/rxgen/actions"
	"github.com/coregx/rxgen/byteset"
)

// Warning is a non-fatal compile-time note, e.g. "final action attached
// to a fragment with no determinable final byte".
type Warning struct {
	Message string
}

func (w Warning) String() string { return w.Message }

// Collector accumulates warnings produced during a single compilation.
// It is not safe for concurrent use; each compile should use its own
// Collector, the same local-context discipline the action registry
// follows.
type Collector struct {
	warnings []Warning
}

// NewCollector returns an empty Collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Warn records a warning message.
func (c *Collector) Warn(format string, args ...any) {
	c.warnings = append(c.warnings, Warning{Message: fmt.Sprintf(format, args...)})
}

// Warnings returns every warning recorded so far.
func (c *Collector) Warnings() []Warning {
	return c.warnings
}

// AmbiguityError reports a compile-time ambiguity detected while building
// an unambiguous machine: two distinct final-marker actions compete on
// the same accepting byte, with a minimal witness input.
type AmbiguityError struct {
	ActionA, ActionB actions.Name
	Byte             byte
	Witness          []byte
}

func (e *AmbiguityError) Error() string {
	return fmt.Sprintf(
		"ambiguous match: actions %q and %q both fire on byte %q; witness input %q",
		e.ActionA, e.ActionB, string(e.Byte), string(e.Witness),
	)
}

// StateLimitError reports that compilation exceeded the configured DFA
// state cap, identifying the sub-regex that triggered the blowup when
// known.
type StateLimitError struct {
	Limit     int
	SubRegexp string
}

func (e *StateLimitError) Error() string {
	if e.SubRegexp != "" {
		return fmt.Sprintf("compilation exceeded %d DFA states while expanding %q", e.Limit, e.SubRegexp)
	}
	return fmt.Sprintf("compilation exceeded %d DFA states", e.Limit)
}

// RuntimeError renders a run-time input error: the matcher read a byte
// with no outgoing transition from the current state.
type RuntimeError struct {
	Position  int
	State     int
	LastBytes []byte
	Valid     *byteset.Set
}

func (e *RuntimeError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "input error at position %d (state %d)", e.Position, e.State)
	if len(e.LastBytes) > 0 {
		fmt.Fprintf(&sb, ", after %q", string(e.LastBytes))
	}
	if e.Valid != nil && !e.Valid.IsEmpty() {
		fmt.Fprintf(&sb, ", expected one of %s", e.Valid.String())
	}
	return sb.String()
}

// UnexpectedEOFError renders a run-time "input ended mid-match" signal
// (current state non-final at return).
type UnexpectedEOFError struct {
	Position int
	State    int
}

func (e *UnexpectedEOFError) Error() string {
	return fmt.Sprintf("unexpected end of input at position %d (state %d, match incomplete)", e.Position, e.State)
}
