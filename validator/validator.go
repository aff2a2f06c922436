// Package validator is a thin skin over package compile: it compiles a
// single regex and checks whole inputs against it by interpreting the
// compiled machine.Machine directly, in-process, rather than through
// generated source — the "validator" collaborator described alongside
// the core compiler.
package validator

import (
	"fmt"

	"github.com/coregx/rxgen/actions"
	"github.com/coregx/rxgen/ast"
	"github.com/coregx/rxgen/compile"
	"github.com/coregx/rxgen/machine"
)

// Validator checks whole byte strings against one compiled regex.
type Validator struct {
	m    *machine.Machine
	cond func(actions.Name) bool
	fire func(actions.Name)
}

// New compiles n and returns a Validator ready to check input against
// it.
func New(n ast.Node, opts compile.Options) (*Validator, error) {
	m, err := compile.Compile(n, opts)
	if err != nil {
		return nil, err
	}
	return &Validator{m: m}, nil
}

// SetConditions installs the predicate consulted for every
// precondition-guarded action group Validate crosses; cond reports
// whether the named precondition currently holds. A nil cond (the
// default) treats every precondition as not holding.
func (v *Validator) SetConditions(cond func(actions.Name) bool) { v.cond = cond }

// SetActionHandler installs fire, called in firing order for every
// action Validate's walk selects.
func (v *Validator) SetActionHandler(fire func(actions.Name)) { v.fire = fire }

// Error reports where validation failed: a byte position plus the
// 1-based line/column it falls on, counting '\n' as ending a line.
type Error struct {
	Position int
	Line     int
	Column   int
	Reason   string
}

func (e *Error) Error() string {
	return fmt.Sprintf("validation failed at line %d, column %d (byte %d): %s", e.Line, e.Column, e.Position, e.Reason)
}

// Validate reports nil if data is fully accepted by the compiled regex,
// or an *Error pinpointing the first byte that could not be consumed
// (or, if every byte was consumed, the fact that the final state was
// non-accepting).
func (v *Validator) Validate(data []byte) error {
	state := v.m.Start
	for i, b := range data {
		class := v.m.Alphabet.Class(b)
		next, fired, ok := v.m.Step(state, class, v.cond)
		if !ok {
			line, col := lineCol(data, i)
			return &Error{Position: i, Line: line, Column: col, Reason: fmt.Sprintf("unexpected byte %q", b)}
		}
		for _, a := range fired {
			if v.fire != nil {
				v.fire(a.Name)
			}
		}
		state = next
	}
	if !v.m.States[state].Accept {
		line, col := lineCol(data, len(data))
		return &Error{Position: len(data), Line: line, Column: col, Reason: "unexpected end of input"}
	}
	for _, a := range v.m.States[state].EOFActions {
		if v.fire != nil {
			v.fire(a.Name)
		}
	}
	return nil
}

// lineCol converts a byte offset into data to a 1-based (line, column)
// pair, counting each '\n' as ending its line.
func lineCol(data []byte, pos int) (line, col int) {
	line, col = 1, 1
	if pos > len(data) {
		pos = len(data)
	}
	for i := 0; i < pos; i++ {
		if data[i] == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return line, col
}
