// Package streamreader is a thin skin over package machine implementing
// the streaming-reader contract: a compiled Machine driven across
// successive, independently-sized chunks, with an escape primitive
// (Feed returns when a chunk is exhausted, preserving cs and the
// absolute position) and a mark/unmark/markpos primitive pair so a
// caller's ring buffer knows how much history it must retain across
// refills.
package streamreader

import (
	"github.com/coregx/rxgen/actions"
	"github.com/coregx/rxgen/diag"
	"github.com/coregx/rxgen/machine"
)

// Cursor is the resumable matcher state: cs and an absolute byte
// position, carried across Feed calls so that matching resumes where
// the previous chunk ended when a streaming caller refills its buffer.
type Cursor struct {
	m    *machine.Machine
	cs   uint32
	pos  int
	mark int // absolute position of the last Mark, or -1 if unmarked
	tail []byte

	// onAction, if non-nil, runs for every action fired during Feed or
	// Finish, in firing order.
	onAction func(actions.Name)

	// cond, if non-nil, is consulted for every precondition-guarded
	// action group Feed crosses; see SetConditions.
	cond func(actions.Name) bool
}

// New returns a Cursor positioned at m's start state, ready to Feed.
func New(m *machine.Machine, onAction func(actions.Name)) *Cursor {
	return &Cursor{m: m, cs: m.Start, mark: -1, onAction: onAction}
}

// SetConditions installs the predicate consulted for every
// precondition-guarded action group Feed crosses; cond reports whether
// the named precondition currently holds. A nil cond (the default)
// treats every precondition as not holding.
func (c *Cursor) SetConditions(cond func(actions.Name) bool) { c.cond = cond }

// Mark anchors the cursor's current absolute position: the caller must
// retain every byte from this position onward across subsequent Feed
// calls, until Unmark. This is how a streaming reader keeps a
// partially-matched record alive across buffer refills.
func (c *Cursor) Mark() { c.mark = c.pos }

// Unmark releases the anchor set by Mark: the caller may discard
// everything up to the cursor's current position.
func (c *Cursor) Unmark() { c.mark = -1 }

// MarkPos reports the absolute position of the active mark, or ok=false
// if unmarked.
func (c *Cursor) MarkPos() (pos int, ok bool) {
	if c.mark < 0 {
		return 0, false
	}
	return c.mark, true
}

// Position reports the cursor's absolute consumed-byte position.
func (c *Cursor) Position() int { return c.pos }

// Feed advances the cursor over chunk, byte by byte, stopping early
// only on a runtime error: input with no outgoing transition from the
// current state. Exhausting chunk without error is the escape primitive
// and normal suspension point — the caller refills and calls
// Feed again, and cs/pos resume exactly where they left off.
func (c *Cursor) Feed(chunk []byte) error {
	for _, b := range chunk {
		class := c.m.Alphabet.Class(b)
		next, fired, ok := c.m.Step(c.cs, class, c.cond)
		c.tail = diag.TailBytes(append(c.tail, b), len(c.tail)+1)
		if !ok {
			return &diag.RuntimeError{Position: c.pos, State: int(c.cs), LastBytes: c.tail}
		}
		for _, a := range fired {
			if c.onAction != nil {
				c.onAction(a.Name)
			}
		}
		c.cs = next
		c.pos++
	}
	return nil
}

// Finish is called once the caller has no more input: it fires any
// actions owed at end of input and reports an *diag.UnexpectedEOFError
// if the current state is not accepting.
func (c *Cursor) Finish() error {
	st := c.m.States[c.cs]
	if !st.Accept {
		return &diag.UnexpectedEOFError{Position: c.pos, State: int(c.cs)}
	}
	for _, a := range st.EOFActions {
		if c.onAction != nil {
			c.onAction(a.Name)
		}
	}
	return nil
}
