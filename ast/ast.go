// Package ast implements the regex algebra: a tagged tree of regex
// constructors annotated with action hooks and an optional precondition.
//
// Nodes are immutable once constructed. Annotating a node with actions or
// a precondition returns a new node value with the annotation installed;
// shared sub-ASTs are always safe to reuse because mutation never occurs.
package ast

import (
	"github.com/coregx/rxgen/actions"
	"github.com/coregx/rxgen/byteset"
)

// Kind tags the variant of a Node.
type Kind uint8

const (
	// KindEmpty matches the empty string.
	KindEmpty Kind = iota
	// KindSymbol matches a single byte drawn from a ByteSet.
	KindSymbol
	// KindConcat matches its children in sequence.
	KindConcat
	// KindAlt matches either branch, left branch preferred on priority ties.
	KindAlt
	// KindRep matches zero or more repetitions of its child (Kleene star).
	KindRep
	// KindAnd matches the intersection of two languages.
	KindAnd
	// KindDiff matches strings in the left language but not the right.
	KindDiff
)

// Annotation carries the action hooks and precondition attached to a
// node. The zero value means "no annotation".
type Annotation struct {
	Enter     []actions.Name
	Final     []actions.Name
	Exit      []actions.Name
	All       []actions.Name
	Precond   actions.Name
	HasPrecond bool
}

// IsZero reports whether the annotation carries no hooks and no precondition.
func (a Annotation) IsZero() bool {
	return len(a.Enter) == 0 && len(a.Final) == 0 && len(a.Exit) == 0 &&
		len(a.All) == 0 && !a.HasPrecond
}

// Node is an immutable regex-algebra tree node.
//
// Fields are unexported; construct nodes via the package-level builder
// functions (Symbol, Concat, Alt, Rep, ...), and annotate via OnEnter,
// OnFinal, OnExit, OnAll and When.
type Node struct {
	kind Kind

	symbol *byteset.Set // KindSymbol
	subs   []Node       // KindConcat (ordered); KindAlt/And/Diff/Rep use left/right/inner via subs[0], subs[1]

	ann Annotation
}

// Kind returns the node's variant tag.
func (n Node) Kind() Kind { return n.kind }

// Symbol returns the node's byte set. Valid only when Kind() == KindSymbol.
func (n Node) Symbol() *byteset.Set { return n.symbol }

// Children returns the node's ordered sub-nodes. For KindConcat this is
// the full sequence; for KindAlt/KindAnd/KindDiff it is [left, right];
// for KindRep it is [inner]; for KindEmpty and KindSymbol it is empty.
func (n Node) Children() []Node { return n.subs }

// Annotation returns the node's action/precondition annotation.
func (n Node) Annotation() Annotation { return n.ann }

// Empty returns the node matching exactly the empty string.
func Empty() Node {
	return Node{kind: KindEmpty}
}

// Symbol returns a node matching a single byte from set.
//
// set must be non-empty; Symbol panics otherwise, since an empty byte
// set can never be a valid leaf of the algebra and callers (the
// parser/builder) are expected to catch this earlier. Use NewSymbol for
// a non-panicking constructor when set comes from user-controlled input.
func Symbol(set *byteset.Set) Node {
	n, err := NewSymbol(set)
	if err != nil {
		panic(err)
	}
	return n
}

// NewSymbol is the non-panicking form of Symbol.
func NewSymbol(set *byteset.Set) (Node, error) {
	if set == nil || set.IsEmpty() {
		return Node{}, ErrEmptyByteSet
	}
	return Node{kind: KindSymbol, symbol: set}, nil
}

// Byte returns a node matching exactly one byte value.
func Byte(b byte) Node {
	return Symbol(byteset.FromBytes(b))
}

// ByteRange returns a node matching any byte in [lo, hi].
func ByteRange(lo, hi byte) Node {
	return Symbol(byteset.FromRanges(byteset.Range{Lo: lo, Hi: hi}))
}

// Literal returns a node matching the given ASCII/byte string exactly,
// built as a Concat of single-byte Symbol nodes.
func Literal(s string) Node {
	bs := make([]Node, len(s))
	for i := 0; i < len(s); i++ {
		bs[i] = Byte(s[i])
	}
	return Concat(bs...)
}

// Rune returns a node matching the UTF-8 encoding of r, expanded to a
// Concat of byte literals.
func Rune(r rune) Node {
	buf := make([]byte, 4)
	n := encodeUTF8(buf, r)
	return Literal(string(buf[:n]))
}

// Concat returns a node matching its arguments in sequence.
//
// Concat is canonicalized by flattening nested, unannotated Concat
// children while preserving the original child order, so priority-based
// disambiguation over the flattened sequence still reflects declaration
// order. A zero-argument Concat is Empty; a single-argument Concat is
// that argument unchanged so Concat(R, Empty) == R holds structurally
// for the common case of appending Empty.
func Concat(nodes ...Node) Node {
	var flat []Node
	for _, n := range nodes {
		if n.kind == KindEmpty && !hasAnnotation(n) {
			continue // Concat(R, Empty) == R
		}
		if n.kind == KindConcat && !hasAnnotation(n) {
			flat = append(flat, n.subs...)
			continue
		}
		flat = append(flat, n)
	}
	switch len(flat) {
	case 0:
		return Empty()
	case 1:
		return flat[0]
	default:
		return Node{kind: KindConcat, subs: flat}
	}
}

// Alt returns a node matching either left or right, with left preferred
// whenever both could match at the same priority; child order is
// preserved to allow priority-based disambiguation downstream.
func Alt(left, right Node) Node {
	return Node{kind: KindAlt, subs: []Node{left, right}}
}

// Rep returns a node matching zero or more repetitions of inner
// (Kleene star).
//
// Rep(Empty) == Empty.
func Rep(inner Node) Node {
	if inner.kind == KindEmpty && !hasAnnotation(inner) {
		return inner
	}
	return Node{kind: KindRep, subs: []Node{inner}}
}

// Opt returns a node matching zero or one occurrence of inner (R?),
// derived as Alt(inner, Empty).
func Opt(inner Node) Node {
	return Alt(inner, Empty())
}

// Rep1 returns a node matching one or more repetitions of inner (R+),
// derived as Concat(inner, Rep(inner)).
func Rep1(inner Node) Node {
	return Concat(inner, Rep(inner))
}

// Intersect returns a node matching the intersection of left's and
// right's languages.
func Intersect(left, right Node) Node {
	return Node{kind: KindAnd, subs: []Node{left, right}}
}

// Diff returns a node matching strings accepted by left but not right.
func Diff(left, right Node) Node {
	return Node{kind: KindDiff, subs: []Node{left, right}}
}

// Negate returns a node matching every byte sequence not matched by
// inner, derived as Diff(AnySequence, inner).
func Negate(inner Node) Node {
	return Diff(AnySequence(), inner)
}

// AnySequence returns a node matching any (possibly empty) sequence of
// bytes: Rep(Symbol(Full())).
func AnySequence() Node {
	return Rep(Symbol(byteset.Full()))
}

func hasAnnotation(n Node) bool {
	return !n.ann.IsZero()
}

// encodeUTF8 is a small self-contained UTF-8 encoder so ast has no
// dependency on unicode/utf8 beyond what it needs for rune expansion.
func encodeUTF8(buf []byte, r rune) int {
	switch {
	case r < 0x80:
		buf[0] = byte(r)
		return 1
	case r < 0x800:
		buf[0] = 0xC0 | byte(r>>6)
		buf[1] = 0x80 | byte(r&0x3F)
		return 2
	case r < 0x10000:
		buf[0] = 0xE0 | byte(r>>12)
		buf[1] = 0x80 | byte((r>>6)&0x3F)
		buf[2] = 0x80 | byte(r&0x3F)
		return 3
	default:
		buf[0] = 0xF0 | byte(r>>18)
		buf[1] = 0x80 | byte((r>>12)&0x3F)
		buf[2] = 0x80 | byte((r>>6)&0x3F)
		buf[3] = 0x80 | byte(r&0x3F)
		return 4
	}
}
