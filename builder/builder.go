// Package builder is the programmatic, in-Go regex-building facade: a
// thin re-export of package ast's constructors under stable names, so
// callers assembling a regex from code depend on builder rather than
// reaching into the AST package directly.
package builder

import (
	"github.com/coregx/rxgen/actions"
	"github.com/coregx/rxgen/ast"
	"github.com/coregx/rxgen/byteset"
)

// Node is a regex-algebra tree node. See ast.Node.
type Node = ast.Node

// Empty matches the empty string.
func Empty() Node { return ast.Empty() }

// Symbol matches a single byte drawn from set.
func Symbol(set *byteset.Set) (Node, error) { return ast.NewSymbol(set) }

// Byte matches exactly one literal byte.
func Byte(b byte) Node { return ast.Byte(b) }

// ByteRange matches one byte in [lo, hi].
func ByteRange(lo, hi byte) Node { return ast.ByteRange(lo, hi) }

// Literal matches the exact byte sequence of s.
func Literal(s string) Node { return ast.Literal(s) }

// Rune matches the raw UTF-8 byte sequence encoding r.
func Rune(r rune) Node { return ast.Rune(r) }

// Concat matches its operands in sequence.
func Concat(nodes ...Node) Node { return ast.Concat(nodes...) }

// Alt matches either branch, left preferred on a priority tie.
func Alt(left, right Node) Node { return ast.Alt(left, right) }

// Rep matches zero or more repetitions of inner (Kleene star).
func Rep(inner Node) Node { return ast.Rep(inner) }

// Opt matches zero or one repetition of inner.
func Opt(inner Node) Node { return ast.Opt(inner) }

// Rep1 matches one or more repetitions of inner.
func Rep1(inner Node) Node { return ast.Rep1(inner) }

// Intersect matches strings accepted by both left and right.
func Intersect(left, right Node) Node { return ast.Intersect(left, right) }

// Diff matches strings accepted by left but not by right.
func Diff(left, right Node) Node { return ast.Diff(left, right) }

// Negate matches every string not accepted by inner.
func Negate(inner Node) Node { return ast.Negate(inner) }

// OnEnter attaches enter actions, firing on entry to n's sub-language.
func OnEnter(n Node, names ...actions.Name) Node { return ast.OnEnter(n, names...) }

// OnFinal attaches final actions, firing on the last consumed byte of
// n's sub-language when computable.
func OnFinal(n Node, names ...actions.Name) Node { return ast.OnFinal(n, names...) }

// OnExit attaches exit actions, firing when leaving n's sub-language.
func OnExit(n Node, names ...actions.Name) Node { return ast.OnExit(n, names...) }

// OnAll attaches actions firing on every byte consumed inside n's
// sub-language.
func OnAll(n Node, names ...actions.Name) Node { return ast.OnAll(n, names...) }

// When attaches a precondition guarding entry to n's sub-language.
func When(n Node, precond actions.Name) Node { return ast.When(n, precond) }
