package ast

import "github.com/coregx/rxgen/actions"

// OnEnter attaches enter actions to n, firing on the epsilon edge leading
// into the sub-language. Returns a new node; n is unchanged.
func OnEnter(n Node, names ...actions.Name) Node {
	n.ann.Enter = append(append([]actions.Name{}, n.ann.Enter...), names...)
	return n
}

// OnFinal attaches final actions to n, firing on the last consumed byte
// of the matched sub-language when computable.
func OnFinal(n Node, names ...actions.Name) Node {
	n.ann.Final = append(append([]actions.Name{}, n.ann.Final...), names...)
	return n
}

// OnExit attaches exit actions to n, firing when leaving the
// sub-language: on the first byte after the match, or at end of input
// if the match is still live.
func OnExit(n Node, names ...actions.Name) Node {
	n.ann.Exit = append(append([]actions.Name{}, n.ann.Exit...), names...)
	return n
}

// OnAll attaches actions that fire on every byte consumed inside the
// sub-language.
func OnAll(n Node, names ...actions.Name) Node {
	n.ann.All = append(append([]actions.Name{}, n.ann.All...), names...)
	return n
}

// When attaches a precondition guarding entry to n's sub-language. A
// node carries at most one precondition; a second call to When replaces
// the previous one.
func When(n Node, precond actions.Name) Node {
	n.ann.Precond = precond
	n.ann.HasPrecond = true
	return n
}
