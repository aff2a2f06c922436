// Package actions implements the named, priority-bearing action registry
// consumed when annotating the regex AST and when ordering action lists
// on NFA/DFA transitions.
//
// A Registry is a local context threaded through a single compilation,
// never a process-wide singleton.
package actions

import "fmt"

// Name identifies an action or a precondition. The core never interprets
// the string; it is an opaque user-level identifier.
type Name string

// Action pairs a Name with an integer priority. Larger priorities win
// when two otherwise-coincident actions compete on the same transition.
type Action struct {
	Name     Name
	Priority int
}

// Registry holds the actions and preconditions known to one compilation.
// A Registry is not safe for concurrent registration; build it up-front
// and treat it as read-only once handed to NFA construction.
type Registry struct {
	actions      map[Name]Action
	preconds     map[Name]struct{}
	declareOrder map[Name]int
	nextOrder    int
}

// NewRegistry returns an empty, ready-to-use Registry.
func NewRegistry() *Registry {
	return &Registry{
		actions:      make(map[Name]Action),
		preconds:     make(map[Name]struct{}),
		declareOrder: make(map[Name]int),
	}
}

// Register adds an action with the given priority. Re-registering the
// same name replaces its priority but keeps its original declaration
// order, since declaration order is part of the disambiguation tuple
// (priority descending, then declaration order).
func (r *Registry) Register(name Name, priority int) Action {
	if _, ok := r.declareOrder[name]; !ok {
		r.declareOrder[name] = r.nextOrder
		r.nextOrder++
	}
	a := Action{Name: name, Priority: priority}
	r.actions[name] = a
	return a
}

// RegisterPrecondition declares name as a precondition. Preconditions
// share the Name namespace conceptually but are tracked separately so a
// precondition can never be looked up as an action by mistake.
func (r *Registry) RegisterPrecondition(name Name) {
	r.preconds[name] = struct{}{}
}

// Lookup returns the registered Action for name and whether it exists.
func (r *Registry) Lookup(name Name) (Action, bool) {
	a, ok := r.actions[name]
	return a, ok
}

// MustLookup returns the registered Action for name, registering it with
// priority 0 if it was never explicitly registered. This lets AST
// annotation reference action names before a priority is assigned; the
// priority can be raised later via Register.
func (r *Registry) MustLookup(name Name) Action {
	if a, ok := r.actions[name]; ok {
		return a
	}
	return r.Register(name, 0)
}

// IsPrecondition reports whether name was declared via RegisterPrecondition.
func (r *Registry) IsPrecondition(name Name) bool {
	_, ok := r.preconds[name]
	return ok
}

// DeclareOrder returns the order in which name was first registered,
// used as the tiebreaker in (priority descending, declaration order).
func (r *Registry) DeclareOrder(name Name) int {
	if o, ok := r.declareOrder[name]; ok {
		return o
	}
	return -1
}

// Order compares two actions by priority descending, then declaration
// order ascending. It returns a
// negative number if a sorts before b, zero if equal, positive otherwise.
func (r *Registry) Order(a, b Action) int {
	if a.Priority != b.Priority {
		return b.Priority - a.Priority
	}
	return r.DeclareOrder(a.Name) - r.DeclareOrder(b.Name)
}

// SortList stable-sorts actions by (priority descending, declaration
// order ascending) in place.
func (r *Registry) SortList(list []Action) {
	// insertion sort: action lists are short (a handful of hooks per
	// transition), and stability matters more than asymptotic speed.
	for i := 1; i < len(list); i++ {
		for j := i; j > 0 && r.Order(list[j], list[j-1]) < 0; j-- {
			list[j], list[j-1] = list[j-1], list[j]
		}
	}
}

// Names returns only the Name portion of each action, preserving order.
func Names(list []Action) []Name {
	names := make([]Name, len(list))
	for i, a := range list {
		names[i] = a.Name
	}
	return names
}

func (a Action) String() string {
	return fmt.Sprintf("%s@%d", a.Name, a.Priority)
}
