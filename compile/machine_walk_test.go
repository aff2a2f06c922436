package compile

import "github.com/coregx/rxgen/machine"

// walkableMachine is a minimal test-only wrapper walking a
// machine.Machine one byte at a time, mirroring what the emit package's
// generated table-backend matcher does at runtime.
type walkableMachine struct {
	m *machine.Machine
}

func wrap(m *machine.Machine) *walkableMachine { return &walkableMachine{m: m} }

func (w *walkableMachine) start() uint32 { return w.m.Start }

func (w *walkableMachine) class(b byte) byte { return w.m.Alphabet.Class(b) }

func (w *walkableMachine) accept(state uint32) bool { return w.m.States[state].Accept }

func (w *walkableMachine) step(state uint32, class byte) (uint32, []string, bool) {
	for _, t := range w.m.States[state].Transitions {
		if class < t.ClassLo || class > t.ClassHi {
			continue
		}
		for _, g := range t.Groups {
			if !g.HasPrecond {
				names := make([]string, len(g.Actions))
				for i, a := range g.Actions {
					names[i] = string(a.Name)
				}
				return t.Target, names, true
			}
		}
		return t.Target, nil, true
	}
	return machine.DeadState, nil, false
}
