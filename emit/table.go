package emit

import (
	"fmt"
	"strings"

	"github.com/coregx/rxgen/actions"
	"github.com/coregx/rxgen/dfa"
	"github.com/coregx/rxgen/machine"
)

// emitTable renders m as a table-driven matcher: a flat transition
// table indexed by (state, byte class), walked by one small loop.
//
// A transition's candidate action groups are all compiled into the
// table, in order; the generated lookup function walks them exactly as
// the Machine-level interpreters do, taking the first unconditional
// group or the first whose precondition (evaluated against cfg's
// protocol variables via the generated Precond function) holds, and
// otherwise still taking the transition with no action firing.
func emitTable(sb *strings.Builder, m *machine.Machine, cfg Config) {
	p, pEnd, cs, b, data, mem, isEOF := cfg.VarP, cfg.VarPEnd, cfg.VarCS, cfg.VarByte, cfg.VarData, cfg.VarMem, cfg.VarIsEOF

	fmt.Fprintf(sb, "func %s(%s []byte, %s any) error {\n", cfg.FuncName, data, mem)
	fmt.Fprintf(sb, "\t%s := uint32(%d)\n", cs, m.Start)
	fmt.Fprintf(sb, "\t%s := 0\n", p)
	fmt.Fprintf(sb, "\t%s := len(%s)\n\n", pEnd, data)

	fmt.Fprintf(sb, "\tfor %s < %s {\n", p, pEnd)
	fmt.Fprintf(sb, "\t\t%s := %s[%s]\n", b, data, p)
	fmt.Fprintf(sb, "\t\tclass := %sClasses[%s]\n", cfg.FuncName, b)
	fmt.Fprintf(sb, "\t\ttarget, names, ok := %s(%s, class, %s, %s, %s, %s)\n", tableLookupFuncName(cfg), cs, data, p, b, mem)
	fmt.Fprintf(sb, "\t\tif !ok {\n")
	fmt.Fprintf(sb, "\t\t\treturn fmt.Errorf(\"rxgen: unexpected byte %%q at position %%d (state %%d)\", %s, %s, %s)\n", b, p, cs)
	fmt.Fprintf(sb, "\t\t}\n")
	emitActionSwitch(sb, cfg, "\t\t", "names")
	fmt.Fprintf(sb, "\t\t%s = target\n", cs)
	fmt.Fprintf(sb, "\t\t%s++\n", p)
	fmt.Fprintf(sb, "\t}\n\n")

	fmt.Fprintf(sb, "\t%s := true\n", isEOF)
	fmt.Fprintf(sb, "\t_ = %s\n", isEOF)
	fmt.Fprintf(sb, "\teofNames := %sEOFActions[%s]\n", cfg.FuncName, cs)
	emitActionSwitch(sb, cfg, "\t", "eofNames")
	fmt.Fprintf(sb, "\tif !%sAccept[%s] {\n", cfg.FuncName, cs)
	fmt.Fprintf(sb, "\t\treturn fmt.Errorf(\"rxgen: unexpected end of input at position %%d (state %%d)\", %s, %s)\n", p, cs)
	fmt.Fprintf(sb, "\t}\n")
	fmt.Fprintf(sb, "\treturn nil\n")
	fmt.Fprintf(sb, "}\n\n")

	emitSupportTables(sb, m, cfg)
}

func tableLookupFuncName(cfg Config) string { return cfg.FuncName + "Step" }

func precondFuncName(cfg Config) string { return cfg.FuncName + "Precond" }

func emitActionSwitch(sb *strings.Builder, cfg Config, indent, namesVar string) {
	fmt.Fprintf(sb, "%sfor _, name := range %s {\n", indent, namesVar)
	fmt.Fprintf(sb, "%s\tswitch name {\n", indent)
	for name, body := range cfg.ActionBody {
		fmt.Fprintf(sb, "%s\tcase %q:\n", indent, name)
		fmt.Fprintf(sb, "%s\t\t%s\n", indent, body)
	}
	fmt.Fprintf(sb, "%s\t}\n", indent)
	fmt.Fprintf(sb, "%s}\n", indent)
}

// emitSupportTables renders the byte-class lookup array, the accept-state
// set, the EOF action table, and the state/class transition table along
// with the lookup and precondition-evaluator functions that walk it.
func emitSupportTables(sb *strings.Builder, m *machine.Machine, cfg Config) {
	fmt.Fprintf(sb, "var %sClasses = [256]byte{", cfg.FuncName)
	for b := 0; b < 256; b++ {
		if b > 0 {
			sb.WriteByte(',')
		}
		fmt.Fprintf(sb, "%d", m.Alphabet.Class(byte(b)))
	}
	sb.WriteString("}\n\n")

	fmt.Fprintf(sb, "var %sAccept = map[uint32]bool{\n", cfg.FuncName)
	for i, st := range m.States {
		if i == machine.DeadState {
			continue
		}
		if st.Accept {
			fmt.Fprintf(sb, "\t%d: true,\n", i)
		}
	}
	sb.WriteString("}\n\n")

	fmt.Fprintf(sb, "type %sGroup struct {\n\tnames      []string\n\tprecond    string\n\thasPrecond bool\n}\n\n", cfg.FuncName)
	fmt.Fprintf(sb, "type %sTransition struct {\n\tloClass, hiClass byte\n\ttarget            uint32\n\tgroups            []%sGroup\n}\n\n", cfg.FuncName, cfg.FuncName)
	fmt.Fprintf(sb, "var %sTransitions = map[uint32][]%sTransition{\n", cfg.FuncName, cfg.FuncName)
	for i, st := range m.States {
		if i == machine.DeadState || len(st.Transitions) == 0 {
			continue
		}
		fmt.Fprintf(sb, "\t%d: {\n", i)
		for _, t := range st.Transitions {
			fmt.Fprintf(sb, "\t\t{loClass: %d, hiClass: %d, target: %d, groups: %s},\n",
				t.ClassLo, t.ClassHi, t.Target, renderGroups(cfg.FuncName, t.Groups))
		}
		sb.WriteString("\t},\n")
	}
	sb.WriteString("}\n\n")

	p, b, data, mem := cfg.VarP, cfg.VarByte, cfg.VarData, cfg.VarMem
	fmt.Fprintf(sb, "func %s(name string, %s []byte, %s int, %s byte, %s any) bool {\n",
		precondFuncName(cfg), data, p, b, mem)
	fmt.Fprintf(sb, "\t_, _, _, _ = %s, %s, %s, %s\n", data, p, b, mem)
	fmt.Fprintf(sb, "\tswitch name {\n")
	for name, body := range cfg.PrecondBody {
		fmt.Fprintf(sb, "\tcase %q:\n\t\treturn %s\n", name, body)
	}
	fmt.Fprintf(sb, "\t}\n\treturn false\n}\n\n")

	fmt.Fprintf(sb, "func %s(cs uint32, class byte, %s []byte, %s int, %s byte, %s any) (uint32, []string, bool) {\n",
		tableLookupFuncName(cfg), data, p, b, mem)
	fmt.Fprintf(sb, "\tfor _, t := range %sTransitions[cs] {\n", cfg.FuncName)
	fmt.Fprintf(sb, "\t\tif class >= t.loClass && class <= t.hiClass {\n")
	fmt.Fprintf(sb, "\t\t\tfor _, g := range t.groups {\n")
	fmt.Fprintf(sb, "\t\t\t\tif !g.hasPrecond || %s(g.precond, %s, %s, %s, %s) {\n", precondFuncName(cfg), data, p, b, mem)
	fmt.Fprintf(sb, "\t\t\t\t\treturn t.target, g.names, true\n")
	fmt.Fprintf(sb, "\t\t\t\t}\n\t\t\t}\n")
	fmt.Fprintf(sb, "\t\t\treturn t.target, nil, true\n")
	fmt.Fprintf(sb, "\t\t}\n\t}\n\treturn 0, nil, false\n}\n\n")

	fmt.Fprintf(sb, "var %sEOFActions = map[uint32][]string{\n", cfg.FuncName)
	for i, st := range m.States {
		if i == machine.DeadState || len(st.EOFActions) == 0 {
			continue
		}
		fmt.Fprintf(sb, "\t%d: {", i)
		for j, a := range st.EOFActions {
			if j > 0 {
				sb.WriteByte(',')
			}
			fmt.Fprintf(sb, "%q", a.Name)
		}
		sb.WriteString("},\n")
	}
	sb.WriteString("}\n")
}

// renderGroups renders every candidate action group on a transition, in
// order, as a []<FuncName>Group composite literal.
func renderGroups(funcName string, groups []dfa.ActionGroup) string {
	if len(groups) == 0 {
		return "nil"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "[]%sGroup{", funcName)
	for i, g := range groups {
		if i > 0 {
			sb.WriteByte(',')
		}
		fmt.Fprintf(&sb, "{names: %s, precond: %q, hasPrecond: %v}", quoteNames(g.Actions), g.Precond, g.HasPrecond)
	}
	sb.WriteString("}")
	return sb.String()
}

func quoteNames(list []actions.Action) string {
	if len(list) == 0 {
		return "nil"
	}
	var sb strings.Builder
	sb.WriteString("[]string{")
	for i, a := range list {
		if i > 0 {
			sb.WriteByte(',')
		}
		fmt.Fprintf(&sb, "%q", a.Name)
	}
	sb.WriteString("}")
	return sb.String()
}
