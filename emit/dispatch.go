package emit

import (
	"fmt"
	"strings"

	"github.com/coregx/rxgen/machine"
)

// emitDispatch renders m as a direct-dispatch matcher: one switch case
// per state, each comparing the current byte's class against the
// state's outgoing ranges directly with if/else-if rather than
// indexing through a shared transition table. This trades code size
// for removing the table lookup from the hot loop.
//
// Every candidate action group on a winning transition is compiled in:
// each group becomes one case of a tagless switch evaluated top to
// bottom, an unconditional group rendered as the literal case true, a
// guarded group rendered with its PrecondBody expression inlined as the
// case condition (or the literal false when PrecondBody has no entry
// for it) — mirroring the order-sensitive first-match selection the
// Machine-level interpreters use.
func emitDispatch(sb *strings.Builder, m *machine.Machine, cfg Config) {
	p, pEnd, cs, b, data, mem, isEOF := cfg.VarP, cfg.VarPEnd, cfg.VarCS, cfg.VarByte, cfg.VarData, cfg.VarMem, cfg.VarIsEOF

	fmt.Fprintf(sb, "func %s(%s []byte, %s any) error {\n", cfg.FuncName, data, mem)
	fmt.Fprintf(sb, "\t%s := uint32(%d)\n", cs, m.Start)
	fmt.Fprintf(sb, "\t%s := 0\n", p)
	fmt.Fprintf(sb, "\t%s := len(%s)\n\n", pEnd, data)

	fmt.Fprintf(sb, "\tfor %s < %s {\n", p, pEnd)
	fmt.Fprintf(sb, "\t\t%s := %s[%s]\n", b, data, p)
	fmt.Fprintf(sb, "\t\tclass := %sClasses[%s]\n", cfg.FuncName, b)
	fmt.Fprintf(sb, "\t\tswitch %s {\n", cs)
	for i, st := range m.States {
		if i == machine.DeadState {
			continue
		}
		fmt.Fprintf(sb, "\t\tcase %d:\n", i)
		emitStateCase(sb, cfg, st.Transitions, b, p, cs)
	}
	fmt.Fprintf(sb, "\t\tdefault:\n")
	fmt.Fprintf(sb, "\t\t\treturn fmt.Errorf(\"rxgen: unreachable state %%d\", %s)\n", cs)
	fmt.Fprintf(sb, "\t\t}\n")
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

	emitDispatchSupportTables(sb, m, cfg)
}

// emitStateCase renders the body of one state's switch case: an
// if/else-if chain over the state's class ranges, each firing the
// first matching candidate group's actions (via a tagless switch over
// the group preconditions) and unconditionally setting cs to the
// target state, falling through to an error when the byte matches no
// outgoing range.
func emitStateCase(sb *strings.Builder, cfg Config, ts []machine.Transition, b, p, cs string) {
	for i, t := range ts {
		kw := "if"
		if i > 0 {
			kw = "} else if"
		}
		fmt.Fprintf(sb, "\t\t\t%s class >= %d && class <= %d {\n", kw, t.ClassLo, t.ClassHi)
		fmt.Fprintf(sb, "\t\t\t\tswitch {\n")
		for _, g := range t.Groups {
			cond := "true"
			if g.HasPrecond {
				if body, ok := cfg.PrecondBody[string(g.Precond)]; ok {
					cond = body
				} else {
					cond = "false"
				}
			}
			fmt.Fprintf(sb, "\t\t\t\tcase %s:\n", cond)
			if len(g.Actions) == 0 {
				continue
			}
			fmt.Fprintf(sb, "\t\t\t\t\tfor _, name := range %s {\n", quoteNames(g.Actions))
			fmt.Fprintf(sb, "\t\t\t\t\t\tswitch name {\n")
			for name, body := range cfg.ActionBody {
				fmt.Fprintf(sb, "\t\t\t\t\t\tcase %q:\n", name)
				fmt.Fprintf(sb, "\t\t\t\t\t\t\t%s\n", body)
			}
			fmt.Fprintf(sb, "\t\t\t\t\t\t}\n\t\t\t\t\t}\n")
		}
		fmt.Fprintf(sb, "\t\t\t\t}\n")
		fmt.Fprintf(sb, "\t\t\t\t%s = %d\n", cs, t.Target)
	}
	if len(ts) > 0 {
		sb.WriteString("\t\t\t} else {\n")
	} else {
		sb.WriteString("\t\t\t{\n")
	}
	fmt.Fprintf(sb, "\t\t\t\treturn fmt.Errorf(\"rxgen: unexpected byte %%q at position %%d (state %%d)\", %s, %s, %s)\n", b, p, cs)
	sb.WriteString("\t\t\t}\n")
}

// emitDispatchSupportTables renders the byte-class lookup array, the
// accept-state set, and the EOF action table shared with the main
// dispatch loop's EOF handling.
func emitDispatchSupportTables(sb *strings.Builder, m *machine.Machine, cfg Config) {
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
