package cmd

import (
	"fmt"

	"github.com/coregx/rxgen/actions"
	"github.com/coregx/rxgen/builder"
	"github.com/coregx/rxgen/compile"
	"github.com/coregx/rxgen/dfa"
	"github.com/coregx/rxgen/machine"
	"github.com/spf13/cobra"
)

var graphCmd = &cobra.Command{
	Use:   "graph <pattern-file>",
	Short: "Print a textual transition dump of a pattern file's compiled Machine",
	Args:  cobra.ExactArgs(1),
	RunE: func(c *cobra.Command, args []string) error {
		pattern, err := patternFromFile(args[0])
		if err != nil {
			return err
		}

		m, err := compile.Compile(builder.Literal(string(pattern)), compile.DefaultOptions())
		if err != nil {
			return err
		}

		out := c.OutOrStdout()
		fmt.Fprintf(out, "start: %d\n", m.Start)
		for i, st := range m.States {
			if i == machine.DeadState {
				continue
			}
			marker := ""
			if st.Accept {
				marker = " (accept)"
			}
			fmt.Fprintf(out, "state %d%s\n", i, marker)
			for _, t := range st.Transitions {
				fmt.Fprintf(out, "  class[%d-%d] -> %d%s\n", t.ClassLo, t.ClassHi, t.Target, groupSummary(t.Groups))
			}
			if len(st.EOFActions) > 0 {
				fmt.Fprintf(out, "  eof ->%s\n", actionSummary(st.EOFActions))
			}
		}
		return nil
	},
}

func groupSummary(groups []dfa.ActionGroup) string {
	s := ""
	for _, g := range groups {
		s += actionSummary(g.Actions)
		if g.HasPrecond {
			s += fmt.Sprintf(" [if %s]", g.Precond)
		}
	}
	return s
}

func actionSummary(list []actions.Action) string {
	s := ""
	for _, a := range list {
		s += " " + string(a.Name)
	}
	return s
}

func init() {
	RootCmd.AddCommand(graphCmd)
}
