package cmd

import (
	"fmt"

	"github.com/coregx/rxgen/builder"
	"github.com/coregx/rxgen/compile"
	"github.com/spf13/cobra"
)

var compileUnambiguous bool

var compileCmd = &cobra.Command{
	Use:   "compile <pattern-file>",
	Short: "Compile a pattern file into a Machine and report diagnostics or a summary",
	Args:  cobra.ExactArgs(1),
	RunE: func(c *cobra.Command, args []string) error {
		pattern, err := patternFromFile(args[0])
		if err != nil {
			return err
		}

		opts := compile.DefaultOptions()
		opts.Unambiguous = compileUnambiguous
		m, err := compile.Compile(builder.Literal(string(pattern)), opts)
		if err != nil {
			return err
		}

		for _, w := range opts.Diagnostics.Warnings() {
			fmt.Fprintln(c.OutOrStdout(), "warning:", w.String())
		}
		accepting := 0
		for _, st := range m.States {
			if st.Accept {
				accepting++
			}
		}
		fmt.Fprintf(c.OutOrStdout(), "states=%d accepting=%d start=%d\n", len(m.States), accepting, m.Start)
		return nil
	},
}

func init() {
	compileCmd.Flags().BoolVar(&compileUnambiguous, "unambiguous", false, "require a single winning action set per accepting byte")
	RootCmd.AddCommand(compileCmd)
}
