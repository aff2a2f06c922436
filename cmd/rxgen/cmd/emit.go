package cmd

import (
	"fmt"

	"github.com/coregx/rxgen/builder"
	"github.com/coregx/rxgen/compile"
	"github.com/coregx/rxgen/emit"
	"github.com/spf13/cobra"
)

var emitBackend string

var emitCmd = &cobra.Command{
	Use:   "emit <pattern-file>",
	Short: "Compile a pattern file and print its generated matcher source to stdout",
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

		cfg := emit.DefaultConfig("Match")
		switch emitBackend {
		case "table":
			cfg.Backend = emit.BackendTable
		case "goto":
			cfg.Backend = emit.BackendDispatch
		default:
			return fmt.Errorf("emit: unknown backend %q (want table or goto)", emitBackend)
		}

		src, err := emit.Emit(m, cfg)
		if err != nil {
			return err
		}
		fmt.Fprint(c.OutOrStdout(), src)
		return nil
	},
}

func init() {
	emitCmd.Flags().StringVar(&emitBackend, "backend", "table", "matcher backend: table or goto")
	RootCmd.AddCommand(emitCmd)
}
