package cmd

import (
	"github.com/spf13/cobra"
)

// RootCmd is the base command; main.go's sole job is to Execute it.
var RootCmd = &cobra.Command{
	Use:   "rxgen",
	Short: "rxgen compiles a byte-level regex algebra into matcher machines and source",
}

// patternFromFile reads the pattern file named in args[0]. The regex
// literal surface syntax (re"...") is an external collaborator, not part
// of this tool, so a pattern file is read as one literal byte string to
// exercise the compile/emit/graph pipeline through package builder.
func patternFromFile(path string) ([]byte, error) {
	return readTrimmed(path)
}
