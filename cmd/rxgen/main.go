package main

import (
	"os"

	"github.com/coregx/rxgen/cmd/rxgen/cmd"
)

func main() {
	if err := cmd.RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
