package cmd

import (
	"bytes"
	"os"
)

// readTrimmed reads path and strips a single trailing newline, the
// common shape of a hand-edited pattern file.
func readTrimmed(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(data, []byte("\n")), nil
}
