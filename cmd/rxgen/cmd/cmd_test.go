package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writePatternFile(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "pattern.txt")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func runCommand(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	RootCmd.SetOut(&out)
	RootCmd.SetErr(&out)
	RootCmd.SetArgs(args)
	if err := RootCmd.Execute(); err != nil {
		t.Fatalf("command %v failed: %v", args, err)
	}
	return out.String()
}

func TestCompileCommandReportsStateSummary(t *testing.T) {
	path := writePatternFile(t, "hello")
	out := runCommand(t, "compile", path)
	if !strings.Contains(out, "states=") || !strings.Contains(out, "accepting=") {
		t.Fatalf("expected a state summary line, got %q", out)
	}
}

func TestEmitCommandPrintsGoSource(t *testing.T) {
	path := writePatternFile(t, "hi")
	out := runCommand(t, "emit", path, "--backend", "goto")
	if !strings.Contains(out, "func Match(") {
		t.Fatalf("expected generated source containing func Match(, got %q", out)
	}
}

func TestGraphCommandPrintsStates(t *testing.T) {
	path := writePatternFile(t, "hi")
	out := runCommand(t, "graph", path)
	if !strings.Contains(out, "start:") || !strings.Contains(out, "state ") {
		t.Fatalf("expected a transition dump, got %q", out)
	}
}
