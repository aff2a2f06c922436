package builder

import (
	"testing"

	"github.com/coregx/rxgen/compile"
)

func TestBuilderAssemblesCompilableRegex(t *testing.T) {
	n := Concat(
		OnEnter(Literal("go"), "start"),
		Opt(ByteRange('0', '9')),
	)
	if _, err := compile.Compile(n, compile.DefaultOptions()); err != nil {
		t.Fatalf("expected builder-assembled regex to compile, got %v", err)
	}
}

func TestBuilderIntersectAndNegateCompile(t *testing.T) {
	n := Diff(Negate(Literal("no")), Literal("yes"))
	if _, err := compile.Compile(n, compile.DefaultOptions()); err != nil {
		t.Fatalf("expected negate/diff regex to compile, got %v", err)
	}
}
