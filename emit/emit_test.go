package emit

import (
	"strings"
	"testing"

	"github.com/coregx/rxgen/actions"
	"github.com/coregx/rxgen/ast"
	"github.com/coregx/rxgen/dfa"
	"github.com/coregx/rxgen/machine"
	"github.com/coregx/rxgen/nfa"
)

func buildMachine(t *testing.T, n ast.Node, reg *actions.Registry) *machine.Machine {
	t.Helper()
	nf, err := nfa.Compile(n, reg, nil)
	if err != nil {
		t.Fatal(err)
	}
	d, err := dfa.Build(nf, dfa.Options{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	alphabet := machine.BuildAlphabet(d)
	return machine.Build(d, alphabet)
}

func TestDefaultConfigValidates(t *testing.T) {
	cfg := DefaultConfig("scan")
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected default config to validate, got %v", err)
	}
}

func TestValidateRejectsEmptyFuncName(t *testing.T) {
	cfg := DefaultConfig("")
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for empty FuncName")
	}
}

func TestValidateRejectsMissingVarName(t *testing.T) {
	cfg := DefaultConfig("scan")
	cfg.VarP = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing protocol variable name")
	}
}

func TestEmitTableProducesFunctionAndTables(t *testing.T) {
	m := buildMachine(t, ast.Literal("ab"), nil)
	cfg := DefaultConfig("scanAB")
	src, err := Emit(m, cfg)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		"func scanAB(data []byte, mem any) error {",
		"var scanABClasses = [256]byte{",
		"var scanABAccept = map[uint32]bool{",
		"var scanABTransitions = map[uint32][]scanABTransition{",
		"var scanABEOFActions = map[uint32][]string{",
	} {
		if !strings.Contains(src, want) {
			t.Fatalf("expected generated source to contain %q, got:\n%s", want, src)
		}
	}
}

func TestEmitDispatchProducesFunctionAndSwitch(t *testing.T) {
	m := buildMachine(t, ast.Literal("ab"), nil)
	cfg := DefaultConfig("scanAB")
	cfg.Backend = BackendDispatch
	src, err := Emit(m, cfg)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		"func scanAB(data []byte, mem any) error {",
		"switch cs {",
		"var scanABClasses = [256]byte{",
		"var scanABAccept = map[uint32]bool{",
	} {
		if !strings.Contains(src, want) {
			t.Fatalf("expected generated source to contain %q, got:\n%s", want, src)
		}
	}
}

func buildPrecondMachine(t *testing.T) *machine.Machine {
	t.Helper()
	reg := actions.NewRegistry()
	reg.Register("guarded", 0)
	reg.Register("plain", 0)
	reg.RegisterPrecondition("cond")
	n := ast.Alt(
		ast.When(ast.OnFinal(ast.Byte('a'), "guarded"), "cond"),
		ast.OnFinal(ast.Byte('a'), "plain"),
	)
	return buildMachine(t, n, reg)
}

func TestEmitTableGuardsPreconditionedGroup(t *testing.T) {
	m := buildPrecondMachine(t)
	cfg := DefaultConfig("scanGuarded")
	cfg.ActionBody["guarded"] = "sawGuarded = true"
	cfg.ActionBody["plain"] = "sawPlain = true"
	cfg.PrecondBody["cond"] = "mem.(bool)"
	src, err := Emit(m, cfg)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		`hasPrecond: true`,
		`precond: "cond"`,
		`case "cond":`,
		`return mem.(bool)`,
		"sawGuarded = true",
		"sawPlain = true",
	} {
		if !strings.Contains(src, want) {
			t.Fatalf("expected generated source to contain %q, got:\n%s", want, src)
		}
	}
}

func TestEmitDispatchGuardsPreconditionedGroup(t *testing.T) {
	m := buildPrecondMachine(t)
	cfg := DefaultConfig("scanGuarded")
	cfg.Backend = BackendDispatch
	cfg.ActionBody["guarded"] = "sawGuarded = true"
	cfg.ActionBody["plain"] = "sawPlain = true"
	cfg.PrecondBody["cond"] = "mem.(bool)"
	src, err := Emit(m, cfg)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		"case mem.(bool):",
		"case true:",
		"sawGuarded = true",
		"sawPlain = true",
	} {
		if !strings.Contains(src, want) {
			t.Fatalf("expected generated source to contain %q, got:\n%s", want, src)
		}
	}
}

func TestEmitDispatchDefaultsMissingPreconditionToFalse(t *testing.T) {
	m := buildPrecondMachine(t)
	cfg := DefaultConfig("scanGuarded")
	cfg.Backend = BackendDispatch
	src, err := Emit(m, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(src, "case false:") {
		t.Fatalf("expected a precondition with no PrecondBody entry to render as case false, got:\n%s", src)
	}
}

func TestEmitTableFiresUnconditionalActionName(t *testing.T) {
	reg := actions.NewRegistry()
	reg.Register("emitByte", 10)
	n := ast.OnFinal(ast.Rune('x'), "emitByte")
	m := buildMachine(t, n, reg)
	cfg := DefaultConfig("scanX")
	cfg.ActionBody["emitByte"] = "result = append(result, b)"
	src, err := Emit(m, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(src, `"emitByte"`) {
		t.Fatalf("expected emitted table to reference action name, got:\n%s", src)
	}
	if !strings.Contains(src, "result = append(result, b)") {
		t.Fatalf("expected emitted switch to contain action body, got:\n%s", src)
	}
}
