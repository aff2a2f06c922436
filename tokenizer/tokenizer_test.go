package tokenizer

import (
	"testing"

	"github.com/coregx/rxgen/actions"
	"github.com/coregx/rxgen/ast"
)

func TestTokenizeSplitsWordsAndSpaces(t *testing.T) {
	rules := []Rule{
		{Name: "word", Pattern: ast.Rep1(ast.ByteRange('a', 'z'))},
		{Name: "space", Pattern: ast.Byte(' ')},
	}
	tok, err := Compile(rules, false)
	if err != nil {
		t.Fatal(err)
	}
	tokens := tok.Tokenize([]byte("ab cd"))
	want := []Token{
		{Start: 0, Length: 2, Index: 1},
		{Start: 2, Length: 1, Index: 2},
		{Start: 3, Length: 2, Index: 1},
	}
	if len(tokens) != len(want) {
		t.Fatalf("expected %d tokens, got %d: %+v", len(want), len(tokens), tokens)
	}
	for i, tk := range tokens {
		if tk != want[i] {
			t.Fatalf("token %d: got %+v, want %+v", i, tk, want[i])
		}
	}
}

func TestTokenizeUnmatchedSpanIsErrorToken(t *testing.T) {
	rules := []Rule{
		{Name: "digit", Pattern: ast.Rep1(ast.ByteRange('0', '9'))},
	}
	tok, err := Compile(rules, false)
	if err != nil {
		t.Fatal(err)
	}
	tokens := tok.Tokenize([]byte("12x34"))
	if len(tokens) != 3 {
		t.Fatalf("expected 3 tokens, got %d: %+v", len(tokens), tokens)
	}
	if tokens[0].Index == 0 || tokens[1].Index != 0 || tokens[2].Index == 0 {
		t.Fatalf("expected [match, error, match], got %+v", tokens)
	}
	if tokens[1].Start != 2 || tokens[1].Length != 1 {
		t.Fatalf("expected error token covering the 'x' at position 2, got %+v", tokens[1])
	}
}

func TestCompileUnambiguousRejectsOverlappingLiterals(t *testing.T) {
	rules := []Rule{
		{Name: "a", Pattern: ast.Literal("ab")},
		{Name: "b", Pattern: ast.Literal("ab")},
	}
	if _, err := Compile(rules, true); err == nil {
		t.Fatal("expected ambiguity error for two identical literal rules in unambiguous mode")
	}
}

func TestTokenizeEvaluatesPreconditionGuardedRule(t *testing.T) {
	rules := []Rule{
		{Name: "guarded-a", Pattern: ast.When(ast.Byte('a'), "cond")},
		{Name: "plain-a", Pattern: ast.Byte('a')},
	}
	tok, err := Compile(rules, false)
	if err != nil {
		t.Fatal(err)
	}

	tok.SetConditions(func(name actions.Name) bool { return name == "cond" })
	tokens := tok.Tokenize([]byte("a"))
	if len(tokens) != 1 || tokens[0].Index != 1 {
		t.Fatalf("expected the guarded rule to win when its precondition holds, got %+v", tokens)
	}

	tok.SetConditions(func(actions.Name) bool { return false })
	tokens = tok.Tokenize([]byte("a"))
	if len(tokens) != 1 || tokens[0].Index != 2 {
		t.Fatalf("expected fallthrough to the unconditional rule, got %+v", tokens)
	}
}

func TestCompileAmbiguousAcceptsOverlappingLiterals(t *testing.T) {
	rules := []Rule{
		{Name: "a", Pattern: ast.Literal("ab")},
		{Name: "b", Pattern: ast.Literal("ab")},
	}
	if _, err := Compile(rules, false); err != nil {
		t.Fatalf("expected ambiguous-mode compile to succeed, got %v", err)
	}
}
