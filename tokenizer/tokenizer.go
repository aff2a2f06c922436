// Package tokenizer is a thin skin over package compile implementing
// the tokenizer contract: compile a set of named rules into one
// combined machine, then lazily yield (start, length, rule index)
// tokens over an input, with unmatched spans surfaced as index-0 error
// tokens.
package tokenizer

import (
	"fmt"

	"github.com/coregx/ahocorasick"
	"github.com/coregx/rxgen/actions"
	"github.com/coregx/rxgen/ast"
	"github.com/coregx/rxgen/builder"
	"github.com/coregx/rxgen/compile"
	"github.com/coregx/rxgen/machine"
)

// Rule names one alternative of a tokenizer; Index (1-based, assigned by
// Compile in declaration order) is what Token.Index reports on a match.
type Rule struct {
	Name    string
	Pattern ast.Node
}

// Token is one lexed span: Index is the 1-based position of the
// winning Rule in the slice passed to Compile, or 0 for an unmatched
// (error) span.
type Token struct {
	Start, Length, Index int
}

// Tokenizer lexes byte input against a fixed set of compiled rules.
type Tokenizer struct {
	rules     []Rule
	m         *machine.Machine
	ruleIndex map[actions.Name]int
	cond      func(actions.Name) bool

	// prefilter is non-nil only when every rule reduced to a pure byte
	// literal: it then finds the next candidate token start, which the
	// Machine still confirms for exact length and winning rule, mirroring
	// the teacher's prefilter-then-confirm engine layering.
	prefilter *ahocorasick.Automaton
}

// SetConditions installs the predicate consulted for every
// precondition-guarded rule Tokenize crosses; a nil cond (the default)
// treats every precondition as not holding.
func (t *Tokenizer) SetConditions(cond func(actions.Name) bool) { t.cond = cond }

// Compile builds the combined alternation of rules, tags each
// alternative's final byte with a uniquely-named action, and compiles
// it via package compile. unambiguous requires every accepting byte to
// resolve to exactly one rule without relying on declaration-order
// tie-breaking; see package compile's Options.Unambiguous.
func Compile(rules []Rule, unambiguous bool) (*Tokenizer, error) {
	if len(rules) == 0 {
		return nil, fmt.Errorf("tokenizer: at least one rule is required")
	}

	reg := actions.NewRegistry()
	ruleIndex := make(map[actions.Name]int, len(rules))
	var combined ast.Node
	for i, r := range rules {
		name := actions.Name(fmt.Sprintf("__token_%d_%s", i+1, r.Name))
		reg.Register(name, 0)
		ruleIndex[name] = i + 1

		tagged := builder.OnFinal(r.Pattern, name)
		if i == 0 {
			combined = tagged
		} else {
			combined = builder.Alt(combined, tagged)
		}
	}

	opts := compile.DefaultOptions()
	opts.Registry = reg
	opts.Unambiguous = unambiguous

	m, err := compile.Compile(combined, opts)
	if err != nil {
		return nil, err
	}

	t := &Tokenizer{rules: rules, m: m, ruleIndex: ruleIndex}
	t.prefilter = buildPrefilter(rules)
	return t, nil
}

// buildPrefilter returns an Aho-Corasick automaton over every rule's
// literal bytes when every rule is a pure byte literal, or nil
// otherwise (a prefilter over a non-literal alternative could not
// validly skip past a byte that alternative would have matched).
func buildPrefilter(rules []Rule) *ahocorasick.Automaton {
	b := ahocorasick.NewBuilder()
	for _, r := range rules {
		lit, ok := literalBytes(r.Pattern)
		if !ok {
			return nil
		}
		b.AddPattern(lit)
	}
	auto, err := b.Build()
	if err != nil {
		return nil
	}
	return auto
}

// literalBytes reports the exact byte sequence n matches when n is a
// Concat of single-byte Symbol nodes (or a single such Symbol), i.e. the
// shape ast.Literal/ast.Byte/ast.Rune produce with no annotation of
// their own; any other shape is not a pure literal.
func literalBytes(n ast.Node) ([]byte, bool) {
	if !n.Annotation().IsZero() {
		return nil, false
	}
	switch n.Kind() {
	case ast.KindSymbol:
		b, ok := singleByte(n)
		if !ok {
			return nil, false
		}
		return []byte{b}, true
	case ast.KindConcat:
		var out []byte
		for _, c := range n.Children() {
			if c.Kind() != ast.KindSymbol || !c.Annotation().IsZero() {
				return nil, false
			}
			b, ok := singleByte(c)
			if !ok {
				return nil, false
			}
			out = append(out, b)
		}
		return out, true
	default:
		return nil, false
	}
}

func singleByte(n ast.Node) (byte, bool) {
	ranges := n.Symbol().Ranges()
	if len(ranges) != 1 || ranges[0].Lo != ranges[0].Hi {
		return 0, false
	}
	return ranges[0].Lo, true
}

// Tokenize lexes data into a sequence of Tokens covering it end to end:
// every byte belongs to exactly one Token, successful or an error
// token of Index 0.
func (t *Tokenizer) Tokenize(data []byte) []Token {
	var tokens []Token
	p := 0
	for p < len(data) {
		start := p
		if t.prefilter != nil {
			m := t.prefilter.Find(data, p)
			if m == nil {
				tokens = append(tokens, Token{Start: p, Length: len(data) - p, Index: 0})
				break
			}
			start = m.Start
		}

		length, idx, ok := t.longestMatch(data, start)
		if !ok {
			// No rule matches at start; the byte at start (not start+1)
			// is the unmatched span so adjacent error bytes coalesce
			// below instead of one error token per byte.
			end := start + 1
			for end < len(data) {
				if _, _, ok := t.longestMatch(data, end); ok {
					break
				}
				end++
			}
			if start > p {
				tokens = append(tokens, Token{Start: p, Length: start - p, Index: 0})
			}
			tokens = append(tokens, Token{Start: start, Length: end - start, Index: 0})
			p = end
			continue
		}

		if start > p {
			tokens = append(tokens, Token{Start: p, Length: start - p, Index: 0})
		}
		tokens = append(tokens, Token{Start: start, Length: length, Index: idx})
		p = start + length
	}
	return tokens
}

// longestMatch runs the combined machine from offset start, returning
// the length and winning rule index of the longest accepting prefix, or
// ok=false if no prefix of data[start:] is accepted by any rule.
func (t *Tokenizer) longestMatch(data []byte, start int) (length, index int, ok bool) {
	state := t.m.Start
	bestLen := -1
	var bestIdx int
	if t.m.States[state].Accept {
		bestLen, bestIdx = 0, t.winningIndex(t.m.States[state].EOFActions)
	}
	for i := start; i < len(data); i++ {
		class := t.m.Alphabet.Class(data[i])
		next, fired, stepped := t.m.Step(state, class, t.cond)
		if !stepped {
			break
		}
		state = next
		if idx := t.winningIndex(fired); idx != 0 {
			bestLen, bestIdx = i-start+1, idx
		} else if t.m.States[state].Accept {
			bestLen, bestIdx = i-start+1, t.winningIndex(t.m.States[state].EOFActions)
		}
	}
	if bestLen < 0 {
		return 0, 0, false
	}
	return bestLen, bestIdx, true
}

func (t *Tokenizer) winningIndex(list []actions.Action) int {
	for _, a := range list {
		if idx, ok := t.ruleIndex[a.Name]; ok {
			return idx
		}
	}
	return 0
}
