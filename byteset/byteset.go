// Package byteset provides an ordered set of byte values 0..255 with fast
// union, intersection, difference and range iteration.
//
// Set provides the canonical edge-label representation used throughout
// nfa, dfa and machine: every Symbol in the regex algebra carries a Set,
// every NFA byte-transition is labeled with one, and the machine's range
// tables are produced by calling Ranges on a Set.
package byteset

import (
	"fmt"
	"strings"

	"github.com/willf/bitset"
)

// Range is an inclusive, disjoint byte range [Lo, Hi].
type Range struct {
	Lo, Hi byte
}

// Set is a set of byte values 0..255, backed by a 256-bit bitset.
//
// The zero value is an empty set, ready to use.
type Set struct {
	bits *bitset.BitSet
}

// New returns an empty Set.
func New() *Set {
	return &Set{bits: bitset.New(256)}
}

// FromRanges builds a Set containing every byte in every given range.
// Ranges may overlap or be given out of order.
func FromRanges(ranges ...Range) *Set {
	s := New()
	for _, r := range ranges {
		s.AddRange(r.Lo, r.Hi)
	}
	return s
}

// FromBytes builds a Set containing exactly the given bytes.
func FromBytes(bs ...byte) *Set {
	s := New()
	for _, b := range bs {
		s.Add(b)
	}
	return s
}

// Full returns the set containing every byte value 0..255.
func Full() *Set {
	return FromRanges(Range{0, 255})
}

func (s *Set) ensure() *bitset.BitSet {
	if s.bits == nil {
		s.bits = bitset.New(256)
	}
	return s.bits
}

// Add inserts a single byte into the set.
func (s *Set) Add(b byte) {
	s.ensure().Set(uint(b))
}

// AddRange inserts every byte in [lo, hi] into the set.
func (s *Set) AddRange(lo, hi byte) {
	bits := s.ensure()
	for i := int(lo); i <= int(hi); i++ {
		bits.Set(uint(i))
	}
}

// Contains reports whether b is a member of the set.
func (s *Set) Contains(b byte) bool {
	if s.bits == nil {
		return false
	}
	return s.bits.Test(uint(b))
}

// Size returns the number of distinct byte values in the set.
func (s *Set) Size() int {
	if s.bits == nil {
		return 0
	}
	return int(s.bits.Count())
}

// IsEmpty reports whether the set has no members.
func (s *Set) IsEmpty() bool {
	return s.Size() == 0
}

// Clone returns an independent copy of the set.
func (s *Set) Clone() *Set {
	out := New()
	if s.bits != nil {
		out.bits = s.bits.Clone()
	}
	return out
}

// Union returns a new set containing every byte in s or other.
func (s *Set) Union(other *Set) *Set {
	out := New()
	if s.bits != nil {
		out.bits = out.bits.Union(s.bits)
	}
	if other != nil && other.bits != nil {
		out.bits = out.bits.Union(other.bits)
	}
	return out
}

// Intersect returns a new set containing every byte in both s and other.
func (s *Set) Intersect(other *Set) *Set {
	out := New()
	if s.bits != nil && other != nil && other.bits != nil {
		out.bits = s.bits.Intersection(other.bits)
	}
	return out
}

// Difference returns a new set containing every byte in s that is not in other.
func (s *Set) Difference(other *Set) *Set {
	out := New()
	if s.bits == nil {
		return out
	}
	out.bits = s.bits.Clone()
	if other != nil && other.bits != nil {
		out.bits = out.bits.Difference(other.bits)
	}
	return out
}

// Complement returns the set of every byte value not in s.
func (s *Set) Complement() *Set {
	return Full().Difference(s)
}

// Equal reports whether s and other contain exactly the same bytes.
func (s *Set) Equal(other *Set) bool {
	if s.IsEmpty() && other.IsEmpty() {
		return true
	}
	if s.bits == nil || other == nil || other.bits == nil {
		return s.IsEmpty() == other.IsEmpty()
	}
	return s.bits.Equal(other.bits)
}

// Ranges returns the set's members as disjoint, ascending, inclusive
// byte ranges. This is the canonical run-length encoding used when
// emitting edge labels.
func (s *Set) Ranges() []Range {
	if s.bits == nil {
		return nil
	}
	var ranges []Range
	inRange := false
	var lo byte
	for b := 0; b < 256; b++ {
		if s.bits.Test(uint(b)) {
			if !inRange {
				lo = byte(b)
				inRange = true
			}
			continue
		}
		if inRange {
			ranges = append(ranges, Range{lo, byte(b - 1)})
			inRange = false
		}
	}
	if inRange {
		ranges = append(ranges, Range{lo, 255})
	}
	return ranges
}

// String renders the set as its range-encoded form, each bound quoted,
// e.g. ['0'-'9''A'-'F''a'-'f'] for the hexadecimal digits.
func (s *Set) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for _, r := range s.Ranges() {
		if r.Lo == r.Hi {
			fmt.Fprintf(&sb, "%q", rune(r.Lo))
		} else {
			fmt.Fprintf(&sb, "%q-%q", rune(r.Lo), rune(r.Hi))
		}
	}
	sb.WriteByte(']')
	return sb.String()
}
