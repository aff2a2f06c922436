package machine

import "github.com/coregx/rxgen/dfa"

// ByteClasses maps each of the 256 byte values to an equivalence class.
// Two bytes belong to the same class if no state in the DFA being
// compressed ever treats them differently, so a Machine transition can
// be keyed by class instead of by raw byte: an 8-class alphabet needs
// only 8 transition slots per state instead of 256.
type ByteClasses struct {
	classes [256]byte
}

// SingletonByteClasses returns the (trivial) alphabet with no
// compression: every byte is its own class.
func SingletonByteClasses() ByteClasses {
	var bc ByteClasses
	for i := 0; i < 256; i++ {
		bc.classes[i] = byte(i)
	}
	return bc
}

// Class returns the equivalence class of b.
func (bc ByteClasses) Class(b byte) byte { return bc.classes[b] }

// Len returns the number of distinct classes in the alphabet.
func (bc ByteClasses) Len() int {
	max := byte(0)
	for _, c := range bc.classes {
		if c > max {
			max = c
		}
	}
	return int(max) + 1
}

// Representatives returns one byte per class, suitable for probing a
// DFA once per class instead of once per byte when building a Machine.
func (bc ByteClasses) Representatives() []byte {
	seen := make([]bool, 256)
	var reps []byte
	for b := 0; b < 256; b++ {
		c := bc.classes[b]
		if !seen[c] {
			seen[c] = true
			reps = append(reps, byte(b))
		}
	}
	return reps
}

// boundaries is a 256-bit marker set recording which bytes start a new
// equivalence class once every DFA state's transition ranges have been
// folded in.
type boundaries struct {
	bits [4]uint64
}

func (bs *boundaries) mark(b byte) {
	bs.bits[b/64] |= 1 << (b % 64)
}

func (bs *boundaries) isMarked(b byte) bool {
	return bs.bits[b/64]&(1<<(b%64)) != 0
}

// markRange records that [lo, hi] is a single maximal run in some DFA
// state's transitions, so a class boundary falls just before lo and at
// hi.
func (bs *boundaries) markRange(lo, hi byte) {
	if lo > 0 {
		bs.mark(lo - 1)
	}
	bs.mark(hi)
}

// BuildAlphabet derives the coarsest ByteClasses consistent with every
// transition range of d: walking the 256 bytes in order, a fresh class
// starts immediately after every byte marked as a boundary.
func BuildAlphabet(d *dfa.DFA) ByteClasses {
	var bs boundaries
	for i := 0; i < d.NumStates(); i++ {
		for _, t := range d.Transitions(dfa.StateID(i)) {
			bs.markRange(t.Lo, t.Hi)
		}
	}

	var bc ByteClasses
	class := byte(0)
	for b := 0; b < 256; b++ {
		bc.classes[b] = class
		if bs.isMarked(byte(b)) && b != 255 {
			class++
		}
	}
	return bc
}
