package diag

import "github.com/coregx/rxgen/byteset"

// tailWindow bounds how many of the most recently consumed bytes a
// runtime error reports.
const tailWindow = 16

// TailBytes returns up to the last tailWindow bytes of data ending at
// pos (exclusive), for inclusion in a RuntimeError.
func TailBytes(data []byte, pos int) []byte {
	if pos > len(data) {
		pos = len(data)
	}
	if pos < 0 {
		pos = 0
	}
	start := pos - tailWindow
	if start < 0 {
		start = 0
	}
	out := make([]byte, pos-start)
	copy(out, data[start:pos])
	return out
}

// ValidBytesAt scans ranges (a state's outgoing edges, as disjoint byte
// ranges) and returns the ByteSet of bytes that would have transitioned
// successfully, for the "expected one of" part of a RuntimeError.
func ValidBytesAt(ranges []byteset.Range) *byteset.Set {
	s := byteset.New()
	for _, r := range ranges {
		s.AddRange(r.Lo, r.Hi)
	}
	return s
}
