// Package stateset provides a sparse set of NFA state IDs with O(1)
// insert/contains/clear. Subset construction uses it to turn the NFA
// states of an epsilon-closure into an order-independent DFA state key.
//
// A sparse array gives O(1) membership testing; a parallel dense array
// gives O(1) iteration and O(1) Clear without zeroing the sparse array.
package stateset

// Set is a set of uint32 values bounded by a known capacity (the NFA's
// state count).
type Set struct {
	sparse []uint32
	dense  []uint32
	size   uint32
}

// New returns a Set that can hold values in [0, capacity).
func New(capacity int) *Set {
	return &Set{
		sparse: make([]uint32, capacity),
		dense:  make([]uint32, 0, capacity),
	}
}

// Insert adds value to the set. No-op if already present.
func (s *Set) Insert(value uint32) {
	if s.Contains(value) {
		return
	}
	s.dense = append(s.dense, value)
	s.sparse[value] = s.size
	s.size++
}

// Contains reports whether value is a member.
func (s *Set) Contains(value uint32) bool {
	if int(value) >= len(s.sparse) {
		return false
	}
	idx := s.sparse[value]
	return idx < s.size && s.dense[idx] == value
}

// Clear empties the set in O(1).
func (s *Set) Clear() {
	s.size = 0
	s.dense = s.dense[:0]
}

// Len returns the number of members.
func (s *Set) Len() int { return int(s.size) }

// Values returns the members in insertion order. The slice is valid
// until the next mutation.
func (s *Set) Values() []uint32 { return s.dense[:s.size] }

// Key renders the set's members as a sorted, comma-joined string
// suitable for use as a subset-construction map key. Sorting makes the
// key independent of insertion order, so two epsilon-closures reaching
// the same NFA states always hash to the same DFA state.
func (s *Set) Key() string {
	vals := append([]uint32{}, s.Values()...)
	insertionSort(vals)
	return encodeKey(vals)
}

func insertionSort(vals []uint32) {
	for i := 1; i < len(vals); i++ {
		for j := i; j > 0 && vals[j] < vals[j-1]; j-- {
			vals[j], vals[j-1] = vals[j-1], vals[j]
		}
	}
}

func encodeKey(vals []uint32) string {
	buf := make([]byte, 0, len(vals)*5)
	for i, v := range vals {
		if i > 0 {
			buf = append(buf, ',')
		}
		buf = appendUint32(buf, v)
	}
	return string(buf)
}

func appendUint32(buf []byte, v uint32) []byte {
	if v == 0 {
		return append(buf, '0')
	}
	var tmp [10]byte
	n := len(tmp)
	for v > 0 {
		n--
		tmp[n] = byte('0' + v%10)
		v /= 10
	}
	return append(buf, tmp[n:]...)
}
