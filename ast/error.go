package ast

import "errors"

// Compile-time AST validation errors.
var (
	// ErrEmptyByteSet indicates a Symbol node was constructed with an
	// empty byte set.
	ErrEmptyByteSet = errors.New("ast: symbol byte set must be non-empty")
)
