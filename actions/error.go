package actions

import (
	"errors"
	"fmt"
)

// Common action-registry errors.
var (
	// ErrUnknownPrecondition indicates a node referenced a precondition
	// name that was never registered.
	ErrUnknownPrecondition = errors.New("actions: unknown precondition")
)

// PreconditionError wraps ErrUnknownPrecondition with the offending name.
type PreconditionError struct {
	Name Name
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("actions: unknown precondition %q", e.Name)
}

func (e *PreconditionError) Unwrap() error {
	return ErrUnknownPrecondition
}
