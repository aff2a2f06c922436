// Package emit renders a compact machine.Machine as standalone Go
// source implementing the scan loop, in one of two backends: a
// table-driven matcher (package emit's default) or a direct-dispatch
// (switch-case-per-state) matcher for hot paths where table indirection
// shows up in profiles.
package emit

import (
	"fmt"
	"strings"

	"github.com/coregx/rxgen/machine"
)

// Backend selects which matcher shape Emit renders.
type Backend int

const (
	// BackendTable renders a table-driven matcher: one big transition
	// table indexed by (state, byte class).
	BackendTable Backend = iota
	// BackendDispatch renders a direct-dispatch matcher: one Go
	// switch case per state, avoiding a table lookup per byte.
	BackendDispatch
)

// Config controls Emit's output. The zero value is not valid; use
// DefaultConfig to get sane variable names and no bounds-check
// elision.
type Config struct {
	Backend Backend

	// FuncName is the generated matcher function's name.
	FuncName string

	// Var* override the names of the variables the generated function
	// uses, following the shared protocol: p/p_end bound the input
	// slice, cs holds the current state, b holds the current byte,
	// data is the input slice, mem is an optional user context value
	// threaded through action calls, is_eof reports whether p == p_end
	// with no more input coming.
	VarP, VarPEnd, VarCS, VarByte, VarData, VarMem, VarIsEOF string

	// ElideBoundsChecks is not read by either backend: the generated
	// scan loop indexes data the same way whether it is set or not.
	ElideBoundsChecks bool

	// ActionBody maps an action name to the Go statement(s) executed
	// when it fires. Actions with no entry emit nothing (a no-op hook),
	// matching how an unregistered action defaults to priority 0
	// instead of failing compilation.
	ActionBody map[string]string

	// PrecondBody maps a precondition name to a Go boolean expression
	// evaluated to decide whether its guarded action group applies. A
	// precondition with no entry is treated as always-false, so the
	// generated matcher falls through to the next candidate group (or
	// to no action at all) rather than fail to compile.
	PrecondBody map[string]string
}

// DefaultConfig returns a Config using the canonical variable names from
// the shared protocol and the table backend.
func DefaultConfig(funcName string) Config {
	return Config{
		Backend:  BackendTable,
		FuncName: funcName,
		VarP:     "p", VarPEnd: "p_end", VarCS: "cs", VarByte: "b",
		VarData: "data", VarMem: "mem", VarIsEOF: "is_eof",
		ActionBody:  map[string]string{},
		PrecondBody: map[string]string{},
	}
}

// Validate reports whether c is well-formed enough to emit from.
func (c Config) Validate() error {
	if c.FuncName == "" {
		return fmt.Errorf("emit: FuncName must not be empty")
	}
	names := []string{c.VarP, c.VarPEnd, c.VarCS, c.VarByte, c.VarData, c.VarMem, c.VarIsEOF}
	for _, n := range names {
		if n == "" {
			return fmt.Errorf("emit: all protocol variable names must be set")
		}
	}
	return nil
}

// Emit renders m as a standalone Go function per cfg.
func Emit(m *machine.Machine, cfg Config) (string, error) {
	if err := cfg.Validate(); err != nil {
		return "", err
	}
	var sb strings.Builder
	switch cfg.Backend {
	case BackendDispatch:
		emitDispatch(&sb, m, cfg)
	default:
		emitTable(&sb, m, cfg)
	}
	return sb.String(), nil
}
