// Package runtimehost provides one concrete, minimal implementation of the
// compiler's Host interface, so that compiler.Compile is exercisable and
// testable without a real bytecode interpreter attached. It deliberately
// has no dispatch loop, no object heap, and no garbage collector — those
// remain the external collaborators the front end only ever reaches
// through the Host interface.
package runtimehost

import "github.com/skyfish4tb/wisp/internal/compiler"

// InternedString is the canonical handle for a unique string literal or
// identifier. Two calls to Host.Intern with equal content return the same
// *InternedString, matching the interning invariant the compiler relies on
// (recompiling identical source differs only in interned-string identity,
// never in bytecode or constant values).
type InternedString struct {
	Value string
}

// Null is the singleton null value every Host.NullValue call returns.
type Null struct{}

// Host is a small in-memory stand-in for the companion virtual machine.
// It satisfies compiler.Host: it interns strings into a dedup table,
// allocates Function skeletons, constructs primitive values, and records
// every object a mark pass visits so tests can assert on root coverage.
type Host struct {
	strings map[string]*InternedString
	null    Null

	// Marked records every object MarkObject has been called with, in
	// call order, for tests that assert on GC-root coverage.
	Marked []any
}

// New returns a ready-to-use Host with an empty intern table.
func New() *Host {
	return &Host{strings: make(map[string]*InternedString)}
}

func (h *Host) Intern(s string) compiler.Value {
	if existing, ok := h.strings[s]; ok {
		return existing
	}
	interned := &InternedString{Value: s}
	h.strings[s] = interned
	return interned
}

func (h *Host) NewFunction() *compiler.Function {
	return compiler.NewFunctionSkeleton()
}

func (h *Host) NumberValue(f float64) compiler.Value { return f }
func (h *Host) IntegerValue(i int64) compiler.Value  { return i }
func (h *Host) BoolValue(b bool) compiler.Value      { return b }
func (h *Host) NullValue() compiler.Value            { return h.null }

func (h *Host) MarkObject(v any) {
	h.Marked = append(h.Marked, v)
}
