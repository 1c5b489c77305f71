// Package wisp is the public facade over the compiler front end: a small,
// stable surface a host program embeds instead of reaching into
// internal/compiler directly, mirroring the Engine-style API the teacher
// repository's own public package exposes.
package wisp

import (
	"github.com/skyfish4tb/wisp/internal/compiler"
	"github.com/skyfish4tb/wisp/internal/runtimehost"
)

// Function is the compiled top-level function a successful Compile call
// returns; it owns a Chunk of bytecode ready for a companion VM.
type Function = compiler.Function

// Diagnostic is one compile-time error report.
type Diagnostic = compiler.Diagnostic

// Result is the outcome of compiling one source buffer: either a usable
// Function, or a non-empty set of Diagnostics and no function at all.
type Result struct {
	Function    *Function
	Success     bool
	Diagnostics []Diagnostic
}

// Compile lexes, parses, and emits bytecode for source in one pass, using a
// self-contained default Host so the caller needs no VM to get a Result.
// It always uses the runtimehost Host; this package offers no way to supply
// a different Host.
func Compile(source string) Result {
	sink := &compiler.CollectingSink{}
	fn, ok := compiler.Compile(
		runtimehost.New(),
		source,
		compiler.WithErrorSink(sink),
	)

	return Result{Function: fn, Success: ok, Diagnostics: sink.Diagnostics}
}

// Disassemble renders fn's chunk as human-readable bytecode text, labeled
// name.
func Disassemble(fn *Function, name string) string {
	return compiler.Disassemble(fn.Chunk, name)
}
