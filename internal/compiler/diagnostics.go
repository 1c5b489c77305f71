package compiler

import (
	"fmt"
	"io"
	"os"

	"github.com/skyfish4tb/wisp/internal/token"
)

// Diagnostic names the offending token's position, the token's lexeme (or
// a sentinel for EOF/ILLEGAL tokens), and a short message, mirroring the
// shape of an error report a caller-provided sink renders.
type Diagnostic struct {
	Line    int
	Column  int
	Lexeme  string // "" for ILLEGAL, "at end" for EOF
	Message string
}

func (d Diagnostic) Error() string {
	switch d.Lexeme {
	case "":
		return fmt.Sprintf("[%d:%d] Error: %s", d.Line, d.Column, d.Message)
	case "at end":
		return fmt.Sprintf("[%d:%d] Error at end: %s", d.Line, d.Column, d.Message)
	default:
		return fmt.Sprintf("[%d:%d] Error at '%s': %s", d.Line, d.Column, d.Lexeme, d.Message)
	}
}

// ErrorSink receives every diagnostic a compilation produces, in order. The
// default sink writes formatted lines to os.Stderr; a caller can supply one
// that accumulates Diagnostics instead (as CollectingSink does for tests and
// for pkg/wisp's Compile).
type ErrorSink interface {
	Report(d Diagnostic)
}

// writerSink formats each diagnostic and writes it to an io.Writer, the
// default behavior when no ErrorSink option is supplied.
type writerSink struct{ w io.Writer }

func (s writerSink) Report(d Diagnostic) { fmt.Fprintln(s.w, d.Error()) }

// defaultErrorSink writes to standard error, matching the host CLI's own
// convention of reporting failures there rather than standard output.
func defaultErrorSink() ErrorSink { return writerSink{w: os.Stderr} }

// CollectingSink accumulates diagnostics instead of formatting them
// immediately; tests and tooling that want structured access to every
// diagnostic from a compile use this instead of the default sink.
type CollectingSink struct {
	Diagnostics []Diagnostic
}

func (s *CollectingSink) Report(d Diagnostic) {
	s.Diagnostics = append(s.Diagnostics, d)
}

// lexemeFor renders a token's lexeme the way a Diagnostic expects: "at end"
// for EOF, empty for ILLEGAL (whose Lexeme field holds the lexer's message,
// not source text), and the literal lexeme otherwise.
func lexemeFor(t token.Token) string {
	switch t.Kind {
	case token.EOF:
		return "at end"
	case token.ILLEGAL:
		return ""
	default:
		return t.Lexeme
	}
}
