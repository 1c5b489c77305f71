// Package compiler implements the single-pass, AST-less front end: a
// Pratt expression engine fused directly with bytecode emission and
// lexical scope resolution. There is no intermediate syntax tree — parsing
// a construct and emitting its bytecode are the same recursive descent.
package compiler

import (
	"fmt"

	"github.com/skyfish4tb/wisp/internal/lexer"
	"github.com/skyfish4tb/wisp/internal/token"
)

// FunctionType distinguishes the implicit top-level script frame from a
// frame opened by a `fun` literal; only the latter may contain a `return`
// with a value, and only the former is the one compilation ever returns to
// the caller without an enclosing `fun`.
type FunctionType int

const (
	TypeScript FunctionType = iota
	TypeFunction
)

// Local is one entry in a frame's fixed-size locals array. Depth is -1
// while the local's initializer is still being compiled — reading it in
// that window is a diagnostic, not a silent bug.
type Local struct {
	Name     string
	Depth    int
	Captured bool
}

// Upvalue is the descriptor recorded on a function under compilation for
// each distinct binding it captures from an enclosing frame.
type Upvalue struct {
	Index   byte
	IsLocal bool
}

// frame is a per-function compilation context. Frames form a stack via
// enclosing, one per nested `fun` literal currently being compiled; the
// outermost frame is the implicit top-level script.
type frame struct {
	enclosing  *frame
	function   *Function
	funcType   FunctionType
	locals     []Local
	upvalues   []Upvalue
	scopeDepth int
}

// CompilerOption configures a Compiler before compilation starts.
type CompilerOption func(*Compiler)

// WithErrorSink overrides the destination diagnostics are reported to. The
// default sink writes formatted lines to standard error.
func WithErrorSink(sink ErrorSink) CompilerOption {
	return func(c *Compiler) { c.sink = sink }
}

// Compiler drives one compilation: one lexer, one parser state, and a stack
// of frames reachable through the current frame's enclosing chain. It is
// not safe for concurrent use and is discarded after Compile returns.
type Compiler struct {
	host Host
	lex  *lexer.Lexer
	sink ErrorSink

	previous token.Token
	current  token.Token

	hadError  bool
	panicMode bool

	cur *frame
}

// Compile is the sole entry point: it lexes and parses source in one pass,
// emitting bytecode into a fresh top-level Function, and returns it unless
// any diagnostic was reported, in which case it returns (nil, false). The
// partially-built function is always discarded on failure; callers must not
// retain a reference into it.
func Compile(host Host, source string, opts ...CompilerOption) (*Function, bool) {
	c := &Compiler{
		host: host,
		lex:  lexer.New(source),
		sink: defaultErrorSink(),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.beginFrame(TypeScript, "")
	c.advance()
	for !c.match(token.EOF) {
		c.declaration()
	}
	fn := c.endFrame()

	if c.hadError {
		return nil, false
	}
	return fn, true
}

// MarkCompilerRoots walks the frame stack and marks every
// function-under-construction as live. A host's collector calls this
// between any two allocations the compiler triggers, since those
// allocations may run a cycle that would otherwise reclaim functions still
// being written to.
func (c *Compiler) MarkCompilerRoots() {
	for f := c.cur; f != nil; f = f.enclosing {
		if f.function != nil {
			c.host.MarkObject(f.function)
		}
	}
}

func (c *Compiler) beginFrame(ft FunctionType, name string) {
	fn := c.host.NewFunction()
	fn.Name = name
	f := &frame{
		enclosing: c.cur,
		function:  fn,
		funcType:  ft,
		// Slot 0 is reserved and never user-accessible (the implicit
		// receiver/self slot in the companion VM's calling convention).
		locals: []Local{{Name: "", Depth: 0, Captured: false}},
	}
	c.cur = f
}

// endFrame finishes the current frame: emits the implicit `null; ret`
// epilogue every function gets regardless of its last statement, then pops
// back to the enclosing frame and returns the finished function.
func (c *Compiler) endFrame() *Function {
	c.emitReturn()
	fn := c.cur.function
	fn.UpvalueCount = len(c.cur.upvalues)
	c.cur = c.cur.enclosing
	return fn
}

func (c *Compiler) chunk() *Chunk { return c.cur.function.Chunk }

// --- parser driver -------------------------------------------------------

func (c *Compiler) advance() {
	c.previous = c.current
	for {
		c.current = c.lex.Scan()
		if c.current.Kind != token.ILLEGAL {
			break
		}
		c.errorAtCurrent(c.current.Lexeme)
	}
}

func (c *Compiler) check(k token.Kind) bool { return c.current.Kind == k }

func (c *Compiler) match(k token.Kind) bool {
	if !c.check(k) {
		return false
	}
	c.advance()
	return true
}

func (c *Compiler) consume(k token.Kind, msg string) {
	if c.current.Kind == k {
		c.advance()
		return
	}
	c.errorAtCurrent(msg)
}

func (c *Compiler) errorAtCurrent(msg string) { c.errorAt(c.current, msg) }
func (c *Compiler) error(msg string)          { c.errorAt(c.previous, msg) }

func (c *Compiler) errorAt(t token.Token, msg string) {
	if c.panicMode {
		return
	}
	c.panicMode = true
	c.hadError = true
	c.sink.Report(Diagnostic{
		Line:    t.Line,
		Column:  t.Column,
		Lexeme:  lexemeFor(t),
		Message: msg,
	})
}

func (c *Compiler) errorf(format string, args ...any) { c.error(fmt.Sprintf(format, args...)) }

// --- emission helpers ------------------------------------------------------

func (c *Compiler) emitByte(b byte) int {
	return c.chunk().Write(b, c.previous.Line, c.previous.Column)
}

func (c *Compiler) emitOp(op OpCode) int { return c.emitByte(byte(op)) }

func (c *Compiler) emitBytes(op OpCode, operand byte) int {
	return c.chunk().WriteOp(op, operand, c.previous.Line, c.previous.Column)
}

func (c *Compiler) emitJump(op OpCode) int {
	return c.chunk().EmitJump(op, c.previous.Line, c.previous.Column)
}

func (c *Compiler) patchJump(offset int) {
	if err := c.chunk().PatchJump(offset); err != nil {
		c.error(err.Error())
	}
}

func (c *Compiler) emitLoop(loopStart int) {
	if err := c.chunk().EmitLoop(loopStart, c.previous.Line, c.previous.Column); err != nil {
		c.error(err.Error())
	}
}

func (c *Compiler) emitReturn() {
	c.emitOp(OpNull)
	c.emitOp(OpReturn)
}

func (c *Compiler) makeConstant(v Value) byte {
	idx, err := c.chunk().AddConstant(v)
	if err != nil {
		c.error(err.Error())
		return 0
	}
	return byte(idx)
}

func (c *Compiler) emitConstant(v Value) {
	c.emitBytes(OpConst, c.makeConstant(v))
}

// --- scope -----------------------------------------------------------------

func (c *Compiler) beginScope() { c.cur.scopeDepth++ }

// endScope emits exactly one POP or CLU per local that falls out of scope,
// depending on whether a nested function captured it, then drops them from
// the frame's locals array.
func (c *Compiler) endScope() {
	c.cur.scopeDepth--
	locals := c.cur.locals
	for len(locals) > 0 && locals[len(locals)-1].Depth > c.cur.scopeDepth {
		if locals[len(locals)-1].Captured {
			c.emitOp(OpClu)
		} else {
			c.emitOp(OpPop)
		}
		locals = locals[:len(locals)-1]
	}
	c.cur.locals = locals
}

func (c *Compiler) isGlobalScope() bool { return c.cur.scopeDepth == 0 }

// --- identifiers and variable declaration -----------------------------------

func (c *Compiler) identifierConstant(name string) byte {
	return c.makeConstant(c.host.Intern(name))
}

func (c *Compiler) addLocal(name string) {
	if len(c.cur.locals) == MaxLocals {
		c.error("Too many local variables in function.")
		return
	}
	c.cur.locals = append(c.cur.locals, Local{Name: name, Depth: -1})
}

func (c *Compiler) declareVariable(name string) {
	if c.isGlobalScope() {
		return
	}
	for i := len(c.cur.locals) - 1; i >= 0; i-- {
		l := c.cur.locals[i]
		if l.Depth != -1 && l.Depth < c.cur.scopeDepth {
			break
		}
		if l.Name == name {
			c.error("Variable with this name already declared in this scope.")
			return
		}
	}
	c.addLocal(name)
}

// parseVariable consumes an identifier, declares it in the current scope if
// any, and returns the constant-pool index to use with DEF/GLD/GST — 0 for
// a local, since locals never need a named reference at runtime.
func (c *Compiler) parseVariable(errMsg string) byte {
	c.consume(token.IDENT, errMsg)
	name := c.previous.Lexeme
	c.declareVariable(name)
	if !c.isGlobalScope() {
		return 0
	}
	return c.identifierConstant(name)
}

func (c *Compiler) markInitialized() {
	if c.isGlobalScope() {
		return
	}
	c.cur.locals[len(c.cur.locals)-1].Depth = c.cur.scopeDepth
}

func (c *Compiler) defineVariable(global byte) {
	if !c.isGlobalScope() {
		c.markInitialized()
		return
	}
	c.emitBytes(OpDef, global)
}

// --- name resolution ---------------------------------------------------

func (c *Compiler) resolveLocal(f *frame, name string) int {
	for i := len(f.locals) - 1; i >= 0; i-- {
		if f.locals[i].Name == name {
			if f.locals[i].Depth == -1 {
				c.error("Cannot read local variable in its own initializer.")
			}
			return i
		}
	}
	return -1
}

func (c *Compiler) addUpvalue(f *frame, index byte, isLocal bool) int {
	for i, uv := range f.upvalues {
		if uv.Index == index && uv.IsLocal == isLocal {
			return i
		}
	}
	if len(f.upvalues) == MaxLocals {
		c.error("Too many closure variables in function.")
		return 0
	}
	f.upvalues = append(f.upvalues, Upvalue{Index: index, IsLocal: isLocal})
	return len(f.upvalues) - 1
}

// resolveUpvalue recursively walks the enclosing-frame chain looking for
// name, marking a resolved enclosing local as captured and threading an
// upvalue descriptor through every frame between its definition and this
// reference.
func (c *Compiler) resolveUpvalue(f *frame, name string) int {
	if f.enclosing == nil {
		return -1
	}
	if local := c.resolveLocal(f.enclosing, name); local != -1 {
		f.enclosing.locals[local].Captured = true
		return c.addUpvalue(f, byte(local), true)
	}
	if up := c.resolveUpvalue(f.enclosing, name); up != -1 {
		return c.addUpvalue(f, byte(up), false)
	}
	return -1
}
