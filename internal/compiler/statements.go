package compiler

import "github.com/skyfish4tb/wisp/internal/token"

// declaration is the entry point statement() is re-entered through from
// block bodies; it recognizes the three declaration-introducing keywords
// and otherwise falls through to statement. A diagnostic anywhere below
// here sets panicMode, which synchronize clears before the next
// declaration is attempted.
func (c *Compiler) declaration() {
	switch {
	case c.match(token.FUN):
		c.funDeclaration()
	case c.match(token.VAR):
		c.varDeclaration()
	case c.match(token.GLOBAL):
		c.globalDeclaration()
	default:
		c.statement()
	}
	if c.panicMode {
		c.synchronize()
	}
}

func (c *Compiler) statement() {
	switch {
	case c.match(token.PUTS):
		c.putsStatement()
	case c.match(token.IF):
		c.ifStatement()
	case c.match(token.RETURN):
		c.returnStatement()
	case c.match(token.WHILE):
		c.whileStatement()
	case c.match(token.LEFTBRACE):
		c.beginScope()
		c.block()
		c.endScope()
	default:
		c.expressionStatement()
	}
}

func (c *Compiler) block() {
	for !c.check(token.RIGHTBRACE) && !c.check(token.EOF) {
		c.declaration()
	}
	c.consume(token.RIGHTBRACE, "Expect '}' after block.")
}

func (c *Compiler) expressionStatement() {
	c.expression()
	c.consume(token.SEMICOLON, "Expect ';' after expression.")
	c.emitOp(OpPop)
}

// funDeclaration names the variable first and marks it initialized before
// compiling the body, so a function may call itself by name.
func (c *Compiler) funDeclaration() {
	global := c.parseVariable("Expect function name.")
	name := c.previous.Lexeme
	c.markInitialized()
	c.function(TypeFunction, name)
	c.defineVariable(global)
}

func (c *Compiler) varDeclaration() {
	global := c.parseVariable("Expect variable name.")
	if c.match(token.EQUAL) {
		c.expression()
	} else {
		c.emitOp(OpNull)
	}
	c.consume(token.SEMICOLON, "Expect ';' after variable declaration.")
	c.defineVariable(global)
}

// globalDeclaration always defines a package-level global, regardless of
// the current scope depth, and accepts a comma-separated list of
// name[=init] pairs in one statement.
func (c *Compiler) globalDeclaration() {
	for {
		c.consume(token.IDENT, "Expect variable name.")
		global := c.identifierConstant(c.previous.Lexeme)
		if c.match(token.EQUAL) {
			c.expression()
		} else {
			c.emitOp(OpNull)
		}
		c.emitBytes(OpDef, global)
		if !c.match(token.COMMA) {
			break
		}
	}
	c.consume(token.SEMICOLON, "Expect ';' after global declaration.")
}

// function compiles a `fun` body in a fresh frame, then installs the
// finished function as a constant in the enclosing chunk. If the frame
// captured any upvalues, CLO and its (isLocal,index) descriptor pairs are
// emitted ahead of the constant push; otherwise only the constant push is
// emitted.
func (c *Compiler) function(ft FunctionType, name string) {
	c.beginFrame(ft, name)
	fr := c.cur
	c.beginScope()

	c.consume(token.LEFTPAREN, "Expect '(' after function name.")
	if !c.check(token.RIGHTPAREN) {
		for {
			if fr.function.Arity == MaxArgs {
				c.errorAtCurrent("Cannot have more than 255 parameters.")
			}
			fr.function.Arity++
			constant := c.parseVariable("Expect parameter name.")
			c.defineVariable(constant)
			if !c.match(token.COMMA) {
				break
			}
		}
	}
	c.consume(token.RIGHTPAREN, "Expect ')' after parameters.")
	c.consume(token.LEFTBRACE, "Expect '{' before function body.")
	c.block()
	c.endScope()

	fn := c.endFrame()
	constant := c.makeConstant(fn)

	if len(fr.upvalues) > 0 {
		c.emitBytes(OpClosure, constant)
		for _, uv := range fr.upvalues {
			isLocal := byte(0)
			if uv.IsLocal {
				isLocal = 1
			}
			c.emitByte(isLocal)
			c.emitByte(uv.Index)
		}
	}
	c.emitBytes(OpConst, constant)
}

// ifStatement accepts a parenthesized condition with an optional `then`, or
// a bare condition requiring `then`. The condition's POP is emitted right
// after the then-jump, before the then-branch, in both the with-else and
// without-else paths; the else path emits a second POP after patching the
// then-jump, ahead of the else-branch.
func (c *Compiler) ifStatement() {
	hadParen := c.match(token.LEFTPAREN)
	c.expression()
	if hadParen {
		c.consume(token.RIGHTPAREN, "Expect ')' after condition.")
		c.match(token.THEN)
	} else {
		c.consume(token.THEN, "Expect 'then' after condition.")
	}

	thenJump := c.emitJump(OpJumpIfFalse)
	c.emitOp(OpPop)
	c.statement()

	if c.match(token.ELSE) {
		elseJump := c.emitJump(OpJump)
		c.patchJump(thenJump)
		c.emitOp(OpPop)
		c.statement()
		c.patchJump(elseJump)
	} else {
		c.patchJump(thenJump)
	}
}

func (c *Compiler) whileStatement() {
	loopStart := len(c.chunk().Code)
	c.consume(token.LEFTPAREN, "Expect '(' after 'while'.")
	c.expression()
	c.consume(token.RIGHTPAREN, "Expect ')' after condition.")

	exitJump := c.emitJump(OpJumpIfFalse)
	c.emitOp(OpPop)
	c.statement()
	c.emitLoop(loopStart)

	c.patchJump(exitJump)
	c.emitOp(OpPop)
}

func (c *Compiler) returnStatement() {
	if c.cur.funcType == TypeScript {
		c.error("Cannot return from top-level code.")
	}
	if c.match(token.SEMICOLON) {
		c.emitReturn()
		return
	}
	c.expression()
	c.consume(token.SEMICOLON, "Expect ';' after return value.")
	c.emitOp(OpReturn)
}

func (c *Compiler) putsStatement() {
	count := 0
	for {
		c.expression()
		count++
		if count > MaxArgs {
			c.error("Too many values in 'puts' statement.")
		}
		if !c.match(token.COMMA) {
			break
		}
	}
	c.consume(token.SEMICOLON, "Expect ';' after 'puts' statement.")
	c.emitBytes(OpPuts, byte(count))
	for i := 0; i < count; i++ {
		c.emitOp(OpPop)
	}
}

// synchronize discards tokens until one that plausibly starts a fresh
// statement, so one diagnostic does not cascade into dozens more from the
// same malformed construct.
func (c *Compiler) synchronize() {
	c.panicMode = false
	for c.current.Kind != token.EOF {
		if c.previous.Kind == token.SEMICOLON {
			return
		}
		switch c.current.Kind {
		case token.CLASS, token.FUN, token.VAR, token.GLOBAL,
			token.FOR, token.IF, token.WHILE, token.PUTS, token.RETURN:
			return
		}
		c.advance()
	}
}
