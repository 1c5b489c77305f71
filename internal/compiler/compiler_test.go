package compiler

import "testing"

// testHost is a minimal Host for this package's own tests: runtimehost
// imports this package, so these tests cannot import runtimehost back.
type testHost struct{ Marked []any }

func newTestHost() *testHost { return &testHost{} }

func (h *testHost) Intern(s string) Value       { return s }
func (h *testHost) NewFunction() *Function      { return NewFunctionSkeleton() }
func (h *testHost) NumberValue(f float64) Value { return f }
func (h *testHost) IntegerValue(i int64) Value  { return i }
func (h *testHost) BoolValue(b bool) Value      { return b }
func (h *testHost) NullValue() Value            { return nil }
func (h *testHost) MarkObject(v any)            { h.Marked = append(h.Marked, v) }

func compileOK(t *testing.T, src string) (*Function, *CollectingSink) {
	t.Helper()
	sink := &CollectingSink{}
	fn, ok := Compile(newTestHost(), src, WithErrorSink(sink))
	if !ok {
		t.Fatalf("compile(%q) failed: %v", src, sink.Diagnostics)
	}
	return fn, sink
}

func opsOf(fn *Function) []OpCode {
	var ops []OpCode
	code := fn.Chunk.Code
	for i := 0; i < len(code); {
		op := OpCode(code[i])
		ops = append(ops, op)
		if op == OpClosure {
			constIdx := code[i+1]
			child := fn.Chunk.Constants[constIdx].(*Function)
			i += 2 + 2*child.UpvalueCount
			continue
		}
		i += 1 + operandBytes(op)
	}
	return ops
}

func TestChunkInvariantLengthsMatch(t *testing.T) {
	fn, _ := compileOK(t, `var a = 1; puts a;`)
	if err := fn.Chunk.Validate(); err != nil {
		t.Fatalf("chunk invariant violated: %v", err)
	}
}

// Scenario 1 from the worked examples: var a = 1; puts a;
func TestScenarioVarAndPuts(t *testing.T) {
	fn, _ := compileOK(t, `var a = 1; puts a;`)
	got := opsOf(fn)
	want := []OpCode{OpConst, OpDef, OpGLoad, OpPuts, OpPop, OpNull, OpReturn}
	requireOps(t, got, want)
}

// Scenario 2: a function with no upvalues is installed with a plain CONST,
// never a CLO.
func TestScenarioFunctionNoUpvalues(t *testing.T) {
	fn, _ := compileOK(t, `fun f(x) { return x + 1; } puts f(2);`)
	got := opsOf(fn)
	want := []OpCode{
		OpConst, OpDef, // install f, define global f
		OpGLoad, OpConst, OpCall, OpPuts, OpPop,
		OpNull, OpReturn,
	}
	requireOps(t, got, want)

	// the inner function itself
	innerIdx := fn.Chunk.Code[1]
	inner := fn.Chunk.Constants[innerIdx].(*Function)
	if inner.UpvalueCount != 0 {
		t.Errorf("expected no upvalues, got %d", inner.UpvalueCount)
	}
	innerOps := opsOf(inner)
	// The POP after RET is endScope dropping parameter x before the
	// implicit NULL;RET epilogue.
	wantInner := []OpCode{OpLoad, OpConst, OpAdd, OpReturn, OpPop, OpNull, OpReturn}
	requireOps(t, innerOps, wantInner)
}

// Scenario 3: a closure over a captured local emits CLO + one (isLocal,
// index) pair + CONST, and the outer local is closed with CLU at scope end.
func TestScenarioClosureCapturesLocal(t *testing.T) {
	fn, _ := compileOK(t, `fun make() { var x = 0; fun g() { return x; } return g; }`)
	got := opsOf(fn)
	// top level: CONST 1 (make's function constant) DEF 0 (name "make") NULL RET
	if got[0] != OpConst || got[1] != OpDef {
		t.Fatalf("expected outer CONST;DEF prologue, got %v", got)
	}
	makeIdx := fn.Chunk.Code[1]
	makeFn := fn.Chunk.Constants[makeIdx].(*Function)
	makeOps := opsOf(makeFn)

	foundCLO := false
	for _, op := range makeOps {
		if op == OpClosure {
			foundCLO = true
		}
	}
	if !foundCLO {
		t.Fatalf("expected make's body to emit CLO for g, got %v", makeOps)
	}

	// Locate g's function constant and check its upvalue descriptor.
	var g *Function
	for _, c := range makeFn.Chunk.Constants {
		if f, ok := c.(*Function); ok && f != makeFn {
			g = f
		}
	}
	if g == nil {
		t.Fatalf("did not find g's function constant")
	}
	if g.UpvalueCount != 1 {
		t.Fatalf("expected g to record exactly 1 upvalue, got %d", g.UpvalueCount)
	}

	// make closes the captured local x with a CLU (emitted by endScope,
	// just before the implicit NULL;RET epilogue).
	hasClu := false
	for _, op := range makeOps {
		if op == OpClu {
			hasClu = true
		}
	}
	if !hasClu {
		t.Errorf("expected make to CLU the captured local x, got %v", makeOps)
	}
}

// Scenario 4: if/else opcode trace.
func TestScenarioIfElse(t *testing.T) {
	fn, _ := compileOK(t, `global a = true, b = true; if (a == b) puts 1; else puts 2;`)
	got := opsOf(fn)
	// Find the if/else sequence directly by scanning for JMPF.
	hasJMPF, hasJMP, hasPuts := false, false, 0
	for _, op := range got {
		switch op {
		case OpJumpIfFalse:
			hasJMPF = true
		case OpJump:
			hasJMP = true
		case OpPuts:
			hasPuts++
		}
	}
	if !hasJMPF || !hasJMP {
		t.Fatalf("expected JMPF and JMP in if/else, got %v", got)
	}
	if hasPuts != 2 {
		t.Fatalf("expected two PUTS (one per branch), got %d in %v", hasPuts, got)
	}
}

// Scenario 5: while loop back-jump is well-formed and points within chunk.
func TestScenarioWhileLoop(t *testing.T) {
	fn, _ := compileOK(t, `global n = 3; while (n) { n = n - 1; }`)
	if err := fn.Chunk.Validate(); err != nil {
		t.Fatal(err)
	}
	found := false
	for i := 0; i < len(fn.Chunk.Code); i++ {
		if OpCode(fn.Chunk.Code[i]) == OpLoop {
			found = true
			off := int(fn.Chunk.Code[i+1])<<8 | int(fn.Chunk.Code[i+2])
			target := i + 3 - off
			if target < 0 || target >= len(fn.Chunk.Code) {
				t.Errorf("LOOP target %d out of range", target)
			}
		}
	}
	if !found {
		t.Fatal("expected a LOOP instruction")
	}
}

// Scenario 6: a dangling operator is a syntax diagnostic and compilation
// fails.
func TestScenarioExpectExpression(t *testing.T) {
	sink := &CollectingSink{}
	_, ok := Compile(newTestHost(), `1 + ;`, WithErrorSink(sink))
	if ok {
		t.Fatal("expected compile to fail")
	}
	if len(sink.Diagnostics) == 0 || sink.Diagnostics[0].Message != "Expect expression." {
		t.Fatalf("got diagnostics %v", sink.Diagnostics)
	}
}

func TestOwnInitializerDiagnostic(t *testing.T) {
	sink := &CollectingSink{}
	_, ok := Compile(newTestHost(), `fun f() { var x = x; }`, WithErrorSink(sink))
	if ok {
		t.Fatal("expected compile to fail")
	}
	found := false
	for _, d := range sink.Diagnostics {
		if d.Message == "Cannot read local variable in its own initializer." {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected own-initializer diagnostic, got %v", sink.Diagnostics)
	}
}

func TestTooManyLocalsDiagnostic(t *testing.T) {
	// Slot 0 is reserved, so MaxLocals user variables make the last one the
	// (MaxLocals+1)th local: the single declaration past the limit.
	src := "fun f() {"
	for i := 0; i < MaxLocals; i++ {
		src += "var v" + itoa(i) + " = 0;"
	}
	src += "}"
	sink := &CollectingSink{}
	_, ok := Compile(newTestHost(), src, WithErrorSink(sink))
	if ok {
		t.Fatal("expected compile to fail past the local limit")
	}
	count := 0
	for _, d := range sink.Diagnostics {
		if d.Message == "Too many local variables in function." {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("expected exactly one overflow diagnostic, got %d: %v", count, sink.Diagnostics)
	}
}

func TestSlotZeroNeverUserAccessible(t *testing.T) {
	fn, _ := compileOK(t, `fun f() { var a = 1; return a; }`)
	f := fn.Chunk.Constants[fn.Chunk.Code[1]].(*Function)
	code := f.Chunk.Code
	for i := 0; i < len(code); i++ {
		if OpCode(code[i]) == OpLoad || OpCode(code[i]) == OpStore {
			if code[i+1] == 0 {
				t.Errorf("slot 0 referenced by user LD/ST at offset %d", i)
			}
		}
	}
}

func TestReturnFromTopLevelIsDiagnostic(t *testing.T) {
	sink := &CollectingSink{}
	_, ok := Compile(newTestHost(), `return;`, WithErrorSink(sink))
	if ok {
		t.Fatal("expected compile to fail")
	}
	if sink.Diagnostics[0].Message != "Cannot return from top-level code." {
		t.Fatalf("got %v", sink.Diagnostics)
	}
}

func TestDeterministicRecompile(t *testing.T) {
	src := `var a = 1; fun f(x) { return x + a; } puts f(2);`
	fn1, _ := compileOK(t, src)
	fn2, _ := compileOK(t, src)
	if string(fn1.Chunk.Code) != string(fn2.Chunk.Code) {
		t.Fatalf("recompile produced different bytecode")
	}
}

func requireOps(t *testing.T, got, want []OpCode) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("opcode count mismatch: got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("opcode %d: got %s, want %s (full: got %v want %v)", i, got[i], want[i], got, want)
		}
	}
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	digits := []byte{}
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}
