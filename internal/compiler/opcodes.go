package compiler

// OpCode identifies a single bytecode instruction. Every opcode and its
// operands, if any, are written directly into a Chunk's byte stream by the
// compiler as it parses; there is no intermediate instruction representation.
type OpCode byte

const (
	OpConst OpCode = iota // CONST idx      — push constants[idx]
	OpNull                // NULL           — push null
	OpTrue                // TRUE           — push true
	OpFalse               // FALSE          — push false
	OpSelf                // SELF           — push a reference to the enclosing function
	OpPop                 // POP            — discard top of stack
	OpClu                 // CLU            — close the upvalue capturing the top local, then pop it
	OpDef                 // DEF idx        — define global constants[idx] from top of stack
	OpGLoad               // GLD idx        — push the value of global constants[idx]
	OpGStore              // GST idx        — store top of stack into global constants[idx]
	OpLoad                // LD slot        — push local slot
	OpStore               // ST slot        — store top of stack into local slot
	OpULoad               // ULD slot       — push upvalue slot
	OpUStore              // UST slot       — store top of stack into upvalue slot
	OpEqual               // EQ             — pop b,a; push a == b
	OpLess                // LT             — pop b,a; push a < b
	OpLessEqual           // LE             — pop b,a; push a <= b
	OpNot                 // NOT            — pop a; push !a
	OpNegate              // NEG            — pop a; push -a
	OpAdd                 // ADD            — pop b,a; push a + b
	OpSub                 // SUB            — pop b,a; push a - b
	OpMul                 // MUL            — pop b,a; push a * b
	OpDiv                 // DIV            — pop b,a; push a / b
	OpJump                // JMP off16      — unconditional forward jump
	OpJumpIfFalse         // JMPF off16     — pop a; jump forward if falsey
	OpLoop                // LOOP off16     — unconditional backward jump
	OpCall                // CALL argc      — call the callee argc below the top
	OpReturn              // RET            — return top of stack to caller
	OpClosure             // CLO idx (isLocal,index)* — build a closure over constants[idx]
	OpPuts                // PUTS n         — pop n values and print them
)

var opcodeNames = [...]string{
	OpConst:       "CONST",
	OpNull:        "NULL",
	OpTrue:        "TRUE",
	OpFalse:       "FALSE",
	OpSelf:        "SELF",
	OpPop:         "POP",
	OpClu:         "CLU",
	OpDef:         "DEF",
	OpGLoad:       "GLD",
	OpGStore:      "GST",
	OpLoad:        "LD",
	OpStore:       "ST",
	OpULoad:       "ULD",
	OpUStore:      "UST",
	OpEqual:       "EQ",
	OpLess:        "LT",
	OpLessEqual:   "LE",
	OpNot:         "NOT",
	OpNegate:      "NEG",
	OpAdd:         "ADD",
	OpSub:         "SUB",
	OpMul:         "MUL",
	OpDiv:         "DIV",
	OpJump:        "JMP",
	OpJumpIfFalse: "JMPF",
	OpLoop:        "LOOP",
	OpCall:        "CALL",
	OpReturn:      "RET",
	OpClosure:     "CLO",
	OpPuts:        "PUTS",
}

func (op OpCode) String() string {
	if int(op) < len(opcodeNames) && opcodeNames[op] != "" {
		return opcodeNames[op]
	}
	return "UNKNOWN"
}

// operandBytes reports how many fixed operand bytes follow op in the code
// stream, not counting OpClosure's variable-length upvalue descriptor tail
// (handled specially by the disassembler and the compiler).
func operandBytes(op OpCode) int {
	switch op {
	case OpConst, OpDef, OpGLoad, OpGStore, OpLoad, OpStore, OpULoad, OpUStore,
		OpCall, OpPuts, OpClosure:
		return 1
	case OpJump, OpJumpIfFalse, OpLoop:
		return 2
	default:
		return 0
	}
}
