package compiler

import (
	"fmt"
	"io"
	"strings"
)

// Disassembler renders a Chunk's byte stream as human-readable text, one
// instruction per line, advancing by each opcode's actual operand width
// rather than a fixed instruction size — unlike a word-packed bytecode
// format, the width here varies per opcode and, for CLO, per function.
type Disassembler struct {
	w     io.Writer
	chunk *Chunk
	name  string
}

// NewDisassembler returns a Disassembler that writes chunk's instructions,
// labeled name, to w.
func NewDisassembler(w io.Writer, chunk *Chunk, name string) *Disassembler {
	return &Disassembler{w: w, chunk: chunk, name: name}
}

// Disassemble writes a header followed by every instruction in the chunk.
func (d *Disassembler) Disassemble() {
	fmt.Fprintf(d.w, "== %s ==\n", d.name)
	for offset := 0; offset < len(d.chunk.Code); {
		offset = d.Instruction(offset)
	}
}

// Instruction writes the instruction at offset and returns the offset of
// the next one.
func (d *Disassembler) Instruction(offset int) int {
	op := OpCode(d.chunk.Code[offset])
	line := d.chunk.GetLine(offset)
	col := d.chunk.GetCol(offset)
	fmt.Fprintf(d.w, "%04d %4d:%-3d %-6s", offset, line, col, op)

	if op == OpClosure {
		return d.closureOperand(offset)
	}

	switch operandBytes(op) {
	case 0:
		fmt.Fprintln(d.w)
		return offset + 1
	case 1:
		operand := d.chunk.Code[offset+1]
		fmt.Fprintf(d.w, " %d\n", operand)
		return offset + 2
	case 2:
		hi, lo := d.chunk.Code[offset+1], d.chunk.Code[offset+2]
		fmt.Fprintf(d.w, " +%d\n", int(hi)<<8|int(lo))
		return offset + 3
	default:
		fmt.Fprintln(d.w)
		return offset + 1
	}
}

// closureOperand prints CLO's constant index followed by its
// (isLocal,index) descriptor pairs, whose count comes from the target
// function's own recorded upvalue count.
func (d *Disassembler) closureOperand(offset int) int {
	constIdx := d.chunk.Code[offset+1]
	fmt.Fprintf(d.w, " %d", constIdx)

	next := offset + 2
	if fn, ok := d.chunk.Constants[constIdx].(*Function); ok {
		for i := 0; i < fn.UpvalueCount; i++ {
			isLocal, index := d.chunk.Code[next], d.chunk.Code[next+1]
			fmt.Fprintf(d.w, " (%d,%d)", isLocal, index)
			next += 2
		}
	}
	fmt.Fprintln(d.w)
	return next
}

// Disassemble is a convenience wrapper returning the rendered text of chunk
// as a string, for snapshot tests and the CLI's `compile` subcommand.
func Disassemble(chunk *Chunk, name string) string {
	var b strings.Builder
	NewDisassembler(&b, chunk, name).Disassemble()
	return b.String()
}
