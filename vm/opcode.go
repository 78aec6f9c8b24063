package vm

import "fmt"

type opcode word

// opcodes
const (
	OP_BR opcode = iota
	OP_ADD
	OP_LD
	OP_ST
	OP_JSR
	OP_AND
	OP_LDR
	OP_STR
	OP_RTI
	OP_NOT
	OP_LDI
	OP_STI
	OP_JMP
	OP_RES
	OP_LEA
	OP_TRAP

	opcodeCount
)

var opcodeNames = [opcodeCount]string{
	OP_BR:   "BR",
	OP_ADD:  "ADD",
	OP_LD:   "LD",
	OP_ST:   "ST",
	OP_JSR:  "JSR",
	OP_AND:  "AND",
	OP_LDR:  "LDR",
	OP_STR:  "STR",
	OP_RTI:  "RTI",
	OP_NOT:  "NOT",
	OP_LDI:  "LDI",
	OP_STI:  "STI",
	OP_JMP:  "JMP",
	OP_RES:  "RES",
	OP_LEA:  "LEA",
	OP_TRAP: "TRAP",
}

func (op opcode) String() string {
	if op < opcodeCount {
		return opcodeNames[op]
	}
	return fmt.Sprintf("opcode(%d)", uint16(op))
}

func decodeOpcode(instruction word) opcode {
	return opcode(instruction >> 12)
}

type handler func(cpu *cpu, instruction word) error

// handlers has one entry per 4-bit opcode; the array length makes the
// lookup total, and TestHandlersComplete rejects a missing entry.
var handlers = [opcodeCount]handler{
	OP_BR:   (*cpu).br,
	OP_ADD:  (*cpu).add,
	OP_LD:   (*cpu).ld,
	OP_ST:   (*cpu).st,
	OP_JSR:  (*cpu).jsr,
	OP_AND:  (*cpu).and,
	OP_LDR:  (*cpu).ldr,
	OP_STR:  (*cpu).str,
	OP_RTI:  (*cpu).illegal,
	OP_NOT:  (*cpu).not,
	OP_LDI:  (*cpu).ldi,
	OP_STI:  (*cpu).sti,
	OP_JMP:  (*cpu).jmp,
	OP_RES:  (*cpu).illegal,
	OP_LEA:  (*cpu).lea,
	OP_TRAP: (*cpu).trap,
}
