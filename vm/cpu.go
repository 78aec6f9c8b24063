package vm

import (
	"log"
)

type word uint16

type cpuFlag uint16

// general purpose registers
const (
	R0 = 0b000
	R1 = 0b001
	R2 = 0b010
	R3 = 0b011
	R4 = 0b100
	R5 = 0b101
	R6 = 0b110
	R7 = 0b111
)

// flags
const (
	FLAG_POS cpuFlag = 0b001
	FLAG_ZRO cpuFlag = 0b010
	FLAG_NEG cpuFlag = 0b100
)

func (flag cpuFlag) String() string {
	switch flag {
	case FLAG_POS:
		return "P"
	case FLAG_ZRO:
		return "Z"
	case FLAG_NEG:
		return "N"
	}
	return "?"
}

type cpu struct {
	memory            *memory
	display           Display
	internalRegisters struct {
		pc   word
		cond cpuFlag
	}
	generalPurposeRegisters [8]word

	canonical bool
	verbose   bool
	log       *log.Logger
}

func newCpu(memory *memory, display Display) *cpu {
	cpu := &cpu{
		memory:  memory,
		display: display,
	}
	cpu.internalRegisters.pc = UserSpaceStart
	cpu.internalRegisters.cond = FLAG_ZRO
	return cpu
}

// step runs one fetch-decode-execute cycle. The PC is incremented before
// the instruction executes, so PC-relative offsets are taken from the
// following word.
func (cpu *cpu) step() error {
	instruction := cpu.memory.read(cpu.internalRegisters.pc)
	cpu.internalRegisters.pc++
	return handlers[decodeOpcode(instruction)](cpu, instruction)
}

func (cpu *cpu) tracef(format string, args ...any) {
	if cpu.verbose && cpu.log != nil {
		cpu.log.Printf("0x%04x "+format, append([]any{cpu.internalRegisters.pc}, args...)...)
	}
}

// instruction fields
func fieldDR(instruction word) word    { return (instruction >> 9) & 0b111 }
func fieldSR1(instruction word) word   { return (instruction >> 6) & 0b111 }
func fieldSR2(instruction word) word   { return instruction & 0b111 }
func fieldImm(instruction word) bool   { return (instruction>>5)&0b1 == 1 }
func offset6(instruction word) word    { return sext(instruction&0x3F, 6) }
func offset9(instruction word) word    { return sext(instruction&0x1FF, 9) }
func offset11(instruction word) word   { return sext(instruction&0x7FF, 11) }
func trapVector(instruction word) word { return instruction & 0xFF }

func (cpu *cpu) add(instruction word) error {
	dr := fieldDR(instruction)
	sr1 := fieldSR1(instruction)

	if fieldImm(instruction) {
		imm5 := instruction & 0x1F
		cpu.tracef("ADD: dr=%03b sr1=%03b imm5=0x%02x", dr, sr1, imm5)
		cpu.generalPurposeRegisters[dr] = cpu.generalPurposeRegisters[sr1] + sext(imm5, 5)
	} else {
		sr2 := fieldSR2(instruction)
		cpu.tracef("ADD: dr=%03b sr1=%03b sr2=%03b", dr, sr1, sr2)
		cpu.generalPurposeRegisters[dr] = cpu.generalPurposeRegisters[sr1] + cpu.generalPurposeRegisters[sr2]
	}

	cpu.updateFlags(dr)
	return nil
}

func (cpu *cpu) and(instruction word) error {
	dr := fieldDR(instruction)
	sr1 := fieldSR1(instruction)

	if fieldImm(instruction) {
		imm5 := instruction & 0x1F
		cpu.tracef("AND: dr=%03b sr1=%03b imm5=0x%02x", dr, sr1, imm5)
		cpu.generalPurposeRegisters[dr] = cpu.generalPurposeRegisters[sr1] & sext(imm5, 5)
	} else {
		sr2 := fieldSR2(instruction)
		cpu.tracef("AND: dr=%03b sr1=%03b sr2=%03b", dr, sr1, sr2)
		cpu.generalPurposeRegisters[dr] = cpu.generalPurposeRegisters[sr1] & cpu.generalPurposeRegisters[sr2]
	}

	cpu.updateFlags(dr)
	return nil
}

func (cpu *cpu) not(instruction word) error {
	dr := fieldDR(instruction)
	sr := fieldSR1(instruction)

	cpu.tracef("NOT: dr=%03b sr=%03b", dr, sr)

	cpu.generalPurposeRegisters[dr] = ^cpu.generalPurposeRegisters[sr]
	if cpu.canonical {
		cpu.updateFlags(dr)
	}
	return nil
}

func (cpu *cpu) br(instruction word) error {
	nzp := fieldDR(instruction)

	cpu.tracef("BR: nzp=%03b pcoffset9=0x%03x", nzp, instruction&0x1FF)

	if nzp&word(cpu.internalRegisters.cond) != 0 {
		cpu.internalRegisters.pc += offset9(instruction)
	}
	return nil
}

func (cpu *cpu) jmp(instruction word) error {
	br := fieldSR1(instruction)

	cpu.tracef("JMP: br=%03b", br)

	cpu.internalRegisters.pc = cpu.generalPurposeRegisters[br]
	return nil
}

func (cpu *cpu) jsr(instruction word) error {
	link := cpu.internalRegisters.pc

	if (instruction>>11)&0b1 == 1 {
		cpu.tracef("JSR: pcoffset11=0x%03x", instruction&0x7FF)
		cpu.internalRegisters.pc += offset11(instruction)
	} else {
		br := fieldSR1(instruction)
		cpu.tracef("JSRR: br=%03b", br)
		cpu.internalRegisters.pc = cpu.generalPurposeRegisters[br]
	}

	if cpu.canonical {
		cpu.generalPurposeRegisters[R7] = link
	}
	return nil
}

func (cpu *cpu) ld(instruction word) error {
	dr := fieldDR(instruction)

	cpu.tracef("LD: dr=%03b pcoffset9=0x%03x", dr, instruction&0x1FF)

	cpu.generalPurposeRegisters[dr] = cpu.memory.read(cpu.internalRegisters.pc + offset9(instruction))
	if cpu.canonical {
		cpu.updateFlags(dr)
	}
	return nil
}

func (cpu *cpu) ldi(instruction word) error {
	dr := fieldDR(instruction)

	cpu.tracef("LDI: dr=%03b pcoffset9=0x%03x", dr, instruction&0x1FF)

	cpu.generalPurposeRegisters[dr] = cpu.memory.read(cpu.memory.read(cpu.internalRegisters.pc + offset9(instruction)))
	cpu.updateFlags(dr)
	return nil
}

func (cpu *cpu) ldr(instruction word) error {
	dr := fieldDR(instruction)
	br := fieldSR1(instruction)

	cpu.tracef("LDR: dr=%03b br=%03b pcoffset6=0x%02x", dr, br, instruction&0x3F)

	cpu.generalPurposeRegisters[dr] = cpu.memory.read(cpu.generalPurposeRegisters[br] + offset6(instruction))
	if cpu.canonical {
		cpu.updateFlags(dr)
	}
	return nil
}

func (cpu *cpu) lea(instruction word) error {
	dr := fieldDR(instruction)

	cpu.tracef("LEA: dr=%03b pcoffset9=0x%03x", dr, instruction&0x1FF)

	cpu.generalPurposeRegisters[dr] = cpu.internalRegisters.pc + offset9(instruction)
	cpu.updateFlags(dr)
	return nil
}

func (cpu *cpu) st(instruction word) error {
	sr := fieldDR(instruction)

	cpu.tracef("ST: sr=%03b pcoffset9=0x%03x", sr, instruction&0x1FF)

	cpu.memory.write(cpu.internalRegisters.pc+offset9(instruction), cpu.generalPurposeRegisters[sr])
	return nil
}

func (cpu *cpu) sti(instruction word) error {
	sr := fieldDR(instruction)

	cpu.tracef("STI: sr=%03b pcoffset9=0x%03x", sr, instruction&0x1FF)

	cpu.memory.write(cpu.memory.read(cpu.internalRegisters.pc+offset9(instruction)), cpu.generalPurposeRegisters[sr])
	return nil
}

func (cpu *cpu) str(instruction word) error {
	sr := fieldDR(instruction)
	br := fieldSR1(instruction)

	cpu.tracef("STR: sr=%03b br=%03b pcoffset6=0x%02x", sr, br, instruction&0x3F)

	cpu.memory.write(cpu.generalPurposeRegisters[br]+offset6(instruction), cpu.generalPurposeRegisters[sr])
	return nil
}

// illegal handles RTI and the reserved opcode.
func (cpu *cpu) illegal(instruction word) error {
	cpu.tracef("%v: unimplemented opcode", decodeOpcode(instruction))
	return ErrIllegalOpcode
}

func (cpu *cpu) updateFlags(r word) {
	if cpu.generalPurposeRegisters[r] == 0 {
		cpu.internalRegisters.cond = FLAG_ZRO
	} else if cpu.generalPurposeRegisters[r]>>15 != 0 {
		cpu.internalRegisters.cond = FLAG_NEG
	} else {
		cpu.internalRegisters.cond = FLAG_POS
	}
}

// sext sign extends the low bitCount bits of x to 16 bits.
func sext(x word, bitCount uint) word {
	if ((x >> (bitCount - 1)) & 0b1) != 0 {
		x |= 0xFFFF << bitCount
	}
	return x
}
