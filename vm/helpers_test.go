package vm

import (
	"bytes"
	"strings"
	"testing"
)

// bufferDisplay is a display whose writes are visible without a flush.
type bufferDisplay struct {
	bytes.Buffer
	flushes int
}

func (d *bufferDisplay) Flush() error {
	d.flushes++
	return nil
}

// instruction encoders
func opADDi(dr, sr1 word, imm5 int) word {
	return 0x1000 | dr<<9 | sr1<<6 | 1<<5 | word(imm5)&0x1F
}
func opADD(dr, sr1, sr2 word) word { return 0x1000 | dr<<9 | sr1<<6 | sr2 }
func opANDi(dr, sr1 word, imm5 int) word {
	return 0x5000 | dr<<9 | sr1<<6 | 1<<5 | word(imm5)&0x1F
}
func opAND(dr, sr1, sr2 word) word       { return 0x5000 | dr<<9 | sr1<<6 | sr2 }
func opNOT(dr, sr word) word             { return 0x9000 | dr<<9 | sr<<6 | 0x3F }
func opBR(nzp word, off9 int) word       { return nzp<<9 | word(off9)&0x1FF }
func opJMP(base word) word               { return 0xC000 | base<<6 }
func opJSR(off11 int) word               { return 0x4800 | word(off11)&0x7FF }
func opJSRR(base word) word              { return 0x4000 | base<<6 }
func opLD(dr word, off9 int) word        { return 0x2000 | dr<<9 | word(off9)&0x1FF }
func opLDI(dr word, off9 int) word       { return 0xA000 | dr<<9 | word(off9)&0x1FF }
func opLDR(dr, base word, off6 int) word { return 0x6000 | dr<<9 | base<<6 | word(off6)&0x3F }
func opLEA(dr word, off9 int) word       { return 0xE000 | dr<<9 | word(off9)&0x1FF }
func opST(sr word, off9 int) word        { return 0x3000 | sr<<9 | word(off9)&0x1FF }
func opSTI(sr word, off9 int) word       { return 0xB000 | sr<<9 | word(off9)&0x1FF }
func opSTR(sr, base word, off6 int) word { return 0x7000 | sr<<9 | base<<6 | word(off6)&0x3F }
func opTRAP(vector word) word            { return 0xF000 | vector }

// newTestVM loads program at UserSpaceStart, with input as the keyboard.
func newTestVM(t *testing.T, input string, program ...word) (*VM, *bufferDisplay) {
	t.Helper()

	display := &bufferDisplay{}
	vm := NewVM(NewReaderKeyboard(strings.NewReader(input)), display)
	for i, instruction := range program {
		vm.memory.ram[UserSpaceStart+i] = instruction
	}
	return vm, display
}

// image encodes words as a program image starting at origin.
func image(origin word, words ...word) []byte {
	buf := []byte{byte(origin >> 8), byte(origin)}
	for _, w := range words {
		buf = append(buf, byte(w>>8), byte(w))
	}
	return buf
}

func (vm *VM) reg(r word) word {
	return vm.cpu.generalPurposeRegisters[r]
}

func (vm *VM) setReg(r, value word) {
	vm.cpu.generalPurposeRegisters[r] = value
}

func (vm *VM) pc() word {
	return vm.cpu.internalRegisters.pc
}

func (vm *VM) cond() cpuFlag {
	return vm.cpu.internalRegisters.cond
}
