package vm

import (
	"errors"
	"fmt"
	goIO "io"
)

const (
	TRAP_GETC  word = 0x20 /* get character from keyboard, not echoed onto the terminal */
	TRAP_OUT   word = 0x21 /* output a character */
	TRAP_PUTS  word = 0x22 /* output a word string */
	TRAP_IN    word = 0x23 /* get character from keyboard, echoed onto the terminal */
	TRAP_PUTSP word = 0x24 /* output a byte string */
	TRAP_HALT  word = 0x25 /* halt the program */
)

const inPrompt = "Enter a character: "

// errHalt is returned by the HALT routine to stop the machine.
var errHalt = errors.New("halt")

func (cpu *cpu) trap(instruction word) error {
	vector := trapVector(instruction)
	cpu.tracef("TRAP: 0x%02x", vector)

	switch vector {
	case TRAP_GETC:
		c, err := cpu.getc()
		if err != nil {
			return err
		}
		cpu.generalPurposeRegisters[R0] = c

	case TRAP_OUT:
		if err := cpu.out(byte(cpu.generalPurposeRegisters[R0])); err != nil {
			return err
		}
		return cpu.flush()

	case TRAP_PUTS:
		for addr := cpu.generalPurposeRegisters[R0]; cpu.memory.ram[addr] != 0; addr++ {
			if err := cpu.out(byte(cpu.memory.ram[addr])); err != nil {
				return err
			}
		}
		return cpu.flush()

	case TRAP_IN:
		if _, err := goIO.WriteString(cpu.display, inPrompt); err != nil {
			return fmt.Errorf("display: %w", err)
		}
		c, err := cpu.getc()
		if err != nil {
			return err
		}
		cpu.generalPurposeRegisters[R0] = c
		if err := cpu.out(byte(c)); err != nil {
			return err
		}
		return cpu.flush()

	case TRAP_PUTSP:
		for addr := cpu.generalPurposeRegisters[R0]; cpu.memory.ram[addr] != 0; addr++ {
			w := cpu.memory.ram[addr]
			if err := cpu.out(byte(w)); err != nil {
				return err
			}
			if w>>8 == 0 {
				break
			}
			if err := cpu.out(byte(w >> 8)); err != nil {
				return err
			}
		}
		return cpu.flush()

	case TRAP_HALT:
		if _, err := goIO.WriteString(cpu.display, "HALT\n"); err != nil {
			return fmt.Errorf("display: %w", err)
		}
		if err := cpu.flush(); err != nil {
			return err
		}
		return errHalt

	default:
		return fmt.Errorf("%w 0x%02x", ErrUnknownTrap, vector)
	}

	return nil
}

// getc blocks for one character. End of input reads as 0xFFFF.
func (cpu *cpu) getc() (word, error) {
	if err := cpu.flush(); err != nil {
		return 0, err
	}
	c, err := cpu.memory.keyboard.ReadByte()
	if errors.Is(err, goIO.EOF) {
		return 0xFFFF, nil
	}
	if err != nil {
		return 0, fmt.Errorf("keyboard: %w", err)
	}
	return word(c), nil
}

func (cpu *cpu) out(c byte) error {
	if _, err := cpu.display.Write([]byte{c}); err != nil {
		return fmt.Errorf("display: %w", err)
	}
	return nil
}

func (cpu *cpu) flush() error {
	if err := cpu.display.Flush(); err != nil {
		return fmt.Errorf("display: %w", err)
	}
	return nil
}
