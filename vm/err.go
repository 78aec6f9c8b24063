package vm

import (
	"errors"
	"fmt"
)

var (
	ErrHalted        = errors.New("machine halted")
	ErrIllegalOpcode = errors.New("illegal opcode")
	ErrUnknownTrap   = errors.New("unknown trap vector")
	ErrImageShort    = errors.New("image too short")
)

// ErrFault is returned when an instruction cannot be executed. The
// machine is halted afterwards.
type ErrFault struct {
	PC          uint16 // Address of the faulting instruction.
	Instruction uint16
	Err         error
}

func (err *ErrFault) Error() string {
	return fmt.Sprintf("fault at 0x%04x (0x%04x %v): %v", err.PC, err.Instruction, decodeOpcode(word(err.Instruction)), err.Err)
}

func (err *ErrFault) Unwrap() error {
	return err.Err
}
