package vm

import (
	"context"
	"errors"
	goIO "io"
	"log"
)

type state int

const (
	stateRunning state = iota
	stateHalted
)

// VM is an LC-3 machine: memory, CPU, and the attached devices.
type VM struct {
	Verbose   bool        // If set, every executed instruction is logged.
	Canonical bool        // If set, NOT/LD/LDR update flags and JSR/JSRR link R7.
	Logger    *log.Logger // Destination for the instruction trace.

	memory *memory
	cpu    *cpu
	state  state
}

// NewVM creates a machine wired to keyboard and display, with the PC at
// the start of user space. Either device may be nil.
func NewVM(keyboard Keyboard, display Display) *VM {
	if keyboard == nil {
		keyboard = noKeyboard{}
	}
	if display == nil {
		display = discardDisplay()
	}
	mem := newMemory(keyboard)
	return &VM{
		Logger: log.New(goIO.Discard, "", 0),
		memory: mem,
		cpu:    newCpu(mem, display),
	}
}

// Halted reports whether the machine has stopped, by HALT or by a fault.
func (vm *VM) Halted() bool {
	return vm.state == stateHalted
}

// Step executes a single instruction.
func (vm *VM) Step() (err error) {
	if vm.state == stateHalted {
		return ErrHalted
	}

	vm.cpu.verbose = vm.Verbose
	vm.cpu.canonical = vm.Canonical
	vm.cpu.log = vm.Logger

	pc := vm.cpu.internalRegisters.pc
	instruction := vm.memory.ram[pc]

	err = vm.cpu.step()
	if errors.Is(err, errHalt) {
		vm.state = stateHalted
		return nil
	}
	if err != nil {
		vm.state = stateHalted
		return &ErrFault{PC: uint16(pc), Instruction: uint16(instruction), Err: err}
	}
	return nil
}

// Run steps the machine until it halts, faults, or ctx is done.
func (vm *VM) Run(ctx context.Context) error {
	for vm.state == stateRunning {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := vm.Step(); err != nil {
			return err
		}
	}
	return nil
}
