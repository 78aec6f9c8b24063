package vm

const MemorySize = 1 << 16

const (
	TrapVectorTableStart       = 0x0000
	InterruptVectorTableStart  = 0x0100
	SystemSpaceStart           = 0x0200
	UserSpaceStart             = 0x3000
	MemoryMappedRegistersStart = 0xFE00
)

// memory mapped register addresses
const (
	KBSR word = MemoryMappedRegistersStart          /* keyboard status register */
	KBDR word = MemoryMappedRegistersStart + 0x0002 /* keyboard data register */
)

const keyboardReady word = 1 << 15

type memory struct {
	ram      [MemorySize]word
	keyboard Keyboard
}

// read returns the word stored at addr. Reading KBSR polls the keyboard
// first, without blocking, and refreshes both KBSR and KBDR.
func (mem *memory) read(addr word) word {
	if addr == KBSR {
		mem.pollKeyboard()
	}
	return mem.ram[addr]
}

// write stores value at addr, device registers included.
func (mem *memory) write(addr, value word) {
	mem.ram[addr] = value
}

func (mem *memory) pollKeyboard() {
	if mem.keyboard.Ready() {
		if c, err := mem.keyboard.ReadByte(); err == nil {
			mem.ram[KBSR] = keyboardReady
			mem.ram[KBDR] = word(c)
			return
		}
	}
	mem.ram[KBSR] = 0
}

func newMemory(keyboard Keyboard) *memory {
	return &memory{keyboard: keyboard}
}
