package vm

import (
	"encoding/binary"
	"fmt"
	goIO "io"
	"os"
)

// LoadImage copies a program image into memory. The image is a big-endian
// origin address followed by big-endian words, stored from the origin up
// to the end of memory. Overlapping loads overwrite earlier ones.
func (vm *VM) LoadImage(r goIO.Reader) error {
	file, err := goIO.ReadAll(r)
	if err != nil {
		return err
	}
	if len(file) < 2 {
		return ErrImageShort
	}

	/* origin tells us where in memory to place the image; words keep the
	lc3 byte order (big endian) regardless of the host */
	origin := int(binary.BigEndian.Uint16(file))
	maxRead := MemorySize - origin

	words := file[2:]
	count := min(len(words)/2, maxRead)
	for i := 0; i < count; i++ {
		vm.memory.ram[origin+i] = word(binary.BigEndian.Uint16(words[2*i:]))
	}

	if vm.Logger != nil {
		vm.Logger.Printf("loaded %d words at 0x%04x (%0.2f KB)", count, origin, float32(len(file))/1024)
	}
	return nil
}

// LoadImageFile loads the program image stored at path.
func (vm *VM) LoadImageFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := vm.LoadImage(file); err != nil {
		return fmt.Errorf("%v: %w", path, err)
	}
	return nil
}
