package vm

import (
	"bufio"
	goIO "io"
)

// Keyboard is the input device behind KBSR/KBDR and the GETC/IN traps.
type Keyboard interface {
	// Ready reports, without blocking, whether ReadByte has a character.
	Ready() bool
	ReadByte() (byte, error)
}

// Display is the output device behind the OUT/PUTS/PUTSP/HALT traps.
type Display interface {
	goIO.Writer
	Flush() error
}

type readerKeyboard struct {
	reader *bufio.Reader
}

// NewReaderKeyboard returns a keyboard fed from a non-interactive stream
// such as a file or a buffer. Ready peeks at the stream, so r must not
// block waiting for data that may never arrive.
func NewReaderKeyboard(r goIO.Reader) Keyboard {
	return &readerKeyboard{reader: bufio.NewReader(r)}
}

func (k *readerKeyboard) Ready() bool {
	_, err := k.reader.Peek(1)
	return err == nil
}

func (k *readerKeyboard) ReadByte() (byte, error) {
	return k.reader.ReadByte()
}

type noKeyboard struct{}

func (noKeyboard) Ready() bool             { return false }
func (noKeyboard) ReadByte() (byte, error) { return 0, goIO.EOF }

func discardDisplay() Display {
	return bufio.NewWriter(goIO.Discard)
}
