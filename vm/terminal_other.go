//go:build !linux

package vm

import (
	goIO "io"
	"log"
	"os"
	"sync"

	"golang.org/x/term"
)

// Terminal is the host console used as the LC-3 keyboard. Without a
// zero-timeout select, a reader goroutine feeds keyBuffer and Ready
// reports whether a key is queued.
type Terminal struct {
	file      *os.File
	oldState  *term.State
	keyBuffer chan byte
	start     sync.Once
}

func OpenTerminal(file *os.File) *Terminal {
	return &Terminal{
		file:      file,
		keyBuffer: make(chan byte, 16),
	}
}

// EnableRawMode turns off line buffering and echo so single keystrokes
// reach the keyboard device. It does nothing if the file is not a terminal.
func (t *Terminal) EnableRawMode() error {
	fd := int(t.file.Fd())
	if t.oldState != nil || !term.IsTerminal(fd) {
		return nil
	}
	log.Printf("enabling raw mode...")
	state, err := term.MakeRaw(fd)
	if err != nil {
		return err
	}
	t.oldState = state
	return nil
}

// DisableRawMode restores the settings saved by EnableRawMode.
func (t *Terminal) DisableRawMode() error {
	if t.oldState == nil {
		return nil
	}
	log.Printf("disabling raw mode...")
	state := t.oldState
	t.oldState = nil
	return term.Restore(int(t.file.Fd()), state)
}

func (t *Terminal) pollKeyboard() {
	defer close(t.keyBuffer)
	buf := make([]byte, 1)
	for {
		n, err := t.file.Read(buf)
		if n == 1 {
			t.keyBuffer <- buf[0]
		}
		if err != nil {
			return
		}
	}
}

func (t *Terminal) Ready() bool {
	t.start.Do(func() { go t.pollKeyboard() })
	return len(t.keyBuffer) > 0
}

func (t *Terminal) ReadByte() (byte, error) {
	t.start.Do(func() { go t.pollKeyboard() })
	c, ok := <-t.keyBuffer
	if !ok {
		return 0, goIO.EOF
	}
	return c, nil
}
