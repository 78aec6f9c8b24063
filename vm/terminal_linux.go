//go:build linux

package vm

import (
	"log"
	"os"

	"github.com/pkg/term/termios"
	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// Terminal is the host console used as the LC-3 keyboard.
type Terminal struct {
	file                   *os.File
	originalTerminalConfig unix.Termios
	raw                    bool
}

func OpenTerminal(file *os.File) *Terminal {
	return &Terminal{file: file}
}

// EnableRawMode turns off line buffering and echo so single keystrokes
// reach the keyboard device. It does nothing if the file is not a terminal.
func (t *Terminal) EnableRawMode() error {
	if t.raw || !term.IsTerminal(int(t.file.Fd())) {
		return nil
	}
	log.Printf("enabling raw mode...")
	if err := termios.Tcgetattr(t.file.Fd(), &t.originalTerminalConfig); err != nil {
		return err
	}
	newTermios := t.originalTerminalConfig
	newTermios.Lflag &^= unix.ICANON | unix.ECHO
	if err := termios.Tcsetattr(t.file.Fd(), termios.TCSANOW, &newTermios); err != nil {
		return err
	}
	t.raw = true
	return nil
}

// DisableRawMode restores the settings saved by EnableRawMode.
func (t *Terminal) DisableRawMode() error {
	if !t.raw {
		return nil
	}
	log.Printf("disabling raw mode...")
	t.raw = false
	return termios.Tcsetattr(t.file.Fd(), termios.TCSANOW, &t.originalTerminalConfig)
}

// Ready polls the file with a zero timeout.
func (t *Terminal) Ready() bool {
	fd := int(t.file.Fd())

	var readfds unix.FdSet
	readfds.Zero()
	readfds.Set(fd)
	timeout := unix.Timeval{}

	n, err := unix.Select(fd+1, &readfds, nil, nil, &timeout)
	return err == nil && n > 0
}

func (t *Terminal) ReadByte() (byte, error) {
	buf := make([]byte, 1)
	for {
		n, err := t.file.Read(buf)
		if n == 1 {
			return buf[0], nil
		}
		if err != nil {
			return 0, err
		}
	}
}
