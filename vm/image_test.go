package vm

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadImage(t *testing.T) {
	assert := assert.New(t)

	vm := NewVM(nil, nil)
	err := vm.LoadImage(bytes.NewReader(image(0x3000, 0x1234, 0xABCD, 0x0001)))
	assert.NoError(err)

	assert.Equal(word(0x1234), vm.memory.ram[0x3000])
	assert.Equal(word(0xABCD), vm.memory.ram[0x3001])
	assert.Equal(word(0x0001), vm.memory.ram[0x3002])
	assert.Equal(word(0), vm.memory.ram[0x3003])
	assert.Equal(word(0), vm.memory.ram[0x2FFF])
}

func TestLoadImageShort(t *testing.T) {
	for _, data := range [][]byte{nil, {0x30}} {
		vm := NewVM(nil, nil)
		assert.ErrorIs(t, vm.LoadImage(bytes.NewReader(data)), ErrImageShort)
	}

	// An origin alone is a valid, empty image.
	vm := NewVM(nil, nil)
	assert.NoError(t, vm.LoadImage(bytes.NewReader([]byte{0x30, 0x00})))
}

func TestLoadImageOddByte(t *testing.T) {
	vm := NewVM(nil, nil)
	data := append(image(0x4000, 0x1111), 0x22)

	require.NoError(t, vm.LoadImage(bytes.NewReader(data)))
	assert.Equal(t, word(0x1111), vm.memory.ram[0x4000])
	assert.Equal(t, word(0), vm.memory.ram[0x4001])
}

func TestLoadImageEndOfMemory(t *testing.T) {
	vm := NewVM(nil, nil)

	require.NoError(t, vm.LoadImage(bytes.NewReader(image(0xFFFE, 1, 2, 3, 4))))
	assert.Equal(t, word(1), vm.memory.ram[0xFFFE])
	assert.Equal(t, word(2), vm.memory.ram[0xFFFF])
	assert.Equal(t, word(0), vm.memory.ram[0x0000], "loading does not wrap around")
}

func TestLoadImageOverlap(t *testing.T) {
	vm := NewVM(nil, nil)

	require.NoError(t, vm.LoadImage(bytes.NewReader(image(0x3000, 1, 2, 3))))
	require.NoError(t, vm.LoadImage(bytes.NewReader(image(0x3001, 9))))

	assert.Equal(t, []word{1, 9, 3}, vm.memory.ram[0x3000:0x3003])
}

func TestLoadImageFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hello.obj")
	require.NoError(t, os.WriteFile(path, image(0x3000, opTRAP(TRAP_HALT)), 0644))

	vm := NewVM(nil, nil)
	require.NoError(t, vm.LoadImageFile(path))
	assert.Equal(t, opTRAP(TRAP_HALT), vm.memory.ram[0x3000])

	err := vm.LoadImageFile(filepath.Join(dir, "missing.obj"))
	assert.True(t, errors.Is(err, os.ErrNotExist))

	short := filepath.Join(dir, "short.obj")
	require.NoError(t, os.WriteFile(short, []byte{0x30}, 0644))
	err = vm.LoadImageFile(short)
	assert.ErrorIs(t, err, ErrImageShort)
	assert.Contains(t, err.Error(), "short.obj")
}
