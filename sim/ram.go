package sim

import (
	"fmt"
	"os"
)

// RAM is a flat little-endian memory starting at base.
type RAM struct {
	base uint32
	mem  []byte
}

func NewRAM(base uint32, size uint64) *RAM {
	return &RAM{base: base, mem: make([]byte, size)}
}

func (r *RAM) Base() uint32 { return r.base }
func (r *RAM) Size() uint64 { return uint64(len(r.mem)) }

func (r *RAM) offset(addr uint32, n uint64) (uint64, bool) {
	if addr < r.base {
		return 0, false
	}
	off := uint64(addr - r.base)
	if off+n > uint64(len(r.mem)) {
		return 0, false
	}
	return off, true
}

func (r *RAM) Contains(addr uint32) bool {
	_, ok := r.offset(addr, 1)
	return ok
}

func (r *RAM) Read8(addr uint32) (uint8, bool) {
	off, ok := r.offset(addr, 1)
	if !ok {
		return 0, false
	}
	return r.mem[off], true
}

func (r *RAM) Write8(addr uint32, v uint8) bool {
	off, ok := r.offset(addr, 1)
	if !ok {
		return false
	}
	r.mem[off] = v
	return true
}

// WriteBytes copies b into memory at addr.
func (r *RAM) WriteBytes(addr uint32, b []byte) error {
	off, ok := r.offset(addr, uint64(len(b)))
	if !ok {
		return fmt.Errorf("%d bytes at 0x%08x: %w", len(b), addr, ErrUnmapped)
	}
	copy(r.mem[off:], b)
	return nil
}

// LoadFlat copies a raw binary file into memory at addr.
func (r *RAM) LoadFlat(path string, addr uint32) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return r.WriteBytes(addr, b)
}
