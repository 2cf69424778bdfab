package sim

import (
	"debug/elf"
	"fmt"
)

// LoadELF maps the PT_LOAD segments of a 32-bit RISC-V executable into RAM at
// their physical addresses and returns the entry point.
func LoadELF(path string, ram *RAM) (entry uint32, err error) {
	f, err := elf.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	if f.Class != elf.ELFCLASS32 || f.Machine != elf.EM_RISCV {
		return 0, fmt.Errorf("%s: not an RV32 executable (%v, %v)", path, f.Class, f.Machine)
	}

	for _, ph := range f.Progs {
		if ph.Type != elf.PT_LOAD || ph.Memsz == 0 {
			continue
		}
		// .bss tail stays zero
		buf := make([]byte, ph.Memsz)
		if ph.Filesz > 0 {
			if _, err := ph.ReadAt(buf[:ph.Filesz], 0); err != nil {
				return 0, fmt.Errorf("read segment: %w", err)
			}
		}
		addr := uint32(ph.Paddr)
		if err := ram.WriteBytes(addr, buf); err != nil {
			return 0, fmt.Errorf("map segment @0x%x: %w", addr, err)
		}
	}

	return uint32(f.Entry), nil
}
