package sim

import (
	"context"
	"fmt"
	"io"

	"picorv/board"
)

// Machine is a PicoRV32 SoC wired from a board profile.
type Machine struct {
	Profile board.Profile
	RAM     *RAM
	UART    *UART
	Bus     *Bus
	CPU     *CPU
}

// NewMachine builds the SoC described by p. UART output is copied to out,
// which may be nil.
func NewMachine(p board.Profile, out io.Writer) (*Machine, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	m := &Machine{
		Profile: p,
		RAM:     NewRAM(p.RAMBase, uint64(p.RAMSize)),
		UART:    NewUART(p.UARTTx, out),
	}
	m.Bus = NewBus(m.RAM, m.UART)
	m.CPU = NewCPU(m.Bus)
	m.CPU.PC = p.ResetPC
	if p.FaultVector != nil {
		fv := *p.FaultVector
		m.CPU.FaultVector = &fv
	}
	return m, nil
}

// LoadImage copies a flat image to the reset address.
func (m *Machine) LoadImage(img []byte) error {
	if err := m.RAM.WriteBytes(m.Profile.ResetPC, img); err != nil {
		return fmt.Errorf("load image: %w", err)
	}
	return nil
}

// LoadELF loads an executable and points the core at its entry.
func (m *Machine) LoadELF(path string) error {
	entry, err := LoadELF(path, m.RAM)
	if err != nil {
		return err
	}
	m.CPU.PC = entry
	return nil
}

func (m *Machine) Run(ctx context.Context, maxSteps int) (Result, error) {
	return m.CPU.Run(ctx, maxSteps)
}
