// Package image assembles the hello-world firmware as RV32I machine code for
// a board, so it can run on the simulator or be burned into a bitstream.
//
// Layout, relative to the reset address:
//
//	0x00            j start
//	fault_vector:   j .          (only when the board has one)
//	start:          a0 = uart_tx; a1 = msg; a2 = msg end
//	loop:           beq a1, a2, halt; lbu t0, 0(a1); sb t0, 0(a0); a1++; j loop
//	halt:           j .
//	msg:            greeting bytes
package image

import (
	"fmt"

	"picorv/asm"
	"picorv/board"
	"picorv/firmware"
)

// Hello returns the image that sends firmware.Greeting on p.
func Hello(p board.Profile) ([]byte, error) {
	return Build(p, firmware.Greeting)
}

// Build returns an image that writes greeting to the UART of p, one store
// per byte, and then spins in place.
func Build(p board.Profile, greeting string) ([]byte, error) {
	prog := asm.NewProgram()

	prog.Jump(asm.Zero, "start")
	if fv := p.FaultVector; fv != nil {
		if *fv < p.ResetPC+4 {
			return nil, fmt.Errorf("fault vector 0x%08x overlaps the reset jump at 0x%08x", *fv, p.ResetPC)
		}
		prog.Org(*fv - p.ResetPC)
		prog.Label("fault")
		prog.Jump(asm.Zero, "fault")
	}

	prog.Label("start")
	prog.LI(asm.A0, p.UARTTx)
	prog.LA(asm.A1, "msg")
	prog.LA(asm.A2, "msg_end")

	prog.Label("loop")
	prog.BEQ(asm.A1, asm.A2, "halt")
	prog.Emit(
		asm.LBU(asm.T0, asm.A1, 0),
		asm.SB(asm.T0, asm.A0, 0),
		asm.ADDI(asm.A1, asm.A1, 1),
	)
	prog.Jump(asm.Zero, "loop")

	prog.Label("halt")
	prog.Jump(asm.Zero, "halt")

	prog.Data("msg", []byte(greeting))
	prog.DataEnd("msg_end")

	img, err := prog.Assemble()
	if err != nil {
		return nil, fmt.Errorf("assemble for %s: %w", p.Name, err)
	}
	if uint64(p.ResetPC)+uint64(len(img)) > uint64(p.RAMBase)+uint64(p.RAMSize) {
		return nil, fmt.Errorf("image of %d bytes does not fit %s RAM", len(img), p.Name)
	}
	return img, nil
}
