package sim

import (
	"context"
	"fmt"
	"log"
)

// RV32I base integer set as PicoRV32 implements it. ECALL, EBREAK, illegal
// instructions and bus errors raise a trap.

// Trap describes an exception taken by the core.
type Trap struct {
	PC    uint32
	Inst  uint32
	Cause string
	Addr  uint32 // faulting data address for load/store traps
}

func (t *Trap) Error() string {
	switch t.Cause {
	case CauseLoad, CauseStore, CauseFetch:
		return fmt.Sprintf("trap: %s at pc=%08x addr=%08x", t.Cause, t.PC, t.Addr)
	}
	return fmt.Sprintf("trap: %s at pc=%08x inst=%08x", t.Cause, t.PC, t.Inst)
}

const (
	CauseFetch   = "fetch fault"
	CauseLoad    = "load fault"
	CauseStore   = "store fault"
	CauseIllegal = "illegal instruction"
	CauseECALL   = "ecall"
	CauseEBREAK  = "ebreak"
)

type CPU struct {
	Reg [32]uint32
	PC  uint32
	Bus *Bus

	// FaultVector, when set, is where traps go instead of stopping the
	// core (PicoRV32 built with ENABLE_IRQ and the CATCH_* options).
	FaultVector *uint32
	// Traps taken through FaultVector, oldest first.
	Traps  []*Trap
	inTrap bool

	// Halted is set once the core branches to itself; nothing can change
	// from there on.
	Halted bool

	// Trace, when set, logs every executed instruction.
	Trace *log.Logger
}

func NewCPU(bus *Bus) *CPU { return &CPU{Bus: bus} }

func (c *CPU) readReg(i uint32) uint32 {
	if i == 0 {
		return 0
	}
	return c.Reg[i]
}

func (c *CPU) writeReg(i uint32, v uint32) {
	if i != 0 {
		c.Reg[i] = v
	}
}

func (c *CPU) fetch() (uint32, bool) {
	if c.PC%4 != 0 {
		return 0, false
	}
	return c.Bus.Read32(c.PC)
}

// Step executes one instruction. A trap is returned as *Trap unless a fault
// vector is installed, in which case execution continues there.
func (c *CPU) Step() error {
	if c.Halted {
		return nil
	}
	trap := c.step()
	if trap == nil {
		return nil
	}
	// There is no return-from-trap, so once the handler is entered a second
	// trap is nested and stops the core, as PicoRV32 does.
	if c.FaultVector == nil || c.inTrap {
		return trap
	}
	c.inTrap = true
	c.Traps = append(c.Traps, trap)
	c.PC = *c.FaultVector
	return nil
}

func (c *CPU) step() *Trap {
	inst, ok := c.fetch()
	if !ok {
		return &Trap{PC: c.PC, Cause: CauseFetch, Addr: c.PC}
	}
	d := decode(inst)
	op, rd, f3, rs1, rs2, f7 := d.op, d.rd, d.f3, d.rs1, d.rs2, d.f7

	nextPC := c.PC + 4
	illegal := func() *Trap { return &Trap{PC: c.PC, Inst: inst, Cause: CauseIllegal} }

	if c.Trace != nil {
		c.Trace.Printf("pc=%08x inst=%08x", c.PC, inst)
	}

	switch op {
	case 0x37: // LUI
		c.writeReg(rd, uint32(immU(inst)))
	case 0x17: // AUIPC
		c.writeReg(rd, uint32(int32(c.PC)+immU(inst)))
	case 0x6F: // JAL
		imm := uint32(immJ(inst))
		c.writeReg(rd, c.PC+4)
		nextPC = c.PC + imm
	case 0x67: // JALR
		if f3 != 0 {
			return illegal()
		}
		imm := uint32(immI(inst))
		tgt := (c.readReg(rs1) + imm) &^ 1
		c.writeReg(rd, c.PC+4)
		nextPC = tgt

	case 0x63: // BRANCH
		a := c.readReg(rs1)
		b := c.readReg(rs2)
		var taken bool
		switch f3 {
		case 0x0: // BEQ
			taken = a == b
		case 0x1: // BNE
			taken = a != b
		case 0x4: // BLT
			taken = int32(a) < int32(b)
		case 0x5: // BGE
			taken = int32(a) >= int32(b)
		case 0x6: // BLTU
			taken = a < b
		case 0x7: // BGEU
			taken = a >= b
		default:
			return illegal()
		}
		if taken {
			nextPC = c.PC + uint32(immB(inst))
		}

	case 0x03: // LOAD
		addr := c.readReg(rs1) + uint32(immI(inst))
		var v uint32
		switch f3 {
		case 0x0, 0x4: // LB, LBU
			b, ok := c.Bus.Read8(addr)
			if !ok {
				return &Trap{PC: c.PC, Inst: inst, Cause: CauseLoad, Addr: addr}
			}
			v = uint32(b)
			if f3 == 0x0 {
				v = uint32(int32(int8(b)))
			}
		case 0x1, 0x5: // LH, LHU
			h, ok := c.Bus.Read16(addr)
			if !ok || addr%2 != 0 {
				return &Trap{PC: c.PC, Inst: inst, Cause: CauseLoad, Addr: addr}
			}
			v = uint32(h)
			if f3 == 0x1 {
				v = uint32(int32(int16(h)))
			}
		case 0x2: // LW
			w, ok := c.Bus.Read32(addr)
			if !ok || addr%4 != 0 {
				return &Trap{PC: c.PC, Inst: inst, Cause: CauseLoad, Addr: addr}
			}
			v = w
		default:
			return illegal()
		}
		c.writeReg(rd, v)

	case 0x23: // STORE
		addr := c.readReg(rs1) + uint32(immS(inst))
		v := c.readReg(rs2)
		var ok bool
		switch f3 {
		case 0x0: // SB
			ok = c.Bus.Write8(addr, uint8(v))
		case 0x1: // SH
			ok = addr%2 == 0 && c.Bus.Write16(addr, uint16(v))
		case 0x2: // SW
			ok = addr%4 == 0 && c.Bus.Write32(addr, v)
		default:
			return illegal()
		}
		if !ok {
			return &Trap{PC: c.PC, Inst: inst, Cause: CauseStore, Addr: addr}
		}

	case 0x13: // OP-IMM
		a := c.readReg(rs1)
		imm := uint32(immI(inst))
		sh := imm & 0x1F
		switch f3 {
		case 0x0: // ADDI
			c.writeReg(rd, a+imm)
		case 0x2: // SLTI
			c.writeReg(rd, b2u(int32(a) < int32(imm)))
		case 0x3: // SLTIU
			c.writeReg(rd, b2u(a < imm))
		case 0x4: // XORI
			c.writeReg(rd, a^imm)
		case 0x6: // ORI
			c.writeReg(rd, a|imm)
		case 0x7: // ANDI
			c.writeReg(rd, a&imm)
		case 0x1: // SLLI
			if f7 != 0 {
				return illegal()
			}
			c.writeReg(rd, a<<sh)
		case 0x5:
			switch f7 {
			case 0x00: // SRLI
				c.writeReg(rd, a>>sh)
			case 0x20: // SRAI
				c.writeReg(rd, uint32(int32(a)>>sh))
			default:
				return illegal()
			}
		}

	case 0x33: // OP
		if f7 != 0x00 && !(f7 == 0x20 && (f3 == 0x0 || f3 == 0x5)) {
			return illegal()
		}
		a := c.readReg(rs1)
		b := c.readReg(rs2)
		switch f3 {
		case 0x0:
			if f7 == 0x20 { // SUB
				c.writeReg(rd, a-b)
			} else { // ADD
				c.writeReg(rd, a+b)
			}
		case 0x1: // SLL
			c.writeReg(rd, a<<(b&0x1F))
		case 0x2: // SLT
			c.writeReg(rd, b2u(int32(a) < int32(b)))
		case 0x3: // SLTU
			c.writeReg(rd, b2u(a < b))
		case 0x4: // XOR
			c.writeReg(rd, a^b)
		case 0x5: // SRL/SRA
			if f7 == 0x20 {
				c.writeReg(rd, uint32(int32(a)>>(b&0x1F)))
			} else {
				c.writeReg(rd, a>>(b&0x1F))
			}
		case 0x6: // OR
			c.writeReg(rd, a|b)
		case 0x7: // AND
			c.writeReg(rd, a&b)
		}

	case 0x0F: // FENCE: single in-order core, nothing to order

	case 0x73: // SYSTEM
		switch inst {
		case 0x00000073:
			return &Trap{PC: c.PC, Inst: inst, Cause: CauseECALL}
		case 0x00100073:
			return &Trap{PC: c.PC, Inst: inst, Cause: CauseEBREAK}
		}
		return illegal()

	default:
		return illegal()
	}

	// A jump or branch to itself is the idle loop: the core can never leave
	// it and no further state changes.
	if nextPC == c.PC && (op == 0x6F || op == 0x63) {
		c.Halted = true
	}
	c.PC = nextPC
	return nil
}

func b2u(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}

// Result summarizes a Run.
type Result struct {
	Steps  int
	Halted bool
}

// Run steps the core until it halts, traps, runs maxSteps instructions or
// ctx is done.
func (c *CPU) Run(ctx context.Context, maxSteps int) (Result, error) {
	var res Result
	for res.Steps < maxSteps {
		if res.Steps%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return res, err
			}
		}
		if err := c.Step(); err != nil {
			return res, err
		}
		res.Steps++
		if c.Halted {
			res.Halted = true
			break
		}
	}
	return res, nil
}
