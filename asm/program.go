package asm

import (
	"encoding/binary"
	"errors"
	"fmt"
)

var (
	ErrUndefinedLabel = errors.New("undefined label")
	ErrDuplicateLabel = errors.New("duplicate label")
	ErrOutOfRange     = errors.New("offset out of range")
)

type fixupKind int

const (
	fixBranch fixupKind = iota
	fixJump
	fixAddr // auipc + addi pair
)

type fixup struct {
	kind  fixupKind
	at    uint32 // byte offset of the (first) instruction
	label string
	inst  uint32 // instruction with a zero immediate
}

// Program is a flat image: instructions followed by data, with byte offsets
// relative to the load address. Everything is PC-relative, so the result runs
// wherever it is loaded.
type Program struct {
	text   []uint32
	data   []byte
	labels map[string]uint32

	// data labels are offsets into data until Assemble places them
	dataLabels map[string]uint32
	fixups     []fixup
	err        error
}

func NewProgram() *Program {
	return &Program{
		labels:     map[string]uint32{},
		dataLabels: map[string]uint32{},
	}
}

// PC is the byte offset of the next instruction.
func (p *Program) PC() uint32 { return uint32(len(p.text)) * 4 }

func (p *Program) Emit(words ...uint32) {
	p.text = append(p.text, words...)
}

// Org pads with NOPs up to byte offset off.
func (p *Program) Org(off uint32) {
	if off%4 != 0 || off < p.PC() {
		p.fail(fmt.Errorf("org 0x%x: %w (pc is 0x%x)", off, ErrOutOfRange, p.PC()))
		return
	}
	for p.PC() < off {
		p.Emit(NOP)
	}
}

// Label names the next instruction.
func (p *Program) Label(name string) {
	p.define(name)
	p.labels[name] = p.PC()
}

// Data appends b to the data section under label.
func (p *Program) Data(label string, b []byte) {
	p.define(label)
	p.dataLabels[label] = uint32(len(p.data))
	p.data = append(p.data, b...)
}

// DataEnd names the offset just past the data emitted so far.
func (p *Program) DataEnd(label string) {
	p.define(label)
	p.dataLabels[label] = uint32(len(p.data))
}

func (p *Program) define(name string) {
	_, text := p.labels[name]
	_, data := p.dataLabels[name]
	if text || data {
		p.fail(fmt.Errorf("%w %q", ErrDuplicateLabel, name))
	}
}

func (p *Program) fail(err error) {
	if p.err == nil {
		p.err = err
	}
}

// Branch emits a conditional branch (f3 selects BEQ, BNE, ...) to label.
func (p *Program) Branch(f3, rs1, rs2 uint32, label string) {
	p.fixups = append(p.fixups, fixup{fixBranch, p.PC(), label, B(OpBranch, f3, rs1, rs2, 0)})
	p.Emit(0)
}

func (p *Program) BEQ(rs1, rs2 uint32, label string) { p.Branch(0x0, rs1, rs2, label) }
func (p *Program) BNE(rs1, rs2 uint32, label string) { p.Branch(0x1, rs1, rs2, label) }

// Jump emits JAL rd, label.
func (p *Program) Jump(rd uint32, label string) {
	p.fixups = append(p.fixups, fixup{fixJump, p.PC(), label, J(OpJAL, rd, 0)})
	p.Emit(0)
}

// LA loads the address of label into rd.
func (p *Program) LA(rd uint32, label string) {
	p.fixups = append(p.fixups, fixup{fixAddr, p.PC(), label, rd})
	p.Emit(0, 0)
}

// LI loads a 32-bit constant into rd.
func (p *Program) LI(rd uint32, v uint32) {
	hi, lo := HiLo(int32(v))
	if hi == 0 {
		p.Emit(ADDI(rd, Zero, lo))
		return
	}
	p.Emit(LUI(rd, hi))
	if lo != 0 {
		p.Emit(ADDI(rd, rd, lo))
	}
}

// Assemble resolves labels and returns the little-endian image.
func (p *Program) Assemble() ([]byte, error) {
	if p.err != nil {
		return nil, p.err
	}
	textSize := p.PC()
	addr := func(label string) (uint32, error) {
		if off, ok := p.labels[label]; ok {
			return off, nil
		}
		if off, ok := p.dataLabels[label]; ok {
			return textSize + off, nil
		}
		return 0, fmt.Errorf("%w %q", ErrUndefinedLabel, label)
	}

	text := make([]uint32, len(p.text))
	copy(text, p.text)
	for _, f := range p.fixups {
		target, err := addr(f.label)
		if err != nil {
			return nil, err
		}
		off := int32(target - f.at)
		i := f.at / 4
		switch f.kind {
		case fixBranch:
			if off < -4096 || off > 4094 {
				return nil, fmt.Errorf("branch to %q: %w", f.label, ErrOutOfRange)
			}
			text[i] = f.inst | B(0, 0, 0, 0, off)
		case fixJump:
			if off < -(1<<20) || off > (1<<20)-2 {
				return nil, fmt.Errorf("jump to %q: %w", f.label, ErrOutOfRange)
			}
			text[i] = f.inst | J(0, 0, off)
		case fixAddr:
			hi, lo := HiLo(off)
			text[i] = AUIPC(f.inst, hi)
			text[i+1] = ADDI(f.inst, f.inst, lo)
		}
	}

	out := make([]byte, 0, int(textSize)+len(p.data))
	for _, w := range text {
		out = binary.LittleEndian.AppendUint32(out, w)
	}
	return append(out, p.data...), nil
}
