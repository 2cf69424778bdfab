// Package asm encodes RV32I instructions and lays out small position
// independent programs with labels.
package asm

// Major opcodes.
const (
	OpLoad   = 0x03
	OpMisc   = 0x0F
	OpImm    = 0x13
	OpAUIPC  = 0x17
	OpStore  = 0x23
	OpReg    = 0x33
	OpLUI    = 0x37
	OpBranch = 0x63
	OpJALR   = 0x67
	OpJAL    = 0x6F
	OpSystem = 0x73
)

// ABI register numbers.
const (
	Zero = 0
	RA   = 1
	SP   = 2
	GP   = 3
	TP   = 4
	T0   = 5
	T1   = 6
	T2   = 7
	S0   = 8
	S1   = 9
	A0   = 10
	A1   = 11
	A2   = 12
	A3   = 13
)

// R-type
func R(op, rd, f3, rs1, rs2, f7 uint32) uint32 {
	return (f7 << 25) | (rs2 << 20) | (rs1 << 15) | (f3 << 12) | (rd << 7) | op
}

// I-type (imm is 12-bit signed)
func I(op, rd, f3, rs1 uint32, imm int32) uint32 {
	u := uint32(imm) & 0xFFF
	return (u << 20) | (rs1 << 15) | (f3 << 12) | (rd << 7) | op
}

// S-type (imm is 12-bit signed)
func S(op, f3, rs1, rs2 uint32, imm int32) uint32 {
	u := uint32(imm) & 0xFFF
	return ((u>>5)&0x7F)<<25 | (rs2 << 20) | (rs1 << 15) | (f3 << 12) | (u&0x1F)<<7 | op
}

// B-type (imm is 13-bit signed, multiples of 2)
func B(op, f3, rs1, rs2 uint32, imm int32) uint32 {
	u := uint32(imm)
	return ((u>>12)&0x1)<<31 | ((u>>5)&0x3F)<<25 | (rs2 << 20) | (rs1 << 15) |
		(f3 << 12) | ((u>>1)&0xF)<<8 | ((u>>11)&0x1)<<7 | op
}

// U-type (imm20 is the upper 20 bits)
func U(op, rd, imm20 uint32) uint32 {
	return (imm20&0xFFFFF)<<12 | (rd << 7) | op
}

// J-type (imm is 21-bit signed, multiples of 2)
func J(op, rd uint32, imm int32) uint32 {
	u := uint32(imm)
	return ((u>>20)&0x1)<<31 | ((u>>1)&0x3FF)<<21 | ((u>>11)&0x1)<<20 |
		((u>>12)&0xFF)<<12 | (rd << 7) | op
}

func LUI(rd, imm20 uint32) uint32   { return U(OpLUI, rd, imm20) }
func AUIPC(rd, imm20 uint32) uint32 { return U(OpAUIPC, rd, imm20) }

func ADDI(rd, rs1 uint32, imm int32) uint32 { return I(OpImm, rd, 0x0, rs1, imm) }
func LB(rd, rs1 uint32, imm int32) uint32   { return I(OpLoad, rd, 0x0, rs1, imm) }
func LH(rd, rs1 uint32, imm int32) uint32   { return I(OpLoad, rd, 0x1, rs1, imm) }
func LW(rd, rs1 uint32, imm int32) uint32   { return I(OpLoad, rd, 0x2, rs1, imm) }
func LBU(rd, rs1 uint32, imm int32) uint32  { return I(OpLoad, rd, 0x4, rs1, imm) }
func LHU(rd, rs1 uint32, imm int32) uint32  { return I(OpLoad, rd, 0x5, rs1, imm) }
func JALR(rd, rs1 uint32, imm int32) uint32 { return I(OpJALR, rd, 0x0, rs1, imm) }

func SB(rs2, rs1 uint32, imm int32) uint32 { return S(OpStore, 0x0, rs1, rs2, imm) }
func SH(rs2, rs1 uint32, imm int32) uint32 { return S(OpStore, 0x1, rs1, rs2, imm) }
func SW(rs2, rs1 uint32, imm int32) uint32 { return S(OpStore, 0x2, rs1, rs2, imm) }

func ADD(rd, rs1, rs2 uint32) uint32 { return R(OpReg, rd, 0x0, rs1, rs2, 0x00) }
func SUB(rd, rs1, rs2 uint32) uint32 { return R(OpReg, rd, 0x0, rs1, rs2, 0x20) }

func BEQ(rs1, rs2 uint32, imm int32) uint32 { return B(OpBranch, 0x0, rs1, rs2, imm) }
func BNE(rs1, rs2 uint32, imm int32) uint32 { return B(OpBranch, 0x1, rs1, rs2, imm) }

func JAL(rd uint32, imm int32) uint32 { return J(OpJAL, rd, imm) }

const (
	NOP    = 0x00000013 // addi x0, x0, 0
	ECALL  = 0x00000073
	EBREAK = 0x00100073
)

// HiLo splits v for a LUI/ADDI (or AUIPC/ADDI) pair. ADDI sign-extends its
// immediate, so hi is rounded up when bit 11 of v is set.
func HiLo(v int32) (hi uint32, lo int32) {
	hi = uint32(v+0x800) >> 12
	lo = v - int32(hi<<12)
	return hi & 0xFFFFF, lo
}
