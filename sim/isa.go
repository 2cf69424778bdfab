package sim

// fields holds the fixed-position fields of an RV32I instruction.
type fields struct {
	op, rd, f3, rs1, rs2, f7 uint32
}

func decode(inst uint32) fields {
	return fields{
		op:  inst & 0x7F,
		rd:  (inst >> 7) & 0x1F,
		f3:  (inst >> 12) & 0x7,
		rs1: (inst >> 15) & 0x1F,
		rs2: (inst >> 20) & 0x1F,
		f7:  (inst >> 25) & 0x7F,
	}
}

func signExtend(v uint32, bits uint) int32 {
	shift := 32 - bits
	return int32(v<<shift) >> shift
}

func immI(inst uint32) int32 { return signExtend(inst>>20, 12) }

func immS(inst uint32) int32 {
	return signExtend((inst>>25)<<5|(inst>>7)&0x1F, 12)
}

// [12|10:5|4:1|11] << 1
func immB(inst uint32) int32 {
	return signExtend((inst>>31)<<12|((inst>>25)&0x3F)<<5|((inst>>8)&0xF)<<1|((inst>>7)&1)<<11, 13)
}

func immU(inst uint32) int32 { return int32(inst & 0xFFFFF000) }

// [20|10:1|11|19:12] << 1
func immJ(inst uint32) int32 {
	return signExtend((inst>>31)<<20|((inst>>21)&0x3FF)<<1|((inst>>20)&1)<<11|((inst>>12)&0xFF)<<12, 21)
}
