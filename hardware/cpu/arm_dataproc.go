package cpu

import "github.com/kaedeo/dscore/hardware/cpu/registers"

// shifterOperand decodes bits [11:0] of a data-processing instruction
// into its operand value and the carry-out the barrel shifter produces
// (used by the logical ops' C-flag update when S is set).
func (c *Core) shifterOperand(op uint32) (value uint32, carryOut bool) {
	if op&0x02000000 != 0 {
		imm := op & 0xFF
		rotate := ((op >> 8) & 0xF) * 2
		value = rotr32(imm, rotate)
		if rotate == 0 {
			carryOut = c.Regs.Flag(registers.FlagC)
		} else {
			carryOut = value&0x80000000 != 0
		}
		return value, carryOut
	}

	rm := c.Regs.R(int(op & 0xF))
	shiftType := (op >> 5) & 0x3
	var amount uint32
	if op&0x00000010 != 0 {
		amount = c.Regs.R(int((op>>8)&0xF)) & 0xFF
	} else {
		amount = (op >> 7) & 0x1F
	}

	switch shiftType {
	case 0: // LSL
		if amount == 0 {
			return rm, c.Regs.Flag(registers.FlagC)
		}
		if amount >= 32 {
			if amount == 32 {
				return 0, rm&1 != 0
			}
			return 0, false
		}
		return rm << amount, (rm>>(32-amount))&1 != 0
	case 1: // LSR
		if amount == 0 {
			amount = 32
		}
		if amount >= 32 {
			if amount == 32 {
				return 0, rm&0x80000000 != 0
			}
			return 0, false
		}
		return rm >> amount, (rm>>(amount-1))&1 != 0
	case 2: // ASR
		if amount == 0 {
			amount = 32
		}
		s := int32(rm)
		if amount >= 32 {
			if s < 0 {
				return 0xFFFFFFFF, true
			}
			return 0, false
		}
		return uint32(s >> amount), (rm>>(amount-1))&1 != 0
	default: // ROR / RRX
		if amount == 0 {
			// RRX: rotate right by 1 through carry
			cIn := uint32(0)
			if c.Regs.Flag(registers.FlagC) {
				cIn = 0x80000000
			}
			return (rm >> 1) | cIn, rm&1 != 0
		}
		amount &= 31
		if amount == 0 {
			return rm, rm&0x80000000 != 0
		}
		return rotr32(rm, amount), (rm>>(amount-1))&1 != 0
	}
}

// execDataProcessing implements the 16 data-processing opcodes (AND
// through MVN) including the compare/test forms that never write Rd.
func (c *Core) execDataProcessing(op uint32) int {
	opcode := (op >> 21) & 0xF
	setFlags := op&0x00100000 != 0
	rn := int((op >> 16) & 0xF)
	rd := int((op >> 12) & 0xF)

	operand2, shiftCarry := c.shifterOperand(op)
	a := c.Regs.R(rn)

	var result uint32
	var carryOut bool
	var overflow bool
	writesRd := true

	switch opcode {
	case 0x0: // AND
		result = a & operand2
		carryOut = shiftCarry
	case 0x1: // EOR
		result = a ^ operand2
		carryOut = shiftCarry
	case 0x2: // SUB
		result, carryOut, overflow = subWithFlags(a, operand2)
	case 0x3: // RSB
		result, carryOut, overflow = subWithFlags(operand2, a)
	case 0x4: // ADD
		result, carryOut, overflow = addWithFlags(a, operand2)
	case 0x5: // ADC
		cin := uint32(0)
		if c.Regs.Flag(registers.FlagC) {
			cin = 1
		}
		result, carryOut, overflow = addWithFlags(a, operand2+cin)
	case 0x6: // SBC
		cin := uint32(0)
		if c.Regs.Flag(registers.FlagC) {
			cin = 1
		}
		result, carryOut, overflow = subWithFlags(a, operand2+(1-cin))
	case 0x7: // RSC
		cin := uint32(0)
		if c.Regs.Flag(registers.FlagC) {
			cin = 1
		}
		result, carryOut, overflow = subWithFlags(operand2, a+(1-cin))
	case 0x8: // TST
		result = a & operand2
		carryOut = shiftCarry
		writesRd = false
	case 0x9: // TEQ
		result = a ^ operand2
		carryOut = shiftCarry
		writesRd = false
	case 0xA: // CMP
		result, carryOut, overflow = subWithFlags(a, operand2)
		writesRd = false
	case 0xB: // CMN
		result, carryOut, overflow = addWithFlags(a, operand2)
		writesRd = false
	case 0xC: // ORR
		result = a | operand2
		carryOut = shiftCarry
	case 0xD: // MOV
		result = operand2
		carryOut = shiftCarry
	case 0xE: // BIC
		result = a &^ operand2
		carryOut = shiftCarry
	default: // MVN
		result = ^operand2
		carryOut = shiftCarry
	}

	if writesRd {
		c.Regs.SetR(rd, result)
		if rd == 15 {
			if setFlags {
				c.Regs.SetCPSR(c.Regs.SPSR())
				c.Regs.SwitchMode(c.Regs.Mode())
			}
			c.flushPipeline()
		}
	}

	if setFlags && rd != 15 {
		c.Regs.SetFlag(registers.FlagN, result&0x80000000 != 0)
		c.Regs.SetFlag(registers.FlagZ, result == 0)
		c.Regs.SetFlag(registers.FlagC, carryOut)
		if opcode == 0x2 || opcode == 0x3 || opcode == 0x4 || opcode == 0x5 ||
			opcode == 0x6 || opcode == 0x7 || opcode == 0xA || opcode == 0xB {
			c.Regs.SetFlag(registers.FlagV, overflow)
		}
	}

	if rd == 15 && writesRd {
		return 3
	}
	return 1
}

func addWithFlags(a, b uint32) (result uint32, carry, overflow bool) {
	sum := uint64(a) + uint64(b)
	result = uint32(sum)
	carry = sum > 0xFFFFFFFF
	signA := a&0x80000000 != 0
	signB := b&0x80000000 != 0
	signR := result&0x80000000 != 0
	overflow = signA == signB && signR != signA
	return
}

func subWithFlags(a, b uint32) (result uint32, carry, overflow bool) {
	result = a - b
	carry = a >= b
	signA := a&0x80000000 != 0
	signB := b&0x80000000 != 0
	signR := result&0x80000000 != 0
	overflow = signA != signB && signR != signA
	return
}
