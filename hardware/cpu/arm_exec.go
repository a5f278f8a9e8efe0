package cpu

import (
	"github.com/kaedeo/dscore/hardware/cpu/booth"
	"github.com/kaedeo/dscore/hardware/cpu/registers"
)

// stepArm fetches, decodes and executes one 32-bit ARM instruction.
// Decode is organised as a cascade of bit-field tests over [27:20] and
// [7:4], the same fields the real instruction-set table is keyed on
// implemented here as a Go switch rather than a
// 4096-entry jump table -- functionally equivalent, far more compact.
func (c *Core) stepArm() int {
	pc := c.Regs.PC() &^ 3
	op := c.bus.Read32(pc)
	c.Regs.SetPC(pc + 4)

	if !c.conditionPasses(op >> 28) {
		return 1
	}

	switch {
	case op&0x0FFFFFF0 == 0x012FFF10 || op&0x0FFFFFF0 == 0x012FFF30:
		return c.execBxBlx(op)
	case op&0x0E000000 == 0x0A000000:
		return c.execBranch(op)
	case op&0x0FC000F0 == 0x00000090:
		return c.execMultiply(op)
	case op&0x0F8000F0 == 0x00800090:
		return c.execMultiplyLong(op)
	case op&0x0FBF0FFF == 0x010F0000:
		return c.execMRS(op)
	case op&0x0FB0FFF0 == 0x0120F000 || op&0x0DB0F000 == 0x0120F000:
		return c.execMSR(op)
	case op&0x0C000000 == 0x00000000:
		return c.execDataProcessing(op)
	case op&0x0C000000 == 0x04000000:
		return c.execSingleTransfer(op)
	case op&0x0E000000 == 0x08000000:
		return c.execBlockTransfer(op)
	case op&0x0F000000 == 0x0F000000:
		c.SoftwareInterrupt(uint8(op >> 16))
		return 3
	default:
		c.Undefined()
		return 3
	}
}

func (c *Core) conditionPasses(condRaw uint32) bool {
	cond := condRaw & 0xF
	n := c.Regs.Flag(registers.FlagN)
	z := c.Regs.Flag(registers.FlagZ)
	cf := c.Regs.Flag(registers.FlagC)
	v := c.Regs.Flag(registers.FlagV)

	switch cond {
	case 0x0: // EQ
		return z
	case 0x1: // NE
		return !z
	case 0x2: // CS
		return cf
	case 0x3: // CC
		return !cf
	case 0x4: // MI
		return n
	case 0x5: // PL
		return !n
	case 0x6: // VS
		return v
	case 0x7: // VC
		return !v
	case 0x8: // HI
		return cf && !z
	case 0x9: // LS
		return !cf || z
	case 0xA: // GE
		return n == v
	case 0xB: // LT
		return n != v
	case 0xC: // GT
		return !z && n == v
	case 0xD: // LE
		return z || n != v
	case 0xE: // AL
		return true
	default: // 0xF reserved (NV on ARMv4, some v5 unconditional encodings)
		return false
	}
}

func (c *Core) execBxBlx(op uint32) int {
	rm := c.Regs.R(int(op & 0xF))
	if op&0x0FFFFFF0 == 0x012FFF30 { // BLX
		c.Regs.SetR(14, c.Regs.PC())
	}
	c.Regs.SetFlag(registers.FlagT, rm&1 != 0)
	c.Regs.SetPC(rm &^ 1)
	c.flushPipeline()
	return 3
}

func (c *Core) execBranch(op uint32) int {
	link := op&0x01000000 != 0
	offset := int32(op&0x00FFFFFF) << 8 >> 6 // sign-extend 24-bit word offset to byte offset
	target := uint32(int32(c.Regs.PC()) + offset)
	if link {
		c.Regs.SetR(14, c.Regs.PC()-4)
	}
	c.Regs.SetPC(target)
	c.flushPipeline()
	return 3
}

func (c *Core) execMultiply(op uint32) int {
	rd := int((op >> 16) & 0xF)
	rn := int((op >> 12) & 0xF)
	rs := int((op >> 8) & 0xF)
	rm := int(op & 0xF)
	accumulate := op&0x00200000 != 0
	setFlags := op&0x00100000 != 0

	product := c.Regs.R(rm) * c.Regs.R(rs)
	if accumulate {
		product += c.Regs.R(rn)
	}
	c.Regs.SetR(rd, product)

	if setFlags {
		c.Regs.SetFlag(registers.FlagN, product&0x80000000 != 0)
		c.Regs.SetFlag(registers.FlagZ, product == 0)
		c.Regs.SetFlag(registers.FlagC, booth.Carry32(c.Regs.R(rm), c.Regs.R(rs)))
	}
	if accumulate {
		return 4
	}
	return 3
}

func (c *Core) execMultiplyLong(op uint32) int {
	rdHi := int((op >> 16) & 0xF)
	rdLo := int((op >> 12) & 0xF)
	rs := int((op >> 8) & 0xF)
	rm := int(op & 0xF)
	signed := op&0x00400000 != 0
	accumulate := op&0x00200000 != 0
	setFlags := op&0x00100000 != 0

	var result uint64
	if signed {
		result = uint64(int64(int32(c.Regs.R(rm))) * int64(int32(c.Regs.R(rs))))
	} else {
		result = uint64(c.Regs.R(rm)) * uint64(c.Regs.R(rs))
	}
	if accumulate {
		result += uint64(c.Regs.R(rdHi))<<32 | uint64(c.Regs.R(rdLo))
	}
	c.Regs.SetR(rdLo, uint32(result))
	c.Regs.SetR(rdHi, uint32(result>>32))

	if setFlags {
		c.Regs.SetFlag(registers.FlagN, result&0x8000000000000000 != 0)
		c.Regs.SetFlag(registers.FlagZ, result == 0)
		c.Regs.SetFlag(registers.FlagC, booth.Carry64(c.Regs.R(rm), c.Regs.R(rs)))
	}
	return 4
}

func (c *Core) execMRS(op uint32) int {
	rd := int((op >> 12) & 0xF)
	usesSPSR := op&0x00400000 != 0
	if usesSPSR {
		c.Regs.SetR(rd, c.Regs.SPSR())
	} else {
		c.Regs.SetR(rd, c.Regs.CPSR())
	}
	return 1
}

func (c *Core) execMSR(op uint32) int {
	usesSPSR := op&0x00400000 != 0
	var val uint32
	if op&0x02000000 != 0 {
		imm := op & 0xFF
		rotate := (op >> 8) & 0xF * 2
		val = rotr32(imm, rotate)
	} else {
		val = c.Regs.R(int(op & 0xF))
	}

	fieldMask := uint32(0)
	if op&0x00080000 != 0 {
		fieldMask |= 0xFF000000 // flags field
	}
	if op&0x00010000 != 0 {
		fieldMask |= 0x000000FF // control field (mode/T/I/F)
	}

	if usesSPSR {
		c.Regs.SetSPSR((c.Regs.SPSR() &^ fieldMask) | (val & fieldMask))
		return 1
	}

	newCPSR := (c.Regs.CPSR() &^ fieldMask) | (val & fieldMask)
	if fieldMask&0xFF != 0 {
		c.Regs.SwitchMode(registers.Mode(newCPSR & 0x1F))
	}
	c.Regs.SetCPSR((c.Regs.CPSR() &^ fieldMask) | (val & fieldMask))
	return 1
}

func rotr32(v, amount uint32) uint32 {
	amount &= 31
	if amount == 0 {
		return v
	}
	return (v >> amount) | (v << (32 - amount))
}
