package cpu

import "github.com/kaedeo/dscore/hardware/cpu/registers"

// stepThumb fetches, decodes and executes one 16-bit Thumb instruction.
// Decode is keyed on bits [15:6], the fields the documented 1024-entry table uses;
// implemented as a cascade over the documented Thumb instruction
// formats rather than a literal table.
func (c *Core) stepThumb() int {
	pc := c.Regs.PC() &^ 1
	op := uint32(c.bus.Read16(pc))
	c.Regs.SetPC(pc + 2)

	switch {
	case op&0xF800 == 0x1800: // format 2: add/subtract
		return c.thumbAddSub(op)
	case op&0xE000 == 0x0000: // format 1: move shifted register
		return c.thumbShifted(op)
	case op&0xE000 == 0x2000: // format 3: move/cmp/add/sub immediate
		return c.thumbImmediate(op)
	case op&0xFC00 == 0x4000: // format 4: ALU operations
		return c.thumbALU(op)
	case op&0xFC00 == 0x4400: // format 5: hi register ops / BX
		return c.thumbHiReg(op)
	case op&0xF800 == 0x4800: // format 6: PC-relative load
		return c.thumbPCRelLoad(op)
	case op&0xF000 == 0x5000: // format 7/8: load/store with register offset
		return c.thumbRegOffset(op)
	case op&0xE000 == 0x6000: // format 9: load/store immediate offset (word/byte)
		return c.thumbImmOffset(op)
	case op&0xF000 == 0x8000: // format 10: load/store halfword
		return c.thumbHalfword(op)
	case op&0xF000 == 0x9000: // format 11: SP-relative load/store
		return c.thumbSPRelative(op)
	case op&0xF000 == 0xA000: // format 12: load address
		return c.thumbLoadAddress(op)
	case op&0xFF00 == 0xB000: // format 13: add offset to SP
		return c.thumbAddSPOffset(op)
	case op&0xF600 == 0xB400: // format 14: push/pop
		return c.thumbPushPop(op)
	case op&0xF000 == 0xC000: // format 15: multiple load/store
		return c.thumbMultiple(op)
	case op&0xFF00 == 0xDF00: // format 17: SWI
		c.SoftwareInterrupt(uint8(op & 0xFF))
		return 3
	case op&0xF000 == 0xD000: // format 16: conditional branch
		return c.thumbCondBranch(op)
	case op&0xF800 == 0xE000: // format 18: unconditional branch
		return c.thumbBranch(op)
	case op&0xF000 == 0xF000: // format 19: long branch with link
		return c.thumbLongBranchLink(op)
	default:
		c.Undefined()
		return 3
	}
}

func (c *Core) thumbShifted(op uint32) int {
	shiftType := (op >> 11) & 0x3
	amount := (op >> 6) & 0x1F
	rs := int((op >> 3) & 0x7)
	rd := int(op & 0x7)

	v := c.Regs.R(rs)
	var result uint32
	var carry bool
	switch shiftType {
	case 0: // LSL
		if amount == 0 {
			result, carry = v, c.Regs.Flag(registers.FlagC)
		} else {
			result = v << amount
			carry = (v>>(32-amount))&1 != 0
		}
	case 1: // LSR
		if amount == 0 {
			amount = 32
		}
		result = v >> amount
		carry = (v>>(amount-1))&1 != 0
	default: // ASR
		if amount == 0 {
			amount = 32
		}
		s := int32(v)
		if amount >= 32 {
			if s < 0 {
				result, carry = 0xFFFFFFFF, true
			}
		} else {
			result = uint32(s >> amount)
			carry = (v>>(amount-1))&1 != 0
		}
	}
	c.Regs.SetR(rd, result)
	c.setLogicalFlags(result, carry)
	return 1
}

func (c *Core) thumbAddSub(op uint32) int {
	immediate := op&0x0400 != 0
	subtract := op&0x0200 != 0
	rnOrImm := (op >> 6) & 0x7
	rs := int((op >> 3) & 0x7)
	rd := int(op & 0x7)

	a := c.Regs.R(rs)
	var b uint32
	if immediate {
		b = rnOrImm
	} else {
		b = c.Regs.R(int(rnOrImm))
	}

	var result uint32
	var carry, overflow bool
	if subtract {
		result, carry, overflow = subWithFlags(a, b)
	} else {
		result, carry, overflow = addWithFlags(a, b)
	}
	c.Regs.SetR(rd, result)
	c.setArithFlags(result, carry, overflow)
	return 1
}

func (c *Core) thumbImmediate(op uint32) int {
	opKind := (op >> 11) & 0x3
	rd := int((op >> 8) & 0x7)
	imm := op & 0xFF

	a := c.Regs.R(rd)
	switch opKind {
	case 0: // MOV
		c.Regs.SetR(rd, imm)
		c.setLogicalFlags(imm, c.Regs.Flag(registers.FlagC))
	case 1: // CMP
		result, carry, overflow := subWithFlags(a, imm)
		c.setArithFlags(result, carry, overflow)
	case 2: // ADD
		result, carry, overflow := addWithFlags(a, imm)
		c.Regs.SetR(rd, result)
		c.setArithFlags(result, carry, overflow)
	default: // SUB
		result, carry, overflow := subWithFlags(a, imm)
		c.Regs.SetR(rd, result)
		c.setArithFlags(result, carry, overflow)
	}
	return 1
}

func (c *Core) thumbALU(op uint32) int {
	opcode := (op >> 6) & 0xF
	rs := int((op >> 3) & 0x7)
	rd := int(op & 0x7)

	a := c.Regs.R(rd)
	b := c.Regs.R(rs)
	var result uint32
	var carry, overflow bool
	writesRd := true

	switch opcode {
	case 0x0: // AND
		result = a & b
	case 0x1: // EOR
		result = a ^ b
	case 0x2: // LSL
		result = a << (b & 0xFF)
	case 0x3: // LSR
		result = a >> (b & 0xFF)
	case 0x4: // ASR
		result = uint32(int32(a) >> (b & 0xFF))
	case 0x5: // ADC
		cin := uint32(0)
		if c.Regs.Flag(registers.FlagC) {
			cin = 1
		}
		result, carry, overflow = addWithFlags(a, b+cin)
	case 0x6: // SBC
		cin := uint32(0)
		if c.Regs.Flag(registers.FlagC) {
			cin = 1
		}
		result, carry, overflow = subWithFlags(a, b+(1-cin))
	case 0x7: // ROR
		result = rotr32(a, b&31)
	case 0x8: // TST
		result = a & b
		writesRd = false
	case 0x9: // NEG
		result, carry, overflow = subWithFlags(0, b)
	case 0xA: // CMP
		result, carry, overflow = subWithFlags(a, b)
		writesRd = false
	case 0xB: // CMN
		result, carry, overflow = addWithFlags(a, b)
		writesRd = false
	case 0xC: // ORR
		result = a | b
	case 0xD: // MUL
		result = a * b
	case 0xE: // BIC
		result = a &^ b
	default: // MVN
		result = ^b
	}

	if writesRd {
		c.Regs.SetR(rd, result)
	}
	if opcode == 0x5 || opcode == 0x6 || opcode == 0x9 || opcode == 0xA || opcode == 0xB {
		c.setArithFlags(result, carry, overflow)
	} else {
		c.setLogicalFlags(result, c.Regs.Flag(registers.FlagC))
	}
	return 1
}

func (c *Core) thumbHiReg(op uint32) int {
	opcode := (op >> 8) & 0x3
	h1 := op&0x0080 != 0
	h2 := op&0x0040 != 0
	rs := int((op >> 3) & 0x7)
	rd := int(op & 0x7)
	if h1 {
		rd += 8
	}
	if h2 {
		rs += 8
	}

	switch opcode {
	case 0: // ADD
		c.Regs.SetR(rd, c.Regs.R(rd)+c.Regs.R(rs))
	case 1: // CMP
		result, carry, overflow := subWithFlags(c.Regs.R(rd), c.Regs.R(rs))
		c.setArithFlags(result, carry, overflow)
	case 2: // MOV
		c.Regs.SetR(rd, c.Regs.R(rs))
		if rd == 15 {
			c.flushPipeline()
		}
	default: // BX/BLX
		rm := c.Regs.R(rs)
		if h1 { // BLX: link to the next instruction, Thumb bit set
			c.Regs.SetR(14, c.Regs.PC()|1)
		}
		c.Regs.SetFlag(registers.FlagT, rm&1 != 0)
		c.Regs.SetPC(rm &^ 1)
		c.flushPipeline()
	}
	return 3
}

func (c *Core) thumbPCRelLoad(op uint32) int {
	rd := int((op >> 8) & 0x7)
	imm := (op & 0xFF) << 2
	base := (c.Regs.PC() &^ 3)
	c.Regs.SetR(rd, c.bus.Read32(base+imm))
	return 3
}

func (c *Core) thumbRegOffset(op uint32) int {
	ro := int((op >> 6) & 0x7)
	rb := int((op >> 3) & 0x7)
	rd := int(op & 0x7)
	addr := c.Regs.R(rb) + c.Regs.R(ro)

	load := op&0x0800 != 0
	byteOp := op&0x0400 != 0
	signExtend := op&0x0200 != 0

	if !signExtend {
		if load {
			if byteOp {
				c.Regs.SetR(rd, uint32(c.bus.Read8(addr)))
			} else {
				c.Regs.SetR(rd, c.readWordRotated(addr))
			}
		} else {
			if byteOp {
				c.bus.Write8(addr, uint8(c.Regs.R(rd)))
			} else {
				c.bus.Write32(addr&^3, c.Regs.R(rd))
			}
		}
		return 3
	}

	// format 8: sign-extended byte/halfword loads, plain halfword store
	switch {
	case !load && !byteOp: // STRH
		c.bus.Write16(addr&^1, uint16(c.Regs.R(rd)))
	case load && !byteOp: // LDRH
		c.Regs.SetR(rd, uint32(c.bus.Read16(addr&^1)))
	case load && byteOp: // LDSB
		c.Regs.SetR(rd, uint32(int32(int8(c.bus.Read8(addr)))))
	default: // LDSH
		c.Regs.SetR(rd, uint32(int32(int16(c.bus.Read16(addr&^1)))))
	}
	return 3
}

func (c *Core) thumbImmOffset(op uint32) int {
	byteOp := op&0x1000 != 0
	load := op&0x0800 != 0
	imm := (op >> 6) & 0x1F
	rb := int((op >> 3) & 0x7)
	rd := int(op & 0x7)

	var addr uint32
	if byteOp {
		addr = c.Regs.R(rb) + imm
	} else {
		addr = c.Regs.R(rb) + imm*4
	}

	if load {
		if byteOp {
			c.Regs.SetR(rd, uint32(c.bus.Read8(addr)))
		} else {
			c.Regs.SetR(rd, c.readWordRotated(addr))
		}
	} else {
		if byteOp {
			c.bus.Write8(addr, uint8(c.Regs.R(rd)))
		} else {
			c.bus.Write32(addr&^3, c.Regs.R(rd))
		}
	}
	return 3
}

func (c *Core) thumbHalfword(op uint32) int {
	load := op&0x0800 != 0
	imm := ((op >> 6) & 0x1F) * 2
	rb := int((op >> 3) & 0x7)
	rd := int(op & 0x7)
	addr := c.Regs.R(rb) + imm

	if load {
		c.Regs.SetR(rd, uint32(c.bus.Read16(addr&^1)))
	} else {
		c.bus.Write16(addr&^1, uint16(c.Regs.R(rd)))
	}
	return 3
}

func (c *Core) thumbSPRelative(op uint32) int {
	load := op&0x0800 != 0
	rd := int((op >> 8) & 0x7)
	imm := (op & 0xFF) << 2
	addr := c.Regs.R(13) + imm

	if load {
		c.Regs.SetR(rd, c.readWordRotated(addr))
	} else {
		c.bus.Write32(addr&^3, c.Regs.R(rd))
	}
	return 3
}

func (c *Core) thumbLoadAddress(op uint32) int {
	usesSP := op&0x0800 != 0
	rd := int((op >> 8) & 0x7)
	imm := (op & 0xFF) << 2
	if usesSP {
		c.Regs.SetR(rd, c.Regs.R(13)+imm)
	} else {
		c.Regs.SetR(rd, (c.Regs.PC()&^3)+imm)
	}
	return 1
}

func (c *Core) thumbAddSPOffset(op uint32) int {
	negative := op&0x0080 != 0
	imm := (op & 0x7F) << 2
	if negative {
		c.Regs.SetR(13, c.Regs.R(13)-imm)
	} else {
		c.Regs.SetR(13, c.Regs.R(13)+imm)
	}
	return 1
}

func (c *Core) thumbPushPop(op uint32) int {
	load := op&0x0800 != 0
	includePCLR := op&0x0100 != 0
	list := op & 0xFF

	if !load { // PUSH
		sp := c.Regs.R(13)
		count := popcount8(uint8(list))
		if includePCLR {
			count++
		}
		sp -= uint32(count) * 4
		c.Regs.SetR(13, sp)
		addr := sp
		for i := 0; i < 8; i++ {
			if list&(1<<uint(i)) != 0 {
				c.bus.Write32(addr, c.Regs.R(i))
				addr += 4
			}
		}
		if includePCLR {
			c.bus.Write32(addr, c.Regs.R(14))
		}
		return 2
	}

	// POP
	addr := c.Regs.R(13)
	for i := 0; i < 8; i++ {
		if list&(1<<uint(i)) != 0 {
			c.Regs.SetR(i, c.bus.Read32(addr))
			addr += 4
		}
	}
	if includePCLR {
		c.Regs.SetPC(c.bus.Read32(addr) &^ 1)
		addr += 4
		c.flushPipeline()
	}
	c.Regs.SetR(13, addr)
	return 3
}

func (c *Core) thumbMultiple(op uint32) int {
	load := op&0x0800 != 0
	rb := int((op >> 8) & 0x7)
	list := op & 0xFF

	addr := c.Regs.R(rb)
	for i := 0; i < 8; i++ {
		if list&(1<<uint(i)) != 0 {
			if load {
				c.Regs.SetR(i, c.bus.Read32(addr))
			} else {
				c.bus.Write32(addr, c.Regs.R(i))
			}
			addr += 4
		}
	}
	c.Regs.SetR(rb, addr)
	return 3
}

func (c *Core) thumbCondBranch(op uint32) int {
	cond := (op >> 8) & 0xF
	if !c.conditionPasses(cond) {
		return 1
	}
	offset := int32(int8(uint8(op&0xFF))) * 2
	c.Regs.SetPC(uint32(int32(c.Regs.PC()) + offset))
	c.flushPipeline()
	return 3
}

func (c *Core) thumbBranch(op uint32) int {
	offset := signExtend11(op&0x7FF) * 2
	c.Regs.SetPC(uint32(int32(c.Regs.PC()) + offset))
	c.flushPipeline()
	return 3
}

func (c *Core) thumbLongBranchLink(op uint32) int {
	low := op&0x0800 != 0
	offset11 := op & 0x7FF

	if !low {
		hi := signExtend11(offset11) << 12
		c.Regs.SetR(14, uint32(int32(c.Regs.PC())+hi))
		return 1
	}

	next := c.Regs.PC() - 2
	target := c.Regs.R(14) + (offset11 << 1)
	c.Regs.SetPC(target)
	c.Regs.SetR(14, next|1)
	c.flushPipeline()
	return 3
}

func signExtend11(v uint32) int32 {
	if v&0x400 != 0 {
		return int32(v | 0xFFFFF800)
	}
	return int32(v)
}

func popcount8(v uint8) int {
	n := 0
	for v != 0 {
		n += int(v & 1)
		v >>= 1
	}
	return n
}

func (c *Core) setLogicalFlags(result uint32, carry bool) {
	c.Regs.SetFlag(registers.FlagN, result&0x80000000 != 0)
	c.Regs.SetFlag(registers.FlagZ, result == 0)
	c.Regs.SetFlag(registers.FlagC, carry)
}

func (c *Core) setArithFlags(result uint32, carry, overflow bool) {
	c.Regs.SetFlag(registers.FlagN, result&0x80000000 != 0)
	c.Regs.SetFlag(registers.FlagZ, result == 0)
	c.Regs.SetFlag(registers.FlagC, carry)
	c.Regs.SetFlag(registers.FlagV, overflow)
}
