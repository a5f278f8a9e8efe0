package cpu

// execSingleTransfer implements LDR/STR, byte and word, all four
// addressing modes (immediate/register offset, pre/post-indexed,
// up/down).
func (c *Core) execSingleTransfer(op uint32) int {
	rn := int((op >> 16) & 0xF)
	rd := int((op >> 12) & 0xF)

	immediate := op&0x02000000 == 0
	preIndex := op&0x01000000 != 0
	up := op&0x00800000 != 0
	byteTransfer := op&0x00400000 != 0
	writeBack := op&0x00200000 != 0
	load := op&0x00100000 != 0

	var offset uint32
	if immediate {
		offset = op & 0xFFF
	} else {
		offset, _ = c.shifterOperand(op)
	}

	base := c.Regs.R(rn)
	var addr uint32
	if preIndex {
		if up {
			addr = base + offset
		} else {
			addr = base - offset
		}
	} else {
		addr = base
	}

	if load {
		var v uint32
		if byteTransfer {
			v = uint32(c.bus.Read8(addr))
		} else {
			v = c.readWordRotated(addr)
		}
		c.Regs.SetR(rd, v)
		if rd == 15 {
			c.flushPipeline()
		}
	} else {
		v := c.Regs.R(rd)
		if byteTransfer {
			c.bus.Write8(addr, uint8(v))
		} else {
			c.bus.Write32(addr&^3, v)
		}
	}

	if !preIndex {
		if up {
			addr = base + offset
		} else {
			addr = base - offset
		}
		c.Regs.SetR(rn, addr)
	} else if writeBack {
		c.Regs.SetR(rn, addr)
	}

	if load && rd == 15 {
		return 5
	}
	return 3
}

// readWordRotated implements the documented unaligned-word-read
// rotation: a misaligned LDR returns the aligned word rotated right by
// 8 times the misalignment.
func (c *Core) readWordRotated(addr uint32) uint32 {
	v := c.bus.Read32(addr &^ 3)
	misalign := (addr & 3) * 8
	if misalign == 0 {
		return v
	}
	return rotr32(v, misalign)
}

// execBlockTransfer implements LDM/STM over the 16-bit register list,
// including the four addressing-mode combinations and simple ^-suffix
// (user-bank transfer / CPSR restore on LDM with r15) handling.
func (c *Core) execBlockTransfer(op uint32) int {
	rn := int((op >> 16) & 0xF)
	load := op&0x00100000 != 0
	writeBack := op&0x00200000 != 0
	sBit := op&0x00400000 != 0
	up := op&0x00800000 != 0
	preIndex := op&0x01000000 != 0
	list := op & 0xFFFF

	regs := make([]int, 0, 16)
	for i := 0; i < 16; i++ {
		if list&(1<<uint(i)) != 0 {
			regs = append(regs, i)
		}
	}

	base := c.Regs.R(rn)
	count := uint32(len(regs))
	var start uint32
	if up {
		start = base
		if preIndex {
			start += 4
		}
	} else {
		start = base - count*4
		if !preIndex {
			start += 4
		}
	}

	addr := start
	cycles := 2
	for _, r := range regs {
		if load {
			c.Regs.SetR(r, c.bus.Read32(addr))
			if r == 15 {
				c.flushPipeline()
				if sBit {
					c.Regs.SetCPSR(c.Regs.SPSR())
					c.Regs.SwitchMode(c.Regs.Mode())
				}
			}
		} else {
			c.bus.Write32(addr, c.Regs.R(r))
		}
		addr += 4
		cycles++
	}

	if writeBack {
		if up {
			c.Regs.SetR(rn, base+count*4)
		} else {
			c.Regs.SetR(rn, base-count*4)
		}
	}

	return cycles
}
