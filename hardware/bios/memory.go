package bios

import "github.com/kaedeo/dscore/hardware/cpu"

// cpuSet implements SWI CpuSet: r0=src, r1=dst, r2=control. Control bit
// 24 selects fixed-source fill instead of copy, bit 26 selects 32-bit
// vs 16-bit unit size, bits 0-20 give the word/halfword count.
func cpuSet(c *cpu.Core) int {
	src := c.Regs.R(0)
	dst := c.Regs.R(1)
	ctrl := c.Regs.R(2)

	count := ctrl & 0x1FFFFF
	fixed := ctrl&(1<<24) != 0
	width32 := ctrl&(1<<26) != 0

	bus := c.Bus()
	s := src
	if width32 {
		for i := uint32(0); i < count; i++ {
			bus.Write32(dst+i*4, bus.Read32(s))
			if !fixed {
				s += 4
			}
		}
	} else {
		for i := uint32(0); i < count; i++ {
			bus.Write16(dst+i*2, bus.Read16(s))
			if !fixed {
				s += 2
			}
		}
	}
	return int(count)
}

// cpuFastSet implements SWI CpuFastSet: identical to CpuSet but always
// 32-bit units processed in blocks of 8 words, the hardware quirk that
// gives it its speed; HLE has no reason to replicate the blocking, only
// the unit width and fixed-source behaviour.
func cpuFastSet(c *cpu.Core) int {
	src := c.Regs.R(0)
	dst := c.Regs.R(1)
	ctrl := c.Regs.R(2)

	count := ctrl & 0x1FFFFF
	fixed := ctrl&(1<<24) != 0

	bus := c.Bus()
	s := src
	for i := uint32(0); i < count; i++ {
		bus.Write32(dst+i*4, bus.Read32(s))
		if !fixed {
			s += 4
		}
	}
	return int(count)
}

// bitUnPack implements SWI BitUnPack: r0=src, r1=dst, unpacking source
// units into wider destination units per the 8-byte parameter block
// pointed to by r2 (u16 srcLen in bytes, u8 srcWidth, u8 dstWidth, u32
// dataOffset with the zero-flag in bit 31).
func bitUnPack(c *cpu.Core) int {
	src := c.Regs.R(0)
	dst := c.Regs.R(1)
	paramAddr := c.Regs.R(2)

	bus := c.Bus()
	srcLen := uint32(bus.Read16(paramAddr))
	srcWidth := uint32(bus.Read8(paramAddr + 2))
	dstWidth := uint32(bus.Read8(paramAddr + 3))
	dataAndOffset := bus.Read32(paramAddr + 4)
	addZero := dataAndOffset&0x80000000 != 0
	offset := dataAndOffset & 0x7FFFFFFF

	if srcWidth == 0 || dstWidth == 0 {
		return 0
	}

	var bitBuf uint32
	var bitsInBuf uint32
	srcPos := uint32(0)
	var outWord uint32
	var outBits uint32
	dstPos := uint32(0)

	readBits := func(n uint32) uint32 {
		for bitsInBuf < n {
			if srcPos >= srcLen {
				bitBuf |= 0 << bitsInBuf
			} else {
				bitBuf |= uint32(bus.Read8(src+srcPos)) << bitsInBuf
				srcPos++
			}
			bitsInBuf += 8
		}
		v := bitBuf & ((1 << n) - 1)
		bitBuf >>= n
		bitsInBuf -= n
		return v
	}

	for srcPos < srcLen || bitsInBuf > 0 {
		v := readBits(srcWidth)
		if v != 0 || addZero {
			v += offset
		}
		outWord |= v << outBits
		outBits += dstWidth
		if outBits >= 32 {
			bus.Write32(dst+dstPos, outWord)
			dstPos += 4
			outWord = 0
			outBits = 0
		}
	}
	if outBits > 0 {
		bus.Write32(dst+dstPos, outWord)
	}
	return 0
}
