package bios

import "github.com/kaedeo/dscore/hardware/cpu"

// decompHeader is the 4-byte word every compression SWI expects at its
// source address: the low byte names the compression type (the high
// nibble of which HLE ignores, since the SWI number already fixes the
// scheme), and the upper 3 bytes give the decompressed length.
func decompHeader(bus cpu.Bus, src uint32) (length uint32) {
	word := bus.Read32(src)
	return word >> 8
}

// lz77UnComp implements SWI LZ77UnCompWram/Vram: r0=src (header + packed
// stream), r1=dst. Decodes the standard 1-flag-byte-then-8-tokens LZ77
// framing: a clear flag bit means one literal byte, a set bit means a
// 2-byte back-reference (12-bit distance, 4-bit length-3 run length).
func lz77UnComp(c *cpu.Core) int {
	src := c.Regs.R(0)
	dst := c.Regs.R(1)
	bus := c.Bus()

	length := decompHeader(bus, src)
	srcPos := src + 4
	dstPos := dst
	written := uint32(0)

	for written < length {
		flags := bus.Read8(srcPos)
		srcPos++
		for bit := 0; bit < 8 && written < length; bit++ {
			if flags&0x80 == 0 {
				bus.Write8(dstPos, bus.Read8(srcPos))
				srcPos++
				dstPos++
				written++
			} else {
				b0 := bus.Read8(srcPos)
				b1 := bus.Read8(srcPos + 1)
				srcPos += 2
				runLen := uint32(b0>>4) + 3
				disp := (uint32(b0&0x0F) << 8) | uint32(b1)
				copyFrom := dstPos - disp - 1
				for i := uint32(0); i < runLen && written < length; i++ {
					bus.Write8(dstPos, bus.Read8(copyFrom))
					dstPos++
					copyFrom++
					written++
				}
			}
			flags <<= 1
		}
	}
	return int(length)
}

// rlUnComp implements SWI RLUnCompWram/Vram: r0=src, r1=dst. Each block
// starts with a flag byte; a clear top bit means a literal run of
// (len+1) raw bytes, a set top bit means (len+3) repeats of one byte,
// len being the flag byte's low 7 bits in both cases.
func rlUnComp(c *cpu.Core) int {
	src := c.Regs.R(0)
	dst := c.Regs.R(1)
	bus := c.Bus()

	length := decompHeader(bus, src)
	srcPos := src + 4
	dstPos := dst
	written := uint32(0)

	for written < length {
		flag := bus.Read8(srcPos)
		srcPos++
		if flag&0x80 == 0 {
			runLen := uint32(flag&0x7F) + 1
			for i := uint32(0); i < runLen && written < length; i++ {
				bus.Write8(dstPos, bus.Read8(srcPos))
				srcPos++
				dstPos++
				written++
			}
		} else {
			runLen := uint32(flag&0x7F) + 3
			b := bus.Read8(srcPos)
			srcPos++
			for i := uint32(0); i < runLen && written < length; i++ {
				bus.Write8(dstPos, b)
				dstPos++
				written++
			}
		}
	}
	return int(length)
}

// huffUnComp implements SWI HuffUnCompWram/Vram: r0=src, r1=dst.
// Decodes the standard two-tree-walk 4-bit-or-8-bit symbol Huffman
// framing: a tree-size byte, then the tree table itself (leaf nodes
// hold the literal, internal nodes an offset to their two children),
// then the bitstream, read MSB-first 32 bits at a time.
func huffUnComp(c *cpu.Core) int {
	src := c.Regs.R(0)
	dst := c.Regs.R(1)
	bus := c.Bus()

	header := bus.Read32(src)
	length := header >> 8
	dataBits := header & 0x0F // 4 or 8, the symbol width

	treeSize := bus.Read8(src + 4)
	treeStart := src + 5
	treeByteLen := uint32(treeSize)*2 + 1
	bitStart := treeStart + treeByteLen
	// bit stream is word-aligned
	bitStart = (bitStart + 3) &^ 3

	dstPos := dst
	written := uint32(0)
	var outWord uint32
	var outBits uint32

	readBit := func(pos *uint32, bitIdx *uint32) uint32 {
		word := bus.Read32(*pos)
		b := (word >> (31 - *bitIdx)) & 1
		*bitIdx++
		if *bitIdx == 32 {
			*bitIdx = 0
			*pos += 4
		}
		return b
	}

	bitPos := bitStart
	bitIdx := uint32(0)

	// walk the tree from the root (stored at treeStart) for each symbol.
	// Node byte: bits 0-5 are a child-pair offset in halfwords from the
	// node's own even-aligned address; bit 7 flags the left (bit==0)
	// child as a leaf, bit 6 flags the right (bit==1) child as a leaf.
	walk := func() uint32 {
		nodeAddr := treeStart
		node := bus.Read8(nodeAddr)
		for {
			bit := readBit(&bitPos, &bitIdx)
			offset := uint32(node&0x3F) + 1
			childAddr := (nodeAddr &^ 1) + offset*2 + bit

			leafFlagBit := byte(0x80)
			if bit == 1 {
				leafFlagBit = 0x40
			}
			leaf := node&leafFlagBit != 0

			node = bus.Read8(childAddr)
			nodeAddr = childAddr
			if leaf {
				return uint32(node)
			}
		}
	}

	for written < length {
		sym := walk()
		if dataBits == 8 {
			bus.Write8(dstPos, byte(sym))
			dstPos++
			written++
		} else {
			outWord |= sym << outBits
			outBits += dataBits
			if outBits >= 8 {
				bus.Write8(dstPos, byte(outWord))
				dstPos++
				outWord >>= 8
				outBits -= 8
				written++
			}
		}
	}
	return int(length)
}

// diffUnfilt implements SWI Diff8bitUnFilt/Diff16bitUnFilt: r0=src,
// r1=dst, width is 1 or 2 bytes. Each output unit is the running sum of
// the source stream's deltas -- the inverse of the differential filter
// the encoder applied, used by a handful of titles to shrink
// gradient-heavy graphics data.
func diffUnfilt(c *cpu.Core, width int) int {
	src := c.Regs.R(0)
	dst := c.Regs.R(1)
	bus := c.Bus()

	header := bus.Read32(src)
	length := header >> 8
	srcPos := src + 4
	dstPos := dst

	if width == 1 {
		var running uint8
		var written uint32
		for written < length {
			delta := bus.Read8(srcPos)
			srcPos++
			running += delta
			bus.Write8(dstPos, running)
			dstPos++
			written++
		}
	} else {
		var running uint16
		var written uint32
		for written < length {
			delta := bus.Read16(srcPos)
			srcPos += 2
			running += delta
			bus.Write16(dstPos, running)
			dstPos += 2
			written += 2
		}
	}
	return int(length)
}
