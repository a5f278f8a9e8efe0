package bios

import "github.com/kaedeo/dscore/hardware/cpu"

// divide implements SWI Div: r0 / r1 (signed 32-bit), returning quotient
// in r0, remainder in r1, abs(quotient) in r3.
func divide(c *cpu.Core) int {
	num := int32(c.Regs.R(0))
	den := int32(c.Regs.R(1))
	if den == 0 {
		// real BIOS hangs; emulated games never trigger this
		// deliberately, so returning zero is the safer HLE choice.
		c.Regs.SetR(0, 0)
		c.Regs.SetR(1, uint32(num))
		c.Regs.SetR(3, 0)
		return 0
	}
	q := num / den
	r := num % den
	abs := q
	if abs < 0 {
		abs = -abs
	}
	c.Regs.SetR(0, uint32(q))
	c.Regs.SetR(1, uint32(r))
	c.Regs.SetR(3, uint32(abs))
	return 0
}

// sqrt implements SWI Sqrt: integer square root of r0, returned in r0.
func sqrt(c *cpu.Core) int {
	n := c.Regs.R(0)
	if n == 0 {
		c.Regs.SetR(0, 0)
		return 0
	}
	// integer Newton's method, converges in well under 32 iterations
	// for any uint32 input.
	x := n
	y := x/2 + x%2
	for y < x {
		x = y
		y = (x + n/x) / 2
	}
	c.Regs.SetR(0, x)
	return 0
}

// getCRC16 implements SWI GetCRC16: CRC-16/ARC over r2 bytes starting at
// r1, seeded with r0, result in r0. Uses the same polynomial as the
// firmware container's checksum.
func getCRC16(c *cpu.Core) int {
	seed := uint16(c.Regs.R(0))
	addr := c.Regs.R(1)
	length := c.Regs.R(2)

	bus := c.Bus()
	crc := seed
	for i := uint32(0); i < length; i++ {
		b := bus.Read8(addr + i)
		crc = (crc >> 8) ^ crc16Table[byte(crc)^b]
	}
	c.Regs.SetR(0, uint32(crc))
	return 0
}

var crc16Table = func() [256]uint16 {
	var t [256]uint16
	for i := range t {
		v := uint16(i)
		for b := 0; b < 8; b++ {
			if v&1 != 0 {
				v = (v >> 1) ^ 0xA001
			} else {
				v >>= 1
			}
		}
		t[i] = v
	}
	return t
}()
