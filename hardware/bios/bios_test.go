package bios

import (
	"testing"

	"github.com/kaedeo/dscore/hardware/cpu"
	"github.com/kaedeo/dscore/hardware/interrupt"
)

// flatBus is a minimal byte-addressable RAM used only to exercise the
// HLE routines' memory traffic, independent of the real MemoryMap.
type flatBus struct {
	mem [0x10000]byte
}

func (b *flatBus) Read8(addr uint32) uint8   { return b.mem[addr&0xFFFF] }
func (b *flatBus) Read16(addr uint32) uint16 {
	a := addr & 0xFFFF
	return uint16(b.mem[a]) | uint16(b.mem[a+1])<<8
}
func (b *flatBus) Read32(addr uint32) uint32 {
	a := addr & 0xFFFF
	return uint32(b.mem[a]) | uint32(b.mem[a+1])<<8 | uint32(b.mem[a+2])<<16 | uint32(b.mem[a+3])<<24
}
func (b *flatBus) Write8(addr uint32, v uint8) { b.mem[addr&0xFFFF] = v }
func (b *flatBus) Write16(addr uint32, v uint16) {
	a := addr & 0xFFFF
	b.mem[a] = byte(v)
	b.mem[a+1] = byte(v >> 8)
}
func (b *flatBus) Write32(addr uint32, v uint32) {
	a := addr & 0xFFFF
	b.mem[a] = byte(v)
	b.mem[a+1] = byte(v >> 8)
	b.mem[a+2] = byte(v >> 16)
	b.mem[a+3] = byte(v >> 24)
}

func newTestCore() (*cpu.Core, *flatBus) {
	bus := &flatBus{}
	irq := interrupt.New()
	c := cpu.NewCore(cpu.Arm7TDMI, bus, irq)
	return c, bus
}

func TestHandlerDivide(t *testing.T) {
	c, _ := newTestCore()
	num := int32(-7)
	c.Regs.SetR(0, uint32(num))
	c.Regs.SetR(1, uint32(int32(2)))
	Handler(c, 0x06)
	if got := int32(c.Regs.R(0)); got != -3 {
		t.Fatalf("quotient = %d, want -3", got)
	}
	if got := int32(c.Regs.R(1)); got != -1 {
		t.Fatalf("remainder = %d, want -1", got)
	}
	if got := c.Regs.R(3); got != 3 {
		t.Fatalf("abs(quotient) = %d, want 3", got)
	}
}

func TestHandlerSqrt(t *testing.T) {
	c, _ := newTestCore()
	c.Regs.SetR(0, 144)
	Handler(c, 0x08)
	if got := c.Regs.R(0); got != 12 {
		t.Fatalf("sqrt(144) = %d, want 12", got)
	}
}

func TestHandlerGetCRC16(t *testing.T) {
	c, bus := newTestCore()
	data := []byte{0x01, 0x02, 0x03, 0x04}
	for i, b := range data {
		bus.Write8(uint32(0x1000+i), b)
	}
	c.Regs.SetR(0, 0xFFFF)
	c.Regs.SetR(1, 0x1000)
	c.Regs.SetR(2, uint32(len(data)))
	Handler(c, 0x09)

	want := uint16(0xFFFF)
	for _, b := range data {
		want = (want >> 8) ^ crc16Table[byte(want)^b]
	}
	if got := uint16(c.Regs.R(0)); got != want {
		t.Fatalf("crc16 = %#x, want %#x", got, want)
	}
}

func TestHandlerCpuSetCopy32(t *testing.T) {
	c, bus := newTestCore()
	for i := 0; i < 4; i++ {
		bus.Write32(uint32(0x2000+i*4), uint32(0xAA000000+i))
	}
	c.Regs.SetR(0, 0x2000)
	c.Regs.SetR(1, 0x3000)
	c.Regs.SetR(2, 4|(1<<26))
	Handler(c, 0x0B)

	for i := 0; i < 4; i++ {
		want := uint32(0xAA000000 + i)
		if got := bus.Read32(uint32(0x3000 + i*4)); got != want {
			t.Fatalf("word %d = %#x, want %#x", i, got, want)
		}
	}
}

func TestHandlerCpuSetFixedSourceFill16(t *testing.T) {
	c, bus := newTestCore()
	bus.Write16(0x2000, 0x1234)
	c.Regs.SetR(0, 0x2000)
	c.Regs.SetR(1, 0x3000)
	c.Regs.SetR(2, 4|(1<<24))
	Handler(c, 0x0B)

	for i := 0; i < 4; i++ {
		if got := bus.Read16(uint32(0x3000 + i*2)); got != 0x1234 {
			t.Fatalf("halfword %d = %#x, want 0x1234", i, got)
		}
	}
}

func TestHandlerIntrWaitHaltsCore(t *testing.T) {
	c, _ := newTestCore()
	c.Regs.SetR(0, 1)
	c.Regs.SetR(1, 1)
	Handler(c, 0x04)
	if !c.Halted() {
		t.Fatal("core should be halted after IntrWait")
	}
	if !c.IntrWait.Active {
		t.Fatal("IntrWait.Active should be set")
	}
}

func TestHandlerLZ77UnComp(t *testing.T) {
	c, bus := newTestCore()
	// header: type nibble irrelevant to HLE, length = 6 ("AAAAAA")
	bus.Write32(0x1000, 6<<8)
	// one literal 'A', then a back-reference copying 5 more from
	// distance 1 (disp field 0 -> copyFrom = dstPos-1).
	bus.Write8(0x1004, 0x40) // flags: bit7=0 (literal), bit6=1 (backref)
	bus.Write8(0x1005, 'A')
	bus.Write8(0x1006, 0x20) // runLen = (0x20>>4)+3 = 5, disp high nibble 0
	bus.Write8(0x1007, 0x00) // disp low byte 0 -> disp = 0

	c.Regs.SetR(0, 0x1000)
	c.Regs.SetR(1, 0x4000)
	Handler(c, 0x11)

	for i := 0; i < 6; i++ {
		if got := bus.Read8(uint32(0x4000 + i)); got != 'A' {
			t.Fatalf("byte %d = %q, want 'A'", i, got)
		}
	}
}

func TestHandlerRLUnComp(t *testing.T) {
	c, bus := newTestCore()
	bus.Write32(0x1000, 5<<8) // decompressed length 5
	bus.Write8(0x1004, 0x80)  // compressed run, top bit set, low7=0 -> len 3
	bus.Write8(0x1005, 0x7A)
	bus.Write8(0x1006, 0x01) // literal run, len = 1+1 = 2
	bus.Write8(0x1007, 0x11)
	bus.Write8(0x1008, 0x22)

	c.Regs.SetR(0, 0x1000)
	c.Regs.SetR(1, 0x4000)
	Handler(c, 0x14)

	want := []byte{0x7A, 0x7A, 0x7A, 0x11, 0x22}
	for i, w := range want {
		if got := bus.Read8(uint32(0x4000 + i)); got != w {
			t.Fatalf("byte %d = %#x, want %#x", i, got, w)
		}
	}
}

func TestHandlerDiff8Unfilt(t *testing.T) {
	c, bus := newTestCore()
	bus.Write32(0x1000, 3<<8)
	bus.Write8(0x1004, 10)
	bus.Write8(0x1005, 5)
	bus.Write8(0x1006, 250)

	c.Regs.SetR(0, 0x1000)
	c.Regs.SetR(1, 0x4000)
	Handler(c, 0x16)

	want := []byte{10, 15, 9} // 15+250 wraps mod 256
	for i, w := range want {
		if got := bus.Read8(uint32(0x4000 + i)); got != w {
			t.Fatalf("byte %d = %d, want %d", i, got, w)
		}
	}
}

func TestHandlerUnknownSWIIsNoop(t *testing.T) {
	c, _ := newTestCore()
	if cycles := Handler(c, 0x1F); cycles != 0 {
		t.Fatalf("unimplemented SWI returned %d cycles, want 0", cycles)
	}
}
