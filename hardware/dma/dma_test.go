package dma

import (
	"testing"

	"github.com/kaedeo/dscore/hardware/interrupt"
)

type fakeBus struct {
	mem [1 << 16]byte
}

func (b *fakeBus) Read16(addr uint32) uint16 {
	return uint16(b.mem[addr]) | uint16(b.mem[addr+1])<<8
}
func (b *fakeBus) Read32(addr uint32) uint32 {
	return uint32(b.Read16(addr)) | uint32(b.Read16(addr+2))<<16
}
func (b *fakeBus) Write16(addr uint32, v uint16) {
	b.mem[addr] = uint8(v)
	b.mem[addr+1] = uint8(v >> 8)
}
func (b *fakeBus) Write32(addr uint32, v uint32) {
	b.Write16(addr, uint16(v))
	b.Write16(addr+2, uint16(v>>16))
}

func TestImmediateTransferRunsAtEnable(t *testing.T) {
	bus := &fakeBus{}
	bus.Write32(0x100, 0xCAFEBABE)
	irq := interrupt.New()
	c := New(bus, irq, 8)

	c.SetSrc(0, 0x100)
	c.SetDst(0, 0x200)
	c.SetCount(0, 1)
	c.SetControl(0, Control{Width: Width32, StartMode: Immediate, Enable: true})

	if got := bus.Read32(0x200); got != 0xCAFEBABE {
		t.Fatalf("got %#x, want 0xCAFEBABE", got)
	}
	if c.Enabled(0) {
		t.Fatal("non-repeat channel should clear enable after completion")
	}
}

func TestZeroCountLatchesMaxCount(t *testing.T) {
	bus := &fakeBus{}
	irq := interrupt.New()
	c := New(bus, irq, 8)

	c.SetSrc(0, 0)
	c.SetDst(0, 0)
	c.SetCount(0, 0)
	c.SetControl(0, Control{Width: Width16, StartMode: VBlank, Enable: true})

	if c.Count(0) != 1<<21 {
		t.Fatalf("count = %d, want %d", c.Count(0), 1<<21)
	}
}

func TestTriggerRunsOnlyMatchingStartMode(t *testing.T) {
	bus := &fakeBus{}
	bus.Write16(0x10, 0x1234)
	irq := interrupt.New()
	c := New(bus, irq, 8)

	c.SetSrc(0, 0x10)
	c.SetDst(0, 0x20)
	c.SetCount(0, 1)
	c.SetControl(0, Control{Width: Width16, StartMode: HBlank, Enable: true})

	c.Trigger(VBlank)
	if bus.Read16(0x20) != 0 {
		t.Fatal("HBlank channel fired on VBlank trigger")
	}

	c.Trigger(HBlank)
	if bus.Read16(0x20) != 0x1234 {
		t.Fatal("HBlank channel did not fire on matching trigger")
	}
}

func TestRepeatReloadsCountAndDestination(t *testing.T) {
	bus := &fakeBus{}
	irq := interrupt.New()
	c := New(bus, irq, 8)

	c.SetSrc(0, 0x10)
	c.SetDst(0, 0x20)
	c.SetCount(0, 4)
	c.SetControl(0, Control{
		Width: Width16, StartMode: HBlank, Enable: true,
		Repeat: true, DstCtl: IncrementReload,
	})

	c.Trigger(HBlank)
	if !c.Enabled(0) {
		t.Fatal("repeat channel cleared enable after one firing")
	}
	if c.Count(0) != 4 {
		t.Fatalf("count after repeat = %d, want 4", c.Count(0))
	}
	if c.channels[0].dst != 0x20 {
		t.Fatalf("destination after repeat = %#x, want 0x20", c.channels[0].dst)
	}
}

func TestIRQRaisedOnCompletion(t *testing.T) {
	bus := &fakeBus{}
	irq := interrupt.New()
	irq.SetIME(true)
	irq.SetIE(1 << 8)
	c := New(bus, irq, 8)

	c.SetSrc(0, 0)
	c.SetDst(0, 0)
	c.SetCount(0, 1)
	c.SetControl(0, Control{Width: Width16, StartMode: Immediate, Enable: true, IRQEnable: true})

	if !irq.Poll() {
		t.Fatal("expected channel-0 completion IRQ to be pending")
	}
}
