// Package dma implements the four general-purpose DMA channels each
// CPU owns, plus the DSi's wider NDMA channels. A channel is armed by
// a control write with the enable bit set; depending on its configured
// start mode it either fires immediately or waits for Trigger to be
// called with a matching StartMode by the peripheral (or scheduler
// callback) that owns that trigger condition.
package dma

import "github.com/kaedeo/dscore/hardware/interrupt"

// StartMode selects which event arms a channel's transfer.
type StartMode int

const (
	Immediate StartMode = iota
	VBlank
	HBlank
	ScanlineStart // ARM9 only
	SlotFIFO
	CartSlot
	GXFIFO      // ARM9 only
	WifiOrCart  // ARM7 only
)

// AddrControl selects how a channel steps its source or destination
// address after each transferred unit.
type AddrControl int

const (
	Increment AddrControl = iota
	Decrement
	Fixed
	IncrementReload // destination-only: reload to the original address on repeat
)

// Width is the per-unit transfer size in bytes.
type Width uint32

const (
	Width16 Width = 2
	Width32 Width = 4
)

// Bus is the memory interface a Controller transfers through. Bound to
// one CPU's address-space view (hardware/memory.CPUView satisfies it),
// so every transfer sees that CPU's MMIO side effects.
type Bus interface {
	Read16(addr uint32) uint16
	Read32(addr uint32) uint32
	Write16(addr uint32, v uint16)
	Write32(addr uint32, v uint32)
}

// Channel is one DMA channel's latched and configured state.
type Channel struct {
	// configured (as last written by the CPU)
	srcReg   uint32
	dstReg   uint32
	countReg uint32

	width     Width
	srcCtl    AddrControl
	dstCtl    AddrControl
	repeat    bool
	irqEnable bool
	startMode StartMode
	enabled   bool

	// latched at trigger time
	src, dst, count uint32

	maxCount uint32
}

// Controller owns one CPU's four DMA channels (or, for NDMA, as many
// wider channels as the caller configures).
type Controller struct {
	channels []Channel
	bus      Bus
	irq      *interrupt.Controller
	irqBase  uint // IRQ source bit for channel 0; channel i uses irqBase+i
}

// New returns a Controller with the classic four channels, each with a
// 21-bit word-count register (the NDS's general-purpose DMA counter
// width on both CPUs).
func New(bus Bus, irq *interrupt.Controller, irqBase uint) *Controller {
	c := &Controller{
		channels: make([]Channel, 4),
		bus:      bus,
		irq:      irq,
		irqBase:  irqBase,
	}
	for i := range c.channels {
		c.channels[i].maxCount = 1 << 21
	}
	return c
}

// NewNDMA returns a Controller for the DSi's wider NDMA block: n
// channels, each with a full 32-bit word-count register.
func NewNDMA(bus Bus, irq *interrupt.Controller, irqBase uint, n int) *Controller {
	c := &Controller{
		channels: make([]Channel, n),
		bus:      bus,
		irq:      irq,
		irqBase:  irqBase,
	}
	for i := range c.channels {
		c.channels[i].maxCount = 0 // 0 means "no implicit cap" for NDMA
	}
	return c
}

// SetSrc writes channel ch's source address register.
func (c *Controller) SetSrc(ch int, v uint32) { c.channels[ch].srcReg = v }

// SetDst writes channel ch's destination address register.
func (c *Controller) SetDst(ch int, v uint32) { c.channels[ch].dstReg = v }

// SetCount writes channel ch's word-count register.
func (c *Controller) SetCount(ch int, v uint32) { c.channels[ch].countReg = v }

// Control is the decoded form of a channel's control register, built
// by the MMIO glue layer from whatever raw bit layout it exposes to
// the guest and passed to SetControl.
type Control struct {
	Width     Width
	SrcCtl    AddrControl
	DstCtl    AddrControl
	Repeat    bool
	IRQEnable bool
	StartMode StartMode
	Enable    bool
}

// SetControl applies a decoded control word to channel ch. A
// false-to-true transition of Enable arms the channel: if StartMode is
// Immediate the transfer runs synchronously before SetControl returns;
// otherwise the channel waits for a matching Trigger call.
func (c *Controller) SetControl(ch int, ctrl Control) {
	channel := &c.channels[ch]
	wasEnabled := channel.enabled

	channel.width = ctrl.Width
	channel.srcCtl = ctrl.SrcCtl
	channel.dstCtl = ctrl.DstCtl
	channel.repeat = ctrl.Repeat
	channel.irqEnable = ctrl.IRQEnable
	channel.startMode = ctrl.StartMode
	channel.enabled = ctrl.Enable

	if !wasEnabled && ctrl.Enable {
		c.latch(channel)
		if ctrl.StartMode == Immediate {
			c.runTransfer(ch)
		}
	}
}

func (c *Controller) latch(channel *Channel) {
	channel.src = channel.srcReg
	channel.dst = channel.dstReg
	channel.count = channel.countReg
	if channel.count == 0 && channel.maxCount != 0 {
		channel.count = channel.maxCount
	}
}

// Trigger fires every armed channel whose StartMode matches mode, in
// priority order (channel 0 highest): each channel's whole transfer
// runs to completion before the next lower-priority channel starts,
// since transfers here are not interrupted mid-flight.
func (c *Controller) Trigger(mode StartMode) {
	for i := range c.channels {
		if c.channels[i].enabled && c.channels[i].startMode == mode {
			c.runTransfer(i)
		}
	}
}

func (c *Controller) runTransfer(ch int) {
	channel := &c.channels[ch]
	width := uint32(channel.width)

	src := channel.src
	dst := channel.dst
	for i := uint32(0); i < channel.count; i++ {
		if width == uint32(Width32) {
			c.bus.Write32(dst, c.bus.Read32(src))
		} else {
			c.bus.Write16(dst, c.bus.Read16(src))
		}

		src = stepAddr(src, channel.srcCtl, width)
		dst = stepAddr(dst, channel.dstCtl, width)
	}

	if channel.repeat {
		channel.count = channel.countReg
		if channel.count == 0 && channel.maxCount != 0 {
			channel.count = channel.maxCount
		}
		channel.src = src
		if channel.dstCtl == IncrementReload {
			channel.dst = channel.dstReg
		} else {
			channel.dst = dst
		}
	} else {
		channel.enabled = false
		channel.src = src
		channel.dst = dst
	}

	if channel.irqEnable {
		c.irq.Raise(c.irqBase + uint(ch))
	}
}

func stepAddr(addr uint32, ctl AddrControl, width uint32) uint32 {
	switch ctl {
	case Increment, IncrementReload:
		return addr + width
	case Decrement:
		return addr - width
	default: // Fixed
		return addr
	}
}

// Enabled reports whether channel ch is currently armed.
func (c *Controller) Enabled(ch int) bool { return c.channels[ch].enabled }

// Count returns channel ch's currently latched remaining word count.
func (c *Controller) Count(ch int) uint32 { return c.channels[ch].count }
