// Package hardware assembles the two CPU cores and every peripheral
// into one console, and owns the register-level MMIO glue that
// translates raw CPU reads/writes into calls on each peripheral
// package's own accessor methods. Peripheral packages (dma, timers,
// ipc, interrupt, cartridge, spi, i2c) know nothing about register
// addresses or bit layout; that translation lives entirely here, the
// way a real IO-register block sits between the bus and internal
// peripheral state.
package hardware

import (
	"github.com/kaedeo/dscore/hardware/cartridge"
	"github.com/kaedeo/dscore/hardware/dma"
	"github.com/kaedeo/dscore/hardware/i2c"
	"github.com/kaedeo/dscore/hardware/interrupt"
	"github.com/kaedeo/dscore/hardware/ipc"
	"github.com/kaedeo/dscore/hardware/saveram"
	"github.com/kaedeo/dscore/hardware/spi"
	"github.com/kaedeo/dscore/hardware/timers"
	"github.com/kaedeo/dscore/logger"
)

// dmaRegs adapts one CPU's four-channel dma.Controller to the MMIO
// window at 0x040000B0, stride 0x0C per channel: SAD(4) DAD(4)
// CNT_L(2) CNT_H(2).
type dmaRegs struct {
	c        *dma.Controller
	base     uint32
	channels int
	// shadow holds the last-written CNT_H per channel so a narrow
	// (8/16-bit) write to half the register can be merged with the
	// other half before being decoded, the same way real MMIO
	// read-modify-write behaves for sub-word accesses.
	cntH []uint16
}

func newDMARegs(c *dma.Controller, base uint32, channels int) *dmaRegs {
	return &dmaRegs{c: c, base: base, channels: channels, cntH: make([]uint16, channels)}
}

const dmaStride = 0x0C

func (d *dmaRegs) decodeChannel(addr uint32) (ch int, reg uint32, ok bool) {
	if addr < d.base {
		return 0, 0, false
	}
	off := addr - d.base
	span := uint32(d.channels) * dmaStride
	if off >= span {
		return 0, 0, false
	}
	ch = int(off / dmaStride)
	reg = off % dmaStride
	return ch, reg, true
}

func (d *dmaRegs) ReadMMIO(addr uint32, width int) (uint32, bool) {
	ch, reg, ok := d.decodeChannel(addr)
	if !ok {
		return 0, false
	}
	switch {
	case reg < 4:
		return 0, true // SAD/DAD are write-only on real hardware
	case reg < 8:
		return 0, true
	case reg == 8:
		return uint32(d.c.Count(ch)), true
	case reg == 0x0A:
		return uint32(d.cntH[ch]), true
	}
	return 0, false
}

func (d *dmaRegs) WriteMMIO(addr uint32, width int, v uint32) bool {
	ch, reg, ok := d.decodeChannel(addr)
	if !ok {
		return false
	}
	switch {
	case reg == 0:
		d.c.SetSrc(ch, v)
	case reg == 4:
		d.c.SetDst(ch, v)
	case reg == 8:
		d.c.SetCount(ch, v)
	case reg == 0x0A || reg == 0x0B:
		if width == 1 {
			shift := (reg - 0x0A) * 8
			d.cntH[ch] = d.cntH[ch]&^(0xFF<<shift) | uint16(v&0xFF)<<shift
		} else {
			d.cntH[ch] = uint16(v)
		}
		d.c.SetControl(ch, decodeDMAControl(d.cntH[ch]))
	default:
		return false
	}
	return true
}

// decodeDMAControl unpacks a DMACNT_H value. The bit assignment
// mirrors the shape documented for the NDS's general-purpose DMA
// channels; width/addressing fields are authoritative, the precise
// placement of less commonly used fields (DRQ-style cart triggers) is
// not claimed to be bit-exact with real silicon.
func decodeDMAControl(cntH uint16) dma.Control {
	return dma.Control{
		DstCtl:    dma.AddrControl((cntH >> 5) & 0x3),
		SrcCtl:    dma.AddrControl((cntH >> 7) & 0x3),
		Repeat:    cntH&(1<<9) != 0,
		Width:     widthFromBit(cntH&(1<<10) != 0),
		StartMode: dma.StartMode((cntH >> 11) & 0x7),
		IRQEnable: cntH&(1<<14) != 0,
		Enable:    cntH&(1<<15) != 0,
	}
}

func widthFromBit(wide bool) dma.Width {
	if wide {
		return dma.Width32
	}
	return dma.Width16
}

// timerRegs adapts one CPU's four-channel timers.Controller to the
// MMIO window at 0x04000100, stride 4 per channel: CNT_L(2) CNT_H(2).
type timerRegs struct {
	c      *timers.Controller
	base   uint32
	reload [4]uint16
}

func newTimerRegs(c *timers.Controller, base uint32) *timerRegs { return &timerRegs{c: c, base: base} }

func (t *timerRegs) decode(addr uint32) (ch int, reg uint32, ok bool) {
	if addr < t.base || addr-t.base >= 0x10 {
		return 0, 0, false
	}
	off := addr - t.base
	return int(off / 4), off % 4, true
}

func (t *timerRegs) ReadMMIO(addr uint32, width int) (uint32, bool) {
	ch, reg, ok := t.decode(addr)
	if !ok {
		return 0, false
	}
	switch reg {
	case 0:
		return uint32(t.c.Value(ch)), true
	case 2:
		return 0, true // CNT_H has no meaningful read-back fields modeled here
	}
	return 0, false
}

func (t *timerRegs) WriteMMIO(addr uint32, width int, v uint32) bool {
	ch, reg, ok := t.decode(addr)
	if !ok {
		return false
	}
	switch reg {
	case 0:
		t.reload[ch] = uint16(v)
		t.c.SetReload(ch, t.reload[ch])
	case 2:
		cntH := uint16(v)
		prescalerSel := uint8(cntH & 0x3)
		cascade := cntH&(1<<2) != 0
		irqEnable := cntH&(1<<6) != 0
		enable := cntH&(1<<7) != 0
		t.c.SetControl(ch, prescalerSel, cascade, irqEnable, enable)
	default:
		return false
	}
	return true
}

// ipcRegs adapts an ipc.Link to the IPC register window for one side:
// IPCSYNC at 0x04000180, IPCFIFOCNT at 0x04000184, IPCFIFOSEND at
// 0x04000188, and IPCFIFORECV mapped through the FIFO shadow window at
// 0x04100000. The neighbouring 0x04100010 shadow word is ROMDATA's, not
// IPC's, and is owned by cartRegs instead.
type ipcRegs struct {
	l    *ipc.Link
	side ipc.Side
}

func newIPCRegs(l *ipc.Link, side ipc.Side) *ipcRegs { return &ipcRegs{l: l, side: side} }

func (r *ipcRegs) ReadMMIO(addr uint32, width int) (uint32, bool) {
	switch addr {
	case 0x180:
		v := uint32(r.l.SyncIn(r.side)) | uint32(r.l.SyncOut(r.side))<<8
		return v, true
	case 0x184:
		return r.fifoCnt(), true
	case 0x100000:
		return r.l.Recv(r.side), true
	}
	return 0, false
}

func (r *ipcRegs) fifoCnt() uint32 {
	var v uint32
	if r.l.SendQueueEmpty(r.side) {
		v |= 1 << 0
	}
	if r.l.SendQueueFull(r.side) {
		v |= 1 << 1
	}
	if r.l.RecvQueueEmpty(r.side) {
		v |= 1 << 8
	}
	if r.l.Error(r.side) {
		v |= 1 << 14
	}
	return v
}

func (r *ipcRegs) WriteMMIO(addr uint32, width int, v uint32) bool {
	switch addr {
	case 0x180:
		r.l.SyncWrite(r.side, uint8((v>>8)&0xF), v&(1<<13) != 0)
		return true
	case 0x184:
		if v&(1<<3) != 0 {
			r.l.SetSendEmptyIRQEnable(r.side, true)
		} else {
			r.l.SetSendEmptyIRQEnable(r.side, false)
		}
		r.l.SetRecvNonEmptyIRQEnable(r.side, v&(1<<10) != 0)
		if v&(1<<14) != 0 {
			r.l.Clear(r.side)
		}
		r.l.SetFIFOEnable(r.side, v&(1<<15) != 0)
		return true
	case 0x188, 0x100000:
		r.l.Send(r.side, v)
		return true
	}
	return false
}

// spiRegs adapts spi.Bus to SPICNT/SPIDATA at 0x040001C0/0x040001C2:
// writing SPICNT's device-select field and hold bit selects and holds
// a device the way the bus's own SetDevice/SetHold expect, and writing
// SPIDATA shifts one byte through whichever device is currently
// selected, latching the response for the next read.
type spiRegs struct {
	bus  *spi.Bus
	cnt  uint16
	data uint16
}

func newSPIRegs(bus *spi.Bus) *spiRegs { return &spiRegs{bus: bus} }

const (
	spiCntOff  = 0x1C0
	spiDataOff = 0x1C2
)

func (s *spiRegs) ReadMMIO(addr uint32, width int) (uint32, bool) {
	switch addr {
	case spiCntOff:
		return uint32(s.cnt), true
	case spiDataOff:
		return uint32(s.data), true
	}
	return 0, false
}

func (s *spiRegs) WriteMMIO(addr uint32, width int, v uint32) bool {
	switch addr {
	case spiCntOff:
		s.cnt = uint16(v)
		s.bus.SetDevice(spi.DeviceID((s.cnt >> 8) & 0x3))
		s.bus.SetHold(s.cnt&(1<<11) != 0)
		return true
	case spiDataOff:
		if s.cnt&(1<<15) != 0 {
			s.data = uint16(s.bus.Transfer(byte(v)))
		}
		return true
	}
	return false
}

// i2cRegs adapts an i2c.Host to the DSi-only I2CDATA/I2CCNT register
// pair at 0x040004A0/0x040004A4. Every bit but the stop bit is
// forwarded verbatim to WriteCnt, whose own phase state machine
// interprets the per-byte start pulse; the stop bit resets the host to
// a fresh address phase so the next transaction can address a
// different device.
type i2cRegs struct {
	h *i2c.Host
}

func newI2CRegs(h *i2c.Host) *i2cRegs { return &i2cRegs{h: h} }

const (
	i2cDataOff = 0x4A0
	i2cCntOff  = 0x4A4
	i2cCntStop = 1 << 6
)

func (r *i2cRegs) ReadMMIO(addr uint32, width int) (uint32, bool) {
	switch addr {
	case i2cDataOff:
		return uint32(r.h.ReadData()), true
	case i2cCntOff:
		return uint32(r.h.ReadCnt()), true
	}
	return 0, false
}

func (r *i2cRegs) WriteMMIO(addr uint32, width int, v uint32) bool {
	switch addr {
	case i2cDataOff:
		r.h.WriteData(byte(v))
		return true
	case i2cCntOff:
		r.h.WriteCnt(byte(v) &^ i2cCntStop)
		if byte(v)&i2cCntStop != 0 {
			r.h.StartTransaction()
		}
		return true
	}
	return false
}

// cartRegs adapts the cartridge command bus to the MMIO window at
// 0x040001A0: AUXSPICNT/AUXSPIDATA (the save-chip SPI pair, forwarded
// to the save-RAM manager's own Start/Transfer state machine) and
// ROMCTRL plus the 8-byte command register (forwarded to
// cartridge.Engine.Execute). ROMDATA, the 32-bit result port, is
// mapped separately through the FIFO shadow window at 0x04100010.
type cartRegs struct {
	e    *cartridge.Engine
	save *saveram.Manager

	auxCnt  uint16
	auxData byte

	romCtrl uint32
	cmd     [8]byte

	result []uint32
}

func newCartRegs(e *cartridge.Engine, save *saveram.Manager) *cartRegs {
	return &cartRegs{e: e, save: save}
}

const (
	auxSPICntOff  = 0x1A0
	auxSPIDataOff = 0x1A2
	romCtrlOff    = 0x1A4
	romCmdOff     = 0x1A8
	romDataOff    = 0x100010
)

func (c *cartRegs) ReadMMIO(addr uint32, width int) (uint32, bool) {
	switch {
	case addr == auxSPICntOff:
		return uint32(c.auxCnt), true
	case addr == auxSPIDataOff:
		return uint32(c.auxData), true
	case addr == romCtrlOff:
		return c.romCtrl, true
	case addr >= romCmdOff && addr < romCmdOff+8:
		return 0, true // the command register is write-only on real hardware
	case addr == romDataOff:
		return c.popResult(), true
	}
	return 0, false
}

func (c *cartRegs) popResult() uint32 {
	if len(c.result) == 0 {
		return 0xFFFFFFFF
	}
	v := c.result[0]
	c.result = c.result[1:]
	return v
}

func (c *cartRegs) WriteMMIO(addr uint32, width int, v uint32) bool {
	switch {
	case addr == auxSPICntOff:
		held := c.auxCnt&(1<<6) != 0
		c.auxCnt = uint16(v)
		if c.auxCnt&(1<<6) != 0 && !held {
			c.save.Start()
		}
		return true
	case addr == auxSPIDataOff:
		c.auxData = byte(v)
		if c.auxCnt&(1<<15) != 0 {
			c.auxData = c.save.Transfer(c.auxData)
		}
		return true
	case addr == romCtrlOff:
		c.romCtrl = v
		if v&(1<<31) != 0 {
			c.runCommand()
			c.romCtrl &^= 1 << 31
		}
		return true
	case addr >= romCmdOff && addr < romCmdOff+8:
		c.cmd[addr-romCmdOff] = byte(v)
		return true
	}
	return false
}

// blockWords decodes ROMCTRL's block-size field (bits 24-26) into the
// declared word count Execute should return, per the documented NDS
// cart-bus block-size table; encoding 7 (the chip-ID/plaintext-header
// commands) is mapped to a single word rather than the 4 bytes the raw
// field name suggests.
func blockWords(ctrl uint32) uint32 {
	switch (ctrl >> 24) & 0x7 {
	case 0:
		return 0
	case 7:
		return 1
	default:
		return 0x20 << ((ctrl >> 24) & 0x7)
	}
}

func (c *cartRegs) runCommand() {
	words, err := c.e.Execute(c.cmd, blockWords(c.romCtrl))
	if err != nil {
		logger.Log("cartridge", "command execute failed: %v", err)
		return
	}
	c.result = words
}

// irqRegs adapts an interrupt.Controller to IME/IE/IF at 0x04000208,
// 0x04000210, 0x04000214, plus the DSi ARM7-only extended IE2/IF2 pair
// at 0x04000218/0x0400021C.
type irqRegs struct {
	c *interrupt.Controller
}

func newIRQRegs(c *interrupt.Controller) *irqRegs { return &irqRegs{c: c} }

func (r *irqRegs) ReadMMIO(addr uint32, width int) (uint32, bool) {
	switch addr {
	case 0x208:
		if r.c.IME() {
			return 1, true
		}
		return 0, true
	case 0x210:
		return r.c.IE(), true
	case 0x214:
		return r.c.IF(), true
	case 0x218:
		return r.c.IE2(), true
	case 0x21C:
		return r.c.IF2(), true
	}
	return 0, false
}

func (r *irqRegs) WriteMMIO(addr uint32, width int, v uint32) bool {
	switch addr {
	case 0x208:
		r.c.SetIME(v&1 != 0)
	case 0x210:
		r.c.SetIE(v)
	case 0x214:
		r.c.Acknowledge(v)
	case 0x218:
		r.c.SetIE2(v)
	case 0x21C:
		r.c.AcknowledgeExt(v)
	default:
		return false
	}
	return true
}

// keypadRegs exposes the read-only KEYINPUT/KEYCNT/EXTKEYIN registers
// at 0x04000130/0x04000132/0x04000136. Button/keypad-IRQ state is
// owned by the Console, which writes it here through SetKeys; there is
// no guest-visible interrupt-condition evaluation modeled beyond
// storing KEYCNT's raw value.
type keypadRegs struct {
	keys   uint16 // active-low, bit per button, per KEYINPUT convention
	keycnt uint16
	extkey uint16 // DSi lid/hinge + folder bits, active-low
}

func newKeypadRegs() *keypadRegs { return &keypadRegs{keys: 0x03FF, extkey: 0x007F} }

func (k *keypadRegs) SetKeys(mask uint16) { k.keys = ^mask & 0x03FF }

func (k *keypadRegs) ReadMMIO(addr uint32, width int) (uint32, bool) {
	switch addr {
	case 0x130:
		return uint32(k.keys), true
	case 0x132:
		return uint32(k.keycnt), true
	case 0x136:
		return uint32(k.extkey), true
	}
	return 0, false
}

func (k *keypadRegs) WriteMMIO(addr uint32, width int, v uint32) bool {
	if addr == 0x132 {
		k.keycnt = uint16(v)
		return true
	}
	return false
}
