package spi

import (
	"github.com/kaedeo/dscore/firmware"
	"github.com/kaedeo/dscore/logger"
)

const (
	fwCmdWREN  = 0x06
	fwCmdWRDI  = 0x04
	fwCmdRDSR  = 0x05
	fwCmdRead  = 0x03
	fwCmdPW    = 0x0A
	fwCmdRDID  = 0x9F
)

type firmwarePhase int

const (
	fwIdle firmwarePhase = iota
	fwAddress
	fwDataIn
	fwDataOut
	fwID
)

// FirmwareDevice is the SPI-addressed firmware flash chip: 3-byte
// addressed reads always work, but page writes require a prior
// write-enable command, matching the write-protect behaviour real
// firmware flash parts use to guard their boot code.
type FirmwareDevice struct {
	c *firmware.Container

	writeEnable bool
	ph          firmwarePhase
	cmd         byte
	addrBytes   int
	addr        uint32
	idByte      int
}

// NewFirmwareDevice wraps a firmware container as an SPI device.
func NewFirmwareDevice(c *firmware.Container) *FirmwareDevice {
	return &FirmwareDevice{c: c}
}

func (d *FirmwareDevice) Select()   { d.ph = fwIdle; d.cmd = 0; d.addrBytes = 0; d.addr = 0 }
func (d *FirmwareDevice) Deselect() {}

func (d *FirmwareDevice) Transfer(in byte) byte {
	switch d.ph {
	case fwIdle:
		return d.acceptCommand(in)
	case fwAddress:
		return d.acceptAddressByte(in)
	case fwDataIn:
		d.writeByte(in)
		return 0xFF
	case fwDataOut:
		return d.readByte()
	case fwID:
		return d.readID()
	}
	return 0xFF
}

func (d *FirmwareDevice) acceptCommand(in byte) byte {
	d.cmd = in
	switch in {
	case fwCmdWREN:
		d.writeEnable = true
	case fwCmdWRDI:
		d.writeEnable = false
	case fwCmdRDSR:
		d.ph = fwDataOut
	case fwCmdRead, fwCmdPW:
		d.ph = fwAddress
		d.addrBytes = 0
		d.addr = 0
	case fwCmdRDID:
		d.ph = fwID
		d.idByte = 0
	default:
		logger.Log("spi", "unrecognised firmware command %#02x", in)
	}
	return 0xFF
}

func (d *FirmwareDevice) acceptAddressByte(in byte) byte {
	d.addr = d.addr<<8 | uint32(in)
	d.addrBytes++
	if d.addrBytes < 3 {
		return 0xFF
	}
	if d.cmd == fwCmdRead {
		d.ph = fwDataOut
	} else {
		d.ph = fwDataIn
	}
	return 0xFF
}

func (d *FirmwareDevice) readByte() byte {
	if d.cmd == fwCmdRDSR {
		var sr byte
		if d.writeEnable {
			sr |= 0x02
		}
		return sr
	}
	if d.c == nil || len(d.c.Buf) == 0 {
		return 0xFF
	}
	v := d.c.Buf[int(d.addr)%len(d.c.Buf)]
	d.addr++
	return v
}

func (d *FirmwareDevice) writeByte(v byte) {
	if !d.writeEnable || d.c == nil || len(d.c.Buf) == 0 {
		return
	}
	d.c.Buf[int(d.addr)%len(d.c.Buf)] = v
	d.addr++
}

// firmwareJEDECID is a plausible Macronix-style ID; games only check
// that some chip responds, not the exact identity.
var firmwareJEDECID = [3]byte{0xC2, 0x22, 0x14}

func (d *FirmwareDevice) readID() byte {
	if d.idByte >= len(firmwareJEDECID) {
		return 0x00
	}
	v := firmwareJEDECID[d.idByte]
	d.idByte++
	return v
}
