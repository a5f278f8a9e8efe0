package cartridgeloader

import (
	"encoding/binary"

	"github.com/kaedeo/dscore/errors"
)

const headerSize = 0x170

// Header is the subset of the 512-byte NDS/DSi ROM header the emulator
// needs to bring a cartridge up: load addresses for both ARM cores, the
// DSi unit-code bit, and the fields used to seed KEY1/KEY2 and the
// chip-ID response.
type Header struct {
	GameCode  uint32
	MakerCode uint16
	UnitCode  byte // bit1 set => carries DSi-enhanced or DSi-exclusive content

	Arm9RomOffset   uint32
	Arm9EntryAddr   uint32
	Arm9RamAddr     uint32
	Arm9Size        uint32
	Arm7RomOffset   uint32
	Arm7EntryAddr   uint32
	Arm7RamAddr     uint32
	Arm7Size        uint32

	RomSize uint32
}

// IsDSi reports whether the unit-code byte marks this title as carrying
// DSi-enhanced or DSi-exclusive content.
func (h Header) IsDSi() bool { return h.UnitCode&0x02 != 0 }

// ParseHeader reads the fixed-offset header fields out of rom. rom must
// be at least headerSize bytes; anything beyond that (secure area,
// DSi-region header extension, signatures) is left for the cartridge
// engine to interpret.
func ParseHeader(rom []byte) (Header, error) {
	if len(rom) < headerSize {
		return Header{}, errors.New(errors.RomInvalid, "header shorter than 0x170 bytes")
	}

	u32 := binary.LittleEndian.Uint32
	u16 := binary.LittleEndian.Uint16

	h := Header{
		GameCode:      u32(rom[0x0C:0x10]),
		MakerCode:     u16(rom[0x10:0x12]),
		UnitCode:      rom[0x12],
		Arm9RomOffset: u32(rom[0x20:0x24]),
		Arm9EntryAddr: u32(rom[0x24:0x28]),
		Arm9RamAddr:   u32(rom[0x28:0x2C]),
		Arm9Size:      u32(rom[0x2C:0x30]),
		Arm7RomOffset: u32(rom[0x30:0x34]),
		Arm7EntryAddr: u32(rom[0x34:0x38]),
		Arm7RamAddr:   u32(rom[0x38:0x3C]),
		Arm7Size:      u32(rom[0x3C:0x40]),
		RomSize:       u32(rom[0x80:0x84]),
	}
	return h, nil
}
