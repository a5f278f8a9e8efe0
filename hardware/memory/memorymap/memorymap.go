// Package memorymap decodes an address into the region that owns it,
// per the documented high-nibble partition. It knows
// nothing about backing storage; hardware/memory wires each Region to
// an actual buffer or MMIO handler.
package memorymap

// Region names the coarse address-space partition an address falls
// into.
type Region int

const (
	Unmapped Region = iota
	ITCM
	MainRAM
	SharedWRAM  // also ARM7-private WRAM on the ARM7 side, see Decode
	IO
	Palette
	VRAM
	OAM
	GBAROM // DSi Slot-2 / GBA cart window, out of scope beyond the stub
	GBARAM
	Arm9BIOS
	Arm7BIOS
	NewWRAM // DSi-only
)

func (r Region) String() string {
	switch r {
	case ITCM:
		return "ITCM"
	case MainRAM:
		return "MainRAM"
	case SharedWRAM:
		return "WRAM"
	case IO:
		return "IO"
	case Palette:
		return "Palette"
	case VRAM:
		return "VRAM"
	case OAM:
		return "OAM"
	case GBAROM:
		return "GBAROM"
	case GBARAM:
		return "GBARAM"
	case Arm9BIOS:
		return "ARM9BIOS"
	case Arm7BIOS:
		return "ARM7BIOS"
	case NewWRAM:
		return "NewWRAM"
	default:
		return "Unmapped"
	}
}

// Cpu distinguishes the two cores for decode tables that differ between
// them (ARM9 sees ITCM/DTCM and its own BIOS at 0xFFFF0000; ARM7 sees
// its private WRAM and BIOS at 0x00000000).
type Cpu int

const (
	Arm9 Cpu = iota
	Arm7
)

// Decode maps a 32-bit address to the region that owns it, for the
// given CPU. It masks the address to the window each region mirrors
// into ("Main RAM ... mirrored to fill 8 MiB window").
func Decode(cpu Cpu, addr uint32) (Region, uint32) {
	nibble := addr >> 24

	switch nibble {
	case 0x00:
		if cpu == Arm9 {
			return ITCM, addr & 0x7FFF
		}
		return Arm7BIOS, addr & 0x3FFF
	case 0x02:
		return MainRAM, addr & 0x3FFFFF // 4MiB mirrored across 8MiB window below
	case 0x03:
		return SharedWRAM, addr
	case 0x04:
		return IO, addr & 0x00FFFFFF
	case 0x05:
		return Palette, addr & 0x7FF
	case 0x06:
		return VRAM, addr & 0x00FFFFFF
	case 0x07:
		return OAM, addr & 0x7FF
	case 0x08, 0x09:
		return GBAROM, addr
	case 0x0A:
		return GBARAM, addr
	default:
		if cpu == Arm9 && nibble == 0xFF {
			return Arm9BIOS, addr & 0xFFF
		}
		return Unmapped, addr
	}
}
