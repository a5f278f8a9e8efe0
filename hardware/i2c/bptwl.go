package i2c

// Register offsets within the BPTWL (battery/power/touchscreen/watchdog/
// LED) controller's file that the emulator models.
const (
	regBatteryLevel = 0x00
	regPowerFlags   = 0x10
)

// BPTWL is the DSi power-management IC: battery-level reporting and the
// power-button/reset latch that the ARM7 BIOS polls during shutdown.
type BPTWL struct {
	regs [32]byte
}

// NewBPTWL returns a BPTWL reporting a full, non-charging battery.
func NewBPTWL() *BPTWL {
	b := &BPTWL{}
	b.regs[regBatteryLevel] = 0x0F
	return b
}

func (b *BPTWL) ReadReg(reg uint8) uint8 {
	if int(reg) >= len(b.regs) {
		return 0xFF
	}
	return b.regs[reg]
}

func (b *BPTWL) WriteReg(reg uint8, v uint8) {
	if int(reg) >= len(b.regs) {
		return
	}
	b.regs[reg] = v
}

// BatteryLevel returns the reported battery level (0-15).
func (b *BPTWL) BatteryLevel() byte { return b.regs[regBatteryLevel] }
