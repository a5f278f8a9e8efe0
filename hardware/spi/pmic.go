package spi

// PMICDevice models the power-management IC's tiny register file:
// battery level, backlight, and the power/volume button latches. Reads
// and writes are one register byte followed by one data byte; bit 7 of
// the register byte selects read (set) vs write (clear), matching the
// real part's command framing.
type PMICDevice struct {
	regs    [8]byte
	pending int // -1 idle, else register index awaiting its data byte
	reading bool
}

// NewPMICDevice returns a PMIC with a full, non-charging battery.
func NewPMICDevice() *PMICDevice {
	p := &PMICDevice{pending: -1}
	p.regs[1] = 0x0F // battery level register, full charge
	return p
}

func (p *PMICDevice) Select()   { p.pending = -1 }
func (p *PMICDevice) Deselect() {}

func (p *PMICDevice) Transfer(in byte) byte {
	if p.pending < 0 {
		p.pending = int(in & 0x07)
		p.reading = in&0x80 != 0
		return 0xFF
	}

	reg := p.pending
	p.pending = -1
	if p.reading {
		return p.regs[reg]
	}
	p.regs[reg] = in
	return 0xFF
}

// BatteryLevel returns the 4-bit battery-level register (0 empty, 0xF
// full).
func (p *PMICDevice) BatteryLevel() byte { return p.regs[1] & 0x0F }
