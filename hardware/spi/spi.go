// Package spi implements the NDS's shared SPI bus: a single byte-wide
// shift register multiplexed between the firmware flash, the
// touchscreen/ADC controller, and the power-management IC by a 2-bit
// device-select field in SPICNT. Only one device is ever selected at a
// time; bytes written while a device is selected are shifted through
// that device's own command state machine.
package spi

// Device is one chip hanging off the SPI bus. Select is called when the
// bus's chip-select line drops for this device (SPICNT device-select
// field chosen and hold bit transitioning low-to-high), Deselect when it
// releases.
type Device interface {
	Select()
	Deselect()
	Transfer(in byte) byte
}

// DeviceID identifies which of the three devices SPICNT's device-select
// field is pointing at.
type DeviceID uint8

const (
	PowerMan    DeviceID = 0
	Firmware    DeviceID = 1
	Touchscreen DeviceID = 2
)

// Bus holds the three fixed devices and tracks which one is currently
// addressed and held selected.
type Bus struct {
	devices  [3]Device
	selected DeviceID
	held     bool
}

// NewBus wires the three SPI peripherals into one shared bus.
func NewBus(powerman, firmware, touchscreen Device) *Bus {
	return &Bus{devices: [3]Device{powerman, firmware, touchscreen}}
}

// SetDevice latches which device subsequent Transfer calls address
// (SPICNT bits 8-9), mirroring real hardware where this takes effect
// immediately regardless of hold state.
func (b *Bus) SetDevice(id DeviceID) {
	if b.held && id != b.selected {
		b.devices[b.selected].Deselect()
		b.held = false
	}
	b.selected = id
}

// SetHold raises or drops the chip-select hold bit (SPICNT bit 11). A
// rising edge opens a new command on the currently selected device.
func (b *Bus) SetHold(hold bool) {
	if hold && !b.held {
		b.devices[b.selected].Select()
	} else if !hold && b.held {
		b.devices[b.selected].Deselect()
	}
	b.held = hold
}

// Transfer shifts one byte through whichever device is currently
// selected, returning the byte shifted back.
func (b *Bus) Transfer(in byte) byte {
	return b.devices[b.selected].Transfer(in)
}
