package spi

import (
	"testing"

	"github.com/kaedeo/dscore/firmware"
)

func TestFirmwareReadRoundTrip(t *testing.T) {
	c := firmware.GenerateDefault()
	c.Buf[0x10] = 0xAB
	dev := NewFirmwareDevice(c)

	dev.Select()
	dev.Transfer(fwCmdRead)
	dev.Transfer(0x00)
	dev.Transfer(0x00)
	dev.Transfer(0x10)
	got := dev.Transfer(0x00)
	dev.Deselect()

	if got != 0xAB {
		t.Fatalf("got %#x, want 0xAB", got)
	}
}

func TestFirmwareWriteRequiresEnable(t *testing.T) {
	c := firmware.GenerateDefault()
	dev := NewFirmwareDevice(c)

	dev.Select()
	dev.Transfer(fwCmdPW)
	dev.Transfer(0x00)
	dev.Transfer(0x00)
	dev.Transfer(0x20)
	dev.Transfer(0xCD)
	dev.Deselect()

	if c.Buf[0x20] == 0xCD {
		t.Fatal("write should be ignored without WREN")
	}

	dev.Select()
	dev.Transfer(fwCmdWREN)
	dev.Deselect()
	dev.Select()
	dev.Transfer(fwCmdPW)
	dev.Transfer(0x00)
	dev.Transfer(0x00)
	dev.Transfer(0x20)
	dev.Transfer(0xCD)
	dev.Deselect()

	if c.Buf[0x20] != 0xCD {
		t.Fatal("write should succeed after WREN")
	}
}

func TestTouchscreenReportsReleasedWhenNotTouching(t *testing.T) {
	ts := NewTouchscreenDevice()
	ts.Select()
	ts.Transfer(0x90) // select Y channel
	hi := ts.Transfer(0x00)
	lo := ts.Transfer(0x00)
	ts.Deselect()

	v := uint16(hi)<<5 | uint16(lo)>>3
	if v != 0xFFF {
		t.Fatalf("released Y reading = %#x, want 0xFFF", v)
	}
}

func TestTouchscreenReportsPositionWhenTouching(t *testing.T) {
	ts := NewTouchscreenDevice()
	ts.SetTouch(true, 100, 200)

	ts.Select()
	ts.Transfer(0xD0) // select X channel
	hi := ts.Transfer(0x00)
	lo := ts.Transfer(0x00)
	ts.Deselect()

	v := uint16(hi)<<5 | uint16(lo)>>3
	if v != 100 {
		t.Fatalf("X reading = %d, want 100", v)
	}
}

func TestPMICBatteryLevelReadback(t *testing.T) {
	p := NewPMICDevice()
	p.Select()
	p.Transfer(0x81) // read register 1
	got := p.Transfer(0x00)
	p.Deselect()

	if got != 0x0F {
		t.Fatalf("battery level = %#x, want 0x0F", got)
	}
}

func TestBusSelectsAddressedDevice(t *testing.T) {
	c := firmware.GenerateDefault()
	fw := NewFirmwareDevice(c)
	ts := NewTouchscreenDevice()
	pm := NewPMICDevice()
	bus := NewBus(pm, fw, ts)

	bus.SetDevice(Touchscreen)
	bus.SetHold(true)
	bus.Transfer(0x90)
	bus.SetHold(false)

	bus.SetDevice(PowerMan)
	bus.SetHold(true)
	bus.Transfer(0x81)
	got := bus.Transfer(0x00)
	bus.SetHold(false)

	if got != 0x0F {
		t.Fatalf("bus-routed PMIC read = %#x, want 0x0F", got)
	}
}
