package i2c

import "testing"

func TestReadBatteryLevelThroughHost(t *testing.T) {
	bptwl := NewBPTWL()
	h := NewHost(bptwl, NewCamera(), NewCamera())

	h.StartTransaction()
	h.WriteData(addrBPTWL<<1 | 1) // address byte, read direction
	h.WriteCnt(cntStart)
	h.WriteData(regBatteryLevel) // register index byte
	h.WriteCnt(cntStart)
	h.WriteCnt(cntStart | cntDirRead) // clock the read

	if got := h.ReadData(); got != 0x0F {
		t.Fatalf("battery level = %#x, want 0x0F", got)
	}
}

func TestUnknownAddressSetsErrorBit(t *testing.T) {
	h := NewHost(NewBPTWL(), NewCamera(), NewCamera())
	h.StartTransaction()
	h.WriteData(0x10 << 1)
	h.WriteCnt(cntStart)

	if h.ReadCnt()&cntError == 0 {
		t.Fatal("expected error bit set for unknown device address")
	}
}

func TestCameraCaptureStartFlag(t *testing.T) {
	cam := NewCamera()
	h := NewHost(NewBPTWL(), cam, NewCamera())

	h.StartTransaction()
	h.WriteData(addrCamera0 << 1) // write direction
	h.WriteCnt(cntStart)
	h.WriteData(0x00) // register 0: capture control
	h.WriteCnt(cntStart)
	h.WriteData(0x01) // start capture
	h.WriteCnt(cntStart)

	if !cam.Capturing() {
		t.Fatal("expected camera to report capturing after register write")
	}
}
