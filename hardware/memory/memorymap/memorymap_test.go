package memorymap_test

import (
	"testing"

	"github.com/kaedeo/dscore/hardware/memory/memorymap"
)

func TestDecodeMainRAM(t *testing.T) {
	r, off := memorymap.Decode(memorymap.Arm9, 0x02000123)
	if r != memorymap.MainRAM {
		t.Fatalf("region=%v, wanted MainRAM", r)
	}
	if off != 0x123 {
		t.Fatalf("offset=%#x, wanted 0x123", off)
	}
}

func TestDecodeArm9BiosOnlyOnArm9(t *testing.T) {
	r, _ := memorymap.Decode(memorymap.Arm9, 0xFFFF0000)
	if r != memorymap.Arm9BIOS {
		t.Fatalf("region=%v, wanted Arm9BIOS", r)
	}
	r2, _ := memorymap.Decode(memorymap.Arm7, 0xFFFF0000)
	if r2 != memorymap.Unmapped {
		t.Fatalf("arm7 region=%v, wanted Unmapped", r2)
	}
}

func TestDecodeArm7PrivateBios(t *testing.T) {
	r, off := memorymap.Decode(memorymap.Arm7, 0x00000010)
	if r != memorymap.Arm7BIOS {
		t.Fatalf("region=%v, wanted Arm7BIOS", r)
	}
	if off != 0x10 {
		t.Fatalf("offset=%#x, wanted 0x10", off)
	}
}
