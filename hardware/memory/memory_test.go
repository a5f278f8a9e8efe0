package memory_test

import (
	"testing"

	"github.com/kaedeo/dscore/hardware/memory"
	"github.com/kaedeo/dscore/hardware/memory/memorymap"
)

func TestWriteReadRoundTrip(t *testing.T) {
	m := memory.New(false)

	m.Write32(memorymap.Arm9, 0x02000000, 0xDEADBEEF)
	if got := m.Read32(memorymap.Arm9, 0x02000000); got != 0xDEADBEEF {
		t.Fatalf("read32=%#x, wanted 0xDEADBEEF", got)
	}

	m.Write16(memorymap.Arm9, 0x02000100, 0xBEEF)
	if got := m.Read16(memorymap.Arm9, 0x02000100); got != 0xBEEF {
		t.Fatalf("read16=%#x, wanted 0xBEEF", got)
	}

	m.Write8(memorymap.Arm9, 0x02000200, 0xAB)
	if got := m.Read8(memorymap.Arm9, 0x02000200); got != 0xAB {
		t.Fatalf("read8=%#x, wanted 0xAB", got)
	}
}

func TestUnmappedReadReturnsZero(t *testing.T) {
	m := memory.New(false)
	if got := m.Read8(memorymap.Arm9, 0x0D000000); got != 0 {
		t.Fatalf("unmapped read=%#x, wanted 0", got)
	}
}

func TestBiosWriteDiscarded(t *testing.T) {
	m := memory.New(false)
	before := m.Read8(memorymap.Arm9, 0xFFFF0000)
	m.Write8(memorymap.Arm9, 0xFFFF0000, 0xFF)
	after := m.Read8(memorymap.Arm9, 0xFFFF0000)
	if before != after {
		t.Fatalf("bios write was not discarded: before=%#x after=%#x", before, after)
	}
}

func TestSharedWRAMControlSplitsAccess(t *testing.T) {
	m := memory.New(false)
	m.SharedWRAM().SetControl(3) // all 32KiB to ARM7, none to ARM9
	m.Write8(memorymap.Arm7, 0x03000010, 0x42)
	if got := m.Read8(memorymap.Arm9, 0x03000010); got != 0 {
		t.Fatalf("arm9 should see nothing when wramcnt=3, got %#x", got)
	}
}
