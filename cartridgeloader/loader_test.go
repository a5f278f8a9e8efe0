package cartridgeloader

import (
	"encoding/binary"
	"testing"
)

func testROM(unitCode byte) []byte {
	rom := make([]byte, 0x200)
	binary.LittleEndian.PutUint32(rom[0x0C:0x10], 0x45534544) // "DESE"
	rom[0x12] = unitCode
	binary.LittleEndian.PutUint32(rom[0x20:0x24], 0x4000)
	binary.LittleEndian.PutUint32(rom[0x24:0x28], 0x02004000)
	binary.LittleEndian.PutUint32(rom[0x30:0x34], 0x8000)
	binary.LittleEndian.PutUint32(rom[0x34:0x38], 0x02380000)
	binary.LittleEndian.PutUint32(rom[0x80:0x84], 2*1024*1024)
	return rom
}

func TestNewLoaderFromDataRejectsEmpty(t *testing.T) {
	if _, err := NewLoaderFromData("game", nil); err == nil {
		t.Fatal("expected error for empty data")
	}
}

func TestPrepareParsesHeaderAndFingerprintsSave(t *testing.T) {
	ld, err := NewLoaderFromData("game", testROM(0x00))
	if err != nil {
		t.Fatalf("NewLoaderFromData: %v", err)
	}

	st, err := Prepare(&ld)
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if st.Header.GameCode != 0x45534544 {
		t.Fatalf("gamecode = %#x, want 0x45534544", st.Header.GameCode)
	}
	if st.Header.Arm9EntryAddr != 0x02004000 {
		t.Fatalf("arm9 entry = %#x, want 0x02004000", st.Header.Arm9EntryAddr)
	}
	if st.Header.IsDSi() {
		t.Fatal("unit code 0x00 should not report DSi")
	}
}

func TestDSiUnitCodeBit(t *testing.T) {
	ld, _ := NewLoaderFromData("game", testROM(0x03))
	st, err := Prepare(&ld)
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if !st.Header.IsDSi() {
		t.Fatal("unit code 0x03 should report DSi")
	}
}

func TestNameFromFilenameStripsKnownExtension(t *testing.T) {
	if got := NameFromFilename("/roms/Game.nds"); got != "Game" {
		t.Fatalf("got %q, want %q", got, "Game")
	}
	if got := NameFromFilename("/roms/Game.xyz"); got != "Game.xyz" {
		t.Fatalf("got %q, want %q", got, "Game.xyz")
	}
}
