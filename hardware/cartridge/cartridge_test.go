package cartridge

import (
	"encoding/binary"
	"testing"
)

func testROM() []byte {
	rom := make([]byte, 0x200)
	binary.LittleEndian.PutUint32(rom[0x0C:0x10], 0x45534544) // gamecode "DESE"
	return rom
}

func TestExecuteBeforeLoadReturnsError(t *testing.T) {
	e := New()
	_, err := e.Execute([8]byte{0x90}, 1)
	if err == nil {
		t.Fatal("expected CartridgeNotLoaded error before LoadROM")
	}
}

func TestUnknownCommandFillsDeclaredLength(t *testing.T) {
	e := New()
	if err := e.LoadROM(testROM(), make([]byte, 0x1048)); err != nil {
		t.Fatalf("LoadROM: %v", err)
	}

	words, err := e.Execute([8]byte{0x55}, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(words) != 4 {
		t.Fatalf("got %d words, want 4", len(words))
	}
	for _, w := range words {
		if w != 0xFFFFFFFF {
			t.Fatalf("word = %#x, want 0xFFFFFFFF", w)
		}
	}
}

func TestChipIDCommand(t *testing.T) {
	e := New()
	if err := e.LoadROM(testROM(), make([]byte, 0x1048)); err != nil {
		t.Fatalf("LoadROM: %v", err)
	}
	words, err := e.Execute([8]byte{0x90}, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if words[0] != e.ChipID() {
		t.Fatalf("chip ID command returned %#x, want %#x", words[0], e.ChipID())
	}
}

func TestHeaderReadReturnsROMBytes(t *testing.T) {
	e := New()
	rom := testROM()
	if err := e.LoadROM(rom, make([]byte, 0x1048)); err != nil {
		t.Fatalf("LoadROM: %v", err)
	}
	words, err := e.Execute([8]byte{0x00}, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := binary.LittleEndian.Uint32(rom[0:4])
	if words[0] != want {
		t.Fatalf("header word = %#x, want %#x", words[0], want)
	}
}
