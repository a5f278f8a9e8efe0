package saveram

import "testing"

func transferBytes(m *Manager, bytes ...byte) []byte {
	m.Start()
	out := make([]byte, len(bytes))
	for i, b := range bytes {
		out[i] = m.Transfer(b)
	}
	return out
}

func TestWriteRequiresEnableLatch(t *testing.T) {
	m := New(EEPROM64K)
	transferBytes(m, cmdPP, 0x00, 0x00, 0xAB)
	if m.Image()[0] == 0xAB {
		t.Fatal("write should be ignored without WREN")
	}

	transferBytes(m, cmdWREN)
	transferBytes(m, cmdPP, 0x00, 0x00, 0xAB)
	if m.Image()[0] != 0xAB {
		t.Fatal("write should succeed after WREN")
	}
}

func TestReadRoundTrip(t *testing.T) {
	m := New(EEPROM64K)
	transferBytes(m, cmdWREN)
	transferBytes(m, cmdPP, 0x00, 0x10, 0x42)

	m.Start()
	m.Transfer(cmdRead)
	m.Transfer(0x00)
	m.Transfer(0x10)
	got := m.Transfer(0x00)
	if got != 0x42 {
		t.Fatalf("got %#x, want 0x42", got)
	}
}

func TestSectorEraseFillsWithFF(t *testing.T) {
	m := New(Flash256K)
	transferBytes(m, cmdWREN)
	transferBytes(m, cmdPP, 0x00, 0x00, 0x00, 0x99)
	transferBytes(m, cmdWREN)
	transferBytes(m, cmdSE, 0x00, 0x00, 0x00)
	if m.Image()[0] != 0xFF {
		t.Fatal("sector erase should reset bytes to 0xFF")
	}
}

func TestAutoDetectFromAddressWidth(t *testing.T) {
	m := New(Unknown)
	transferBytes(m, cmdWREN)
	transferBytes(m, cmdPP, 0x00, 0x00, 0x00, 0x01)
	if m.Kind() != Flash256K {
		t.Fatalf("kind = %v, want Flash256K for a 3-byte address command", m.Kind())
	}
}
