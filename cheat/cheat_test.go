package cheat

import "testing"

type fakeBus struct {
	writes8  map[uint32]uint8
	writes16 map[uint32]uint16
	writes32 map[uint32]uint32
}

func newFakeBus() *fakeBus {
	return &fakeBus{
		writes8:  map[uint32]uint8{},
		writes16: map[uint32]uint16{},
		writes32: map[uint32]uint32{},
	}
}
func (b *fakeBus) Write8(addr uint32, v uint8)   { b.writes8[addr] = v }
func (b *fakeBus) Write16(addr uint32, v uint16) { b.writes16[addr] = v }
func (b *fakeBus) Write32(addr uint32, v uint32) { b.writes32[addr] = v }

func TestParseRejectsBadMagic(t *testing.T) {
	_, err := Parse([]byte("not-a-cheat-list-at-all!!"))
	if err == nil {
		t.Fatal("expected magic mismatch error")
	}
}

func TestSerializeParseRoundTrip(t *testing.T) {
	l := New()
	l.Codes = append(l.Codes, Code{
		Name:    "infinite hp",
		Words:   []uint32{0x02001000, 999},
		Enabled: true,
	})

	data := l.Serialize()
	got, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(got.Codes) != 1 || got.Codes[0].Name != "infinite hp" {
		t.Fatalf("round trip lost the code: %+v", got.Codes)
	}
	if got.Codes[0].Words[1] != 999 {
		t.Fatalf("word[1] = %d, want 999", got.Codes[0].Words[1])
	}
}

func TestApplySkipsDisabledCodes(t *testing.T) {
	l := New()
	l.Codes = append(l.Codes,
		Code{Name: "on", Words: []uint32{0x00001000, 0xAAAA}, Enabled: true},
		Code{Name: "off", Words: []uint32{0x00002000, 0xBBBB}, Enabled: false},
	)

	bus := newFakeBus()
	l.Apply(bus)

	if bus.writes32[0x1000] != 0xAAAA {
		t.Fatal("enabled code should have applied its write")
	}
	if _, ok := bus.writes32[0x2000]; ok {
		t.Fatal("disabled code should not have applied its write")
	}
}

func TestApplyDecodesWidthFromTopNibble(t *testing.T) {
	l := New()
	l.Codes = append(l.Codes, Code{
		Name: "widths",
		Words: []uint32{
			0x00001000, 0x11223344,
			0x10002000, 0x00005566,
			0x20003000, 0x00000077,
		},
		Enabled: true,
	})

	bus := newFakeBus()
	l.Apply(bus)

	if bus.writes32[0x1000] != 0x11223344 {
		t.Fatal("32-bit opcode not applied")
	}
	if bus.writes16[0x2000] != 0x5566 {
		t.Fatal("16-bit opcode not applied")
	}
	if bus.writes8[0x3000] != 0x77 {
		t.Fatal("8-bit opcode not applied")
	}
}
