package savestate

import "testing"

type counterSection struct {
	tag   string
	value uint32
}

func (c *counterSection) Tag() string { return c.tag }
func (c *counterSection) SaveState(w *Writer) error {
	w.WriteU32(c.value)
	return nil
}
func (c *counterSection) LoadState(r *Reader) error {
	c.value = r.ReadU32()
	return nil
}

func TestSaveLoadRoundTrip(t *testing.T) {
	a := &counterSection{tag: "a", value: 42}
	b := &counterSection{tag: "b", value: 7}

	data, err := Save([]Section{a, b})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	a2 := &counterSection{tag: "a"}
	b2 := &counterSection{tag: "b"}
	if err := Load(data, []Section{a2, b2}); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if a2.value != 42 || b2.value != 7 {
		t.Fatalf("round trip lost values: a=%d b=%d", a2.value, b2.value)
	}
}

func TestLoadRejectsBadMagic(t *testing.T) {
	if err := Load([]byte("not a savestate at all"), nil); err == nil {
		t.Fatal("expected magic mismatch error")
	}
}

func TestLoadRejectsCorruptedChecksum(t *testing.T) {
	a := &counterSection{tag: "a", value: 1}
	data, _ := Save([]Section{a})
	data[len(data)-1] ^= 0xFF

	if err := Load(data, []Section{a}); err == nil {
		t.Fatal("expected checksum mismatch error")
	}
}

func TestLoadSkipsUnknownSections(t *testing.T) {
	a := &counterSection{tag: "a", value: 1}
	c := &counterSection{tag: "unrecognised", value: 99}
	data, err := Save([]Section{a, c})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	a2 := &counterSection{tag: "a"}
	if err := Load(data, []Section{a2}); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if a2.value != 1 {
		t.Fatalf("a2.value = %d, want 1", a2.value)
	}
}
