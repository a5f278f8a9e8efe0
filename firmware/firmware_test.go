package firmware

import "testing"

func TestGenerateDefaultProducesValidChecksum(t *testing.T) {
	c := GenerateDefault()
	ud := c.EffectiveUserData()
	if !ud.ChecksumValid() {
		t.Fatal("generated firmware's user data should have a valid checksum")
	}
	if ud.Nickname != "dscore" {
		t.Fatalf("nickname = %q, want %q", ud.Nickname, "dscore")
	}
}

func TestEffectiveUserDataPrefersValidChecksum(t *testing.T) {
	c := GenerateDefault()

	corrupt := ParseUserData(c.userDataBlock(1))
	corrupt.Checksum ^= 0xFFFF
	c.writeUserData(1, corrupt)

	eff := c.EffectiveUserData()
	if !eff.ChecksumValid() {
		t.Fatal("effective user data should be the block with the valid checksum")
	}
}

func TestEffectiveUserDataPrefersHigherUpdateCounterWhenBothValid(t *testing.T) {
	c := GenerateDefault()
	c.SetUserData(defaultUserData())

	second := ParseUserData(c.userDataBlock(1))
	if second.UpdateCounter == 0 {
		t.Fatal("second slot should have an incremented update counter")
	}

	eff := c.EffectiveUserData()
	if eff.UpdateCounter != second.UpdateCounter {
		t.Fatalf("effective update counter = %d, want %d", eff.UpdateCounter, second.UpdateCounter)
	}
}

func TestLoadRejectsWrongSize(t *testing.T) {
	if _, err := Load(make([]byte, 123)); err == nil {
		t.Fatal("expected size validation error")
	}
}
