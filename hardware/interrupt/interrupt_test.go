package interrupt_test

import (
	"testing"

	"github.com/kaedeo/dscore/hardware/interrupt"
)

func TestPollRequiresIMEAndMask(t *testing.T) {
	c := interrupt.New()
	c.SetIE(0x1)
	c.Raise(0)
	if c.Poll() {
		t.Fatal("poll true with IME disabled")
	}
	c.SetIME(true)
	if !c.Poll() {
		t.Fatal("poll false with IME enabled and matching IE/IF")
	}
}

func TestAcknowledgeClearsBit(t *testing.T) {
	c := interrupt.New()
	c.SetIME(true)
	c.SetIE(0x3)
	c.Raise(0)
	c.Raise(1)
	c.Acknowledge(0x1)
	if c.IF() != 0x2 {
		t.Fatalf("IF=%#x, wanted 0x2", c.IF())
	}
}

func TestRaiseWakesWaitIRQ(t *testing.T) {
	c := interrupt.New()
	woke := false
	c.OnWake(func() { woke = true })
	c.Halt(interrupt.WaitIRQ)
	c.Raise(5)
	if !woke {
		t.Fatal("raise did not invoke wake callback")
	}
	if c.Halted() != interrupt.Running {
		t.Fatal("halted state not cleared")
	}
}

func TestRaiseWakesWaitIEIFOnlyWhenMatched(t *testing.T) {
	c := interrupt.New()
	c.SetIE(0x4) // bit 2 only
	woke := false
	c.OnWake(func() { woke = true })
	c.Halt(interrupt.WaitIEIF)

	c.Raise(0) // unrelated source: must not wake
	if woke {
		t.Fatal("woke on unmatched source")
	}
	c.Raise(2) // matches IE
	if !woke {
		t.Fatal("did not wake on matched source")
	}
}

func TestExtendedIF2(t *testing.T) {
	c := interrupt.NewExtended()
	c.SetIME(true)
	c.SetIE2(0x1)
	c.Raise(32) // bit 0 of the extended word
	if !c.Poll() {
		t.Fatal("extended source did not register as pending")
	}
	c.AcknowledgeExt(0x1)
	if c.IF2() != 0 {
		t.Fatal("extended acknowledge did not clear IF2")
	}
}
