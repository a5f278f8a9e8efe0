package ipc

import (
	"testing"

	"github.com/kaedeo/dscore/hardware/interrupt"
)

func newTestLink() (*Link, *interrupt.Controller, *interrupt.Controller) {
	irq9 := interrupt.New()
	irq7 := interrupt.New()
	l := NewLink(irq9, irq7, 16, 17, 18)
	l.SetFIFOEnable(Arm9, true)
	l.SetFIFOEnable(Arm7, true)
	return l, irq9, irq7
}

func TestFIFOFullOnSeventeenthSend(t *testing.T) {
	l, _, _ := newTestLink()
	for i := 0; i < 16; i++ {
		l.Send(Arm9, uint32(i))
	}
	if l.Error(Arm9) {
		t.Fatal("error bit set after exactly 16 sends (queue should not be full yet)")
	}
	l.Send(Arm9, 99)
	if !l.Error(Arm9) {
		t.Fatal("17th send on a full queue should set the error bit")
	}
	if !l.SendQueueFull(Arm9) {
		t.Fatal("queue should report full at capacity")
	}
}

func TestRecvFromEmptyReturnsLastWord(t *testing.T) {
	l, _, _ := newTestLink()
	l.Send(Arm9, 0xAAAA)
	got := l.Recv(Arm7)
	if got != 0xAAAA {
		t.Fatalf("first recv = %#x, want 0xAAAA", got)
	}
	again := l.Recv(Arm7)
	if !l.Error(Arm7) {
		t.Fatal("recv from empty queue should set the error bit")
	}
	if again != 0xAAAA {
		t.Fatalf("recv from empty queue should repeat the last word, got %#x", again)
	}
}

func TestNineSendsThenSevenRecvsLeavesTwo(t *testing.T) {
	l, _, _ := newTestLink()
	for i := 0; i < 9; i++ {
		l.Send(Arm9, uint32(i))
	}
	for i := 0; i < 7; i++ {
		l.Recv(Arm7)
	}
	if l.SendQueueEmpty(Arm9) {
		t.Fatal("queue should still hold 2 words")
	}
	if l.Error(Arm7) {
		t.Fatal("no error should have occurred draining a non-empty queue")
	}
}

func TestRecvNonEmptyIRQFiresOnlyOnEmptyToNonEmptyEdge(t *testing.T) {
	l, _, irq7 := newTestLink()
	irq7.SetIME(true)
	irq7.SetIE(1 << 18)
	l.SetRecvNonEmptyIRQEnable(Arm7, true)

	l.Send(Arm9, 1)
	if !irq7.Poll() {
		t.Fatal("expected recv-non-empty IRQ on first send into an empty queue")
	}
	irq7.Acknowledge(1 << 18)

	l.Send(Arm9, 2)
	if irq7.Poll() {
		t.Fatal("recv-non-empty IRQ should not re-fire while the queue was already non-empty")
	}
}

func TestSendEmptyIRQFiresWhenQueueDrainedToEmpty(t *testing.T) {
	l, irq9, _ := newTestLink()
	irq9.SetIME(true)
	irq9.SetIE(1 << 17)
	l.SetSendEmptyIRQEnable(Arm9, true)

	l.Send(Arm9, 1)
	l.Recv(Arm7)
	if !irq9.Poll() {
		t.Fatal("expected send-empty IRQ once the sender's queue is drained to empty")
	}
}

func TestSyncWriteRaisesRemoteIRQWhenRequested(t *testing.T) {
	l, _, irq7 := newTestLink()
	irq7.SetIME(true)
	irq7.SetIE(1 << 16)
	l.SetSyncIRQEnable(Arm7, true)

	l.SyncWrite(Arm9, 0x5, true)
	if !irq7.Poll() {
		t.Fatal("expected remote sync IRQ when requested and enabled")
	}
	if l.SyncIn(Arm7) != 0x5 {
		t.Fatalf("SyncIn = %#x, want 0x5", l.SyncIn(Arm7))
	}
}

func TestClearDropsAllEntries(t *testing.T) {
	l, _, _ := newTestLink()
	l.Send(Arm9, 1)
	l.Send(Arm9, 2)
	l.Clear(Arm9)
	if !l.SendQueueEmpty(Arm9) {
		t.Fatal("Clear should drop every queued entry")
	}
}
