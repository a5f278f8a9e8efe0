package timers

import (
	"testing"

	"github.com/kaedeo/dscore/hardware/interrupt"
	"github.com/kaedeo/dscore/hardware/scheduler"
)

func TestOverflowAfterPrescaledTickCount(t *testing.T) {
	sched := scheduler.New()
	irq := interrupt.New()
	irq.SetIME(true)
	irq.SetIE(1 << 3)
	c := New(sched, irq, 3)

	// reload = 0xFFFF, prescaler shift 10 -> one increment needs 1024
	// ticks, and the channel is one increment away from overflow.
	c.SetReload(0, 0xFFFF)
	c.SetControl(0, 3, false, true, true)

	sched.RunUntil(scheduler.Tick(1023), func(scheduler.Tick, scheduler.Tick) {})
	if irq.Poll() {
		t.Fatal("overflow fired before 1024 prescaled ticks elapsed")
	}

	sched.RunUntil(scheduler.Tick(1024), func(scheduler.Tick, scheduler.Tick) {})
	if !irq.Poll() {
		t.Fatal("expected overflow IRQ after exactly 1024 ticks")
	}
}

func TestValueIncreasesBetweenOverflows(t *testing.T) {
	sched := scheduler.New()
	irq := interrupt.New()
	c := New(sched, irq, 0)

	c.SetReload(0, 0)
	c.SetControl(0, 0, false, false, true) // prescaler shift 0: 1 tick per increment

	sched.RunUntil(scheduler.Tick(10), func(scheduler.Tick, scheduler.Tick) {})
	if got := c.Value(0); got != 10 {
		t.Fatalf("value = %d, want 10", got)
	}
}

func TestCascadeIncrementsOnPredecessorOverflow(t *testing.T) {
	sched := scheduler.New()
	irq := interrupt.New()
	c := New(sched, irq, 0)

	// channel 0: prescaler shift 0, reload 0xFFFE -> overflows every 2 ticks.
	c.SetReload(0, 0xFFFE)
	c.SetControl(0, 0, false, false, true)

	// channel 1: cascade, starts at reload 0.
	c.SetReload(1, 0)
	c.SetControl(1, 0, true, false, true)

	sched.RunUntil(scheduler.Tick(2), func(scheduler.Tick, scheduler.Tick) {})
	if got := c.Value(1); got != 1 {
		t.Fatalf("cascade value after one predecessor overflow = %d, want 1", got)
	}

	sched.RunUntil(scheduler.Tick(4), func(scheduler.Tick, scheduler.Tick) {})
	if got := c.Value(1); got != 2 {
		t.Fatalf("cascade value after two predecessor overflows = %d, want 2", got)
	}
}

func TestDisablingCancelsScheduledOverflow(t *testing.T) {
	sched := scheduler.New()
	irq := interrupt.New()
	irq.SetIME(true)
	irq.SetIE(1)
	c := New(sched, irq, 0)

	c.SetReload(0, 0xFFFE)
	c.SetControl(0, 0, false, true, true)
	c.SetControl(0, 0, false, true, false)

	sched.RunUntil(scheduler.Tick(100), func(scheduler.Tick, scheduler.Tick) {})
	if irq.Poll() {
		t.Fatal("disabled channel should not fire its cancelled overflow event")
	}
}
