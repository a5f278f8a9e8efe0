// Package timers implements the four 16-bit timer channels each CPU
// owns: a 10-bit prescaler, cascade-from-predecessor mode, and
// overflow-driven IRQ. A channel's value is never incremented tick by
// tick; instead its overflow is scheduled exactly once, in the shape
// the cycle scheduler expects, and the current value is derived from
// elapsed ticks only when something reads it.
package timers

import (
	"github.com/kaedeo/dscore/hardware/interrupt"
	"github.com/kaedeo/dscore/hardware/scheduler"
)

const overflowKind scheduler.Kind = 1

// channelCount is the number of timer channels per CPU.
const channelCount = 4

type channel struct {
	reload    uint16
	prescaler uint // shift amount: 0, 6, 8 or 10
	cascade   bool
	irqEnable bool
	enabled   bool

	armTick scheduler.Tick // tick the channel last took value == reload
	current uint16         // authoritative value for a cascade channel; stale cache otherwise

	eventHandle scheduler.Handle
}

// Controller owns one CPU's four timer channels.
type Controller struct {
	channels [channelCount]channel
	sched    *scheduler.Scheduler
	irq      *interrupt.Controller
	irqBase  uint
}

// New returns a Controller with all four channels disabled.
func New(sched *scheduler.Scheduler, irq *interrupt.Controller, irqBase uint) *Controller {
	return &Controller{sched: sched, irq: irq, irqBase: irqBase}
}

// prescalerShift maps the 2-bit prescaler selector to its tick shift.
func prescalerShift(sel uint8) uint {
	switch sel & 0x3 {
	case 0:
		return 0
	case 1:
		return 6
	case 2:
		return 8
	default:
		return 10
	}
}

// SetReload writes channel ch's reload register: the value the counter
// is set to on enable and on every overflow.
func (c *Controller) SetReload(ch int, value uint16) { c.channels[ch].reload = value }

// SetControl applies channel ch's control fields. A false-to-true
// transition of enable arms the channel: non-cascade channels schedule
// their overflow immediately; cascade channels wait for their
// predecessor to overflow instead.
func (c *Controller) SetControl(ch int, prescalerSel uint8, cascade, irqEnable, enable bool) {
	channel := &c.channels[ch]
	wasEnabled := channel.enabled

	channel.prescaler = prescalerShift(prescalerSel)
	channel.cascade = cascade
	channel.irqEnable = irqEnable
	channel.enabled = enable

	if wasEnabled && !enable {
		c.sched.Cancel(channel.eventHandle)
	}

	if !wasEnabled && enable {
		channel.armTick = c.sched.Now()
		channel.current = channel.reload
		if !cascade {
			c.arm(ch)
		}
	}
}

func (c *Controller) arm(ch int) {
	channel := &c.channels[ch]
	delay := scheduler.Tick((0x10000 - uint32(channel.reload)) << channel.prescaler)
	channel.eventHandle = c.sched.Schedule(c.sched.Now()+delay, overflowKind, uint32(ch), c.onOverflow)
}

func (c *Controller) onOverflow(s *scheduler.Scheduler, now scheduler.Tick, param uint32) {
	ch := int(param)
	channel := &c.channels[ch]
	channel.armTick = now
	channel.current = channel.reload

	if channel.irqEnable {
		c.irq.Raise(c.irqBase + uint(ch))
	}
	c.cascadeInto(ch+1, now)

	if channel.enabled {
		c.arm(ch)
	}
}

// cascadeInto increments a cascade-mode channel by one tick of its
// predecessor's overflow, chaining further if it overflows in turn.
func (c *Controller) cascadeInto(ch int, now scheduler.Tick) {
	if ch >= channelCount {
		return
	}
	channel := &c.channels[ch]
	if !channel.enabled || !channel.cascade {
		return
	}

	channel.current++
	if channel.current != 0 {
		return
	}

	channel.current = channel.reload
	if channel.irqEnable {
		c.irq.Raise(c.irqBase + uint(ch))
	}
	c.cascadeInto(ch+1, now)
}

// Value returns channel ch's current 16-bit counter value, derived
// from elapsed ticks since it was last armed for a non-cascade
// channel, or from the explicit cascade counter otherwise.
func (c *Controller) Value(ch int) uint16 {
	channel := &c.channels[ch]
	if !channel.enabled || channel.cascade {
		return channel.current
	}
	elapsed := uint32(c.sched.Now() - channel.armTick)
	return uint16(uint32(channel.reload) + (elapsed >> channel.prescaler))
}

// Enabled reports whether channel ch is running.
func (c *Controller) Enabled(ch int) bool { return c.channels[ch].enabled }
