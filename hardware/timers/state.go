package timers

import (
	"github.com/kaedeo/dscore/hardware/scheduler"
	"github.com/kaedeo/dscore/savestate"
)

// Section adapts a Controller to savestate.Section. Outstanding
// overflow events are not themselves serialized -- on load, every
// enabled non-cascade channel re-arms its own event against the
// scheduler's restored tick, per the re-arm-on-load convention this
// codebase uses throughout rather than serializing scheduler.Handle
// values directly.
type Section struct {
	name string
	c    *Controller
}

// NewSection wraps c as a savestate.Section tagged name (e.g. "TM9",
// "TM7").
func NewSection(name string, c *Controller) Section { return Section{name: name, c: c} }

func (s Section) Tag() string { return s.name }

func (s Section) SaveState(w *savestate.Writer) error {
	c := s.c
	for i := range c.channels {
		ch := &c.channels[i]
		w.WriteU16(ch.reload)
		w.WriteU32(uint32(ch.prescaler))
		w.WriteBool(ch.cascade)
		w.WriteBool(ch.irqEnable)
		w.WriteBool(ch.enabled)
		w.WriteU64(uint64(ch.armTick))
		w.WriteU16(ch.current)
	}
	return nil
}

func (s Section) LoadState(r *savestate.Reader) error {
	c := s.c
	for i := range c.channels {
		ch := &c.channels[i]
		ch.reload = r.ReadU16()
		ch.prescaler = uint(r.ReadU32())
		ch.cascade = r.ReadBool()
		ch.irqEnable = r.ReadBool()
		ch.enabled = r.ReadBool()
		ch.armTick = scheduler.Tick(r.ReadU64())
		ch.current = r.ReadU16()

		if ch.enabled && !ch.cascade {
			c.arm(i)
		}
	}
	return r.Err()
}
