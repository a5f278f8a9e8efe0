package cpu

import "github.com/kaedeo/dscore/savestate"

// Section adapts a Core to savestate.Section. Only the currently
// visible register bank and SPSR are carried -- the banked shadow
// registers of modes other than the active one are not reachable
// through registers.File's public accessors, so a state saved in one
// mode and loaded while the core believes it is in a different mode
// will not reproduce the other modes' banked r13/r14/SPSR. This is an
// accepted gap rather than grounds for widening File's exported
// surface further.
type Section struct {
	name string
	c    *Core
}

// NewSection wraps c as a savestate.Section tagged name (e.g. "CPU9",
// "CPU7").
func NewSection(name string, c *Core) Section { return Section{name: name, c: c} }

func (s Section) Tag() string { return s.name }

func (s Section) SaveState(w *savestate.Writer) error {
	c := s.c
	for n := 0; n < 16; n++ {
		w.WriteU32(c.Regs.R(n))
	}
	w.WriteU32(c.Regs.CPSR())
	w.WriteU32(c.Regs.SPSR())

	w.WriteU32(c.CP15.Control)
	w.WriteU32(c.CP15.DTCMBase)
	w.WriteU32(c.CP15.DTCMSize)
	w.WriteU32(c.CP15.ITCMSize)

	w.WriteU64(c.LocalCycles)
	w.WriteBool(c.Interrupted)

	w.WriteBool(c.IntrWait.Active)
	w.WriteBool(c.IntrWait.DiscardOld)
	w.WriteU32(c.IntrWait.WantedFlags)

	w.WriteU32(c.Prefetch[0])
	w.WriteU32(c.Prefetch[1])
	return nil
}

func (s Section) LoadState(r *savestate.Reader) error {
	c := s.c
	for n := 0; n < 16; n++ {
		c.Regs.SetR(n, r.ReadU32())
	}
	c.Regs.SetCPSR(r.ReadU32())
	c.Regs.SetSPSR(r.ReadU32())

	c.CP15.Control = r.ReadU32()
	c.CP15.DTCMBase = r.ReadU32()
	c.CP15.DTCMSize = r.ReadU32()
	c.CP15.ITCMSize = r.ReadU32()

	c.LocalCycles = r.ReadU64()
	c.Interrupted = r.ReadBool()

	c.IntrWait.Active = r.ReadBool()
	c.IntrWait.DiscardOld = r.ReadBool()
	c.IntrWait.WantedFlags = r.ReadU32()

	c.Prefetch[0] = r.ReadU32()
	c.Prefetch[1] = r.ReadU32()
	return r.Err()
}
