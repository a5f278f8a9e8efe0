package interrupt

import "github.com/kaedeo/dscore/savestate"

// Section adapts a Controller to savestate.Section. name distinguishes
// the two controllers (e.g. "IRQ9", "IRQ7") since a Controller does not
// know which CPU it belongs to.
type Section struct {
	name string
	c    *Controller
}

// NewSection wraps c as a savestate.Section tagged name (e.g. "IRQ9",
// "IRQ7").
func NewSection(name string, c *Controller) Section { return Section{name: name, c: c} }

func (s Section) Tag() string { return s.name }

func (s Section) SaveState(w *savestate.Writer) error {
	c := s.c
	w.WriteBool(c.ime)
	w.WriteU32(c.ie)
	w.WriteU32(c.if_)
	w.WriteU32(c.ie2)
	w.WriteU32(c.if2)
	w.WriteBool(c.ext)
	w.WriteU8(uint8(c.halted))
	return nil
}

func (s Section) LoadState(r *savestate.Reader) error {
	c := s.c
	c.ime = r.ReadBool()
	c.ie = r.ReadU32()
	c.if_ = r.ReadU32()
	c.ie2 = r.ReadU32()
	c.if2 = r.ReadU32()
	c.ext = r.ReadBool()
	c.halted = HaltState(r.ReadU8())
	return r.Err()
}
