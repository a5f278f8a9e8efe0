package dma

import "github.com/kaedeo/dscore/savestate"

// Section adapts a Controller to savestate.Section.
type Section struct {
	name string
	c    *Controller
}

// NewSection wraps c as a savestate.Section tagged name (e.g. "DMA9",
// "DMA7", "NDMA7").
func NewSection(name string, c *Controller) Section { return Section{name: name, c: c} }

func (s Section) Tag() string { return s.name }

func (s Section) SaveState(w *savestate.Writer) error {
	c := s.c
	w.WriteU32(uint32(len(c.channels)))
	for i := range c.channels {
		ch := &c.channels[i]
		w.WriteU32(ch.srcReg)
		w.WriteU32(ch.dstReg)
		w.WriteU32(ch.countReg)
		w.WriteU32(uint32(ch.width))
		w.WriteU8(uint8(ch.srcCtl))
		w.WriteU8(uint8(ch.dstCtl))
		w.WriteBool(ch.repeat)
		w.WriteBool(ch.irqEnable)
		w.WriteU8(uint8(ch.startMode))
		w.WriteBool(ch.enabled)
		w.WriteU32(ch.src)
		w.WriteU32(ch.dst)
		w.WriteU32(ch.count)
	}
	return nil
}

func (s Section) LoadState(r *savestate.Reader) error {
	c := s.c
	n := int(r.ReadU32())
	for i := 0; i < n && i < len(c.channels); i++ {
		ch := &c.channels[i]
		ch.srcReg = r.ReadU32()
		ch.dstReg = r.ReadU32()
		ch.countReg = r.ReadU32()
		ch.width = Width(r.ReadU32())
		ch.srcCtl = AddrControl(r.ReadU8())
		ch.dstCtl = AddrControl(r.ReadU8())
		ch.repeat = r.ReadBool()
		ch.irqEnable = r.ReadBool()
		ch.startMode = StartMode(r.ReadU8())
		ch.enabled = r.ReadBool()
		ch.src = r.ReadU32()
		ch.dst = r.ReadU32()
		ch.count = r.ReadU32()
	}
	return r.Err()
}
