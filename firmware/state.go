package firmware

import "github.com/kaedeo/dscore/savestate"

// Section adapts a Container to savestate.Section. The whole firmware
// image is carried, including Generated, since a Console started from
// a generated default firmware must load back into that same
// generated image rather than expecting a dumped one on disk.
type Section struct{ c *Container }

// NewSection wraps c as a savestate.Section tagged "FIRMWARE".
func NewSection(c *Container) Section { return Section{c: c} }

func (s Section) Tag() string { return "FIRMWARE" }

func (s Section) SaveState(w *savestate.Writer) error {
	c := s.c
	w.WriteBytes(c.Buf)
	w.WriteBool(c.Generated)
	return nil
}

func (s Section) LoadState(r *savestate.Reader) error {
	c := s.c
	c.Buf = r.ReadBytes()
	c.Generated = r.ReadBool()
	return r.Err()
}
