package saveram

import "github.com/kaedeo/dscore/savestate"

// Section adapts a Manager to savestate.Section. The backing buffer is
// included in full, so a savestate round-trip also carries the save
// data itself rather than relying on a save file written separately.
type Section struct{ m *Manager }

// NewSection wraps m as a savestate.Section tagged "SAVERAM".
func NewSection(m *Manager) Section { return Section{m: m} }

func (s Section) Tag() string { return "SAVERAM" }

func (s Section) SaveState(w *savestate.Writer) error {
	m := s.m
	w.WriteU8(uint8(m.kind))
	w.WriteBool(m.autoDetected)
	w.WriteBool(m.writeEnableLatch)
	w.WriteU8(uint8(m.ph))
	w.WriteU8(m.cmd)
	w.WriteU32(uint32(m.addrBytes))
	w.WriteU32(m.addr)
	w.WriteBytes(m.buf)
	return nil
}

func (s Section) LoadState(r *savestate.Reader) error {
	m := s.m
	m.kind = ChipKind(r.ReadU8())
	m.autoDetected = r.ReadBool()
	m.writeEnableLatch = r.ReadBool()
	m.ph = phase(r.ReadU8())
	m.cmd = r.ReadU8()
	m.addrBytes = int(r.ReadU32())
	m.addr = r.ReadU32()
	m.buf = r.ReadBytes()
	return r.Err()
}
