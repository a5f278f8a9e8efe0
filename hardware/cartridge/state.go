package cartridge

import "github.com/kaedeo/dscore/savestate"

// Section adapts an Engine to savestate.Section. The ROM image itself
// is not serialized -- it is reloaded from the frontend's ROM path
// before LoadState runs -- but the BIOS key buffer captured at LoadROM
// time is, so k1 can be re-derived deterministically rather than
// serializing Blowfish's expanded P-array/S-boxes. k2's single LFSR
// word is small enough to serialize directly.
type Section struct{ e *Engine }

// NewSection wraps e as a savestate.Section tagged "CART". The nested
// save-chip manager is serialized as its own "SAVERAM" section; pass
// both to savestate.Save/Load.
func NewSection(e *Engine) Section { return Section{e: e} }

func (s Section) Tag() string { return "CART" }

func (s Section) SaveState(w *savestate.Writer) error {
	e := s.e
	w.WriteU32(e.gamecode)
	w.WriteBool(e.loaded)
	w.WriteU8(uint8(e.phase))
	w.WriteU32(uint32(e.handshakeLevel))
	w.WriteBytes(e.biosKeyBuffer)
	hasKey2 := e.k2 != nil
	w.WriteBool(hasKey2)
	if hasKey2 {
		w.WriteU64(e.k2.state)
	}
	return nil
}

func (s Section) LoadState(r *savestate.Reader) error {
	e := s.e
	e.gamecode = r.ReadU32()
	e.loaded = r.ReadBool()
	e.phase = Phase(r.ReadU8())
	e.handshakeLevel = int(r.ReadU32())
	e.biosKeyBuffer = r.ReadBytes()
	hasKey2 := r.ReadBool()
	if hasKey2 {
		e.k2 = &key2{state: r.ReadU64()}
	} else {
		e.k2 = nil
	}

	if e.loaded {
		e.k1 = newKey1(e.biosKeyBuffer, e.gamecode, e.handshakeLevel)
	}

	return r.Err()
}
