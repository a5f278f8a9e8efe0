package memory

import (
	"sort"

	"github.com/kaedeo/dscore/hardware/memory/wram"
	"github.com/kaedeo/dscore/savestate"
)

// Section adapts a MemoryMap to savestate.Section, carrying the bulk
// RAM/VRAM images plus the mapping registers (WRAM control byte,
// new-WRAM slot assignments, VRAM bank mode bytes) needed to
// reconstruct address decoding on load.
type Section struct{ m *MemoryMap }

// NewSection wraps m as a savestate.Section tagged "MEM".
func NewSection(m *MemoryMap) Section { return Section{m: m} }

func (s Section) Tag() string { return "MEM" }

// vramBankOrder is fixed so save and load walk banks in the same
// sequence regardless of Go's randomized map iteration.
var vramBankOrder = []string{"A", "B", "C", "D", "E", "F", "G", "H", "I"}

func (s Section) SaveState(w *savestate.Writer) error {
	m := s.m
	w.WriteBytes(m.mainRAM)
	w.WriteBytes(m.arm7WRAM)
	w.WriteU8(m.shared.Control())
	w.WriteBytes(m.shared.Raw())

	w.WriteBool(m.newWRAM != nil)
	if m.newWRAM != nil {
		w.WriteBytes(m.newWRAM.Raw())
		for slot := 0; slot < 8; slot++ {
			owner, a9, a7, prot := m.newWRAM.SlotState(slot)
			w.WriteU8(uint8(owner))
			w.WriteU32(a9)
			w.WriteU32(a7)
			w.WriteBool(prot)
		}
	}

	names := make([]string, 0, len(m.vramBanks))
	for _, n := range vramBankOrder {
		if _, ok := m.vramBanks[n]; ok {
			names = append(names, n)
		}
	}
	sort.Strings(names)
	w.WriteU32(uint32(len(names)))
	for _, n := range names {
		b := m.vramBanks[n]
		w.WriteU8(b.ModeByte())
		w.WriteBytes(b.Raw())
	}
	return nil
}

func (s Section) LoadState(r *savestate.Reader) error {
	m := s.m
	main := r.ReadBytes()
	copy(m.mainRAM, main)
	arm7 := r.ReadBytes()
	copy(m.arm7WRAM, arm7)
	ctrl := r.ReadU8()
	m.shared.SetControl(ctrl)
	copy(m.shared.Raw(), r.ReadBytes())

	hasNewWRAM := r.ReadBool()
	if hasNewWRAM {
		raw := r.ReadBytes()
		if m.newWRAM == nil {
			m.newWRAM = wram.NewNewWRAM()
		}
		copy(m.newWRAM.Raw(), raw)
		for slot := 0; slot < 8; slot++ {
			owner := wram.NewWRAMOwner(r.ReadU8())
			a9 := r.ReadU32()
			a7 := r.ReadU32()
			prot := r.ReadBool()
			m.newWRAM.RestoreSlot(slot, owner, a9, a7, prot)
		}
	}

	n := int(r.ReadU32())
	for i := 0; i < n; i++ {
		modeByte := r.ReadU8()
		data := r.ReadBytes()
		if i < len(vramBankOrder) {
			name := vramBankOrder[i]
			if b, ok := m.vramBanks[name]; ok {
				copy(b.Raw(), data)
				b.SetModeByte(modeByte)
			}
		}
	}
	return r.Err()
}
